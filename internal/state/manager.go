// Package state owns the persisted Project aggregate. Lifecycle commands
// borrow a project for the duration of one operation and persist it back
// through this manager; nothing else writes project rows.
package state

import (
	"context"

	"github.com/google/uuid"

	"demoforge/internal/db"
	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

// Manager is the persistence boundary for projects. The interface-shaped
// usage in lifecycle commands lets tests substitute an in-memory fake.
type Manager struct {
	projects *db.ProjectRepository
}

// New creates a state manager over the given database
func New(database *db.DB) *Manager {
	return &Manager{
		projects: db.NewProjectRepository(database),
	}
}

// GetCurrentProject returns the project the user is working on, or nil
// when none has been selected
func (m *Manager) GetCurrentProject(ctx context.Context) (*db.Project, error) {
	project, err := m.projects.GetCurrent(ctx)
	if err != nil {
		return nil, errors.DatabaseQueryError("get current project", err)
	}
	return project, nil
}

// GetProject returns a project by name
func (m *Manager) GetProject(ctx context.Context, name string) (*db.Project, error) {
	project, err := m.projects.GetByName(ctx, name)
	if err != nil {
		return nil, errors.ProjectNotFound(name).WithCause(err)
	}
	return project, nil
}

// ListProjects returns all known projects
func (m *Manager) ListProjects(ctx context.Context) ([]db.Project, error) {
	projects, err := m.projects.List(ctx)
	if err != nil {
		return nil, errors.DatabaseQueryError("list projects", err)
	}
	return projects, nil
}

// CreateProject registers a new project and selects it as current
func (m *Manager) CreateProject(ctx context.Context, name, path string) (*db.Project, error) {
	project := &db.Project{
		ID:         uuid.New().String(),
		Name:       name,
		Path:       path,
		Status:     db.StatusCreated,
		Components: map[string]*db.ComponentInstance{},
	}

	if err := m.projects.Create(ctx, project); err != nil {
		return nil, errors.DatabaseQueryError("create project", err)
	}
	if err := m.projects.SetCurrent(ctx, project.ID); err != nil {
		return nil, errors.DatabaseQueryError("set current project", err)
	}

	logger.WithFields(logger.Fields{
		"project": name,
		"path":    path,
	}).Info("Project created")

	return project, nil
}

// SaveProject persists the project and all of its component instances.
// Last writer wins; per-project serialization is the caller's job (the
// lifecycle command runner holds a per-project lock).
func (m *Manager) SaveProject(ctx context.Context, project *db.Project) error {
	if err := m.projects.Update(ctx, project); err != nil {
		return errors.DatabaseQueryError("save project", err)
	}
	return nil
}

// ClearProject removes the project and its components from state
func (m *Manager) ClearProject(ctx context.Context, projectID string) error {
	if err := m.projects.Delete(ctx, projectID); err != nil {
		return errors.DatabaseQueryError("clear project", err)
	}

	logger.WithField("project_id", projectID).Info("Project state cleared")
	return nil
}

// SetCurrentProject selects a project as the working project
func (m *Manager) SetCurrentProject(ctx context.Context, projectID string) error {
	if err := m.projects.SetCurrent(ctx, projectID); err != nil {
		return errors.DatabaseQueryError("set current project", err)
	}
	return nil
}
