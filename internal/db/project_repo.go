package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ProjectRepository handles database operations for projects and their
// component instances
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = "id, name, path, status, created_at, updated_at"

// List returns all projects, newest first, without component instances
func (r *ProjectRepository) List(ctx context.Context) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	var projects []Project
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	return projects, nil
}

// Get returns a project by ID with its component instances loaded
func (r *ProjectRepository) Get(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	var p Project
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := r.loadComponents(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByName returns a project by name with its component instances loaded
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE name = ?`

	var p Project
	if err := r.db.GetContext(ctx, &p, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := r.loadComponents(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCurrent returns the project marked as current, or nil when none is
func (r *ProjectRepository) GetCurrent(ctx context.Context) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE is_current = 1 LIMIT 1`

	var p Project
	if err := r.db.GetContext(ctx, &p, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current project: %w", err)
	}

	if err := r.loadComponents(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetCurrent marks one project as current, clearing the flag elsewhere
func (r *ProjectRepository) SetCurrent(ctx context.Context, id string) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE projects SET is_current = 0`); err != nil {
			return fmt.Errorf("failed to clear current project: %w", err)
		}
		result, err := tx.ExecContext(ctx, `UPDATE projects SET is_current = 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to set current project: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("project not found")
		}
		return nil
	})
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (id, name, path, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Path,
		project.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Update persists project fields and all component instances
func (r *ProjectRepository) Update(ctx context.Context, project *Project) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE projects
			SET name = ?, path = ?, status = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`

		result, err := tx.ExecContext(ctx, query, project.Name, project.Path, project.Status, project.ID)
		if err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("project not found")
		}

		for _, comp := range project.Components {
			if err := upsertComponent(ctx, tx, comp); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus updates only the status of a project
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status ProjectStatus) error {
	query := `
		UPDATE projects
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// Delete deletes a project; component instances cascade
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// RemoveComponent deletes one component instance from a project
func (r *ProjectRepository) RemoveComponent(ctx context.Context, projectID, componentID string) error {
	query := `DELETE FROM component_instances WHERE project_id = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query, projectID, componentID)
	if err != nil {
		return fmt.Errorf("failed to remove component: %w", err)
	}
	return nil
}

// loadComponents populates the Components map for a project
func (r *ProjectRepository) loadComponents(ctx context.Context, p *Project) error {
	query := `
		SELECT id, project_id, name, type, status, port, pid, path, version, metadata, created_at, updated_at
		FROM component_instances
		WHERE project_id = ?`

	var components []ComponentInstance
	if err := r.db.SelectContext(ctx, &components, query, p.ID); err != nil {
		return fmt.Errorf("failed to load components: %w", err)
	}

	p.Components = make(map[string]*ComponentInstance, len(components))
	for i := range components {
		comp := components[i]
		p.Components[comp.ID] = &comp
	}
	return nil
}

func upsertComponent(ctx context.Context, tx *sqlx.Tx, comp *ComponentInstance) error {
	query := `
		INSERT INTO component_instances (id, project_id, name, type, status, port, pid, path, version, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			status = excluded.status,
			port = excluded.port,
			pid = excluded.pid,
			path = excluded.path,
			version = excluded.version,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP`

	_, err := tx.ExecContext(ctx, query,
		comp.ID,
		comp.ProjectID,
		comp.Name,
		comp.Type,
		comp.Status,
		comp.Port,
		comp.PID,
		comp.Path,
		comp.Version,
		comp.Metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert component: %w", err)
	}
	return nil
}
