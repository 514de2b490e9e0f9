package commands

import (
	"context"

	"demoforge/internal/config"
	"demoforge/internal/db"
	"demoforge/internal/eds"
	"demoforge/internal/mesh"
)

// ProjectStore is the slice of state management the CLI needs
type ProjectStore interface {
	GetCurrentProject(ctx context.Context) (*db.Project, error)
	GetProject(ctx context.Context, name string) (*db.Project, error)
	ListProjects(ctx context.Context) ([]db.Project, error)
	CreateProject(ctx context.Context, name, path string) (*db.Project, error)
	SaveProject(ctx context.Context, project *db.Project) error
	SetCurrentProject(ctx context.Context, projectID string) error
}

// CatalogProvider supplies the component catalog
type CatalogProvider interface {
	Catalog(ctx context.Context) (*config.ComponentCatalog, error)
}

// Lifecycle drives start/stop/delete on the current project
type Lifecycle interface {
	StartDemo(ctx context.Context) error
	StopDemo(ctx context.Context) error
	DeleteProject(ctx context.Context) error
}

// MeshManager deploys and inspects API Mesh configurations
type MeshManager interface {
	DeployMesh(ctx context.Context, configPath string, onProgress mesh.ProgressFunc) (*mesh.Result, error)
	CheckMeshStatus(ctx context.Context, workspace string) (*mesh.CheckResult, error)
}

// SetupRunner runs the EDS project setup pipeline
type SetupRunner interface {
	Run(ctx context.Context, cfg eds.SetupConfig) *eds.SetupResult
}
