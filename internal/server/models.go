package server

import (
	"time"

	"demoforge/internal/db"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// SystemStatusResponse reports dashboard server health
type SystemStatusResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Database     string `json:"database"`
	ProjectCount int    `json:"project_count"`
}

// ProjectResponse is the API view of a project
type ProjectResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Path       string              `json:"path"`
	Status     db.ProjectStatus    `json:"status"`
	Components []ComponentResponse `json:"components"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ComponentResponse is the API view of a component instance
type ComponentResponse struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Type   db.ComponentType `json:"type"`
	Port   int              `json:"port,omitempty"`
	PID    int32            `json:"pid,omitempty"`
	Status string           `json:"status,omitempty"`
}

// ProjectsResponse wraps a project list
type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

// MeshStatusResponse reports mesh deployment status for a workspace
type MeshStatusResponse struct {
	MeshExists bool   `json:"mesh_exists"`
	MeshStatus string `json:"mesh_status,omitempty"`
	MeshID     string `json:"mesh_id,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Error      string `json:"error,omitempty"`
}

// projectResponse converts a db.Project to its API view
func projectResponse(p *db.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Path:      p.Path,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, comp := range p.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			ID:     comp.ID,
			Name:   comp.Name,
			Type:   comp.Type,
			Port:   comp.Port,
			PID:    comp.PID,
			Status: comp.Status,
		})
	}
	return resp
}
