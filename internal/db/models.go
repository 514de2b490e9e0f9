// Package db provides database models for demoforge
package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONB represents a JSON column stored as text in SQLite
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*j = nil
			return nil
		}
		return json.Unmarshal(v, j)
	case string:
		if v == "" {
			*j = nil
			return nil
		}
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("type assertion to []byte or string failed")
	}
}

// ProjectStatus represents the lifecycle status of a demo project.
// Transitions are monotonic within one lifecycle operation; a failed
// operation reverts to the pre-operation status, never to an
// intermediate one.
type ProjectStatus string

const (
	StatusCreated     ProjectStatus = "created"
	StatusConfiguring ProjectStatus = "configuring"
	StatusReady       ProjectStatus = "ready"
	StatusStarting    ProjectStatus = "starting"
	StatusRunning     ProjectStatus = "running"
	StatusStopping    ProjectStatus = "stopping"
	StatusStopped     ProjectStatus = "stopped"
	StatusError       ProjectStatus = "error"
)

// ComponentType classifies a configured component within a project
type ComponentType string

const (
	ComponentFrontend    ComponentType = "frontend"
	ComponentBackend     ComponentType = "backend"
	ComponentMesh        ComponentType = "mesh"
	ComponentIntegration ComponentType = "integration"
)

// Project is the persisted aggregate root for one demo project
type Project struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Path      string        `json:"path" db:"path"` // Local filesystem path
	Status    ProjectStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`

	// Components is loaded alongside the project row; it is not a column.
	Components map[string]*ComponentInstance `json:"componentInstances" db:"-"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Component returns the instance for the given component id, or nil
func (p *Project) Component(id string) *ComponentInstance {
	if p.Components == nil {
		return nil
	}
	return p.Components[id]
}

// Frontend returns the project's frontend component, or nil when none
// is configured. Lifecycle commands operate on this instance.
func (p *Project) Frontend() *ComponentInstance {
	for _, c := range p.Components {
		if c.Type == ComponentFrontend {
			return c
		}
	}
	return nil
}

// ComponentInstance is one configured component within a project.
// Port, when set, is always inside [1, 65535]; PID refers to a process
// demoforge itself spawned or adopted.
type ComponentInstance struct {
	ID        string        `json:"id" db:"id"`
	ProjectID string        `json:"project_id" db:"project_id"`
	Name      string        `json:"name" db:"name"`
	Type      ComponentType `json:"type,omitempty" db:"type"`
	Status    string        `json:"status" db:"status"`
	Port      int           `json:"port,omitempty" db:"port"`
	PID       int32         `json:"pid,omitempty" db:"pid"`
	Path      string        `json:"path,omitempty" db:"path"`
	Version   string        `json:"version,omitempty" db:"version"`
	Metadata  JSONB         `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for ComponentInstance
func (ComponentInstance) TableName() string {
	return "component_instances"
}

// NodeVersion returns the node version recorded for this component, if any
func (c *ComponentInstance) NodeVersion() string {
	if c.Metadata == nil {
		return ""
	}
	if v, ok := c.Metadata["nodeVersion"].(string); ok {
		return v
	}
	return ""
}

// StartCommand returns the dev-server command recorded for this
// component, if any
func (c *ComponentInstance) StartCommand() string {
	if c.Metadata == nil {
		return ""
	}
	if v, ok := c.Metadata["startCommand"].(string); ok {
		return v
	}
	return ""
}
