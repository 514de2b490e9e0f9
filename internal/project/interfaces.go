// Package project implements the demo lifecycle commands: start, stop,
// and delete. Commands follow one shape: load the current project,
// validate inputs before any side effect, act with progress reporting,
// persist on success, revert status on failure.
package project

import (
	"context"

	"demoforge/internal/db"
)

// StateManager persists projects across command invocations
type StateManager interface {
	GetCurrentProject(ctx context.Context) (*db.Project, error)
	SaveProject(ctx context.Context, project *db.Project) error
	ClearProject(ctx context.Context, projectID string) error
}

// Terminal is one interactive session hosting a component's dev process
type Terminal interface {
	SendText(text string) error
	Show()
	Dispose()
}

// TerminalManager creates and tracks terminals by component ID
type TerminalManager interface {
	CreateTerminal(name string) (Terminal, error)
	GetTerminal(name string) (Terminal, bool)
	DisposeTerminal(name string)
}

// StatusBar reflects project state in the UI
type StatusBar interface {
	SetStatus(projectName string, status db.ProjectStatus)
	Clear()
}

// UserInterface asks for confirmation and shows notifications
type UserInterface interface {
	// Confirm returns true when the user accepts the prompt
	Confirm(message string) bool
	// ShowError presents a failure with the given action buttons and
	// returns the chosen action, or "" if dismissed
	ShowError(message string, actions ...string) string
	ShowInfo(message string)
}
