package cli

import (
	"context"

	"demoforge/internal/cli/commands"
	"demoforge/internal/config"
	"demoforge/internal/db"

	"github.com/spf13/cobra"
)

// ProjectStore is an alias for the commands.ProjectStore interface
type ProjectStore = commands.ProjectStore

// Lifecycle is an alias for the commands.Lifecycle interface
type Lifecycle = commands.Lifecycle

// MeshManager is an alias for the commands.MeshManager interface
type MeshManager = commands.MeshManager

// SetupRunner is an alias for the commands.SetupRunner interface
type SetupRunner = commands.SetupRunner

// CatalogProvider is an alias for the commands.CatalogProvider interface
type CatalogProvider = commands.CatalogProvider

// Manager handles CLI operations
type Manager struct {
	globals   *config.GlobalConfig
	store     ProjectStore
	lifecycle Lifecycle
	mesh      MeshManager
	setup     SetupRunner
	catalog   CatalogProvider
	database  *db.DB
	rootCmd   *cobra.Command
}

// New creates a new CLI manager
func New(globals *config.GlobalConfig) *Manager {
	return &Manager{
		globals: globals,
		rootCmd: createRootCommand(),
	}
}

// SetManagers sets the state store and operation managers
func (m *Manager) SetManagers(store ProjectStore, lifecycle Lifecycle, meshMgr MeshManager, setup SetupRunner, catalog CatalogProvider, database *db.DB) {
	m.store = store
	m.lifecycle = lifecycle
	m.mesh = meshMgr
	m.setup = setup
	m.catalog = catalog
	m.database = database

	m.setupCommands()
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	// Project lifecycle commands (both grouped and top-level)
	projectCmd := &cobra.Command{
		Use:     "project",
		Short:   "Project management commands",
		Aliases: []string{"proj", "p"},
	}
	for _, cmd := range commands.ProjectCommands(m.globals, m.store, m.lifecycle, m.setup, m.catalog) {
		projectCmd.AddCommand(cmd)
		// Top-level aliases for the common commands
		switch cmd.Use {
		case "list", "status [project-name]", "start [project-name]", "stop [project-name]":
			m.rootCmd.AddCommand(cmd)
		}
	}
	m.rootCmd.AddCommand(projectCmd)

	// Mesh management commands
	meshCmd := &cobra.Command{
		Use:   "mesh",
		Short: "API Mesh management commands",
	}
	for _, cmd := range commands.MeshCommands(m.store, m.mesh) {
		meshCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(meshCmd)

	// Configuration commands
	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Configuration management commands",
		Aliases: []string{"cfg"},
	}
	for _, cmd := range commands.ConfigCommands() {
		configCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(configCmd)

	// Server management commands
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Dashboard server commands",
		Long:  `Manage the demoforge dashboard server. Use these commands to start, stop, and check the status of the server.`,
	}
	for _, cmd := range commands.ServerCommands() {
		serverCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(serverCmd)
}
