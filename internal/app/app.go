package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"demoforge/internal/cli"
	"demoforge/internal/config"
	"demoforge/internal/db"
	"demoforge/internal/eds"
	"demoforge/internal/executor"
	"demoforge/internal/git"
	"demoforge/internal/integrations/dalive"
	"demoforge/internal/integrations/github"
	"demoforge/internal/integrations/helix"
	"demoforge/internal/lazy"
	"demoforge/internal/logger"
	"demoforge/internal/mesh"
	"demoforge/internal/project"
	"demoforge/internal/server"
	"demoforge/internal/state"
)

// App represents the main application
type App struct {
	Globals   *config.GlobalConfig
	DB        *db.DB
	State     *state.Manager
	Lifecycle *project.Commands
	Mesh      *mesh.Orchestrator
	Setup     *eds.Pipeline
	Server    *server.Server
	CLI       *cli.Manager

	ui      *project.ConsoleUI
	catalog *lazy.Lazy[*config.ComponentCatalog]
}

// Catalog returns the component catalog, loading it on first use
func (a *App) Catalog(ctx context.Context) (*config.ComponentCatalog, error) {
	return a.catalog.Get(ctx)
}

// New creates a new application instance
func New() *App {
	return &App{}
}

// Run starts the application in the appropriate mode
func (a *App) Run(args []string) error {
	return a.RunWithContext(context.Background(), args)
}

// RunWithContext starts the application with a context for cancellation
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	// "serve" runs the dashboard server in-process; everything else is CLI
	if len(args) > 0 && args[0] == "serve" {
		return a.runServer(ctx, args[1:])
	}

	return a.runCLI(ctx, args)
}

// initComponents builds the shared dependency graph
func (a *App) initComponents() error {
	globals, err := config.LoadGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.Globals = globals

	database, err := db.New(db.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.DB = database

	a.State = state.New(database)

	a.catalog = lazy.New(func(ctx context.Context) (*config.ComponentCatalog, error) {
		return config.LoadCatalog(globals.Storage.CatalogPath)
	})

	exec := executor.New()

	terminals := project.NewShellTerminalManager()
	a.ui = project.NewConsoleUI(os.Stdin, os.Stdout)
	a.Lifecycle = project.NewCommands(a.State, exec, terminals, project.LogStatusBar{}, a.ui)

	a.Mesh = mesh.NewOrchestrator(exec)

	token := os.Getenv("GITHUB_TOKEN")
	daToken := os.Getenv("DALIVE_TOKEN")
	if daToken == "" {
		daToken = token
	}

	a.Setup = eds.NewPipeline(
		github.NewClient(token),
		git.New(token),
		helix.NewClient(daToken),
		dalive.NewClient(daToken),
		func(phase string) {
			fmt.Printf("==> %s\n", phase)
		},
	)

	return nil
}

// runCLI runs the application in CLI mode
func (a *App) runCLI(ctx context.Context, args []string) error {
	if err := a.initComponents(); err != nil {
		return err
	}
	defer a.DB.Close()

	// Apply --yes before any command can prompt
	if hasFlag(args, "--yes", "-y") {
		a.ui.AssumeYes = true
	}

	a.CLI = cli.New(a.Globals)
	a.CLI.SetManagers(a.State, a.Lifecycle, a.Mesh, a.Setup, a, a.DB)

	// Show help if no arguments provided
	if len(args) == 0 {
		return a.CLI.ExecuteWithContext(ctx, []string{"--help"})
	}

	return a.CLI.ExecuteWithContext(ctx, args)
}

// runServer runs the dashboard server in the foreground
func (a *App) runServer(ctx context.Context, args []string) error {
	if err := a.initComponents(); err != nil {
		return err
	}
	defer a.DB.Close()
	defer a.Mesh.Close()

	port := a.Globals.Server.Port
	for i, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--port="):
			fmt.Sscanf(arg, "--port=%d", &port)
		case arg == "--port" && i+1 < len(args):
			fmt.Sscanf(args[i+1], "%d", &port)
		}
	}

	serverConfig := server.DefaultConfig()
	serverConfig.Port = port

	a.Server = server.NewWithDependencies(serverConfig, a.State, a.Lifecycle, a.Mesh)

	logger.WithFields(logger.Fields{
		"port":      port,
		"operation": "server_start",
	}).Info("Starting demoforge dashboard server")
	return a.Server.Start(ctx)
}

func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}
