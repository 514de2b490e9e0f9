package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"demoforge/internal/config"
	"demoforge/internal/db"
	"demoforge/internal/eds"
	"demoforge/internal/integrations/dalive"
	"demoforge/internal/validation"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ProjectCommands creates project lifecycle commands
func ProjectCommands(globals *config.GlobalConfig, store ProjectStore, lifecycle Lifecycle, setup SetupRunner, catalog CatalogProvider) []*cobra.Command {
	commands := []*cobra.Command{}

	// demoforge project create
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new demo project",
		Long: `Create a new demo project: generate a GitHub repository from the
storefront template, clone it locally, configure the Edge Delivery site,
wait for code sync, and seed DA.live content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return createProject(cmd.Context(), globals, store, setup, catalog, args[0])
		},
	}
	commands = append(commands, createCmd)

	// demoforge project list
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List demo projects",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return listProjects(cmd.Context(), store)
		},
	}
	commands = append(commands, listCmd)

	// demoforge project status
	statusCmd := &cobra.Command{
		Use:   "status [project-name]",
		Short: "Show project status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return projectStatus(cmd.Context(), store, name)
		},
	}
	commands = append(commands, statusCmd)

	// demoforge project start
	startCmd := &cobra.Command{
		Use:   "start [project-name]",
		Short: "Start the demo frontend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd.Context(), store, args, lifecycle.StartDemo)
		},
	}
	commands = append(commands, startCmd)

	// demoforge project stop
	stopCmd := &cobra.Command{
		Use:   "stop [project-name]",
		Short: "Stop the running demo frontend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd.Context(), store, args, lifecycle.StopDemo)
		},
	}
	commands = append(commands, stopCmd)

	// demoforge project delete
	deleteCmd := &cobra.Command{
		Use:     "delete [project-name]",
		Short:   "Delete a project's files and stored state",
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd.Context(), store, args, lifecycle.DeleteProject)
		},
	}
	commands = append(commands, deleteCmd)

	return commands
}

// runLifecycle selects the named project (when given) and runs the operation
// against the current project.
func runLifecycle(ctx context.Context, store ProjectStore, args []string, op func(ctx context.Context) error) error {
	if len(args) > 0 {
		project, err := store.GetProject(ctx, args[0])
		if err != nil {
			return HandleError(err)
		}
		if err := store.SetCurrentProject(ctx, project.ID); err != nil {
			return HandleError(err)
		}
	}
	return HandleError(op(ctx))
}

func createProject(ctx context.Context, globals *config.GlobalConfig, store ProjectStore, setup SetupRunner, catalog CatalogProvider, name string) error {
	if err := validation.ProjectName(name); err != nil {
		return HandleError(err)
	}

	if existing, err := store.GetProject(ctx, name); err == nil && existing != nil {
		return fmt.Errorf("project %q already exists", name)
	}

	clonePath := filepath.Join(globals.Storage.ProjectsPath, name)

	result := setup.Run(ctx, eds.SetupConfig{
		Org:           globals.GitHub.Org,
		ProjectName:   name,
		TemplateOwner: globals.GitHub.TemplateOwner,
		TemplateRepo:  globals.GitHub.TemplateRepo,
		ClonePath:     clonePath,
		Content: dalive.Config{
			Org:          globals.GitHub.Org,
			Site:         name,
			TemplateOrg:  globals.DaLive.TemplateOrg,
			TemplateSite: globals.DaLive.TemplateSite,
		},
	})

	if !result.Success {
		fmt.Fprintf(os.Stderr, "Setup failed during %s: %s\n", result.Phase, result.Error.UserMessage)
		if result.Error.RecoveryHint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", result.Error.RecoveryHint)
		}
		if result.RepoURL != "" {
			fmt.Fprintf(os.Stderr, "Repository was created: %s\n", result.RepoURL)
		}
		return fmt.Errorf("project setup failed during %s", result.Phase)
	}

	project, err := store.CreateProject(ctx, name, clonePath)
	if err != nil {
		return HandleError(err)
	}

	if err := seedComponents(ctx, store, catalog, project); err != nil {
		return HandleError(err)
	}

	fmt.Printf("Project %q created\n", project.Name)
	fmt.Printf("  Repository: %s\n", result.RepoURL)
	fmt.Printf("  Path:       %s\n", project.Path)
	if result.ContentCreated {
		fmt.Println("  Content:    seeded from template")
	} else {
		fmt.Println("  Content:    already present")
	}
	return nil
}

// seedComponents attaches the catalog's components to a freshly created
// project so start/stop have something to operate on.
func seedComponents(ctx context.Context, store ProjectStore, catalog CatalogProvider, project *db.Project) error {
	specs, err := catalog.Catalog(ctx)
	if err != nil {
		return err
	}

	if project.Components == nil {
		project.Components = map[string]*db.ComponentInstance{}
	}

	for _, spec := range specs.Components {
		comp := &db.ComponentInstance{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Name:      spec.Name,
			Type:      spec.Type,
			Port:      spec.Port,
			Path:      project.Path,
			Metadata:  db.JSONB{},
		}
		if spec.StartCommand != "" {
			comp.Metadata["startCommand"] = spec.StartCommand
		}
		if spec.NodeVersion != "" {
			comp.Metadata["nodeVersion"] = spec.NodeVersion
		}
		project.Components[comp.ID] = comp
	}

	return store.SaveProject(ctx, project)
}

func listProjects(ctx context.Context, store ProjectStore) error {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return HandleError(err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found. Create one with 'demoforge project create <name>'")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tCOMPONENTS\tPATH")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.Name, p.Status, len(p.Components), p.Path)
	}
	return w.Flush()
}

func projectStatus(ctx context.Context, store ProjectStore, name string) error {
	project, err := resolveProject(ctx, store, name)
	if err != nil {
		return HandleError(err)
	}

	fmt.Printf("Project: %s\n", project.Name)
	fmt.Printf("Status:  %s\n", project.Status)
	fmt.Printf("Path:    %s\n", project.Path)

	if len(project.Components) == 0 {
		return nil
	}

	fmt.Println("Components:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tTYPE\tPORT\tPID\tSTATUS")
	for _, comp := range project.Components {
		fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%s\n", comp.Name, comp.Type, comp.Port, comp.PID, comp.Status)
	}
	return w.Flush()
}

// resolveProject returns the named project, or the current one when name is empty
func resolveProject(ctx context.Context, store ProjectStore, name string) (*db.Project, error) {
	if name != "" {
		return store.GetProject(ctx, name)
	}
	current, err := store.GetCurrentProject(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("no current project. Use 'demoforge project list' to see available projects")
	}
	return current, nil
}
