package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// MeshCommands creates API Mesh management commands
func MeshCommands(store ProjectStore, meshMgr MeshManager) []*cobra.Command {
	commands := []*cobra.Command{}

	// demoforge mesh deploy
	deployCmd := &cobra.Command{
		Use:   "deploy <config-file>",
		Short: "Deploy an API Mesh configuration",
		Long: `Deploy an API Mesh configuration file. Creates the mesh, or updates
the existing one when the workspace already has a mesh.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deployMesh(cmd.Context(), meshMgr, args[0])
		},
	}
	commands = append(commands, deployCmd)

	// demoforge mesh status
	statusCmd := &cobra.Command{
		Use:   "status [project-name]",
		Short: "Check mesh deployment status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return meshStatus(cmd.Context(), store, meshMgr, name)
		},
	}
	commands = append(commands, statusCmd)

	return commands
}

func deployMesh(ctx context.Context, meshMgr MeshManager, configPath string) error {
	result, err := meshMgr.DeployMesh(ctx, configPath, func(phase, detail string) {
		if detail != "" {
			fmt.Printf("%s %s\n", phase, detail)
		} else {
			fmt.Println(phase)
		}
	})
	if err != nil {
		return HandleError(err)
	}

	fmt.Println(result.Message)
	fmt.Printf("  Mesh ID:  %s\n", result.MeshID)
	fmt.Printf("  Endpoint: %s\n", result.Endpoint)
	return nil
}

func meshStatus(ctx context.Context, store ProjectStore, meshMgr MeshManager, name string) error {
	project, err := resolveProject(ctx, store, name)
	if err != nil {
		return HandleError(err)
	}

	result, err := meshMgr.CheckMeshStatus(ctx, project.Path)
	if err != nil {
		return HandleError(err)
	}

	if !result.MeshExists {
		fmt.Printf("No mesh deployed for project %q\n", project.Name)
		return nil
	}

	fmt.Printf("Mesh:     %s\n", result.MeshID)
	fmt.Printf("Status:   %s\n", result.MeshStatus)
	fmt.Printf("Endpoint: %s\n", result.Endpoint)
	if result.Error != "" {
		fmt.Printf("Error:    %s\n", result.Error)
	}
	return nil
}
