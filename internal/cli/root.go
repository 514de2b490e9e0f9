package cli

import (
	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "demoforge",
		Short: "Demo storefront management tool",
		Long: `demoforge provisions and manages local demo e-commerce storefronts.
It creates projects from GitHub templates, configures Edge Delivery sites,
deploys API Mesh configurations, and runs demo frontends in managed
terminals, with a local dashboard for monitoring.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to showing help if no subcommand
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Assume yes for confirmation prompts")

	return rootCmd
}
