package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"demoforge/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// ConfigCommands creates configuration management commands
func ConfigCommands() []*cobra.Command {
	commands := []*cobra.Command{}

	// demoforge config show
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective global configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGlobalConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
	commands = append(commands, showCmd)

	// demoforge config init
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  `Write the default global configuration and component catalog to the XDG config directory, skipping files that already exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
	commands = append(commands, initCmd)

	// demoforge config path
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
	commands = append(commands, pathCmd)

	return commands
}

func initConfig() error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.SaveGlobalConfig(config.DefaultGlobalConfig()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", configPath)
	} else {
		fmt.Printf("Config already exists: %s\n", configPath)
	}

	catalogPath := filepath.Join(configDir, "components.yaml")
	if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
		if err := config.DefaultCatalog().Save(catalogPath); err != nil {
			return fmt.Errorf("failed to write component catalog: %w", err)
		}
		fmt.Printf("Wrote %s\n", catalogPath)
	} else {
		fmt.Printf("Component catalog already exists: %s\n", catalogPath)
	}

	return nil
}
