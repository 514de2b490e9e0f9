package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"demoforge/internal/constants"
	"demoforge/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

// GlobalConfig represents the global demoforge configuration
type GlobalConfig struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	GitHub  GitHubConfig  `toml:"github"`
	DaLive  DaLiveConfig  `toml:"dalive"`
}

type ServerConfig struct {
	Port    int `toml:"port"`     // Dashboard server port (default 8080)
	DevPort int `toml:"dev_port"` // Default port assigned to demo frontends (default 3000)
}

type StorageConfig struct {
	ProjectsPath string `toml:"projects_path" json:"projects_path" example:"~/demoforge/projects"` // Where demo projects are cloned
	CatalogPath  string `toml:"catalog_path" json:"catalog_path"`                                  // Location of components.yaml
}

type GitHubConfig struct {
	Org           string `toml:"org"`            // Organization new demo repos are created under
	TemplateOwner string `toml:"template_owner"` // Owner of the storefront template repo
	TemplateRepo  string `toml:"template_repo"`  // Name of the storefront template repo
}

type DaLiveConfig struct {
	TemplateOrg  string `toml:"template_org"`  // DA.live org the content source lives in
	TemplateSite string `toml:"template_site"` // DA.live site content is copied from
}

// DefaultGlobalConfig returns the default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Server: ServerConfig{
			Port:    constants.DefaultServerPort,
			DevPort: constants.DefaultDevPort,
		},
		Storage: StorageConfig{
			ProjectsPath: "~/demoforge/projects",
			CatalogPath:  "", // Will use XDG default
		},
		GitHub: GitHubConfig{
			TemplateOwner: "hlxsites",
			TemplateRepo:  "aem-boilerplate-commerce",
		},
		DaLive: DaLiveConfig{
			TemplateOrg:  "adobe-commerce",
			TemplateSite: "citisignal-one",
		},
	}
}

// getConfigDir returns the XDG config directory for demoforge
func getConfigDir() (string, error) {
	return xdg.ConfigDir()
}

// GetConfigDir returns the XDG config directory for demoforge (exported version)
func GetConfigDir() (string, error) {
	return getConfigDir()
}

// LoadGlobalConfig loads the global configuration from XDG config directory
func LoadGlobalConfig() (*GlobalConfig, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, "config.toml")

	// If config doesn't exist, return defaults with expanded paths
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultGlobalConfig()
		if config.Storage.CatalogPath == "" {
			config.Storage.CatalogPath = filepath.Join(configDir, "components.yaml")
		}
		if err := expandPaths(config); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GlobalConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for any missing values
	defaults := DefaultGlobalConfig()
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.DevPort == 0 {
		config.Server.DevPort = defaults.Server.DevPort
	}
	if config.Storage.ProjectsPath == "" {
		config.Storage.ProjectsPath = defaults.Storage.ProjectsPath
	}
	if config.Storage.CatalogPath == "" {
		config.Storage.CatalogPath = filepath.Join(configDir, "components.yaml")
	}
	if config.GitHub.TemplateOwner == "" {
		config.GitHub.TemplateOwner = defaults.GitHub.TemplateOwner
	}
	if config.GitHub.TemplateRepo == "" {
		config.GitHub.TemplateRepo = defaults.GitHub.TemplateRepo
	}
	if config.DaLive.TemplateOrg == "" {
		config.DaLive.TemplateOrg = defaults.DaLive.TemplateOrg
	}
	if config.DaLive.TemplateSite == "" {
		config.DaLive.TemplateSite = defaults.DaLive.TemplateSite
	}

	// Expand tilde paths
	if err := expandPaths(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveGlobalConfig saves the global configuration to XDG config directory
func SaveGlobalConfig(config *GlobalConfig) error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Save saves the global configuration to the specified path
func (g *GlobalConfig) Save(path string) error {
	data, err := toml.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ValidateGlobalConfig validates the global configuration
func ValidateGlobalConfig(config *GlobalConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.Server.Port < 0 || config.Server.Port > constants.MaxPortNumber {
		return fmt.Errorf("invalid port: %d", config.Server.Port)
	}
	if config.Server.DevPort < 0 || config.Server.DevPort > constants.MaxPortNumber {
		return fmt.Errorf("invalid port: %d", config.Server.DevPort)
	}

	if config.Storage.ProjectsPath == "" {
		return fmt.Errorf("projects path cannot be empty")
	}

	return nil
}

// expandPaths expands tilde paths in the configuration
func expandPaths(config *GlobalConfig) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	if strings.HasPrefix(config.Storage.ProjectsPath, "~/") {
		config.Storage.ProjectsPath = filepath.Join(homeDir, config.Storage.ProjectsPath[2:])
	}

	if strings.HasPrefix(config.Storage.CatalogPath, "~/") {
		config.Storage.CatalogPath = filepath.Join(homeDir, config.Storage.CatalogPath[2:])
	}

	return nil
}
