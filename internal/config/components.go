package config

import (
	"fmt"
	"os"

	"demoforge/internal/constants"
	"demoforge/internal/db"

	"gopkg.in/yaml.v3"
)

// ComponentSpec describes one installable component in the catalog
type ComponentSpec struct {
	Name         string            `yaml:"name"`
	Type         db.ComponentType  `yaml:"type"`
	Description  string            `yaml:"description,omitempty"`
	Port         int               `yaml:"port,omitempty"`          // Default dev server port
	StartCommand string            `yaml:"start_command,omitempty"` // Command sent to the terminal to launch it
	NodeVersion  string            `yaml:"node_version,omitempty"`  // Node version required by the component
	Template     TemplateSpec      `yaml:"template,omitempty"`      // Source repo the component is cloned from
	Env          map[string]string `yaml:"env,omitempty"`
}

// TemplateSpec points at the GitHub template a component is generated from
type TemplateSpec struct {
	Owner string `yaml:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty"`
}

// ComponentCatalog is the set of components available to new projects
type ComponentCatalog struct {
	Components map[string]ComponentSpec `yaml:"components"`
}

// DefaultCatalog returns the built-in component catalog used when no
// components.yaml exists on disk.
func DefaultCatalog() *ComponentCatalog {
	return &ComponentCatalog{
		Components: map[string]ComponentSpec{
			"citisignal-frontend": {
				Name:         "citisignal-frontend",
				Type:         db.ComponentFrontend,
				Description:  "EDS storefront frontend (CitiSignal)",
				Port:         constants.DefaultDevPort,
				StartCommand: "npm run dev",
				NodeVersion:  "18.17.0",
				Template: TemplateSpec{
					Owner: "hlxsites",
					Repo:  "aem-boilerplate-commerce",
				},
			},
			"commerce-mesh": {
				Name:        "commerce-mesh",
				Type:        db.ComponentMesh,
				Description: "API Mesh configuration for the commerce backend",
				Template: TemplateSpec{
					Owner: "adobe-commerce",
					Repo:  "commerce-mesh-template",
				},
			},
			"demo-inspector": {
				Name:        "demo-inspector",
				Type:        db.ComponentIntegration,
				Description: "In-page inspector overlay for demo walkthroughs",
			},
		},
	}
}

// LoadCatalog loads the component catalog from the given path, falling back
// to the built-in defaults when the file does not exist.
func LoadCatalog(path string) (*ComponentCatalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read component catalog: %w", err)
	}

	var catalog ComponentCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse component catalog: %w", err)
	}

	// Entries inherit their map key as name when omitted
	for key, spec := range catalog.Components {
		if spec.Name == "" {
			spec.Name = key
			catalog.Components[key] = spec
		}
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Save writes the catalog to the given path as YAML
func (c *ComponentCatalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal component catalog: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Get returns the component spec with the given name
func (c *ComponentCatalog) Get(name string) (ComponentSpec, bool) {
	spec, ok := c.Components[name]
	return spec, ok
}

// ByType returns all components of the given type
func (c *ComponentCatalog) ByType(t db.ComponentType) []ComponentSpec {
	var specs []ComponentSpec
	for _, spec := range c.Components {
		if spec.Type == t {
			specs = append(specs, spec)
		}
	}
	return specs
}

// Validate checks catalog entries for required fields and sane values
func (c *ComponentCatalog) Validate() error {
	for key, spec := range c.Components {
		switch spec.Type {
		case db.ComponentFrontend, db.ComponentBackend, db.ComponentMesh, db.ComponentIntegration:
		default:
			return fmt.Errorf("component %q: unknown type %q", key, spec.Type)
		}
		if spec.Port != 0 && (spec.Port < constants.MinPortNumber || spec.Port > constants.MaxPortNumber) {
			return fmt.Errorf("component %q: invalid port %d", key, spec.Port)
		}
	}
	return nil
}
