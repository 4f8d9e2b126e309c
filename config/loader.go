package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bniladridas/snapenhanceai/models"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration
type Config struct {
	Models map[string]ModelConfig

	// order preserves the document order of the models mapping, so the
	// first entry in models.yaml is the default model and the selector
	// lists entries as written.
	order []string
}

// UnmarshalYAML decodes the models mapping while recording key order.
// A plain map would lose it.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Models yaml.Node `yaml:"models"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Models = make(map[string]ModelConfig)
	c.order = nil
	if raw.Models.Kind == 0 {
		return nil
	}
	if raw.Models.Kind != yaml.MappingNode {
		return fmt.Errorf("models must be a mapping")
	}

	for i := 0; i+1 < len(raw.Models.Content); i += 2 {
		var id string
		if err := raw.Models.Content[i].Decode(&id); err != nil {
			return err
		}
		var mc ModelConfig
		if err := raw.Models.Content[i+1].Decode(&mc); err != nil {
			return fmt.Errorf("model %s: %w", id, err)
		}
		c.Models[id] = mc
		c.order = append(c.order, id)
	}
	return nil
}

// modelIDs returns the model IDs in document order, falling back to a
// sorted list for configs built without UnmarshalYAML.
func (c *Config) modelIDs() []string {
	if len(c.order) == len(c.Models) {
		return c.order
	}
	ids := make([]string, 0, len(c.Models))
	for id := range c.Models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ModelConfig from YAML. The map key is the provider model identifier.
type ModelConfig struct {
	Name              string  `yaml:"name"`
	Temperature       float64 `yaml:"temperature"`
	TopP              float64 `yaml:"top_p"`
	MaxTokens         int     `yaml:"max_tokens"`
	MaxTokensQuick    int     `yaml:"max_tokens_quick"`
	SupportsFunctions bool    `yaml:"supports_functions"`
}

// LoadConfig loads configuration from models.yaml in configDir
func LoadConfig(configDir string) (*Config, error) {
	config := &Config{
		Models: make(map[string]ModelConfig),
	}

	modelsPath := filepath.Join(configDir, "models.yaml")
	if err := loadYAMLFile(modelsPath, config); err != nil {
		return nil, fmt.Errorf("failed to load models.yaml: %w", err)
	}

	if len(config.Models) == 0 {
		return nil, fmt.Errorf("models.yaml defines no models")
	}

	// Expand environment variables in display names
	for id, model := range config.Models {
		model.Name = expandEnv(model.Name)
		config.Models[id] = model
	}

	return config, nil
}

// loadYAMLFile loads a YAML file into a structure
func loadYAMLFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

// expandEnv expands ${VAR} and ${VAR:-default} references in a string
func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":-", 2)
		value := os.Getenv(parts[0])
		if value == "" && len(parts) > 1 {
			return parts[1]
		}
		return value
	})
}

// BuildRegistry creates a model registry from configuration
func BuildRegistry(config *Config) (*models.Registry, error) {
	registry := models.NewRegistry()

	// Document order: the first configured model is the default.
	for _, id := range config.modelIDs() {
		mc := config.Models[id]
		if mc.Name == "" {
			return nil, fmt.Errorf("model %s: display name is required", id)
		}
		if mc.MaxTokens <= 0 || mc.MaxTokens > 8192 {
			return nil, fmt.Errorf("model %s: max_tokens must be in (0, 8192], got %d", id, mc.MaxTokens)
		}
		quick := mc.MaxTokensQuick
		if quick <= 0 {
			quick = 256
		}
		registry.Register(&models.Model{
			ID:                id,
			Name:              mc.Name,
			Temperature:       mc.Temperature,
			TopP:              mc.TopP,
			MaxTokens:         mc.MaxTokens,
			MaxTokensQuick:    quick,
			SupportsFunctions: mc.SupportsFunctions,
		})
	}

	return registry, nil
}
