package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the on-disk layout: settings nested under a "model" key,
// so a collection config file can carry unrelated sections too.
type fileConfig struct {
	Model Config `yaml:"model"`
}

// Load reads a YAML settings file and returns the model configuration.
// Missing fields fall back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML settings. Missing fields fall back to the defaults.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	cfg := fc.Model
	cfg.normalize()
	return &cfg, nil
}
