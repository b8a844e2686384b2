package config

import "strings"

// Timestamps configures automatic timestamping of models.
type Timestamps struct {
	// Created is the attribute receiving the creation instant. Defaults to "created".
	Created string `yaml:"created"`
	// Modified is the attribute receiving the last-change instant. Defaults to "modified".
	Modified string `yaml:"modified"`
	// Format is an optional Go time layout. Empty means raw time.Time values.
	Format string `yaml:"format"`
}

// Config holds the model-layer settings.
// It is injected into models and services explicitly; there is no global state.
type Config struct {
	// PrimaryKey names the attribute treated as primary key. Defaults to "id".
	PrimaryKey string `yaml:"primary_key"`
	// Timestamps holds the default timestamp field names and format.
	Timestamps Timestamps `yaml:"timestamps"`
	// GenerateIDs makes stores assign a UUID primary key on insert when absent.
	GenerateIDs bool `yaml:"generate_ids"`
}

// Default returns a Config with the documented fallbacks.
func Default() *Config {
	return &Config{
		PrimaryKey: "id",
		Timestamps: Timestamps{
			Created:  "created",
			Modified: "modified",
		},
	}
}

// Lookup resolves a dotted settings key, returning def when the key is unknown
// or the configured value is empty. Recognized keys:
//
//	model.primary_key
//	model.timestamps.created
//	model.timestamps.modified
//	model.timestamps.format
func (c *Config) Lookup(key, def string) string {
	if c == nil {
		return def
	}

	var val string
	switch strings.TrimPrefix(key, "model.") {
	case "primary_key":
		val = c.PrimaryKey
	case "timestamps.created":
		val = c.Timestamps.Created
	case "timestamps.modified":
		val = c.Timestamps.Modified
	case "timestamps.format":
		// Format is allowed to be empty; distinguish "unset key" from "empty value".
		return c.Timestamps.Format
	default:
		return def
	}

	if val == "" {
		return def
	}
	return val
}

// normalize fills zero-valued fields with the documented fallbacks.
func (c *Config) normalize() {
	d := Default()
	if c.PrimaryKey == "" {
		c.PrimaryKey = d.PrimaryKey
	}
	if c.Timestamps.Created == "" {
		c.Timestamps.Created = d.Timestamps.Created
	}
	if c.Timestamps.Modified == "" {
		c.Timestamps.Modified = d.Timestamps.Modified
	}
}
