package platform

import (
	"log/slog"

	"github.com/aretw0/marl/pkg/config"
	"github.com/aretw0/marl/pkg/core"
)

// options holds the internal configuration assembled from functional options.
type options struct {
	store       core.Store
	logger      *slog.Logger
	adapter     string
	cfg         *config.Config
	cfgFile     string
	settings    map[string]any
	serializers map[string]any
}

// Option defines a functional option for configuring the model layer.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "fs",
		settings:    make(map[string]any),
		serializers: make(map[string]any),
	}
}

// WithLogger sets the logger wired into the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom storage adapter (e.g. a mock or a remote
// backend). When provided, adapter selection by name is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithConfig injects the model-layer configuration (primary key name,
// timestamp fields).
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithConfigFile loads the model-layer configuration from a YAML file.
// Ignored when WithConfig is also given.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.cfgFile = path
	}
}

// WithExtension sets the record file extension for the filesystem adapter
// (".md", ".yaml" or ".json").
func WithExtension(ext string) Option {
	return func(o *options) {
		o.settings["extension"] = ext
	}
}

// WithSystemDir sets the hidden directory name used by the filesystem
// adapter. Defaults to ".marl".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.settings["system_dir"] = name
	}
}

// WithMustExist requires the storage location to already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.settings["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode: writes fail with ErrReadOnly and
// initialization side effects are skipped.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.settings["read_only"] = enabled
	}
}

// WithGenerateIDs makes the adapter assign a UUID primary key on insert when
// the model has none.
func WithGenerateIDs(enabled bool) Option {
	return func(o *options) {
		o.settings["generate_ids"] = enabled
	}
}

// WithSerializer registers a custom serializer for a file extension.
// The value must implement the filesystem adapter's Serializer interface;
// validation happens at wiring time.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}
