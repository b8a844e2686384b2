package marl

import (
	"log/slog"

	"github.com/aretw0/marl/internal/platform"
	"github.com/aretw0/marl/pkg/config"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/typed"
)

// --- Types ---

// Model is a public alias for the core record model.
type Model = core.Model

// Attributes is a public alias for the attribute mapping.
type Attributes = core.Attributes

// Service is a public alias for the model service.
type Service = core.Service

// Rules is a public alias for the validation rule set.
type Rules = core.Rules

// Config is a public alias for the model-layer configuration.
type Config = config.Config

// --- Configuration ---

// Option defines a functional option for configuring the model layer.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithConfig injects the model-layer configuration.
func WithConfig(cfg *config.Config) Option {
	return platform.WithConfig(cfg)
}

// WithConfigFile loads the model-layer configuration from a YAML file.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithExtension sets the record file extension for the filesystem adapter.
func WithExtension(ext string) Option {
	return platform.WithExtension(ext)
}

// WithSystemDir sets the hidden directory name (e.g. ".marl").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist requires the storage location to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithGenerateIDs makes the adapter assign UUID primary keys on insert.
func WithGenerateIDs(enabled bool) Option {
	return platform.WithGenerateIDs(enabled)
}

// WithSerializer registers a custom serializer for a file extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// --- Model Options ---

// ModelOption defines a per-model construction option.
type ModelOption = core.ModelOption

// WithTimestamps enables automatic timestamping on a model.
func WithTimestamps() ModelOption {
	return core.WithTimestamps()
}

// WithRules attaches a validation rule set run on every save.
func WithRules(rules Rules, messages, names map[string]string) ModelOption {
	return core.WithRules(rules, messages, names)
}

// WithAllowedKeys restricts which attributes a model accepts.
func WithAllowedKeys(keys ...string) ModelOption {
	return core.WithAllowedKeys(keys...)
}

// WithDefaults merges default attributes into a model.
func WithDefaults(defaults Attributes) ModelOption {
	return core.WithDefaults(defaults)
}

// --- Factory ---

// New creates a model service bound to the storage at uri.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init resolves and initializes a storage adapter without wrapping it in a
// service.
func Init(uri string, opts ...Option) (core.Store, error) {
	return platform.Init(uri, opts...)
}

// --- Typed Factories ---

// OpenRepository creates a type-safe repository for one model kind from a
// storage URI.
func OpenRepository[T any](uri, kind string, opts ...Option) (*typed.Repository[T], error) {
	store, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewRepository[T](kind, store), nil
}

// --- Utils ---

// FindRoot walks upwards from startDir looking for a content root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
