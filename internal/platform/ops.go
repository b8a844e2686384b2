package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/marl/pkg/adapters/fs"
	"github.com/aretw0/marl/pkg/adapters/sqlite"
	"github.com/aretw0/marl/pkg/config"
	"github.com/aretw0/marl/pkg/core"
)

// Init resolves the storage adapter for the given URI and runs its
// initialization. The URI is adapter-specific: a directory for "fs", a
// database file (or ":memory:") for "sqlite".
func Init(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.store != nil {
		return o.store, nil
	}

	// The config file may enable ID generation; an explicit option wins.
	if _, set := o.settings["generate_ids"]; !set {
		cfg, err := resolveConfig(o)
		if err != nil {
			return nil, err
		}
		o.settings["generate_ids"] = cfg.GenerateIDs
	}

	var store core.Store
	var err error
	switch o.adapter {
	case "fs":
		store, err = initFS(uri, o)
	case "sqlite":
		store, err = initSQLite(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if init, ok := store.(core.Initializer); ok {
		if err := init.Initialize(context.Background()); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func initFS(path string, o *options) (core.Store, error) {
	ext, _ := o.settings["extension"].(string)
	systemDir, _ := o.settings["system_dir"].(string)
	mustExist, _ := o.settings["must_exist"].(bool)
	readOnly, _ := o.settings["read_only"].(bool)
	generateIDs, _ := o.settings["generate_ids"].(bool)

	store := fs.NewStore(fs.Config{
		Path:        path,
		Extension:   ext,
		SystemDir:   systemDir,
		MustExist:   mustExist,
		ReadOnly:    readOnly,
		GenerateIDs: generateIDs,
		Logger:      o.logger,
	})

	for ext, s := range o.serializers {
		sz, ok := s.(fs.Serializer)
		if !ok {
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		store.RegisterSerializer(ext, sz)
	}
	return store, nil
}

func initSQLite(path string, o *options) (core.Store, error) {
	if len(o.serializers) > 0 {
		return nil, fmt.Errorf("the sqlite adapter does not take custom serializers")
	}
	readOnly, _ := o.settings["read_only"].(bool)
	generateIDs, _ := o.settings["generate_ids"].(bool)

	return sqlite.NewStore(sqlite.Config{
		Path:        path,
		ReadOnly:    readOnly,
		GenerateIDs: generateIDs,
		Logger:      o.logger,
	}), nil
}

// resolveConfig loads the model-layer configuration in priority order:
// injected config, config file, defaults.
func resolveConfig(o *options) (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	if o.cfgFile != "" {
		return config.Load(o.cfgFile)
	}
	return config.Default(), nil
}
