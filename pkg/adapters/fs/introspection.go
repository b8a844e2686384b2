package fs

import (
	"sort"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string   `json:"path"`
	SystemDir     string   `json:"system_dir"`
	Extension     string   `json:"extension"`
	ReadOnly      bool     `json:"read_only"`
	GenerateIDs   bool     `json:"generate_ids"`
	CacheSize     int      `json:"cache_size"`
	Serializers   []string `json:"serializers"`
	WatcherActive bool     `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	serializers := make([]string, 0, len(s.serializers))
	for ext := range s.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return StoreState{
		Path:          s.Path,
		SystemDir:     s.config.SystemDir,
		Extension:     s.config.Extension,
		ReadOnly:      s.config.ReadOnly,
		GenerateIDs:   s.config.GenerateIDs,
		CacheSize:     s.cache.Len(),
		Serializers:   serializers,
		WatcherActive: s.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
