package sqlite

import "github.com/aretw0/introspection"

// StoreState exposes internal state for observability.
type StoreState struct {
	Path        string `json:"path"`
	Initialized bool   `json:"initialized"`
	Closed      bool   `json:"closed"`
	ReadOnly    bool   `json:"read_only"`
	GenerateIDs bool   `json:"generate_ids"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:        s.Path,
		Initialized: s.db != nil,
		Closed:      s.closed,
		ReadOnly:    s.config.ReadOnly,
		GenerateIDs: s.config.GenerateIDs,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
