package core

import "context"

// Store defines the persistence extension points invoked by the save
// pipeline. Adhering to this interface keeps models independent of the
// underlying storage mechanism (filesystem, SQL, memory).
type Store interface {
	// Insert persists a new model. Implementations may assign a primary key.
	Insert(ctx context.Context, m *Model) error

	// Update persists changes to an existing model.
	Update(ctx context.Context, m *Model) error

	// Delete removes a model.
	Delete(ctx context.Context, m *Model) error
}

// Finder is implemented by stores that support retrieval.
type Finder interface {
	// Find retrieves a model of the given kind by primary key.
	Find(ctx context.Context, kind string, pk any) (*Model, error)

	// List returns all models of a kind whose primary key matches the
	// glob pattern. An empty pattern matches everything.
	List(ctx context.Context, kind, pattern string) ([]*Model, error)
}

// Initializer is implemented by stores that need setup before first use
// (create directories, open connections, run schema).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can observe record changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// NopStore is the default extension-point implementation: every operation
// is an unconditional success that persists nothing. It stands in where a
// concrete store has not been attached.
type NopStore struct{}

func (NopStore) Insert(ctx context.Context, m *Model) error { return nil }
func (NopStore) Update(ctx context.Context, m *Model) error { return nil }
func (NopStore) Delete(ctx context.Context, m *Model) error { return nil }
