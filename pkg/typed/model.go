package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aretw0/marl/pkg/core"
)

// Model wraps a core.Model with a typed view of its attributes.
// Data is the source of truth between Decode and Save; Save encodes it back
// into the attribute mapping before running the core pipeline.
type Model[T any] struct {
	*core.Model
	Data T
}

// New creates a typed model of the given kind seeded from data.
func New[T any](kind string, data T, opts ...core.ModelOption) (*Model[T], error) {
	attrs, err := encode(data)
	if err != nil {
		return nil, err
	}
	return &Model[T]{
		Model: core.NewModel(kind, attrs, opts...),
		Data:  data,
	}, nil
}

// Wrap creates a typed view over an existing core model.
func Wrap[T any](m *core.Model) (*Model[T], error) {
	tm := &Model[T]{Model: m}
	if err := tm.Decode(); err != nil {
		return nil, err
	}
	return tm, nil
}

// Save encodes Data into the attributes and runs the core save pipeline.
// Attributes the store set during save (generated keys, timestamps) are
// decoded back into Data afterwards.
func (m *Model[T]) Save(ctx context.Context) error {
	if err := m.Encode(); err != nil {
		return err
	}
	if err := m.Model.Save(ctx); err != nil {
		return err
	}
	return m.Decode()
}

// Is reports entity identity like core.Model.Is, with the concrete Go type
// as an extra dimension: two typed models only match when their Data types
// are identical.
func (m *Model[T]) Is(other any) bool {
	o, ok := other.(*Model[T])
	if !ok || o == nil {
		return false
	}
	if reflect.TypeOf(m.Data) != reflect.TypeOf(o.Data) {
		return false
	}
	return m.Model.Is(o.Model)
}

// Encode writes Data into the underlying attribute mapping.
func (m *Model[T]) Encode() error {
	attrs, err := encode(m.Data)
	if err != nil {
		return err
	}
	for _, k := range sortedAttrKeys(attrs) {
		m.Set(k, attrs[k])
	}
	return nil
}

// Decode reads the underlying attribute mapping into Data.
func (m *Model[T]) Decode() error {
	raw, err := json.Marshal(m.All())
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to decode attributes into %T: %w", data, err)
	}
	m.Data = data
	return nil
}

// Repository provides type-safe access over a store that supports retrieval.
type Repository[T any] struct {
	kind  string
	store core.Store
	opts  []core.ModelOption
}

// NewRepository creates a typed repository for one model kind.
// The options are applied to every model it creates or retrieves.
func NewRepository[T any](kind string, store core.Store, opts ...core.ModelOption) *Repository[T] {
	return &Repository[T]{kind: kind, store: store, opts: opts}
}

// New creates a typed model wired to the repository's store.
func (r *Repository[T]) New(data T) (*Model[T], error) {
	opts := append([]core.ModelOption{core.WithStore(r.store)}, r.opts...)
	return New(r.kind, data, opts...)
}

// Save persists a typed model through the core pipeline.
func (r *Repository[T]) Save(ctx context.Context, m *Model[T]) error {
	m.AttachStore(r.store)
	return m.Save(ctx)
}

// Get retrieves a model by primary key and decodes it.
func (r *Repository[T]) Get(ctx context.Context, pk any) (*Model[T], error) {
	f, ok := r.store.(core.Finder)
	if !ok {
		return nil, fmt.Errorf("store does not support retrieval")
	}
	m, err := f.Find(ctx, r.kind, pk)
	if err != nil {
		return nil, err
	}
	for _, opt := range r.opts {
		opt(m)
	}
	m.AttachStore(r.store)
	return Wrap[T](m)
}

// List returns all models of the repository kind matching the pattern.
func (r *Repository[T]) List(ctx context.Context, pattern string) ([]*Model[T], error) {
	f, ok := r.store.(core.Finder)
	if !ok {
		return nil, fmt.Errorf("store does not support retrieval")
	}
	models, err := f.List(ctx, r.kind, pattern)
	if err != nil {
		return nil, err
	}

	result := make([]*Model[T], 0, len(models))
	for _, m := range models {
		m.AttachStore(r.store)
		tm, err := Wrap[T](m)
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %v: %w", m.PrimaryKey(), err)
		}
		result = append(result, tm)
	}
	return result, nil
}

// Delete removes a typed model.
func (r *Repository[T]) Delete(ctx context.Context, m *Model[T]) error {
	m.AttachStore(r.store)
	return m.Model.Delete(ctx)
}

// Helper to convert a typed value to an attribute mapping via JSON tags.
func encode[T any](data T) (core.Attributes, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var attrs core.Attributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to attributes: %w", err)
	}
	return attrs, nil
}

func sortedAttrKeys(attrs core.Attributes) []string {
	rec := core.NewRecord(attrs)
	return rec.Keys()
}
