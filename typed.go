package marl

import (
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/typed"
)

// TypedModel wraps a core model with a typed view of its attributes.
// T is the struct you want the attributes decoded into.
type TypedModel[T any] = typed.Model[T]

// TypedRepository provides type-safe access over a store for one model kind.
type TypedRepository[T any] = typed.Repository[T]

// NewTyped creates a typed model of the given kind seeded from data.
func NewTyped[T any](kind string, data T, opts ...core.ModelOption) (*TypedModel[T], error) {
	return typed.New(kind, data, opts...)
}

// NewTypedRepository creates a typed repository over an existing store.
func NewTypedRepository[T any](kind string, store core.Store, opts ...core.ModelOption) *TypedRepository[T] {
	return typed.NewRepository[T](kind, store, opts...)
}
