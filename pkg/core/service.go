package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/marl/pkg/config"
)

// Service handles the business logic for models on top of a Store.
type Service struct {
	store  Store
	cfg    *config.Config
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for debug output.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithServiceConfig sets the model-layer configuration handed to new models.
func WithServiceConfig(cfg *config.Config) ServiceOption {
	return func(s *Service) { s.cfg = cfg }
}

// NewService creates a new Service over the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// NewModel creates a model pre-wired with the service config and store.
func (s *Service) NewModel(kind string, attrs Attributes, opts ...ModelOption) *Model {
	base := []ModelOption{WithConfig(s.cfg), WithStore(s.store)}
	return NewModel(kind, attrs, append(base, opts...)...)
}

// SaveModel runs the save pipeline for a model, attaching the service store
// when the model has none of its own.
func (s *Service) SaveModel(ctx context.Context, m *Model) error {
	if m == nil {
		return errors.New("model cannot be nil")
	}
	if m.kind == "" {
		return errors.New("model kind cannot be empty")
	}
	if m.store == nil {
		m.store = s.store
	}

	err := m.Save(ctx)
	if s.logger != nil {
		if err != nil {
			s.logger.Debug("save failed", "kind", m.Kind(), "pk", m.PrimaryKey(), "error", err)
		} else {
			s.logger.Debug("saved model", "kind", m.Kind(), "pk", m.PrimaryKey())
		}
	}
	return err
}

// DeleteModel removes a model through the service store.
func (s *Service) DeleteModel(ctx context.Context, m *Model) error {
	if m == nil {
		return errors.New("model cannot be nil")
	}
	if m.store == nil {
		m.store = s.store
	}
	return m.Delete(ctx)
}

// FindModel retrieves a model by kind and primary key, if the store
// supports retrieval.
func (s *Service) FindModel(ctx context.Context, kind string, pk any) (*Model, error) {
	f, ok := s.store.(Finder)
	if !ok {
		return nil, errors.New("store does not support retrieval")
	}
	if kind == "" {
		return nil, errors.New("model kind cannot be empty")
	}
	m, err := f.Find(ctx, kind, pk)
	if err != nil {
		return nil, err
	}
	m.cfg = s.cfg
	m.store = s.store
	return m, nil
}

// ListModels returns all models of a kind matching the pattern, if the store
// supports retrieval.
func (s *Service) ListModels(ctx context.Context, kind, pattern string) ([]*Model, error) {
	f, ok := s.store.(Finder)
	if !ok {
		return nil, errors.New("store does not support retrieval")
	}
	models, err := f.List(ctx, kind, pattern)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		m.cfg = s.cfg
		m.store = s.store
	}
	return models, nil
}

// Watch observes changes in the store if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx, pattern)
}
