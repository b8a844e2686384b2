package platform

import (
	"github.com/aretw0/marl/pkg/core"
)

// New assembles a model service: it resolves the storage adapter for the URI,
// initializes it and wires the configuration and logger into the service.
//
//	svc, err := marl.New("./content", marl.WithGenerateIDs(true))
func New(uri string, opts ...Option) (*core.Service, error) {
	store, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := resolveConfig(o)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.ServiceOption{core.WithServiceConfig(cfg)}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	return core.NewService(store, svcOpts...), nil
}
