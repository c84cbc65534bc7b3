// Package bridge wires configuration into ready-to-use A1 clients.
package bridge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/config"
	"github.com/marcus-qen/a1bridge/internal/supervision"
	"github.com/marcus-qen/a1bridge/internal/transport"
)

// RIC is one configured RIC with its instrumented client.
type RIC struct {
	Config a1.RicConfig
	Client a1.Client
}

// Builder creates clients that share one HTTP transport.
type Builder struct {
	registry *a1.Registry
	factory  *transport.Factory
	logger   *zap.Logger
}

// NewBuilder returns a Builder for the HTTP settings in cfg.
func NewBuilder(cfg config.HTTPConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		registry: a1.NewRegistry(),
		factory: transport.NewFactory(transport.Config{
			Timeout:       cfg.Timeout,
			TLSSkipVerify: cfg.TLSSkipVerify,
			Logger:        logger,
		}),
		logger: logger,
	}
}

// RestClient is the a1.RestClientFactory backed by the shared transport.
func (b *Builder) RestClient(baseURL string) a1.RestClient {
	return b.factory.New(baseURL)
}

// Build creates the instrumented client for one RIC.
func (b *Builder) Build(ric config.RicConfig) (RIC, error) {
	ricCfg, err := ric.A1()
	if err != nil {
		return RIC{}, fmt.Errorf("ric %s: %w", ric.ID, err)
	}
	client, err := b.registry.Create(ricCfg, b.RestClient, b.logger)
	if err != nil {
		return RIC{}, err
	}
	return RIC{Config: ricCfg, Client: a1.Instrument(client, ricCfg.ID, b.logger)}, nil
}

// BuildAll creates a client for every configured RIC, in configuration order.
func (b *Builder) BuildAll(rics []config.RicConfig) ([]RIC, error) {
	out := make([]RIC, 0, len(rics))
	for _, ric := range rics {
		built, err := b.Build(ric)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

// Targets turns built RICs into supervision targets.
func Targets(rics []RIC) []supervision.Target {
	targets := make([]supervision.Target, 0, len(rics))
	for _, ric := range rics {
		targets = append(targets, supervision.Target{ID: ric.Config.ID, Client: ric.Client})
	}
	return targets
}
