// Package service coordinates recipe analysis and ingredient lookups over
// the reference data loader and the catalog index.
package service

import (
	"log/slog"

	"github.com/starford/wort/internal/index"
	"github.com/starford/wort/internal/observability"
	"github.com/starford/wort/internal/refdata"
)

// Service is shared by the HTTP API, the MCP server and the CLI.
type Service struct {
	loader  *refdata.Loader
	catalog index.Catalog
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog serves ingredient listings and search from catalog. Without
// one they are answered from the loader.
func WithCatalog(catalog index.Catalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithMetrics records analysis and lookup metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a service resolving reference data through loader.
func New(loader *refdata.Loader, opts ...Option) *Service {
	s := &Service{loader: loader}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// meteredLookup counts reference lookups made while assembling recipes.
type meteredLookup struct {
	loader  *refdata.Loader
	metrics *observability.Metrics
}

func (m meteredLookup) Get(category, name string) (refdata.Record, error) {
	rec, err := m.loader.Get(category, name)
	m.metrics.ObserveLookup("loader", err)
	return rec, err
}
