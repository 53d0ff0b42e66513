// Package observability holds the Prometheus metrics exported by wort.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/wort/internal/apperr"
)

const namespace = "wort"

// Metrics holds the counters and histograms for recipe analysis and the
// ingredient catalog.
type Metrics struct {
	RecipesAnalyzed prometheus.Counter
	AnalyzeErrors   *prometheus.CounterVec // labels: kind={validation,units,color,sugar,not_found,internal}
	AnalyzeDuration prometheus.Histogram

	CatalogEvents  *prometheus.CounterVec // labels: kind={created,updated,deleted}
	CatalogSyncs   prometheus.Counter
	IngredientHits *prometheus.CounterVec // labels: source={catalog,loader}, result={hit,miss}
}

func newMetrics() *Metrics {
	return &Metrics{
		RecipesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipes_analyzed_total",
			Help:      "Total recipes analyzed successfully.",
		}),
		AnalyzeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyze_errors_total",
			Help:      "Recipe analyses rejected, by error kind.",
		}, []string{"kind"}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Duration of a recipe analysis including reference lookups.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		CatalogEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_events_total",
			Help:      "Reference file changes picked up by the catalog watcher.",
		}, []string{"kind"}),
		CatalogSyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_syncs_total",
			Help:      "Full catalog synchronisations with the data directory.",
		}),
		IngredientHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingredient_lookups_total",
			Help:      "Ingredient lookups by source and result.",
		}, []string{"source", "result"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Register adds the metrics to r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecipesAnalyzed,
		m.AnalyzeErrors,
		m.AnalyzeDuration,
		m.CatalogEvents,
		m.CatalogSyncs,
		m.IngredientHits,
	}
}

// ObserveAnalysis records the outcome of one recipe analysis. A nil
// receiver is a no-op.
func (m *Metrics) ObserveAnalysis(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalyzeDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.AnalyzeErrors.WithLabelValues(apperr.Label(err)).Inc()
		return
	}
	m.RecipesAnalyzed.Inc()
}

// ObserveCatalogEvent counts one watcher event.
func (m *Metrics) ObserveCatalogEvent(kind string) {
	if m == nil {
		return
	}
	m.CatalogEvents.WithLabelValues(kind).Inc()
}

// ObserveSync counts one full catalog sync.
func (m *Metrics) ObserveSync() {
	if m == nil {
		return
	}
	m.CatalogSyncs.Inc()
}

// ObserveLookup counts an ingredient lookup against source.
func (m *Metrics) ObserveLookup(source string, err error) {
	if m == nil {
		return
	}
	result := "hit"
	if err != nil {
		result = "miss"
	}
	m.IngredientHits.WithLabelValues(source, result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves g in the Prometheus text format.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
