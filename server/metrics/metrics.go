// Package metrics exposes Prometheus counters for the link pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

const namespace = "affiliate"

// Metrics implements affiliate.Observer on Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	linksProcessed     *prometheus.CounterVec
	redirectFailures   prometheus.Counter
	usageRecorded      *prometheus.CounterVec
	messagesClassified *prometheus.CounterVec
	usageEvents        prometheus.Gauge
}

var _ affiliate.Observer = (*Metrics)(nil)

// New creates the collectors on a registry of their own. Every activation gets a new one.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	return newMetrics(registry, registry)
}

func newMetrics(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		linksProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_processed_total",
			Help:      "Marketplace links processed by outcome.",
		}, []string{"outcome"}),
		redirectFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirect_failures_total",
			Help:      "Links whose redirects could not be followed.",
		}),
		usageRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_recorded_total",
			Help:      "Tagged links recorded in the usage log by region.",
		}, []string{"region"}),
		messagesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_classified_total",
			Help:      "Posted messages with marketplace links by composition.",
		}, []string{"composition"}),
		usageEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "usage_events",
			Help:      "Usage events stored across all teams at the last snapshot.",
		}),
	}

	registerer.MustRegister(
		m.linksProcessed,
		m.redirectFailures,
		m.usageRecorded,
		m.messagesClassified,
		m.usageEvents,
	)

	return m
}

func (m *Metrics) LinkProcessed(outcome string) {
	m.linksProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RedirectFailed() {
	m.redirectFailures.Inc()
}

func (m *Metrics) UsageRecorded(region string) {
	m.usageRecorded.WithLabelValues(region).Inc()
}

func (m *Metrics) MessageClassified(composition string) {
	m.messagesClassified.WithLabelValues(composition).Inc()
}

// SetUsageEvents records the stored usage total.
func (m *Metrics) SetUsageEvents(total int64) {
	m.usageEvents.Set(float64(total))
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
