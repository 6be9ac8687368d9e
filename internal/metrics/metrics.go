package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard and relay.
type Metrics struct {
	RefreshesTotal       prometheus.Counter
	RefreshFailuresTotal *prometheus.CounterVec // labels: kind=upstream|malformed|other
	RefreshDuration      prometheus.Histogram
	CommandsTotal        prometheus.Counter
	WSClients            prometheus.Gauge

	RelayWebhooksTotal        prometheus.Counter
	RelayForwardFailuresTotal prometheus.Counter

	registry *prometheus.Registry
}

// New registers and returns all metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		RefreshesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlepulse_refreshes_total",
			Help: "Total pipeline refreshes attempted",
		}),
		RefreshFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candlepulse_refresh_failures_total",
			Help: "Failed refreshes by failure kind",
		}, []string{"kind"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "candlepulse_refresh_duration_seconds",
			Help:    "Fetch+normalize+compute latency per refresh",
			Buckets: prometheus.DefBuckets,
		}),
		CommandsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlepulse_commands_total",
			Help: "Chat commands received on the inbound endpoint",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "candlepulse_ws_clients",
			Help: "Currently connected WebSocket clients",
		}),
		RelayWebhooksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlepulse_relay_webhooks_total",
			Help: "Inbound chat webhooks handled by the relay",
		}),
		RelayForwardFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlepulse_relay_forward_failures_total",
			Help: "Best-effort forwards that failed (logged, never surfaced)",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RefreshesTotal, m.RefreshFailuresTotal, m.RefreshDuration,
		m.CommandsTotal, m.WSClients,
		m.RelayWebhooksTotal, m.RelayForwardFailuresTotal,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
