// Package metrics exposes Prometheus collectors for the RPC surface and the
// simulated ledger activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "autorug"

// Metrics holds every collector on its own registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	coinsCreated     prometheus.Counter
	liquidityAdded   prometheus.Counter
	liquidityRemoved prometheus.Counter
	coinsDrained     prometheus.Counter
	pnlRuns          prometheus.Counter
	ledgerChanges    prometheus.Counter
	wsClients        prometheus.Gauge
}

// New creates Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure, including simulated delays.",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 2, 3, 4, 5, 10},
		}, []string{"procedure"}),
		coinsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_created_total",
			Help:      "Coins created by finished wizards.",
		}),
		liquidityAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_added_sol_total",
			Help:      "SOL put into new coins.",
		}),
		liquidityRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_removed_sol_total",
			Help:      "SOL withdrawn from coins.",
		}),
		coinsDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_drained_total",
			Help:      "Coins deleted by a full withdrawal.",
		}),
		pnlRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pnl_generations_total",
			Help:      "Simulated PNL runs.",
		}),
		ledgerChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_changes_total",
			Help:      "Successful ledger mutations.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected change-notification clients.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.coinsCreated,
		m.liquidityAdded,
		m.liquidityRemoved,
		m.coinsDrained,
		m.pnlRuns,
		m.ledgerChanges,
		m.wsClients,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

func (m *Metrics) CoinCreated(investment float64) {
	if m == nil {
		return
	}
	m.coinsCreated.Inc()
	m.liquidityAdded.Add(investment)
}

func (m *Metrics) LiquidityRemoved(amount float64, deleted bool) {
	if m == nil {
		return
	}
	m.liquidityRemoved.Add(amount)
	if deleted {
		m.coinsDrained.Inc()
	}
}

func (m *Metrics) PNLGenerated() {
	if m == nil {
		return
	}
	m.pnlRuns.Inc()
}

func (m *Metrics) LedgerChanged() {
	if m == nil {
		return
	}
	m.ledgerChanges.Inc()
}

func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}
