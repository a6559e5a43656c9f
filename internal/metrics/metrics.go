// Package metrics provides the centralized Prometheus metrics registry for the simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	TrialsSampledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fightsim",
		Name:      "trials_sampled_total",
		Help:      "Total number of simulated trials by winner",
	}, []string{"winner"})
	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fightsim",
		Name:      "ticks_total",
		Help:      "Total number of sample-and-ingest ticks",
	})
	SessionResetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fightsim",
		Name:      "session_resets_total",
		Help:      "Total number of session resets",
	})
	ModelRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fightsim",
		Name:      "model_rejections_total",
		Help:      "Total number of rejected outcome model edits by layer",
	}, []string{"layer"})
)

// Gauge metrics
var (
	TotalTrials = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fightsim",
		Name:      "total_trials",
		Help:      "Trials accumulated in the current session",
	})
	WinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fightsim",
		Name:      "win_rate",
		Help:      "Running empirical win rate by participant",
	}, []string{"participant"})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fightsim",
		Name:      "ws_clients",
		Help:      "Number of connected snapshot stream clients",
	})
)

// Histogram metrics
var (
	BatchSampleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fightsim",
		Name:      "batch_sample_duration_seconds",
		Help:      "Duration of batch sampling in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})
	IngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fightsim",
		Name:      "ingest_duration_seconds",
		Help:      "Duration of batch ingestion in seconds",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(TrialsSampledTotal)
		registry.MustRegister(TicksTotal)
		registry.MustRegister(SessionResetsTotal)
		registry.MustRegister(ModelRejectionsTotal)

		registry.MustRegister(TotalTrials)
		registry.MustRegister(WinRate)
		registry.MustRegister(WebsocketClients)

		registry.MustRegister(BatchSampleDuration)
		registry.MustRegister(IngestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordTick records one sample-and-ingest tick.
func RecordTick(sampleSeconds, ingestSeconds float64) {
	TicksTotal.Inc()
	BatchSampleDuration.Observe(sampleSeconds)
	IngestDuration.Observe(ingestSeconds)
}

// RecordTrials adds sampled trials for a winner label.
func RecordTrials(winner string, count int) {
	TrialsSampledTotal.WithLabelValues(winner).Add(float64(count))
}

// RecordReset records a session reset.
func RecordReset() {
	SessionResetsTotal.Inc()
	TotalTrials.Set(0)
}

// RecordModelRejection records a rejected model edit.
func RecordModelRejection(layer string) {
	ModelRejectionsTotal.WithLabelValues(layer).Inc()
}

// UpdateTotals updates the running totals gauges.
func UpdateTotals(totalTrials int64, winRates map[string]float64) {
	TotalTrials.Set(float64(totalTrials))
	for participant, rate := range winRates {
		WinRate.WithLabelValues(participant).Set(rate)
	}
}

// UpdateWebsocketClients updates the connected stream clients gauge.
func UpdateWebsocketClients(count int) {
	WebsocketClients.Set(float64(count))
}
