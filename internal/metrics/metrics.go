package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metrics for the API and worker.
type Metrics struct {
	// AI generation
	AIGenerationsTotal          *prometheus.CounterVec
	AIGenerationDurationSeconds *prometheus.HistogramVec
	AIFailuresTotal             *prometheus.CounterVec

	// API
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec
	RateLimitExceededTotal    *prometheus.CounterVec

	// Campaigns
	CampaignsByHealth    *prometheus.GaugeVec
	HealthChangesTotal   prometheus.Counter
	HealthRefreshSeconds prometheus.Histogram

	// Live feed
	WSClientsActive prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance on its own registry, with the Go runtime
// and process collectors attached.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		AIGenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adstronaut_ai_generations_total",
				Help: "Completed AI generations by feature and recovery tier",
			},
			[]string{"feature", "tier"},
		),
		AIGenerationDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adstronaut_ai_generation_duration_seconds",
				Help:    "Time from prompt to recovered result",
				Buckets: []float64{.25, .5, 1, 2, 4, 8, 15, 30, 60},
			},
			[]string{"feature"},
		),
		AIFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adstronaut_ai_failures_total",
				Help: "Failed AI generations by feature and error kind",
			},
			[]string{"feature", "kind"},
		),

		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adstronaut_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adstronaut_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adstronaut_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),
		RateLimitExceededTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adstronaut_ratelimit_exceeded_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"scope"},
		),

		CampaignsByHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "adstronaut_campaigns",
				Help: "Campaigns by status and health after the last refresh",
			},
			[]string{"status", "health"},
		),
		HealthChangesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "adstronaut_campaign_health_changes_total",
				Help: "Campaign health transitions detected by the refresher",
			},
		),
		HealthRefreshSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "adstronaut_health_refresh_duration_seconds",
				Help: "Duration of one campaign health refresh pass",
			},
		),

		WSClientsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "adstronaut_ws_clients_active",
				Help: "Connected websocket clients",
			},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.AIGenerationsTotal,
		m.AIGenerationDurationSeconds,
		m.AIFailuresTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
		m.RateLimitExceededTotal,
		m.CampaignsByHealth,
		m.HealthChangesTotal,
		m.HealthRefreshSeconds,
		m.WSClientsActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveGeneration records a completed generation.
func (m *Metrics) ObserveGeneration(feature, tier string, elapsed time.Duration) {
	m.AIGenerationsTotal.WithLabelValues(feature, tier).Inc()
	m.AIGenerationDurationSeconds.WithLabelValues(feature).Observe(elapsed.Seconds())
}

// ObserveFailure records a failed generation.
func (m *Metrics) ObserveFailure(feature, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.AIFailuresTotal.WithLabelValues(feature, kind).Inc()
}

func (m *Metrics) IncRateLimitExceeded(scope string) {
	m.RateLimitExceededTotal.WithLabelValues(scope).Inc()
}

// SetCampaignCounts replaces the campaign gauge with counts keyed by status and health.
func (m *Metrics) SetCampaignCounts(counts map[[2]string]int) {
	m.CampaignsByHealth.Reset()
	for k, n := range counts {
		m.CampaignsByHealth.WithLabelValues(k[0], k[1]).Set(float64(n))
	}
}

func (m *Metrics) ObserveHealthRefresh(changed int, elapsed time.Duration) {
	m.HealthChangesTotal.Add(float64(changed))
	m.HealthRefreshSeconds.Observe(elapsed.Seconds())
}
