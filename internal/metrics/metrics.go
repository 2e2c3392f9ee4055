package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Runs          *prometheus.CounterVec
	Publishes     *prometheus.CounterVec
	TemplateDraws *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	LastRun       prometheus.Gauge

	mu          sync.RWMutex
	lastRunTime time.Time
	lastStatus  string
	lastError   string
	isHealthy   bool
}

// New registers the announcer metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		isHealthy: true,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ytannounce_runs_total",
			Help: "Announcer runs by outcome status",
		}, []string{"status"}),
		Publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ytannounce_publish_total",
			Help: "Publish attempts by target and result",
		}, []string{"target", "result"}),
		TemplateDraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ytannounce_template_draws_total",
			Help: "Committed template draws by category",
		}, []string{"category"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytannounce_run_duration_seconds",
			Help:    "Wall time of one announcer run",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ytannounce_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
	}
	m.registry.MustRegister(m.Runs, m.Publishes, m.TemplateDraws, m.RunDuration, m.LastRun)
	return m
}

// RecordRun stores the outcome of a run. A non-empty errMsg marks the
// process unhealthy until the next clean run.
func (m *Metrics) RecordRun(status string, d time.Duration, errMsg string) {
	m.Runs.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
	now := time.Now()
	m.LastRun.Set(float64(now.Unix()))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRunTime = now
	m.lastStatus = status
	m.lastError = errMsg
	m.isHealthy = errMsg == ""
}

func (m *Metrics) RecordPublish(target string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Publishes.WithLabelValues(target, result).Inc()
}

func (m *Metrics) RecordDraw(category string) {
	m.TemplateDraws.WithLabelValues(category).Inc()
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	last := ""
	if !m.lastRunTime.IsZero() {
		last = m.lastRunTime.Format(time.RFC3339)
	}
	return map[string]interface{}{
		"last_run_time": last,
		"last_status":   m.lastStatus,
		"last_error":    m.lastError,
		"is_healthy":    m.isHealthy,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
