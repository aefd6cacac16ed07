package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caretrek_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caretrek_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	alertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caretrek_alerts_raised_total",
		Help: "Emergency alerts raised, by type.",
	}, []string{"type"})

	websocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caretrek_websocket_clients",
		Help: "Currently connected websocket clients.",
	})

	cpuPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caretrek_system_cpu_percent",
		Help: "Host CPU usage percent.",
	})

	memoryPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caretrek_system_memory_percent",
		Help: "Host memory usage percent.",
	})

	diskPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caretrek_system_disk_percent",
		Help: "Host disk usage percent.",
	})
)

// RecordRequest is called by the request-metrics middleware.
func RecordRequest(method, path, status string, duration time.Duration) {
	requestsTotal.WithLabelValues(method, path, status).Inc()
	requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAlert counts a raised emergency alert.
func RecordAlert(alertType string) {
	alertsRaised.WithLabelValues(alertType).Inc()
}

// SetWebsocketClients tracks the live client count.
func SetWebsocketClients(n int) {
	websocketClients.Set(float64(n))
}

func updateSystemGauges(snap *SystemSnapshot) {
	cpuPercent.Set(snap.CPUPercent)
	memoryPercent.Set(snap.MemoryPercent)
	diskPercent.Set(snap.DiskPercent)
}
