package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the backend
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// File tree metrics
	TreeNodes prometheus.Gauge
	TreeOps   *prometheus.CounterVec

	// Editor session metrics
	TabsOpen     prometheus.Gauge
	TabsModified prometheus.Gauge
	HistoryDepth *prometheus.GaugeVec
	SessionOps   *prometheus.CounterVec

	// Workspace persistence metrics
	WorkspaceSaves    prometheus.Counter
	WorkspaceRestores prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSEvents      prometheus.Counter

	startTime time.Time
}

// NewMetrics creates and registers the metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codedeck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codedeck_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		TreeNodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "codedeck_tree_nodes",
			Help: "Current number of nodes in the virtual file tree",
		}),
		TreeOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codedeck_tree_operations_total",
				Help: "Tree operations by type and outcome",
			},
			[]string{"op", "status"},
		),

		TabsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "codedeck_tabs_open",
			Help: "Currently open editor tabs",
		}),
		TabsModified: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "codedeck_tabs_modified",
			Help: "Open tabs with unsaved drafts",
		}),
		HistoryDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "codedeck_history_depth",
				Help: "Undo/redo stack depth",
			},
			[]string{"stack"},
		),
		SessionOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codedeck_session_operations_total",
				Help: "Editor session operations by type",
			},
			[]string{"op"},
		),

		WorkspaceSaves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codedeck_workspace_saves_total",
			Help: "Workspace snapshots written",
		}),
		WorkspaceRestores: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codedeck_workspace_restores_total",
			Help: "Workspace snapshots restored",
		}),

		WSConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "codedeck_ws_connections",
			Help: "Active WebSocket subscriber connections",
		}),
		WSEvents: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codedeck_ws_events_total",
			Help: "Events broadcast to WebSocket subscribers",
		}),
	}
}

// Uptime returns time since metrics initialization
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
