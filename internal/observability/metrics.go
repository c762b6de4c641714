// Package observability holds the Prometheus instruments of the site
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultUnchanged = "unchanged"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	DatasetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_dataset_loads_total",
		Help: "Commit log loads by trigger and result.",
	}, []string{"trigger", "result"})

	DatasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_dataset_load_seconds",
		Help:    "Time spent loading and aggregating the commit log.",
		Buckets: prometheus.DefBuckets,
	})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_dataset_rows",
		Help: "Rows in the current dataset.",
	})

	DatasetSkippedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_dataset_skipped_rows",
		Help: "Rows rejected by validation in the current dataset.",
	})

	DatasetCommits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_dataset_commits",
		Help: "Commits in the current dataset.",
	})

	ProjectsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_projects",
		Help: "Projects in the current project list.",
	})

	GitHubCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_github_cache_total",
		Help: "GitHub profile cache lookups by result (hit, miss, stale).",
	}, []string{"result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_watcher_events_total",
		Help: "Debounced file system change batches that triggered a reload.",
	})

	SSHSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_ssh_sessions_active",
		Help: "Open SSH dashboard sessions.",
	})
)
