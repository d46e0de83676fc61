// Package metrics defines the custom Prometheus metrics for the catalog
// API. It is the single source of truth for metric names, labels, and help
// strings; the echoprometheus middleware covers per-request HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ImportRowsTotal counts bulk-import rows by outcome.
// Label:
//   - result: "persisted" or "rejected"
var ImportRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of bulk-import rows, by outcome.",
	},
	[]string{"result"},
)

// ImportDuration measures a whole bulk-import run.
var ImportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_duration_seconds",
		Help:      "Duration of a bulk CSV import from first byte to summary.",
		Buckets:   prometheus.DefBuckets,
	},
)

// UploadsTotal counts uploads accepted by the dispatch endpoint.
// Label:
//   - kind: "csv" or "image"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of accepted uploads, by kind.",
	},
	[]string{"kind"},
)

// ImageProcessingDuration measures decode-resize-persist for one image.
var ImageProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_processing_duration_seconds",
		Help:      "Duration of image decode, resize and persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AuthFailuresTotal counts rejected logins. No labels: the whole point of
// the generic login failure is that the reason is not observable.
var AuthFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected login attempts.",
	},
)
