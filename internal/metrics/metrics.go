// Package metrics exposes Prometheus instruments for index synchronization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/syntrixbase/docsync/internal/indexsync"
)

var (
	DocumentsSynced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docsync_documents_synced_total",
		Help: "The total number of documents written to the index",
	}, []string{"op"})

	SyncFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docsync_sync_failures_total",
		Help: "The total number of failed synchronizations",
	}, []string{"op", "reason"})

	UpdateFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "docsync_update_fallbacks_total",
		Help: "The total number of updates that found no indexed document and inserted instead",
	})

	SyncLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "docsync_sync_latency_seconds",
		Help: "The latency of index writes",
	}, []string{"op"})

	EventsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docsync_events_consumed_total",
		Help: "The total number of lifecycle events consumed from the stream",
	}, []string{"collection", "result"})
)

func init() {
	prometheus.MustRegister(DocumentsSynced)
	prometheus.MustRegister(SyncFailures)
	prometheus.MustRegister(UpdateFallbacks)
	prometheus.MustRegister(SyncLatency)
	prometheus.MustRegister(EventsConsumed)
}

// Sync implements indexsync.Metrics on the package instruments.
type Sync struct{}

func (Sync) IncSynced(op string) {
	DocumentsSynced.WithLabelValues(op).Inc()
}

func (Sync) IncFallback() {
	UpdateFallbacks.Inc()
}

func (Sync) IncFailure(op string, reason string) {
	SyncFailures.WithLabelValues(op, reason).Inc()
}

func (Sync) ObserveLatency(op string, duration time.Duration) {
	SyncLatency.WithLabelValues(op).Observe(duration.Seconds())
}

var _ indexsync.Metrics = Sync{}

// Listener implements listener.Metrics on the package instruments.
type Listener struct{}

func (Listener) IncConsumed(collection, result string) {
	EventsConsumed.WithLabelValues(collection, result).Inc()
}
