package indexsync

import "time"

// Operation labels used in metrics and logs.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Metrics defines the interface for sync telemetry.
type Metrics interface {
	IncSynced(op string)
	IncFallback()
	IncFailure(op string, reason string)
	ObserveLatency(op string, duration time.Duration)
}

// NoopMetrics is a no-op implementation of Metrics.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSynced(op string) {
}

func (m *NoopMetrics) IncFallback() {
}

func (m *NoopMetrics) IncFailure(op string, reason string) {
}

func (m *NoopMetrics) ObserveLatency(op string, duration time.Duration) {
}
