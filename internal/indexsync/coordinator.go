// Package indexsync keeps an external search index in step with record
// lifecycle events. A Coordinator projects each record through a field map
// and writes the result through a command or model gateway.
package indexsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/syntrixbase/docsync/internal/indexsync/mapping"
	"github.com/syntrixbase/docsync/pkg/model"
)

// Trigger is a record lifecycle notification.
type Trigger string

const (
	TriggerInsert Trigger = "after_insert"
	TriggerUpdate Trigger = "after_update"
	TriggerDelete Trigger = "after_delete"
)

// Coordinator handles the insert, update and delete lifecycle of one record type.
// It is safe for concurrent use; events share no mutable state.
type Coordinator struct {
	cfg       Config
	sink      sink
	projector *mapping.Projector
	logger    *slog.Logger
	metrics   Metrics
}

// CoordinatorOption configures the coordinator.
type CoordinatorOption func(*Coordinator)

// WithProjector overrides the projector (e.g. to pin the clock).
func WithProjector(p *mapping.Projector) CoordinatorOption {
	return func(c *Coordinator) {
		if p != nil {
			c.projector = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewCoordinator validates cfg and returns a ready coordinator.
// Configuration problems are reported here, never while handling events.
func NewCoordinator(cfg Config, opts ...CoordinatorOption) (*Coordinator, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg:       cfg,
		sink:      newSink(cfg),
		projector: mapping.NewProjector(nil),
		logger:    slog.Default(),
		metrics:   &NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "indexsync", "mode", string(cfg.Mode))
	return c, nil
}

// Triggers lists the lifecycle notifications the coordinator reacts to.
func (c *Coordinator) Triggers() []Trigger {
	return []Trigger{TriggerInsert, TriggerUpdate, TriggerDelete}
}

// Handle dispatches a lifecycle notification. Unknown triggers are ignored.
func (c *Coordinator) Handle(ctx context.Context, trigger Trigger, rec model.Record) error {
	switch trigger {
	case TriggerInsert:
		return c.OnInsert(ctx, rec, nil)
	case TriggerUpdate:
		return c.OnUpdate(ctx, rec)
	case TriggerDelete:
		return c.OnDelete(ctx, rec)
	default:
		return nil
	}
}

// Project builds the index document for rec.
func (c *Coordinator) Project(rec model.Record) (model.Document, error) {
	return c.projector.Project(rec, c.cfg.FieldMap)
}

// OnInsert indexes rec unconditionally. A non-nil doc is sent as-is instead of
// projecting the record again.
func (c *Coordinator) OnInsert(ctx context.Context, rec model.Record, doc model.Document) error {
	start := time.Now()
	if doc == nil {
		var err error
		if doc, err = c.Project(rec); err != nil {
			c.fail(OpInsert, err)
			return err
		}
	}

	id := IdentityOf(rec)
	if err := c.sink.insert(ctx, id, doc); err != nil {
		c.fail(OpInsert, err)
		return fmt.Errorf("failed to insert document %v: %w", id, err)
	}

	c.done(OpInsert, id, start)
	return nil
}

// OnUpdate updates the indexed document of rec. When the index holds no such
// document, the same projected document is inserted instead.
//
// "Not found" is taken at face value: an index that lags behind the primary
// store reports it too, so this is a self-healing heuristic rather than an
// existence check.
func (c *Coordinator) OnUpdate(ctx context.Context, rec model.Record) error {
	start := time.Now()
	doc, err := c.Project(rec)
	if err != nil {
		c.fail(OpUpdate, err)
		return err
	}

	id := IdentityOf(rec)
	found, err := c.sink.update(ctx, id, doc)
	if err != nil {
		c.fail(OpUpdate, err)
		return fmt.Errorf("failed to update document %v: %w", id, err)
	}
	if !found {
		c.logger.Warn("Indexed document missing on update, inserting", "id", id)
		c.metrics.IncFallback()
		return c.OnInsert(ctx, rec, doc)
	}

	c.done(OpUpdate, id, start)
	return nil
}

// OnDelete removes the indexed document of rec. No projection happens.
func (c *Coordinator) OnDelete(ctx context.Context, rec model.Record) error {
	start := time.Now()
	id := IdentityOf(rec)
	if err := c.sink.delete(ctx, id); err != nil {
		c.fail(OpDelete, err)
		return fmt.Errorf("failed to delete document %v: %w", id, err)
	}

	c.done(OpDelete, id, start)
	return nil
}

func (c *Coordinator) done(op string, id model.Identity, start time.Time) {
	c.metrics.IncSynced(op)
	c.metrics.ObserveLatency(op, time.Since(start))
	c.logger.Debug("Document synced", "op", op, "id", id)
}

func (c *Coordinator) fail(op string, err error) {
	c.metrics.IncFailure(op, FailureReason(err))
	c.logger.Error("Document sync failed", "op", op, "error", err)
}

// FailureReason classifies err into a short label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, model.ErrConfig):
		return "config"
	case model.IsCanceled(err):
		return "canceled"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "gateway"
	}
}
