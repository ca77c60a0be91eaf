// Package listener feeds record lifecycle events from NATS JetStream into
// index sync dispatchers.
package listener

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/syntrixbase/docsync/internal/events"
	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/pkg/model"
)

// Consumption results reported to Metrics.
const (
	ResultAck     = "ack"
	ResultIgnored = "ignored"
	ResultRetry   = "retry"
	ResultTerm    = "term"
)

var errMalformed = errors.New("malformed event")

// Dispatcher receives the lifecycle notifications of one collection.
// *indexsync.Coordinator satisfies it.
type Dispatcher interface {
	Handle(ctx context.Context, trigger indexsync.Trigger, rec model.Record) error
}

// Metrics records the outcome of every consumed message.
type Metrics interface {
	IncConsumed(collection, result string)
}

// NoopMetrics is a no-op implementation of Metrics.
type NoopMetrics struct{}

func (NoopMetrics) IncConsumed(collection, result string) {}

// delivery is a message together with its decoded event, so the payload is
// parsed once per delivery.
type delivery struct {
	msg jetstream.Msg
	evt *events.LifecycleEvent
}

// Consumer reads lifecycle events from a JetStream stream and hands them to
// the dispatcher bound to the event's collection. Events of one document are
// always processed by the same worker, in stream order.
type Consumer struct {
	js          jetstream.JetStream
	cfg         Config
	logger      *slog.Logger
	metrics     Metrics
	workerChans []chan delivery
	wg          sync.WaitGroup

	mu       sync.RWMutex
	bindings map[string]Dispatcher

	// Shutdown coordination
	closing       atomic.Bool
	inFlightCount atomic.Int32
}

// Option configures the consumer.
type Option func(*Consumer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *Consumer) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewConsumer creates a consumer on the given connection.
func NewConsumer(nc *nats.Conn, cfg Config, opts ...Option) (*Consumer, error) {
	if nc == nil {
		return nil, fmt.Errorf("nats connection cannot be nil")
	}

	js, err := jetStreamNew(nc)
	if err != nil {
		return nil, err
	}

	return NewConsumerFromJS(js, cfg, opts...), nil
}

// NewConsumerFromJS creates a consumer using an existing JetStream context.
func NewConsumerFromJS(js jetstream.JetStream, cfg Config, opts ...Option) *Consumer {
	cfg.ApplyDefaults()

	c := &Consumer{
		js:       js,
		cfg:      cfg,
		logger:   slog.Default(),
		metrics:  NoopMetrics{},
		bindings: make(map[string]Dispatcher),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "listener", "stream", cfg.StreamName)
	return c
}

// Bind routes events of collection to d.
func (c *Consumer) Bind(collection string, d Dispatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[collection] = d
}

func (c *Consumer) lookup(collection string) (Dispatcher, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.bindings[collection]
	return d, ok
}

// Start begins consuming messages. It blocks until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if err := EnsureStream(ctx, c.js, c.cfg); err != nil {
		return fmt.Errorf("failed to ensure stream: %w", err)
	}

	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.cfg.StreamName, jetstream.ConsumerConfig{
		Durable:       c.cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: fmt.Sprintf("%s.>", c.cfg.StreamName),
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	c.workerChans = make([]chan delivery, c.cfg.NumWorkers)
	for i := 0; i < c.cfg.NumWorkers; i++ {
		c.workerChans[i] = make(chan delivery, c.cfg.ChannelBufSize)
		c.wg.Add(1)
		go c.workerLoop(ctx, i)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		c.dispatch(msg)
	})
	if err != nil {
		for _, ch := range c.workerChans {
			close(ch)
		}
		c.wg.Wait()
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	defer cc.Stop()

	c.logger.Info("Listener started", "workers", c.cfg.NumWorkers, "consumer", c.cfg.ConsumerName)

	<-ctx.Done()

	c.logger.Info("Stopping listener")
	c.closing.Store(true)
	cc.Stop()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), c.cfg.DrainTimeout)
	defer drainCancel()
	c.waitForDrain(drainCtx)

	for _, ch := range c.workerChans {
		close(ch)
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
	defer shutdownCancel()

	select {
	case <-done:
		c.logger.Info("All workers stopped gracefully")
	case <-shutdownCtx.Done():
		c.logger.Warn("Shutdown timeout exceeded, some workers may still be running")
	}

	return nil
}

// waitForDrain waits for all in-flight dispatch() calls to complete.
func (c *Consumer) waitForDrain(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if c.inFlightCount.Load() == 0 {
			return
		}
		select {
		case <-ctx.Done():
			c.logger.Warn("Drain timeout, messages still in-flight", "count", c.inFlightCount.Load())
			return
		case <-ticker.C:
		}
	}
}

func (c *Consumer) dispatch(msg jetstream.Msg) {
	c.inFlightCount.Add(1)
	defer c.inFlightCount.Add(-1)

	if c.closing.Load() {
		_ = msg.Nak()
		return
	}

	evt, err := events.Decode(msg.Data())
	if err != nil {
		c.logger.Error("Invalid payload in dispatch", "error", err)
		c.metrics.IncConsumed("unknown", ResultTerm)
		_ = msg.Term()
		return
	}

	c.workerChans[c.workerFor(evt)] <- delivery{msg: msg, evt: evt}
}

func (c *Consumer) workerFor(evt *events.LifecycleEvent) int {
	h := fnv.New32a()
	h.Write([]byte(evt.Collection))
	h.Write([]byte(evt.DocumentID))
	return int(h.Sum32() % uint32(len(c.workerChans)))
}

func (c *Consumer) workerLoop(ctx context.Context, id int) {
	defer c.wg.Done()

	for d := range c.workerChans[id] {
		c.handleMsg(ctx, d)
	}
}

// handleMsg processes one message and settles it: Ack on success, Term when a
// redelivery cannot help, NakWithDelay otherwise.
func (c *Consumer) handleMsg(ctx context.Context, d delivery) {
	msg, collection := d.msg, d.evt.Collection

	result, err := c.process(ctx, d.evt)
	if err == nil {
		c.metrics.IncConsumed(collection, result)
		_ = msg.Ack()
		return
	}

	if isFatal(err) {
		c.logger.Error("Fatal error processing event, terminating", "collection", collection, "error", err)
		c.metrics.IncConsumed(collection, ResultTerm)
		_ = msg.Term()
		return
	}

	c.retry(msg, collection, err)
}

func (c *Consumer) process(ctx context.Context, evt *events.LifecycleEvent) (string, error) {
	if err := evt.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", errMalformed, err)
	}

	d, ok := c.lookup(evt.Collection)
	if !ok {
		return ResultIgnored, nil
	}

	trigger, _ := evt.Type.Trigger()

	handleCtx, cancel := context.WithTimeout(ctx, c.cfg.HandleTimeout)
	defer cancel()

	c.logger.Debug("Dispatching event", "event_id", evt.EventID, "collection", evt.Collection, "trigger", string(trigger))
	if err := d.Handle(handleCtx, trigger, evt.Record()); err != nil {
		return "", err
	}
	return ResultAck, nil
}

func (c *Consumer) retry(msg jetstream.Msg, collection string, cause error) {
	md, err := msg.Metadata()
	if err != nil {
		c.logger.Error("Failed to get message metadata", "error", err)
		c.metrics.IncConsumed(collection, ResultRetry)
		_ = msg.Nak()
		return
	}

	attempt := int(md.NumDelivered)
	if attempt >= c.cfg.MaxAttempts {
		c.logger.Error("Max attempts reached, terminating", "collection", collection, "attempts", attempt, "error", cause)
		c.metrics.IncConsumed(collection, ResultTerm)
		_ = msg.Term()
		return
	}

	delay := c.backoff(attempt)
	c.logger.Warn("Retrying event", "collection", collection, "delay", delay, "attempt", attempt+1, "max_attempts", c.cfg.MaxAttempts, "error", cause)
	c.metrics.IncConsumed(collection, ResultRetry)
	_ = msg.NakWithDelay(delay)
}

// backoff doubles the initial delay per delivery, capped at MaxBackoff.
func (c *Consumer) backoff(attempt int) time.Duration {
	delay := c.cfg.InitialBackoff
	for i := 1; i < attempt && delay < c.cfg.MaxBackoff; i++ {
		delay *= 2
	}
	if delay > c.cfg.MaxBackoff {
		delay = c.cfg.MaxBackoff
	}
	return delay
}

func isFatal(err error) bool {
	return errors.Is(err, errMalformed) || model.IsFatal(err)
}
