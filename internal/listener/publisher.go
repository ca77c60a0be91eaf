package listener

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/syntrixbase/docsync/internal/events"
)

// maxSubjectLength bounds the subject; longer ones are replaced by a hash.
const maxSubjectLength = 1024

// Publisher is the host-side helper that emits lifecycle events onto the stream.
type Publisher struct {
	js     jetstream.JetStream
	stream string
}

// NewPublisher creates a publisher on the given connection and ensures the stream exists.
func NewPublisher(ctx context.Context, nc *nats.Conn, cfg Config) (*Publisher, error) {
	if nc == nil {
		return nil, fmt.Errorf("nats connection cannot be nil")
	}
	js, err := jetStreamNew(nc)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := EnsureStream(ctx, js, cfg); err != nil {
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	return NewPublisherFromJS(js, cfg.StreamName), nil
}

// NewPublisherFromJS creates a publisher using an existing JetStream context.
func NewPublisherFromJS(js jetstream.JetStream, stream string) *Publisher {
	return &Publisher{js: js, stream: stream}
}

// EnsureStream creates or updates the stream carrying lifecycle events.
func EnsureStream(ctx context.Context, js jetstream.JetStream, cfg Config) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{fmt.Sprintf("%s.>", cfg.StreamName)},
		Storage:  cfg.StorageTypeValue(),
	})
	return err
}

// Publish sends evt. A missing EventID is generated; it doubles as the
// JetStream message id so a retried publish is deduplicated.
func (p *Publisher) Publish(ctx context.Context, evt *events.LifecycleEvent) error {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if err := evt.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	subject := Subject(p.stream, evt.Collection, evt.DocumentID)
	_, err = p.js.Publish(ctx, subject, data,
		jetstream.WithExpectStream(p.stream),
		jetstream.WithMsgID(evt.EventID),
		jetstream.WithRetryAttempts(3),
	)
	return err
}

// Subject returns the subject of a document's events.
// Format: <stream>.<collection>.<base64url document id>
func Subject(stream, collection, documentID string) string {
	encoded := base64.URLEncoding.EncodeToString([]byte(documentID))
	subject := fmt.Sprintf("%s.%s.%s", stream, collection, encoded)

	if len(subject) > maxSubjectLength {
		hash := sha256.Sum256([]byte(subject))
		subject = fmt.Sprintf("%s.hashed.%s", stream, hex.EncodeToString(hash[:16]))
	}
	return subject
}
