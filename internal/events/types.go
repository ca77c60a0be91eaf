// Package events defines the lifecycle event envelope carried between a
// record host and the sync listener.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/pkg/model"
)

// OperationType represents the type of record change.
// All values are lowercase to match MongoDB change stream semantics.
type OperationType string

const (
	OperationInsert  OperationType = "insert"
	OperationUpdate  OperationType = "update"
	OperationReplace OperationType = "replace"
	OperationDelete  OperationType = "delete"
)

// IsValid checks if the operation type is a known valid type.
func (o OperationType) IsValid() bool {
	switch o {
	case OperationInsert, OperationUpdate, OperationReplace, OperationDelete:
		return true
	default:
		return false
	}
}

// Trigger maps the operation onto the coordinator's lifecycle notification.
// A replace is an update of every field.
func (o OperationType) Trigger() (indexsync.Trigger, bool) {
	switch o {
	case OperationInsert:
		return indexsync.TriggerInsert, true
	case OperationUpdate, OperationReplace:
		return indexsync.TriggerUpdate, true
	case OperationDelete:
		return indexsync.TriggerDelete, true
	default:
		return "", false
	}
}

// LifecycleEvent is published by the record host after a committed change.
// FullDocument carries the record's attributes after the change; it may be
// empty for deletes.
type LifecycleEvent struct {
	EventID    string `json:"eventId"`
	Collection string `json:"collection"`
	DocumentID string `json:"documentId"`

	Type         OperationType  `json:"operationType"`
	FullDocument map[string]any `json:"fullDocument,omitempty"`

	Timestamp int64 `json:"timestamp"` // Unix milliseconds
}

// NewLifecycleEvent creates a new LifecycleEvent with the current timestamp.
func NewLifecycleEvent(eventID, collection, documentID string, opType OperationType) *LifecycleEvent {
	return &LifecycleEvent{
		EventID:    eventID,
		Collection: collection,
		DocumentID: documentID,
		Type:       opType,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// WithFullDocument sets the full document and returns the event for chaining.
func (e *LifecycleEvent) WithFullDocument(doc map[string]any) *LifecycleEvent {
	e.FullDocument = doc
	return e
}

// Validate reports whether the event can be dispatched.
func (e *LifecycleEvent) Validate() error {
	if e.Collection == "" {
		return fmt.Errorf("event %q has no collection", e.EventID)
	}
	if e.DocumentID == "" {
		return fmt.Errorf("event %q has no document id", e.EventID)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("event %q has unknown operation %q", e.EventID, e.Type)
	}
	return nil
}

// Record exposes the event's document as a model.Record. The primary key is
// always DocumentID, so every operation on one document yields the same identity
// whether or not the event carries the full document.
func (e *LifecycleEvent) Record() *model.MapRecord {
	fields := e.FullDocument
	if fields == nil {
		fields = map[string]any{}
	}
	return &model.MapRecord{Key: e.DocumentID, Fields: fields}
}

// Decode parses a JSON encoded event.
func Decode(data []byte) (*LifecycleEvent, error) {
	var evt LifecycleEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
