package model

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrConfig is returned when a sync binding or field map is misconfigured.
	// It is always raised at construction time, before any event is processed.
	ErrConfig = errors.New("invalid sync configuration")
	// ErrInvalidValue is returned when a derived field produces a value that cannot be indexed
	ErrInvalidValue = errors.New("invalid field value")
	// ErrGateway wraps failures reported by the external index connection
	ErrGateway = errors.New("index gateway failure")
	// ErrNotFound is returned when a document or component is not found
	ErrNotFound = errors.New("document not found")
	// ErrCanceled is returned when the operation is canceled by the caller
	ErrCanceled = errors.New("operation canceled")
)

// WrapError converts context cancellation into ErrCanceled and leaves other errors untouched.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return ErrCanceled
	}
	return err
}

// IsCanceled returns true if the error is due to context cancellation or deadline exceeded.
// It checks both direct context errors and wrapped errors (e.g., from the MongoDB driver).
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrCanceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "context deadline exceeded")
}

// IsFatal reports whether retrying the same event can never succeed.
// Configuration and value errors are deterministic for a given record.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrInvalidValue)
}
