package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCanceled(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"ErrCanceled", ErrCanceled, true},
		{"wrapped context.Canceled", fmt.Errorf("wrapped: %w", context.Canceled), true},
		{"string contains context canceled", errors.New("elastic: context canceled"), true},
		{"string contains context deadline exceeded", errors.New("timeout: context deadline exceeded"), true},
		{"unrelated error", errors.New("some other error"), false},
		{"ErrGateway", ErrGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCanceled(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"nil error", nil, nil},
		{"context.Canceled", context.Canceled, ErrCanceled},
		{"context.DeadlineExceeded", context.DeadlineExceeded, ErrCanceled},
		{"string contains context canceled", errors.New("mongodb: context canceled"), ErrCanceled},
		{"unrelated error", ErrNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WrapError(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("field %q: %w", "body", ErrInvalidValue)))
	assert.True(t, IsFatal(fmt.Errorf("mode: %w", ErrConfig)))
	assert.False(t, IsFatal(fmt.Errorf("insert: %w", ErrGateway)))
	assert.False(t, IsFatal(nil))
}
