package mapping

import (
	"fmt"
	"strings"
	"time"

	"github.com/syntrixbase/docsync/pkg/model"
)

// TimestampLayout is the format substituted for NOW().
const TimestampLayout = "2006-01-02 15:04:05"

// Resolver computes a single output field from a record.
type Resolver struct {
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the clock used to resolve NOW().
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver using the local wall clock.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the value of output for rec according to rule.
func (r *Resolver) Resolve(rec model.Record, output string, rule Rule) (any, error) {
	switch rl := rule.(type) {
	case CopyRule:
		return rec.Get(rl.Field), nil
	case DeriveRule:
		if rl.Fn == nil {
			return nil, fmt.Errorf("field %q: derive rule needs a function: %w", output, model.ErrConfig)
		}
		return r.accept(output, rl.Fn(rec))
	default:
		return nil, fmt.Errorf("field %q: value is neither a field reference nor a computation: %w", output, model.ErrConfig)
	}
}

func (r *Resolver) accept(output string, v Value) (any, error) {
	switch v.kind {
	case kindString:
		return v.text, nil
	case kindExpression:
		if strings.EqualFold(strings.TrimSpace(v.text), NowLiteral) {
			return r.now().Format(TimestampLayout), nil
		}
		return nil, fmt.Errorf("field %q: database expression %q cannot be indexed: %w", output, v.text, model.ErrInvalidValue)
	default:
		if err, ok := v.raw.(error); ok {
			return nil, fmt.Errorf("field %q: derivation failed: %v: %w", output, err, model.ErrInvalidValue)
		}
		return nil, fmt.Errorf("field %q: unknown value format %T: %w", output, v.raw, model.ErrInvalidValue)
	}
}
