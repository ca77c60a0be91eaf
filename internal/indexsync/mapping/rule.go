package mapping

import (
	"fmt"

	"github.com/syntrixbase/docsync/pkg/model"
)

// Rule describes how one output field is produced. It is either a CopyRule or a DeriveRule.
type Rule interface {
	isRule()
}

// CopyRule copies a record field verbatim.
type CopyRule struct {
	Field string
}

// DeriveFunc computes a value from the record it is bound to.
type DeriveFunc func(rec model.Record) Value

// DeriveRule computes the output from the record.
type DeriveRule struct {
	Fn DeriveFunc
}

func (CopyRule) isRule()   {}
func (DeriveRule) isRule() {}

// Entry binds an output field name to its rule.
type Entry struct {
	Output string
	Rule   Rule
}

// Copy builds an entry copying source into output.
func Copy(output, source string) Entry {
	return Entry{Output: output, Rule: CopyRule{Field: source}}
}

// Derive builds an entry computing output with fn.
func Derive(output string, fn DeriveFunc) Entry {
	return Entry{Output: output, Rule: DeriveRule{Fn: fn}}
}

// FieldMap is an ordered set of output field rules. The zero value is the
// empty map, which projects every record attribute unchanged.
type FieldMap struct {
	entries []Entry
}

// NewFieldMap validates entries and returns them as a FieldMap.
// Output names must be unique and non-empty and every rule must be usable.
func NewFieldMap(entries ...Entry) (FieldMap, error) {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Output == "" {
			return FieldMap{}, fmt.Errorf("entry %d: output field name cannot be empty: %w", i, model.ErrConfig)
		}
		if seen[e.Output] {
			return FieldMap{}, fmt.Errorf("duplicate output field %q: %w", e.Output, model.ErrConfig)
		}
		seen[e.Output] = true

		switch r := e.Rule.(type) {
		case CopyRule:
			if r.Field == "" {
				return FieldMap{}, fmt.Errorf("field %q: copy rule needs a source field: %w", e.Output, model.ErrConfig)
			}
		case DeriveRule:
			if r.Fn == nil {
				return FieldMap{}, fmt.Errorf("field %q: derive rule needs a function: %w", e.Output, model.ErrConfig)
			}
		default:
			return FieldMap{}, fmt.Errorf("field %q: value is neither a field reference nor a computation: %w", e.Output, model.ErrConfig)
		}
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	return FieldMap{entries: out}, nil
}

// MustFieldMap is NewFieldMap that panics on error. Intended for static maps.
func MustFieldMap(entries ...Entry) FieldMap {
	m, err := NewFieldMap(entries...)
	if err != nil {
		panic(err)
	}
	return m
}

// IsEmpty reports whether the map has no entries.
func (m FieldMap) IsEmpty() bool { return len(m.entries) == 0 }

// Len returns the number of entries.
func (m FieldMap) Len() int { return len(m.entries) }

// Entries returns a copy of the entries in order.
func (m FieldMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Outputs returns the output field names in order.
func (m FieldMap) Outputs() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Output
	}
	return names
}
