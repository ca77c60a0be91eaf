package model

// Record is a live domain entity whose mutation triggers synchronization.
// The sync engine only reads it while an event is being handled.
type Record interface {
	// Get returns the current value of a field, or nil when the field is absent.
	Get(field string) any

	// Attributes returns all current attribute values keyed by field name.
	Attributes() map[string]any

	// PrimaryKey returns the record's primary key, scalar or composite.
	PrimaryKey() any
}

// MapRecord is a Record backed by a plain attribute map.
type MapRecord struct {
	Key    any
	Fields map[string]any
}

// NewMapRecord creates a record whose primary key is read from keyField.
// A missing keyField leaves the key nil.
func NewMapRecord(keyField string, fields map[string]any) *MapRecord {
	if fields == nil {
		fields = map[string]any{}
	}
	return &MapRecord{Key: fields[keyField], Fields: fields}
}

func (r *MapRecord) Get(field string) any {
	return r.Fields[field]
}

func (r *MapRecord) Attributes() map[string]any {
	return r.Fields
}

func (r *MapRecord) PrimaryKey() any {
	return r.Key
}

var _ Record = (*MapRecord)(nil)
