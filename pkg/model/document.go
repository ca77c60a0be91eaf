package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is the index-ready projection of a Record, keyed by output field name.
// It is built per lifecycle event and discarded after the gateway call.
type Document map[string]interface{}

// Clone returns a shallow copy of the document.
func (doc Document) Clone() Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// HasKey reports whether the document carries the given field.
func (doc Document) HasKey(key string) bool {
	_, exists := doc[key]
	return exists
}

// Identity is the primary key of the owning record, used as the external document id.
// Its shape is owned by the primary store and is not validated here.
type Identity any

// FormatIdentity renders an identity as the string id sent to an index.
// Scalars use their natural text form; composite keys are encoded as JSON so
// the same key always maps to the same id.
func FormatIdentity(id Identity) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", fmt.Errorf("empty identity: %w", ErrInvalidValue)
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		// encoding/json sorts map keys, so composite keys render deterministically.
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("identity %v: %w", v, ErrInvalidValue)
		}
		return string(data), nil
	}
}
