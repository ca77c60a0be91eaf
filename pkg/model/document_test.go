package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Clone(t *testing.T) {
	doc := Document{"title": "Hi", "tags": []string{"a"}}
	clone := doc.Clone()
	assert.Equal(t, doc, clone)

	clone["title"] = "changed"
	assert.Equal(t, "Hi", doc["title"])

	assert.Nil(t, Document(nil).Clone())
}

func TestDocument_HasKey(t *testing.T) {
	doc := Document{"title": nil}
	assert.True(t, doc.HasKey("title"))
	assert.False(t, doc.HasKey("body"))
}

type stringerKey struct{ a, b string }

func (k stringerKey) String() string { return k.a + ":" + k.b }

func TestFormatIdentity(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{"string", "abc", "abc"},
		{"int", 7, "7"},
		{"int64", int64(42), "42"},
		{"uint64", uint64(9), "9"},
		{"float", float64(7), "7"},
		{"bytes", []byte("k1"), "k1"},
		{"stringer", stringerKey{"a", "b"}, "a:b"},
		{"composite map", map[string]any{"shop": 2, "order": 10}, `{"order":10,"shop":2}`},
		{"composite slice", []any{2, "x"}, `[2,"x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatIdentity(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIdentity_Invalid(t *testing.T) {
	_, err := FormatIdentity(nil)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = FormatIdentity(map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestMapRecord(t *testing.T) {
	rec := NewMapRecord("id", map[string]any{"id": 7, "title": "Hi"})
	assert.Equal(t, 7, rec.PrimaryKey())
	assert.Equal(t, "Hi", rec.Get("title"))
	assert.Nil(t, rec.Get("missing"))
	assert.Equal(t, map[string]any{"id": 7, "title": "Hi"}, rec.Attributes())

	empty := NewMapRecord("id", nil)
	assert.Nil(t, empty.PrimaryKey())
	assert.NotNil(t, empty.Attributes())
}
