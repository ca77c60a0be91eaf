package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/docsync/pkg/model"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type unknownRule struct{}

func (unknownRule) isRule() {}

func TestResolver_Copy(t *testing.T) {
	rec := model.NewMapRecord("id", map[string]any{"id": 7, "tags": []string{"a", "b"}})
	r := NewResolver()

	v, err := r.Resolve(rec, "out", CopyRule{Field: "tags"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	v, err = r.Resolve(rec, "out", CopyRule{Field: "id"})
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = r.Resolve(rec, "out", CopyRule{Field: "missing"})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResolver_Derive(t *testing.T) {
	rec := model.NewMapRecord("id", map[string]any{"id": 7, "name": "ann"})
	r := NewResolver(WithClock(fixedClock))

	tests := []struct {
		name    string
		fn      DeriveFunc
		want    any
		wantErr error
	}{
		{
			name: "string reads record context",
			fn:   func(rec model.Record) Value { return String(UpperFirst(rec.Get("name").(string))) },
			want: "Ann",
		},
		{
			name: "NOW() sentinel",
			fn:   func(model.Record) Value { return Now() },
			want: "2024-03-09 14:05:07",
		},
		{
			name: "NOW() with casing and whitespace",
			fn:   func(model.Record) Value { return DBExpr("  now() \n") },
			want: "2024-03-09 14:05:07",
		},
		{
			name:    "other database expression",
			fn:      func(model.Record) Value { return DBExpr("CURRENT_DATE") },
			wantErr: model.ErrInvalidValue,
		},
		{
			name:    "non-string value",
			fn:      func(model.Record) Value { return ValueOf(42) },
			wantErr: model.ErrInvalidValue,
		},
		{
			name:    "nil derivation result",
			fn:      func(model.Record) Value { return ValueOf(nil) },
			wantErr: model.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := r.Resolve(rec, "out_field", DeriveRule{Fn: tt.fn})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), `"out_field"`)
				assert.Nil(t, v)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestResolver_NowUsesWallClockByDefault(t *testing.T) {
	rec := model.NewMapRecord("id", nil)
	v, err := NewResolver().Resolve(rec, "ts", DeriveRule{Fn: func(model.Record) Value { return Now() }})
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, v)
}

func TestResolver_ConfigErrors(t *testing.T) {
	rec := model.NewMapRecord("id", nil)
	r := NewResolver()

	_, err := r.Resolve(rec, "x", unknownRule{})
	assert.ErrorIs(t, err, model.ErrConfig)

	_, err = r.Resolve(rec, "x", nil)
	assert.ErrorIs(t, err, model.ErrConfig)

	_, err = r.Resolve(rec, "x", DeriveRule{})
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestValueOf(t *testing.T) {
	assert.True(t, ValueOf("x").IsString())
	assert.True(t, ValueOf(Expression{Literal: "NOW()"}).IsExpression())
	assert.True(t, ValueOf(&Expression{Literal: "NOW()"}).IsExpression())
	assert.False(t, ValueOf((*Expression)(nil)).IsExpression())
	assert.True(t, ValueOf(String("y")).IsString())
	assert.False(t, ValueOf(3.5).IsString())

	assert.Equal(t, "x", String("x").String())
	assert.Equal(t, "expr(NOW())", Now().String())
	assert.Equal(t, "invalid(int)", Invalid(1).String())
}
