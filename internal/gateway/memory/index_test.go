package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/internal/indexsync/mapping"
	"github.com/syntrixbase/docsync/pkg/model"
)

func TestIndex_Commands(t *testing.T) {
	ctx := context.Background()
	x := New()

	found, err := x.Update(ctx, "blog", "posts", 7, model.Document{"title": "Hi"})
	require.NoError(t, err)
	assert.False(t, found)

	doc := model.Document{"title": "Hi", "body": "x"}
	require.NoError(t, x.Insert(ctx, "blog", "posts", doc, 7))
	doc["title"] = "mutated after insert"

	got, ok := x.Get("blog", "posts", "7")
	require.True(t, ok)
	assert.Equal(t, model.Document{"title": "Hi", "body": "x"}, got)

	found, err = x.Update(ctx, "blog", "posts", 7, model.Document{"title": "Hello"})
	require.NoError(t, err)
	assert.True(t, found)
	got, _ = x.Get("blog", "posts", 7)
	assert.Equal(t, model.Document{"title": "Hello", "body": "x"}, got)

	assert.Equal(t, 1, x.Len("blog", "posts"))
	assert.Equal(t, 0, x.Len("blog", "pages"))

	require.NoError(t, x.Delete(ctx, "blog", "posts", 7))
	require.NoError(t, x.Delete(ctx, "blog", "posts", 7))
	assert.Equal(t, 0, x.Len("blog", "posts"))
}

func TestIndex_Errors(t *testing.T) {
	x := New()

	err := x.Insert(context.Background(), "blog", "posts", model.Document{}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidValue)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = x.Insert(ctx, "blog", "posts", model.Document{}, 1)
	assert.ErrorIs(t, err, model.ErrCanceled)
	_, err = x.Update(ctx, "blog", "posts", 1, model.Document{})
	assert.ErrorIs(t, err, model.ErrCanceled)
	assert.ErrorIs(t, x.Delete(ctx, "blog", "posts", 1), model.ErrCanceled)
}

func TestModel(t *testing.T) {
	ctx := context.Background()
	x := New()
	m := x.Model("blog", "posts")

	n, err := m.UpdateWhere(ctx, model.IDFilter(7), model.Document{"title": "Hi"})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, m.Create(ctx, 7, model.Document{"title": "Hi"}))
	n, err = m.UpdateWhere(ctx, model.IDFilter(7), model.Document{"title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = m.DeleteWhere(ctx, model.IDFilter(7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = m.DeleteWhere(ctx, model.IDFilter(7))
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = m.UpdateWhere(ctx, model.Filters{{Field: "title", Op: model.OpEq, Value: "x"}}, model.Document{})
	assert.ErrorIs(t, err, model.ErrGateway)
	_, err = m.DeleteWhere(ctx, nil)
	assert.ErrorIs(t, err, model.ErrGateway)
}

func TestModel_ConcurrentDeleteCountsOnce(t *testing.T) {
	ctx := context.Background()
	m := New().Model("blog", "posts")
	require.NoError(t, m.Create(ctx, 7, model.Document{"title": "Hi"}))

	var total atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := m.DeleteWhere(ctx, model.IDFilter(7))
			assert.NoError(t, err)
			total.Add(n)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), total.Load())
}

func TestIndex_WithCoordinator(t *testing.T) {
	ctx := context.Background()
	x := New()
	registry := indexsync.NewRegistry()
	registry.Register(indexsync.DefaultComponent, x)

	c, err := indexsync.NewCoordinator(indexsync.Config{
		Components: registry,
		Index:      "blog",
		Type:       "posts",
		FieldMap: mapping.MustFieldMap(
			mapping.Copy("title", "title"),
			mapping.Derive("body", func(rec model.Record) mapping.Value {
				return mapping.String(mapping.StripTags(rec.Get("body").(string)))
			}),
		),
	})
	require.NoError(t, err)

	rec := model.NewMapRecord("id", map[string]any{"id": 7, "title": "Hi", "body": "<p>x</p>"})

	// The index missed the insert; the update heals it.
	require.NoError(t, c.OnUpdate(ctx, rec))
	got, ok := x.Get("blog", "posts", 7)
	require.True(t, ok)
	assert.Equal(t, model.Document{"title": "Hi", "body": "x"}, got)

	rec.Fields["title"] = "Hello"
	require.NoError(t, c.OnUpdate(ctx, rec))
	got, _ = x.Get("blog", "posts", 7)
	assert.Equal(t, "Hello", got["title"])

	require.NoError(t, c.OnDelete(ctx, rec))
	assert.Equal(t, 0, x.Len("blog", "posts"))
}
