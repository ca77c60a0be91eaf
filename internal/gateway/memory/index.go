// Package memory provides an in-process document index implementing both
// gateway shapes. It backs standalone deployments and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/pkg/model"
)

// Index stores documents per index/type, keyed by formatted identity.
type Index struct {
	mu   sync.RWMutex
	docs map[string]map[string]model.Document
}

// New creates an empty Index.
func New() *Index {
	return &Index{docs: make(map[string]map[string]model.Document)}
}

func bucketKey(index, typ string) string {
	return index + "/" + typ
}

// Insert implements indexsync.CommandGateway.
func (x *Index) Insert(ctx context.Context, index, typ string, doc model.Document, id model.Identity) error {
	if err := ctx.Err(); err != nil {
		return model.WrapError(err)
	}
	key, err := model.FormatIdentity(id)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	b, ok := x.docs[bucketKey(index, typ)]
	if !ok {
		b = make(map[string]model.Document)
		x.docs[bucketKey(index, typ)] = b
	}
	b[key] = doc.Clone()
	return nil
}

// Update implements indexsync.CommandGateway. Fields of doc are merged into the stored document.
func (x *Index) Update(ctx context.Context, index, typ string, id model.Identity, doc model.Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, model.WrapError(err)
	}
	key, err := model.FormatIdentity(id)
	if err != nil {
		return false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	stored, ok := x.docs[bucketKey(index, typ)][key]
	if !ok {
		return false, nil
	}
	for k, v := range doc {
		stored[k] = v
	}
	return true, nil
}

// Delete implements indexsync.CommandGateway. Deleting a missing document is not an error.
func (x *Index) Delete(ctx context.Context, index, typ string, id model.Identity) error {
	_, err := x.remove(ctx, index, typ, id)
	return err
}

// remove deletes the document and reports whether it existed, under one lock.
func (x *Index) remove(ctx context.Context, index, typ string, id model.Identity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, model.WrapError(err)
	}
	key, err := model.FormatIdentity(id)
	if err != nil {
		return false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	b := x.docs[bucketKey(index, typ)]
	if _, ok := b[key]; !ok {
		return false, nil
	}
	delete(b, key)
	return true, nil
}

// Get returns a copy of the stored document.
func (x *Index) Get(index, typ string, id model.Identity) (model.Document, bool) {
	key, err := model.FormatIdentity(id)
	if err != nil {
		return nil, false
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	doc, ok := x.docs[bucketKey(index, typ)][key]
	return doc.Clone(), ok
}

// Len returns the number of documents stored under index/type.
func (x *Index) Len(index, typ string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs[bucketKey(index, typ)])
}

// Model returns a ModelGateway bound to index/type.
func (x *Index) Model(index, typ string) *Model {
	return &Model{index: x, name: index, typ: typ}
}

// Model is a document-model view of one index/type. Only id filters are supported.
type Model struct {
	index *Index
	name  string
	typ   string
}

// Create implements indexsync.ModelGateway.
func (m *Model) Create(ctx context.Context, id model.Identity, doc model.Document) error {
	return m.index.Insert(ctx, m.name, m.typ, doc, id)
}

// UpdateWhere implements indexsync.ModelGateway.
func (m *Model) UpdateWhere(ctx context.Context, filters model.Filters, doc model.Document) (int64, error) {
	id, err := idOf(filters)
	if err != nil {
		return 0, err
	}
	found, err := m.index.Update(ctx, m.name, m.typ, id, doc)
	if err != nil || !found {
		return 0, err
	}
	return 1, nil
}

// DeleteWhere implements indexsync.ModelGateway.
func (m *Model) DeleteWhere(ctx context.Context, filters model.Filters) (int64, error) {
	id, err := idOf(filters)
	if err != nil {
		return 0, err
	}
	found, err := m.index.remove(ctx, m.name, m.typ, id)
	if err != nil || !found {
		return 0, err
	}
	return 1, nil
}

func idOf(filters model.Filters) (model.Identity, error) {
	if len(filters) != 1 {
		return nil, fmt.Errorf("memory model supports a single id filter: %w", model.ErrGateway)
	}
	id, ok := filters.IdentityOf()
	if !ok {
		return nil, fmt.Errorf("memory model supports a single id filter: %w", model.ErrGateway)
	}
	return id, nil
}

var (
	_ indexsync.CommandGateway = (*Index)(nil)
	_ indexsync.ModelGateway   = (*Model)(nil)
)
