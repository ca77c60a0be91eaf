package indexsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/syntrixbase/docsync/pkg/model"
)

// CommandGateway issues low-level document commands against a named index and type.
type CommandGateway interface {
	// Insert indexes doc under id, replacing any existing document.
	Insert(ctx context.Context, index, typ string, doc model.Document, id model.Identity) error

	// Update merges doc into the document stored under id.
	// found is false when no such document exists.
	Update(ctx context.Context, index, typ string, id model.Identity, doc model.Document) (found bool, err error)

	// Delete removes the document stored under id.
	Delete(ctx context.Context, index, typ string, id model.Identity) error
}

// ModelGateway is a document-model abstraction that already knows its index mapping.
type ModelGateway interface {
	// Create persists a new document with the given id.
	Create(ctx context.Context, id model.Identity, doc model.Document) error

	// UpdateWhere applies doc to every document matching filters and returns how many matched.
	UpdateWhere(ctx context.Context, filters model.Filters, doc model.Document) (int64, error)

	// DeleteWhere removes every document matching filters and returns how many were removed.
	DeleteWhere(ctx context.Context, filters model.Filters) (int64, error)
}

// ComponentResolver looks up a command gateway by component name.
type ComponentResolver interface {
	Resolve(name string) (CommandGateway, error)
}

// Registry is a ComponentResolver whose components can be replaced at runtime.
type Registry struct {
	mu         sync.RWMutex
	components map[string]CommandGateway
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]CommandGateway)}
}

// Register binds name to gw, replacing any previous binding.
func (r *Registry) Register(name string, gw CommandGateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = gw
}

// Unregister removes name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.components, name)
}

// Resolve implements ComponentResolver.
func (r *Registry) Resolve(name string) (CommandGateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gw, ok := r.components[name]
	if !ok || gw == nil {
		return nil, fmt.Errorf("component %q: %w", name, model.ErrNotFound)
	}
	return gw, nil
}

// sink is the mode-independent view the coordinator works with.
type sink interface {
	insert(ctx context.Context, id model.Identity, doc model.Document) error
	update(ctx context.Context, id model.Identity, doc model.Document) (bool, error)
	delete(ctx context.Context, id model.Identity) error
}

// commandSink resolves its gateway on every call so components can be swapped.
type commandSink struct {
	components ComponentResolver
	component  string
	index      string
	typ        string
}

func (s *commandSink) gateway() (CommandGateway, error) {
	gw, err := s.components.Resolve(s.component)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve gateway: %w", err)
	}
	return gw, nil
}

func (s *commandSink) insert(ctx context.Context, id model.Identity, doc model.Document) error {
	gw, err := s.gateway()
	if err != nil {
		return err
	}
	return gw.Insert(ctx, s.index, s.typ, doc, id)
}

func (s *commandSink) update(ctx context.Context, id model.Identity, doc model.Document) (bool, error) {
	gw, err := s.gateway()
	if err != nil {
		return false, err
	}
	return gw.Update(ctx, s.index, s.typ, id, doc)
}

func (s *commandSink) delete(ctx context.Context, id model.Identity) error {
	gw, err := s.gateway()
	if err != nil {
		return err
	}
	return gw.Delete(ctx, s.index, s.typ, id)
}

type modelSink struct {
	model ModelGateway
}

func (s *modelSink) insert(ctx context.Context, id model.Identity, doc model.Document) error {
	return s.model.Create(ctx, id, doc)
}

func (s *modelSink) update(ctx context.Context, id model.Identity, doc model.Document) (bool, error) {
	n, err := s.model.UpdateWhere(ctx, model.IDFilter(id), doc)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *modelSink) delete(ctx context.Context, id model.Identity) error {
	_, err := s.model.DeleteWhere(ctx, model.IDFilter(id))
	return err
}

func newSink(cfg Config) sink {
	if cfg.Mode == ModeModel {
		return &modelSink{model: cfg.Model}
	}
	return &commandSink{
		components: cfg.Components,
		component:  cfg.Component,
		index:      cfg.Index,
		typ:        cfg.Type,
	}
}
