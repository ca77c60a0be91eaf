// Package services wires configuration into a running sync process.
package services

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/syntrixbase/docsync/internal/config"
	"github.com/syntrixbase/docsync/internal/gateway/memory"
	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/internal/listener"
)

type Options struct {
	// RunListener consumes lifecycle events from NATS.
	RunListener bool
	// Standalone keeps the index in process memory instead of Elasticsearch or MongoDB.
	Standalone bool
}

type eventConsumer interface {
	Start(ctx context.Context) error
	Bind(collection string, d listener.Dispatcher)
}

type Manager struct {
	cfg         *config.Config
	opts        Options
	logger      *slog.Logger
	registry    *indexsync.Registry
	coordinator *indexsync.Coordinator
	memIndex    *memory.Index
	consumer    eventConsumer
	natsConn    *nats.Conn
	servers     []*http.Server
	serverNames []string
	closers     []func(context.Context) error
	wg          sync.WaitGroup
}

func NewManager(cfg *config.Config, opts Options) *Manager {
	return &Manager{
		cfg:      cfg,
		opts:     opts,
		logger:   slog.Default().With("component", "services"),
		registry: indexsync.NewRegistry(),
	}
}

// Coordinator returns the coordinator built by Init, for in-process hosts.
func (m *Manager) Coordinator() *indexsync.Coordinator {
	return m.coordinator
}

// Registry returns the command gateway registry. Gateways may be swapped at
// runtime; the coordinator resolves its component on every call.
func (m *Manager) Registry() *indexsync.Registry {
	return m.registry
}
