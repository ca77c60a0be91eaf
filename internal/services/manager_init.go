package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/syntrixbase/docsync/internal/gateway/elastic"
	"github.com/syntrixbase/docsync/internal/gateway/memory"
	"github.com/syntrixbase/docsync/internal/gateway/mongo"
	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/internal/indexsync/mapping"
	"github.com/syntrixbase/docsync/internal/listener"
	"github.com/syntrixbase/docsync/internal/metrics"
	"github.com/syntrixbase/docsync/pkg/model"
)

var elasticFactory = func(cfg elastic.Config) (indexsync.CommandGateway, error) {
	return elastic.NewClient(cfg)
}

var mongoFactory = func(ctx context.Context, cfg mongo.Config) (indexsync.ModelGateway, func(context.Context) error, error) {
	return mongo.Connect(ctx, cfg)
}

var natsConnect = func(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("docsync"))
}

var consumerFactory = func(nc *nats.Conn, cfg listener.Config, opts ...listener.Option) (eventConsumer, error) {
	return listener.NewConsumer(nc, cfg, opts...)
}

func (m *Manager) Init(ctx context.Context) error {
	fieldMap, err := m.loadFieldMap()
	if err != nil {
		return err
	}

	syncCfg, err := m.initGateways(ctx)
	if err != nil {
		return err
	}
	syncCfg.FieldMap = fieldMap

	m.coordinator, err = indexsync.NewCoordinator(syncCfg,
		indexsync.WithLogger(slog.Default()),
		indexsync.WithMetrics(metrics.Sync{}),
	)
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}

	if m.opts.RunListener {
		if err := m.initListener(); err != nil {
			return err
		}
	}

	if m.cfg.Metrics.Enabled {
		m.initMetricsServer()
	}
	return nil
}

func (m *Manager) loadFieldMap() (mapping.FieldMap, error) {
	path := m.cfg.Sync.FieldMapPath
	if path == "" {
		m.logger.Info("No field map configured, indexing all record attributes")
		return mapping.FieldMap{}, nil
	}

	fm, err := mapping.LoadFromFile(path, nil)
	if err != nil {
		return mapping.FieldMap{}, fmt.Errorf("failed to load field map %s: %w", path, err)
	}
	m.logger.Info("Field map loaded", "path", path, "fields", fm.Len())
	return fm, nil
}

// initGateways builds the gateway for the configured mode and returns the
// coordinator config pointing at it.
func (m *Manager) initGateways(ctx context.Context) (indexsync.Config, error) {
	sc := m.cfg.Sync
	cfg := indexsync.Config{
		Mode:       indexsync.Mode(sc.Mode),
		Component:  sc.Component,
		Components: m.registry,
		Index:      sc.Index,
		Type:       sc.Type,
	}

	if m.opts.Standalone {
		m.memIndex = memory.New()
		switch cfg.Mode {
		case indexsync.ModeModel:
			cfg.Model = m.memIndex.Model(sc.Index, sc.Type)
		default:
			m.registry.Register(sc.Component, m.memIndex)
		}
		m.logger.Info("Using in-memory index", "mode", sc.Mode)
		return cfg, nil
	}

	switch cfg.Mode {
	case indexsync.ModeModel:
		model, closeFn, err := mongoFactory(ctx, m.cfg.Mongo)
		if err != nil {
			return cfg, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		m.closers = append(m.closers, closeFn)
		cfg.Model = model
		m.logger.Info("Using MongoDB model", "database", m.cfg.Mongo.Database, "collection", m.cfg.Mongo.Collection)
	default:
		client, err := elasticFactory(m.cfg.Elastic)
		if err != nil {
			return cfg, err
		}
		m.registry.Register(sc.Component, client)
		m.logger.Info("Using Elasticsearch", "component", sc.Component, "index", sc.Index, "addresses", m.cfg.Elastic.Addresses)
	}
	return cfg, nil
}

func (m *Manager) initListener() error {
	if m.cfg.Sync.Collection == "" {
		return fmt.Errorf("sync.collection is required when the listener runs: %w", model.ErrConfig)
	}

	nc, err := natsConnect(m.cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	m.natsConn = nc

	consumer, err := consumerFactory(nc, m.cfg.NATS,
		listener.WithLogger(slog.Default()),
		listener.WithMetrics(metrics.Listener{}),
	)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	consumer.Bind(m.cfg.Sync.Collection, m.coordinator)
	m.consumer = consumer
	return nil
}

func (m *Manager) initMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle(m.cfg.Metrics.Path, promhttp.Handler())

	m.servers = append(m.servers, &http.Server{
		Addr:    m.cfg.Metrics.Listen,
		Handler: mux,
	})
	m.serverNames = append(m.serverNames, "Metrics Server")
}
