package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samvad-hq/samvad-dashboard/internal/config"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/internal/metrics"
	"github.com/samvad-hq/samvad-dashboard/internal/prober"
	"github.com/samvad-hq/samvad-dashboard/internal/storage"
	"github.com/samvad-hq/samvad-dashboard/pkg/catalog"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
	"github.com/samvad-hq/samvad-dashboard/pkg/publishers"
)

// Prober is the probe runtime. It owns the catalog, the sinks and the outcome store and
// runs probe passes on a fixed interval.
type Prober struct {
	cfg           *config.Config
	catalog       *catalog.Catalog
	fanout        *publishers.Fanout
	service       *prober.Service
	probeInterval time.Duration
	log           logger.Logger
	store         storage.Store
	registry      *prometheus.Registry
}

// NewClient builds the dashboard HTTP client from config.
func NewClient(cfg *config.Config, log logger.Logger) *httpclient.Client {
	return httpclient.New(cfg.APIBaseURL,
		httpclient.WithTransport(httpclient.NewRestyTransport(cfg.TransportTimeout)),
		httpclient.WithLogger(log),
	)
}

// NewProber builds a probe runtime from config files.
func NewProber(ctx context.Context, cfg *config.Config, log logger.Logger) (*Prober, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load request catalog: %w", err)
	}
	entryIDs := make([]string, 0, len(cat.All()))
	for _, e := range cat.All() {
		entryIDs = append(entryIDs, e.ID)
	}
	log.InfoObj("request catalog loaded", "catalog_meta", map[string]any{
		"count": len(entryIDs),
		"ids":   entryIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultBuilders(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	registry := prometheus.NewRegistry()
	service := prober.NewService(NewClient(cfg, log), prober.Options{
		Publisher:     fanout,
		Deduper:       store,
		RatePerSecond: cfg.ProbeRatePerSecond,
		Metrics:       metrics.New(registry),
		Log:           log,
	})

	return &Prober{
		cfg:           cfg,
		catalog:       cat,
		fanout:        fanout,
		service:       service,
		probeInterval: cfg.ProbeInterval,
		log:           log,
		store:         store,
		registry:      registry,
	}, nil
}

// Run starts the probe loop until the context is cancelled.
func (p *Prober) Run(ctx context.Context) error {
	if p == nil || p.service == nil {
		return fmt.Errorf("prober is not initialized")
	}
	defer p.close()

	if p.cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, p.cfg.MetricsAddr, p.registry); err != nil {
				p.log.ErrorObj("metrics server stopped", "error", err.Error())
			}
		}()
	}

	entries := p.catalog.Enabled()
	if len(entries) == 0 {
		p.log.WarnObj("no enabled requests; prober idle", "catalog_file", p.cfg.CatalogFile)
		<-ctx.Done()
		return ctx.Err()
	}

	p.log.InfoObj("probe loop starting", "prober_state", map[string]any{
		"requests_count":   len(entries),
		"publishers_count": p.fanout.Size(),
		"probe_interval":   p.probeInterval.String(),
		"base_url":         p.cfg.APIBaseURL,
	})

	if err := p.runOnce(ctx, entries); err != nil {
		p.log.ErrorObj("initial probe failed", "error", err.Error())
	}

	ticker := time.NewTicker(p.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("probe loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := p.runOnce(ctx, entries); err != nil {
				p.log.ErrorObj("scheduled probe failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single probe pass across all enabled requests.
func (p *Prober) runOnce(ctx context.Context, entries []catalog.Entry) error {
	start := time.Now()
	p.log.InfoObj("probe started", "probe_meta", map[string]any{
		"requests_count": len(entries),
		"started_at":     start.UTC(),
	})
	if err := p.service.Run(ctx, entries); err != nil {
		return err
	}
	p.log.InfoObj("probe completed", "probe_meta", map[string]any{
		"requests_count": len(entries),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and the sinks, logging any errors encountered.
func (p *Prober) close() {
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			p.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if err := p.fanout.Close(); err != nil {
		p.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}
