// Package agent wires the statsd engine, target resolver, relay, Zabbix
// transport, and health server into a running process.
package agent

import (
	"context"
	"fmt"
	"os"

	processor "github.com/ethpandaops/go-batch-processor"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/zabbixoor/internal/export"
	exporthttp "github.com/ethpandaops/zabbixoor/internal/export/http"
	"github.com/ethpandaops/zabbixoor/internal/point"
	"github.com/ethpandaops/zabbixoor/internal/relay"
	"github.com/ethpandaops/zabbixoor/internal/statsd"
	"github.com/ethpandaops/zabbixoor/internal/target"
	"github.com/ethpandaops/zabbixoor/internal/zabbix"
)

// Agent is the top-level orchestrator for zabbixoor.
type Agent interface {
	// Start initializes all components and begins relaying.
	Start(ctx context.Context) error
	// Stop shuts down all components gracefully.
	Stop() error
}

type agent struct {
	log    logrus.FieldLogger
	cfg    *Config
	health *export.HealthMetrics
	engine *statsd.Engine
	relay  *relay.Relay
	mirror *processor.BatchItemProcessor[point.Point]
}

// New creates a new Agent.
func New(log logrus.FieldLogger, cfg *Config) (Agent, error) {
	health := export.NewHealthMetrics(log, cfg.Health)
	stats := relay.NewStats()

	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}

	client, err := zabbix.NewClient(log, cfg.Zabbix, health)
	if err != nil {
		return nil, fmt.Errorf("creating zabbix client: %w", err)
	}

	a := &agent{
		log:    log.WithField("component", "agent"),
		cfg:    cfg,
		health: health,
	}

	a.relay = relay.New(
		log,
		resolver,
		client.NewSession,
		relay.IdentityPublisher{},
		cfg.Publish,
		stats,
		health,
	)

	if cfg.Mirror.Enabled {
		proc, err := exporthttp.NewProcessor(log, cfg.Mirror, "zabbix_mirror")
		if err != nil {
			return nil, fmt.Errorf("creating mirror processor: %w", err)
		}

		a.mirror = proc
		a.relay.SetMirror(proc)
	}

	a.engine = statsd.NewEngine(log, cfg.Statsd, health)
	a.engine.OnFlush(a.relay.Flush)

	health.SetStatusSource(stats.WriteStatus)

	return a, nil
}

// newResolver picks the target resolution strategy: a configured static
// host wins; otherwise targets are decoded from metric names, with the
// local hostname backing the statsd.* grammar.
func newResolver(cfg *Config) (target.Resolver, error) {
	if cfg.Zabbix.StaticHost != "" {
		return target.NewStaticResolver(cfg.Zabbix.StaticHost), nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("detecting local hostname: %w", err)
	}

	return target.NewDecodingResolver(hostname), nil
}

func (a *agent) Start(ctx context.Context) error {
	if err := a.health.Start(ctx); err != nil {
		return fmt.Errorf("starting health metrics: %w", err)
	}

	if a.mirror != nil {
		a.mirror.Start(ctx)
		a.log.Info("HTTP mirror started")
	}

	if err := a.engine.Start(ctx); err != nil {
		return fmt.Errorf("starting statsd engine: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"zabbix":         a.cfg.Zabbix.Host,
		"flush_interval": a.cfg.Statsd.FlushInterval,
	}).Info("Agent fully started")

	return nil
}

func (a *agent) Stop() error {
	if a.engine != nil {
		if err := a.engine.Stop(); err != nil {
			a.log.WithError(err).Error("Error stopping statsd engine")
		}
	}

	if a.mirror != nil {
		if err := a.mirror.Shutdown(context.Background()); err != nil {
			a.log.WithError(err).Error("Mirror shutdown failed")
		}
	}

	if a.health != nil {
		return a.health.Stop()
	}

	return nil
}
