// Package wire assembles the runtime from a Config: storage backend,
// module, notifiers, metrics, e-mail escalation and the panel server.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "modernc.org/sqlite"

	"ergosanitas/internal/adapters/email"
	web "ergosanitas/internal/adapters/http"
	"ergosanitas/internal/adapters/http/perf"
	"ergosanitas/internal/adapters/hostinfo"
	"ergosanitas/internal/adapters/metrics"
	"ergosanitas/internal/adapters/notify"
	redisClient "ergosanitas/internal/adapters/redis"
	"ergosanitas/internal/adapters/scheduler"
	"ergosanitas/internal/adapters/storage"
	"ergosanitas/internal/adapters/storage/document"
	"ergosanitas/internal/application/events"
	"ergosanitas/internal/application/orchestrators"
	"ergosanitas/internal/application/shared"
	"ergosanitas/internal/config"
)

// escalationTimeout bounds one escalation e-mail.
const escalationTimeout = 30 * time.Second

// Runtime is everything a command needs, built once from Config.
type Runtime struct {
	Config   config.Config
	Module   *shared.Module
	Feed     *notify.Feed
	Perf     *perf.Collector
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Sender   email.Sender

	pruner     scheduler.Pruner
	closers    []func() error
	escalation *events.Subscription
}

// sqliteDSN enables WAL, a busy timeout and normal sync on every connection.
func sqliteDSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// Build opens the configured backend and assembles the module.
// PRE: cfg came from config.Load or config.FromEnv
// POST: caller must Close the runtime
func Build(ctx context.Context, cfg config.Config) (*Runtime, error) {
	rt := &Runtime{
		Config:   cfg,
		Feed:     notify.NewFeed(notify.DefaultFeedSize),
		Perf:     perf.NewCollector(perf.DefaultRingSize),
		Registry: prometheus.NewRegistry(),
	}
	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rt.Metrics = metrics.New(rt.Registry)

	docs, watcher, err := rt.openBackend(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	quotaPath := "."
	if cfg.Backend == config.BackendSQLite {
		quotaPath = filepath.Dir(cfg.DBPath)
	}
	rt.Module = shared.New(shared.Deps{
		Documents:     docs,
		Watcher:       watcher,
		Notifier:      notify.Multi{notify.LogNotifier{}, rt.Feed},
		Metrics:       rt.Metrics,
		Quota:         hostinfo.NewDiskProbe(quotaPath),
		HashPasswords: cfg.HashPasswords,
	})

	rt.Sender = newSender(cfg)
	rt.escalation = rt.Module.OnAlert(rt.escalate)

	slog.Info("wire_event", "event", "runtime_ready", "backend", cfg.Backend, "env", cfg.Env)
	return rt, nil
}

func (rt *Runtime) openBackend(ctx context.Context) (document.Store, document.Watcher, error) {
	cfg := rt.Config
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sql.Open("sqlite", sqliteDSN(cfg.DBPath))
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		rt.closers = append(rt.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, nil, fmt.Errorf("database unreachable: %w", err)
		}
		if err := storage.MigrateDB(db); err != nil {
			return nil, nil, err
		}
		store := document.NewSQLiteStore(storage.NewTimedDB(db, rt.Perf, cfg.SlowQueryMs))
		rt.pruner = store
		return store, store, nil

	case config.BackendRedis:
		client, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		rt.closers = append(rt.closers, client.Close)
		store := document.NewRedisStore(client.Client,
			document.WithKeyPrefix(cfg.Redis.KeyPrefix),
			document.WithChannel(cfg.Redis.Channel),
		)
		return store, store, nil

	case config.BackendMemory:
		store := document.NewMemoryStore()
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func newSender(cfg config.Config) email.Sender {
	if cfg.Email.ResendKey != "" {
		slog.Info("wire_event", "event", "email_configured", "provider", "resend")
		return email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
	}
	if cfg.IsProduction() && len(cfg.Email.Recipients) > 0 {
		slog.Warn("wire_event", "event", "email_disabled", "hint", "set ERGOSANITAS_RESEND_KEY for grave-alert escalation")
	}
	return email.NewNoopSender()
}

// escalate e-mails a grave alert set in this view. Remote changes were
// already escalated by the view that set them.
func (rt *Runtime) escalate(c events.AlertChanged) {
	if c.Type != events.AlertSet || c.Remote || c.Alert == nil {
		return
	}
	a := *c.Alert
	deps := orchestrators.EscalateAlertDeps{
		Sender:     rt.Sender,
		From:       rt.Config.Email.From,
		Recipients: rt.Config.Email.Recipients,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), escalationTimeout)
		defer cancel()
		if _, err := orchestrators.ExecuteEscalateAlert(ctx, a, deps); err != nil {
			slog.Error("alert_event", "event", "escalation_failed", "id", a.ID, "error", err)
		}
	}()
}

// Server builds the panel API with its options.
func (rt *Runtime) Server() (*web.Server, web.Options, error) {
	key, err := web.ParseCSRFKey(rt.Config.CSRFKey, rt.Config.IsProduction())
	if err != nil {
		return nil, web.Options{}, err
	}
	opts := web.Options{
		CSRFKey:       key,
		Secure:        rt.Config.IsProduction(),
		SlowRequestMs: rt.Config.SlowRequestMs,
		Feed:          rt.Feed,
		Collector:     rt.Perf,
		Gatherer:      rt.Registry,
	}
	return web.NewServer(rt.Module, opts), opts, nil
}

// Scheduler builds the periodic refresh job, plus change-log pruning on sqlite.
func (rt *Runtime) Scheduler() (*scheduler.Scheduler, error) {
	var opts []scheduler.Option
	if rt.pruner != nil {
		opts = append(opts, scheduler.WithPruner(rt.pruner, scheduler.DefaultChangeRetention))
	}
	return scheduler.New(rt.Module, rt.Config.RefreshInterval, opts...)
}

// Close releases the backend in reverse order of opening.
func (rt *Runtime) Close() error {
	rt.escalation.Unsubscribe()
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
