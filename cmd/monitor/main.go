package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/config"
	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/fetch"
	"github.com/needmomatcha/stockwatch/internal/logging"
	"github.com/needmomatcha/stockwatch/internal/migrate"
	"github.com/needmomatcha/stockwatch/internal/monitor"
	"github.com/needmomatcha/stockwatch/internal/notify"
	"github.com/needmomatcha/stockwatch/internal/state"
)

func main() {
	cfg := config.Load()
	logger := logging.NewStdLogger("monitor-service ")

	logger.Printf("ENV=%q STATE_BACKEND=%q poll=%s DB_DSN_set=%v telegram_set=%v",
		cfg.Env, cfg.StateBackend, cfg.PollInterval, cfg.MySQLDSN != "", cfg.TelegramToken != "")

	cat, err := catalog.Load()
	if err != nil {
		logger.Printf("catalog invalid: %v", err)
		os.Exit(1)
	}

	// Cycles must never overlap, including across processes: hold a file
	// lock for the lifetime of the daemon.
	lock := flock.New(cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		logger.Printf("lock %s failed: %v", cfg.LockPath, err)
		os.Exit(1)
	}
	if !locked {
		logger.Printf("another monitor instance holds %s; exiting", cfg.LockPath)
		os.Exit(1)
	}
	defer func() { _ = lock.Unlock() }()

	factoryRes, err := state.NewStore(context.Background(), state.FactoryConfig{
		Backend:  cfg.StateBackend,
		MySQLDSN: cfg.MySQLDSN,
	})
	if err != nil {
		if !errors.Is(err, state.ErrBackendUnavailable) {
			logger.Printf("state store init failed: %v", err)
			os.Exit(1)
		}
		// The first cycle re-establishes ground truth; first observations
		// are suppressed, so no false notifications follow.
		logger.Printf("warning: state backend unavailable, starting from empty memory store: %v", err)
		factoryRes = state.FactoryResult{Store: state.NewMemoryStore()}
	}
	store := factoryRes.Store

	if factoryRes.DB != nil && cfg.RunMigrations {
		if err := migrate.ApplyDir(context.Background(), factoryRes.DB, "migrations"); err != nil {
			logger.Printf("migrations failed: %v", err)
			os.Exit(1)
		}
	}

	seedDevMode(store, cfg, logger)

	sender := notify.NewSender(cfg.TelegramAPIBase, cfg.TelegramToken, cfg.SendTimeout)

	dispatcher := notify.Dispatcher{
		Prefs:       store,
		Catalog:     cat,
		Sender:      sender,
		SendTimeout: cfg.SendTimeout,
		Logger:      logger,
	}

	notices := notify.NoticeService{
		Store:       store,
		Sender:      sender,
		SendTimeout: cfg.SendTimeout,
		Logger:      logger,
	}

	r := monitor.Runner{
		Cycle: monitor.Cycle{
			Store:        store,
			Catalog:      cat,
			Fetcher:      fetch.NewHTTPFetcher(cfg.FetchTimeout),
			Dispatcher:   dispatcher,
			FetchTimeout: cfg.FetchTimeout,
			Logger:       logger,
		},
		Interval: cfg.PollInterval,
		Logger:   logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tell users who were left paused that the monitor is back.
	notices.NotifyResumed(ctx, currentDevMode(store, logger))

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Printf("starting (env=%s) watching %d variants", cfg.Env, cat.Len())

		err := r.Run(ctx)
		if err != nil && err != context.Canceled {
			logger.Printf("monitor stopped: %v", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, cancel)

	// Let an in-flight cycle finish; stopping never cuts a cycle short.
	<-done

	// Best effort; the process is on its way out.
	noticeCtx, noticeCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer noticeCancel()
	notices.NotifyPaused(noticeCtx, currentDevMode(store, logger))
}

// seedDevMode installs the env-provided dev-mode values only when the store
// has no record yet; the persisted copy stays authoritative afterward.
func seedDevMode(store state.Store, cfg config.Config, logger interface{ Printf(string, ...any) }) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, ok, err := store.GetDevMode(ctx)
	if err != nil {
		logger.Printf("dev mode read failed: %v", err)
		return
	}
	if ok {
		return
	}

	mode := domain.DevMode{Enabled: cfg.DevMode, UserID: cfg.DevUserID}
	if mode.Enabled && mode.UserID == "" {
		logger.Printf("DEV_MODE set without DEV_USER_ID; leaving dev mode off")
		mode.Enabled = false
	}
	if err := store.SetDevMode(ctx, mode); err != nil {
		logger.Printf("dev mode seed failed: %v", err)
		return
	}
	if mode.Enabled {
		logger.Printf("dev mode enabled - only sending to user %s", mode.UserID)
	}
}

func currentDevMode(store state.Store, logger interface{ Printf(string, ...any) }) domain.DevMode {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dev, ok, err := store.GetDevMode(ctx)
	if err != nil {
		logger.Printf("dev mode read failed: %v", err)
		return domain.DevMode{}
	}
	if !ok {
		return domain.DevMode{}
	}
	return dev
}

func waitForShutdown(logger interface{ Printf(string, ...any) }, cancel func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Printf("shutdown signal received")
	cancel()
	logger.Printf("shutdown complete")
}
