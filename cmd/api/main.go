package main

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/needmomatcha/stockwatch/internal/api/auth"
	"github.com/needmomatcha/stockwatch/internal/api/handlers"
	"github.com/needmomatcha/stockwatch/internal/api/middleware"
	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/config"
	"github.com/needmomatcha/stockwatch/internal/logging"
	"github.com/needmomatcha/stockwatch/internal/migrate"
	"github.com/needmomatcha/stockwatch/internal/state"
)

func main() {
	cfg := config.Load()
	logger := logging.NewStdLogger("api-service ")

	logger.Printf("ENV=%q STATE_BACKEND=%q DB_DSN_set=%v",
		cfg.Env, cfg.StateBackend, cfg.MySQLDSN != "")

	cat, err := catalog.Load()
	if err != nil {
		logger.Printf("catalog invalid: %v", err)
		os.Exit(1)
	}

	factoryRes, err := state.NewStore(context.Background(), state.FactoryConfig{
		Backend:  cfg.StateBackend,
		MySQLDSN: cfg.MySQLDSN,
	})
	if err != nil {
		if !errors.Is(err, state.ErrBackendUnavailable) {
			logger.Printf("state store init failed: %v", err)
			os.Exit(1)
		}
		logger.Printf("warning: state backend unavailable, serving from empty memory store: %v", err)
		factoryRes = state.FactoryResult{Store: state.NewMemoryStore()}
	}
	store := factoryRes.Store

	if factoryRes.DB != nil && cfg.RunMigrations {
		if err := migrate.ApplyDir(context.Background(), factoryRes.DB, "migrations"); err != nil {
			logger.Printf("migrations failed: %v", err)
			os.Exit(1)
		}
	}

	var pub *rsa.PublicKey
	if cfg.Env != "dev" {
		pub, err = auth.LoadRSAPublicKeyFromEnv("AUTH_PUBLIC_KEY_PEM")
		if err != nil {
			logger.Printf("auth key load failed: %v", err)
			os.Exit(1)
		}
	} else if k, kerr := auth.LoadRSAPublicKeyFromEnv("AUTH_PUBLIC_KEY_PEM"); kerr == nil {
		pub = k
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	authed := func(next http.Handler) http.Handler {
		return middleware.AuthMiddleware{
			Env:       cfg.Env,
			PublicKey: pub,
			Next:      next,
		}
	}
	idempotent := func(next http.Handler) http.Handler {
		return middleware.IdempotencyMiddleware{
			Store: store,
			Next:  next,
		}
	}

	mux.Handle("/v1/users:register", authed(idempotent(handlers.RegisterHandler{
		Store:   store,
		Catalog: cat,
	})))
	mux.Handle("/v1/users/", authed(idempotent(handlers.SubscriptionsHandler{
		Store:   store,
		Catalog: cat,
	})))
	mux.Handle("/v1/products", authed(handlers.ProductsHandler{
		Store:   store,
		Catalog: cat,
	}))
	mux.Handle("/v1/devmode", authed(handlers.DevModeHandler{
		Store: store,
	}))
	mux.Handle("/v1/cycles", authed(handlers.CyclesHandler{
		Store: store,
	}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("starting (env=%s) on %s", cfg.Env, server.Addr)

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Printf("server error: %v", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, server)
}

func waitForShutdown(logger interface{ Printf(string, ...any) }, server *http.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = server.Shutdown(ctx)
	logger.Printf("shutdown complete")
}
