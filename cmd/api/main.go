package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/roledad/visa-wait-time/internal/bulletin"
	apphttp "github.com/roledad/visa-wait-time/internal/http"
	"github.com/roledad/visa-wait-time/internal/http/router"
	"github.com/roledad/visa-wait-time/internal/storage"
	"github.com/roledad/visa-wait-time/internal/waittimes"
	"github.com/roledad/visa-wait-time/internal/web"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
	"github.com/roledad/visa-wait-time/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// When the bucket is configured, missing snapshot files are restored
	// from the latest published copy before the dataset load.
	if cfg.IsMinIOEnabled() {
		restoreSnapshots(ctx, cfg, log)
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// The wait-time dataset is the reason this process exists: a load
	// failure is fatal, the server never comes up on partial data.
	waitTimesModule, err := waittimes.NewModule(ctx, cfg, val, log)
	if err != nil {
		log.Error("failed to load wait-time dataset", "error", err)
		panic("failed to load wait-time dataset: " + err.Error())
	}

	// The bulletin snapshot is optional: absent means its endpoints answer
	// 503, but a malformed file still refuses startup.
	bulletinModule, err := bulletin.NewModule(cfg, val, log)
	if err != nil {
		log.Error("failed to load bulletin snapshot", "error", err)
		panic("failed to load bulletin snapshot: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: waitTimesModule.Service(),
		Modules: []apphttp.Module{
			waitTimesModule,
			bulletinModule,
			web.NewModule(),
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// restoreSnapshots pulls snapshot files missing locally from the latest
// bucket copy. A file absent from the bucket too is left to the dataset
// load to judge; only storage failures abort startup.
func restoreSnapshots(ctx context.Context, cfg *config.Config, log *logger.Logger) {
	store, err := storage.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize snapshot storage", "error", err)
		panic("failed to initialize snapshot storage: " + err.Error())
	}

	for _, name := range []string{cfg.WaitTimesFile, cfg.CitiesFile, cfg.AliasesFile, cfg.BulletinFile} {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, name)); err == nil {
			continue
		}

		restored, err := store.Restore(ctx, cfg.DataDir, name)
		if err != nil {
			log.Error("snapshot restore failed", "file", name, "error", err)
			panic("snapshot restore failed: " + err.Error())
		}
		if restored {
			log.Info("snapshot restored from storage", "file", name)
		}
	}
}
