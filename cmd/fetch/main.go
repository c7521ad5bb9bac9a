package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/roledad/visa-wait-time/internal/dol"
	"github.com/roledad/visa-wait-time/internal/fetch"
	"github.com/roledad/visa-wait-time/internal/geocode"
	"github.com/roledad/visa-wait-time/internal/simplemaps"
	"github.com/roledad/visa-wait-time/internal/stategov"
	"github.com/roledad/visa-wait-time/internal/storage"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

func main() {
	includeBulletin := flag.Bool("bulletin", true,
		"Also fetch the Visa Bulletin charts and DOL processing figures")
	asOfDate := flag.String("asof", "",
		"Snapshot as-of date (YYYY-MM-DD, default today UTC)")
	publish := flag.Bool("publish", false,
		"Publish the snapshot files to the configured bucket after the run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting snapshot fetch", "bulletin", *includeBulletin, "data_dir", cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("failed to create data directory", "error", err)
		panic("failed to create data directory: " + err.Error())
	}

	stateClient := stategov.New(cfg, log)
	sources := fetch.Sources{
		WaitTimes:  stateClient,
		Cities:     simplemaps.New(cfg, log),
		Bulletin:   stateClient,
		Processing: dol.New(cfg, log),
	}
	if cfg.IsGeocodeEnabled() {
		sources.Resolver = geocode.New(cfg, log)
	}

	pipeline := fetch.New(cfg, sources, log)
	summary, err := pipeline.Run(ctx, fetch.Options{
		IncludeBulletin: *includeBulletin,
		AsOfDate:        *asOfDate,
	})
	if err != nil {
		log.Error("snapshot fetch failed", "error", err)
		panic("snapshot fetch failed: " + err.Error())
	}

	log.Info("snapshot fetch complete",
		"records", summary.Records,
		"posts", summary.Posts,
		"geocoded", summary.Geocoded,
		"unresolved", len(summary.Unresolved),
		"update_date", summary.UpdateDate,
		"bulletin", summary.BulletinTitle,
	)

	if *publish {
		publishSnapshots(ctx, cfg, log, *includeBulletin)
	}
}

// publishSnapshots uploads the written snapshot files to the bucket: an
// immutable run archive plus the latest/ copies the API restores from.
func publishSnapshots(ctx context.Context, cfg *config.Config, log *logger.Logger, includeBulletin bool) {
	store, err := storage.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize snapshot storage", "error", err)
		panic("failed to initialize snapshot storage: " + err.Error())
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Error("failed to ensure snapshot bucket", "error", err)
		panic("failed to ensure snapshot bucket: " + err.Error())
	}

	names := []string{cfg.WaitTimesFile, cfg.CitiesFile, cfg.AliasesFile}
	if includeBulletin {
		names = append(names, cfg.BulletinFile)
	}

	runKey, err := store.PublishSnapshot(ctx, cfg.DataDir, names)
	if err != nil {
		log.Error("snapshot publish failed", "error", err)
		panic("snapshot publish failed: " + err.Error())
	}
	log.Info("snapshot published", "run", runKey, "files", len(names))
}
