// Package fetch builds the data snapshot the dashboard serves. A run
// pulls the published wait-time table and the world-cities reference in
// parallel, resolves every consular post to a country, and writes the
// snapshot files the API loads at startup. With the bulletin enabled it
// also pulls the Visa Bulletin charts and the DOL processing figures.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roledad/visa-wait-time/internal/bulletin/domain"
	bulletinrepo "github.com/roledad/visa-wait-time/internal/bulletin/repository"
	"github.com/roledad/visa-wait-time/internal/dol"
	"github.com/roledad/visa-wait-time/internal/geo"
	"github.com/roledad/visa-wait-time/internal/geocode"
	"github.com/roledad/visa-wait-time/internal/stategov"
	waitdomain "github.com/roledad/visa-wait-time/internal/waittimes/domain"
	waitrepo "github.com/roledad/visa-wait-time/internal/waittimes/repository"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

const unitDays = "days"

// Config provides the snapshot file locations a run reads and writes.
type Config interface {
	config.DatasetConfig
	config.BulletinConfig
}

// WaitTimesSource pulls the published wait-time table.
type WaitTimesSource interface {
	FetchWaitTimes(ctx context.Context) (stategov.WaitTimesPage, error)
}

// CitiesSource pulls the world-cities reference.
type CitiesSource interface {
	FetchCities(ctx context.Context) ([]geo.City, error)
}

// BulletinSource pulls the current Visa Bulletin charts.
type BulletinSource interface {
	FetchBulletin(ctx context.Context) (stategov.Bulletin, error)
}

// ProcessingSource pulls the DOL prevailing-wage and PERM figures.
type ProcessingSource interface {
	FetchProcessingTimes(ctx context.Context) (dol.ProcessingTimes, error)
}

// PostResolver geocodes posts the city reference cannot resolve.
type PostResolver interface {
	Resolve(ctx context.Context, name string) (geocode.Result, bool, error)
}

// Sources bundles the remote clients a run pulls from. Bulletin and
// Processing are only used when the run includes the bulletin. Resolver
// may be nil; posts the reference misses are then reported unresolved
// instead of geocoded.
type Sources struct {
	WaitTimes  WaitTimesSource
	Cities     CitiesSource
	Bulletin   BulletinSource
	Processing ProcessingSource
	Resolver   PostResolver
}

// Options controls a single run.
type Options struct {
	// IncludeBulletin also pulls the Visa Bulletin and DOL processing
	// figures and writes the bulletin snapshot.
	IncludeBulletin bool
	// AsOfDate stamps the snapshot, ISO format. Empty means today (UTC).
	AsOfDate string
}

// Summary reports what a run produced.
type Summary struct {
	Records       int
	Posts         int
	Matched       int
	Geocoded      int
	Unresolved    []string
	AsOfDate      string
	UpdateDate    string
	BulletinTitle string
}

// Pipeline orchestrates one snapshot build end to end.
type Pipeline struct {
	cfg     Config
	sources Sources
	log     *logger.Logger
}

func New(cfg Config, sources Sources, log *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, sources: sources, log: log}
}

// Run executes the pipeline. Source failures abort the run before
// anything is written; a snapshot on disk is always complete. Only the
// geocode fallback degrades softly, demoting a post to unresolved.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	asOf := opts.AsOfDate
	if asOf == "" {
		asOf = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", asOf); err != nil {
		return Summary{}, fmt.Errorf("as-of date %q: %w", asOf, err)
	}

	aliases, err := geo.LoadAliases(p.cfg.GetAliasesPath())
	if err != nil {
		return Summary{}, fmt.Errorf("load aliases: %w", err)
	}

	var (
		page       stategov.WaitTimesPage
		cities     []geo.City
		bulletin   stategov.Bulletin
		processing dol.ProcessingTimes
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = p.sources.WaitTimes.FetchWaitTimes(gctx)
		p.log.FetchSource("wait_times", len(page.Rows), err)
		return err
	})
	g.Go(func() error {
		var err error
		cities, err = p.sources.Cities.FetchCities(gctx)
		p.log.FetchSource("world_cities", len(cities), err)
		return err
	})
	if opts.IncludeBulletin {
		g.Go(func() error {
			var err error
			bulletin, err = p.sources.Bulletin.FetchBulletin(gctx)
			p.log.FetchSource("visa_bulletin", len(bulletin.FinalAction)+len(bulletin.DatesForFiling), err)
			return err
		})
		g.Go(func() error {
			var err error
			processing, err = p.sources.Processing.FetchProcessingTimes(gctx)
			p.log.FetchSource("dol_processing", len(processing.PWDQueue), err)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	index := geo.NewIndex(cities, aliases)
	countries, supplements, unresolved := p.resolvePosts(ctx, index, page.Rows)
	if len(unresolved) > 0 {
		p.log.JoinMismatch(unresolved)
	}

	rows := make([]waitdomain.WaitTimeRecord, 0, len(page.Rows))
	for _, row := range page.Rows {
		country, ok := countries[row.Post]
		if !ok {
			continue
		}
		rows = append(rows, waitdomain.WaitTimeRecord{
			Country:      country,
			City:         row.Post,
			CategorySlug: row.Category.Slug,
			WaitDays:     row.WaitDays,
			Unit:         unitDays,
		})
	}

	snapshot := &waitrepo.Snapshot{Rows: rows, AsOfDate: asOf, UpdateDate: page.UpdateDate}
	if err := waitrepo.Save(p.cfg.GetWaitTimesPath(), snapshot); err != nil {
		return Summary{}, fmt.Errorf("write wait times: %w", err)
	}

	// Geocoded posts are appended to the written reference so the
	// dashboard join resolves them the same way as reference cities.
	if err := geo.WriteCities(p.cfg.GetCitiesPath(), append(cities, supplements...)); err != nil {
		return Summary{}, fmt.Errorf("write cities: %w", err)
	}

	summary := Summary{
		Records:    len(rows),
		Posts:      len(countries) + len(unresolved),
		Matched:    len(countries) - len(supplements),
		Geocoded:   len(supplements),
		Unresolved: unresolved,
		AsOfDate:   asOf,
		UpdateDate: page.UpdateDate,
	}

	if opts.IncludeBulletin {
		snap := domain.Snapshot{
			BulletinTitle:  bulletin.Title,
			SourceURL:      bulletin.SourceURL,
			FetchedAt:      time.Now().UTC().Format(time.RFC3339),
			FinalAction:    bulletin.FinalAction,
			DatesForFiling: bulletin.DatesForFiling,
			PWDQueue:       processing.PWDQueue,
			PERM:           processing.PERM,
		}
		if err := bulletinrepo.Save(p.cfg.GetBulletinPath(), snap); err != nil {
			return Summary{}, fmt.Errorf("write bulletin: %w", err)
		}
		summary.BulletinTitle = bulletin.Title
	}

	p.log.Info("snapshot_written",
		slog.Int("records", summary.Records),
		slog.Int("posts", summary.Posts),
		slog.Int("geocoded", summary.Geocoded),
		slog.Int("unresolved", len(summary.Unresolved)),
		slog.String("update_date", summary.UpdateDate),
	)
	return summary, nil
}

// resolvePosts maps every distinct post to a country: reference lookup
// first (alias-aware, most populous city wins), then the geocode
// fallback. Geocoded posts get a supplement row for the written
// reference, keyed by the published post name. Posts are processed in
// first-appearance order so supplements and the unresolved list are
// deterministic.
func (p *Pipeline) resolvePosts(ctx context.Context, index *geo.Index, rows []stategov.WaitRow) (map[string]string, []geo.City, []string) {
	countries := make(map[string]string)
	seen := make(map[string]bool)
	var supplements []geo.City
	var unresolved []string

	for _, row := range rows {
		if seen[row.Post] {
			continue
		}
		seen[row.Post] = true

		if city, ok := index.LookupCity(row.Post); ok {
			countries[row.Post] = city.Country
			continue
		}
		if p.sources.Resolver == nil {
			unresolved = append(unresolved, row.Post)
			continue
		}

		result, found, err := p.sources.Resolver.Resolve(ctx, row.Post)
		if err != nil {
			p.log.Warn("geocode_failed",
				slog.String("post", row.Post),
				slog.String("error", err.Error()),
			)
			unresolved = append(unresolved, row.Post)
			continue
		}
		if !found {
			unresolved = append(unresolved, row.Post)
			continue
		}

		countries[row.Post] = result.Country
		supplements = append(supplements, geo.City{
			Country:   result.Country,
			Name:      row.Post,
			ASCIIName: row.Post,
			Lat:       result.Lat,
			Lng:       result.Lng,
		})
	}
	return countries, supplements, unresolved
}
