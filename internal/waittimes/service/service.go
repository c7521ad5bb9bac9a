// Package service builds the wait-time dataset at startup and answers
// read-only queries over it. There is no mutation path: once Load returns,
// the dataset never changes until the process restarts.
package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roledad/visa-wait-time/internal/geo"
	"github.com/roledad/visa-wait-time/internal/waittimes/domain"
	"github.com/roledad/visa-wait-time/internal/waittimes/repository"
	"github.com/roledad/visa-wait-time/platform/apperr"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// Service owns the loaded dataset and the query operations on it.
type Service struct {
	dataset *domain.Dataset
	log     *logger.Logger
}

// Load reads the snapshot files concurrently, joins wait times with the
// city reference and builds the immutable dataset. Any load failure is
// returned as-is and must abort startup; join mismatches are logged and
// kept as diagnostics instead.
func Load(ctx context.Context, cfg config.DatasetConfig, log *logger.Logger) (*Service, error) {
	var (
		cities  []geo.City
		aliases map[string]string
		snap    *repository.Snapshot
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cities, err = geo.LoadCities(cfg.GetCitiesPath())
		return err
	})
	g.Go(func() error {
		var err error
		aliases, err = geo.LoadAliases(cfg.GetAliasesPath())
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = repository.Load(cfg.GetWaitTimesPath())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := geo.NewIndex(cities, aliases)
	records, diag := domain.Join(snap.Rows, index)
	if len(diag.UnmatchedPosts) > 0 {
		log.JoinMismatch(diag.UnmatchedPosts)
	}

	dataset := domain.NewDataset(records, snap.AsOfDate, snap.UpdateDate, diag)
	log.DatasetLoaded(len(records), index.Len(), len(domain.Categories), len(diag.UnmatchedPosts))

	return &Service{dataset: dataset, log: log}, nil
}

// NewFromDataset wires a service around an already-built dataset.
func NewFromDataset(dataset *domain.Dataset, log *logger.Logger) *Service {
	return &Service{dataset: dataset, log: log}
}

// Categories returns the selectable categories in display order.
func (s *Service) Categories() []domain.Category {
	return domain.Categories
}

// Countries returns the distinct countries in the dataset, sorted.
func (s *Service) Countries() []string {
	return s.dataset.Countries()
}

// Summary returns the dashboard metric-card values.
func (s *Service) Summary() domain.Summary {
	return s.dataset.Summary()
}

// Records returns the renderable records for a category and optional
// country. Every call is an independent stateless query on the same
// immutable dataset.
func (s *Service) Records(category, country string) ([]domain.RenderableRecord, error) {
	slug, err := normalizeCategory(category)
	if err != nil {
		return nil, err
	}

	records := domain.FilterByCategory(s.dataset.Records(), slug)
	return domain.FilterByCountry(records, country), nil
}

// UnmatchedPosts returns the post names the join could not place.
func (s *Service) UnmatchedPosts() []string {
	return s.dataset.Diagnostics().UnmatchedPosts
}

// Ping reports dataset readiness for the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	if len(s.dataset.Records()) == 0 {
		return apperr.Unavailable("dataset is empty")
	}
	return nil
}

func normalizeCategory(category string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(category))
	if slug == "" {
		return domain.CategoryAll, nil
	}
	if !domain.ValidCategory(slug) {
		return "", apperr.Validation("unknown visa category: " + category).WithOp("waittimes.Records")
	}
	return slug, nil
}
