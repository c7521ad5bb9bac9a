// Package service exposes read-only queries over the bulletin snapshot.
package service

import (
	"strings"

	"github.com/roledad/visa-wait-time/internal/bulletin/domain"
	"github.com/roledad/visa-wait-time/internal/bulletin/repository"
	"github.com/roledad/visa-wait-time/platform/apperr"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// Service serves the bulletin snapshot loaded at startup. When the snapshot
// file is absent the service stays disabled and every query reports
// unavailability instead of failing the process.
type Service struct {
	snap    domain.Snapshot
	enabled bool
	log     *logger.Logger
}

// Load reads the snapshot from the configured path. A missing file yields a
// disabled service; a malformed file is a startup error.
func Load(cfg config.BulletinConfig, log *logger.Logger) (*Service, error) {
	snap, err := repository.Load(cfg.GetBulletinPath())
	if err != nil {
		if repository.IsNotExist(err) {
			log.Info("bulletin module disabled: snapshot not found", "path", cfg.GetBulletinPath())
			return &Service{enabled: false, log: log}, nil
		}
		return nil, err
	}

	log.Info("bulletin snapshot loaded",
		"title", snap.BulletinTitle,
		"final_action_rows", len(snap.FinalAction),
		"pwd_queue_months", len(snap.PWDQueue))

	return &Service{snap: snap, enabled: true, log: log}, nil
}

// NewFromSnapshot builds an enabled service around an existing snapshot.
func NewFromSnapshot(snap domain.Snapshot, log *logger.Logger) *Service {
	return &Service{snap: snap, enabled: true, log: log}
}

// Enabled reports whether a snapshot is loaded.
func (s *Service) Enabled() bool { return s.enabled }

// Snapshot returns the full bulletin snapshot.
func (s *Service) Snapshot() (domain.Snapshot, error) {
	if !s.enabled {
		return domain.Snapshot{}, errUnavailable("bulletin.Snapshot")
	}
	return s.snap, nil
}

// PriorityDates is an area- and chart-filtered chart view. An empty area
// keeps every chargeability column; an empty table defaults to the final
// action chart.
type PriorityDates struct {
	BulletinTitle string                   `json:"bulletin_title"`
	Table         string                   `json:"table"`
	Area          string                   `json:"area,omitempty"`
	Rows          []domain.PriorityDateRow `json:"rows,omitempty"`
	Cutoffs       []domain.AreaCutoff      `json:"cutoffs,omitempty"`
}

// PriorityDatesFor returns the requested chart, optionally projected to one
// chargeability area.
func (s *Service) PriorityDatesFor(area, table string) (PriorityDates, error) {
	const op = "bulletin.PriorityDatesFor"

	if !s.enabled {
		return PriorityDates{}, errUnavailable(op)
	}

	table = normalizeTable(table)
	if !domain.ValidTable(table) {
		return PriorityDates{}, apperr.Validation("unknown bulletin table").
			WithOp(op).
			WithDetails(map[string]string{"table": table})
	}

	view := PriorityDates{BulletinTitle: s.snap.BulletinTitle, Table: table}

	rows := s.snap.Chart(table)
	if area = strings.ToLower(strings.TrimSpace(area)); area == "" {
		view.Rows = rows
		return view, nil
	}

	if !domain.ValidArea(area) {
		return PriorityDates{}, apperr.Validation("unknown chargeability area").
			WithOp(op).
			WithDetails(map[string]string{"area": area})
	}
	view.Area = area
	view.Cutoffs = domain.CutoffsFor(rows, area)
	return view, nil
}

// Processing bundles the DOL prevailing-wage queue and PERM figures.
type Processing struct {
	BulletinTitle string               `json:"bulletin_title"`
	PWDQueue      []domain.PWDQueueRow `json:"pwd_queue"`
	PERM          domain.PERMStatus    `json:"perm"`
}

// ProcessingTimes returns the DOL portion of the snapshot.
func (s *Service) ProcessingTimes() (Processing, error) {
	if !s.enabled {
		return Processing{}, errUnavailable("bulletin.ProcessingTimes")
	}
	return Processing{
		BulletinTitle: s.snap.BulletinTitle,
		PWDQueue:      s.snap.PWDQueue,
		PERM:          s.snap.PERM,
	}, nil
}

func normalizeTable(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if table == "" {
		return domain.TableFinalAction
	}
	return table
}

func errUnavailable(op string) error {
	return apperr.Unavailable("bulletin snapshot not loaded").WithOp(op)
}
