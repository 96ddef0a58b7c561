package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/reference/domain"
	obslogger "github.com/smallbiznis/salesdw/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	Pipeline *config.PipelineConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	pipeline *config.PipelineConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reference.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		pipeline: p.Pipeline,
	}
}

func (s *Service) VerifyStatuses(ctx context.Context) (domain.VerifyResult, error) {
	log := obslogger.WithContext(ctx, s.log)
	result := domain.VerifyResult{Dimension: domain.DimensionStatus}

	rows, err := s.repo.ListStatuses(ctx, s.db)
	if err != nil {
		return result, fmt.Errorf("list statuses: %w", err)
	}
	result.RowCount = int64(len(rows))

	present := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		present[row.StatusName] = struct{}{}
	}

	expected := s.expectedStatuses()
	for _, name := range expected {
		if _, ok := present[name]; !ok {
			result.Missing = append(result.Missing, name)
		}
	}
	sort.Strings(result.Missing)

	switch {
	case len(result.Missing) > 0:
		result.Message = "missing statuses: " + strings.Join(result.Missing, ", ")
	case len(rows) < len(expected):
		result.Message = fmt.Sprintf("expected at least %d statuses, found %d", len(expected), len(rows))
	default:
		result.Success = true
	}

	if !result.Success {
		log.Warn("reference.status.invalid",
			zap.Int64("row_count", result.RowCount),
			zap.Strings("missing", result.Missing),
		)
		return result, nil
	}
	log.Info("reference.status.verified", zap.Int64("row_count", result.RowCount))
	return result, nil
}

func (s *Service) VerifyCalendar(ctx context.Context) (domain.VerifyResult, error) {
	log := obslogger.WithContext(ctx, s.log)
	result := domain.VerifyResult{Dimension: domain.DimensionCalendar}

	count, err := s.repo.CountCalendar(ctx, s.db)
	if err != nil {
		return result, fmt.Errorf("count calendar: %w", err)
	}
	result.RowCount = count
	if count == 0 {
		result.Message = "calendar is empty"
		log.Warn("reference.calendar.empty")
		return result, nil
	}
	result.Success = true

	today := clock.Today(s.clock)
	todayKey := domain.CalendarKey(today)
	row, err := s.repo.FindCalendarByKey(ctx, s.db, todayKey)
	if err != nil {
		return result, fmt.Errorf("find calendar %d: %w", todayKey, err)
	}
	if row == nil {
		result.Message = fmt.Sprintf("today (%d) is not in the calendar", todayKey)
		log.Warn("reference.calendar.today_missing", zap.Int("time_key", todayKey))
	}

	log.Info("reference.calendar.verified", zap.Int64("row_count", count))
	return result, nil
}

func (s *Service) SeedStatuses(ctx context.Context) (domain.SeedResult, error) {
	rows := make([]domain.Status, len(domain.DefaultStatuses))
	copy(rows, domain.DefaultStatuses)

	inserted, err := s.repo.InsertStatuses(ctx, s.db, rows)
	if err != nil {
		return domain.SeedResult{}, fmt.Errorf("seed statuses: %w", err)
	}

	result := domain.SeedResult{Dimension: domain.DimensionStatus, Requested: len(rows), Inserted: inserted}
	obslogger.WithContext(ctx, s.log).Info("reference.status.seeded",
		zap.Int("requested", result.Requested),
		zap.Int64("inserted", result.Inserted),
	)
	return result, nil
}

// SeedCalendar creates one row per day in [from, to]. Existing days are kept.
func (s *Service) SeedCalendar(ctx context.Context, from, to time.Time) (domain.SeedResult, error) {
	from, to = clock.DateOf(from), clock.DateOf(to)
	if to.Before(from) {
		return domain.SeedResult{}, domain.ErrInvalidDateRange
	}

	var rows []domain.Calendar
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		rows = append(rows, domain.NewCalendarDay(day))
	}

	batchSize := 0
	if s.pipeline != nil {
		batchSize = s.pipeline.Get().BatchSize
	}
	inserted, err := s.repo.InsertCalendar(ctx, s.db, rows, batchSize)
	if err != nil {
		return domain.SeedResult{}, fmt.Errorf("seed calendar: %w", err)
	}

	result := domain.SeedResult{Dimension: domain.DimensionCalendar, Requested: len(rows), Inserted: inserted}
	obslogger.WithContext(ctx, s.log).Info("reference.calendar.seeded",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("requested", result.Requested),
		zap.Int64("inserted", result.Inserted),
	)
	return result, nil
}

// expectedStatuses is the default status set plus any extra names from
// pipeline.yml. Configuration can add required statuses but never drop one.
func (s *Service) expectedStatuses() []string {
	names := make([]string, 0, len(domain.DefaultStatuses))
	seen := make(map[string]struct{}, len(domain.DefaultStatuses))
	for _, status := range domain.DefaultStatuses {
		names = append(names, status.StatusName)
		seen[status.StatusName] = struct{}{}
	}
	if s.pipeline == nil {
		return names
	}
	for _, name := range s.pipeline.Get().ExpectedStatuses {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
