package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	dimensiondomain "github.com/smallbiznis/salesdw/internal/dimension/domain"
	"github.com/smallbiznis/salesdw/internal/fact/domain"
	obslogger "github.com/smallbiznis/salesdw/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/salesdw/internal/observability/metrics"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultProgressInterval = 50

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	StagingRepo   stagingdomain.Repository
	CustomerRepo  dimensiondomain.CustomerRepository
	ProductRepo   dimensiondomain.ProductRepository
	ReferenceRepo referencedomain.Repository
	Pipeline      *config.PipelineConfigHolder `optional:"true"`
	Metrics       *obsmetrics.Metrics          `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          domain.Repository
	stagingRepo   stagingdomain.Repository
	customerRepo  dimensiondomain.CustomerRepository
	productRepo   dimensiondomain.ProductRepository
	referenceRepo referencedomain.Repository
	pipeline      *config.PipelineConfigHolder
	metrics       *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("fact.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		stagingRepo:   p.StagingRepo,
		customerRepo:  p.CustomerRepo,
		productRepo:   p.ProductRepo,
		referenceRepo: p.ReferenceRepo,
		pipeline:      p.Pipeline,
		metrics:       p.Metrics,
	}
}

// Load rebuilds fact_sales from staging. The table is emptied first, so a
// failure after truncation leaves it empty until the next successful load.
func (s *Service) Load(ctx context.Context) (domain.LoadResult, error) {
	log := obslogger.WithContext(ctx, s.log)
	result := domain.LoadResult{Skips: map[domain.SkipReason]int{}}
	fail := func(err error) (domain.LoadResult, error) {
		result.Success = false
		result.Error = err.Error()
		log.Error("fact.load.failed", zap.Error(err))
		return result, err
	}

	cfg := config.DefaultPipelineConfig()
	if s.pipeline != nil {
		cfg = s.pipeline.Get()
	}

	if err := s.repo.Truncate(ctx, s.db); err != nil {
		return fail(fmt.Errorf("truncate fact_sales: %w", err))
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return fail(err)
	}

	orders, err := s.stagingRepo.ListOrders(ctx, s.db)
	if err != nil {
		return fail(fmt.Errorf("list staged orders: %w", err))
	}
	details, err := s.stagingRepo.ListOrderDetails(ctx, s.db)
	if err != nil {
		return fail(fmt.Errorf("list staged order details: %w", err))
	}

	log.Info("fact.load.start",
		zap.Int("orders", len(orders)),
		zap.Int("details", len(details)),
		zap.Int("customers", len(snap.Customers)),
		zap.Int("products", len(snap.Products)),
		zap.Int("calendar_days", len(snap.Calendar)),
		zap.Int("statuses", len(snap.Statuses)),
	)

	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	rows, transformed := Transform(snap, orders, details, TransformOptions{
		NewKey:                    s.genID.Generate,
		LoadDate:                  s.clock.Now(),
		RejectNonPositiveQuantity: cfg.RejectNonPositiveQuantity,
		Progress: func(processed int) {
			if processed%interval == 0 {
				log.Info("fact.load.progress",
					zap.Int("processed", processed),
					zap.Int("total", len(details)),
				)
			}
		},
	})
	result.Processed = transformed.Processed
	result.Skips = transformed.Skips

	if err := s.repo.InsertBatch(ctx, s.db, rows, cfg.BatchSize); err != nil {
		return fail(fmt.Errorf("insert facts: %w", err))
	}
	result.RowsLoaded = len(rows)
	result.Success = true

	s.metrics.RecordFactRows(ctx, result.RowsLoaded)
	for reason, n := range result.Skips {
		s.metrics.RecordFactSkips(ctx, string(reason), n)
	}

	fields := []zap.Field{
		zap.Int("processed", result.Processed),
		zap.Int("rows_loaded", result.RowsLoaded),
	}
	for _, reason := range domain.SkipReasons {
		if n := result.Skips[reason]; n > 0 {
			fields = append(fields, zap.Int("skipped_"+string(reason), n))
		}
	}
	log.Info("fact.load.finish", fields...)
	return result, nil
}

// Snapshot reads the current dimension lookups used by one load.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	customers, err := s.customerRepo.ListCurrent(ctx, s.db)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot customers: %w", err)
	}
	products, err := s.productRepo.ListCurrent(ctx, s.db)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot products: %w", err)
	}
	days, err := s.referenceRepo.ListCalendar(ctx, s.db)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot calendar: %w", err)
	}
	statuses, err := s.referenceRepo.ListStatuses(ctx, s.db)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot statuses: %w", err)
	}

	snap := domain.Snapshot{
		Customers: customers,
		Products:  products,
		Calendar:  make(map[string]int, len(days)),
		Statuses:  make(map[string]int64, len(statuses)),
	}
	for _, day := range days {
		snap.Calendar[dateKey(day.FullDate)] = day.TimeKey
	}
	for _, status := range statuses {
		snap.Statuses[status.StatusName] = status.StatusKey
	}
	return snap, nil
}
