package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/extract/domain"
	"github.com/smallbiznis/salesdw/internal/extract/source"
	obslogger "github.com/smallbiznis/salesdw/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/salesdw/internal/observability/metrics"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	StagingRepo stagingdomain.Repository
	Pipeline    *config.PipelineConfigHolder
	Factory     domain.SourceFactory `optional:"true"`
	Metrics     *obsmetrics.Metrics  `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	stagingRepo stagingdomain.Repository
	pipeline    *config.PipelineConfigHolder
	factory     domain.SourceFactory
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	log := p.Log.Named("extract.service")
	factory := p.Factory
	if factory == nil {
		factory = source.NewFactory(p.Log)
	}
	return &Service{
		db:          p.DB,
		log:         log,
		genID:       p.GenID,
		clock:       p.Clock,
		stagingRepo: p.StagingRepo,
		pipeline:    p.Pipeline,
		factory:     factory,
		metrics:     p.Metrics,
	}
}

// Run reads every source and replaces the staging tables with the result.
// Staging is only replaced when every source has been read.
func (s *Service) Run(ctx context.Context) (domain.ExtractionResult, error) {
	log := obslogger.WithContext(ctx, s.log)
	result := domain.ExtractionResult{}
	fail := func(err error) (domain.ExtractionResult, error) {
		result.Success = false
		result.Error = err.Error()
		log.Error("extract.run.failed", zap.Error(err))
		return result, err
	}

	cfg := s.pipeline.Get()
	sources := s.factory(cfg)
	loadDate := s.clock.Now()

	customers, err := extract(ctx, log, sources.Customers, loadDate)
	if err != nil {
		return fail(err)
	}
	products, err := extract(ctx, log, sources.Products, loadDate)
	if err != nil {
		return fail(err)
	}
	orders, err := extract(ctx, log, sources.Orders, loadDate)
	if err != nil {
		return fail(err)
	}
	details, err := extract(ctx, log, sources.OrderDetails, loadDate)
	if err != nil {
		return fail(err)
	}

	for i := range customers {
		customers[i].ID = s.genID.Generate()
	}
	for i := range products {
		products[i].ID = s.genID.Generate()
	}
	for i := range orders {
		orders[i].ID = s.genID.Generate()
	}
	for i := range details {
		details[i].ID = s.genID.Generate()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.stagingRepo.Truncate(ctx, tx); err != nil {
			return fmt.Errorf("truncate staging: %w", err)
		}
		if err := s.stagingRepo.InsertCustomers(ctx, tx, customers, cfg.BatchSize); err != nil {
			return fmt.Errorf("stage customers: %w", err)
		}
		if err := s.stagingRepo.InsertProducts(ctx, tx, products, cfg.BatchSize); err != nil {
			return fmt.Errorf("stage products: %w", err)
		}
		if err := s.stagingRepo.InsertOrders(ctx, tx, orders, cfg.BatchSize); err != nil {
			return fmt.Errorf("stage orders: %w", err)
		}
		if err := s.stagingRepo.InsertOrderDetails(ctx, tx, details, cfg.BatchSize); err != nil {
			return fmt.Errorf("stage order details: %w", err)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	result.Customers = len(customers)
	result.Products = len(products)
	result.Orders = len(orders)
	result.OrderDetails = len(details)
	result.Success = true

	s.metrics.RecordStagedRows(ctx, domain.EntityCustomers, result.Customers)
	s.metrics.RecordStagedRows(ctx, domain.EntityProducts, result.Products)
	s.metrics.RecordStagedRows(ctx, domain.EntityOrders, result.Orders)
	s.metrics.RecordStagedRows(ctx, domain.EntityOrderDetails, result.OrderDetails)

	log.Info("extract.run.finish",
		zap.Int(domain.EntityCustomers, result.Customers),
		zap.Int(domain.EntityProducts, result.Products),
		zap.Int(domain.EntityOrders, result.Orders),
		zap.Int(domain.EntityOrderDetails, result.OrderDetails),
	)
	return result, nil
}

func extract[T any](ctx context.Context, log *zap.Logger, src domain.Source[T], loadDate time.Time) ([]T, error) {
	start := time.Now()
	rows, err := src.Extract(ctx, loadDate)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", src.Name(), err)
	}
	log.Debug("extract.source.read",
		zap.String("source", src.Name()),
		zap.Int("count", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)
	return rows, nil
}
