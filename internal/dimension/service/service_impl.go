package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/dimension/domain"
	obslogger "github.com/smallbiznis/salesdw/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/salesdw/internal/observability/metrics"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	StagingRepo  stagingdomain.Repository
	CustomerRepo domain.CustomerRepository
	ProductRepo  domain.ProductRepository
	Pipeline     *config.PipelineConfigHolder `optional:"true"`
	Metrics      *obsmetrics.Metrics          `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	stagingRepo  stagingdomain.Repository
	customerRepo domain.CustomerRepository
	productRepo  domain.ProductRepository
	pipeline     *config.PipelineConfigHolder
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("dimension.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		stagingRepo:  p.StagingRepo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		pipeline:     p.Pipeline,
		metrics:      p.Metrics,
	}
}

func (s *Service) MergeCustomers(ctx context.Context) (domain.MergeResult, error) {
	staged, err := s.stagingRepo.LatestCustomers(ctx, s.db)
	if err != nil {
		err = fmt.Errorf("read staged customers: %w", err)
		result := failedResult(domain.DimensionCustomer, err)
		s.report(ctx, result)
		return result, err
	}

	result, err := merge(ctx, s.logger(ctx), clock.Today(s.clock), staged, scd2[stagingdomain.Customer, domain.Customer]{
		dimension:   domain.DimensionCustomer,
		businessKey: func(c stagingdomain.Customer) int64 { return c.CustomerID },
		findCurrent: func(ctx context.Context, key int64) (*domain.Customer, error) {
			return s.customerRepo.FindCurrent(ctx, s.db, key)
		},
		changed: customerChanged,
		newVersion: func(c stagingdomain.Customer, validFrom time.Time) domain.Customer {
			return domain.Customer{
				CustomerKey: s.genID.Generate(),
				CustomerID:  c.CustomerID,
				FirstName:   c.FirstName,
				LastName:    c.LastName,
				Email:       c.Email,
				Phone:       c.Phone,
				City:        c.City,
				Country:     c.Country,
				ValidFrom:   validFrom,
				ValidTo:     domain.OpenValidTo,
				IsCurrent:   true,
			}
		},
		closeCurrent: func(ctx context.Context, current *domain.Customer, validTo time.Time) error {
			return s.customerRepo.Close(ctx, s.db, current.CustomerKey, validTo)
		},
		insert: func(ctx context.Context, rows []domain.Customer) error {
			return s.customerRepo.InsertBatch(ctx, s.db, rows, s.batchSize())
		},
	})
	s.report(ctx, result)
	return result, err
}

func (s *Service) MergeProducts(ctx context.Context) (domain.MergeResult, error) {
	staged, err := s.stagingRepo.LatestProducts(ctx, s.db)
	if err != nil {
		err = fmt.Errorf("read staged products: %w", err)
		result := failedResult(domain.DimensionProduct, err)
		s.report(ctx, result)
		return result, err
	}

	result, err := merge(ctx, s.logger(ctx), clock.Today(s.clock), staged, scd2[stagingdomain.Product, domain.Product]{
		dimension:   domain.DimensionProduct,
		businessKey: func(p stagingdomain.Product) int64 { return p.ProductID },
		findCurrent: func(ctx context.Context, key int64) (*domain.Product, error) {
			return s.productRepo.FindCurrent(ctx, s.db, key)
		},
		changed: productChanged,
		newVersion: func(p stagingdomain.Product, validFrom time.Time) domain.Product {
			return domain.Product{
				ProductKey:  s.genID.Generate(),
				ProductID:   p.ProductID,
				ProductName: p.ProductName,
				Category:    p.Category,
				Price:       p.Price,
				ValidFrom:   validFrom,
				ValidTo:     domain.OpenValidTo,
				IsCurrent:   true,
			}
		},
		closeCurrent: func(ctx context.Context, current *domain.Product, validTo time.Time) error {
			return s.productRepo.Close(ctx, s.db, current.ProductKey, validTo)
		},
		insert: func(ctx context.Context, rows []domain.Product) error {
			return s.productRepo.InsertBatch(ctx, s.db, rows, s.batchSize())
		},
	})
	s.report(ctx, result)
	return result, err
}

func customerChanged(current *domain.Customer, staged stagingdomain.Customer) bool {
	return !sameText(current.FirstName, staged.FirstName) ||
		!sameText(current.LastName, staged.LastName) ||
		!sameText(current.Email, staged.Email) ||
		!sameText(current.Phone, staged.Phone) ||
		!sameText(current.City, staged.City) ||
		!sameText(current.Country, staged.Country)
}

func productChanged(current *domain.Product, staged stagingdomain.Product) bool {
	return !sameText(current.ProductName, staged.ProductName) ||
		!sameText(current.Category, staged.Category) ||
		!current.Price.Equal(staged.Price)
}

func (s *Service) batchSize() int {
	if s.pipeline == nil {
		return 0
	}
	return s.pipeline.Get().BatchSize
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}

func (s *Service) report(ctx context.Context, result domain.MergeResult) {
	fields := []zap.Field{
		zap.String("dimension", result.Dimension),
		zap.Int("processed", result.Processed),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
	}
	if !result.Success {
		s.logger(ctx).Error("dimension.merge.failed", append(fields, zap.String("error", result.Error))...)
	} else {
		s.logger(ctx).Info("dimension.merge.finish", fields...)
	}

	s.metrics.RecordDimensionRows(ctx, result.Dimension, "inserted", result.Inserted)
	s.metrics.RecordDimensionRows(ctx, result.Dimension, "updated", result.Updated)
	s.metrics.RecordDimensionRows(ctx, result.Dimension, "unchanged", result.Unchanged)
}

func failedResult(dimension string, err error) domain.MergeResult {
	return domain.MergeResult{Dimension: dimension, Error: err.Error()}
}
