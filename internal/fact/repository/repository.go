package repository

import (
	"context"

	"github.com/smallbiznis/salesdw/internal/fact/domain"
	"gorm.io/gorm"
)

const defaultBatchSize = 500

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Truncate(ctx context.Context, db *gorm.DB) error {
	stmt := "TRUNCATE TABLE fact_sales"
	if db.Dialector.Name() == "sqlite" {
		stmt = "DELETE FROM fact_sales"
	}
	return db.WithContext(ctx).Exec(stmt).Error
}

func (r *repository) InsertBatch(ctx context.Context, db *gorm.DB, rows []domain.Sales, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return db.WithContext(ctx).CreateInBatches(&rows, batchSize).Error
}

func (r *repository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Sales{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
