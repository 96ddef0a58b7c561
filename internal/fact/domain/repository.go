package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Truncate removes every fact row. Facts are rebuilt in full on each load.
	Truncate(ctx context.Context, db *gorm.DB) error
	InsertBatch(ctx context.Context, db *gorm.DB, rows []Sales, batchSize int) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
