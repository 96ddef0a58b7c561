package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	// FindCurrent returns the open version for customerID, or nil when the key is new.
	FindCurrent(ctx context.Context, db *gorm.DB, customerID int64) (*Customer, error)
	// ListCurrent maps every customer id with an open version to that version's key.
	ListCurrent(ctx context.Context, db *gorm.DB) (map[int64]snowflake.ID, error)
	ListHistory(ctx context.Context, db *gorm.DB, customerID int64) ([]Customer, error)
	Close(ctx context.Context, db *gorm.DB, key snowflake.ID, validTo time.Time) error
	InsertBatch(ctx context.Context, db *gorm.DB, rows []Customer, batchSize int) error
}

type ProductRepository interface {
	FindCurrent(ctx context.Context, db *gorm.DB, productID int64) (*Product, error)
	ListCurrent(ctx context.Context, db *gorm.DB) (map[int64]CurrentProduct, error)
	ListHistory(ctx context.Context, db *gorm.DB, productID int64) ([]Product, error)
	Close(ctx context.Context, db *gorm.DB, key snowflake.ID, validTo time.Time) error
	InsertBatch(ctx context.Context, db *gorm.DB, rows []Product, batchSize int) error
}
