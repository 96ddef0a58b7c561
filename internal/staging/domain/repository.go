package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// LatestCustomers returns the most recently loaded row per customer id.
	LatestCustomers(ctx context.Context, db *gorm.DB) ([]Customer, error)
	// LatestProducts returns the most recently loaded row per product id.
	LatestProducts(ctx context.Context, db *gorm.DB) ([]Product, error)
	ListOrders(ctx context.Context, db *gorm.DB) ([]Order, error)
	ListOrderDetails(ctx context.Context, db *gorm.DB) ([]OrderDetail, error)

	InsertCustomers(ctx context.Context, db *gorm.DB, rows []Customer, batchSize int) error
	InsertProducts(ctx context.Context, db *gorm.DB, rows []Product, batchSize int) error
	InsertOrders(ctx context.Context, db *gorm.DB, rows []Order, batchSize int) error
	InsertOrderDetails(ctx context.Context, db *gorm.DB, rows []OrderDetail, batchSize int) error

	// Truncate empties every staging table.
	Truncate(ctx context.Context, db *gorm.DB) error
}
