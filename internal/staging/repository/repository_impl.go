package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/salesdw/internal/staging/domain"
	"gorm.io/gorm"
)

const defaultBatchSize = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Ties on load_date fall back to the snowflake id, which grows with insertion order.
const latestCustomersSQL = `
SELECT s.id, s.customer_id, s.first_name, s.last_name, s.email, s.phone, s.city, s.country, s.load_date
FROM stg_customers s
WHERE s.id = (
	SELECT l.id FROM stg_customers l
	WHERE l.customer_id = s.customer_id
	ORDER BY l.load_date DESC, l.id DESC
	LIMIT 1
)
ORDER BY s.customer_id`

const latestProductsSQL = `
SELECT s.id, s.product_id, s.product_name, s.category, s.price, s.stock, s.load_date
FROM stg_products s
WHERE s.id = (
	SELECT l.id FROM stg_products l
	WHERE l.product_id = s.product_id
	ORDER BY l.load_date DESC, l.id DESC
	LIMIT 1
)
ORDER BY s.product_id`

func (r *repo) LatestCustomers(ctx context.Context, db *gorm.DB) ([]domain.Customer, error) {
	var rows []domain.Customer
	if err := db.WithContext(ctx).Raw(latestCustomersSQL).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) LatestProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var rows []domain.Product
	if err := db.WithContext(ctx).Raw(latestProductsSQL).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListOrders(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var rows []domain.Order
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListOrderDetails(ctx context.Context, db *gorm.DB) ([]domain.OrderDetail, error) {
	var rows []domain.OrderDetail
	err := db.WithContext(ctx).
		Model(&domain.OrderDetail{}).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) InsertCustomers(ctx context.Context, db *gorm.DB, rows []domain.Customer, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSizeOrDefault(batchSize)).Error
}

func (r *repo) InsertProducts(ctx context.Context, db *gorm.DB, rows []domain.Product, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSizeOrDefault(batchSize)).Error
}

func (r *repo) InsertOrders(ctx context.Context, db *gorm.DB, rows []domain.Order, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSizeOrDefault(batchSize)).Error
}

func (r *repo) InsertOrderDetails(ctx context.Context, db *gorm.DB, rows []domain.OrderDetail, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSizeOrDefault(batchSize)).Error
}

func (r *repo) Truncate(ctx context.Context, db *gorm.DB) error {
	for _, table := range []string{"stg_order_details", "stg_orders", "stg_products", "stg_customers"} {
		if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func batchSizeOrDefault(size int) int {
	if size <= 0 {
		return defaultBatchSize
	}
	return size
}
