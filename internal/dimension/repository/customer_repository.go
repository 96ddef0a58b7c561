package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesdw/internal/dimension/domain"
	"gorm.io/gorm"
)

const defaultBatchSize = 500

type customerRepo struct{}

func ProvideCustomer() domain.CustomerRepository {
	return &customerRepo{}
}

func (r *customerRepo) FindCurrent(ctx context.Context, db *gorm.DB, customerID int64) (*domain.Customer, error) {
	var rows []domain.Customer
	err := db.WithContext(ctx).
		Where("customer_id = ? AND valid_to = ?", customerID, domain.OpenValidTo).
		Order("valid_from desc, customer_key desc").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *customerRepo) ListCurrent(ctx context.Context, db *gorm.DB) (map[int64]snowflake.ID, error) {
	type row struct {
		CustomerID  int64        `gorm:"column:customer_id"`
		CustomerKey snowflake.ID `gorm:"column:customer_key"`
	}

	var rows []row
	err := db.WithContext(ctx).Raw(
		`SELECT customer_id, customer_key FROM dim_customer WHERE valid_to = ?`,
		domain.OpenValidTo,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	current := make(map[int64]snowflake.ID, len(rows))
	for _, item := range rows {
		current[item.CustomerID] = item.CustomerKey
	}
	return current, nil
}

func (r *customerRepo) ListHistory(ctx context.Context, db *gorm.DB, customerID int64) ([]domain.Customer, error) {
	var rows []domain.Customer
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("valid_from asc, customer_key asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *customerRepo) Close(ctx context.Context, db *gorm.DB, key snowflake.ID, validTo time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE dim_customer SET valid_to = ?, is_current = ? WHERE customer_key = ? AND valid_to = ?`,
		validTo,
		false,
		key,
		domain.OpenValidTo,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVersionClosed
	}
	return nil
}

func (r *customerRepo) InsertBatch(ctx context.Context, db *gorm.DB, rows []domain.Customer, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSize).Error
}
