package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesdw/internal/dimension/domain"
	"gorm.io/gorm"
)

type productRepo struct{}

func ProvideProduct() domain.ProductRepository {
	return &productRepo{}
}

func (r *productRepo) FindCurrent(ctx context.Context, db *gorm.DB, productID int64) (*domain.Product, error) {
	var rows []domain.Product
	err := db.WithContext(ctx).
		Where("product_id = ? AND valid_to = ?", productID, domain.OpenValidTo).
		Order("valid_from desc, product_key desc").
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

func (r *productRepo) ListCurrent(ctx context.Context, db *gorm.DB) (map[int64]domain.CurrentProduct, error) {
	type row struct {
		ProductID  int64           `gorm:"column:product_id"`
		ProductKey snowflake.ID    `gorm:"column:product_key"`
		Price      decimal.Decimal `gorm:"column:price"`
	}

	var rows []row
	err := db.WithContext(ctx).Raw(
		`SELECT product_id, product_key, price FROM dim_product WHERE valid_to = ?`,
		domain.OpenValidTo,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	current := make(map[int64]domain.CurrentProduct, len(rows))
	for _, item := range rows {
		current[item.ProductID] = domain.CurrentProduct{
			ProductKey: item.ProductKey,
			Price:      item.Price,
		}
	}
	return current, nil
}

func (r *productRepo) ListHistory(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Product, error) {
	var rows []domain.Product
	err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("valid_from asc, product_key asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *productRepo) Close(ctx context.Context, db *gorm.DB, key snowflake.ID, validTo time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE dim_product SET valid_to = ?, is_current = ? WHERE product_key = ? AND valid_to = ?`,
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

func (r *productRepo) InsertBatch(ctx context.Context, db *gorm.DB, rows []domain.Product, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSize).Error
}
