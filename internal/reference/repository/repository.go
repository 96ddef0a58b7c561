package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/salesdw/internal/reference/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 500

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) ListStatuses(ctx context.Context, db *gorm.DB) ([]domain.Status, error) {
	var rows []domain.Status
	err := db.WithContext(ctx).
		Order("status_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertStatuses skips names that already exist and reports how many rows were new.
func (r *repository) InsertStatuses(ctx context.Context, db *gorm.DB, rows []domain.Status) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}

func (r *repository) CountCalendar(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Calendar{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) FindCalendarByKey(ctx context.Context, db *gorm.DB, timeKey int) (*domain.Calendar, error) {
	var row domain.Calendar
	err := db.WithContext(ctx).
		Where("time_key = ?", timeKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListCalendar(ctx context.Context, db *gorm.DB) ([]domain.Calendar, error) {
	var rows []domain.Calendar
	err := db.WithContext(ctx).
		Order("time_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) InsertCalendar(ctx context.Context, db *gorm.DB, rows []domain.Calendar, batchSize int) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, batchSize)
	return result.RowsAffected, result.Error
}
