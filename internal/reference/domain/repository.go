package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListStatuses(ctx context.Context, db *gorm.DB) ([]Status, error)
	InsertStatuses(ctx context.Context, db *gorm.DB, rows []Status) (int64, error)

	CountCalendar(ctx context.Context, db *gorm.DB) (int64, error)
	// FindCalendarByKey returns nil when the key has no row.
	FindCalendarByKey(ctx context.Context, db *gorm.DB, timeKey int) (*Calendar, error)
	ListCalendar(ctx context.Context, db *gorm.DB) ([]Calendar, error)
	InsertCalendar(ctx context.Context, db *gorm.DB, rows []Calendar, batchSize int) (int64, error)
}
