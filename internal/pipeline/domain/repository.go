package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, run *Run) error
	// FindLatest returns the most recently started run, or nil when none exists.
	FindLatest(ctx context.Context, db *gorm.DB) (*Run, error)
	FindByRunID(ctx context.Context, db *gorm.DB, runID string) (*Run, error)
}
