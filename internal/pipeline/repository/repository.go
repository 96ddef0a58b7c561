package repository

import (
	"context"

	"github.com/smallbiznis/salesdw/internal/pipeline/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, run *domain.Run) error {
	return db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindLatest(ctx context.Context, db *gorm.DB) (*domain.Run, error) {
	var rows []domain.Run
	err := db.WithContext(ctx).
		Order("started_at DESC, id DESC").
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

func (r *repository) FindByRunID(ctx context.Context, db *gorm.DB, runID string) (*domain.Run, error) {
	var rows []domain.Run
	err := db.WithContext(ctx).
		Where("run_id = ?", runID).
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
