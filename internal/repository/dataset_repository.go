package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vista/internal/model"
)

// MaxDatasetsPerUser caps how many dataset records one user may hold.
// CreateCapped evicts the oldest record before inserting past the cap.
const MaxDatasetsPerUser = 5

type DatasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// CreateCapped inserts a dataset, first deleting the user's oldest record
// when the cap is already reached. Count, evict, and insert run in one
// transaction so the per-user cap holds even when uploads race.
func (r *DatasetRepository) CreateCapped(ctx context.Context, dataset *model.Dataset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Dataset{}).
			Where("user_id = ?", dataset.UserID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count datasets failed: %w", err)
		}

		if count >= MaxDatasetsPerUser {
			var oldest model.Dataset
			if err := tx.Where("user_id = ?", dataset.UserID).
				Order("created_at asc, id asc").
				First(&oldest).Error; err != nil {
				return fmt.Errorf("find oldest dataset failed: %w", err)
			}
			if err := tx.Delete(&oldest).Error; err != nil {
				return fmt.Errorf("evict oldest dataset failed: %w", err)
			}
		}

		if err := tx.Create(dataset).Error; err != nil {
			return fmt.Errorf("create dataset failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record dataset failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's datasets newest first.
func (r *DatasetRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Dataset, error) {
	var datasets []model.Dataset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&datasets).Error; err != nil {
		return nil, fmt.Errorf("list datasets failed: %w", err)
	}
	return datasets, nil
}

// LatestByUserID returns the most recent dataset, or nil when the user has
// none.
func (r *DatasetRepository) LatestByUserID(ctx context.Context, userID uint) (*model.Dataset, error) {
	var dataset model.Dataset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest dataset failed: %w", err)
	}
	return &dataset, nil
}

// CountByUserID reports how many datasets the user currently holds.
func (r *DatasetRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Dataset{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count datasets failed: %w", err)
	}
	return count, nil
}
