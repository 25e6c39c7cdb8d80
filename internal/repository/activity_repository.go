package repository

import (
	"context"
	"fmt"

	"github.com/monocle-dev/tasksync/internal/models"
	"gorm.io/gorm/clause"
)

// InsertActivityLogs appends entries, skipping ids the user already has.
func (r *Repository) InsertActivityLogs(ctx context.Context, logs []models.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: ownedKey, DoNothing: true}).
		CreateInBatches(&logs, upsertBatchSize).Error

	if err != nil {
		return fmt.Errorf("insert activity logs: %w", err)
	}
	return nil
}

// ListActivityLogs returns at most limit entries, newest first.
func (r *Repository) ListActivityLogs(ctx context.Context, userID uint, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return logs, nil
}

