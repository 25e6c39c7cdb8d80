package repository

import (
	"context"
	"fmt"

	"github.com/monocle-dev/tasksync/internal/models"
	"gorm.io/gorm/clause"
)

var taskMutableColumns = []string{
	"title", "description", "category_id", "project_id", "section_id",
	"reward_type", "reward_amount", "completed", "priority",
	"scheduled_date", "completed_at",
}

func (r *Repository) UpsertTasks(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   ownedKey,
			DoUpdates: clause.AssignmentColumns(taskMutableColumns),
		}).
		CreateInBatches(&tasks, upsertBatchSize).Error

	if err != nil {
		return fmt.Errorf("upsert tasks: %w", err)
	}
	return nil
}

// ListTasks returns the newest tasks first.
func (r *Repository) ListTasks(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
