package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/monocle-dev/tasksync/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertRewards overwrites all three counters of the user's singleton row,
// inserting it when absent. Concurrent writers resolve on the user_id unique
// index; the last one wins.
func (r *Repository) UpsertRewards(ctx context.Context, rewards models.EarnedRewards) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"points", "minutes", "rubles", "updated_at"}),
		}).
		Create(&rewards).Error

	if err != nil {
		return fmt.Errorf("upsert rewards: %w", err)
	}
	return nil
}

// FindRewards returns zero counters when the user has no row yet.
func (r *Repository) FindRewards(ctx context.Context, userID uint) (models.EarnedRewards, error) {
	var rewards models.EarnedRewards

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rewards).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EarnedRewards{UserID: userID}, nil
	}

	if err != nil {
		return models.EarnedRewards{}, fmt.Errorf("find rewards: %w", err)
	}

	return rewards, nil
}
