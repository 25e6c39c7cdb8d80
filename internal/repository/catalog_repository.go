package repository

import (
	"context"
	"fmt"

	"github.com/monocle-dev/tasksync/internal/models"
	"gorm.io/gorm/clause"
)

// Conflict targets. Client ids are unique per owner, never globally, so a
// row belonging to another user can never be the target of an update.
var (
	ownedKey   = []clause.Column{{Name: "user_id"}, {Name: "id"}}
	sectionKey = []clause.Column{{Name: "user_id"}, {Name: "project_id"}, {Name: "id"}}
)

// UpsertCategories inserts new categories and overwrites name, icon and
// color of existing ones in a single statement per batch.
func (r *Repository) UpsertCategories(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   ownedKey,
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "color"}),
		}).
		CreateInBatches(&categories, upsertBatchSize).Error

	if err != nil {
		return fmt.Errorf("upsert categories: %w", err)
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) UpsertProjects(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   ownedKey,
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "color"}),
		}).
		CreateInBatches(&projects, upsertBatchSize).Error

	if err != nil {
		return fmt.Errorf("upsert projects: %w", err)
	}
	return nil
}

func (r *Repository) ListProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// UpsertSections is keyed by section id within its project.
func (r *Repository) UpsertSections(ctx context.Context, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   sectionKey,
			DoUpdates: clause.AssignmentColumns([]string{"name", "position"}),
		}).
		CreateInBatches(&sections, upsertBatchSize).Error

	if err != nil {
		return fmt.Errorf("upsert sections: %w", err)
	}
	return nil
}

// ListSections returns every section of every project owned by userID.
func (r *Repository) ListSections(ctx context.Context, userID uint) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position, created_at, id").
		Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}
