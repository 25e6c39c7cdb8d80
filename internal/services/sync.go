package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/monocle-dev/tasksync/internal/apperrors"
	"github.com/monocle-dev/tasksync/internal/models"
	"github.com/monocle-dev/tasksync/internal/repository"
	"github.com/monocle-dev/tasksync/internal/types"
)

const (
	// ActivityLogReadLimit caps the history returned by FetchAll.
	ActivityLogReadLimit = 100
	// ActivityLogWriteLimit caps how many trailing entries a sync stores.
	ActivityLogWriteLimit = 50

	DefaultPriority = 4
)

// SyncService reconciles client snapshots with the stored data graph.
type SyncService struct {
	repo *repository.Repository
}

func NewSyncService(repo *repository.Repository) *SyncService {
	return &SyncService{repo: repo}
}

// FetchAll returns the user's full graph. Slices are never nil so the
// client always receives arrays.
func (s *SyncService) FetchAll(ctx context.Context, userID uint) (types.DataResponse, error) {
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return types.DataResponse{}, err
	}

	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return types.DataResponse{}, err
	}

	sections, err := s.repo.ListSections(ctx, userID)
	if err != nil {
		return types.DataResponse{}, err
	}

	tasks, err := s.repo.ListTasks(ctx, userID)
	if err != nil {
		return types.DataResponse{}, err
	}

	rewards, err := s.repo.FindRewards(ctx, userID)
	if err != nil {
		return types.DataResponse{}, err
	}

	logs, err := s.repo.ListActivityLogs(ctx, userID, ActivityLogReadLimit)
	if err != nil {
		return types.DataResponse{}, err
	}

	data := types.DataResponse{
		Categories:   make([]types.Category, 0, len(categories)),
		Projects:     make([]types.Project, 0, len(projects)),
		Tasks:        make([]types.TaskRecord, 0, len(tasks)),
		Rewards:      &types.Rewards{Points: rewards.Points, Minutes: rewards.Minutes, Rubles: rewards.Rubles},
		ActivityLogs: make([]types.ActivityLogRecord, 0, len(logs)),
	}

	for _, c := range categories {
		data.Categories = append(data.Categories, categoryPayload(c))
	}

	sectionsByProject := make(map[string][]types.Section)
	for _, section := range sections {
		sectionsByProject[section.ProjectID] = append(sectionsByProject[section.ProjectID], sectionPayload(section))
	}

	for _, p := range projects {
		payload := projectPayload(p)
		if nested, ok := sectionsByProject[p.ID]; ok {
			payload.Sections = nested
		}
		data.Projects = append(data.Projects, payload)
	}

	for _, t := range tasks {
		data.Tasks = append(data.Tasks, taskPayload(t))
	}

	for _, l := range logs {
		data.ActivityLogs = append(data.ActivityLogs, activityLogPayload(l))
	}

	return data, nil
}

// Sync merges snapshot into the user's stored graph in one transaction.
// Entities present in the snapshot are inserted or overwritten; entities
// absent from it are left alone.
func (s *SyncService) Sync(ctx context.Context, userID uint, snapshot types.Snapshot) error {
	batch, err := newSyncBatch(userID, snapshot)

	if err != nil {
		return err
	}

	if batch.empty() {
		return nil
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.UpsertCategories(ctx, batch.categories); err != nil {
			return err
		}

		if err := tx.UpsertProjects(ctx, batch.projects); err != nil {
			return err
		}

		if err := tx.UpsertSections(ctx, batch.sections); err != nil {
			return err
		}

		if err := tx.UpsertTasks(ctx, batch.tasks); err != nil {
			return err
		}

		if batch.rewards != nil {
			if err := tx.UpsertRewards(ctx, *batch.rewards); err != nil {
				return err
			}
		}

		return tx.InsertActivityLogs(ctx, batch.logs)
	})

	if err != nil {
		log.Printf("[SYNC] Sync failed for user %d: %v", userID, err)
		return fmt.Errorf("sync data: %w", err)
	}

	log.Printf("[SYNC] User %d: %d categories, %d projects, %d sections, %d tasks, %d logs",
		userID, len(batch.categories), len(batch.projects), len(batch.sections), len(batch.tasks), len(batch.logs))

	return nil
}

// syncBatch is a validated snapshot converted to owned rows.
type syncBatch struct {
	categories []models.Category
	projects   []models.Project
	sections   []models.Section
	tasks      []models.Task
	rewards    *models.EarnedRewards
	logs       []models.ActivityLog
}

func (b syncBatch) empty() bool {
	return len(b.categories) == 0 && len(b.projects) == 0 && len(b.sections) == 0 &&
		len(b.tasks) == 0 && b.rewards == nil && len(b.logs) == 0
}

func newSyncBatch(userID uint, snapshot types.Snapshot) (syncBatch, error) {
	var batch syncBatch

	for _, c := range lastByID(snapshot.Categories, func(c types.Category) string { return c.ID }) {
		if strings.TrimSpace(c.ID) == "" {
			return syncBatch{}, apperrors.Validation("category id is required")
		}
		batch.categories = append(batch.categories, models.Category{
			UserID: userID,
			ID:     c.ID,
			Name:   c.Name,
			Icon:   c.Icon,
			Color:  c.Color,
		})
	}

	for _, p := range lastByID(snapshot.Projects, func(p types.Project) string { return p.ID }) {
		if strings.TrimSpace(p.ID) == "" {
			return syncBatch{}, apperrors.Validation("project id is required")
		}
		batch.projects = append(batch.projects, models.Project{
			UserID: userID,
			ID:     p.ID,
			Name:   p.Name,
			Icon:   p.Icon,
			Color:  p.Color,
		})

		for _, section := range lastByID(p.Sections, func(s types.Section) string { return s.ID }) {
			if strings.TrimSpace(section.ID) == "" {
				return syncBatch{}, apperrors.Validation("section id is required")
			}
			batch.sections = append(batch.sections, models.Section{
				UserID:    userID,
				ProjectID: p.ID,
				ID:        section.ID,
				Name:      section.Name,
				Order:     section.Order,
			})
		}
	}

	for _, t := range lastByID(snapshot.Tasks, func(t types.Task) string { return t.ID }) {
		task, err := taskModel(userID, t)
		if err != nil {
			return syncBatch{}, err
		}
		batch.tasks = append(batch.tasks, task)
	}

	if r := snapshot.Rewards; r != nil {
		batch.rewards = &models.EarnedRewards{
			UserID:  userID,
			Points:  r.Points,
			Minutes: r.Minutes,
			Rubles:  r.Rubles,
		}
	}

	logs := snapshot.ActivityLogs
	if len(logs) > ActivityLogWriteLimit {
		logs = logs[len(logs)-ActivityLogWriteLimit:]
	}

	seen := make(map[string]bool, len(logs))
	for _, l := range logs {
		if strings.TrimSpace(l.ID) == "" {
			return syncBatch{}, apperrors.Validation("activity log id is required")
		}
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true

		entry := models.ActivityLog{
			UserID:      userID,
			ID:          l.ID,
			Action:      l.Action,
			Description: l.Description,
		}
		if ts := l.Timestamp.TimePtr(); ts != nil {
			entry.CreatedAt = *ts
		}
		batch.logs = append(batch.logs, entry)
	}

	return batch, nil
}

func taskModel(userID uint, t types.Task) (models.Task, error) {
	if strings.TrimSpace(t.ID) == "" {
		return models.Task{}, apperrors.Validation("task id is required")
	}

	rewardType := t.RewardType
	switch rewardType {
	case "":
		rewardType = models.RewardPoints
	case models.RewardPoints, models.RewardMinutes, models.RewardRubles:
	default:
		return models.Task{}, apperrors.Validation(fmt.Sprintf("task %s has unknown reward type %q", t.ID, t.RewardType))
	}

	priority := t.Priority
	if priority < 1 || priority > 4 {
		priority = DefaultPriority
	}

	var sectionID *string
	if t.SectionID != nil && *t.SectionID != "" {
		id := *t.SectionID
		sectionID = &id
	}

	task := models.Task{
		UserID:        userID,
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		CategoryID:    t.Category,
		ProjectID:     t.ProjectID,
		SectionID:     sectionID,
		RewardType:    rewardType,
		RewardAmount:  t.RewardAmount,
		Completed:     t.Completed,
		Priority:      priority,
		ScheduledDate: t.ScheduledDate.TimePtr(),
		CompletedAt:   t.CompletedAt.TimePtr(),
	}

	if created := t.CreatedAt.TimePtr(); created != nil {
		task.CreatedAt = *created
	}

	return task, nil
}

// lastByID drops earlier duplicates so a single statement never touches the
// same row twice. The last occurrence wins and keeps its position.
func lastByID[T any](items []T, id func(T) string) []T {
	if len(items) < 2 {
		return items
	}

	last := make(map[string]int, len(items))
	for i, item := range items {
		last[id(item)] = i
	}

	if len(last) == len(items) {
		return items
	}

	out := make([]T, 0, len(last))
	for i, item := range items {
		if last[id(item)] == i {
			out = append(out, item)
		}
	}
	return out
}

func categoryPayload(c models.Category) types.Category {
	return types.Category{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color}
}

func projectPayload(p models.Project) types.Project {
	return types.Project{
		ID:       p.ID,
		Name:     p.Name,
		Icon:     p.Icon,
		Color:    p.Color,
		Sections: []types.Section{},
	}
}

func sectionPayload(s models.Section) types.Section {
	return types.Section{ID: s.ID, Name: s.Name, ProjectID: s.ProjectID, Order: s.Order}
}

func taskPayload(t models.Task) types.TaskRecord {
	return types.TaskRecord{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Category:      t.CategoryID,
		ProjectID:     t.ProjectID,
		SectionID:     t.SectionID,
		RewardType:    t.RewardType,
		RewardAmount:  t.RewardAmount,
		Completed:     t.Completed,
		Priority:      t.Priority,
		CreatedAt:     types.TimestampPtr(&t.CreatedAt),
		ScheduledDate: types.TimestampPtr(t.ScheduledDate),
		CompletedAt:   types.TimestampPtr(t.CompletedAt),
	}
}

func activityLogPayload(l models.ActivityLog) types.ActivityLogRecord {
	return types.ActivityLogRecord{
		ID:          l.ID,
		Action:      l.Action,
		Description: l.Description,
		CreatedAt:   types.TimestampPtr(&l.CreatedAt),
	}
}
