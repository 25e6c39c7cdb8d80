package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/monocle-dev/tasksync/internal/apperrors"
	"github.com/monocle-dev/tasksync/internal/types"
)

func newServices(t *testing.T) (*AccountService, *SyncService) {
	t.Helper()

	accounts, repo, _ := newAccountService(t)
	return accounts, NewSyncService(repo)
}

func strPtr(s string) *string { return &s }

func sampleSnapshot() types.Snapshot {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	scheduled := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	return types.Snapshot{
		Categories: []types.Category{{ID: "c1", Name: "Work", Icon: "Briefcase", Color: "bg-blue-500"}},
		Projects: []types.Project{{
			ID: "p1", Name: "Launch", Icon: "Folder", Color: "bg-blue-500",
			Sections: []types.Section{
				{ID: "s2", Name: "Done", Order: 1},
				{ID: "s1", Name: "Todo", Order: 0},
			},
		}},
		Tasks: []types.Task{{
			ID: "t1", Title: "Write docs", Category: "c1", ProjectID: "p1", SectionID: strPtr("s1"),
			RewardType: "minutes", RewardAmount: 15, Priority: 2,
			CreatedAt: types.NewTimestamp(created), ScheduledDate: types.NewTimestamp(scheduled),
		}},
		Rewards: &types.Rewards{Points: 10, Minutes: 15, Rubles: 0},
		ActivityLogs: []types.ActivityLog{
			{ID: "l1", Action: "task_create", Description: "Write docs", Timestamp: types.NewTimestamp(created)},
		},
	}
}

func TestFetchAllNewUser(t *testing.T) {
	accounts, syncer := newServices(t)
	userID := register(t, accounts, "a@x.com")

	snapshot, err := syncer.FetchAll(context.Background(), userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(snapshot.Categories) != 5 {
		t.Fatalf("expected 5 default categories, got %d", len(snapshot.Categories))
	}
	if len(snapshot.Projects) != 1 || snapshot.Projects[0].Sections == nil || len(snapshot.Projects[0].Sections) != 0 {
		t.Fatalf("expected one project with empty sections, got %+v", snapshot.Projects)
	}
	if snapshot.Tasks == nil || len(snapshot.Tasks) != 0 {
		t.Fatalf("expected empty tasks slice, got %#v", snapshot.Tasks)
	}
	if snapshot.ActivityLogs == nil || len(snapshot.ActivityLogs) != 0 {
		t.Fatalf("expected empty logs slice, got %#v", snapshot.ActivityLogs)
	}
	if snapshot.Rewards == nil || *snapshot.Rewards != (types.Rewards{}) {
		t.Fatalf("expected zero rewards, got %+v", snapshot.Rewards)
	}
}

func TestSyncRoundTrip(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	userID := register(t, accounts, "a@x.com")

	if err := syncer.Sync(ctx, userID, sampleSnapshot()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	snapshot, err := syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(snapshot.Categories) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(snapshot.Categories))
	}

	var launch *types.Project
	for i := range snapshot.Projects {
		if snapshot.Projects[i].ID == "p1" {
			launch = &snapshot.Projects[i]
		}
	}
	if launch == nil {
		t.Fatalf("project p1 missing from %+v", snapshot.Projects)
	}
	if len(launch.Sections) != 2 || launch.Sections[0].ID != "s1" || launch.Sections[1].ID != "s2" {
		t.Fatalf("expected sections ordered s1,s2, got %+v", launch.Sections)
	}
	if launch.Sections[0].ProjectID != "p1" {
		t.Fatalf("expected section to carry its project id, got %q", launch.Sections[0].ProjectID)
	}

	if len(snapshot.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(snapshot.Tasks))
	}
	task := snapshot.Tasks[0]
	if task.Title != "Write docs" || task.RewardType != "minutes" || task.RewardAmount != 15 || task.Priority != 2 {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.SectionID == nil || *task.SectionID != "s1" {
		t.Fatalf("expected section s1, got %v", task.SectionID)
	}
	if task.CreatedAt == nil || !task.CreatedAt.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected client created_at kept, got %v", task.CreatedAt)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected no completion time, got %v", task.CompletedAt)
	}

	if *snapshot.Rewards != (types.Rewards{Points: 10, Minutes: 15}) {
		t.Fatalf("unexpected rewards %+v", snapshot.Rewards)
	}
	if len(snapshot.ActivityLogs) != 1 || snapshot.ActivityLogs[0].ID != "l1" {
		t.Fatalf("unexpected logs %+v", snapshot.ActivityLogs)
	}
}

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestFetchAllWireKeys(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	userID := register(t, accounts, "a@x.com")

	if err := syncer.Sync(ctx, userID, sampleSnapshot()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	data, err := syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	tests := []struct {
		name string
		v    any
		want []string
	}{
		{name: "response", v: data, want: []string{"activityLogs", "categories", "projects", "rewards", "tasks"}},
		{name: "task", v: data.Tasks[0], want: []string{
			"category", "completed", "completed_at", "created_at", "description", "id", "priority",
			"projectId", "rewardAmount", "rewardType", "scheduled_date", "sectionId", "title",
		}},
		{name: "activity log", v: data.ActivityLogs[0], want: []string{"action", "created_at", "description", "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jsonKeys(t, tt.v)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("expected keys %v, got %v", tt.want, got)
			}
		})
	}

	raw, err := json.Marshal(data.Tasks[0])
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	var task map[string]any
	if err := json.Unmarshal(raw, &task); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if task["created_at"] != "2024-05-01T08:00:00Z" || task["scheduled_date"] != "2024-05-03T00:00:00Z" {
		t.Fatalf("unexpected timestamps in %s", raw)
	}
	if task["completed_at"] != nil {
		t.Fatalf("expected null completed_at, got %v", task["completed_at"])
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	userID := register(t, accounts, "a@x.com")

	for i := 0; i < 3; i++ {
		if err := syncer.Sync(ctx, userID, sampleSnapshot()); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}

	snapshot, err := syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(snapshot.Categories) != 6 || len(snapshot.Projects) != 2 || len(snapshot.Tasks) != 1 || len(snapshot.ActivityLogs) != 1 {
		t.Fatalf("expected no duplicates, got %d categories, %d projects, %d tasks, %d logs",
			len(snapshot.Categories), len(snapshot.Projects), len(snapshot.Tasks), len(snapshot.ActivityLogs))
	}
}

func TestSyncEmptySnapshotChangesNothing(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	userID := register(t, accounts, "a@x.com")

	if err := syncer.Sync(ctx, userID, sampleSnapshot()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	if err := syncer.Sync(ctx, userID, types.Snapshot{}); err != nil {
		t.Fatalf("empty sync: %v", err)
	}

	snapshot, err := syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(snapshot.Tasks) != 1 || snapshot.Rewards.Points != 10 {
		t.Fatalf("expected stored data untouched, got %d tasks and %+v", len(snapshot.Tasks), snapshot.Rewards)
	}
}

func TestSyncIsolatesUsers(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	alice := register(t, accounts, "alice@x.com")
	bob := register(t, accounts, "bob@x.com")

	if err := syncer.Sync(ctx, bob, sampleSnapshot()); err != nil {
		t.Fatalf("bob sync: %v", err)
	}

	hijack := types.Snapshot{Tasks: []types.Task{{ID: "t1", Title: "hijacked", RewardAmount: 999}}}
	if err := syncer.Sync(ctx, alice, hijack); err != nil {
		t.Fatalf("alice sync: %v", err)
	}

	bobData, err := syncer.FetchAll(ctx, bob)
	if err != nil {
		t.Fatalf("fetch bob: %v", err)
	}
	if len(bobData.Tasks) != 1 || bobData.Tasks[0].Title != "Write docs" {
		t.Fatalf("expected bob's task untouched, got %+v", bobData.Tasks)
	}

	aliceData, err := syncer.FetchAll(ctx, alice)
	if err != nil {
		t.Fatalf("fetch alice: %v", err)
	}
	if len(aliceData.Tasks) != 1 || aliceData.Tasks[0].Title != "hijacked" {
		t.Fatalf("expected alice's own task, got %+v", aliceData.Tasks)
	}
	if len(aliceData.ActivityLogs) != 0 {
		t.Fatalf("expected alice to see none of bob's logs, got %+v", aliceData.ActivityLogs)
	}
}

func TestSyncDefaultsTaskFields(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	userID := register(t, accounts, "a@x.com")

	snapshot := types.Snapshot{Tasks: []types.Task{
		{ID: "t1", Title: "no reward type", Priority: 0},
		{ID: "t2", Title: "bad priority", RewardType: "rubles", Priority: 9},
	}}
	if err := syncer.Sync(ctx, userID, snapshot); err != nil {
		t.Fatalf("sync: %v", err)
	}

	fetched, err := syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	byID := map[string]types.TaskRecord{}
	for _, task := range fetched.Tasks {
		byID[task.ID] = task
	}
	if got := byID["t1"]; got.RewardType != "points" || got.Priority != DefaultPriority {
		t.Fatalf("expected defaults for t1, got %+v", got)
	}
	if got := byID["t2"]; got.RewardType != "rubles" || got.Priority != DefaultPriority {
		t.Fatalf("expected rubles with default priority for t2, got %+v", got)
	}
	if byID["t1"].CreatedAt == nil {
		t.Fatal("expected server-assigned created_at")
	}
}

func TestSyncValidation(t *testing.T) {
	accounts, syncer := newServices(t)
	userID := register(t, accounts, "a@x.com")

	tests := []struct {
		name     string
		snapshot types.Snapshot
	}{
		{name: "category id", snapshot: types.Snapshot{Categories: []types.Category{{Name: "x"}}}},
		{name: "project id", snapshot: types.Snapshot{Projects: []types.Project{{Name: "x"}}}},
		{name: "section id", snapshot: types.Snapshot{Projects: []types.Project{{ID: "p", Sections: []types.Section{{Name: "x"}}}}}},
		{name: "task id", snapshot: types.Snapshot{Tasks: []types.Task{{Title: "x"}}}},
		{name: "reward type", snapshot: types.Snapshot{Tasks: []types.Task{{ID: "t", RewardType: "coins"}}}},
		{name: "log id", snapshot: types.Snapshot{ActivityLogs: []types.ActivityLog{{Action: "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := syncer.Sync(context.Background(), userID, tt.snapshot)
			assertCode(t, err, apperrors.CodeValidation)
		})
	}

	// A rejected snapshot stores nothing.
	fetched, err := syncer.FetchAll(context.Background(), userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fetched.Tasks) != 0 || len(fetched.Projects) != 1 {
		t.Fatalf("expected nothing stored, got %d tasks and %d projects", len(fetched.Tasks), len(fetched.Projects))
	}
}

func TestSyncActivityLogLimits(t *testing.T) {
	accounts, syncer := newServices(t)
	ctx := context.Background()
	userID := register(t, accounts, "a@x.com")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	logs := make([]types.ActivityLog, 0, 80)
	for i := 0; i < 80; i++ {
		logs = append(logs, types.ActivityLog{
			ID:        fmt.Sprintf("l%03d", i),
			Action:    "task_complete",
			Timestamp: types.NewTimestamp(start.Add(time.Duration(i) * time.Minute)),
		})
	}

	if err := syncer.Sync(ctx, userID, types.Snapshot{ActivityLogs: logs}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	fetched, err := syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fetched.ActivityLogs) != ActivityLogWriteLimit {
		t.Fatalf("expected %d stored logs, got %d", ActivityLogWriteLimit, len(fetched.ActivityLogs))
	}
	if fetched.ActivityLogs[0].ID != "l079" || fetched.ActivityLogs[len(fetched.ActivityLogs)-1].ID != "l030" {
		t.Fatalf("expected newest-first l079..l030, got %s..%s",
			fetched.ActivityLogs[0].ID, fetched.ActivityLogs[len(fetched.ActivityLogs)-1].ID)
	}

	for batch := 1; batch <= 3; batch++ {
		more := make([]types.ActivityLog, 0, ActivityLogWriteLimit)
		for i := 0; i < ActivityLogWriteLimit; i++ {
			more = append(more, types.ActivityLog{
				ID:        fmt.Sprintf("b%d-%02d", batch, i),
				Action:    "task_create",
				Timestamp: types.NewTimestamp(start.Add(time.Duration(batch) * time.Hour * 24).Add(time.Duration(i) * time.Second)),
			})
		}
		if err := syncer.Sync(ctx, userID, types.Snapshot{ActivityLogs: more}); err != nil {
			t.Fatalf("sync batch %d: %v", batch, err)
		}
	}

	fetched, err = syncer.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fetched.ActivityLogs) != ActivityLogReadLimit {
		t.Fatalf("expected %d logs returned, got %d", ActivityLogReadLimit, len(fetched.ActivityLogs))
	}
	if fetched.ActivityLogs[0].ID != "b3-49" {
		t.Fatalf("expected newest log first, got %s", fetched.ActivityLogs[0].ID)
	}
}

func TestLastByID(t *testing.T) {
	items := []types.Category{{ID: "a", Name: "1"}, {ID: "b", Name: "2"}, {ID: "a", Name: "3"}}

	got := lastByID(items, func(c types.Category) string { return c.ID })
	if len(got) != 2 || got[0].ID != "b" || got[1].Name != "3" {
		t.Fatalf("expected [b a(3)], got %+v", got)
	}
}
