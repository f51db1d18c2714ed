package reminder

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mkravets/tickle/internal/models"
)

func taskWithDue(id uint, due time.Time) *models.Task {
	return &models.Task{
		ID:     id,
		Title:  "Pay rent",
		Status: models.StatusTodo,
		Due:    &due,
		Remind: true,
	}
}

func TestPolicy_Request(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	policy := Policy{Lead: 30 * time.Minute, PastDue: SkipPastDue}

	req, want := policy.Request(taskWithDue(1, due), now)
	if !want {
		t.Fatal("active task with due date and remind on should want a reminder")
	}
	if req.TaskID != 1 {
		t.Errorf("TaskID = %d, want 1", req.TaskID)
	}
	wantFire := time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)
	if !req.FireAt.Equal(wantFire) {
		t.Errorf("FireAt = %v, want %v", req.FireAt, wantFire)
	}
	if req.Title != "Pay rent" {
		t.Errorf("Title = %q, want task title", req.Title)
	}
}

func TestPolicy_RequestExclusions(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC)
	policy := DefaultPolicy()

	tests := []struct {
		name   string
		mutate func(*models.Task)
	}{
		{"nil due", func(task *models.Task) { task.Due = nil }},
		{"remind off", func(task *models.Task) { task.Remind = false }},
		{"completed", func(task *models.Task) { task.Status = models.StatusDone }},
		{"archived", func(task *models.Task) { task.Status = models.StatusArchived }},
		{"soft-deleted", func(task *models.Task) {
			task.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := taskWithDue(1, due)
			tt.mutate(task)
			if _, want := policy.Request(task, now); want {
				t.Errorf("%s task should not want a reminder", tt.name)
			}
		})
	}

	if _, want := policy.Request(nil, now); want {
		t.Error("nil task should not want a reminder")
	}
}

func TestPolicy_PastDue(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) // fire time already past

	skip := Policy{Lead: 30 * time.Minute, PastDue: SkipPastDue}
	if _, want := skip.Request(taskWithDue(1, due), now); want {
		t.Error("SkipPastDue should drop reminders whose fire time has passed")
	}

	fire := Policy{Lead: 30 * time.Minute, PastDue: FirePastDueNow}
	req, want := fire.Request(taskWithDue(1, due), now)
	if !want {
		t.Fatal("FirePastDueNow should keep past-due reminders")
	}
	if !req.FireAt.Equal(now) {
		t.Errorf("FireAt = %v, want clamped to now %v", req.FireAt, now)
	}
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()
	if policy.Lead != 30*time.Minute {
		t.Errorf("Lead = %v, want 30m", policy.Lead)
	}
	if policy.PastDue != SkipPastDue {
		t.Errorf("PastDue = %v, want SkipPastDue", policy.PastDue)
	}
}

func TestHandleID_RoundTrip(t *testing.T) {
	id := HandleID(42)
	if id != "task-42" {
		t.Errorf("HandleID(42) = %q, want %q", id, "task-42")
	}

	got, ok := TaskIDFromHandle(id)
	if !ok || got != 42 {
		t.Errorf("TaskIDFromHandle(%q) = %d, %v; want 42, true", id, got, ok)
	}

	for _, bad := range []string{"", "task-", "task-x", "other-3", "42"} {
		if _, ok := TaskIDFromHandle(bad); ok {
			t.Errorf("TaskIDFromHandle(%q) should not parse", bad)
		}
	}
}
