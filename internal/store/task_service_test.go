package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkravets/tickle/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tickle.db"), Options{StreamBuffer: 16})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// readChange pulls the next change off a subscription or fails the test.
func readChange(t *testing.T, sub *Subscription) Change {
	t.Helper()
	select {
	case c, ok := <-sub.Changes():
		if !ok {
			t.Fatal("change stream closed unexpectedly")
		}
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
		return Change{}
	}
}

func TestCreateTask(t *testing.T) {
	s := newTestStore(t)
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	task, err := s.CreateTask(CreateTaskRequest{
		Title:    "  Pay rent  ",
		Project:  "home",
		Area:     "life",
		Tags:     []string{"bills", "monthly"},
		Priority: "high",
		Note:     "transfer before noon",
		Due:      &due,
	})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	if task.ID == 0 {
		t.Error("task should get an ID")
	}
	if task.Title != "Pay rent" {
		t.Errorf("Title = %q, want trimmed %q", task.Title, "Pay rent")
	}
	if task.Status != models.StatusTodo {
		t.Errorf("Status = %q, want todo", task.Status)
	}
	if task.Priority != 3 {
		t.Errorf("Priority = %d, want 3 for high", task.Priority)
	}
	if !task.Remind {
		t.Error("Remind should default to on")
	}
	if task.ProjectID == nil || task.AreaID == nil {
		t.Error("project and area should be created on demand")
	}
	if len(task.Tags) != 2 {
		t.Errorf("Tags = %d, want 2", len(task.Tags))
	}
	if task.SortOrder != 1 {
		t.Errorf("SortOrder = %d, want 1 for the first task", task.SortOrder)
	}

	second, err := s.CreateTask(CreateTaskRequest{Title: "Another"})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	if second.SortOrder != 2 {
		t.Errorf("SortOrder = %d, want 2 for the second task", second.SortOrder)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateTask(CreateTaskRequest{Title: "   "}); err == nil {
		t.Error("empty title should be rejected")
	}

	task, err := s.CreateTask(CreateTaskRequest{Title: "No bell", NoRemind: true})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	if task.Remind {
		t.Error("NoRemind should switch Remind off")
	}
}

func TestUpdateTask_PartialUpdate(t *testing.T) {
	s := newTestStore(t)
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	task, err := s.CreateTask(CreateTaskRequest{
		Title:    "Original",
		Project:  "home",
		Priority: "low",
		Due:      &due,
		Tags:     []string{"one"},
	})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	newTitle := "Renamed"
	updated, err := s.UpdateTask(UpdateTaskRequest{ID: task.ID, Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}

	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
	// Everything else untouched.
	if updated.Priority != 1 {
		t.Errorf("Priority = %d, want 1 still", updated.Priority)
	}
	if updated.Due == nil || !updated.Due.Equal(due) {
		t.Errorf("Due = %v, want unchanged %v", updated.Due, due)
	}
	if updated.ProjectID == nil {
		t.Error("ProjectID should be unchanged")
	}
	if len(updated.Tags) != 1 {
		t.Errorf("Tags = %d, want unchanged 1", len(updated.Tags))
	}
}

func TestUpdateTask_ClearAndDetach(t *testing.T) {
	s := newTestStore(t)
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	task, err := s.CreateTask(CreateTaskRequest{
		Title:   "Full task",
		Project: "home",
		Area:    "life",
		Due:     &due,
		StartAt: &start,
		Tags:    []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	empty := ""
	off := false
	newTags := []string{"c"}
	updated, err := s.UpdateTask(UpdateTaskRequest{
		ID:         task.ID,
		Project:    &empty,
		Area:       &empty,
		Tags:       &newTags,
		ClearDue:   true,
		ClearStart: true,
		Remind:     &off,
	})
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}

	if updated.Due != nil || updated.StartAt != nil {
		t.Error("ClearDue/ClearStart should remove the dates")
	}
	if updated.ProjectID != nil || updated.AreaID != nil {
		t.Error("empty project/area should detach")
	}
	if updated.Remind {
		t.Error("Remind should be off")
	}
	if len(updated.Tags) != 1 || updated.Tags[0].Name != "c" {
		t.Errorf("Tags = %+v, want replaced with [c]", updated.Tags)
	}
}

func TestGetTaskByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetTaskByID(99); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTaskByID(99) = %v, want ErrTaskNotFound", err)
	}
}

func TestMarkTaskDoneUndone(t *testing.T) {
	s := newTestStore(t)
	task, err := s.CreateTask(CreateTaskRequest{Title: "Finish me"})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	done, err := s.MarkTaskDone(task.ID)
	if err != nil {
		t.Fatalf("MarkTaskDone error: %v", err)
	}
	if done.Status != models.StatusDone || done.DoneAt == nil {
		t.Errorf("done task = %q/%v, want done with DoneAt set", done.Status, done.DoneAt)
	}

	if _, err := s.MarkTaskDone(task.ID); err == nil {
		t.Error("double completion should error")
	}

	undone, err := s.MarkTaskUndone(task.ID)
	if err != nil {
		t.Fatalf("MarkTaskUndone error: %v", err)
	}
	if undone.Status != models.StatusTodo || undone.DoneAt != nil {
		t.Errorf("undone task = %q/%v, want todo with DoneAt cleared", undone.Status, undone.DoneAt)
	}

	if _, err := s.MarkTaskUndone(task.ID); err == nil {
		t.Error("undone on a todo task should error")
	}
}

func TestArchiveUnarchive(t *testing.T) {
	s := newTestStore(t)
	task, err := s.CreateTask(CreateTaskRequest{Title: "Old plan"})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	archived, err := s.ArchiveTask(task.ID)
	if err != nil {
		t.Fatalf("ArchiveTask error: %v", err)
	}
	if archived.Status != models.StatusArchived || archived.ArchivedAt == nil {
		t.Errorf("archived task = %q/%v, want archived with timestamp", archived.Status, archived.ArchivedAt)
	}
	if _, err := s.ArchiveTask(task.ID); err == nil {
		t.Error("double archive should error")
	}

	restored, err := s.UnarchiveTask(task.ID)
	if err != nil {
		t.Fatalf("UnarchiveTask error: %v", err)
	}
	if restored.Status != models.StatusTodo || restored.ArchivedAt != nil {
		t.Errorf("unarchived task = %q/%v, want todo", restored.Status, restored.ArchivedAt)
	}
}

func TestDeleteRestoreTask(t *testing.T) {
	s := newTestStore(t)
	task, err := s.CreateTask(CreateTaskRequest{Title: "Mistake"})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask error: %v", err)
	}

	// Soft-deleted: out of default scope, restorable.
	if _, err := s.GetTaskByID(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTaskByID after delete = %v, want ErrTaskNotFound", err)
	}
	tasks, err := s.ListTasks(TaskQueryOptions{})
	if err != nil {
		t.Fatalf("ListTasks error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("ListTasks after delete = %d tasks, want 0", len(tasks))
	}

	restored, err := s.RestoreTask(task.ID)
	if err != nil {
		t.Fatalf("RestoreTask error: %v", err)
	}
	if restored.Status != models.StatusTodo {
		t.Errorf("restored Status = %q, want todo", restored.Status)
	}
	if _, err := s.GetTaskByID(task.ID); err != nil {
		t.Errorf("GetTaskByID after restore = %v, want found", err)
	}

	if _, err := s.RestoreTask(task.ID); err == nil {
		t.Error("restore of a live task should error")
	}
}

func TestActiveTasks_ExcludesInactive(t *testing.T) {
	s := newTestStore(t)

	todo, _ := s.CreateTask(CreateTaskRequest{Title: "todo"})
	done, _ := s.CreateTask(CreateTaskRequest{Title: "done"})
	archived, _ := s.CreateTask(CreateTaskRequest{Title: "archived"})
	deleted, _ := s.CreateTask(CreateTaskRequest{Title: "deleted"})

	if _, err := s.MarkTaskDone(done.ID); err != nil {
		t.Fatalf("MarkTaskDone error: %v", err)
	}
	if _, err := s.ArchiveTask(archived.ID); err != nil {
		t.Fatalf("ArchiveTask error: %v", err)
	}
	if err := s.DeleteTask(deleted.ID); err != nil {
		t.Fatalf("DeleteTask error: %v", err)
	}

	active, err := s.ActiveTasks()
	if err != nil {
		t.Fatalf("ActiveTasks error: %v", err)
	}
	if len(active) != 1 || active[0].ID != todo.ID {
		t.Errorf("ActiveTasks = %+v, want only the todo task", active)
	}
}

func TestListTasks_Filters(t *testing.T) {
	s := newTestStore(t)
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	overdueTask, _ := s.CreateTask(CreateTaskRequest{Title: "overdue", Project: "home", Due: &past})
	futureTask, _ := s.CreateTask(CreateTaskRequest{Title: "future", Area: "work", Due: &future, Tags: []string{"deep"}})
	doneTask, _ := s.CreateTask(CreateTaskRequest{Title: "done", Due: &past})
	if _, err := s.MarkTaskDone(doneTask.ID); err != nil {
		t.Fatalf("MarkTaskDone error: %v", err)
	}

	tests := []struct {
		name string
		opts TaskQueryOptions
		want []uint
	}{
		{"status todo", TaskQueryOptions{Status: models.StatusTodo}, []uint{overdueTask.ID, futureTask.ID}},
		{"status done", TaskQueryOptions{Status: models.StatusDone}, []uint{doneTask.ID}},
		{"project", TaskQueryOptions{Project: "home"}, []uint{overdueTask.ID}},
		{"area", TaskQueryOptions{Area: "work"}, []uint{futureTask.ID}},
		{"tag", TaskQueryOptions{Tag: "deep"}, []uint{futureTask.ID}},
		{"overdue", TaskQueryOptions{Overdue: true}, []uint{overdueTask.ID}},
		{"due before now", TaskQueryOptions{Status: models.StatusTodo, DueBefore: timePtr(time.Now())}, []uint{overdueTask.ID}},
		{"due after now", TaskQueryOptions{DueAfter: timePtr(time.Now())}, []uint{futureTask.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.ListTasks(tt.opts)
			if err != nil {
				t.Fatalf("ListTasks error: %v", err)
			}
			got := make([]uint, 0, len(tasks))
			for _, task := range tasks {
				got = append(got, task.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got ids %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got ids %v, want %v", got, tt.want)
				}
			}
		})
	}

	if _, err := s.ListTasks(TaskQueryOptions{Project: "nope"}); !errors.Is(err, ErrProjectNotFound) {
		t.Error("filtering on an unknown project should report it")
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSearchTasks(t *testing.T) {
	s := newTestStore(t)

	match, _ := s.CreateTask(CreateTaskRequest{Title: "Buy groceries", Note: "milk and eggs"})
	noteMatch, _ := s.CreateTask(CreateTaskRequest{Title: "Call mom", Note: "ask about GROCERY list"})
	if _, err := s.CreateTask(CreateTaskRequest{Title: "Unrelated"}); err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	tasks, err := s.SearchTasks("groceri", TaskQueryOptions{Status: models.StatusTodo})
	if err != nil {
		t.Fatalf("SearchTasks error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != match.ID {
		t.Errorf("title search = %+v, want only %d", tasks, match.ID)
	}

	tasks, err = s.SearchTasks("grocery", TaskQueryOptions{})
	if err != nil {
		t.Fatalf("SearchTasks error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != noteMatch.ID {
		t.Errorf("note search should be case-insensitive, got %+v", tasks)
	}
}

func TestChangeStream_DeliversKindsInOrder(t *testing.T) {
	s := newTestStore(t)
	sub := s.Subscribe()
	defer sub.Unsubscribe()

	task, err := s.CreateTask(CreateTaskRequest{Title: "Watched"})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	title := "Watched more"
	if _, err := s.UpdateTask(UpdateTaskRequest{ID: task.ID, Title: &title}); err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}
	if _, err := s.MarkTaskDone(task.ID); err != nil {
		t.Fatalf("MarkTaskDone error: %v", err)
	}
	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask error: %v", err)
	}

	want := []ChangeKind{ChangeCreated, ChangeUpdated, ChangeCompleted, ChangeDeleted}
	for _, kind := range want {
		change := readChange(t, sub)
		if change.TaskID != task.ID {
			t.Errorf("change.TaskID = %d, want %d", change.TaskID, task.ID)
		}
		if change.Kind != kind {
			t.Errorf("change.Kind = %q, want %q", change.Kind, kind)
		}
	}
}

func TestChangeStream_DropsInsteadOfBlocking(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "tickle.db"), Options{StreamBuffer: 1})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer s.Close()

	sub := s.Subscribe()
	defer sub.Unsubscribe()

	// Nobody reading: only the first change fits, the rest are dropped
	// and no write ever blocks.
	for i := 0; i < 5; i++ {
		if _, err := s.CreateTask(CreateTaskRequest{Title: "burst"}); err != nil {
			t.Fatalf("CreateTask error: %v", err)
		}
	}

	change := readChange(t, sub)
	if change.Kind != ChangeCreated {
		t.Errorf("first change = %q, want created", change.Kind)
	}
}

func TestChangeStream_CloseOnStoreShutdown(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "tickle.db"), Options{})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	sub := s.Subscribe()
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	select {
	case _, ok := <-sub.Changes():
		if ok {
			t.Error("expected the channel to be closed, not carrying data")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after store shutdown")
	}
}

func TestTagsDeduplicated(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateTask(CreateTaskRequest{Title: "one", Tags: []string{"shared"}}); err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	if _, err := s.CreateTask(CreateTaskRequest{Title: "two", Tags: []string{"shared", "extra"}}); err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags error: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %d, want 2 (shared must not duplicate)", len(tags))
	}
}

func TestImportTask(t *testing.T) {
	s := newTestStore(t)
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	doneAt := time.Date(2025, 1, 9, 18, 0, 0, 0, time.UTC)

	task, err := s.ImportTask(ImportTaskRequest{
		Title:   "Imported",
		Status:  models.StatusDone,
		Due:     &due,
		DoneAt:  &doneAt,
		Remind:  true,
		Project: "restored",
		Tags:    []string{"backup"},
	})
	if err != nil {
		t.Fatalf("ImportTask error: %v", err)
	}
	if task.Status != models.StatusDone || task.DoneAt == nil {
		t.Errorf("import should keep lifecycle fields, got %q/%v", task.Status, task.DoneAt)
	}

	if _, err := s.ImportTask(ImportTaskRequest{Title: "Bad", Status: "doing"}); err == nil {
		t.Error("unknown status should be rejected")
	}
}

func TestReset(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateTask(CreateTaskRequest{Title: "gone", Project: "p", Area: "a", Tags: []string{"t"}}); err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset error: %v", err)
	}

	tasks, _ := s.ListTasks(TaskQueryOptions{})
	projects, _ := s.ListProjects()
	areas, _ := s.ListAreas()
	tags, _ := s.ListTags()
	if len(tasks)+len(projects)+len(areas)+len(tags) != 0 {
		t.Errorf("reset left data behind: %d tasks, %d projects, %d areas, %d tags",
			len(tasks), len(projects), len(areas), len(tags))
	}
}
