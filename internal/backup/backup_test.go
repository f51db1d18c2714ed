package backup

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "tickle.db"), store.Options{})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDumpRestore_RoundTrip(t *testing.T) {
	src := newTestStore(t)
	due := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	if _, err := src.CreateProject("reports", "work"); err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if _, err := src.CreateTask(store.CreateTaskRequest{
		Title:    "Quarterly numbers",
		Project:  "reports",
		Area:     "work",
		Tags:     []string{"finance", "q2"},
		Priority: "high",
		Note:     "ask accounting first",
		Due:      &due,
	}); err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	doneTask, err := src.CreateTask(store.CreateTaskRequest{Title: "Old chore"})
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	if _, err := src.MarkTaskDone(doneTask.ID); err != nil {
		t.Fatalf("MarkTaskDone error: %v", err)
	}

	dump, err := Dump(src)
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if dump.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", dump.SchemaVersion, SchemaVersion)
	}
	if len(dump.Tasks) != 2 {
		t.Fatalf("dumped %d tasks, want 2", len(dump.Tasks))
	}
	if len(dump.Areas) != 1 || len(dump.Projects) != 1 {
		t.Fatalf("dumped %d areas / %d projects, want 1/1", len(dump.Areas), len(dump.Projects))
	}
	if dump.Projects[0].Area != "work" {
		t.Errorf("project area = %q, want resolved name", dump.Projects[0].Area)
	}

	// Through the wire format: the file a user would actually import.
	data, err := json.Marshal(dump)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	dst := newTestStore(t)
	created, err := Restore(dst, parsed)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("restored %d tasks, want 2", len(created))
	}

	tasks, err := dst.ListTasks(store.TaskQueryOptions{})
	if err != nil {
		t.Fatalf("ListTasks error: %v", err)
	}
	byTitle := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		byTitle[task.Title] = task
	}

	full, ok := byTitle["Quarterly numbers"]
	if !ok {
		t.Fatal("full task missing after restore")
	}
	if full.Status != models.StatusTodo || full.Priority != 3 {
		t.Errorf("restored task = %q/p%d, want todo/p3", full.Status, full.Priority)
	}
	if full.Due == nil || !full.Due.Equal(due) {
		t.Errorf("restored Due = %v, want %v", full.Due, due)
	}
	if len(full.Tags) != 2 {
		t.Errorf("restored tags = %d, want 2", len(full.Tags))
	}
	if full.ProjectID == nil || full.AreaID == nil {
		t.Error("project and area should be re-linked by name")
	}
	if full.Note != "ask accounting first" {
		t.Errorf("restored Note = %q", full.Note)
	}

	chore, ok := byTitle["Old chore"]
	if !ok {
		t.Fatal("done task missing after restore")
	}
	if chore.Status != models.StatusDone || chore.DoneAt == nil {
		t.Errorf("done task restored as %q/%v, want done with timestamp", chore.Status, chore.DoneAt)
	}
}

func TestDump_EmptyStoreStillValidates(t *testing.T) {
	src := newTestStore(t)

	dump, err := Dump(src)
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	data, err := json.Marshal(dump)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if _, err := Parse(data); err != nil {
		t.Errorf("an empty export must re-import cleanly: %v", err)
	}
}

func TestValidate_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{not json`},
		{"missing required keys", `{}`},
		{"wrong schema version", `{"schema_version": 2, "tasks": []}`},
		{"task without status", `{"schema_version": 1, "tasks": [{"title": "x"}]}`},
		{"unknown status", `{"schema_version": 1, "tasks": [{"title": "x", "status": "doing"}]}`},
		{"empty title", `{"schema_version": 1, "tasks": [{"title": "", "status": "todo"}]}`},
		{"priority out of range", `{"schema_version": 1, "tasks": [{"title": "x", "status": "todo", "priority": 7}]}`},
		{"tasks not an array", `{"schema_version": 1, "tasks": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate([]byte(tt.data)); err == nil {
				t.Errorf("Validate should reject %s", tt.name)
			}
		})
	}
}

func TestParse_AcceptsMinimalBackup(t *testing.T) {
	data := `{"schema_version": 1, "tasks": [{"title": "only one", "status": "todo", "remind": true}]}`

	b, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(b.Tasks) != 1 || b.Tasks[0].Title != "only one" {
		t.Errorf("parsed = %+v", b.Tasks)
	}
	if !b.Tasks[0].Remind {
		t.Error("remind flag should survive parsing")
	}
}

func TestRestore_FailsOnBadStatusRow(t *testing.T) {
	// Parse would normally catch this; Restore still refuses rows the
	// store cannot represent when handed a hand-built backup.
	dst := newTestStore(t)
	b := &Backup{
		SchemaVersion: SchemaVersion,
		Tasks:         []TaskRecord{{Title: "bad", Status: "doing"}},
	}
	_, err := Restore(dst, b)
	if err == nil {
		t.Fatal("Restore should surface the store's status validation")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error %q should name the failing task", err)
	}
}
