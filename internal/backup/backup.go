// Package backup exports and imports the task graph as JSON. Import
// validates against an embedded schema before touching the store.
package backup

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

//go:embed backup.schema.json
var schemaJSON string

// SchemaVersion is the current backup format version.
const SchemaVersion = 1

// Backup is the export file layout. Entities reference each other by
// name, not by row id, so a backup restores cleanly into any database.
type Backup struct {
	SchemaVersion int       `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`

	Areas    []AreaRecord    `json:"areas,omitempty"`
	Projects []ProjectRecord `json:"projects,omitempty"`
	Tasks    []TaskRecord    `json:"tasks"`
}

// AreaRecord is one exported area.
type AreaRecord struct {
	Name string `json:"name"`
}

// ProjectRecord is one exported project.
type ProjectRecord struct {
	Name string `json:"name"`
	Area string `json:"area,omitempty"`
}

// TaskRecord is one exported task.
type TaskRecord struct {
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Priority   int        `json:"priority,omitempty"`
	SortOrder  int        `json:"sort_order,omitempty"`
	Due        *time.Time `json:"due,omitempty"`
	StartAt    *time.Time `json:"start_at,omitempty"`
	DoneAt     *time.Time `json:"done_at,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	Remind     bool       `json:"remind"`
	Note       string     `json:"note,omitempty"`
	Project    string     `json:"project,omitempty"`
	Area       string     `json:"area,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

// Dump exports every non-deleted entity from the store.
func Dump(s *store.Store) (*Backup, error) {
	areas, err := s.ListAreas()
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	projects, err := s.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	tasks, err := s.ListTasks(store.TaskQueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	areaNames := make(map[uint]string, len(areas))
	b := &Backup{
		SchemaVersion: SchemaVersion,
		ExportedAt:    time.Now().UTC(),
		// Tasks must marshal as [] rather than null to satisfy the schema.
		Tasks: []TaskRecord{},
	}

	for _, area := range areas {
		areaNames[area.ID] = area.Name
		b.Areas = append(b.Areas, AreaRecord{Name: area.Name})
	}

	projectNames := make(map[uint]string, len(projects))
	for _, project := range projects {
		projectNames[project.ID] = project.Name
		rec := ProjectRecord{Name: project.Name}
		if project.AreaID != nil {
			rec.Area = areaNames[*project.AreaID]
		}
		b.Projects = append(b.Projects, rec)
	}

	for _, task := range tasks {
		rec := TaskRecord{
			Title:      task.Title,
			Status:     task.Status,
			Priority:   task.Priority,
			SortOrder:  task.SortOrder,
			Due:        task.Due,
			StartAt:    task.StartAt,
			DoneAt:     task.DoneAt,
			ArchivedAt: task.ArchivedAt,
			Remind:     task.Remind,
			Note:       task.Note,
		}
		if task.ProjectID != nil {
			rec.Project = projectNames[*task.ProjectID]
		}
		if task.AreaID != nil {
			rec.Area = areaNames[*task.AreaID]
		}
		for _, tag := range task.Tags {
			rec.Tags = append(rec.Tags, tag.Name)
		}
		b.Tasks = append(b.Tasks, rec)
	}

	return b, nil
}

// Validate checks raw backup JSON against the embedded schema.
func Validate(data []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("backup.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("failed to load backup schema: %w", err)
	}
	schema, err := compiler.Compile("backup.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile backup schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid backup JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("backup does not match schema: %w", err)
	}
	return nil
}

// Parse validates and decodes a backup file.
func Parse(data []byte) (*Backup, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("invalid backup JSON: %w", err)
	}
	if b.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported backup schema version %d", b.SchemaVersion)
	}
	return &b, nil
}

// Restore inserts the backup's entities into the store and returns the
// created tasks. The caller is expected to run a full reminder resync
// afterwards.
func Restore(s *store.Store, b *Backup) ([]models.Task, error) {
	for _, area := range b.Areas {
		if _, err := s.CreateArea(area.Name); err != nil {
			return nil, fmt.Errorf("failed to restore area %q: %w", area.Name, err)
		}
	}
	for _, project := range b.Projects {
		if _, err := s.CreateProject(project.Name, project.Area); err != nil {
			return nil, fmt.Errorf("failed to restore project %q: %w", project.Name, err)
		}
	}

	var created []models.Task
	for _, rec := range b.Tasks {
		task, err := s.ImportTask(store.ImportTaskRequest{
			Title:      rec.Title,
			Status:     rec.Status,
			Priority:   rec.Priority,
			SortOrder:  rec.SortOrder,
			Due:        rec.Due,
			StartAt:    rec.StartAt,
			DoneAt:     rec.DoneAt,
			ArchivedAt: rec.ArchivedAt,
			Remind:     rec.Remind,
			Note:       rec.Note,
			Project:    rec.Project,
			Area:       rec.Area,
			Tags:       rec.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to restore task %q: %w", rec.Title, err)
		}
		created = append(created, *task)
	}

	return created, nil
}
