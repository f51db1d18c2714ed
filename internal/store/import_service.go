package store

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mkravets/tickle/internal/models"
)

// ImportTaskRequest is a fully specified task row, as found in a
// backup file. Unlike CreateTaskRequest it carries status and
// lifecycle timestamps verbatim.
type ImportTaskRequest struct {
	Title      string
	Status     string
	Priority   int
	SortOrder  int
	Due        *time.Time
	StartAt    *time.Time
	DoneAt     *time.Time
	ArchivedAt *time.Time
	Remind     bool
	Note       string
	Project    string // name, created on demand
	Area       string // name, created on demand
	Tags       []string
}

// ImportTask inserts an imported task, resolving project, area and tag
// names. Publishes created like any other insert so reminder state
// converges.
func (s *Store) ImportTask(req ImportTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}
	switch req.Status {
	case models.StatusTodo, models.StatusDone, models.StatusArchived:
	default:
		return nil, fmt.Errorf("invalid task status %q", req.Status)
	}

	task := models.Task{
		Title:      strings.TrimSpace(req.Title),
		Status:     req.Status,
		Priority:   req.Priority,
		SortOrder:  req.SortOrder,
		Due:        req.Due,
		StartAt:    req.StartAt,
		DoneAt:     req.DoneAt,
		ArchivedAt: req.ArchivedAt,
		Remind:     req.Remind,
		Note:       req.Note,
	}

	if req.Project != "" {
		project, err := s.findOrCreateProject(req.Project)
		if err != nil {
			return nil, err
		}
		task.ProjectID = &project.ID
	}
	if req.Area != "" {
		area, err := s.findOrCreateArea(req.Area)
		if err != nil {
			return nil, err
		}
		task.AreaID = &area.ID
	}
	if len(req.Tags) > 0 {
		tags, err := s.findOrCreateTags(req.Tags)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeCreated})
	return &task, nil
}

// Reset hard-deletes everything: tasks, projects, areas, tags and the
// join table. No change events are published; the caller cancels all
// reminders itself before resetting.
func (s *Store) Reset() error {
	session := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()

	for _, model := range []interface{}{
		&models.TaskTag{},
		&models.Task{},
		&models.Project{},
		&models.Area{},
		&models.Tag{},
	} {
		if err := session.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to reset store: %w", err)
		}
	}
	return nil
}
