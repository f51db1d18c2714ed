package models

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses.
const (
	StatusTodo     = "todo"
	StatusDone     = "done"
	StatusArchived = "archived"
)

// Task represents a todo item
type Task struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title      string     `gorm:"not null" json:"title"`
	Status     string     `gorm:"default:todo" json:"status"` // todo, done, archived
	Priority   int        `gorm:"default:0" json:"priority"`  // 0=no priority, 1=low, 2=medium, 3=high
	SortOrder  int        `gorm:"default:0" json:"sort_order"`
	Due        *time.Time `json:"due"`
	StartAt    *time.Time `json:"start_at"`
	DoneAt     *time.Time `json:"done_at"`
	ArchivedAt *time.Time `json:"archived_at"`

	// Remind controls whether a local notification should exist for the
	// task's due date. The fire time itself is never stored; the scheduler
	// derives it from Due and the configured lead.
	Remind bool `json:"remind"`

	Note string `json:"note"`

	// Optional owning references. Project and Area hold no back-pointers;
	// the task's own fields govern everything derived from it.
	ProjectID *uint `json:"project_id"`
	AreaID    *uint `json:"area_id"`

	// Relationships
	Tags []Tag `gorm:"many2many:task_tags;" json:"tags"`
}

// Completed reports whether the task has been marked done.
func (t *Task) Completed() bool {
	return t.Status == StatusDone
}

// Deleted reports whether the task has been soft-deleted.
func (t *Task) Deleted() bool {
	return t.DeletedAt.Valid
}

// Active reports whether the task still wants attention: todo status and
// not soft-deleted. Done and archived tasks are inactive.
func (t *Task) Active() bool {
	return t.Status == StatusTodo && !t.DeletedAt.Valid
}

// Tag represents a task tag
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	// Relationships
	Tasks []Task `gorm:"many2many:task_tags;" json:"-"`
}

// TaskTag is the join table for the many-to-many relationship
type TaskTag struct {
	TaskID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}
