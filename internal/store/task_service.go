package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mkravets/tickle/internal/models"
)

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	Title    string
	Project  string // name, created on demand
	Area     string // name, created on demand
	Tags     []string
	Priority string // can be "low/medium/high" or "1/2/3" or empty for no priority
	Note     string
	Due      *time.Time
	StartAt  *time.Time
	NoRemind bool // reminders are on by default for tasks with a due date
}

// UpdateTaskRequest describes a partial task update. Nil pointer fields
// are left unchanged; ClearDue/ClearStart win over Due/StartAt.
type UpdateTaskRequest struct {
	ID         uint
	Title      *string
	Project    *string // name; empty string detaches
	Area       *string // name; empty string detaches
	Tags       *[]string
	Priority   *string
	Note       *string
	Due        *time.Time
	StartAt    *time.Time
	ClearDue   bool
	ClearStart bool
	Remind     *bool
}

// TaskQueryOptions filters ListTasks and SearchTasks.
type TaskQueryOptions struct {
	Status    string // todo, done, archived; empty means everything not deleted
	Project   string // project name
	Area      string // area name
	Tag       string // tag name
	DueBefore *time.Time
	DueAfter  *time.Time
	Overdue   bool // due in the past and still todo
}

// CreateTask creates a new task with tags
func (s *Store) CreateTask(req CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}

	task := models.Task{
		Title:    strings.TrimSpace(req.Title),
		Status:   models.StatusTodo,
		Priority: parsePriority(req.Priority),
		Note:     req.Note,
		Due:      req.Due,
		StartAt:  req.StartAt,
		Remind:   !req.NoRemind,
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

	// New tasks go to the bottom of the list
	var maxOrder int
	s.db.Model(&models.Task{}).Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)
	task.SortOrder = maxOrder + 1

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeCreated})
	return &task, nil
}

// UpdateTask applies a partial update and returns the fresh task.
func (s *Store) UpdateTask(req UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetTaskByID(req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("task title cannot be empty")
		}
		task.Title = title
	}
	if req.Priority != nil {
		task.Priority = parsePriority(*req.Priority)
	}
	if req.Note != nil {
		task.Note = *req.Note
	}
	if req.Remind != nil {
		task.Remind = *req.Remind
	}

	if req.ClearDue {
		task.Due = nil
	} else if req.Due != nil {
		task.Due = req.Due
	}
	if req.ClearStart {
		task.StartAt = nil
	} else if req.StartAt != nil {
		task.StartAt = req.StartAt
	}

	if req.Project != nil {
		if *req.Project == "" {
			task.ProjectID = nil
		} else {
			project, err := s.findOrCreateProject(*req.Project)
			if err != nil {
				return nil, err
			}
			task.ProjectID = &project.ID
		}
	}
	if req.Area != nil {
		if *req.Area == "" {
			task.AreaID = nil
		} else {
			area, err := s.findOrCreateArea(*req.Area)
			if err != nil {
				return nil, err
			}
			task.AreaID = &area.ID
		}
	}

	if err := s.db.Omit("Tags").Save(task).Error; err != nil {
		return nil, err
	}

	if req.Tags != nil {
		tags, err := s.findOrCreateTags(*req.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(task).Association("Tags").Replace(tags); err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
	return task, nil
}

// parsePriority converts priority string to int
func parsePriority(priority string) int {
	priority = strings.ToLower(strings.TrimSpace(priority))
	if priority == "" {
		return 0 // 0 means no priority set
	}
	switch priority {
	case "low", "1":
		return 1
	case "medium", "2":
		return 2
	case "high", "3":
		return 3
	default:
		return 0 // invalid priority defaults to no priority
	}
}

// GetTaskByID fetches one task with its tags preloaded.
func (s *Store) GetTaskByID(taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("Tags").First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task #%d: %w", taskID, ErrTaskNotFound)
		}
		return nil, err
	}
	return &task, nil
}

// ListTasks retrieves tasks matching the options, ordered by sort order.
func (s *Store) ListTasks(opts TaskQueryOptions) ([]models.Task, error) {
	query := s.db.Preload("Tags")

	query, err := s.applyFilters(query, opts)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := query.Order("sort_order ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ActiveTasks returns every non-deleted todo task. This is the input
// set for a full reminder resync.
func (s *Store) ActiveTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Preload("Tags").
		Where("status = ?", models.StatusTodo).
		Order("sort_order ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// SearchTasks matches query against title and note, case-insensitive,
// on top of the usual filters.
func (s *Store) SearchTasks(text string, opts TaskQueryOptions) ([]models.Task, error) {
	query := s.db.Preload("Tags")

	query, err := s.applyFilters(query, opts)
	if err != nil {
		return nil, err
	}

	like := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	query = query.Where("LOWER(title) LIKE ? OR LOWER(note) LIKE ?", like, like)

	var tasks []models.Task
	if err := query.Order("sort_order ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) applyFilters(query *gorm.DB, opts TaskQueryOptions) (*gorm.DB, error) {
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Project != "" {
		project, err := s.GetProjectByName(opts.Project)
		if err != nil {
			return nil, err
		}
		query = query.Where("project_id = ?", project.ID)
	}
	if opts.Area != "" {
		area, err := s.GetAreaByName(opts.Area)
		if err != nil {
			return nil, err
		}
		query = query.Where("area_id = ?", area.ID)
	}
	if opts.Tag != "" {
		query = query.Where(
			"id IN (SELECT task_id FROM task_tags JOIN tags ON tags.id = task_tags.tag_id WHERE tags.name = ?)",
			opts.Tag,
		)
	}
	if opts.DueBefore != nil {
		query = query.Where("due IS NOT NULL AND due <= ?", *opts.DueBefore)
	}
	if opts.DueAfter != nil {
		query = query.Where("due IS NOT NULL AND due >= ?", *opts.DueAfter)
	}
	if opts.Overdue {
		query = query.Where("due IS NOT NULL AND due < ? AND status = ?", time.Now(), models.StatusTodo)
	}
	return query, nil
}

// MarkTaskDone marks a task as completed
func (s *Store) MarkTaskDone(taskID uint) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.StatusDone {
		return nil, fmt.Errorf("task #%d is already completed", taskID)
	}

	now := time.Now()
	task.Status = models.StatusDone
	task.DoneAt = &now

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeCompleted})
	return task, nil
}

// MarkTaskUndone puts a completed task back into todo. The reminder
// state derives from the task again, so any reminder it had before
// completion comes back on the next reconcile.
func (s *Store) MarkTaskUndone(taskID uint) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.StatusDone {
		return nil, fmt.Errorf("task #%d is not completed", taskID)
	}

	task.Status = models.StatusTodo
	task.DoneAt = nil

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
	return task, nil
}

// ArchiveTask moves a task out of the active list without deleting it.
func (s *Store) ArchiveTask(taskID uint) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.StatusArchived {
		return nil, fmt.Errorf("task #%d is already archived", taskID)
	}

	now := time.Now()
	task.Status = models.StatusArchived
	task.ArchivedAt = &now

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
	return task, nil
}

// UnarchiveTask restores an archived task to todo.
func (s *Store) UnarchiveTask(taskID uint) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.StatusArchived {
		return nil, fmt.Errorf("task #%d is not archived", taskID)
	}

	task.Status = models.StatusTodo
	task.ArchivedAt = nil

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
	return task, nil
}

// DeleteTask soft-deletes a task.
func (s *Store) DeleteTask(taskID uint) error {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(task).Error; err != nil {
		return err
	}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeDeleted})
	return nil
}

// RestoreTask brings a soft-deleted task back.
func (s *Store) RestoreTask(taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Unscoped().First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task #%d: %w", taskID, ErrTaskNotFound)
		}
		return nil, err
	}
	if !task.DeletedAt.Valid {
		return nil, fmt.Errorf("task #%d is not deleted", taskID)
	}

	if err := s.db.Unscoped().Model(&task).Update("deleted_at", nil).Error; err != nil {
		return nil, err
	}
	task.DeletedAt = gorm.DeletedAt{}

	s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
	return &task, nil
}

// findOrCreateTags finds existing tags or creates new ones
func (s *Store) findOrCreateTags(tagNames []string) ([]models.Tag, error) {
	var tags []models.Tag

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tag models.Tag
		err := s.db.Where("name = ?", name).First(&tag).Error
		if err != nil {
			// Tag doesn't exist, create it
			tag = models.Tag{Name: name}
			if err := s.db.Create(&tag).Error; err != nil {
				return nil, err
			}
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
