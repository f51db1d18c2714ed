package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkravets/tickle/internal/models"
)

// CreateProject creates a project, optionally inside an area.
func (s *Store) CreateProject(name, areaName string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name cannot be empty")
	}

	project := models.Project{Name: name}
	if areaName != "" {
		area, err := s.findOrCreateArea(areaName)
		if err != nil {
			return nil, err
		}
		project.AreaID = &area.ID
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("name ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectByName finds a project by exact name.
func (s *Store) GetProjectByName(name string) (*models.Project, error) {
	var project models.Project
	err := s.db.Where("name = ?", strings.TrimSpace(name)).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %q: %w", name, ErrProjectNotFound)
		}
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project. Without cascade its tasks are
// detached and stay alive; with cascade they are soft-deleted. Either
// way the effect on reminders flows entirely through the per-task
// changes published here, never from the project row itself.
func (s *Store) DeleteProject(projectID uint, cascade bool) error {
	var project models.Project
	err := s.db.First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project #%d: %w", projectID, ErrProjectNotFound)
		}
		return err
	}

	var tasks []models.Task
	if err := s.db.Where("project_id = ?", project.ID).Find(&tasks).Error; err != nil {
		return err
	}

	if cascade {
		for _, task := range tasks {
			if err := s.db.Delete(&task).Error; err != nil {
				return err
			}
			s.stream.publish(Change{TaskID: task.ID, Kind: ChangeDeleted})
		}
	} else {
		for _, task := range tasks {
			if err := s.db.Model(&task).Update("project_id", nil).Error; err != nil {
				return err
			}
			s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
		}
	}

	if err := s.db.Delete(&project).Error; err != nil {
		return err
	}
	return nil
}

// findOrCreateProject finds a project by name or creates it
func (s *Store) findOrCreateProject(name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name cannot be empty")
	}

	var project models.Project
	err := s.db.Where("name = ?", name).First(&project).Error
	if err == nil {
		return &project, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	project = models.Project{Name: name}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateArea creates an area.
func (s *Store) CreateArea(name string) (*models.Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("area name cannot be empty")
	}

	area := models.Area{Name: name}
	if err := s.db.Create(&area).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

// ListAreas returns all areas ordered by name.
func (s *Store) ListAreas() ([]models.Area, error) {
	var areas []models.Area
	if err := s.db.Order("name ASC").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// GetAreaByName finds an area by exact name.
func (s *Store) GetAreaByName(name string) (*models.Area, error) {
	var area models.Area
	err := s.db.Where("name = ?", strings.TrimSpace(name)).First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("area %q: %w", name, ErrAreaNotFound)
		}
		return nil, err
	}
	return &area, nil
}

// DeleteArea removes an area. Tasks and projects in it are detached
// unless cascade is set, in which case member tasks are soft-deleted
// and member projects dropped.
func (s *Store) DeleteArea(areaID uint, cascade bool) error {
	var area models.Area
	err := s.db.First(&area, areaID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("area #%d: %w", areaID, ErrAreaNotFound)
		}
		return err
	}

	var tasks []models.Task
	if err := s.db.Where("area_id = ?", area.ID).Find(&tasks).Error; err != nil {
		return err
	}

	if cascade {
		for _, task := range tasks {
			if err := s.db.Delete(&task).Error; err != nil {
				return err
			}
			s.stream.publish(Change{TaskID: task.ID, Kind: ChangeDeleted})
		}
	} else {
		for _, task := range tasks {
			if err := s.db.Model(&task).Update("area_id", nil).Error; err != nil {
				return err
			}
			s.stream.publish(Change{TaskID: task.ID, Kind: ChangeUpdated})
		}
	}

	// Projects in the area are detached, never deleted implicitly.
	if err := s.db.Model(&models.Project{}).
		Where("area_id = ?", area.ID).
		Update("area_id", nil).Error; err != nil {
		return err
	}

	if err := s.db.Delete(&area).Error; err != nil {
		return err
	}
	return nil
}

// findOrCreateArea finds an area by name or creates it
func (s *Store) findOrCreateArea(name string) (*models.Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("area name cannot be empty")
	}

	var area models.Area
	err := s.db.Where("name = ?", name).First(&area).Error
	if err == nil {
		return &area, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	area = models.Area{Name: name}
	if err := s.db.Create(&area).Error; err != nil {
		return nil, err
	}
	return &area, nil
}
