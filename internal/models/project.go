package models

import (
	"time"

	"gorm.io/gorm"
)

// Project groups tasks toward a shared outcome. Deleting a project never
// touches reminders directly; downstream effects flow from the per-task
// changes the deletion produces.
type Project struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	AreaID *uint  `json:"area_id"`
}

// Area is a broad bucket for projects and loose tasks (Work, Home, ...).
type Area struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
