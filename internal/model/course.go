package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	CourseDraft     = "DRAFT"
	CoursePublished = "PUBLISHED"
)

type Course struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Author      string         `json:"author,omitempty"`
	Status      string         `json:"status" gorm:"not null;default:'DRAFT'"` // "DRAFT", "PUBLISHED"
	Modules     []CourseModule `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CourseModule groups quizzes and content within a course.
type CourseModule struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CourseID   uint           `json:"course_id" gorm:"not null;index"`
	Title      string         `json:"title" gorm:"not null"`
	OrderIndex int            `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
