package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment tracks a student's registration in a course. One row per
// (student, course); the completion cascade flips it to COMPLETED with
// progress 100 in a single update.
type Enrollment struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	StudentID          uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID           uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Status             string         `json:"status" gorm:"not null;default:'ACTIVE'"` // "ACTIVE", "COMPLETED"
	ProgressPercentage float64        `json:"progress_percentage" gorm:"not null;default:0"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
