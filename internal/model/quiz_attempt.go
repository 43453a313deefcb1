package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptGraded     = "GRADED"
	AttemptExpired    = "EXPIRED"
)

// QuizAttempt is one try at a quiz. IN_PROGRESS moves to GRADED on submission
// or to EXPIRED when its time window lapses; both are terminal, a retake is a
// new row. A partial unique index (see database.Migrate) keeps at most one
// IN_PROGRESS row per (student, quiz).
type QuizAttempt struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	QuizID          uint            `json:"quiz_id" gorm:"not null;index"`
	Quiz            Quiz            `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	StudentID       uint            `json:"student_id" gorm:"not null;index"`
	CourseID        uint            `json:"course_id" gorm:"not null;index"`
	StartedAt       time.Time       `json:"started_at" gorm:"not null"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Status          string          `json:"status" gorm:"not null;default:'IN_PROGRESS'"` // "IN_PROGRESS", "GRADED", "EXPIRED"
	TotalScore      *int            `json:"total_score,omitempty"`
	MaxScore        *int            `json:"max_score,omitempty"`
	PercentageScore *float64        `json:"percentage_score,omitempty"`
	Answers         []StudentAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StudentAnswer records one submitted answer. Rows are written in bulk at
// grading time and never updated afterwards.
type StudentAnswer struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AttemptID        uint           `json:"attempt_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null;index"`
	SelectedOptionID *uint          `json:"selected_option_id,omitempty"`
	AnswerText       string         `json:"answer_text,omitempty" gorm:"type:text"`
	IsCorrect        bool           `json:"is_correct" gorm:"not null;default:false"`
	PointsEarned     int            `json:"points_earned" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
