package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizDraft     = "DRAFT"
	QuizPublished = "PUBLISHED"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionShortAnswer    = "short_answer"
)

type Quiz struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	CourseID          uint           `json:"course_id" gorm:"not null;index"`
	ModuleID          *uint          `json:"module_id,omitempty" gorm:"index"`
	Title             string         `json:"title" gorm:"not null"`
	Description       string         `json:"description,omitempty" gorm:"type:text"`
	PassingPercentage float64        `json:"passing_percentage" gorm:"not null;default:70"` // 0-100
	DurationMinutes   *int           `json:"duration_minutes,omitempty"`                    // nil means untimed
	MaxAttempts       int            `json:"max_attempts" gorm:"not null;default:1"`
	AllowRetake       bool           `json:"allow_retake" gorm:"not null;default:true"`
	Status            string         `json:"status" gorm:"not null;default:'DRAFT'"` // "DRAFT", "PUBLISHED"
	Questions         []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuizID     uint           `json:"quiz_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"type:text;not null"`
	Type       string         `json:"type" gorm:"not null;default:'multiple_choice'"` // only multiple_choice is graded
	Points     int            `json:"points" gorm:"not null;default:1"`
	OrderIndex int            `json:"order_index" gorm:"not null;default:0"`
	Options    []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Option is one selectable answer for a question. At most one option per
// question carries IsCorrect; quiz creation rejects anything else.
type Option struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool           `json:"-" gorm:"not null;default:false"`
	OrderIndex int            `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CorrectOption returns the option flagged correct, or nil when the key is
// missing (a question without a key can never be answered correctly).
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// MaxScore sums the points of every question in the quiz, answered or not.
func (z *Quiz) MaxScore() int {
	total := 0
	for _, q := range z.Questions {
		total += q.Points
	}
	return total
}
