package dto

// OptionCreateDTO is used within QuestionCreateDTO for admin quiz creation.
type OptionCreateDTO struct {
	Text       string `json:"text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

// QuestionCreateDTO is used within QuizCreateDTO. Multiple-choice questions
// must carry exactly one correct option; the service rejects anything else.
type QuestionCreateDTO struct {
	Text       string            `json:"text" binding:"required"`
	Type       string            `json:"type" binding:"required,oneof=multiple_choice short_answer"`
	Points     int               `json:"points" binding:"required,gt=0"`
	OrderIndex int               `json:"order_index"`
	Options    []OptionCreateDTO `json:"options" binding:"omitempty,dive"`
}

// QuizCreateDTO is for admins to create a new quiz with all its questions.
// Quizzes start in DRAFT and become attemptable only once published.
type QuizCreateDTO struct {
	CourseID          uint                `json:"course_id" binding:"required"`
	ModuleID          *uint               `json:"module_id"`
	Title             string              `json:"title" binding:"required"`
	Description       string              `json:"description"`
	PassingPercentage float64             `json:"passing_percentage" binding:"required,gte=0,lte=100"`
	DurationMinutes   *int                `json:"duration_minutes" binding:"omitempty,gt=0"`
	MaxAttempts       int                 `json:"max_attempts" binding:"required,gte=1"`
	AllowRetake       *bool               `json:"allow_retake"`
	Questions         []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

type CourseCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Author      string `json:"author"`
}
