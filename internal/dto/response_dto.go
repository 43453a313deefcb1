package dto

import "time"

// ErrorResponse carries a human message plus the machine reason code clients
// branch on.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// AttemptHandleDTO is returned by the start endpoint: either a fresh attempt
// or the resumed in-progress one.
type AttemptHandleDTO struct {
	AttemptID       uint       `json:"attempt_id"`
	QuizID          uint       `json:"quiz_id"`
	QuizTitle       string     `json:"quiz_title"`
	StartedAt       time.Time  `json:"started_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	TotalQuestions  int        `json:"total_questions"`
	AttemptsUsed    int        `json:"attempts_used"`
	MaxAttempts     int        `json:"max_attempts"`
	CanRetake       bool       `json:"can_retake"`
}

// QuestionResultDTO is the per-question breakdown inside a graded result,
// ordered by question ID.
type QuestionResultDTO struct {
	QuestionID     uint   `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedAnswer string `json:"selected_answer,omitempty"`
	CorrectAnswer  string `json:"correct_answer,omitempty"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	PointsTotal    int    `json:"points_total"`
}

// GradedResultDTO is the response to a quiz submission. PercentageScore is
// rounded to two decimals here for display only; the pass/fail decision was
// taken on the unrounded value.
type GradedResultDTO struct {
	AttemptID         uint                `json:"attempt_id"`
	QuizID            uint                `json:"quiz_id"`
	QuizTitle         string              `json:"quiz_title"`
	AttemptedAt       time.Time           `json:"attempted_at"`
	SubmittedAt       time.Time           `json:"submitted_at"`
	TotalScore        int                 `json:"total_score"`
	MaxScore          int                 `json:"max_score"`
	PercentageScore   float64             `json:"percentage_score"`
	IsPassed          bool                `json:"is_passed"`
	AttemptsUsed      int                 `json:"attempts_used"`
	MaxAttempts       int                 `json:"max_attempts"`
	CanRetake         bool                `json:"can_retake"`
	CertificateIssued bool                `json:"certificate_issued"`
	QuestionResults   []QuestionResultDTO `json:"question_results"`
}

// QuizOptionDTO deliberately omits the correct-answer flag.
type QuizOptionDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuizQuestionDTO struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Type    string          `json:"type"`
	Points  int             `json:"points"`
	Options []QuizOptionDTO `json:"options"`
}

// QuizDetailDTO is the student-facing view of a published quiz.
type QuizDetailDTO struct {
	ID                uint              `json:"id"`
	CourseID          uint              `json:"course_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	PassingPercentage float64           `json:"passing_percentage"`
	DurationMinutes   *int              `json:"duration_minutes,omitempty"`
	MaxAttempts       int               `json:"max_attempts"`
	AllowRetake       bool              `json:"allow_retake"`
	Questions         []QuizQuestionDTO `json:"questions"`
}

type CourseSummaryDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type EnrollmentDTO struct {
	ID                 uint       `json:"id"`
	CourseID           uint       `json:"course_id"`
	CourseTitle        string     `json:"course_title,omitempty"`
	Status             string     `json:"status"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
}

type CertificateDTO struct {
	ID                uint      `json:"id"`
	CourseID          uint      `json:"course_id"`
	CourseTitle       string    `json:"course_title,omitempty"`
	CertificateNumber string    `json:"certificate_number"`
	VerificationCode  string    `json:"verification_code"`
	IssuedAt          time.Time `json:"issued_at"`
}

type AuthResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
