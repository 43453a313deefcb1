package dto

// AnswerSubmitDTO is one answer within a quiz submission. SelectedOptionID is
// used for multiple-choice questions; AnswerText is the free-text fallback.
type AnswerSubmitDTO struct {
	QuestionID       uint    `json:"question_id" binding:"required"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	AnswerText       *string `json:"answer_text"`
}

// QuizSubmitDTO is the request body for submitting an attempt.
type QuizSubmitDTO struct {
	Answers []AnswerSubmitDTO `json:"answers" binding:"required,dive"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
