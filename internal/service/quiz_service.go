package service

import (
	"errors"
	"fmt"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuizService covers quiz authoring (admin) and the student-facing quiz view.
type QuizService interface {
	CreateQuiz(req dto.QuizCreateDTO) (*dto.QuizDetailDTO, error)
	PublishQuiz(quizID uint) error
	GetQuizForStudent(studentID, quizID uint) (*dto.QuizDetailDTO, error)
}

type quizService struct {
	quizRepo       repository.QuizRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) QuizService {
	return &quizService{
		quizRepo:       quizRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// CreateQuiz validates the answer key up front: every multiple-choice
// question must carry exactly one correct option. Malformed quizzes are
// rejected at creation rather than graded unpredictably later.
func (s *quizService) CreateQuiz(req dto.QuizCreateDTO) (*dto.QuizDetailDTO, error) {
	if _, err := s.courseRepo.FindByID(req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeCourseNotFound, "course not found")
		}
		return nil, apperr.Internal("failed to load course", err)
	}

	for i, q := range req.Questions {
		if q.Type != model.QuestionMultipleChoice {
			continue
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if len(q.Options) < 2 {
			return nil, apperr.InvalidState(apperr.CodeQuizUnavailable,
				fmt.Sprintf("question %d needs at least two options", i+1))
		}
		if correct != 1 {
			return nil, apperr.InvalidState(apperr.CodeQuizUnavailable,
				fmt.Sprintf("question %d must have exactly one correct option, found %d", i+1, correct))
		}
	}

	allowRetake := true
	if req.AllowRetake != nil {
		allowRetake = *req.AllowRetake
	}

	quiz := &model.Quiz{
		CourseID:          req.CourseID,
		ModuleID:          req.ModuleID,
		Title:             req.Title,
		Description:       req.Description,
		PassingPercentage: req.PassingPercentage,
		DurationMinutes:   req.DurationMinutes,
		MaxAttempts:       req.MaxAttempts,
		AllowRetake:       allowRetake,
		Status:            model.QuizDraft,
	}
	for _, q := range req.Questions {
		question := model.Question{
			Text:       q.Text,
			Type:       q.Type,
			Points:     q.Points,
			OrderIndex: q.OrderIndex,
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, model.Option{
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: opt.OrderIndex,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, apperr.Internal("failed to create quiz", err)
	}
	log.Info().Uint("quizID", quiz.ID).Uint("courseID", quiz.CourseID).Int("questions", len(quiz.Questions)).
		Msg("Quiz created")

	return quizDetail(quiz), nil
}

func (s *quizService) PublishQuiz(quizID uint) error {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(apperr.CodeQuizUnavailable, "quiz not found")
		}
		return apperr.Internal("failed to load quiz", err)
	}
	if len(quiz.Questions) == 0 {
		return apperr.InvalidState(apperr.CodeQuizUnavailable, "cannot publish a quiz without questions")
	}
	if err := s.quizRepo.UpdateStatus(quizID, model.QuizPublished); err != nil {
		return apperr.Internal("failed to publish quiz", err)
	}
	log.Info().Uint("quizID", quizID).Msg("Quiz published")
	return nil
}

// GetQuizForStudent returns the quiz without correct-answer flags. Enrollment
// is required, mirroring the attempt eligibility rules.
func (s *quizService) GetQuizForStudent(studentID, quizID uint) (*dto.QuizDetailDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeQuizUnavailable, "quiz unavailable")
		}
		return nil, apperr.Internal("failed to load quiz", err)
	}
	if quiz.Status != model.QuizPublished {
		return nil, apperr.InvalidState(apperr.CodeQuizUnavailable, "quiz unavailable")
	}
	if _, err := s.enrollmentRepo.FindByStudentAndCourse(studentID, quiz.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotAuthorized(apperr.CodeNotEnrolled, "not enrolled in this course")
		}
		return nil, apperr.Internal("failed to load enrollment", err)
	}
	return quizDetail(quiz), nil
}

func quizDetail(quiz *model.Quiz) *dto.QuizDetailDTO {
	detail := &dto.QuizDetailDTO{
		ID:                quiz.ID,
		CourseID:          quiz.CourseID,
		Title:             quiz.Title,
		Description:       quiz.Description,
		PassingPercentage: quiz.PassingPercentage,
		DurationMinutes:   quiz.DurationMinutes,
		MaxAttempts:       quiz.MaxAttempts,
		AllowRetake:       quiz.AllowRetake,
	}
	for _, q := range quiz.Questions {
		question := dto.QuizQuestionDTO{
			ID:     q.ID,
			Text:   q.Text,
			Type:   q.Type,
			Points: q.Points,
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, dto.QuizOptionDTO{ID: opt.ID, Text: opt.Text})
		}
		detail.Questions = append(detail.Questions, question)
	}
	return detail
}
