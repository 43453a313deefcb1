package service

import (
	"errors"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EligibilityService gates whether a student may start or retake a quiz
// attempt.
type EligibilityService interface {
	// CanAttempt returns nil when the student may attempt the quiz, and a
	// typed apperr otherwise. The quiz is returned with its questions so
	// callers avoid a second catalog read.
	CanAttempt(studentID, quizID uint) (*model.Quiz, error)
	// CanRetake reports whether a further graded attempt would be permitted,
	// given the quiz's retake rules and the student's graded history.
	CanRetake(studentID uint, quiz *model.Quiz) bool
}

type eligibilityService struct {
	quizRepo       repository.QuizRepository
	enrollmentRepo repository.EnrollmentRepository
	attemptRepo    repository.AttemptRepository
}

func NewEligibilityService(
	quizRepo repository.QuizRepository,
	enrollmentRepo repository.EnrollmentRepository,
	attemptRepo repository.AttemptRepository,
) EligibilityService {
	return &eligibilityService{
		quizRepo:       quizRepo,
		enrollmentRepo: enrollmentRepo,
		attemptRepo:    attemptRepo,
	}
}

// CanAttempt evaluates the gating rules in order: quiz published, enrollment
// held, not already passed, retake allowed, attempt budget left. Enrollment is
// an authorization check and surfaces as 403, never as 404.
func (s *eligibilityService) CanAttempt(studentID, quizID uint) (*model.Quiz, error) {
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

	passed, err := s.attemptRepo.HasPassed(studentID, quizID, quiz.PassingPercentage)
	if err != nil {
		return nil, apperr.Internal("failed to check passed attempts", err)
	}
	if passed {
		return nil, apperr.InvalidState(apperr.CodeAlreadyPassed, "quiz already passed")
	}

	gradedCount, err := s.attemptRepo.CountGraded(studentID, quizID)
	if err != nil {
		return nil, apperr.Internal("failed to count graded attempts", err)
	}
	if !quiz.AllowRetake && gradedCount >= 1 {
		return nil, apperr.InvalidState(apperr.CodeRetakeNotAllowed, "retakes are not allowed for this quiz")
	}
	if gradedCount >= int64(quiz.MaxAttempts) {
		return nil, apperr.InvalidState(apperr.CodeMaxAttemptsReached, "max attempts reached")
	}

	return quiz, nil
}

func (s *eligibilityService) CanRetake(studentID uint, quiz *model.Quiz) bool {
	passed, err := s.attemptRepo.HasPassed(studentID, quiz.ID, quiz.PassingPercentage)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Uint("studentID", studentID).Msg("CanRetake: failed to check passed attempts")
		return false
	}
	if passed {
		return false
	}
	gradedCount, err := s.attemptRepo.CountGraded(studentID, quiz.ID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Uint("studentID", studentID).Msg("CanRetake: failed to count graded attempts")
		return false
	}
	if !quiz.AllowRetake && gradedCount >= 1 {
		return false
	}
	return gradedCount < int64(quiz.MaxAttempts)
}
