package service

import (
	"errors"
	"time"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService manages the attempt lifecycle: create, resume, lazily expire.
type AttemptService interface {
	StartOrResumeAttempt(studentID, quizID uint) (*dto.AttemptHandleDTO, error)
}

type attemptService struct {
	eligibility EligibilityService
	attemptRepo repository.AttemptRepository
	clock       Clock
}

func NewAttemptService(
	eligibility EligibilityService,
	attemptRepo repository.AttemptRepository,
	clock Clock,
) AttemptService {
	return &attemptService{
		eligibility: eligibility,
		attemptRepo: attemptRepo,
		clock:       clock,
	}
}

// StartOrResumeAttempt returns the student's current IN_PROGRESS attempt when
// one exists and is still inside its time window, otherwise creates a fresh
// one. Expiry is lazy: a stale attempt gets marked EXPIRED here, on the next
// touch, and a new attempt is opened in its place.
func (s *attemptService) StartOrResumeAttempt(studentID, quizID uint) (*dto.AttemptHandleDTO, error) {
	quiz, err := s.eligibility.CanAttempt(studentID, quizID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	existing, err := s.attemptRepo.FindInProgress(studentID, quizID)
	switch {
	case err == nil:
		if quiz.DurationMinutes == nil {
			// Untimed attempts never auto-expire; only submission closes them.
			return s.buildHandle(quiz, existing, nil)
		}
		window := time.Duration(*quiz.DurationMinutes) * time.Minute
		expiresAt := existing.StartedAt.Add(window)
		if now.Before(expiresAt) {
			return s.buildHandle(quiz, existing, &expiresAt)
		}
		// Window elapsed: retire the stale attempt and fall through to a new one.
		if _, err := s.attemptRepo.MarkExpired(existing.ID); err != nil {
			return nil, apperr.Internal("failed to expire stale attempt", err)
		}
		log.Info().Uint("attemptID", existing.ID).Uint("quizID", quizID).Uint("studentID", studentID).
			Msg("StartOrResumeAttempt: expired stale attempt")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Internal("failed to look up in-progress attempt", err)
	}

	attempt := &model.QuizAttempt{
		QuizID:    quizID,
		StudentID: studentID,
		CourseID:  quiz.CourseID,
		StartedAt: now,
		Status:    model.AttemptInProgress,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		// The partial unique index caught a concurrent start; the caller
		// should retry and will resume the winner's attempt.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeAttemptInFlight, "an attempt is already being started, retry to resume it")
		}
		return nil, apperr.Internal("failed to create attempt", err)
	}

	var expiresAt *time.Time
	if quiz.DurationMinutes != nil {
		t := attempt.StartedAt.Add(time.Duration(*quiz.DurationMinutes) * time.Minute)
		expiresAt = &t
	}
	return s.buildHandle(quiz, attempt, expiresAt)
}

func (s *attemptService) buildHandle(quiz *model.Quiz, attempt *model.QuizAttempt, expiresAt *time.Time) (*dto.AttemptHandleDTO, error) {
	attemptsUsed, err := s.attemptRepo.CountAll(attempt.StudentID, quiz.ID)
	if err != nil {
		return nil, apperr.Internal("failed to count attempts", err)
	}
	return &dto.AttemptHandleDTO{
		AttemptID:       attempt.ID,
		QuizID:          quiz.ID,
		QuizTitle:       quiz.Title,
		StartedAt:       attempt.StartedAt,
		ExpiresAt:       expiresAt,
		DurationMinutes: quiz.DurationMinutes,
		TotalQuestions:  len(quiz.Questions),
		AttemptsUsed:    int(attemptsUsed),
		MaxAttempts:     quiz.MaxAttempts,
		CanRetake:       s.eligibility.CanRetake(attempt.StudentID, quiz),
	}, nil
}
