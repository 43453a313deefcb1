package service

import (
	"errors"
	"math"
	"sort"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GradingService scores a submitted attempt against the quiz's answer key and
// drives the completion cascade on a pass.
type GradingService interface {
	Grade(studentID, quizID uint, req dto.QuizSubmitDTO) (*dto.GradedResultDTO, error)
}

type gradingService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	eligibility EligibilityService
	completion  CompletionService
	clock       Clock
	db          *gorm.DB
}

func NewGradingService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	eligibility EligibilityService,
	completion CompletionService,
	clock Clock,
	db *gorm.DB,
) GradingService {
	return &gradingService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		eligibility: eligibility,
		completion:  completion,
		clock:       clock,
		db:          db,
	}
}

// gradedAnswer pairs a persisted answer row with its question for the
// response breakdown.
type gradedAnswer struct {
	answer   model.StudentAnswer
	question model.Question
}

// Grade validates the attempt, scores the answers, commits the grade, then
// runs the completion cascade. Scoring compares the unrounded percentage
// against the passing threshold; rounding happens only in the response DTO so
// a borderline score can never flip outcome between storage and display.
func (s *gradingService) Grade(studentID, quizID uint, req dto.QuizSubmitDTO) (*dto.GradedResultDTO, error) {
	attempt, err := s.findOwnedInProgress(studentID, quizID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeQuizUnavailable, "quiz no longer available")
		}
		return nil, apperr.Internal("failed to load quiz", err)
	}
	if quiz.Status != model.QuizPublished {
		return nil, apperr.InvalidState(apperr.CodeQuizUnavailable, "quiz no longer available")
	}

	now := s.clock.Now()
	if expired, err := s.expireIfStale(attempt, quiz); err != nil {
		return nil, err
	} else if expired {
		return nil, apperr.InvalidState(apperr.CodeAttemptExpired, "attempt time window has elapsed")
	}

	questionMap := make(map[uint]model.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionMap[q.ID] = q
	}

	totalScore := 0
	maxScore := quiz.MaxScore()
	graded := make([]gradedAnswer, 0, len(req.Answers))
	seen := make(map[uint]bool, len(req.Answers))
	for _, submitted := range req.Answers {
		question, exists := questionMap[submitted.QuestionID]
		if !exists {
			// Tolerate partial or over-broad payloads: answers for questions
			// outside this quiz are dropped, not rejected.
			log.Warn().Uint("questionID", submitted.QuestionID).Uint("quizID", quiz.ID).
				Msg("Grade: answer references question outside quiz, skipping")
			continue
		}
		if seen[submitted.QuestionID] {
			continue
		}
		seen[submitted.QuestionID] = true

		answer := model.StudentAnswer{
			AttemptID:        attempt.ID,
			QuestionID:       question.ID,
			SelectedOptionID: submitted.SelectedOptionID,
		}
		if submitted.AnswerText != nil {
			answer.AnswerText = *submitted.AnswerText
		}
		if correct := question.CorrectOption(); correct != nil &&
			submitted.SelectedOptionID != nil && *submitted.SelectedOptionID == correct.ID {
			answer.IsCorrect = true
			answer.PointsEarned = question.Points
			totalScore += question.Points
		}
		graded = append(graded, gradedAnswer{answer: answer, question: question})
	}

	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(totalScore) / float64(maxScore) * 100
	}

	// Commit the grade: the conditional status flip and the answer rows land
	// together or not at all. Losing the flip means a concurrent submit won.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		flipped, err := s.attemptRepo.MarkGraded(tx, attempt.ID, totalScore, maxScore, percentage, now)
		if err != nil {
			return err
		}
		if !flipped {
			return apperr.InvalidState(apperr.CodeAttemptNotInProgress, "attempt not in progress")
		}
		answers := make([]model.StudentAnswer, len(graded))
		for i := range graded {
			answers[i] = graded[i].answer
		}
		return s.answerRepo.CreateBatch(tx, answers)
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to persist graded attempt", err)
	}

	isPassed := percentage >= quiz.PassingPercentage

	certificateIssued := false
	if isPassed {
		// Grading is already committed; a cascade failure is logged and left
		// to the sweeper, never surfaced as a grading failure.
		outcome := s.completion.OnQuizPassed(studentID, quiz.CourseID)
		certificateIssued = outcome.CertificateIssued
	}

	attemptsUsed, err := s.attemptRepo.CountAll(studentID, quiz.ID)
	if err != nil {
		return nil, apperr.Internal("failed to count attempts", err)
	}

	result := &dto.GradedResultDTO{
		AttemptID:         attempt.ID,
		QuizID:            quiz.ID,
		QuizTitle:         quiz.Title,
		AttemptedAt:       attempt.StartedAt,
		SubmittedAt:       now,
		TotalScore:        totalScore,
		MaxScore:          maxScore,
		PercentageScore:   round2(percentage),
		IsPassed:          isPassed,
		AttemptsUsed:      int(attemptsUsed),
		MaxAttempts:       quiz.MaxAttempts,
		CanRetake:         s.eligibility.CanRetake(studentID, quiz),
		CertificateIssued: certificateIssued,
		QuestionResults:   buildQuestionResults(graded),
	}
	return result, nil
}

// findOwnedInProgress resolves the student's IN_PROGRESS attempt for the
// quiz. A foreign or missing attempt is reported as not found rather than
// leaking another student's attempt state.
func (s *gradingService) findOwnedInProgress(studentID, quizID uint) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.FindInProgress(studentID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidState(apperr.CodeAttemptNotInProgress, "attempt not in progress")
		}
		return nil, apperr.Internal("failed to load attempt", err)
	}
	return attempt, nil
}

// expireIfStale applies the lazy expiry rule at submission time: a timed
// attempt whose window already elapsed is retired instead of graded.
func (s *gradingService) expireIfStale(attempt *model.QuizAttempt, quiz *model.Quiz) (bool, error) {
	if quiz.DurationMinutes == nil {
		return false, nil
	}
	deadline := attempt.StartedAt.Add(minutes(*quiz.DurationMinutes))
	if s.clock.Now().Before(deadline) {
		return false, nil
	}
	if _, err := s.attemptRepo.MarkExpired(attempt.ID); err != nil {
		return false, apperr.Internal("failed to expire stale attempt", err)
	}
	log.Info().Uint("attemptID", attempt.ID).Msg("Grade: attempt expired before submission")
	return true, nil
}

func buildQuestionResults(graded []gradedAnswer) []dto.QuestionResultDTO {
	results := make([]dto.QuestionResultDTO, 0, len(graded))
	for _, g := range graded {
		r := dto.QuestionResultDTO{
			QuestionID:   g.question.ID,
			QuestionText: g.question.Text,
			IsCorrect:    g.answer.IsCorrect,
			PointsEarned: g.answer.PointsEarned,
			PointsTotal:  g.question.Points,
		}
		if correct := g.question.CorrectOption(); correct != nil {
			r.CorrectAnswer = correct.Text
		}
		if g.answer.SelectedOptionID != nil {
			for _, opt := range g.question.Options {
				if opt.ID == *g.answer.SelectedOptionID {
					r.SelectedAnswer = opt.Text
					break
				}
			}
		} else {
			r.SelectedAnswer = g.answer.AnswerText
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].QuestionID < results[j].QuestionID
	})
	return results
}

// round2 rounds to two decimals for display only; never used for pass/fail.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
