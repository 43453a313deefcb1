package service

import (
	"net/http"
	"testing"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAttemptUnknownQuiz(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")

	_, err := f.eligibility.CanAttempt(student.ID, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.CodeQuizUnavailable, apperr.CodeOf(err))
}

func TestCanAttemptDraftQuiz(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.Status = model.QuizDraft })

	_, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeQuizUnavailable, apperr.CodeOf(err))
}

func TestCanAttemptRequiresEnrollment(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	quiz := f.seedQuiz(t, course.ID, nil)

	_, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotAuthorized, apperr.KindOf(err))
	assert.Equal(t, apperr.CodeNotEnrolled, apperr.CodeOf(err))
	assert.Equal(t, http.StatusForbidden, apperr.HTTPStatus(err))
}

func TestCanAttemptAlreadyPassed(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, nil)
	f.seedGradedAttempt(t, student.ID, quiz, 80)

	_, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeAlreadyPassed, apperr.CodeOf(err))
}

func TestCanAttemptRetakeNotAllowed(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.AllowRetake = false })
	f.seedGradedAttempt(t, student.ID, quiz, 40)

	_, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRetakeNotAllowed, apperr.CodeOf(err))
}

func TestCanAttemptMaxAttemptsReached(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.MaxAttempts = 2 })
	f.seedGradedAttempt(t, student.ID, quiz, 40)
	f.seedGradedAttempt(t, student.ID, quiz, 50)

	_, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeMaxAttemptsReached, apperr.CodeOf(err))
}

// Expired attempts never count against the attempt budget; only graded ones
// consume it.
func TestCanAttemptIgnoresExpiredAttempts(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.MaxAttempts = 1 })

	for i := 0; i < 2; i++ {
		expired := &model.QuizAttempt{
			QuizID:    quiz.ID,
			StudentID: student.ID,
			CourseID:  course.ID,
			StartedAt: f.clock.Now(),
			Status:    model.AttemptExpired,
		}
		require.NoError(t, f.db.Create(expired).Error)
	}

	got, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)
	assert.Len(t, got.Questions, 2)
}

func TestCanAttemptOtherStudentsHistoryIrrelevant(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	other := f.seedStudent(t, "b@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	f.enroll(t, other.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.MaxAttempts = 1 })
	f.seedGradedAttempt(t, other.ID, quiz, 90)

	_, err := f.eligibility.CanAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
}

func TestCanRetake(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.MaxAttempts = 2 })

	assert.True(t, f.eligibility.CanRetake(student.ID, quiz))

	f.seedGradedAttempt(t, student.ID, quiz, 40)
	assert.True(t, f.eligibility.CanRetake(student.ID, quiz))

	f.seedGradedAttempt(t, student.ID, quiz, 50)
	assert.False(t, f.eligibility.CanRetake(student.ID, quiz), "budget exhausted")
}

func TestCanRetakeFalseAfterPass(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, nil)
	f.seedGradedAttempt(t, student.ID, quiz, 75)

	assert.False(t, f.eligibility.CanRetake(student.ID, quiz))
}
