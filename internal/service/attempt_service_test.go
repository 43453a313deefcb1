package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCreatesAttempt(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, nil)

	handle, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.NotZero(t, handle.AttemptID)
	assert.Equal(t, quiz.ID, handle.QuizID)
	assert.Equal(t, "Checkpoint Quiz", handle.QuizTitle)
	assert.Equal(t, 2, handle.TotalQuestions)
	assert.Equal(t, 1, handle.AttemptsUsed)
	assert.Equal(t, 3, handle.MaxAttempts)
	assert.True(t, handle.StartedAt.Equal(f.clock.Now()))
	assert.Nil(t, handle.ExpiresAt, "untimed quiz has no deadline")

	attempt, err := f.attemptRepo.FindByID(handle.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptInProgress, attempt.Status)
	assert.Equal(t, course.ID, attempt.CourseID)
}

// Calling start again while an attempt is open must hand back the same
// attempt, not open a second one.
func TestStartResumesOpenAttempt(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, nil)

	first, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)

	second, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, 1, second.AttemptsUsed)

	count, err := f.attemptRepo.CountAll(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestStartTimedQuizSetsDeadline(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	duration := 30
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.DurationMinutes = &duration })

	handle, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, handle.ExpiresAt)
	assert.True(t, handle.ExpiresAt.Equal(f.clock.Now().Add(30*time.Minute)))
}

// Once the window elapses, start retires the stale attempt and opens a fresh
// one in the same call.
func TestStartExpiresStaleAttempt(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	duration := 30
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.DurationMinutes = &duration })

	first, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)

	second, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, 2, second.AttemptsUsed)

	stale, err := f.attemptRepo.FindByID(first.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptExpired, stale.Status)
}

// One second before the deadline the attempt is still live and resumable.
func TestStartResumesJustInsideWindow(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	duration := 30
	quiz := f.seedQuiz(t, course.ID, func(q *model.Quiz) { q.DurationMinutes = &duration })

	first, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)

	f.clock.Advance(30*time.Minute - time.Second)

	second, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AttemptID, second.AttemptID)
}

func TestStartNotEnrolledIsForbidden(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	quiz := f.seedQuiz(t, course.ID, nil)

	_, err := f.attempts.StartOrResumeAttempt(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotEnrolled, apperr.CodeOf(err))
	assert.Equal(t, http.StatusForbidden, apperr.HTTPStatus(err))
}

// A second IN_PROGRESS row for the same (student, quiz) must be impossible;
// the partial unique index turns the race loser into a conflict.
func TestConcurrentStartLosesToUniqueIndex(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	f.enroll(t, student.ID, course.ID)
	quiz := f.seedQuiz(t, course.ID, nil)

	first := &model.QuizAttempt{
		QuizID: quiz.ID, StudentID: student.ID, CourseID: course.ID,
		StartedAt: f.clock.Now(), Status: model.AttemptInProgress,
	}
	require.NoError(t, f.attemptRepo.Create(first))

	second := &model.QuizAttempt{
		QuizID: quiz.ID, StudentID: student.ID, CourseID: course.ID,
		StartedAt: f.clock.Now(), Status: model.AttemptInProgress,
	}
	err := f.attemptRepo.Create(second)
	require.Error(t, err)

	// A graded row for the same pair is fine; the index only guards the open
	// state.
	graded := &model.QuizAttempt{
		QuizID: quiz.ID, StudentID: student.ID, CourseID: course.ID,
		StartedAt: f.clock.Now(), Status: model.AttemptGraded,
	}
	require.NoError(t, f.attemptRepo.Create(graded))
}
