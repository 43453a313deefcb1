package service

import (
	"testing"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizPayload(courseID uint) dto.QuizCreateDTO {
	return dto.QuizCreateDTO{
		CourseID:          courseID,
		Title:             "Module Checkpoint",
		PassingPercentage: 70,
		MaxAttempts:       3,
		Questions: []dto.QuestionCreateDTO{
			{
				Text: "Pick one", Type: model.QuestionMultipleChoice, Points: 5,
				Options: []dto.OptionCreateDTO{
					{Text: "Right", IsCorrect: true},
					{Text: "Wrong"},
				},
			},
		},
	}
}

func TestCreateQuizStartsAsDraft(t *testing.T) {
	f := newEngineFixture(t)
	course := f.seedCourse(t, "Go Basics")

	detail, err := f.quizzes.CreateQuiz(quizPayload(course.ID))
	require.NoError(t, err)
	require.Len(t, detail.Questions, 1)
	assert.True(t, detail.AllowRetake, "retake defaults to allowed")

	quiz, err := f.quizRepo.FindByID(detail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuizDraft, quiz.Status)
}

func TestCreateQuizUnknownCourse(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.quizzes.CreateQuiz(quizPayload(999))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCourseNotFound, apperr.CodeOf(err))
}

func TestCreateQuizRejectsBadAnswerKeys(t *testing.T) {
	f := newEngineFixture(t)
	course := f.seedCourse(t, "Go Basics")

	noCorrect := quizPayload(course.ID)
	noCorrect.Questions[0].Options[0].IsCorrect = false
	_, err := f.quizzes.CreateQuiz(noCorrect)
	require.Error(t, err, "no correct option")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	twoCorrect := quizPayload(course.ID)
	twoCorrect.Questions[0].Options[1].IsCorrect = true
	_, err = f.quizzes.CreateQuiz(twoCorrect)
	require.Error(t, err, "two correct options")

	oneOption := quizPayload(course.ID)
	oneOption.Questions[0].Options = oneOption.Questions[0].Options[:1]
	_, err = f.quizzes.CreateQuiz(oneOption)
	require.Error(t, err, "single option")
}

// Short-answer questions carry no answer key, so the key validation does not
// apply to them.
func TestCreateQuizAllowsKeylessShortAnswer(t *testing.T) {
	f := newEngineFixture(t)
	course := f.seedCourse(t, "Go Basics")

	payload := quizPayload(course.ID)
	payload.Questions = append(payload.Questions, dto.QuestionCreateDTO{
		Text: "Explain", Type: model.QuestionShortAnswer, Points: 5,
	})

	detail, err := f.quizzes.CreateQuiz(payload)
	require.NoError(t, err)
	assert.Len(t, detail.Questions, 2)
}

func TestPublishQuizRequiresQuestions(t *testing.T) {
	f := newEngineFixture(t)
	course := f.seedCourse(t, "Go Basics")
	empty := &model.Quiz{CourseID: course.ID, Title: "Empty", Status: model.QuizDraft, MaxAttempts: 1}
	require.NoError(t, f.db.Create(empty).Error)

	err := f.quizzes.PublishQuiz(empty.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestPublishQuiz(t *testing.T) {
	f := newEngineFixture(t)
	course := f.seedCourse(t, "Go Basics")
	detail, err := f.quizzes.CreateQuiz(quizPayload(course.ID))
	require.NoError(t, err)

	require.NoError(t, f.quizzes.PublishQuiz(detail.ID))

	quiz, err := f.quizRepo.FindByID(detail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuizPublished, quiz.Status)
}

func TestGetQuizForStudentRequiresEnrollment(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")
	quiz := f.seedQuiz(t, course.ID, nil)

	_, err := f.quizzes.GetQuizForStudent(student.ID, quiz.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotEnrolled, apperr.CodeOf(err))

	f.enroll(t, student.ID, course.ID)

	detail, err := f.quizzes.GetQuizForStudent(student.ID, quiz.ID)
	require.NoError(t, err)
	require.Len(t, detail.Questions, 2)
	assert.Len(t, detail.Questions[0].Options, 2)
}

func TestEnrollInCourse(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	course := f.seedCourse(t, "Go Basics")

	enrollment, err := f.enrollments.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.Equal(t, "Go Basics", enrollment.CourseTitle)

	_, err = f.enrollments.Enroll(student.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeAlreadyEnrolled, apperr.CodeOf(err))
}

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	f := newEngineFixture(t)
	student := f.seedStudent(t, "a@example.com")
	draft := &model.Course{Title: "Hidden Course", Status: model.CourseDraft}
	require.NoError(t, f.db.Create(draft).Error)

	_, err := f.enrollments.Enroll(student.ID, draft.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = f.enrollments.Enroll(student.ID, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
