package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ntquang/learnhub/database"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the production schema.
// TranslateError matches the production gorm config so duplicate-key
// branches behave the same under test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "learnhub_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// recordingMailer captures sends instead of talking to sendgrid.
type recordingMailer struct {
	sent []sentMail
}

type sentMail struct {
	toEmail           string
	toName            string
	courseTitle       string
	certificateNumber string
}

func (m *recordingMailer) SendCertificateIssued(toEmail, toName, courseTitle, certificateNumber string) error {
	m.sent = append(m.sent, sentMail{toEmail, toName, courseTitle, certificateNumber})
	return nil
}

// engineFixture wires the attempt engine against a real (sqlite) database,
// the same way main does, with only the clock and mailer swapped out.
type engineFixture struct {
	db              *gorm.DB
	clock           *fakeClock
	mailer          *recordingMailer
	attemptRepo     repository.AttemptRepository
	enrollmentRepo  repository.EnrollmentRepository
	certificateRepo repository.CertificateRepository
	quizRepo        repository.QuizRepository
	eligibility     EligibilityService
	attempts        AttemptService
	grading         GradingService
	completion      CompletionService
	certificates    CertificateService
	quizzes         QuizService
	enrollments     EnrollmentService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	mailer := &recordingMailer{}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	eligibility := NewEligibilityService(quizRepo, enrollmentRepo, attemptRepo)
	certificates := NewCertificateService(certificateRepo, courseRepo, userRepo, mailer, clock)
	completion := NewCompletionService(enrollmentRepo, certificates, clock)
	attempts := NewAttemptService(eligibility, attemptRepo, clock)
	grading := NewGradingService(quizRepo, attemptRepo, answerRepo, eligibility, completion, clock, db)
	quizzes := NewQuizService(quizRepo, courseRepo, enrollmentRepo)
	enrollments := NewEnrollmentService(enrollmentRepo, courseRepo)

	return &engineFixture{
		db:              db,
		clock:           clock,
		mailer:          mailer,
		attemptRepo:     attemptRepo,
		enrollmentRepo:  enrollmentRepo,
		certificateRepo: certificateRepo,
		quizRepo:        quizRepo,
		eligibility:     eligibility,
		attempts:        attempts,
		grading:         grading,
		completion:      completion,
		certificates:    certificates,
		quizzes:         quizzes,
		enrollments:     enrollments,
	}
}

func (f *engineFixture) seedStudent(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test Student", Email: email, PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *engineFixture) seedCourse(t *testing.T, title string) *model.Course {
	t.Helper()
	course := &model.Course{Title: title, Status: model.CoursePublished}
	require.NoError(t, f.db.Create(course).Error)
	return course
}

func (f *engineFixture) enroll(t *testing.T, studentID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID, Status: model.EnrollmentActive}
	require.NoError(t, f.db.Create(enrollment).Error)
	return enrollment
}

// seedQuiz creates a published two-question multiple-choice quiz worth 10
// points, passing at 70%. The first option of each question is the correct
// one. mutate runs before the insert to tweak per-test settings.
func (f *engineFixture) seedQuiz(t *testing.T, courseID uint, mutate func(*model.Quiz)) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		CourseID:          courseID,
		Title:             "Checkpoint Quiz",
		PassingPercentage: 70,
		MaxAttempts:       3,
		AllowRetake:       true,
		Status:            model.QuizPublished,
		Questions: []model.Question{
			{
				Text: "First question", Type: model.QuestionMultipleChoice, Points: 5, OrderIndex: 0,
				Options: []model.Option{
					{Text: "Right answer", IsCorrect: true, OrderIndex: 0},
					{Text: "Wrong answer", OrderIndex: 1},
				},
			},
			{
				Text: "Second question", Type: model.QuestionMultipleChoice, Points: 5, OrderIndex: 1,
				Options: []model.Option{
					{Text: "Right answer", IsCorrect: true, OrderIndex: 0},
					{Text: "Wrong answer", OrderIndex: 1},
				},
			},
		},
	}
	if mutate != nil {
		mutate(quiz)
	}
	require.NoError(t, f.db.Create(quiz).Error)
	return quiz
}

// seedGradedAttempt inserts a terminal GRADED attempt with the given
// percentage, for exercising eligibility history rules.
func (f *engineFixture) seedGradedAttempt(t *testing.T, studentID uint, quiz *model.Quiz, percentage float64) *model.QuizAttempt {
	t.Helper()
	now := f.clock.Now()
	attempt := &model.QuizAttempt{
		QuizID:          quiz.ID,
		StudentID:       studentID,
		CourseID:        quiz.CourseID,
		StartedAt:       now.Add(-10 * time.Minute),
		CompletedAt:     &now,
		Status:          model.AttemptGraded,
		PercentageScore: &percentage,
	}
	require.NoError(t, f.db.Create(attempt).Error)
	return attempt
}

func correctOption(q model.Question) *model.Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func wrongOption(q model.Question) *model.Option {
	for i := range q.Options {
		if !q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
