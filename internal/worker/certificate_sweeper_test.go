package worker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ntquang/learnhub/database"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/ntquang/learnhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type silentMailer struct{}

func (silentMailer) SendCertificateIssued(string, string, string, string) error { return nil }

func newSweeperFixture(t *testing.T) (*CertificateSweeper, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sweeper_test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	issuer := service.NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		silentMailer{},
		service.NewSystemClock(),
	)
	return NewCertificateSweeper(enrollmentRepo, issuer, "@every 1h"), db
}

// Sweep picks up completed enrollments whose issuance deferred, and leaves
// everything else alone.
func TestSweepIssuesMissingCertificates(t *testing.T) {
	sweeper, db := newSweeperFixture(t)

	student := &model.User{Name: "Grad", Email: "grad@example.com", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, db.Create(student).Error)
	course := &model.Course{Title: "Go Basics", Status: model.CoursePublished}
	require.NoError(t, db.Create(course).Error)

	now := time.Now()
	completed := &model.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: model.EnrollmentCompleted, ProgressPercentage: 100, CompletedAt: &now,
	}
	require.NoError(t, db.Create(completed).Error)

	active := &model.Enrollment{StudentID: student.ID, CourseID: course.ID + 100, Status: model.EnrollmentActive}
	require.NoError(t, db.Create(active).Error)

	sweeper.Sweep()

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "deferred issuance retried")

	require.NoError(t, db.Model(&model.Certificate{}).
		Where("course_id = ?", active.CourseID).Count(&count).Error)
	assert.Zero(t, count, "active enrollments are not certified")
}

// A second sweep finds nothing to do and must not mint duplicates.
func TestSweepIsIdempotent(t *testing.T) {
	sweeper, db := newSweeperFixture(t)

	student := &model.User{Name: "Grad", Email: "grad@example.com", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, db.Create(student).Error)
	course := &model.Course{Title: "Go Basics", Status: model.CoursePublished}
	require.NoError(t, db.Create(course).Error)

	now := time.Now()
	enrollment := &model.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: model.EnrollmentCompleted, ProgressPercentage: 100, CompletedAt: &now,
	}
	require.NoError(t, db.Create(enrollment).Error)

	sweeper.Sweep()
	sweeper.Sweep()

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
