package repository

import (
	"time"

	"github.com/ntquang/learnhub/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(enrollment *model.Enrollment) error
	FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error)
	FindByStudent(studentID uint) ([]model.Enrollment, error)
	FindCompletedWithoutCertificate() ([]model.Enrollment, error)
	MarkCompleted(id uint, completedAt time.Time) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error
	return &enrollment, err
}

func (r *enrollmentRepository) FindByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&enrollments).Error
	return enrollments, err
}

// FindCompletedWithoutCertificate feeds the out-of-band certificate sweeper:
// enrollments that finished a course but whose issuance deferred on failure.
func (r *enrollmentRepository) FindCompletedWithoutCertificate() ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.Model(&model.Enrollment{}).
		Joins("LEFT JOIN certificates ON certificates.student_id = enrollments.student_id AND certificates.course_id = enrollments.course_id AND certificates.deleted_at IS NULL").
		Where("enrollments.status = ? AND certificates.id IS NULL", model.EnrollmentCompleted).
		Find(&enrollments).Error
	return enrollments, err
}

// MarkCompleted sets status, progress and completion time in one UPDATE so
// the invariant "completed implies 100%" can never be observed half-applied.
func (r *enrollmentRepository) MarkCompleted(id uint, completedAt time.Time) error {
	return r.db.Model(&model.Enrollment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              model.EnrollmentCompleted,
			"progress_percentage": 100,
			"completed_at":        completedAt,
		}).Error
}
