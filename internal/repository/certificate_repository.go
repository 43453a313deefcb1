package repository

import (
	"github.com/ntquang/learnhub/internal/model"
	"gorm.io/gorm"
)

type CertificateRepository interface {
	Create(certificate *model.Certificate) error
	FindByStudentAndCourse(studentID, courseID uint) (*model.Certificate, error)
	FindByStudent(studentID uint) ([]model.Certificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(certificate *model.Certificate) error {
	return r.db.Create(certificate).Error
}

func (r *certificateRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Certificate, error) {
	var certificate model.Certificate
	err := r.db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&certificate).Error
	return &certificate, err
}

func (r *certificateRepository) FindByStudent(studentID uint) ([]model.Certificate, error) {
	var certificates []model.Certificate
	err := r.db.Where("student_id = ?", studentID).Order("issued_at DESC").Find(&certificates).Error
	return certificates, err
}
