package model

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is proof of course completion, issued at most once per
// (student, course); the composite unique index backs that up at the store
// level so a concurrent double-issue surfaces as a duplicate-key error.
type Certificate struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	StudentID         uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_certificates_student_course"`
	CourseID          uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_student_course"`
	CertificateNumber string         `json:"certificate_number" gorm:"not null;uniqueIndex"`
	VerificationCode  string         `json:"verification_code" gorm:"not null"`
	IssuedAt          time.Time      `json:"issued_at" gorm:"not null"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
