package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CertificateIssuer issues at most one certificate per (student, course).
type CertificateIssuer interface {
	// IssueCertificate returns CodeCertificateExists when the pair already
	// holds one; issuing twice is distinguishable, never a silent success.
	IssueCertificate(studentID, courseID uint) (*model.Certificate, error)
}

// CertificateService is the student-facing read side.
type CertificateService interface {
	CertificateIssuer
	MyCertificates(studentID uint) ([]dto.CertificateDTO, error)
}

type certificateService struct {
	certificateRepo repository.CertificateRepository
	courseRepo      repository.CourseRepository
	userRepo        repository.UserRepository
	mailer          Mailer
	clock           Clock
}

func NewCertificateService(
	certificateRepo repository.CertificateRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	mailer Mailer,
	clock Clock,
) CertificateService {
	return &certificateService{
		certificateRepo: certificateRepo,
		courseRepo:      courseRepo,
		userRepo:        userRepo,
		mailer:          mailer,
		clock:           clock,
	}
}

func (s *certificateService) IssueCertificate(studentID, courseID uint) (*model.Certificate, error) {
	if existing, err := s.certificateRepo.FindByStudentAndCourse(studentID, courseID); err == nil {
		return existing, apperr.Conflict(apperr.CodeCertificateExists, "certificate already issued")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check existing certificate", err)
	}

	issuedAt := s.clock.Now()
	certificate := &model.Certificate{
		StudentID:         studentID,
		CourseID:          courseID,
		CertificateNumber: certificateNumber(courseID, studentID, issuedAt.Format("20060102")),
		VerificationCode:  uuid.NewString(),
		IssuedAt:          issuedAt,
	}
	if err := s.certificateRepo.Create(certificate); err != nil {
		// Lost a concurrent issuance race to the unique (student, course)
		// index; the pair is satisfied either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeCertificateExists, "certificate already issued")
		}
		return nil, apperr.Internal("failed to create certificate", err)
	}

	log.Info().Uint("studentID", studentID).Uint("courseID", courseID).
		Str("certificateNumber", certificate.CertificateNumber).Msg("Certificate issued")

	s.notify(studentID, courseID, certificate)
	return certificate, nil
}

// notify sends the congratulations email. Best effort only.
func (s *certificateService) notify(studentID, courseID uint, certificate *model.Certificate) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		log.Warn().Err(err).Uint("courseID", courseID).Msg("IssueCertificate: course lookup for email failed")
		return
	}
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		log.Warn().Err(err).Uint("studentID", studentID).Msg("IssueCertificate: student lookup for email failed")
		return
	}
	if err := s.mailer.SendCertificateIssued(student.Email, student.Name, course.Title, certificate.CertificateNumber); err != nil {
		log.Warn().Err(err).Uint("studentID", studentID).Msg("IssueCertificate: certificate email failed")
	}
}

func (s *certificateService) MyCertificates(studentID uint) ([]dto.CertificateDTO, error) {
	certificates, err := s.certificateRepo.FindByStudent(studentID)
	if err != nil {
		return nil, apperr.Internal("failed to list certificates", err)
	}

	courseIDs := make([]uint, 0, len(certificates))
	for _, c := range certificates {
		courseIDs = append(courseIDs, c.CourseID)
	}
	courses, err := s.courseRepo.FindByIDs(courseIDs)
	if err != nil {
		return nil, apperr.Internal("failed to load courses", err)
	}
	titles := make(map[uint]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	dtos := make([]dto.CertificateDTO, 0, len(certificates))
	for _, c := range certificates {
		dtos = append(dtos, dto.CertificateDTO{
			ID:                c.ID,
			CourseID:          c.CourseID,
			CourseTitle:       titles[c.CourseID],
			CertificateNumber: c.CertificateNumber,
			VerificationCode:  c.VerificationCode,
			IssuedAt:          c.IssuedAt,
		})
	}
	return dtos, nil
}

// certificateNumber is deterministic for a (course, student, issue date)
// triple so re-issues on the same day cannot mint a second number.
func certificateNumber(courseID, studentID uint, date string) string {
	return fmt.Sprintf("CERT-%d-%d-%s", courseID, studentID, date)
}
