package service

import (
	"errors"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CascadeOutcome reports what the completion cascade actually did, instead of
// swallowing certificate failures behind a bare log line.
type CascadeOutcome struct {
	CertificateIssued bool
	Result            string // "issued", "already_issued", "deferred", "no_enrollment"
}

const (
	CascadeIssued        = "issued"
	CascadeAlreadyIssued = "already_issued"
	CascadeDeferred      = "deferred"
	CascadeNoEnrollment  = "no_enrollment"
)

// CompletionService runs the side effects of a passing grade: enrollment
// completion and certificate issuance.
type CompletionService interface {
	// OnQuizPassed never returns an error; grading must not fail because of
	// the cascade. Failures are reported in the outcome and retried by the
	// certificate sweeper.
	OnQuizPassed(studentID, courseID uint) CascadeOutcome
}

type completionService struct {
	enrollmentRepo repository.EnrollmentRepository
	issuer         CertificateIssuer
	clock          Clock
}

func NewCompletionService(
	enrollmentRepo repository.EnrollmentRepository,
	issuer CertificateIssuer,
	clock Clock,
) CompletionService {
	return &completionService{
		enrollmentRepo: enrollmentRepo,
		issuer:         issuer,
		clock:          clock,
	}
}

func (s *completionService) OnQuizPassed(studentID, courseID uint) CascadeOutcome {
	enrollment, err := s.enrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A passed quiz without an enrollment is inconsistent data; the
			// cascade does not try to repair it.
			log.Warn().Uint("studentID", studentID).Uint("courseID", courseID).
				Msg("OnQuizPassed: no enrollment for passed quiz, skipping cascade")
			return CascadeOutcome{Result: CascadeNoEnrollment}
		}
		log.Error().Err(err).Uint("studentID", studentID).Uint("courseID", courseID).
			Msg("OnQuizPassed: failed to load enrollment")
		return CascadeOutcome{Result: CascadeDeferred}
	}

	if err := s.enrollmentRepo.MarkCompleted(enrollment.ID, s.clock.Now()); err != nil {
		log.Error().Err(err).Uint("enrollmentID", enrollment.ID).
			Msg("OnQuizPassed: failed to complete enrollment")
		return CascadeOutcome{Result: CascadeDeferred}
	}

	_, err = s.issuer.IssueCertificate(studentID, courseID)
	switch {
	case err == nil:
		return CascadeOutcome{CertificateIssued: true, Result: CascadeIssued}
	case apperr.CodeOf(err) == apperr.CodeCertificateExists:
		// A retake after an earlier pass already holds a certificate; that is
		// satisfied, not a failure.
		return CascadeOutcome{Result: CascadeAlreadyIssued}
	default:
		log.Error().Err(err).Uint("studentID", studentID).Uint("courseID", courseID).
			Msg("OnQuizPassed: certificate issuance failed, leaving for sweeper")
		return CascadeOutcome{Result: CascadeDeferred}
	}
}
