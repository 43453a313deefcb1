// Package worker hosts background jobs. The only one today is the
// certificate sweeper, which retries issuance that deferred during a grading
// cascade. Attempt expiry deliberately has no sweeper; it is checked lazily
// on the next access.
package worker

import (
	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/ntquang/learnhub/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type CertificateSweeper struct {
	enrollmentRepo repository.EnrollmentRepository
	issuer         service.CertificateIssuer
	cron           *cron.Cron
	schedule       string
}

func NewCertificateSweeper(
	enrollmentRepo repository.EnrollmentRepository,
	issuer service.CertificateIssuer,
	schedule string,
) *CertificateSweeper {
	return &CertificateSweeper{
		enrollmentRepo: enrollmentRepo,
		issuer:         issuer,
		cron:           cron.New(),
		schedule:       schedule,
	}
}

func (w *CertificateSweeper) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.Sweep); err != nil {
		return err
	}
	w.cron.Start()
	log.Info().Str("schedule", w.schedule).Msg("Certificate sweeper started")
	return nil
}

func (w *CertificateSweeper) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Certificate sweeper stopped")
}

// Sweep issues certificates for completed enrollments that still lack one.
// Losing a race to a concurrent grading cascade is fine; "already issued"
// means the work is done.
func (w *CertificateSweeper) Sweep() {
	enrollments, err := w.enrollmentRepo.FindCompletedWithoutCertificate()
	if err != nil {
		log.Error().Err(err).Msg("Certificate sweep: failed to list pending enrollments")
		return
	}
	if len(enrollments) == 0 {
		return
	}
	log.Info().Int("pending", len(enrollments)).Msg("Certificate sweep: retrying deferred issuance")
	for _, e := range enrollments {
		if _, err := w.issuer.IssueCertificate(e.StudentID, e.CourseID); err != nil {
			if apperr.CodeOf(err) == apperr.CodeCertificateExists {
				continue
			}
			log.Error().Err(err).Uint("studentID", e.StudentID).Uint("courseID", e.CourseID).
				Msg("Certificate sweep: issuance failed, will retry next run")
		}
	}
}
