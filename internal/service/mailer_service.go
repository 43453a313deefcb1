package service

import (
	"fmt"

	"github.com/ntquang/learnhub/config"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email. All sends are best effort; callers log
// and move on when delivery fails.
type Mailer interface {
	SendCertificateIssued(toEmail, toName, courseTitle, certificateNumber string) error
}

type sendgridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	enabled   bool
}

func NewMailer(cfg *config.Config) Mailer {
	if cfg.SendgridAPIKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY not set, certificate emails disabled")
		return &sendgridMailer{enabled: false}
	}
	return &sendgridMailer{
		client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromEmail: cfg.MailFrom,
		enabled:   true,
	}
}

func (m *sendgridMailer) SendCertificateIssued(toEmail, toName, courseTitle, certificateNumber string) error {
	if !m.enabled {
		return nil
	}
	from := mail.NewEmail("LearnHub", m.fromEmail)
	subject := fmt.Sprintf("Your certificate for %s", courseTitle)
	to := mail.NewEmail(toName, toEmail)
	body := fmt.Sprintf("Congratulations on completing %s!\nYour certificate number is %s.", courseTitle, certificateNumber)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
