package email

import (
	"fmt"

	"footwork_backend/internal/config"
	"footwork_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// Provider sends transactional mail. The SMTP implementation is used in
// production; tests inject MockProvider.
type Provider interface {
	SendVerificationEmail(to, token string) error
	SendMembershipActivated(to, planType string) error
}

type SMTPProvider struct {
	cfg *config.Config
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) SendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", p.cfg.Server.BaseURL, token)
	body := fmt.Sprintf(
		"<p>Welcome to Footwork!</p><p>Please confirm your email address by following <a href=%q>this link</a>.</p>",
		link,
	)
	return p.send(to, "Confirm your email", body)
}

func (p *SMTPProvider) SendMembershipActivated(to, planType string) error {
	body := fmt.Sprintf(
		"<p>Your <b>%s</b> membership is now active. Thank you for your payment.</p>",
		planType,
	)
	return p.send(to, "Membership activated", body)
}

func (p *SMTPProvider) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.cfg.Email.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		p.cfg.Email.SMTPHost,
		p.cfg.Email.SMTPPort,
		p.cfg.Email.SMTPUsername,
		p.cfg.Email.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		logger.WithError(err).Error("failed to send email", "to", to, "subject", subject)
		return err
	}
	return nil
}

// MockProvider records sent mail instead of delivering it.
type MockProvider struct {
	Verifications []string
	Activations   []string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) SendVerificationEmail(to, token string) error {
	m.Verifications = append(m.Verifications, to)
	return nil
}

func (m *MockProvider) SendMembershipActivated(to, planType string) error {
	m.Activations = append(m.Activations, to)
	return nil
}
