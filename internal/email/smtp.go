package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been created. You can now book appointments and track your medication from the app.", name)
	return s.send(ctx, to, "Welcome", body)
}

func (s *smtpService) SendAppointmentStatus(ctx context.Context, to, name string, scheduledAt time.Time, status string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour appointment on %s is now %s.",
		name, scheduledAt.Format("2006-01-02 15:04"), status)
	return s.send(ctx, to, "Appointment update", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NoopService discards all mail. Used when SMTP is not configured.
type NoopService struct{}

func (NoopService) SendWelcome(context.Context, string, string) error { return nil }

func (NoopService) SendAppointmentStatus(context.Context, string, string, time.Time, string) error {
	return nil
}
