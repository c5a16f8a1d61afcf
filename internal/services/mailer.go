package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers outbound email. Delivery is a best-effort external
// collaborator: callers never roll back state when a send fails.
type Mailer interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

// logMailer writes the message to the application log instead of sending
// it. Default transport for development and tests.
type logMailer struct{}

func NewLogMailer() Mailer {
	return &logMailer{}
}

func (m *logMailer) SendEmail(_ context.Context, recipient, subject, body string) error {
	log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", recipient, subject, body)
	return nil
}

// SMTPConfig carries the settings for the real SMTP transport.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	config SMTPConfig
}

func NewSMTPMailer(config SMTPConfig) Mailer {
	return &smtpMailer{config: config}
}

func (m *smtpMailer) SendEmail(_ context.Context, recipient, subject, body string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	addr := m.config.Host + ":" + m.config.Port
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := smtp.SendMail(addr, auth, m.config.From, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", recipient, err)
	}
	return nil
}
