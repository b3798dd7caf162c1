package auth

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers magic-link sign-in emails.
type Mailer interface {
	SendMagicLink(to, link string) error
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg MailConfig
}

func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendMagicLink(to, link string) error {
	body := magicLinkBody(to, link)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: Your Magic Link - E-Learning Platform",
		"",
		body,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, a, m.cfg.From, []string{to}, []byte(msg))
}

func magicLinkBody(to, link string) string {
	return fmt.Sprintf(`Welcome to the E-Learning Platform

Hello %s,
You requested to sign in to the platform.

Click this link to sign in: %s

Security notice: this link expires in 1 hour.

What's waiting for you:
- Access to comprehensive courses
- Interactive quizzes and assessments
- Track your learning progress
- Compete on the leaderboard
`, to, link)
}

// LogMailer prints the link instead of sending mail. Used when SMTP is
// not configured, so local development works without a mail server.
type LogMailer struct{}

func (LogMailer) SendMagicLink(to, link string) error {
	log.Printf("Magic link for %s: %s", to, link)
	return nil
}
