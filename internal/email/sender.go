// Package email sends transactional mail over SMTP
package email

import (
	"fmt"

	"gopkg.in/mail.v2"
)

// Sender delivers emails through an SMTP server
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSender creates a new Sender instance
func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends an email using gopkg.in/mail.v2
func (s *Sender) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOtp sends a one-time verification code
func (s *Sender) SendOtp(to, code string, expiryMinutes int) error {
	subject := "Your verification code"
	body := fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		code, expiryMinutes,
	)
	return s.Send(to, subject, body)
}
