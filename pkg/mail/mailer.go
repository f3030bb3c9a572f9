// Package mail sends notification email over SMTP and builds the HTML/text
// templates for the four notification types.
package mail

import (
	"fmt"
	"os"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// Sender is the outbound email boundary consumed by handlers and the
// proposal scheduler.
type Sender interface {
	Send(to, subject, html, text string) error
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender() *SMTPSender {
	port, err := strconv.Atoi(os.Getenv("EMAIL_SERVER_PORT"))
	if err != nil {
		port = 587
	}

	return &SMTPSender{
		host:     os.Getenv("EMAIL_SERVER_HOST"),
		port:     port,
		username: os.Getenv("EMAIL_SERVER_USER"),
		password: os.Getenv("EMAIL_SERVER_PASSWORD"),
		from:     os.Getenv("EMAIL_FROM"),
	}
}

func (s *SMTPSender) Send(to, subject, html, text string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
	)
	if err != nil {
		return fmt.Errorf("smtp client error: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}
