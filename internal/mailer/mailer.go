package mailer

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is a single file carried by a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is an HTML email with one attachment.
type Message struct {
	FromAddress string
	FromName    string
	To          []string
	Subject     string
	HTMLBody    string
	Attachment  Attachment
}

// Config holds SMTP relay connection details.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// dialer is the part of gomail.Dialer the mailer uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends messages through an authenticated SMTP relay. STARTTLS
// is negotiated whenever the server offers it.
type SMTPMailer struct {
	dialer dialer
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send opens a connection, authenticates and delivers msg. The context is
// only checked before dialing; gomail does not take one.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(Build(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Build renders msg as a multipart gomail message.
func Build(msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", msg.FromAddress, msg.FromName)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	content := msg.Attachment.Content
	gm.Attach(msg.Attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}))
	return gm
}
