package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPConfig holds the relay connection and sender identity.
type SMTPConfig struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string
	FromName string
}

// SMTPDispatcher delivers plain-text email through an SMTP relay.
type SMTPDispatcher struct {
	cfg      SMTPConfig
	auth     smtp.Auth
	sendMail SendMailFunc
}

// NewSMTPDispatcher creates an SMTP dispatcher. A nil send uses smtp.SendMail.
func NewSMTPDispatcher(cfg SMTPConfig, send SendMailFunc) *SMTPDispatcher {
	if send == nil {
		send = smtp.SendMail
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPDispatcher{cfg: cfg, auth: auth, sendMail: send}
}

func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("notification has no recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	from := (&mail.Address{Name: d.cfg.FromName, Address: d.cfg.From}).String()

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))

	if err := d.sendMail(d.cfg.Addr, d.auth, d.cfg.From, []string{to.Address}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
