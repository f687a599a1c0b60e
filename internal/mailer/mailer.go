// Package mailer delivers contact submissions by email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"

	"github.com/SabirovSR/portfolio/internal/contact"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("mailer: SMTP credentials not configured")

type Config struct {
	Host string // e.g. smtp.gmail.com
	Port string // e.g. 587
	User string
	Pass string
	To   string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends one email per submission to a fixed recipient.
type Mailer struct {
	cfg  Config
	send sendFunc
}

var _ contact.Sender = (*Mailer)(nil)

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func (m *Mailer) Send(ctx context.Context, sub contact.Submission) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := compose(m.cfg.User, m.cfg.To, sub)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	// net/smtp has no context support; run it aside so cancellation returns promptly.
	errc := make(chan error, 1)
	go func() { errc <- m.send(addr, auth, m.cfg.User, []string{m.cfg.To}, msg) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errc:
		if err != nil {
			log.Printf("[MAIL] error sending contact email: %v", err)
			return fmt.Errorf("mailer: send: %w", err)
		}
	}

	log.Printf("[MAIL] contact email sent for %d channel(s)", len(sub.Channels))
	return nil
}

func compose(from, to string, sub contact.Submission) []byte {
	var body strings.Builder
	body.WriteString("New contact form submission from your portfolio:\n\n")
	fmt.Fprintf(&body, "Name: %s\n", headerSafe(sub.Name))
	body.WriteString("Contacts:\n")
	for _, ch := range sub.Channels {
		fmt.Fprintf(&body, "  %s: %s\n", ch, sub.Contacts[ch])
	}
	fmt.Fprintf(&body, "Message:\n%s\n\n---\nSent from your portfolio contact form\n", sub.Message)

	var msg strings.Builder
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + headerSafe("Portfolio Contact: "+sub.Name) + "\r\n")
	msg.WriteString("From: " + from + "\r\n")
	if email := headerSafe(sub.Contacts[contact.Email]); email != "" {
		msg.WriteString("Reply-To: " + email + "\r\n")
	}
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return []byte(msg.String())
}

// headerSafe strips line breaks so visitor input cannot inject headers.
func headerSafe(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}
