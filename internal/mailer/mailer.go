// Package mailer delivers HTML mail over SMTP, or logs it when SMTP is not configured.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// Placeholder credentials shipped in sample configuration
const (
	PlaceholderUser = "your_email@gmail.com"
	PlaceholderPass = "your_app_password"
)

// Message is one outgoing email
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message or reports why it could not
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Configured reports whether real credentials were supplied
func (c Config) Configured() bool {
	return c.Username != "" && c.Password != "" &&
		c.Username != PlaceholderUser && c.Password != PlaceholderPass
}

// New returns an SMTP sender, or a logging simulation when credentials are
// missing or still the placeholders
func New(cfg Config) Sender {
	if !cfg.Configured() {
		logrus.Warn("SMTP credentials not configured, emails will be simulated")
		return NewLogSender(logrus.StandardLogger())
	}
	return NewSMTPSender(cfg)
}

// IsSimulated reports whether s only logs messages
func IsSimulated(s Sender) bool {
	_, ok := s.(*LogSender)
	return ok
}

// SMTPSender sends mail through an authenticated SMTP relay
type SMTPSender struct {
	cfg Config
}

// NewSMTPSender creates an SMTPSender
func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

// Send dials the relay and delivers msg
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them
type LogSender struct {
	logger logrus.FieldLogger
}

// NewLogSender creates a LogSender
func NewLogSender(logger logrus.FieldLogger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs msg and always succeeds
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Simulated email (SMTP not configured)")
	return nil
}
