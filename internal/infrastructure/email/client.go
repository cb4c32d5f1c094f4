// Package email provides the delivery backends for sending lead artifacts as
// attachments through a configured relay.
package email

import (
	"fmt"
	"io"
	"regexp"

	"github.com/oklog/ulid/v2"
	"github.com/resendlabs/resend-go"
	gomail "gopkg.in/gomail.v2"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
)

// Attachment is one binary file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outbound email with an optional attachment.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	Send(msg Message) (messageID string, err error)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidAddress reports whether the address passes the relay's shallow format
// check.
func ValidAddress(addr string) bool {
	return emailPattern.MatchString(addr)
}

// Config carries the relay settings resolved from the environment.
type Config struct {
	Provider     string // "smtp" or "resend"
	FromAddress  string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	ResendAPIKey string
}

// NewService selects the delivery backend from config. An unconfigured relay
// still yields a Service; sends then fail with ServiceUnavailable, so the
// rest of the application works without email credentials.
func NewService(cfg Config, logger *logging.ChanneledLogger) Service {
	if cfg.Provider == "resend" && cfg.ResendAPIKey != "" {
		return &resendClient{
			client: resend.NewClient(cfg.ResendAPIKey),
			from:   fromHeader(cfg),
			logger: logger,
		}
	}
	return &smtpClient{cfg: cfg, logger: logger}
}

func fromHeader(cfg Config) string {
	if cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	return cfg.FromAddress
}

// smtpClient dispatches through a plain SMTP relay.
type smtpClient struct {
	cfg    Config
	logger *logging.ChanneledLogger
}

func (c *smtpClient) Send(msg Message) (string, error) {
	if c.cfg.SMTPUser == "" || c.cfg.SMTPPass == "" {
		return "", apperr.ServiceUnavailable("email service not configured: set EMAIL_USER and EMAIL_PASS")
	}

	from := c.cfg.FromAddress
	if from == "" {
		from = c.cfg.SMTPUser
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, c.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.Attachment != nil {
		att := msg.Attachment
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Data)
			return err
		}))
	}

	dialer := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUser, c.cfg.SMTPPass)
	if err := dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send email via SMTP relay: %w", err)
	}

	messageID := ulid.Make().String()
	c.logger.Email().Info("Email dispatched via SMTP", "to", msg.To, "messageId", messageID)
	return messageID, nil
}

// resendClient dispatches through the Resend API.
type resendClient struct {
	client *resend.Client
	from   string
	logger *logging.ChanneledLogger
}

func (c *resendClient) Send(msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
	}
	if msg.Attachment != nil {
		params.Attachments = []resend.Attachment{
			{
				Filename: msg.Attachment.Filename,
				Content:  string(msg.Attachment.Data),
			},
		}
	}

	sent, err := c.client.Emails.Send(params)
	if err != nil {
		return "", fmt.Errorf("failed to send email via Resend: %w", err)
	}

	c.logger.Email().Info("Email dispatched via Resend", "to", msg.To, "messageId", sent.Id)
	return sent.Id, nil
}
