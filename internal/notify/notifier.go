// Package notify composes customer and team messages and hands them to an email/SMS sender.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var ErrMissingRecipient = errors.New("recipient address is empty")

// Recipient of an email
type Recipient struct {
	Name  string
	Email string
}

// Notifier sends text messages and emails
type Notifier interface {
	SendSMS(ctx context.Context, phone, body string) error
	SendEmail(ctx context.Context, to Recipient, subject, body string) error
}

// LogNotifier writes every message to the log instead of sending it
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendSMS(_ context.Context, phone, body string) error {
	if phone == "" {
		return ErrMissingRecipient
	}
	n.logger.Info("SMS sent",
		zap.String("to", phone),
		zap.String("body", body),
	)
	return nil
}

func (n *LogNotifier) SendEmail(_ context.Context, to Recipient, subject, body string) error {
	if to.Email == "" {
		return ErrMissingRecipient
	}
	n.logger.Info("Email sent",
		zap.String("to", to.Email),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// SendGridNotifier delivers email through SendGrid. Text messages are logged only.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	sms    *LogNotifier
	logger *zap.Logger
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string, logger *zap.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
		sms:    NewLogNotifier(logger),
		logger: logger,
	}
}

func (n *SendGridNotifier) SendSMS(ctx context.Context, phone, body string) error {
	return n.sms.SendSMS(ctx, phone, body)
}

func (n *SendGridNotifier) SendEmail(ctx context.Context, to Recipient, subject, body string) error {
	if to.Email == "" {
		return ErrMissingRecipient
	}

	message := mail.NewSingleEmail(
		n.from,
		subject,
		mail.NewEmail(to.Name, to.Email),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: status=%d body=%s", response.StatusCode, response.Body)
	}

	n.logger.Info("Email sent",
		zap.String("to", to.Email),
		zap.String("subject", subject),
		zap.Int("status", response.StatusCode),
	)
	return nil
}
