package notify

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

// EmailSender sends a single email to a user.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error
}

// SendGridSender implements EmailSender on the SendGrid v3 API. When no API
// key is configured it logs a warning and skips sending instead of failing.
type SendGridSender struct {
	apiKey      string
	senderEmail string
}

// NewSendGridSender creates a sender from SENDGRID_API_KEY and SENDER_EMAIL.
func NewSendGridSender() *SendGridSender {
	sender := os.Getenv("SENDER_EMAIL")
	if sender == "" {
		sender = "noreply@autotrack.com"
	}
	return &SendGridSender{
		apiKey:      os.Getenv("SENDGRID_API_KEY"),
		senderEmail: sender,
	}
}

// Send delivers an email through SendGrid.
func (s *SendGridSender) Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if s.apiKey == "" {
		log.Warn("SendGrid API key not configured, skipping email")
		return nil
	}

	from := mail.NewEmail("AutoTrack", s.senderEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// reminderSubject builds the subject line for a maintenance reminder.
func reminderSubject(taskLabel, carName string) string {
	return fmt.Sprintf("AutoTrack: %s Due for %s", taskLabel, carName)
}

// reminderBody builds the HTML body for a maintenance reminder.
func reminderBody(userName, carName, taskLabel, dueInfo string) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h1>AutoTrack</h1>`)
	fmt.Fprintf(&b, `<h2>Hi %s,</h2>`, userName)
	fmt.Fprintf(&b, `<p>Your <strong>%s</strong> for <strong>%s</strong> is %s.</p>`, taskLabel, carName, dueInfo)
	b.WriteString(`<p>Don't forget to schedule your maintenance to keep your vehicle in top condition!</p>`)
	b.WriteString(`</body></html>`)
	return b.String()
}
