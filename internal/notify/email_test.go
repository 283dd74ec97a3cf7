package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendGridSenderSkipsWithoutKey(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	sender := NewSendGridSender()

	// No key configured: sending is a logged no-op, not an error.
	assert.NoError(t, sender.Send(context.Background(), "driver@example.com", "Driver", "subject", "<p>body</p>"))
}

func TestSendGridSenderDefaultSender(t *testing.T) {
	t.Setenv("SENDER_EMAIL", "")
	sender := NewSendGridSender()
	assert.Equal(t, "noreply@autotrack.com", sender.senderEmail)

	t.Setenv("SENDER_EMAIL", "alerts@garage.example.com")
	sender = NewSendGridSender()
	assert.Equal(t, "alerts@garage.example.com", sender.senderEmail)
}

func TestReminderTemplates(t *testing.T) {
	subject := reminderSubject("Oil Change", "2018 Honda Civic")
	assert.Equal(t, "AutoTrack: Oil Change Due for 2018 Honda Civic", subject)

	body := reminderBody("Driver", "2018 Honda Civic", "Oil Change", "overdue")
	assert.Contains(t, body, "Hi Driver,")
	assert.Contains(t, body, "<strong>Oil Change</strong>")
	assert.Contains(t, body, "is overdue.")
}
