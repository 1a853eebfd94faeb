package notify

import (
	"context"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggorockee/localdirectory/internal/config"
	"github.com/ggorockee/localdirectory/internal/models"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
	auth bool
}

func newTestNotifier(cfg config.EmailConfig) (*EmailNotifier, *[]sentMail) {
	var sent []sentMail
	n := NewEmailNotifier(cfg)
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg), auth: a != nil})
		return nil
	}
	return n, &sent
}

func TestNewEmailNotifier_Disabled(t *testing.T) {
	assert.Nil(t, NewEmailNotifier(config.EmailConfig{}))
	assert.Nil(t, NewEmailNotifier(config.EmailConfig{Host: "smtp.example.com"}))
	assert.NotNil(t, NewEmailNotifier(config.EmailConfig{Host: "smtp.example.com", NotifyTo: "ops@example.com"}))
}

func TestInquirySubmitted(t *testing.T) {
	n, sent := newTestNotifier(config.EmailConfig{
		Host:     "smtp.example.com",
		Port:     2525,
		User:     "mailer@example.com",
		Password: "secret",
		From:     "noreply@example.com",
		NotifyTo: "ops@example.com",
		SiteName: "Local Directory",
	})

	inq := &models.Inquiry{
		ID:          "abc",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		InquiryType: "business",
		Urgency:     "high",
		Subject:     "Hello\r\nBcc: victim@example.com",
		Message:     "<script>alert(1)</script> please call",
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, n.InquirySubmitted(context.Background(), inq))

	require.Len(t, *sent, 1)
	m := (*sent)[0]
	assert.Equal(t, "smtp.example.com:2525", m.addr)
	assert.Equal(t, "mailer@example.com", m.from)
	assert.Equal(t, []string{"ops@example.com"}, m.to)
	assert.True(t, m.auth)

	assert.Contains(t, m.msg, "From: Local Directory <noreply@example.com>\r\n")
	assert.Contains(t, m.msg, "Reply-To: jane@example.com\r\n")
	assert.Contains(t, m.msg, "Subject: [Local Directory] New inquiry: Hello  Bcc: victim@example.com\r\n")
	assert.NotContains(t, m.msg, "\r\nBcc:")
	assert.NotContains(t, m.msg, "<script>")
	assert.Contains(t, m.msg, "&lt;script&gt;")
	assert.Contains(t, m.msg, "Jane Doe")
}

func TestInquirySubmitted_CancelledContext(t *testing.T) {
	n, sent := newTestNotifier(config.EmailConfig{Host: "smtp.example.com", NotifyTo: "ops@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.InquirySubmitted(ctx, &models.Inquiry{ID: "x"}), context.Canceled)
	assert.Empty(t, *sent)
}
