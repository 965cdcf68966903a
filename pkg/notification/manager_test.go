package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationManager(t *testing.T) {
	nm := NewNotificationManager()
	require.NotNil(t, nm)
	assert.NotNil(t, nm.notifiers)
	assert.NotNil(t, nm.notificationRegistry)
}

func TestRegisterNotifier(t *testing.T) {
	nm := NewNotificationManager()
	mockNotifier := &MockNotifier{}

	nm.RegisterNotifier(EmailSystem, mockNotifier)
	assert.Same(t, mockNotifier, nm.notifiers[EmailSystem])

	// Overwriting replaces the previous notifier
	newMockNotifier := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, newMockNotifier)
	assert.Same(t, newMockNotifier, nm.notifiers[EmailSystem])
}

func TestRegisterNotification(t *testing.T) {
	tests := []struct {
		name        string
		noticeType  NoticeType
		system      NotificationSystem
		template    NoticeTemplate
		shouldError bool
	}{
		{
			name:       "Valid registration with both Text and Html",
			noticeType: EmailVerification,
			system:     EmailSystem,
			template:   NoticeTemplate{Subject: "Verify", Text: "text", Html: "<p>html</p>"},
		},
		{
			name:       "Valid registration with Html only",
			noticeType: EmailVerification,
			system:     EmailSystem,
			template:   NoticeTemplate{Subject: "Verify", Html: "<p>html</p>"},
		},
		{
			name:        "Empty notification type",
			noticeType:  "",
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Verify", Text: "text"},
			shouldError: true,
		},
		{
			name:        "Empty system",
			noticeType:  EmailVerification,
			system:      "",
			template:    NoticeTemplate{Subject: "Verify", Text: "text"},
			shouldError: true,
		},
		{
			name:        "Empty body",
			noticeType:  EmailVerification,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Verify"},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nm := NewNotificationManager()
			err := nm.RegisterNotification(tt.noticeType, tt.system, tt.template)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.template, nm.notificationRegistry[tt.noticeType][tt.system])
		})
	}
}

func TestSendRendersTemplate(t *testing.T) {
	mockNotifier := &MockNotifier{}
	nm, err := NewNotificationManagerWithOptions(
		WithNotifier(EmailSystem, mockNotifier),
		WithDefaultTemplates(),
	)
	require.NoError(t, err)

	link := "http://localhost:3000/verify?token=abc&x=<y>"
	receipt, err := nm.Send(context.Background(), EmailVerification, EmailSystem, NotificationData{
		To:   "a@example.com",
		Data: map[string]string{"VerificationLink": link},
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "a@example.com", receipt.To)

	sent := mockNotifier.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To)
	assert.Equal(t, "Verify your email", sent[0].Subject)
	assert.Equal(t, "Click the link to verify: "+link, sent[0].Text)
	assert.Contains(t, sent[0].Html, "<p>Click the link to verify:</p>")
	// html/template escapes the markup inside the link text
	assert.Contains(t, sent[0].Html, "&lt;y&gt;")
	assert.NotContains(t, sent[0].Html, "<y>")
}

func TestSendMissingTemplateData(t *testing.T) {
	mockNotifier := &MockNotifier{}
	nm, err := NewNotificationManagerWithOptions(
		WithNotifier(EmailSystem, mockNotifier),
		WithDefaultTemplates(),
	)
	require.NoError(t, err)

	_, err = nm.Send(context.Background(), EmailVerification, EmailSystem, NotificationData{To: "a@example.com"})
	assert.Error(t, err)
	assert.Empty(t, mockNotifier.Messages())
}

func TestSendErrors(t *testing.T) {
	ctx := context.Background()
	data := NotificationData{To: "a@example.com", Data: map[string]string{"VerificationLink": "x"}}

	t.Run("UnknownNoticeType", func(t *testing.T) {
		nm := NewNotificationManager()
		_, err := nm.Send(ctx, EmailVerification, EmailSystem, data)
		assert.ErrorContains(t, err, "no templates registered")
	})

	t.Run("NoTemplateForSystem", func(t *testing.T) {
		nm := NewNotificationManager()
		require.NoError(t, nm.RegisterNotification(EmailVerification, NotificationSystem("sms"), NoticeTemplate{Text: "x"}))
		_, err := nm.Send(ctx, EmailVerification, EmailSystem, data)
		assert.ErrorContains(t, err, "no template registered for system")
	})

	t.Run("NoNotifier", func(t *testing.T) {
		nm, err := NewNotificationManagerWithOptions(WithDefaultTemplates())
		require.NoError(t, err)
		_, err = nm.Send(ctx, EmailVerification, EmailSystem, data)
		assert.ErrorContains(t, err, "no notifier registered")
	})

	t.Run("NotifierFailure", func(t *testing.T) {
		smtpErr := errors.New("535 authentication failed")
		nm, err := NewNotificationManagerWithOptions(
			WithNotifier(EmailSystem, &MockNotifier{Err: smtpErr}),
			WithDefaultTemplates(),
		)
		require.NoError(t, err)
		_, err = nm.Send(ctx, EmailVerification, EmailSystem, data)
		assert.ErrorIs(t, err, smtpErr)
	})
}

func TestWithDefaultTemplates(t *testing.T) {
	nm, err := NewNotificationManagerWithOptions(WithDefaultTemplates())
	require.NoError(t, err)

	tmpl := nm.notificationRegistry[EmailVerification][EmailSystem]
	assert.Equal(t, "Verify your email", tmpl.Subject)
	assert.Contains(t, tmpl.Html, "{{.VerificationLink}}")
	assert.Contains(t, tmpl.Text, "{{.VerificationLink}}")
}

func TestNewNotificationManagerWithOptionsStopsOnError(t *testing.T) {
	_, err := NewNotificationManagerWithOptions(
		WithSMTP(SMTPConfig{Host: "localhost", Port: 1025}),
		WithDefaultTemplates(),
	)
	assert.Error(t, err)
}
