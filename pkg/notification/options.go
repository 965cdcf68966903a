package notification

import _ "embed"

//go:embed templates/email/email_verification.html
var verificationHTML string

// verificationTemplate is the mail a verification link is delivered in.
// VerificationLink is the only key it reads.
var verificationTemplate = NoticeTemplate{
	Subject: "Verify your email",
	Text:    "Click the link to verify: {{.VerificationLink}}",
	Html:    verificationHTML,
}

// NotificationManagerOption configures a NotificationManager at construction
type NotificationManagerOption func(*NotificationManager) error

// NewNotificationManagerWithOptions builds a manager and applies opts in order.
// The first failing option aborts construction.
func NewNotificationManagerWithOptions(opts ...NotificationManagerOption) (*NotificationManager, error) {
	nm := NewNotificationManager()
	for _, opt := range opts {
		if err := opt(nm); err != nil {
			return nil, err
		}
	}
	return nm, nil
}

// WithSMTP delivers email notices through an EmailNotifier built from config
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		notifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, notifier)
		return nil
	}
}

// WithNotifier delivers notices for system through notifier. Tests pass a
// MockNotifier here.
func WithNotifier(system NotificationSystem, notifier Notifier) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.RegisterNotifier(system, notifier)
		return nil
	}
}

// WithDefaultTemplates registers the verification mail on the email system
func WithDefaultTemplates() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(EmailVerification, EmailSystem, verificationTemplate)
	}
}
