package notification

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// NotificationSystem represents a delivery channel.
type NotificationSystem string

// NoticeType represents a kind of notification (e.g. "email_verification").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"

	EmailVerification NoticeType = "email_verification"
)

// NoticeTemplate holds the templates for one notice type on one system.
// Subject and Text are text/template sources, Html is an html/template source.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// NotificationManager manages notifiers and notification templates.
type NotificationManager struct {
	notifiers            map[NotificationSystem]Notifier
	notificationRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate
}

// NewNotificationManager creates and returns a new NotificationManager.
func NewNotificationManager() *NotificationManager {
	return &NotificationManager{
		notifiers:            make(map[NotificationSystem]Notifier),
		notificationRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}
}

// RegisterNotifier registers a notifier for a specific system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds or replaces the template for a notice type on a system.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, tmpl NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notification type and system cannot be empty")
	}
	if tmpl.Html == "" && tmpl.Text == "" {
		return fmt.Errorf("invalid input: template for %s requires Html or Text", noticeType)
	}

	if _, exists := nm.notificationRegistry[noticeType]; !exists {
		nm.notificationRegistry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}
	nm.notificationRegistry[noticeType][system] = tmpl
	return nil
}

// Send renders the registered template for noticeType and delivers it over system.
func (nm *NotificationManager) Send(ctx context.Context, noticeType NoticeType, system NotificationSystem, data NotificationData) (*Receipt, error) {
	systemTemplates, exists := nm.notificationRegistry[noticeType]
	if !exists {
		return nil, fmt.Errorf("no templates registered for notification type: %s", noticeType)
	}

	tmpl, exists := systemTemplates[system]
	if !exists {
		return nil, fmt.Errorf("no template registered for system: %s under notification type: %s", system, noticeType)
	}

	notifier, exists := nm.notifiers[system]
	if !exists {
		return nil, fmt.Errorf("no notifier registered for system: %s", system)
	}

	msg, err := render(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s notification: %w", noticeType, err)
	}

	return notifier.Send(ctx, msg)
}

func render(tmpl NoticeTemplate, data NotificationData) (Message, error) {
	msg := Message{To: data.To}

	var err error
	if msg.Subject, err = executeText("subject", tmpl.Subject, data.Data); err != nil {
		return Message{}, err
	}
	if msg.Text, err = executeText("text", tmpl.Text, data.Data); err != nil {
		return Message{}, err
	}
	if tmpl.Html != "" {
		t, err := htmltemplate.New("html").Option("missingkey=error").Parse(tmpl.Html)
		if err != nil {
			return Message{}, err
		}
		var buf bytes.Buffer
		if err := t.Execute(&buf, data.Data); err != nil {
			return Message{}, err
		}
		msg.Html = buf.String()
	}

	return msg, nil
}

func executeText(name, src string, data map[string]string) (string, error) {
	if src == "" {
		return "", nil
	}
	t, err := texttemplate.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
