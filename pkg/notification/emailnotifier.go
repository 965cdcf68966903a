package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 30 * time.Second

type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// EmailNotifier sends each message over its own SMTP connection. A
// mail.Client holds the state of one connection, so clients are never
// shared between concurrent sends.
type EmailNotifier struct {
	SMTPConfig SMTPConfig
	opts       []mail.Option
}

func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	if config.From == "" {
		config.From = config.Username
	}
	if config.From == "" {
		return nil, fmt.Errorf("email notifier requires a from address or username")
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultSMTPTimeout
	}

	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(config.Timeout),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		slog.Info("Adding authentication", "user", config.Username)
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if config.TLS {
		slog.Info("Using TLS Mandatory policy")
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		slog.Info("Using NoTLS policy")
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	e := &EmailNotifier{SMTPConfig: config, opts: opts}

	// Reject a bad host or option set at startup instead of on the first send
	if _, err := e.newClient(); err != nil {
		return nil, err
	}

	slog.Info("Email notifier ready", "host", config.Host, "port", config.Port)
	return e, nil
}

func (e *EmailNotifier) newClient() (*mail.Client, error) {
	client, err := mail.NewClient(e.SMTPConfig.Host, e.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

func (e *EmailNotifier) Send(ctx context.Context, message Message) (*Receipt, error) {
	msg, err := e.buildMsg(message)
	if err != nil {
		return nil, err
	}

	client, err := e.newClient()
	if err != nil {
		return nil, err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send email to %s: %w", message.To, err)
	}

	receipt := &Receipt{
		To:     message.To,
		SentAt: time.Now().UTC(),
	}
	if ids := msg.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		receipt.MessageID = ids[0]
	}

	slog.Info("Email sent successfully", "to", message.To, "message_id", receipt.MessageID, "host", e.SMTPConfig.Host, "port", e.SMTPConfig.Port)
	return receipt, nil
}

func (e *EmailNotifier) buildMsg(message Message) (*mail.Msg, error) {
	if message.To == "" {
		return nil, fmt.Errorf("email notification requires 'To' address")
	}
	if message.Html == "" && message.Text == "" {
		return nil, fmt.Errorf("email notification requires a body")
	}

	msg := mail.NewMsg()
	if err := msg.From(e.SMTPConfig.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", e.SMTPConfig.From, err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("invalid to address %q: %w", message.To, err)
	}
	msg.Subject(message.Subject)
	msg.SetMessageID()

	switch {
	case message.Text != "" && message.Html != "":
		msg.SetBodyString(mail.TypeTextPlain, message.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, message.Html)
	case message.Html != "":
		msg.SetBodyString(mail.TypeTextHTML, message.Html)
	default:
		msg.SetBodyString(mail.TypeTextPlain, message.Text)
	}

	return msg, nil
}
