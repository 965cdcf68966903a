package config

import (
	"time"

	"github.com/suyashdwivedi2003/login-page/pkg/notification"
)

// EmailConfig holds the SMTP account used to send verification links.
// The defaults target Gmail with an app-specific password.
type EmailConfig struct {
	Host     string        `env:"EMAIL_HOST" env-default:"smtp.gmail.com" validate:"required"`
	Port     uint16        `env:"EMAIL_PORT" env-default:"587" validate:"required"`
	Username string        `env:"EMAIL_USER" validate:"required"`
	Password string        `env:"EMAIL_PASS" validate:"required"`
	From     string        `env:"EMAIL_FROM"`
	TLS      bool          `env:"EMAIL_TLS" env-default:"true"`
	Timeout  time.Duration `env:"EMAIL_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	from := e.From
	if from == "" {
		from = e.Username
	}
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     from,
		TLS:      e.TLS,
		Timeout:  e.Timeout,
	}
}

func (e EmailConfig) Validate() ValidationErrors {
	return checkStruct(e)
}
