package config

import "time"

// ClientConfig points verifyctl at a running verification service.
type ClientConfig struct {
	URL     string        `env:"VERIFY_URL" env-default:"http://localhost:3000" validate:"required,url"`
	Timeout time.Duration `env:"VERIFY_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

func (c ClientConfig) Validate() ValidationErrors {
	return checkStruct(c)
}
