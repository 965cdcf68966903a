package config

import "time"

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port               uint16        `env:"PORT" env-default:"3000" validate:"required"`
	BaseURL            string        `env:"BASE_URL" env-default:"http://localhost:3000" validate:"required,url"`
	StaticDir          string        `env:"STATIC_DIR" env-default:"public"`
	SuccessRedirect    string        `env:"VERIFY_SUCCESS_REDIRECT" env-default:"/index.html?verified=1" validate:"required"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

func (s ServerConfig) Validate() ValidationErrors {
	return checkStruct(s)
}
