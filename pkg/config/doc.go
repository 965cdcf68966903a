// Package config holds the environment-driven configuration of the
// verification service.
//
// Each struct carries cleanenv tags, so a whole service configuration is read
// with a single call:
//
//	type Config struct {
//		ServerConfig      config.ServerConfig
//		EmailConfig       config.EmailConfig
//		PersistenceConfig config.PersistenceConfig
//	}
//
//	var cfg Config
//	if err := cleanenv.ReadEnv(&cfg); err != nil {
//		...
//	}
//	if err := config.ValidateAll(cfg.ServerConfig, cfg.EmailConfig, cfg.PersistenceConfig); err != nil {
//		...
//	}
//
// Validation rules live in validate struct tags next to the env tags, and
// failures name the environment variable to fix. ClientConfig carries the
// two settings verifyctl reads.
package config
