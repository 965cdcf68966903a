package config

import (
	dbutils "github.com/tendant/db-utils/db"
)

const (
	PersistenceMongo    = "mongo"
	PersistencePostgres = "postgres"
	PersistenceFile     = "file"
)

// PersistenceConfig selects and configures the verification record store.
type PersistenceConfig struct {
	Type          string `env:"PERSISTENCE_TYPE" env-default:"mongo" validate:"oneof=mongo postgres file"`
	MongoURI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017" validate:"required_if=Type mongo,omitempty,url"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"login_page" validate:"required_if=Type mongo"`
	DataDir       string `env:"DATA_DIR" env-default:"./data" validate:"required_if=Type file"`
	// Checked only for the postgres store
	DatabaseConfig DatabaseConfig `validate:"-"`
}

func (p PersistenceConfig) Validate() ValidationErrors {
	errs := checkStruct(p)
	if p.Type == PersistencePostgres {
		errs = append(errs, p.DatabaseConfig.Validate()...)
	}
	return errs
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"PG_HOST" env-default:"localhost" validate:"required"`
	Port     uint16 `env:"PG_PORT" env-default:"5432" validate:"required"`
	Database string `env:"PG_DATABASE" env-default:"login_page" validate:"required"`
	User     string `env:"PG_USER" env-default:"login_page" validate:"required"`
	Password string `env:"PG_PASSWORD" env-default:"pwd"`
}

// ToDbConfig converts the config to a db-utils DbConfig
func (d DatabaseConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

func (d DatabaseConfig) Validate() ValidationErrors {
	return checkStruct(d)
}
