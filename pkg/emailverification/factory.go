package emailverification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// RepositoryConfig contains configuration for creating an email verification repository
type RepositoryConfig struct {
	// MongoDatabase is required for MongoDB repositories
	MongoDatabase *mongo.Database
	// Pool is required for PostgreSQL repositories
	Pool *pgxpool.Pool
	// DataDir is required for file-based repositories
	DataDir string
}

// NewEmailVerificationRepository creates a repository for the persistence type
// and makes sure its indexes or schema exist.
func NewEmailVerificationRepository(ctx context.Context, persistenceType string, config RepositoryConfig) (EmailVerificationRepository, error) {
	switch persistenceType {
	case "mongo", "mongodb":
		if config.MongoDatabase == nil {
			return nil, fmt.Errorf("mongo database required for mongo repository")
		}
		repo := NewMongoEmailVerificationRepository(config.MongoDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case "postgres", "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		repo := NewPostgresEmailVerificationRepository(config.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileEmailVerificationRepository(config.DataDir)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: mongo, postgres, file)", persistenceType)
	}
}
