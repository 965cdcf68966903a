package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suyashdwivedi2003/login-page/pkg/config"
	"github.com/suyashdwivedi2003/login-page/pkg/emailverification"
	dbutils "github.com/tendant/db-utils/db"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storage owns the database connection behind the repository
type storage struct {
	emailverification.RepositoryConfig

	mongoClient *mongo.Client
	pool        *pgxpool.Pool
}

func openStorage(ctx context.Context, cfg config.PersistenceConfig) (*storage, error) {
	switch cfg.Type {
	case config.PersistenceMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		slog.Info("Connected to MongoDB", "database", cfg.MongoDatabase)
		return &storage{
			RepositoryConfig: emailverification.RepositoryConfig{MongoDatabase: client.Database(cfg.MongoDatabase)},
			mongoClient:      client,
		}, nil

	case config.PersistencePostgres:
		dbConfig := cfg.DatabaseConfig.ToDbConfig()
		pool, err := dbutils.NewDbPool(ctx, dbConfig)
		if err != nil {
			slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
			return nil, fmt.Errorf("failed to create db pool: %w", err)
		}
		return &storage{
			RepositoryConfig: emailverification.RepositoryConfig{Pool: pool},
			pool:             pool,
		}, nil

	case config.PersistenceFile:
		slog.Info("Using file storage", "data_dir", cfg.DataDir)
		return &storage{
			RepositoryConfig: emailverification.RepositoryConfig{DataDir: cfg.DataDir},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported persistence type: %s", cfg.Type)
	}
}

func (s *storage) Close() {
	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from mongo", "error", err)
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
