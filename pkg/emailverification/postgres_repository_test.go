package emailverification

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresPool(t *testing.T) *pgxpool.Pool {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("login_page"),
		postgres.WithUsername("login_page"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresEmailVerificationRepository_Contract(t *testing.T) {
	pool := setupPostgresPool(t)

	repo, err := NewEmailVerificationRepository(context.Background(), "postgres", RepositoryConfig{Pool: pool})
	require.NoError(t, err)

	// Running the schema twice must be harmless
	require.NoError(t, repo.(*PostgresEmailVerificationRepository).EnsureSchema(context.Background()))

	testRepositoryContract(t, func(t *testing.T) EmailVerificationRepository {
		_, err := pool.Exec(context.Background(), "TRUNCATE email_verifications")
		require.NoError(t, err)
		return repo
	})
}

func TestUniqueViolationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"TokenIndex", &pgconn.PgError{Code: uniqueViolation, ConstraintName: tokenIndex}, ErrDuplicateToken},
		{"EmailKey", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "email_verifications_email_key"}, ErrDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, uniqueViolationError(tt.err), tt.want)
		})
	}

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, uniqueViolationError(other))
}
