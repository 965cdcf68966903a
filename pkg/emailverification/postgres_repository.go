package emailverification

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var postgresSchema string

const (
	recordColumns = "id, email, token, is_verified, created_at, updated_at, verified_at"

	uniqueViolation = "23505"
	tokenIndex      = "email_verifications_token_key"
)

// PostgresEmailVerificationRepository handles database operations for email verification
type PostgresEmailVerificationRepository struct {
	db *pgxpool.Pool
}

// NewPostgresEmailVerificationRepository creates a new PostgreSQL-backed repository
func NewPostgresEmailVerificationRepository(db *pgxpool.Pool) *PostgresEmailVerificationRepository {
	return &PostgresEmailVerificationRepository{db: db}
}

// EnsureSchema creates the email_verifications table and its indexes if missing
func (r *PostgresEmailVerificationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create email_verifications schema: %w", err)
	}
	return nil
}

// Upsert creates or resets the record for email
func (r *PostgresEmailVerificationRepository) Upsert(ctx context.Context, email, token string) (*VerificationRecord, error) {
	query := `
		INSERT INTO email_verifications (id, email, token, is_verified)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (email) DO UPDATE
		SET token = EXCLUDED.token,
		    is_verified = FALSE,
		    verified_at = NULL,
		    updated_at = NOW()
		RETURNING ` + recordColumns

	record, err := scanRecord(r.db.QueryRow(ctx, query, uuid.NewString(), email, token))
	if err != nil {
		return nil, uniqueViolationError(err)
	}

	return record, nil
}

// FindByToken retrieves the record currently holding token
func (r *PostgresEmailVerificationRepository) FindByToken(ctx context.Context, token string) (*VerificationRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM email_verifications
		WHERE token = $1
	`
	return scanRecord(r.db.QueryRow(ctx, query, token))
}

// FindByEmail retrieves the record for email
func (r *PostgresEmailVerificationRepository) FindByEmail(ctx context.Context, email string) (*VerificationRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM email_verifications
		WHERE email = $1
	`
	return scanRecord(r.db.QueryRow(ctx, query, email))
}

// MarkVerified marks the record verified and clears its token
func (r *PostgresEmailVerificationRepository) MarkVerified(ctx context.Context, record *VerificationRecord) error {
	query := `
		UPDATE email_verifications
		SET is_verified = TRUE,
		    token = NULL,
		    verified_at = NOW(),
		    updated_at = NOW()
		WHERE email = $1
		AND token = $2
		RETURNING ` + recordColumns

	updated, err := scanRecord(r.db.QueryRow(ctx, query, record.Email, record.Token))
	if err != nil {
		return err
	}

	*record = *updated
	return nil
}

// DeleteIfToken removes the record for email while it still holds token
func (r *PostgresEmailVerificationRepository) DeleteIfToken(ctx context.Context, email, token string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM email_verifications WHERE email = $1 AND token = $2`, email, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// RestoreToken swaps expected back to previous on the record for email
func (r *PostgresEmailVerificationRepository) RestoreToken(ctx context.Context, email, expected, previous string) error {
	query := `
		UPDATE email_verifications
		SET token = $3,
		    updated_at = NOW()
		WHERE email = $1
		AND token = $2
	`
	tag, err := r.db.Exec(ctx, query, email, expected, previous)
	if err != nil {
		return uniqueViolationError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// uniqueViolationError maps a unique violation to ErrDuplicateToken or
// ErrDuplicateKey depending on the index that rejected the row.
func uniqueViolationError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if pgErr.ConstraintName == tokenIndex {
		return ErrDuplicateToken
	}
	return ErrDuplicateKey
}

func scanRecord(row pgx.Row) (*VerificationRecord, error) {
	var record VerificationRecord
	var token *string
	err := row.Scan(
		&record.ID,
		&record.Email,
		&token,
		&record.IsVerified,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.VerifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if token != nil {
		record.Token = *token
	}
	return &record, nil
}
