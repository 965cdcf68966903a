package emailverification

import (
	"context"
	"time"
)

// VerificationRecord is the verification state of one email address.
// Token is empty once the email is verified.
type VerificationRecord struct {
	ID         string     `json:"id" bson:"_id"`
	Email      string     `json:"email" bson:"email"`
	Token      string     `json:"token,omitempty" bson:"token,omitempty"`
	IsVerified bool       `json:"isVerified" bson:"isVerified"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
}

// EmailVerificationRepository defines the storage operations for verification records
type EmailVerificationRepository interface {
	// Upsert creates the record for email or replaces its token, resetting it to pending.
	Upsert(ctx context.Context, email, token string) (*VerificationRecord, error)
	FindByToken(ctx context.Context, token string) (*VerificationRecord, error)
	FindByEmail(ctx context.Context, email string) (*VerificationRecord, error)
	// MarkVerified sets the record verified and clears its token in one write,
	// provided the stored token still equals record.Token. The record is
	// updated in place on success.
	MarkVerified(ctx context.Context, record *VerificationRecord) error
	// DeleteIfToken removes the record for email only while it still holds
	// token. ErrRecordNotFound means the record is gone or holds another token.
	DeleteIfToken(ctx context.Context, email, token string) error
	// RestoreToken puts previous back as the token of email, provided the
	// stored token is still expected. It fails with ErrRecordNotFound otherwise.
	RestoreToken(ctx context.Context, email, expected, previous string) error
}
