package emailverification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const verificationCollection = "verifications"

// MongoEmailVerificationRepository stores one document per email in the
// verifications collection
type MongoEmailVerificationRepository struct {
	coll *mongo.Collection
}

// NewMongoEmailVerificationRepository creates a new MongoDB-backed repository
func NewMongoEmailVerificationRepository(db *mongo.Database) *MongoEmailVerificationRepository {
	return &MongoEmailVerificationRepository{coll: db.Collection(verificationCollection)}
}

// EnsureIndexes creates the unique email index and the unique index on
// token, which only covers documents that still hold a token.
func (r *MongoEmailVerificationRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "token", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("token_unique").
				SetPartialFilterExpression(bson.M{"token": bson.M{"$type": "string"}}),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create verification indexes: %w", err)
	}
	return nil
}

// Upsert creates or resets the record for email
func (r *MongoEmailVerificationRepository) Upsert(ctx context.Context, email, token string) (*VerificationRecord, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"token":      token,
			"isVerified": false,
			"updatedAt":  now,
		},
		"$unset": bson.M{"verifiedAt": ""},
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record VerificationRecord
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyError(err)
		}
		return nil, err
	}

	return &record, nil
}

// FindByToken retrieves the record currently holding token
func (r *MongoEmailVerificationRepository) FindByToken(ctx context.Context, token string) (*VerificationRecord, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

// FindByEmail retrieves the record for email
func (r *MongoEmailVerificationRepository) FindByEmail(ctx context.Context, email string) (*VerificationRecord, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// MarkVerified marks the record verified and removes its token
func (r *MongoEmailVerificationRepository) MarkVerified(ctx context.Context, record *VerificationRecord) error {
	now := time.Now().UTC()
	filter := bson.M{"email": record.Email, "token": record.Token}
	update := bson.M{
		"$set": bson.M{
			"isVerified": true,
			"verifiedAt": now,
			"updatedAt":  now,
		},
		"$unset": bson.M{"token": ""},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}

	record.IsVerified = true
	record.Token = ""
	record.VerifiedAt = &now
	record.UpdatedAt = now
	return nil
}

// DeleteIfToken removes the record for email while it still holds token
func (r *MongoEmailVerificationRepository) DeleteIfToken(ctx context.Context, email, token string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email, "token": token})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// RestoreToken swaps expected back to previous on the record for email
func (r *MongoEmailVerificationRepository) RestoreToken(ctx context.Context, email, expected, previous string) error {
	filter := bson.M{"email": email, "token": expected}
	update := bson.M{
		"$set": bson.M{
			"token":     previous,
			"updatedAt": time.Now().UTC(),
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// duplicateKeyError tells a token collision apart from two upserts racing to
// insert the same new email.
func duplicateKeyError(err error) error {
	if strings.Contains(err.Error(), "token_unique") {
		return ErrDuplicateToken
	}
	return ErrDuplicateKey
}

func (r *MongoEmailVerificationRepository) findOne(ctx context.Context, filter bson.M) (*VerificationRecord, error) {
	var record VerificationRecord
	err := r.coll.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}
