package emailverification

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const verificationFileName = "email_verification.json"

// FileEmailVerificationRepository implements EmailVerificationRepository using file-based storage
type FileEmailVerificationRepository struct {
	dataDir string
	records map[string]*VerificationRecord // Key: email
	mutex   sync.RWMutex
}

// emailVerificationData represents the structure of data stored in the JSON file
type emailVerificationData struct {
	Records []*VerificationRecord `json:"records"`
}

// NewFileEmailVerificationRepository creates a new file-based email verification repository
func NewFileEmailVerificationRepository(dataDir string) (*FileEmailVerificationRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileEmailVerificationRepository{
		dataDir: dataDir,
		records: make(map[string]*VerificationRecord),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// Upsert creates or resets the record for email
func (r *FileEmailVerificationRepository) Upsert(ctx context.Context, email, token string) (*VerificationRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, rec := range r.records {
		if rec.Token == token && rec.Email != email {
			return nil, ErrDuplicateToken
		}
	}

	now := time.Now().UTC()
	previous, exists := r.records[email]

	var rec VerificationRecord
	if exists {
		rec = *previous
	} else {
		rec = VerificationRecord{
			ID:        uuid.NewString(),
			Email:     email,
			CreatedAt: now,
		}
	}
	rec.Token = token
	rec.IsVerified = false
	rec.VerifiedAt = nil
	rec.UpdatedAt = now

	r.records[email] = &rec

	if err := r.save(); err != nil {
		if exists {
			r.records[email] = previous
		} else {
			delete(r.records, email)
		}
		return nil, fmt.Errorf("failed to save: %w", err)
	}

	recCopy := rec
	return &recCopy, nil
}

// FindByToken retrieves the record currently holding token
func (r *FileEmailVerificationRepository) FindByToken(ctx context.Context, token string) (*VerificationRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if token == "" {
		return nil, ErrRecordNotFound
	}

	for _, rec := range r.records {
		if rec.Token == token {
			recCopy := *rec
			return &recCopy, nil
		}
	}

	return nil, ErrRecordNotFound
}

// FindByEmail retrieves the record for email
func (r *FileEmailVerificationRepository) FindByEmail(ctx context.Context, email string) (*VerificationRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, exists := r.records[email]
	if !exists {
		return nil, ErrRecordNotFound
	}

	recCopy := *rec
	return &recCopy, nil
}

// MarkVerified marks the record verified and clears its token
func (r *FileEmailVerificationRepository) MarkVerified(ctx context.Context, record *VerificationRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, exists := r.records[record.Email]
	if !exists || previous.Token == "" || previous.Token != record.Token {
		return ErrRecordNotFound
	}

	now := time.Now().UTC()
	rec := *previous
	rec.IsVerified = true
	rec.Token = ""
	rec.VerifiedAt = &now
	rec.UpdatedAt = now

	r.records[record.Email] = &rec

	if err := r.save(); err != nil {
		r.records[record.Email] = previous
		return fmt.Errorf("failed to save: %w", err)
	}

	*record = rec
	return nil
}

// DeleteIfToken removes the record for email while it still holds token
func (r *FileEmailVerificationRepository) DeleteIfToken(ctx context.Context, email, token string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, exists := r.records[email]
	if !exists || previous.Token == "" || previous.Token != token {
		return ErrRecordNotFound
	}

	delete(r.records, email)

	if err := r.save(); err != nil {
		r.records[email] = previous
		return fmt.Errorf("failed to save: %w", err)
	}

	return nil
}

// RestoreToken swaps expected back to previous on the record for email
func (r *FileEmailVerificationRepository) RestoreToken(ctx context.Context, email, expected, previous string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	current, exists := r.records[email]
	if !exists || current.Token == "" || current.Token != expected {
		return ErrRecordNotFound
	}
	for _, rec := range r.records {
		if rec.Token == previous && rec.Email != email {
			return ErrDuplicateToken
		}
	}

	rec := *current
	rec.Token = previous
	rec.UpdatedAt = time.Now().UTC()

	r.records[email] = &rec

	if err := r.save(); err != nil {
		r.records[email] = current
		return fmt.Errorf("failed to save: %w", err)
	}

	return nil
}

// load reads verification records from file
func (r *FileEmailVerificationRepository) load() error {
	filePath := filepath.Join(r.dataDir, verificationFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var evData emailVerificationData
	if err := json.Unmarshal(data, &evData); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.records = make(map[string]*VerificationRecord, len(evData.Records))
	for _, rec := range evData.Records {
		r.records[rec.Email] = rec
	}

	return nil
}

// save writes verification records to file atomically
func (r *FileEmailVerificationRepository) save() error {
	records := make([]*VerificationRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}

	jsonData, err := json.MarshalIndent(emailVerificationData{Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, verificationFileName+".tmp")
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, verificationFileName)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
