package emailverification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/suyashdwivedi2003/login-page/pkg/errors"
	"github.com/suyashdwivedi2003/login-page/pkg/notification"
)

const defaultMaxIssueAttempts = 3

const (
	MsgEmailRequired = "Email is required"
	MsgDeliveryError = "Failed to send email. Check server logs."
	MsgStorageError  = "Failed to save verification. Check server logs."
)

// Dispatcher delivers a rendered notification. *notification.NotificationManager
// satisfies it.
type Dispatcher interface {
	Send(ctx context.Context, noticeType notification.NoticeType, system notification.NotificationSystem, data notification.NotificationData) (*notification.Receipt, error)
}

// IssueStatus is the result of a verification request
type IssueStatus string

const (
	IssueSent            IssueStatus = "sent"
	IssueAlreadyVerified IssueStatus = "already_verified"
)

// IssueResult describes a handled verification request
type IssueResult struct {
	Status  IssueStatus
	Email   string
	Receipt *notification.Receipt
}

// VerifyOutcome is the result of visiting a verification link
type VerifyOutcome string

const (
	VerifySuccess  VerifyOutcome = "success"
	VerifyNotFound VerifyOutcome = "not_found"
)

// EmailVerificationService handles email verification operations
type EmailVerificationService struct {
	repo             EmailVerificationRepository
	issuer           *Issuer
	dispatcher       Dispatcher
	metrics          *Metrics
	maxIssueAttempts int
}

// EmailVerificationServiceOption defines configuration options
type EmailVerificationServiceOption func(*EmailVerificationService)

// WithMetrics records request, verification and delivery counts on m
func WithMetrics(m *Metrics) EmailVerificationServiceOption {
	return func(s *EmailVerificationService) {
		s.metrics = m
	}
}

// WithMaxIssueAttempts sets how many tokens are tried when the store reports
// a duplicate token
func WithMaxIssueAttempts(n int) EmailVerificationServiceOption {
	return func(s *EmailVerificationService) {
		if n > 0 {
			s.maxIssueAttempts = n
		}
	}
}

// NewEmailVerificationService creates a new email verification service
func NewEmailVerificationService(
	repo EmailVerificationRepository,
	issuer *Issuer,
	dispatcher Dispatcher,
	opts ...EmailVerificationServiceOption,
) *EmailVerificationService {
	service := &EmailVerificationService{
		repo:             repo,
		issuer:           issuer,
		dispatcher:       dispatcher,
		maxIssueAttempts: defaultMaxIssueAttempts,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RequestVerification issues a new token for email, stores it and mails the
// verification link. An email that is already verified is left untouched.
func (s *EmailVerificationService) RequestVerification(ctx context.Context, email string) (*IssueResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		s.metrics.request("invalid")
		return nil, apperrors.Validation(MsgEmailRequired).WithDetail("field", "email")
	}

	previous, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		slog.Error("Failed to look up verification record", "email", email, "error", err)
		s.metrics.request("storage_error")
		return nil, apperrors.Storage(err, MsgStorageError)
	}
	if previous != nil && previous.IsVerified {
		slog.Info("Email already verified", "email", email)
		s.metrics.request("already_verified")
		return &IssueResult{Status: IssueAlreadyVerified, Email: email}, nil
	}

	issued, err := s.upsertToken(ctx, email)
	if err != nil {
		s.metrics.request("storage_error")
		return nil, err
	}

	receipt, err := s.dispatcher.Send(ctx, notification.EmailVerification, notification.EmailSystem, notification.NotificationData{
		To: email,
		Data: map[string]string{
			"VerificationLink": issued.Link,
		},
	})
	if err != nil {
		slog.Error("Failed to send verification email", "email", email, "error", err)
		s.metrics.delivery("failure")
		s.metrics.request("delivery_error")
		deliveryErr := apperrors.Delivery(err, MsgDeliveryError)
		if cerr := s.compensate(ctx, email, issued.Token, previous); cerr != nil {
			slog.Error("Failed to undo verification record after delivery failure", "email", email, "error", cerr)
			return nil, errors.Join(deliveryErr, cerr)
		}
		return nil, deliveryErr
	}

	s.metrics.delivery("success")
	s.metrics.request("sent")
	slog.Info("Verification email sent", "email", email, "message_id", receipt.MessageID)
	return &IssueResult{Status: IssueSent, Email: email, Receipt: receipt}, nil
}

// upsertToken stores a fresh token for email, retrying with a new token when
// the store reports a collision.
func (s *EmailVerificationService) upsertToken(ctx context.Context, email string) (*IssuedToken, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxIssueAttempts; attempt++ {
		issued, err := s.issuer.Issue(email)
		if err != nil {
			return nil, apperrors.InternalWrap(err, "Failed to generate token")
		}

		_, err = s.repo.Upsert(ctx, email, issued.Token)
		if err == nil {
			return issued, nil
		}
		switch {
		case errors.Is(err, ErrDuplicateToken):
			slog.Warn("Verification token collision, retrying", "email", email, "attempt", attempt)
		case errors.Is(err, ErrDuplicateKey):
			slog.Warn("Concurrent request created the record, retrying", "email", email, "attempt", attempt)
		default:
			slog.Error("Failed to store verification token", "email", email, "error", err)
			return nil, apperrors.Storage(err, MsgStorageError)
		}
		lastErr = err
	}

	return nil, apperrors.Storage(
		fmt.Errorf("gave up after %d attempts: %w", s.maxIssueAttempts, lastErr),
		MsgStorageError,
	)
}

// compensate undoes the upsert of a request whose mail could not be sent.
// token is the one this request stored and previous the record as it was
// before, nil if there was none. A record that no longer holds token belongs
// to a later request and is left alone.
func (s *EmailVerificationService) compensate(ctx context.Context, email, token string, previous *VerificationRecord) error {
	ctx = context.WithoutCancel(ctx)

	var err error
	if previous == nil {
		err = s.repo.DeleteIfToken(ctx, email, token)
	} else {
		err = s.repo.RestoreToken(ctx, email, token, previous.Token)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRecordNotFound):
		slog.Info("Verification record replaced by a later request, keeping it", "email", email)
		return nil
	case previous == nil:
		return fmt.Errorf("failed to delete verification record: %w", err)
	default:
		return fmt.Errorf("failed to restore previous verification token: %w", err)
	}
}

// VerifyEmail consumes token. Unknown, replaced and already used tokens all
// yield VerifyNotFound.
func (s *EmailVerificationService) VerifyEmail(ctx context.Context, token string) (VerifyOutcome, error) {
	if token == "" {
		s.metrics.verification(string(VerifyNotFound))
		return VerifyNotFound, nil
	}

	record, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			s.metrics.verification(string(VerifyNotFound))
			return VerifyNotFound, nil
		}
		slog.Error("Failed to look up verification token", "error", err)
		s.metrics.verification("error")
		return "", apperrors.Storage(err, MsgStorageError)
	}

	if err := s.repo.MarkVerified(ctx, record); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			slog.Warn("Verification token replaced before it could be used", "email", record.Email)
			s.metrics.verification(string(VerifyNotFound))
			return VerifyNotFound, nil
		}
		slog.Error("Failed to mark email as verified", "email", record.Email, "error", err)
		s.metrics.verification("error")
		return "", apperrors.Storage(err, MsgStorageError)
	}

	slog.Info("Email verified successfully", "email", record.Email, "record_id", record.ID)
	s.metrics.verification(string(VerifySuccess))
	return VerifySuccess, nil
}

// GetVerificationStatus returns the record for email. The token is never
// exposed through it.
func (s *EmailVerificationService) GetVerificationStatus(ctx context.Context, email string) (*VerificationRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.Validation(MsgEmailRequired).WithDetail("field", "email")
	}

	record, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, err
		}
		slog.Error("Failed to get verification status", "email", email, "error", err)
		return nil, apperrors.Storage(err, MsgStorageError)
	}

	record.Token = ""
	return record, nil
}
