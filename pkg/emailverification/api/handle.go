package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	"github.com/suyashdwivedi2003/login-page/pkg/emailverification"
	apperrors "github.com/suyashdwivedi2003/login-page/pkg/errors"
)

const (
	defaultSuccessRedirect = "/index.html?verified=1"

	msgVerificationSent    = "Verification link sent to your email."
	msgAlreadyVerified     = "Email is already verified."
	msgInvalidRequestBody  = "Invalid request body"
	msgInvalidToken        = "Invalid or expired token."
	msgSomethingWentWrong  = "Something went wrong."
	msgVerificationMissing = "No verification found for this email"
)

// Handler serves the email verification endpoints
type Handler struct {
	service         *emailverification.EmailVerificationService
	successRedirect string
}

// Option configures a Handler
type Option func(*Handler)

// WithSuccessRedirect sets where a successful verification redirects to
func WithSuccessRedirect(target string) Option {
	return func(h *Handler) {
		if target != "" {
			h.successRedirect = target
		}
	}
}

// NewHandler creates a new email verification API handler
func NewHandler(service *emailverification.EmailVerificationService, opts ...Option) *Handler {
	h := &Handler{
		service:         service,
		successRedirect: defaultSuccessRedirect,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SendVerification handles POST /auth/send-verification
func (h *Handler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req SendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: msgInvalidRequestBody})
		return
	}

	result, err := h.service.RequestVerification(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err, "Failed to send verification")
		return
	}

	message := msgVerificationSent
	if result.Status == emailverification.IssueAlreadyVerified {
		message = msgAlreadyVerified
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: message})
}

// VerifyEmail handles GET /verify?token=
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	outcome, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		slog.Error("Failed to verify email", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, msgSomethingWentWrong)
		return
	}

	if outcome != emailverification.VerifySuccess {
		render.Status(r, http.StatusOK)
		render.PlainText(w, r, msgInvalidToken)
		return
	}

	http.Redirect(w, r, h.successRedirect, http.StatusFound)
}

// GetVerificationStatus handles GET /auth/verification-status?email=
func (h *Handler) GetVerificationStatus(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetVerificationStatus(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		if errors.Is(err, emailverification.ErrRecordNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, MessageResponse{Message: msgVerificationMissing})
			return
		}
		writeError(w, r, err, "Failed to get verification status")
		return
	}

	var resp VerificationStatusResponse
	if err := copier.Copy(&resp, record); err != nil {
		slog.Error("Failed to map verification status", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: msgSomethingWentWrong})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// writeError renders err as a MessageResponse with the status of its error
// code. Errors without a code are reported as 500 with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Message == "" {
		slog.Error(logMsg, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: msgSomethingWentWrong})
		return
	}

	status := appErr.HTTPStatusCode()
	if status >= http.StatusInternalServerError {
		slog.Error(logMsg, "code", appErr.Code, "error", err)
	} else {
		slog.Warn(logMsg, "code", appErr.Code, "details", appErr.Details)
	}

	render.Status(r, status)
	render.JSON(w, r, MessageResponse{Message: appErr.Message})
}
