package api

import "time"

// SendVerificationRequest represents the request to send a verification link
type SendVerificationRequest struct {
	Email string `json:"email"`
}

// MessageResponse is the body of every JSON reply from the issuance endpoint,
// successful or not
type MessageResponse struct {
	Message string `json:"message"`
}

// VerificationStatusResponse represents the verification status of an email
type VerificationStatusResponse struct {
	Email      string     `json:"email"`
	IsVerified bool       `json:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}
