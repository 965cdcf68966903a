// Package errors provides structured errors with codes for the verification service.
//
// Every failure that reaches an HTTP handler is one of three kinds:
//
//   - ErrCodeValidationFailed: the caller sent missing or malformed input (400)
//   - ErrCodeStorage: the record store could not be read or written (500)
//   - ErrCodeDelivery: the mail provider rejected or never received the message (500)
//
// Anything else is reported as ErrCodeInternal.
//
// # Usage
//
//	err := errors.Validation("Email is required").WithDetail("field", "email")
//	err := errors.Storage(dbErr, "failed to save verification record")
//	err := errors.Delivery(smtpErr, "failed to send verification email")
//
//	if errors.IsCode(err, errors.ErrCodeValidationFailed) {
//		...
//	}
//	var e *errors.Error
//	if stderrors.As(err, &e) {
//		status := e.HTTPStatusCode()
//		...
//	}
//
// Error wraps the underlying cause, so the standard library's errors.Is and
// errors.As keep working on the result.
package errors
