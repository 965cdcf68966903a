package emailverification

import "errors"

var (
	// ErrRecordNotFound is returned when no record matches the lookup, or the
	// record's token changed before it could be marked verified
	ErrRecordNotFound = errors.New("verification record not found")

	// ErrDuplicateToken is returned when a token is already held by another record
	ErrDuplicateToken = errors.New("verification token already in use")

	// ErrDuplicateKey is returned when two writers insert a record for the
	// same new email at once. Repeating the write updates the winner's record.
	ErrDuplicateKey = errors.New("verification record written concurrently")
)
