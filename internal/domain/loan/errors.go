package loan

import "errors"

var (
	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrEmptyReason is returned when a request carries no reason text
	ErrEmptyReason = errors.New("reason is required")

	// ErrInvalidStatus is returned when a review decision is not a known status
	ErrInvalidStatus = errors.New("invalid loan status")

	// ErrLoanNotFound is returned when the loan doesn't exist
	ErrLoanNotFound = errors.New("loan not found")

	// ErrMemberNotFound is returned when the requesting member doesn't exist
	ErrMemberNotFound = errors.New("member not found")
)
