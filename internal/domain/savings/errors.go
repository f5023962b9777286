package savings

import "errors"

var (
	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrMemberNotFound is returned when the member doesn't exist
	ErrMemberNotFound = errors.New("member not found")
)
