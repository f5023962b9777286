package member

import "errors"

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrMissingUsername = errors.New("username is required")
	ErrNothingToUpdate = errors.New("no fields to update")
)
