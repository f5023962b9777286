package ledger

import "errors"

var (
	// ErrNotFound is returned when a referenced id is unknown to the store
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when creating an entity whose id already exists
	ErrDuplicateID = errors.New("duplicate id")

	// ErrMissingMember is returned when a row references an empty member id
	ErrMissingMember = errors.New("member id is required")

	// ErrMissingAdmin is returned when an audit entry has no acting admin
	ErrMissingAdmin = errors.New("admin id is required")
)
