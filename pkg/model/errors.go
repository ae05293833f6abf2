package model

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidTimeRange       = errors.New("invalid time range")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrStorage wraps failures of the persistence layer. The driver error stays in the chain.
	ErrStorage = errors.New("storage failure")
)
