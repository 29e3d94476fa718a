package models

import "errors"

// Validation sentinels.
var (
	ErrInvalidSetName      = errors.New("set name is required")
	ErrInvalidEmissionName = errors.New("emission name is required")
	ErrNegativeOffset      = errors.New("start offset must not be negative")
)
