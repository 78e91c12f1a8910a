package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidPath      = errors.New("invalid category path")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
