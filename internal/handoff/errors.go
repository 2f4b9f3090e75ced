package handoff

import "errors"

// Verification failures. The HTTP edge collapses all of these into one
// user-facing message so callers cannot probe which case they hit; logs keep
// the distinction.
var (
	ErrInvalidFormat = errors.New("transfer token has invalid format")
	ErrExpired       = errors.New("transfer token expired")
	ErrNotFound      = errors.New("transfer token not found")
	ErrAlreadyUsed   = errors.New("transfer token already used")
)
