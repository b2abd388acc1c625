package venues

import "errors"

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrPINRequired   = errors.New("pin required")
	ErrPINInvalid    = errors.New("invalid pin")
	ErrMalformedPIN  = errors.New("malformed pin")
	ErrRateLimited   = errors.New("rate limited")
)
