package services

import "errors"

// Sentinel errors for the service layer. Handlers map these to status
// codes; raw database error text never reaches a response.
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenInvalidOrExpired  = errors.New("invalid or expired token")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrDuplicateEmail         = errors.New("email already in use")
	ErrDuplicateParcelID      = errors.New("parcel id already in use")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidMethod          = errors.New("invalid payment method")
	// ErrDeliveryFailure reports a failed reset email. It is non-fatal:
	// the token row is already committed when it is returned.
	ErrDeliveryFailure = errors.New("email delivery failed")
)
