package services

import "errors"

// Service-level errors. Handlers translate these to HTTP statuses; the
// repositories underneath only ever surface pgx errors.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("caller does not own this resource")
	ErrUnauthorizedActor = errors.New("caller may not act on this request")
	ErrInvalidState      = errors.New("request is not pending")
	ErrInvalidRole       = errors.New("role not allowed for this operation")
	ErrDuplicateRequest  = errors.New("a pending request already exists between these users")
	ErrAlreadyConnected  = errors.New("member and coach are already connected")
	ErrNotConnected      = errors.New("member and coach are not connected")
	ErrInvalidOptions    = errors.New("exactly three future time options are required")
	ErrInvalidOption     = errors.New("chosen option is out of range")
	ErrInvalidInput      = errors.New("invalid input")
)
