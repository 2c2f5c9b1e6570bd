package domain

import "errors"

// Common business errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")
)

// AppError carries an HTTP status code, a user-facing message and, for
// authorization failures, the policy reason that denied the request.
type AppError struct {
	Code    int    // HTTP status code
	Message string // user-facing message
	Reason  string // authorization denial reason, empty otherwise
	Err     error  // underlying error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Convenience constructors for the common cases

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: 404, Message: msg, Err: ErrNotFound}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: 400, Message: msg, Err: ErrInvalidInput}
}

func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Code: 401, Message: msg, Err: ErrUnauthorized}
}

func NewForbiddenError(msg, reason string) *AppError {
	return &AppError{Code: 403, Message: msg, Reason: reason, Err: ErrForbidden}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Code: 409, Message: msg, Err: ErrAlreadyExists}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Code: 500, Message: msg, Err: err}
}
