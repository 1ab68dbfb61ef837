// Package apperror defines the application's error taxonomy and its mapping
// to HTTP responses. Services return typed errors; the handler layer converts
// them to a consistent JSON shape without leaking internals.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unclassified errors.
	UnknownError ErrorType = iota
	// AuthenticationError covers bad credentials and temporarily locked accounts.
	AuthenticationError
	// AuthorizationError covers ownership mismatches on otherwise valid requests.
	AuthorizationError
	// ConflictError covers registration conflicts (username or email taken).
	ConflictError
	// NotFoundError covers lookups of missing resources.
	NotFoundError
	// ValidationError covers malformed or rejected input.
	ValidationError
	// BadRequestError covers undecodable request payloads.
	BadRequestError
	// DatabaseError covers persistence failures.
	DatabaseError
	// ConfigError covers invalid application configuration.
	ConfigError
	// InternalError covers unexpected server-side failures.
	InternalError
)

// AppError carries a machine-readable kind, a human message, optional
// structured details, and an optional wrapped cause. The cause is for
// server-side logs only; it is never serialized into responses.
type AppError struct {
	Type    ErrorType
	Message string
	Details map[string]any
	Err     error
}

// Error satisfies the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches structured details and returns the error for chaining.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// StatusCode maps the error type to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthenticationError:
		return http.StatusUnauthorized
	case AuthorizationError:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusUnprocessableEntity
	case BadRequestError:
		return http.StatusBadRequest
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates an AppError of an arbitrary type.
func NewAppError(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

// NewAuthenticationError creates an authentication failure (HTTP 401).
func NewAuthenticationError(message string, err error) *AppError {
	return NewAppError(AuthenticationError, message, err)
}

// NewAuthorizationError creates an ownership/permission failure (HTTP 403).
func NewAuthorizationError(message string, err error) *AppError {
	return NewAppError(AuthorizationError, message, err)
}

// NewConflictError creates an already-exists failure (HTTP 409).
func NewConflictError(message string, err error) *AppError {
	return NewAppError(ConflictError, message, err)
}

// NewNotFoundError creates a missing-resource failure (HTTP 404).
func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(NotFoundError, message, err)
}

// NewValidationError creates an input validation failure (HTTP 422).
func NewValidationError(message string, err error) *AppError {
	return NewAppError(ValidationError, message, err)
}

// NewBadRequestError creates a malformed-request failure (HTTP 400).
func NewBadRequestError(message string, err error) *AppError {
	return NewAppError(BadRequestError, message, err)
}

// NewDatabaseError creates a persistence failure (HTTP 500).
func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(DatabaseError, message, err)
}

// NewConfigError creates a configuration failure (HTTP 500).
func NewConfigError(message string, err error) *AppError {
	return NewAppError(ConfigError, message, err)
}

// NewInternalError creates a generic internal failure (HTTP 500).
func NewInternalError(message string, err error) *AppError {
	return NewAppError(InternalError, message, err)
}

// ErrorResponse is the JSON shape of every error returned to API clients.
type ErrorResponse struct {
	Error   string         `json:"error" example:"a description of the error"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to its client-facing representation.
// Only Message and Details are exposed; the wrapped cause stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Details: e.Details}
}

// FromError extracts an *AppError from err, reporting whether it found one.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAuthenticationError reports whether err is an authentication failure.
func IsAuthenticationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthenticationError
}

// IsAuthorizationError reports whether err is an authorization failure.
func IsAuthorizationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthorizationError
}

// IsConflictError reports whether err is a conflict.
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsNotFoundError reports whether err is a missing-resource failure.
func IsNotFoundError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsValidationError reports whether err is a validation failure.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsDatabaseError reports whether err is a persistence failure.
func IsDatabaseError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == DatabaseError
}
