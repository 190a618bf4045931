package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeClientInput indicates a missing or malformed request field
	ErrorTypeClientInput ErrorType = "CLIENT_INPUT"

	// ErrorTypeRemoteAPI indicates a non-success status from the remote platform
	ErrorTypeRemoteAPI ErrorType = "REMOTE_API"

	// ErrorTypeSerialization indicates a stored value that could not be decoded
	ErrorTypeSerialization ErrorType = "SERIALIZATION"

	// ErrorTypeConflict indicates the stored collection moved underneath a write
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeIntegrity indicates remote data that breaks a storage invariant
	ErrorTypeIntegrity ErrorType = "INTEGRITY"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewClientInputError creates a new client input error
func NewClientInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeClientInput,
		Message: message,
	}
}

// NewRemoteAPIError wraps a failed platform call
func NewRemoteAPIError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRemoteAPI,
		Message: message,
		Err:     err,
	}
}

func NewSerializationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSerialization,
		Message: message,
		Err:     err,
	}
}

func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
		Err:     err,
	}
}

func NewIntegrityError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeIntegrity,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// HTTPStatus maps an error to the status code returned to callers.
// Everything that is not the caller's fault collapses into 500.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeClientInput:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show a caller. Client
// input and conflict messages are always shown; anything else is replaced by
// fallback unless expose is set.
func PublicMessage(err error, fallback string, expose bool) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeClientInput, ErrorTypeConflict:
			return appErr.Message
		}
	}
	if expose && err != nil {
		return err.Error()
	}
	return fallback
}

// ErrLockBusy is returned by a product lock that is already held elsewhere.
var ErrLockBusy = stderrors.New("product lock is held by another writer")
