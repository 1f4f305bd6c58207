package errors

import (
	"fmt"
	"net/http"
)

// AppError represents an application error
type AppError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewDatabaseError creates a database error
func NewDatabaseError(err error) *AppError {
	return &AppError{
		Message:    "Database error",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInvalidIDError is returned when a path id is not a base-10 integer
func NewInvalidIDError(raw string, err error) *AppError {
	return &AppError{
		Message:    fmt.Sprintf("Invalid car id '%s'", raw),
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(err error) *AppError {
	return &AppError{
		Message:    err.Error(),
		StatusCode: http.StatusConflict,
		Err:        err,
	}
}

// NewUnsupportedMediaTypeError is returned when a request body is not JSON
func NewUnsupportedMediaTypeError(contentType string) *AppError {
	return &AppError{
		Message:    fmt.Sprintf("Unsupported content type '%s'", contentType),
		StatusCode: http.StatusUnsupportedMediaType,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(err error) *AppError {
	return &AppError{
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewJSONError creates a JSON parsing error
func NewJSONError(err error) *AppError {
	return &AppError{
		Message:    "Invalid JSON",
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}
