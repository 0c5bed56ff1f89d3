package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileAccess        ErrorType = "FILE_ACCESS"
	ErrTypeStructural        ErrorType = "STRUCTURAL"
	ErrTypeContextResolution ErrorType = "CONTEXT_RESOLUTION"
	ErrTypeDateParse         ErrorType = "DATE_PARSE"
	ErrTypeNameCollision     ErrorType = "NAME_COLLISION"
	ErrTypeNoData            ErrorType = "NO_DATA"
	ErrTypeConfig            ErrorType = "CONFIG"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeUnknown           ErrorType = "UNKNOWN"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the type of the outermost AppError in err's chain,
// ErrTypeUnknown when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeUnknown
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// NewFileAccessError creates an error for an input that cannot be opened or read
func NewFileAccessError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFileAccess, message, cause)
}

// NewStructuralError creates an error for an input that violates the wide layout
func NewStructuralError(message string) *AppError {
	return NewAppError(ErrTypeStructural, message, nil)
}

// NewContextResolutionError creates an error for a name lacking a month or year
func NewContextResolutionError(message string) *AppError {
	return NewAppError(ErrTypeContextResolution, message, nil)
}

// NewDateParseError creates an error for a day header that is not a valid day of the period
func NewDateParseError(message string) *AppError {
	return NewAppError(ErrTypeDateParse, message, nil)
}

// NewNameCollisionError creates an error for two metric labels standardizing to one column
func NewNameCollisionError(message string) *AppError {
	return NewAppError(ErrTypeNameCollision, message, nil)
}

// NewNoDataError creates the terminal batch error
func NewNoDataError(message string) *AppError {
	return NewAppError(ErrTypeNoData, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}
