package types

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeInternal       ErrorType = "internal"
)

// CoreError represents a structured error in the coordination core
type CoreError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *CoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *CoreError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *CoreError {
	return &CoreError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *CoreError {
	return &CoreError{Type: ErrorTypeAuthentication, Code: code, Message: message}
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(code, message string) *CoreError {
	return &CoreError{Type: ErrorTypeAuthorization, Code: code, Message: message}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *CoreError {
	return &CoreError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewInternalError creates a new internal error wrapping its cause
func NewInternalError(code, message string, cause error) *CoreError {
	return &CoreError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// IsErrorType reports whether err is a CoreError of the given type.
func IsErrorType(err error, t ErrorType) bool {
	coreErr, ok := err.(*CoreError)
	return ok && coreErr.Type == t
}

// Common error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
)
