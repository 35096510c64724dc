package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Validation creates a domain error that maps to 400 Bad Request
func Validation(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Unauthorized creates a domain error that maps to 401 Unauthorized
func Unauthorized(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message)
}

// Forbidden creates a domain error that maps to 403 Forbidden
func Forbidden(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

// NotFound creates a domain error that maps to 404 Not Found
func NotFound(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// Internal creates a domain error that maps to 500 Internal Server Error
func Internal(message string) *DomainError {
	return NewDomainError(CodeInternal, message)
}

// Error kind codes carried by DomainError
const (
	CodeValidation   = "VALIDATION"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrUnauthorized      = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden         = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidInput      = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInsufficientStock = NewDomainError(CodeValidation, "Insufficient stock available")
)
