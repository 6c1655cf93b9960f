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

// Error codes used across the ledger domain
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidationError     = "VALIDATION_ERROR"
	CodePolicyViolation     = "POLICY_VIOLATION"
	CodeConsistencyError    = "CONSISTENCY_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidationError, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
)

// NewValidationError creates a domain error for failed input sanity checks.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationError, message)
}

// NewPolicyViolation creates a domain error for a failed safety check.
// The message is surfaced verbatim to the caller, so it must already be
// human readable.
func NewPolicyViolation(message string) *DomainError {
	return NewDomainError(CodePolicyViolation, message)
}

// NewConsistencyError creates a domain error for missing required linkage
// discovered at persist time.
func NewConsistencyError(message string) *DomainError {
	return NewDomainError(CodeConsistencyError, message)
}
