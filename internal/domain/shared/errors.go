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

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")

	// ErrConflict signals a concurrent-writer collision (duplicate business
	// code, lock wait timeout). The operation is rolled back as a whole and is
	// safe to retry.
	ErrConflict = NewDomainError("CONFLICT", "Operation conflicted with a concurrent writer")

	// ErrOrderLocked rejects deletion of a purchase order that still has
	// stock receipts referencing it.
	ErrOrderLocked = NewDomainError("ORDER_LOCKED", "Purchase order has linked receipts and cannot be deleted")
)
