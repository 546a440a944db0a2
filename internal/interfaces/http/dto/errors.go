package dto

import (
	"net/http"
	"strings"
)

// Error codes shared with the domain layer. Domain errors carry these codes
// directly; the HTTP layer only maps them to status codes.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for concurrent-writer collisions; safe to retry
	ErrCodeConflict = "CONFLICT"
	// ErrCodeInsufficientStock is used when an issue exceeds the stock on hand
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	// ErrCodeOrderLocked is used when deleting an order that still has receipts
	ErrCodeOrderLocked = "ORDER_LOCKED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	// Conflicts -> 409: the request was well-formed but collided with the
	// current state, retrying may succeed (CONFLICT) or requires a state
	// change first (INSUFFICIENT_STOCK, ORDER_LOCKED).
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeInsufficientStock: http.StatusConflict,
	ErrCodeOrderLocked:       http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code. Validation
// codes (INVALID_*) map to 400; anything unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
