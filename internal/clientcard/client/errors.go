package client

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for CSPC calls.
type ErrorCategory string

const (
	// ErrorTimeout indicates CSPC took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates CSPC returned invalid/malformed data
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates CSPC is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorNotFound indicates the requested client card doesn't exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorCircuitOpen indicates the call was short-circuited
	ErrorCircuitOpen ErrorCategory = "circuit_open"

	// ErrorInvalidRequest indicates the lookup key was unusable
	ErrorInvalidRequest ErrorCategory = "invalid_request"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// LookupError wraps CSPC failures with normalized categorization
type LookupError struct {
	Category   ErrorCategory
	ClientID   string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *LookupError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("cspc lookup %s [%s]: %s: %v", e.ClientID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("cspc lookup %s [%s]: %s", e.ClientID, e.Category, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Underlying
}

// NewLookupError creates a new normalized lookup error
func NewLookupError(category ErrorCategory, clientID, message string, underlying error) *LookupError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited

	return &LookupError{
		Category:   category,
		ClientID:   clientID,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category
	}
	return ErrorInternal
}

// countsAgainstCircuit reports whether a failure says something about CSPC health.
func countsAgainstCircuit(category ErrorCategory) bool {
	switch category {
	case ErrorTimeout, ErrorProviderOutage, ErrorRateLimited, ErrorBadData:
		return true
	default:
		return false
	}
}
