// Package errors provides the categorized error taxonomy shared by the
// report, access and transport layers.
package errors

import (
	"fmt"
	"net/http"

	"github.com/treasury-reporter/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents rejected user input (4xx)
	CategoryValidation ErrorCategory = "validation"
	// CategoryAuthorization represents access-gate rejections
	CategoryAuthorization ErrorCategory = "authorization"
	// CategoryDataSource represents failures of the external treasury store
	CategoryDataSource ErrorCategory = "data_source"
	// CategoryNotFound represents lookups with no matching record
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryTransport represents chat-gateway delivery failures
	CategoryTransport ErrorCategory = "transport"
	// CategorySystem represents everything else (5xx)
	CategorySystem ErrorCategory = "system"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError for the JSON envelope
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewInvalidInputError creates a validation error for a rejected parameter.
// Rejections happen synchronously, before any fetch.
func NewInvalidInputError(param, reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_INPUT",
		Message:    fmt.Sprintf("invalid %s: %s", param, reason),
		Details: map[string]interface{}{
			"parameter": param,
			"reason":    reason,
		},
	}
}

// NewUnauthorizedError creates an access-gate rejection
func NewUnauthorizedError(chatID string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryAuthorization,
		StatusCode: http.StatusUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    "chat identity is not authorized",
		Details: map[string]interface{}{
			"chatId": chatID,
		},
	}
}

// NewForbiddenEmailError creates a rejection for an email outside the allow-list
func NewForbiddenEmailError(email string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryAuthorization,
		StatusCode: http.StatusForbidden,
		Code:       "EMAIL_NOT_ALLOWED",
		Message:    fmt.Sprintf("email is not on the allow-list: %s", email),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string, key string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// NewDataFetchError wraps a failure of the external treasury store.
// The core never retries these; retry policy belongs to the store client.
func NewDataFetchError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryDataSource,
		StatusCode: http.StatusBadGateway,
		Code:       "DATA_FETCH_FAILED",
		Message:    fmt.Sprintf("treasury data source failed during %s", operation),
		Cause:      cause,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewStoreError wraps a failure of the access/subscriber store
func NewStoreError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       "STORE_ERROR",
		Message:    fmt.Sprintf("registry store failed during %s", operation),
		Cause:      cause,
	}
}

// NewRecipientUnreachableError signals that one broadcast recipient could not
// be delivered to. The broadcast loop drops the recipient and keeps going.
func NewRecipientUnreachableError(chatID string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryTransport,
		StatusCode: http.StatusBadGateway,
		Code:       "RECIPIENT_UNREACHABLE",
		Message:    fmt.Sprintf("recipient unreachable: %s", chatID),
		Cause:      cause,
		Details: map[string]interface{}{
			"chatId": chatID,
		},
	}
}

// NewInternalError creates a generic system error
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Cause:      cause,
	}
}

// Categorize categorizes an existing error, defaulting to internal
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}
	if catErr, ok := err.(*CategorizedError); ok {
		return catErr
	}
	return NewInternalError("unexpected error", err)
}

// GetHTTPStatusCode returns the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsUserError determines if an error is a user error (4xx)
func IsUserError(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}
	return catErr.StatusCode >= 400 && catErr.StatusCode < 500
}

// IsUnreachable reports whether the error signals an undeliverable recipient
func IsUnreachable(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == CategoryTransport
}
