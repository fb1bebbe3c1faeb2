// Package errors provides custom error types for the Portfolio Pulse API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors. Both login failure modes (unknown
// email and wrong password) share ErrInvalidCredentials so the response
// cannot be used to enumerate accounts. ErrRegistrationFailed is likewise
// deliberately generic for duplicate emails.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	ErrRegistrationFailed = &AppError{Code: "REGISTRATION_FAILED", Message: "Registration Failed", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Portfolio errors. Ownership mismatches are reported with the same error as
// absence, so a portfolio owned by another user is indistinguishable from one
// that does not exist.
var (
	ErrPortfolioNotFound = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
)

// Holding errors. Holdings inherit their owner from the parent portfolio and
// follow the same not-found masking as portfolios.
var (
	ErrHoldingNotFound = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found", StatusCode: http.StatusNotFound}
)

// Market data errors.
var (
	ErrQuoteNotFound    = &AppError{Code: "QUOTE_NOT_FOUND", Message: "Quote not found", StatusCode: http.StatusNotFound}
	ErrQuoteUnavailable = &AppError{Code: "QUOTE_UNAVAILABLE", Message: "Market data provider is unavailable", StatusCode: http.StatusServiceUnavailable}
)
