// Package errors provides custom error types for the Investrack API.
// All store- and service-layer errors should use AppError to ensure
// consistent, typed error responses that never leak internal details
// to clients.
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

// General errors.
var (
	ErrInvalidInput        = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound            = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer      = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrConstraintViolation = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "A record with this key already exists", StatusCode: http.StatusConflict}
	ErrStoreUnavailable    = &AppError{Code: "STORE_UNAVAILABLE", Message: "The data store is unavailable", StatusCode: http.StatusServiceUnavailable}
)

// Investor errors.
var (
	ErrInvestorNotFound = &AppError{Code: "INVESTOR_NOT_FOUND", Message: "Investor not found", StatusCode: http.StatusNotFound}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrNoAccountFound  = &AppError{Code: "NO_ACCOUNT_FOUND", Message: "Investor has no account", StatusCode: http.StatusNotFound}
)

// Stock errors.
var (
	ErrStockNotFound  = &AppError{Code: "STOCK_NOT_FOUND", Message: "Stock not found", StatusCode: http.StatusNotFound}
	ErrVolumeNotFound = &AppError{Code: "VOLUME_NOT_FOUND", Message: "No volume record for this stock", StatusCode: http.StatusNotFound}
)

// Position errors.
var (
	ErrPositionNotFound = &AppError{Code: "POSITION_NOT_FOUND", Message: "Position not found", StatusCode: http.StatusNotFound}
)

// Trade errors. Business-rule failures are terminal for the trade request;
// only TRANSACTION_TIMEOUT and STORE_UNAVAILABLE are eligible for
// caller-driven retry.
var (
	ErrInvalidTrade         = &AppError{Code: "INVALID_TRADE", Message: "Invalid trade request", StatusCode: http.StatusBadRequest}
	ErrInsufficientFunds    = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient account balance for this trade", StatusCode: http.StatusBadRequest}
	ErrInsufficientVolume   = &AppError{Code: "INSUFFICIENT_VOLUME", Message: "Insufficient stock volume for this trade", StatusCode: http.StatusBadRequest}
	ErrInsufficientPosition = &AppError{Code: "INSUFFICIENT_POSITION", Message: "Insufficient position quantity for this sale", StatusCode: http.StatusBadRequest}
	ErrTransactionTimeout   = &AppError{Code: "TRANSACTION_TIMEOUT", Message: "Trade transaction timed out", StatusCode: http.StatusGatewayTimeout}
)
