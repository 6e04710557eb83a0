// Package errors provides custom error types for the spendchat API.
// All service-layer errors should use AppError so that HTTP responses and
// chat replies never leak internal details.
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

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

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
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrRateLimited      = &AppError{Code: "RATE_LIMITED", Message: "Too many requests, slow down", StatusCode: http.StatusTooManyRequests}
	ErrInvalidSignature = &AppError{Code: "INVALID_SIGNATURE", Message: "Invalid webhook signature", StatusCode: http.StatusUnauthorized}
)

// User errors.
var (
	ErrUserNotRegistered = &AppError{Code: "USER_NOT_REGISTERED", Message: "You have not yet registered on web. Please register yourself.", StatusCode: http.StatusNotFound}
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUserAlreadyExists = &AppError{Code: "USER_ALREADY_EXISTS", Message: "User already exists", StatusCode: http.StatusConflict}
)

// OTP errors.
var (
	ErrNoChallengeFound = &AppError{Code: "NO_CHALLENGE_FOUND", Message: "No OTP request found for this number", StatusCode: http.StatusBadRequest}
	ErrInvalidOTP       = &AppError{Code: "INVALID_OTP", Message: "Invalid OTP", StatusCode: http.StatusBadRequest}
	ErrOTPSendFailed    = &AppError{Code: "OTP_SEND_FAILED", Message: "Error in sending otp", StatusCode: http.StatusBadRequest}
)

// Expense errors.
var (
	ErrExpenseCreateFailed = &AppError{Code: "EXPENSE_CREATE_FAILED", Message: "Error creating expense. Please try again.", StatusCode: http.StatusInternalServerError}
	ErrInvalidExpense      = &AppError{Code: "INVALID_EXPENSE", Message: "Expense is missing required fields", StatusCode: http.StatusBadRequest}
)

// External service errors (language model, messaging and verification providers).
var (
	ErrExternalService = &AppError{Code: "EXTERNAL_SERVICE_ERROR", Message: "An upstream service failed", StatusCode: http.StatusInternalServerError}
)
