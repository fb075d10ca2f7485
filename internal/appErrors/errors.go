package appErrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a machine-readable error kind.
type ErrorCode string

// AppError is the application error carried from services up to handlers.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// WithMessage returns a copy carrying a more specific message, keeping the
// code and HTTP status. Used by guards to attach the human-readable reason.
func (e *AppError) WithMessage(message string) *AppError {
	clone := *e
	clone.Message = message
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors
var (
	// Authentication
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Users
	ErrUserNotFound            = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists      = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrUserNotVerified         = New(CodeUserNotVerified, "Email address is not verified", http.StatusForbidden)
	ErrWeakPassword            = New(CodeWeakPassword, "Password must be at least 6 characters", http.StatusBadRequest)
	ErrInvalidUserRole         = New(CodeInvalidUserRole, "Invalid user role", http.StatusBadRequest)
	ErrInsufficientPermissions = New(CodeInsufficientPermissions, "Insufficient permissions", http.StatusForbidden)

	// Memberships
	ErrMembershipNotFound      = New(CodeMembershipNotFound, "No active membership found", http.StatusNotFound)
	ErrInvalidPlan             = New(CodeInvalidPlan, "Invalid membership plan", http.StatusBadRequest)
	ErrActiveMembershipExists  = New(CodeActiveMembershipExists, "You already have an active membership", http.StatusBadRequest)
	ErrNotAnUpgrade            = New(CodeNotAnUpgrade, "New plan must be higher tier than current plan", http.StatusBadRequest)
	ErrMembershipExpired       = New(CodeMembershipExpired, "Membership renewal date has passed", http.StatusBadRequest)
	ErrInvalidStatusTransition = New(CodeInvalidTransition, "Invalid membership status transition", http.StatusBadRequest)

	// Payment provider boundary
	ErrSignatureInvalid    = New(CodeSignatureInvalid, "Webhook signature verification failed", http.StatusBadRequest)
	ErrMalformedPayload    = New(CodeMalformedPayload, "Webhook payload could not be parsed", http.StatusBadRequest)
	ErrMalformedEvent      = New(CodeMalformedEvent, "Payment event is missing required metadata", http.StatusBadRequest)
	ErrPaymentNotCompleted = New(CodePaymentNotCompleted, "Payment not completed", http.StatusBadRequest)
)

// Helpers

func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "Validation failed", http.StatusBadRequest).WithDetails(details)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// PaymentProviderError surfaces the provider's message as a 400; the caller is
// the retry source, never this process.
func PaymentProviderError(err error, message string) *AppError {
	return Wrap(err, CodePaymentProviderError, message, http.StatusBadRequest)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}
