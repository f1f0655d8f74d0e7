package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBaseURL indicates the client was constructed with an unusable base URL
	ErrInvalidBaseURL = errors.New("api: invalid base URL")

	// ErrUnexpectedResponse indicates a response body that could not be decoded
	ErrUnexpectedResponse = errors.New("api: unexpected response shape")
)

// ErrorCode is a structured, machine-readable failure code returned by the
// backend in error payloads. Codes are preferred over message matching when
// deciding user-facing behavior.
type ErrorCode string

const (
	CodeInvalidCredentials   ErrorCode = "invalid_credentials"
	CodeEmailTaken           ErrorCode = "email_taken"
	CodeCardDeclined         ErrorCode = "card_declined"
	CodeInvalidPaymentMethod ErrorCode = "invalid_payment_method"
	CodeRateLimited          ErrorCode = "rate_limited"
	CodeUserNotFound         ErrorCode = "user_not_found"
)

// Error is a non-2xx backend reply. Code may be empty when talking to legacy
// deployments that only return a message string; consumers must not assume
// it is set.
type Error struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// AsError unwraps err into *Error when the failure originated as a backend
// error payload, as opposed to a transport-level failure.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
