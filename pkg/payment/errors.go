package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey indicates the gateway was constructed without a processor API key
	ErrMissingAPIKey = errors.New("payment: processor API key is required")

	// ErrInvalidClientSecret indicates a client secret the intent ID could not be derived from
	ErrInvalidClientSecret = errors.New("payment: invalid client secret")
)

// Error is a processor-reported failure. Message is the processor's own
// user-facing text and is surfaced verbatim; Code is the processor's error
// code when available.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment: %s (%s)", e.Message, e.Code)
	}
	return "payment: " + e.Message
}

// Reason extracts the processor's user-facing message from err, falling back
// to err.Error() for transport-level failures.
func Reason(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}
