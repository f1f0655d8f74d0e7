package checkout

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/subkit/pkg/api"
)

var (
	// ErrAttemptInFlight indicates a submission while a prior attempt has not reached a terminal phase
	ErrAttemptInFlight = errors.New("checkout: attempt already in flight")
)

// FailureCategory classifies a terminal failure for presentation purposes.
// The opportunistic-login miss during guest checkout has no category: it is
// swallowed by design and never reaches a Result.
type FailureCategory string

const (
	// CategoryValidation is a local pre-network form failure.
	CategoryValidation FailureCategory = "validation"
	// CategoryTokenization is a card rejected by the processor before any backend contact.
	CategoryTokenization FailureCategory = "tokenization"
	// CategoryConflict is a genuine backend conflict, e.g. email already registered.
	CategoryConflict FailureCategory = "conflict"
	// CategoryPayment is a declined or unusable payment method.
	CategoryPayment FailureCategory = "payment"
	// CategoryStepUp is a failed processor-side cardholder verification.
	CategoryStepUp FailureCategory = "step_up"
	// CategoryTransport is a network, rate-limit, or unexpected-shape failure.
	CategoryTransport FailureCategory = "transport"
)

// User-facing phrasings for failures where the raw backend text is not shown.
const (
	msgCardDeclined = "Your card was declined. Please try a different payment method."
	msgRateLimited  = "Too many payment attempts. Please try again in a few minutes."
	msgNetwork      = "Network error. Please check your internet connection and try again."
	msgGeneric      = "Payment processing failed. Please try again."
)

// classify maps a backend failure to a category and user-facing reason.
// Structured codes drive the decision; when a legacy deployment returns only
// a message string, a small set of known phrases is matched and inferred is
// set so the caller can log the ambiguity. Unmatched legacy strings map to
// the generic transport message rather than a guessed category.
func classify(code api.ErrorCode, message string) (category FailureCategory, reason string, inferred bool) {
	switch code {
	case api.CodeCardDeclined:
		return CategoryPayment, msgCardDeclined, false
	case api.CodeInvalidPaymentMethod:
		return CategoryPayment, message, false
	case api.CodeEmailTaken:
		// Conflicts are surfaced verbatim: at the registration step they are
		// genuine, not an expected miss.
		return CategoryConflict, message, false
	case api.CodeRateLimited:
		return CategoryTransport, msgRateLimited, false
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "already registered"):
		return CategoryConflict, message, true
	case strings.Contains(lower, "declined"):
		return CategoryPayment, msgCardDeclined, true
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "429"):
		return CategoryTransport, msgRateLimited, true
	case strings.Contains(lower, "network"), strings.Contains(lower, "connection"):
		return CategoryTransport, msgNetwork, true
	}

	return CategoryTransport, msgGeneric, true
}
