// Package checkout implements the subscription orchestration state machine:
// the sequence that takes a visitor from a filled-in payment form to an
// active subscription, for both authenticated users and guests.
//
// # Flow
//
// One attempt moves through explicit phases:
//
//	Idle → Initializing → TokenizingCard → Submitting
//	     → {RequiresStepUp → ConfirmingStepUp} → Active | Failed
//
// Guest submissions are validated locally first, then the card is tokenized
// by the payment processor, and the resulting token submitted to the
// backend. Guests get an opportunistic login before falling back to the
// atomic register-and-subscribe call; the login miss is expected for new
// visitors and never shown. When the backend or processor demands step-up
// authentication (3-D Secure), the confirmation runs before the attempt is
// declared active.
//
// Only one attempt may be in flight; concurrent submissions are rejected at
// the entry point with ErrAttemptInFlight. Every failure collapses into a
// terminal Result with a user-facing reason and a FailureCategory. No
// collaborator error crosses the Subscribe boundary, and nothing is retried
// automatically.
package checkout
