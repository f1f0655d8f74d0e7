package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/subkit/pkg/api"
	"github.com/dmitrymomot/subkit/pkg/logger"
	"github.com/dmitrymomot/subkit/pkg/payment"
	"github.com/dmitrymomot/subkit/pkg/session"
	"github.com/dmitrymomot/subkit/pkg/validator"
)

// Authenticator is the session-manager surface the orchestrator drives.
// *session.Manager satisfies it.
type Authenticator interface {
	Current() session.Session
	Credential() string
	Login(ctx context.Context, email, password string) (session.AuthResult, error)
	RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (session.AuthResult, error)
}

// SubscriptionAPI is the backend surface for submitting a payment method
// against an existing account. *api.Client satisfies it.
type SubscriptionAPI interface {
	Subscribe(ctx context.Context, credential, paymentMethodID string) (*api.SubscribeResponse, error)
}

// Request carries one submit action. The guest fields are ignored when an
// authenticated session exists.
type Request struct {
	Email           string
	Password        string
	PasswordConfirm string
	Card            payment.Card
}

// Result is the terminal outcome of an attempt. Phase is PhaseActive or
// PhaseFailed; Reason is user-facing text set only on failure.
type Result struct {
	AttemptID      uuid.UUID
	Phase          Phase
	Category       FailureCategory
	Reason         string
	SubscriptionID string
}

// Active reports whether the attempt ended with a live subscription.
func (r Result) Active() bool {
	return r.Phase == PhaseActive
}

// attempt is the transient per-submission state. It is discarded once the
// attempt reaches a terminal phase.
type attempt struct {
	id         uuid.UUID
	notifyOnce sync.Once
}

// Orchestrator sequences authentication, card tokenization, subscription
// submission and step-up confirmation for one attempt at a time. All
// failures collapse into a terminal Result; no error from a collaborator
// crosses the Subscribe boundary.
type Orchestrator struct {
	sessions    Authenticator
	tokenizer   payment.Tokenizer
	confirmer   payment.Confirmer
	backend     SubscriptionAPI
	log         *slog.Logger
	onActivated func(Result)

	mu    sync.Mutex
	phase Phase
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithOnActivated registers the completion callback, fired exactly once per
// attempt that reaches PhaseActive.
func WithOnActivated(fn func(Result)) Option {
	return func(o *Orchestrator) {
		o.onActivated = fn
	}
}

// NewOrchestrator creates a subscription orchestrator.
// Panics if a required collaborator is nil to fail fast during initialization.
func NewOrchestrator(sessions Authenticator, tokenizer payment.Tokenizer, confirmer payment.Confirmer, backend SubscriptionAPI, opts ...Option) *Orchestrator {
	if sessions == nil {
		panic("checkout: Authenticator is required")
	}
	if tokenizer == nil {
		panic("checkout: payment.Tokenizer is required")
	}
	if confirmer == nil {
		panic("checkout: payment.Confirmer is required")
	}
	if backend == nil {
		panic("checkout: SubscriptionAPI is required")
	}

	o := &Orchestrator{
		sessions:  sessions,
		tokenizer: tokenizer,
		confirmer: confirmer,
		backend:   backend,
		log:       logger.NewDiscard(),
		phase:     PhaseIdle,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Phase returns the orchestrator's current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Subscribe runs one subscription attempt to its terminal phase. A second
// call while an attempt is in flight is rejected at the entry point with
// ErrAttemptInFlight, never queued. Everything else is reported through the
// Result.
func (o *Orchestrator) Subscribe(ctx context.Context, req Request) (Result, error) {
	o.mu.Lock()
	if o.phase != PhaseIdle && o.phase != PhaseFailed {
		o.mu.Unlock()
		return Result{}, ErrAttemptInFlight
	}
	o.phase = PhaseInitializing
	o.mu.Unlock()

	att := &attempt{id: uuid.New()}
	o.log.Info("subscription attempt started",
		logger.AttemptID(att.id.String()),
		logger.Component("checkout"),
	)

	result := o.run(ctx, att, req)

	// Release the entry guard: a completed attempt frees the orchestrator,
	// a failed one stays visible as Failed until the next submission.
	o.mu.Lock()
	if result.Phase == PhaseActive {
		o.phase = PhaseIdle
	}
	o.mu.Unlock()

	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, att *attempt, req Request) Result {
	snapshot := o.sessions.Current()

	if !snapshot.IsAuthenticated() {
		if err := validateGuest(req); err != nil {
			return o.fail(att, CategoryValidation, err.Error())
		}
	}

	billingEmail := req.Email
	if snapshot.IsAuthenticated() && snapshot.User != nil {
		billingEmail = snapshot.User.Email
	}

	o.setPhase(att, PhaseTokenizingCard)
	token, err := o.tokenizer.Tokenize(ctx, req.Card, billingEmail)
	if err != nil {
		// The processor's message is surfaced verbatim and never retried
		return o.fail(att, CategoryTokenization, payment.Reason(err))
	}

	o.setPhase(att, PhaseSubmitting)
	if snapshot.IsAuthenticated() {
		return o.submitAuthenticated(ctx, att, token)
	}
	return o.submitGuest(ctx, att, req, token)
}

// submitAuthenticated submits the payment method under the credential that
// is current at call time.
func (o *Orchestrator) submitAuthenticated(ctx context.Context, att *attempt, token payment.Token) Result {
	resp, err := o.backend.Subscribe(ctx, o.sessions.Credential(), string(token))
	if err != nil {
		category, reason := o.backendFailure(att, err)
		return o.fail(att, category, reason)
	}
	return o.interpret(ctx, att, resp)
}

// submitGuest tries an opportunistic login first: the visitor may already
// have an account and simply not be signed in. A login miss is expected for
// new visitors, so it falls through to the atomic register-and-subscribe
// call without ever surfacing the login failure.
func (o *Orchestrator) submitGuest(ctx context.Context, att *attempt, req Request, token payment.Token) Result {
	loginRes, err := o.sessions.Login(ctx, req.Email, req.Password)
	if err == nil && loginRes.Success {
		return o.submitAuthenticated(ctx, att, token)
	}

	o.log.Debug("opportunistic login missed, falling back to registration",
		logger.AttemptID(att.id.String()),
		logger.Component("checkout"),
	)

	res, err := o.sessions.RegisterAndSubscribe(ctx, req.Email, req.Password, string(token))
	if err != nil {
		category, reason := o.backendFailure(att, err)
		return o.fail(att, category, reason)
	}
	if !res.Success {
		// A failure here is genuine (e.g. the email is taken by an account
		// with a different password), unlike the opportunistic login miss.
		category, reason := o.classifyBackend(att, api.ErrorCode(res.Code), res.Reason)
		return o.fail(att, category, reason)
	}

	if res.ClientSecret != "" {
		return o.confirmStepUp(ctx, att, res.ClientSecret, res.SubscriptionID)
	}
	return o.complete(att, res.SubscriptionID)
}

// interpret evaluates the backend reply shapes in precedence order:
// requires_action, then pending with a client secret, then plain success.
func (o *Orchestrator) interpret(ctx context.Context, att *attempt, resp *api.SubscribeResponse) Result {
	switch {
	case resp.RequiresAction:
		return o.confirmStepUp(ctx, att, resp.PaymentIntentClientSecret, resp.SubscriptionID)
	case resp.Status == "pending" && resp.ClientSecret != "":
		return o.confirmStepUp(ctx, att, resp.ClientSecret, resp.SubscriptionID)
	case resp.Success:
		return o.complete(att, resp.SubscriptionID)
	default:
		o.log.Warn("unexpected subscribe response shape",
			logger.AttemptID(att.id.String()),
			logger.Component("checkout"),
		)
		return o.fail(att, CategoryTransport, msgGeneric)
	}
}

func (o *Orchestrator) confirmStepUp(ctx context.Context, att *attempt, clientSecret, subscriptionID string) Result {
	o.setPhase(att, PhaseRequiresStepUp)
	o.setPhase(att, PhaseConfirmingStepUp)

	if err := o.confirmer.Confirm(ctx, clientSecret); err != nil {
		return o.fail(att, CategoryStepUp, "Payment authentication failed: "+payment.Reason(err))
	}

	return o.complete(att, subscriptionID)
}

func (o *Orchestrator) complete(att *attempt, subscriptionID string) Result {
	o.setPhase(att, PhaseActive)

	result := Result{
		AttemptID:      att.id,
		Phase:          PhaseActive,
		SubscriptionID: subscriptionID,
	}

	att.notifyOnce.Do(func() {
		if o.onActivated != nil {
			o.onActivated(result)
		}
	})

	o.log.Info("subscription active",
		logger.AttemptID(att.id.String()),
		logger.Component("checkout"),
	)

	return result
}

func (o *Orchestrator) fail(att *attempt, category FailureCategory, reason string) Result {
	o.setPhase(att, PhaseFailed)

	o.log.Info("subscription attempt failed",
		logger.AttemptID(att.id.String()),
		slog.String("category", string(category)),
		logger.Component("checkout"),
	)

	return Result{
		AttemptID: att.id,
		Phase:     PhaseFailed,
		Category:  category,
		Reason:    reason,
	}
}

// backendFailure classifies an error from a backend call: error payloads go
// through the code/message classifier, anything else is a transport failure.
func (o *Orchestrator) backendFailure(att *attempt, err error) (FailureCategory, string) {
	if apiErr, ok := api.AsError(err); ok {
		return o.classifyBackend(att, apiErr.Code, apiErr.Message)
	}
	return CategoryTransport, msgNetwork
}

func (o *Orchestrator) classifyBackend(att *attempt, code api.ErrorCode, message string) (FailureCategory, string) {
	category, reason, inferred := classify(code, message)
	if inferred {
		o.log.Warn("backend failure lacked a structured code, classified from legacy message",
			slog.String("message", message),
			slog.String("category", string(category)),
			logger.AttemptID(att.id.String()),
			logger.Component("checkout"),
		)
	}
	return category, reason
}

func (o *Orchestrator) setPhase(att *attempt, next Phase) {
	o.mu.Lock()
	prev := o.phase
	o.phase = next
	o.mu.Unlock()

	if !prev.CanTransition(next) {
		o.log.Warn("unexpected phase transition",
			slog.String("from", string(prev)),
			logger.Phase(string(next)),
			logger.AttemptID(att.id.String()),
			logger.Component("checkout"),
		)
	}

	o.log.Debug("phase transition",
		logger.Phase(string(next)),
		logger.AttemptID(att.id.String()),
		logger.Component("checkout"),
	)
}

// validateGuest checks the guest-path form fields locally so invalid input
// fails before any network call.
func validateGuest(req Request) error {
	return validator.Apply(
		validator.RequiredString("email", req.Email),
		validator.ValidEmail("email", req.Email),
		validator.RequiredString("password", req.Password),
		validator.MinLenString("password", req.Password, 8),
		validator.RequiredString("password_confirm", req.PasswordConfirm),
		validator.EqualStrings("password_confirm", req.PasswordConfirm, req.Password),
	)
}
