// Package payment abstracts the external payment processor behind two small
// interfaces: a Tokenizer that turns raw card input into a single-use
// payment-method token, and a Confirmer that completes step-up authentication
// (3-D Secure) for a payment intent. A Stripe-backed implementation is
// provided; the checkout orchestrator depends only on the interfaces.
package payment
