package payment

import "context"

// Card holds raw card input for a single tokenization attempt. It is consumed
// by the Tokenizer and never persisted or logged.
type Card struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// Token is an opaque, single-use payment-method identifier issued by the
// processor. It carries no card data.
type Token string

// Tokenizer converts raw card input into an opaque payment-method token
// without exposing card data to the rest of the system.
type Tokenizer interface {
	Tokenize(ctx context.Context, card Card, billingEmail string) (Token, error)
}

// Confirmer performs the processor-side step-up confirmation (e.g. 3-D
// Secure) identified by a client secret.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string) error
}
