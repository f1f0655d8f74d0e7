package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway implements Tokenizer and Confirmer against the Stripe API.
// Card data goes straight to Stripe; only the resulting payment-method ID is
// returned to the caller.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway authenticated with the given secret key.
func NewStripeGateway(apiKey string) (*StripeGateway, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	sc := &client.API{}
	sc.Init(apiKey, nil)

	return &StripeGateway{api: sc}, nil
}

// Tokenize creates a Stripe payment method for one card-entry attempt.
// Card errors (bad number, expired card) come back as *Error with Stripe's
// message intact so it can be shown to the user verbatim.
func (g *StripeGateway) Tokenize(ctx context.Context, card Card, billingEmail string) (Token, error) {
	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
	}
	params.Context = ctx

	if billingEmail != "" {
		params.BillingDetails = &stripe.PaymentMethodBillingDetailsParams{
			Email: stripe.String(billingEmail),
		}
	}

	pm, err := g.api.PaymentMethods.New(params)
	if err != nil {
		return "", wrapStripeError(err)
	}

	return Token(pm.ID), nil
}

// Confirm finalizes a payment intent that requires cardholder verification.
// The intent ID is embedded in the client secret ("pi_..._secret_...").
func (g *StripeGateway) Confirm(ctx context.Context, clientSecret string) error {
	intentID, ok := intentIDFromSecret(clientSecret)
	if !ok {
		return ErrInvalidClientSecret
	}

	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx

	if _, err := g.api.PaymentIntents.Confirm(intentID, params); err != nil {
		return wrapStripeError(err)
	}

	return nil
}

func intentIDFromSecret(clientSecret string) (string, bool) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || !strings.HasPrefix(id, "pi_") {
		return "", false
	}
	return id, true
}

func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &Error{
			Code:    string(stripeErr.Code),
			Message: stripeErr.Msg,
		}
	}
	return err
}
