package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStripeGateway(t *testing.T) {
	t.Parallel()

	t.Run("requires api key", func(t *testing.T) {
		t.Parallel()

		_, err := NewStripeGateway("")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("constructs with key", func(t *testing.T) {
		t.Parallel()

		g, err := NewStripeGateway("sk_test_123")
		require.NoError(t, err)
		assert.NotNil(t, g)
	})
}

func TestIntentIDFromSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		secret string
		wantID string
		ok     bool
	}{
		{"valid secret", "pi_3ABC_secret_xyz", "pi_3ABC", true},
		{"missing secret part", "pi_3ABC", "", false},
		{"not a payment intent", "seti_1_secret_xyz", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, ok := intentIDFromSecret(tt.secret)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestReason(t *testing.T) {
	t.Parallel()

	t.Run("processor error message extracted", func(t *testing.T) {
		t.Parallel()

		err := &Error{Code: "incorrect_number", Message: "Your card number is incorrect."}
		assert.Equal(t, "Your card number is incorrect.", Reason(err))
	})

	t.Run("transport error falls back", func(t *testing.T) {
		t.Parallel()

		err := errors.New("connection refused")
		assert.Equal(t, "connection refused", Reason(err))
	})
}
