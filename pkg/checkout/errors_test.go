package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/subkit/pkg/api"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("structured codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name         string
			code         api.ErrorCode
			message      string
			wantCategory FailureCategory
			wantReason   string
		}{
			{"declined card uses canned text", api.CodeCardDeclined, "card_declined: insufficient funds", CategoryPayment, msgCardDeclined},
			{"invalid payment method passes through", api.CodeInvalidPaymentMethod, "Payment method is expired", CategoryPayment, "Payment method is expired"},
			{"email conflict passes through", api.CodeEmailTaken, "Email already registered", CategoryConflict, "Email already registered"},
			{"rate limit uses canned text", api.CodeRateLimited, "slow down", CategoryTransport, msgRateLimited},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				category, reason, inferred := classify(tt.code, tt.message)
				assert.Equal(t, tt.wantCategory, category)
				assert.Equal(t, tt.wantReason, reason)
				assert.False(t, inferred)
			})
		}
	})

	t.Run("legacy message fallback", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name         string
			message      string
			wantCategory FailureCategory
			wantReason   string
		}{
			{"already registered", "This email is already registered", CategoryConflict, "This email is already registered"},
			{"declined", "Your card was declined by the issuer", CategoryPayment, msgCardDeclined},
			{"rate limit", "Rate limit exceeded", CategoryTransport, msgRateLimited},
			{"status 429", "unexpected status 429", CategoryTransport, msgRateLimited},
			{"network", "network unreachable", CategoryTransport, msgNetwork},
			{"connection", "connection reset by peer", CategoryTransport, msgNetwork},
			{"unmatched", "something odd happened", CategoryTransport, msgGeneric},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				category, reason, inferred := classify("", tt.message)
				assert.Equal(t, tt.wantCategory, category)
				assert.Equal(t, tt.wantReason, reason)
				assert.True(t, inferred)
			})
		}
	})
}
