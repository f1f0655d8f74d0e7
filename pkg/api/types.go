package api

// User is the backend's view of an account, as returned by /me and the
// credential-issuing endpoints.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IsSubscribed bool   `json:"isSubscribed"`
}

// AuthResponse is the success shape of /login and /register.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// RegisterAndSubscribeResponse is the success shape of /register-and-subscribe.
// ClientSecret is present only when the payment processor still requires
// cardholder verification before the subscription is final.
type RegisterAndSubscribeResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token"`
	User           *User  `json:"user"`
	ClientSecret   string `json:"clientSecret,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
}

// SubscribeResponse covers the three success shapes of /subscribe:
// immediate success, requires_action with a payment intent client secret,
// and status "pending" with a client secret.
type SubscribeResponse struct {
	Success                   bool   `json:"success"`
	RequiresAction            bool   `json:"requires_action"`
	PaymentIntentClientSecret string `json:"payment_intent_client_secret"`
	Status                    string `json:"status"`
	ClientSecret              string `json:"clientSecret"`
	SubscriptionID            string `json:"subscriptionId,omitempty"`
}

// SubscriptionStatusResponse is the shape of /check-subscription.
type SubscriptionStatusResponse struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// StatusResponse is the generic {success} shape used by endpoints such as
// /cancel-subscription and /logout.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
