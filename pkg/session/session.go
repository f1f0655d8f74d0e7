package session

// Status is the authentication state of a Session.
type Status string

const (
	// StatusUnauthenticated means no credential is held.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusVerifying means a persisted credential was found and is being
	// checked against the backend.
	StatusVerifying Status = "verifying"
	// StatusAuthenticated means the credential was verified and User is set.
	StatusAuthenticated Status = "authenticated"
)

// User is the account an authenticated session belongs to.
type User struct {
	ID         string
	Email      string
	Subscribed bool
}

// Session is a snapshot of the authentication state. User is non-nil exactly
// when Status is StatusAuthenticated.
type Session struct {
	Credential string
	User       *User
	Status     Status
}

// IsAuthenticated reports whether the session holds a verified credential.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// AuthResult is the outcome of a credential-issuing operation. Expected
// failures (wrong password, email taken, declined card) are represented as
// Success=false with a human-readable Reason, not as errors.
type AuthResult struct {
	Success    bool
	Credential string
	Reason     string
	// Code is the backend's structured error code for the failure, when the
	// deployment provides one.
	Code string
	// ClientSecret is set after RegisterAndSubscribe when the payment
	// processor still requires step-up authentication.
	ClientSecret   string
	SubscriptionID string
	User           *User
}
