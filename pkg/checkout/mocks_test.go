package checkout_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/subkit/pkg/api"
	"github.com/dmitrymomot/subkit/pkg/payment"
	"github.com/dmitrymomot/subkit/pkg/session"
)

// MockTokenizer is a mock implementation of payment.Tokenizer.
type MockTokenizer struct {
	mock.Mock
}

func (m *MockTokenizer) Tokenize(ctx context.Context, card payment.Card, billingEmail string) (payment.Token, error) {
	args := m.Called(ctx, card, billingEmail)
	return args.Get(0).(payment.Token), args.Error(1)
}

// MockConfirmer is a mock implementation of payment.Confirmer.
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, clientSecret string) error {
	args := m.Called(ctx, clientSecret)
	return args.Error(0)
}

// MockSubscriptionAPI is a mock implementation of checkout.SubscriptionAPI.
type MockSubscriptionAPI struct {
	mock.Mock
}

func (m *MockSubscriptionAPI) Subscribe(ctx context.Context, credential, paymentMethodID string) (*api.SubscribeResponse, error) {
	args := m.Called(ctx, credential, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.SubscribeResponse), args.Error(1)
}

// MockBackend is a mock implementation of session.API for tests that drive
// a real session.Manager through the orchestrator.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Me(ctx context.Context, credential string) (*api.User, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.User), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *MockBackend) RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (*api.RegisterAndSubscribeResponse, error) {
	args := m.Called(ctx, email, password, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.RegisterAndSubscribeResponse), args.Error(1)
}

func (m *MockBackend) CheckSubscription(ctx context.Context, credential string) (bool, error) {
	args := m.Called(ctx, credential)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) Logout(ctx context.Context, credential string) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// fakeAuth is a stateful checkout.Authenticator: a successful login or
// registration adopts the issued credential, so Credential() reflects the
// token current at call time like the real session manager does.
type fakeAuth struct {
	mu   sync.Mutex
	sess session.Session

	loginResult session.AuthResult
	loginErr    error
	loginCalls  int

	rasResult session.AuthResult
	rasErr    error
	rasCalls  int
}

func newGuestAuth() *fakeAuth {
	return &fakeAuth{sess: session.Session{Status: session.StatusUnauthenticated}}
}

func newAuthenticatedAuth(credential, email string) *fakeAuth {
	return &fakeAuth{sess: session.Session{
		Credential: credential,
		User:       &session.User{Email: email},
		Status:     session.StatusAuthenticated,
	}}
}

func (f *fakeAuth) Current() session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}

func (f *fakeAuth) Credential() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess.Credential
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (session.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loginCalls++
	if f.loginErr != nil {
		return session.AuthResult{}, f.loginErr
	}
	if f.loginResult.Success {
		f.adoptLocked(f.loginResult.Credential, email)
	}
	return f.loginResult, nil
}

func (f *fakeAuth) RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (session.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rasCalls++
	if f.rasErr != nil {
		return session.AuthResult{}, f.rasErr
	}
	if f.rasResult.Success {
		f.adoptLocked(f.rasResult.Credential, email)
	}
	return f.rasResult, nil
}

func (f *fakeAuth) adoptLocked(credential, email string) {
	f.sess = session.Session{
		Credential: credential,
		User:       &session.User{Email: email},
		Status:     session.StatusAuthenticated,
	}
}
