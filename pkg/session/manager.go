package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/subkit/pkg/api"
	"github.com/dmitrymomot/subkit/pkg/logger"
)

// API is the subset of the backend contract the session manager drives.
// *api.Client satisfies it.
type API interface {
	Me(ctx context.Context, credential string) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, email, password string) (*api.AuthResponse, error)
	RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (*api.RegisterAndSubscribeResponse, error)
	CheckSubscription(ctx context.Context, credential string) (bool, error)
	Logout(ctx context.Context, credential string) error
}

// Manager owns the credential lifecycle: acquisition, persistence,
// verification on startup, and invalidation. All session mutation is routed
// through it; consumers read snapshots via Current and Credential, which
// resolve the state current at call time.
type Manager struct {
	api   API
	store CredentialStore
	log   *slog.Logger

	mu      sync.RWMutex
	session Session

	loading     bool
	loadingOnce sync.Once
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a session manager.
// Panics if api or store is nil to fail fast during initialization.
func NewManager(backend API, store CredentialStore, opts ...Option) *Manager {
	if backend == nil {
		panic("session: API is required")
	}
	if store == nil {
		panic("session: CredentialStore is required")
	}

	m := &Manager{
		api:     backend,
		store:   store,
		log:     logger.NewDiscard(),
		session: Session{Status: StatusUnauthenticated},
		loading: true,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Credential returns the credential that is current at call time, or the
// empty string when unauthenticated. Callers attach it to outgoing requests
// immediately; holding on to the value defeats the freshness guarantee.
func (m *Manager) Credential() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Credential
}

// Loading reports whether the initial Bootstrap has not yet completed.
// It starts true and becomes false exactly once.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Bootstrap restores the session from the persisted credential, verifying it
// against the backend. A rejected or unreadable credential is purged and the
// session left unauthenticated; Bootstrap itself never fails. It returns the
// resulting snapshot and must complete before dependent UI renders.
func (m *Manager) Bootstrap(ctx context.Context) Session {
	defer m.finishLoading()

	credential, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCredentialNotFound) {
			m.log.Warn("failed to read persisted credential",
				logger.Error(err),
				logger.Component("session"),
			)
		}
		m.setUnauthenticated()
		return m.Current()
	}

	m.setVerifying(credential)

	user, err := m.api.Me(ctx, credential)
	if err != nil {
		m.log.Info("persisted credential rejected, purging",
			logger.Error(err),
			logger.Component("session"),
		)
		if err := m.store.Delete(ctx); err != nil {
			m.log.Warn("failed to purge rejected credential",
				logger.Error(err),
				logger.Component("session"),
			)
		}
		m.setUnauthenticated()
		return m.Current()
	}

	m.setAuthenticated(credential, toUser(user))
	return m.Current()
}

// Login exchanges email and password for a credential. Wrong credentials are
// an ordinary failure result, not an error; the session is left unchanged.
// The error return is reserved for transport failures and local persistence
// failures.
func (m *Manager) Login(ctx context.Context, email, password string) (AuthResult, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return m.authFailure(err)
	}
	if !resp.Success || resp.Token == "" {
		return AuthResult{Reason: "Login failed"}, nil
	}

	user := toUser(resp.User)
	if err := m.adopt(ctx, resp.Token, user); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Success: true, Credential: resp.Token, User: user}, nil
}

// Register creates a new account. New accounts start unsubscribed.
func (m *Manager) Register(ctx context.Context, email, password string) (AuthResult, error) {
	resp, err := m.api.Register(ctx, email, password)
	if err != nil {
		return m.authFailure(err)
	}
	if !resp.Success || resp.Token == "" {
		return AuthResult{Reason: "Registration failed"}, nil
	}

	user := toUser(resp.User)
	if user != nil {
		user.Subscribed = false
	}
	if err := m.adopt(ctx, resp.Token, user); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Success: true, Credential: resp.Token, User: user}, nil
}

// RegisterAndSubscribe atomically creates the account and attempts the
// subscription in one backend round trip. On success the returned
// ClientSecret, when set, means the processor still requires step-up
// authentication before the subscription is final.
func (m *Manager) RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (AuthResult, error) {
	resp, err := m.api.RegisterAndSubscribe(ctx, email, password, paymentMethodID)
	if err != nil {
		return m.authFailure(err)
	}
	if !resp.Success || resp.Token == "" {
		return AuthResult{Reason: "Registration and subscription failed"}, nil
	}

	user := toUser(resp.User)
	if user != nil {
		user.Subscribed = true
	}
	if err := m.adopt(ctx, resp.Token, user); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		Success:        true,
		Credential:     resp.Token,
		User:           user,
		ClientSecret:   resp.ClientSecret,
		SubscriptionID: resp.SubscriptionID,
	}, nil
}

// Logout notifies the backend on a best-effort basis, then unconditionally
// purges the local credential and resets the session. Calling it while
// already unauthenticated is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	if credential := m.Credential(); credential != "" {
		if err := m.api.Logout(ctx, credential); err != nil {
			m.log.Warn("logout notification failed",
				logger.Error(err),
				logger.Component("session"),
			)
		}
	}

	if err := m.store.Delete(ctx); err != nil {
		m.log.Warn("failed to delete persisted credential",
			logger.Error(err),
			logger.Component("session"),
		)
	}

	m.setUnauthenticated()
}

// CheckSubscription re-queries the subscription flag for the current
// credential. Returns false without error when no session is active so call
// sites stay branch-free.
func (m *Manager) CheckSubscription(ctx context.Context) (bool, error) {
	snapshot := m.Current()
	if !snapshot.IsAuthenticated() {
		return false, nil
	}

	subscribed, err := m.api.CheckSubscription(ctx, snapshot.Credential)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	if m.session.Credential == snapshot.Credential && m.session.User != nil {
		m.session.User.Subscribed = subscribed
	}
	m.mu.Unlock()

	return subscribed, nil
}

// adopt persists a freshly issued credential and then switches the in-memory
// session to it. Store-then-use: the durable slot is the source of truth, so
// a persistence failure means the credential is not adopted.
func (m *Manager) adopt(ctx context.Context, credential string, user *User) error {
	if err := m.store.Save(ctx, credential); err != nil {
		return errors.Join(ErrPersistCredential, err)
	}
	m.setAuthenticated(credential, user)
	return nil
}

// authFailure converts a backend error payload into an ordinary failure
// result; transport failures pass through as errors.
func (m *Manager) authFailure(err error) (AuthResult, error) {
	if apiErr, ok := api.AsError(err); ok {
		return AuthResult{
			Reason: apiErr.Message,
			Code:   string(apiErr.Code),
		}, nil
	}
	return AuthResult{}, err
}

func (m *Manager) setVerifying(credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{Credential: credential, Status: StatusVerifying}
}

func (m *Manager) setAuthenticated(credential string, user *User) {
	if user == nil {
		user = &User{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{Credential: credential, User: user, Status: StatusAuthenticated}
}

func (m *Manager) setUnauthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{Status: StatusUnauthenticated}
}

func (m *Manager) finishLoading() {
	m.loadingOnce.Do(func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	})
}

func toUser(u *api.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:         u.ID,
		Email:      u.Email,
		Subscribed: u.IsSubscribed,
	}
}
