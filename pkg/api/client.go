package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a typed HTTP client for the subscription backend. Authenticated
// calls take the credential as an explicit argument so that callers always
// pass the token that is current at call time; the client itself holds no
// credential state.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. for custom transports
// or testing. Nil clients are ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Me verifies a credential and returns the account it belongs to.
func (c *Client) Me(ctx context.Context, credential string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me", credential, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges email and password for a credential. Rejected credentials
// come back as *Error with status 401.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new, unsubscribed account and returns its credential.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterAndSubscribe atomically creates an account and attempts the
// subscription charge in one backend round trip.
func (c *Client) RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (*RegisterAndSubscribeResponse, error) {
	body := map[string]string{
		"email":           email,
		"password":        password,
		"paymentMethodId": paymentMethodID,
	}

	var resp RegisterAndSubscribeResponse
	if err := c.do(ctx, http.MethodPost, "/register-and-subscribe", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Subscribe submits a tokenized payment method for the authenticated account.
func (c *Client) Subscribe(ctx context.Context, credential, paymentMethodID string) (*SubscribeResponse, error) {
	body := map[string]string{"paymentMethodId": paymentMethodID}

	var resp SubscribeResponse
	if err := c.do(ctx, http.MethodPost, "/subscribe", credential, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelSubscription cancels the authenticated account's subscription.
func (c *Client) CancelSubscription(ctx context.Context, credential string) error {
	return c.do(ctx, http.MethodPost, "/cancel-subscription", credential, map[string]string{}, &StatusResponse{})
}

// CheckSubscription re-queries the subscription flag for a credential.
func (c *Client) CheckSubscription(ctx context.Context, credential string) (bool, error) {
	var resp SubscriptionStatusResponse
	if err := c.do(ctx, http.MethodGet, "/check-subscription", credential, nil, &resp); err != nil {
		return false, err
	}
	return resp.IsSubscribed, nil
}

// Logout notifies the backend that a credential is being discarded.
func (c *Client) Logout(ctx context.Context, credential string) error {
	return c.do(ctx, http.MethodPost, "/logout", credential, map[string]string{}, &StatusResponse{})
}

// errorPayload is the backend's error body: a human-readable message plus an
// optional structured code. Legacy deployments send the message only.
type errorPayload struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path, credential string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedResponse, method, path, resp.StatusCode)
	}

	return nil
}

func decodeError(status int, raw []byte) error {
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		return &Error{
			Status:  status,
			Message: fmt.Sprintf("unexpected response (status %d)", status),
		}
	}

	code := payload.Code
	if code == "" && status == http.StatusTooManyRequests {
		// Rate limiting is unambiguous from the status line alone
		code = CodeRateLimited
	}

	return &Error{
		Status:  status,
		Code:    code,
		Message: payload.Error,
	}
}
