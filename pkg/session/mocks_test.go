package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/subkit/pkg/api"
)

// MockAPI is a mock implementation of session.API.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Me(ctx context.Context, credential string) (*api.User, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.User), args.Error(1)
}

func (m *MockAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *MockAPI) RegisterAndSubscribe(ctx context.Context, email, password, paymentMethodID string) (*api.RegisterAndSubscribeResponse, error) {
	args := m.Called(ctx, email, password, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.RegisterAndSubscribeResponse), args.Error(1)
}

func (m *MockAPI) CheckSubscription(ctx context.Context, credential string) (bool, error) {
	args := m.Called(ctx, credential)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPI) Logout(ctx context.Context, credential string) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}
