// Package mocks provides mock implementations of the token use case and repository for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// MockTokenRepository is a mock implementation of TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method of TokenRepository.
func (m *MockTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Get mocks the Get method of TokenRepository.
func (m *MockTokenRepository) Get(ctx context.Context, id int64) (*tokenDomain.Token, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// Revoke mocks the Revoke method of TokenRepository.
func (m *MockTokenRepository) Revoke(ctx context.Context, id, now int64) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

// SweepExpired mocks the SweepExpired method of TokenRepository.
func (m *MockTokenRepository) SweepExpired(ctx context.Context, id *int64, now int64) (int64, error) {
	args := m.Called(ctx, id, now)
	return args.Get(0).(int64), args.Error(1)
}

// TouchLastUsed mocks the TouchLastUsed method of TokenRepository.
func (m *MockTokenRepository) TouchLastUsed(ctx context.Context, id, now, debounce int64) (bool, error) {
	args := m.Called(ctx, id, now, debounce)
	return args.Bool(0), args.Error(1)
}

// List mocks the List method of TokenRepository.
func (m *MockTokenRepository) List(
	ctx context.Context,
	filter tokenDomain.ListFilter,
) ([]*tokenDomain.Token, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tokenDomain.Token), args.Error(1)
}

// MockTokenUseCase is a mock implementation of TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

// CheckIssue mocks the CheckIssue method of TokenUseCase.
func (m *MockTokenUseCase) CheckIssue(ctx context.Context, actor authDomain.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

// Issue mocks the Issue method of TokenUseCase.
func (m *MockTokenUseCase) Issue(
	ctx context.Context,
	actor authDomain.Actor,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.IssueTokenOutput), args.Error(1)
}

// IssueForActor mocks the IssueForActor method of TokenUseCase.
func (m *MockTokenUseCase) IssueForActor(
	ctx context.Context,
	actorID string,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, actorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.IssueTokenOutput), args.Error(1)
}

// Get mocks the Get method of TokenUseCase.
func (m *MockTokenUseCase) Get(ctx context.Context, actor authDomain.Actor, id int64) (*tokenDomain.Token, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// Revoke mocks the Revoke method of TokenUseCase.
func (m *MockTokenUseCase) Revoke(
	ctx context.Context,
	actor authDomain.Actor,
	id int64,
) (*tokenDomain.Token, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// RevokeByID mocks the RevokeByID method of TokenUseCase.
func (m *MockTokenUseCase) RevokeByID(ctx context.Context, id int64) (*tokenDomain.Token, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// List mocks the List method of TokenUseCase.
func (m *MockTokenUseCase) List(
	ctx context.Context,
	actor authDomain.Actor,
	input *tokenDomain.ListTokensInput,
) (*tokenDomain.ListTokensOutput, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.ListTokensOutput), args.Error(1)
}

// SweepExpired mocks the SweepExpired method of TokenUseCase.
func (m *MockTokenUseCase) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Verify mocks the Verify method of TokenUseCase.
func (m *MockTokenUseCase) Verify(ctx context.Context, credential string) (authDomain.Actor, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(authDomain.Actor), args.Error(1)
}
