package services

import (
	"context"

	"github.com/arigopay/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockSettlementStore struct {
	mock.Mock
}

func (m *MockSettlementStore) Settle(ctx context.Context, s models.Settlement) (*models.SettlementResult, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}

type MockSettlementCache struct {
	mock.Mock
}

func (m *MockSettlementCache) Seen(ctx context.Context, event, reference string) (bool, error) {
	args := m.Called(ctx, event, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementCache) Remember(ctx context.Context, event, reference string) error {
	args := m.Called(ctx, event, reference)
	return args.Error(0)
}

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountStore) GetTransaction(ctx context.Context, reference string) (*models.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}
