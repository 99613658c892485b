package services

import (
	"context"
	"errors"

	"github.com/arigopay/backend/internal/models"
)

// AccountStore is the read side of the user and transaction collections.
type AccountStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetTransaction(ctx context.Context, reference string) (*models.Transaction, error)
}

// AccountSummary is what an authenticated user sees about their account.
type AccountSummary struct {
	UserID                string  `json:"userId"`
	Email                 string  `json:"email"`
	Balance               float64 `json:"balance"`
	HasSavedAuthorization bool    `json:"hasSavedAuthorization"`
}

type AccountService struct {
	store AccountStore
}

func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) GetAccount(ctx context.Context, userID string) (*AccountSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AccountSummary{
		UserID:                user.ID,
		Email:                 user.Email,
		Balance:               user.Balance,
		HasSavedAuthorization: user.AuthorizationCode != "",
	}, nil
}

// GetTransaction returns the transaction only when userID owns it; other
// users get models.ErrNotFound so references cannot be probed.
func (s *AccountService) GetTransaction(ctx context.Context, userID, reference string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, models.ErrNotFound
	}
	return tx, nil
}

// IsNotFound reports whether err means the record is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
