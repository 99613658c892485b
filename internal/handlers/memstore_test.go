package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/arigopay/backend/internal/models"
)

// memStore is a mutex-guarded settlement backend with the same guard
// semantics as the database stores.
type memStore struct {
	mu           sync.Mutex
	transactions map[string]*models.Transaction
	balances     map[string]int64 // minor units
	authCodes    map[string]string
	failWith     error
	settleCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		transactions: map[string]*models.Transaction{},
		balances:     map[string]int64{},
		authCodes:    map[string]string{},
	}
}

func (s *memStore) addUser(id string, balanceMinor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[id] = balanceMinor
}

func (s *memStore) addTransaction(reference, userID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[reference] = &models.Transaction{
		ID:        "tx-" + reference,
		Reference: reference,
		UserID:    userID,
		Status:    status,
	}
}

func (s *memStore) balance(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.balances[userID]) / models.MinorUnitsPerMajor
}

func (s *memStore) status(reference string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[reference].Status
}

func (s *memStore) Settle(_ context.Context, st models.Settlement) (*models.SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleCalls++

	if s.failWith != nil {
		return nil, s.failWith
	}

	tx, ok := s.transactions[st.Reference]
	if !ok {
		return &models.SettlementResult{Outcome: models.OutcomeNotFound}, nil
	}

	result := &models.SettlementResult{PriorStatus: tx.Status, UserID: tx.UserID}
	switch tx.Status {
	case models.TransactionStatusCompleted:
		result.Outcome = models.OutcomeAlreadySettled
		return result, nil
	case models.TransactionStatusPending:
	default:
		result.Outcome = models.OutcomeSkipped
		return result, nil
	}

	if _, ok := s.balances[tx.UserID]; !ok {
		return nil, errors.New("owner missing")
	}

	tx.Status = models.TransactionStatusCompleted
	s.balances[tx.UserID] += st.SignedAmountMinor()
	if st.AuthorizationCode != "" {
		s.authCodes[tx.UserID] = st.AuthorizationCode
	}

	result.Outcome = models.OutcomeApplied
	result.Balance = float64(s.balances[tx.UserID]) / models.MinorUnitsPerMajor
	return result, nil
}

func (s *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bal, ok := s.balances[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.User{
		ID:                id,
		Email:             id + "@example.com",
		Balance:           float64(bal) / models.MinorUnitsPerMajor,
		AuthorizationCode: s.authCodes[id],
	}, nil
}

func (s *memStore) GetTransaction(_ context.Context, reference string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[reference]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}
