package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arigopay/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps users and transactions in PostgreSQL. Settlement runs
// in one SQL transaction holding a row lock on the transaction, so two
// deliveries of the same reference serialize and the second observes
// completed.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Settle(ctx context.Context, st models.Settlement) (*models.SettlementResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback()

	var current models.Transaction
	err = tx.QueryRowxContext(ctx, `
		SELECT id, reference, user_id, status
		FROM transactions
		WHERE reference = $1
		FOR UPDATE`,
		st.Reference,
	).StructScan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.SettlementResult{Outcome: models.OutcomeNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock transaction %s: %w", st.Reference, err)
	}

	result := &models.SettlementResult{
		PriorStatus: current.Status,
		UserID:      current.UserID,
	}

	switch {
	case current.IsCompleted():
		result.Outcome = models.OutcomeAlreadySettled
		return result, nil
	case current.Status == models.TransactionStatusPending:
	default:
		result.Outcome = models.OutcomeSkipped
		return result, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1, settled_at = NOW(), updated_at = NOW()
		WHERE id = $2`,
		models.TransactionStatusCompleted, current.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("complete transaction %s: %w", st.Reference, err)
	}

	// In-place increment; the amount arrives in minor units and is divided in
	// NUMERIC so no float rounding reaches the balance.
	err = tx.QueryRowxContext(ctx, `
		UPDATE users
		SET balance = balance + ($1::numeric / 100),
			authorization_code = COALESCE(NULLIF($2, ''), authorization_code),
			updated_at = NOW()
		WHERE id = $3
		RETURNING balance`,
		st.SignedAmountMinor(), st.AuthorizationCode, current.UserID,
	).Scan(&result.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("owner %s of transaction %s: %w", current.UserID, st.Reference, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update balance for %s: %w", current.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settlement %s: %w", st.Reference, err)
	}

	result.Outcome = models.OutcomeApplied
	return result, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	// users.id is a UUID column; anything else cannot name a row.
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, email, first_name, last_name, balance,
			COALESCE(authorization_code, '') AS authorization_code,
			created_at, updated_at
		FROM users
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return &user, nil
}

func (s *PostgresStore) GetTransaction(ctx context.Context, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.GetContext(ctx, &tx, `
		SELECT id, reference, user_id, type, status, created_at, updated_at, settled_at
		FROM transactions
		WHERE reference = $1`, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", reference, err)
	}
	return &tx, nil
}
