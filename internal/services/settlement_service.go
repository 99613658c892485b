package services

import (
	"context"
	"fmt"

	"github.com/arigopay/backend/internal/audit"
	"github.com/arigopay/backend/internal/logger"
	"github.com/arigopay/backend/internal/metrics"
	"github.com/arigopay/backend/internal/models"
)

// SettlementStore applies a settlement. Implementations must flip the
// transaction to completed and move the owner's balance as one atomic unit,
// and must never apply the same reference twice, including under concurrent
// deliveries.
type SettlementStore interface {
	Settle(ctx context.Context, s models.Settlement) (*models.SettlementResult, error)
}

// SettlementReport describes how one delivery was handled.
type SettlementReport struct {
	Event     string
	Reference string
	Outcome   models.SettlementOutcome
	Result    *models.SettlementResult
}

type SettlementService struct {
	store SettlementStore
	cache SettlementCache
	audit *audit.Logger
}

// NewSettlementService wires the store. cache may be nil.
func NewSettlementService(store SettlementStore, cache SettlementCache, auditLogger *audit.Logger) *SettlementService {
	if auditLogger == nil {
		auditLogger = audit.NewLogger()
	}
	return &SettlementService{
		store: store,
		cache: cache,
		audit: auditLogger,
	}
}

// Process decodes an already verified payload and applies its effect.
func (s *SettlementService) Process(ctx context.Context, deliveryID string, raw []byte) (*SettlementReport, error) {
	ev, err := ParsePaystackEvent(raw)
	if err != nil {
		return nil, err
	}

	report := &SettlementReport{Event: ev.Event, Reference: ev.Data.Reference}

	settlement, ok := ev.Settlement()
	if !ok {
		logger.Infof("[WEBHOOK] Ignoring event type %q (delivery %s)", ev.Event, deliveryID)
		report.Outcome = models.OutcomeIgnored
		metrics.RecordWebhookDelivery(ev.Event, string(report.Outcome))
		return report, nil
	}

	// A signed event that cannot be settled is acknowledged so the provider
	// stops redelivering it.
	if err := ev.Validate(); err != nil {
		logger.Warnf("[WEBHOOK] Ignoring invalid %s (delivery %s, reference %q): %v", ev.Event, deliveryID, ev.Data.Reference, fieldFailures(err))
		report.Outcome = models.OutcomeIgnored
		metrics.RecordWebhookDelivery(ev.Event, "invalid")
		s.audit.LogSettlement(deliveryID, ev.Event, ev.Data.Reference, "", ev.Data.Amount, "invalid")
		return report, nil
	}

	if s.cache != nil {
		seen, err := s.cache.Seen(ctx, ev.Event, settlement.Reference)
		if err != nil {
			logger.Warnf("[WEBHOOK] Settlement cache lookup failed for %s: %v", settlement.Reference, err)
		} else if seen {
			logger.Infof("[WEBHOOK] Duplicate delivery for %s acknowledged from cache", settlement.Reference)
			report.Outcome = models.OutcomeAlreadySettled
			metrics.RecordCacheHit()
			metrics.RecordWebhookDelivery(ev.Event, string(report.Outcome))
			s.audit.LogSettlement(deliveryID, ev.Event, settlement.Reference, "", settlement.AmountMinor, string(report.Outcome))
			return report, nil
		}
	}

	result, err := s.store.Settle(ctx, settlement)
	if err != nil {
		s.audit.LogError(deliveryID, settlement.Reference, err)
		metrics.RecordWebhookDelivery(ev.Event, "error")
		return report, fmt.Errorf("settle %s: %w", settlement.Reference, err)
	}

	report.Outcome = result.Outcome
	report.Result = result

	switch result.Outcome {
	case models.OutcomeApplied:
		logger.Infof("[WEBHOOK] Applied %s of %d to user %s for %s, balance now %.2f",
			settlement.Direction, settlement.AmountMinor, result.UserID, settlement.Reference, result.Balance)
		metrics.RecordSettledAmount(string(settlement.Direction), settlement.AmountMinor)
		if settlement.Direction == models.DirectionDebit && result.Balance < 0 {
			logger.Warnf("[WEBHOOK] Balance for user %s is negative (%.2f) after %s", result.UserID, result.Balance, settlement.Reference)
			metrics.RecordNegativeBalance()
		}
		s.remember(ctx, ev.Event, settlement.Reference)
	case models.OutcomeAlreadySettled:
		// Not cached: only the delivery that applied the effect may mark it seen.
		logger.Infof("[WEBHOOK] Transaction %s already completed, no action taken", settlement.Reference)
	case models.OutcomeSkipped:
		logger.Warnf("[WEBHOOK] Transaction %s is %q, not settling", settlement.Reference, result.PriorStatus)
	case models.OutcomeNotFound:
		logger.Infof("[WEBHOOK] No transaction for reference %s, no action taken", settlement.Reference)
	}

	metrics.RecordWebhookDelivery(ev.Event, string(result.Outcome))
	s.audit.LogSettlement(deliveryID, ev.Event, settlement.Reference, result.UserID, settlement.AmountMinor, string(result.Outcome))
	return report, nil
}

func (s *SettlementService) remember(ctx context.Context, event, reference string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Remember(ctx, event, reference); err != nil {
		logger.Warnf("[WEBHOOK] Failed to cache settlement of %s: %v", reference, err)
	}
}
