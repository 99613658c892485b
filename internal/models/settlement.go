package models

// Direction is the sign a settlement applies to the owner's balance.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// MinorUnitsPerMajor converts provider amounts (kobo) into balance units (naira).
const MinorUnitsPerMajor = 100

// Settlement is the storage-facing effect of one recognized provider event.
type Settlement struct {
	Reference         string
	Direction         Direction
	AmountMinor       int64
	AuthorizationCode string // only set for reusable charge authorizations
}

// SignedAmountMinor returns the balance delta in minor units.
func (s Settlement) SignedAmountMinor() int64 {
	if s.Direction == DirectionDebit {
		return -s.AmountMinor
	}
	return s.AmountMinor
}

// SignedAmountMajor returns the balance delta in major units.
func (s Settlement) SignedAmountMajor() float64 {
	return float64(s.SignedAmountMinor()) / MinorUnitsPerMajor
}

type SettlementOutcome string

const (
	OutcomeApplied        SettlementOutcome = "applied"
	OutcomeNotFound       SettlementOutcome = "not_found"
	OutcomeAlreadySettled SettlementOutcome = "already_settled"
	OutcomeSkipped        SettlementOutcome = "skipped"
	OutcomeIgnored        SettlementOutcome = "ignored"
)

// SettlementResult reports what the store did with a Settlement.
type SettlementResult struct {
	Outcome SettlementOutcome
	// PriorStatus is the transaction status found before the settlement ran.
	PriorStatus string
	UserID      string
	// Balance is the owner's balance after an applied settlement.
	Balance float64
}
