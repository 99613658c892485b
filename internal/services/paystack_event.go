package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arigopay/backend/internal/models"
)

const (
	EventChargeSuccess   = "charge.success"
	EventTransferSuccess = "transfer.success"
)

var (
	ErrMalformedEvent = errors.New("malformed event payload")
	ErrInvalidEvent   = errors.New("invalid event payload")
)

// PaystackEvent is the subset of a provider callback the settlement path reads.
type PaystackEvent struct {
	Event string            `json:"event"`
	Data  PaystackEventData `json:"data"`
}

type PaystackEventData struct {
	Reference     string                 `json:"reference" validate:"required,max=200"`
	Amount        int64                  `json:"amount" validate:"gte=1"`
	Currency      string                 `json:"currency"`
	Status        string                 `json:"status"`
	Authorization *PaystackAuthorization `json:"authorization,omitempty"`
}

type PaystackAuthorization struct {
	AuthorizationCode string `json:"authorization_code"`
	Reusable          bool   `json:"reusable"`
}

var eventValidator = NewValidationHelper()

// ParsePaystackEvent decodes a verified payload. Only call it after the
// signature over raw has been checked.
func ParsePaystackEvent(raw []byte) (*PaystackEvent, error) {
	var ev PaystackEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return &ev, nil
}

// Recognized reports whether the event carries a settlement effect.
func (e *PaystackEvent) Recognized() bool {
	return e.Event == EventChargeSuccess || e.Event == EventTransferSuccess
}

// Validate checks the fields a recognized event must carry.
func (e *PaystackEvent) Validate() error {
	if err := eventValidator.ValidateStruct(&e.Data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return nil
}

// Settlement maps a recognized event to the store-level effect.
func (e *PaystackEvent) Settlement() (models.Settlement, bool) {
	s := models.Settlement{
		Reference:   e.Data.Reference,
		AmountMinor: e.Data.Amount,
	}

	switch e.Event {
	case EventChargeSuccess:
		s.Direction = models.DirectionCredit
		if auth := e.Data.Authorization; auth != nil && auth.Reusable {
			s.AuthorizationCode = auth.AuthorizationCode
		}
	case EventTransferSuccess:
		s.Direction = models.DirectionDebit
	default:
		return models.Settlement{}, false
	}
	return s, true
}
