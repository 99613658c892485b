package audit

import (
	"encoding/json"
	"time"

	"github.com/arigopay/backend/internal/logger"
)

type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	EventType  string    `json:"event_type"`
	DeliveryID string    `json:"delivery_id,omitempty"`
	Reference  string    `json:"reference,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	Status     string    `json:"status"`
	Details    any       `json:"details,omitempty"`
}

// Sink receives serialized audit events.
type Sink func(line string)

// Logger writes one AUDIT line per money-affecting decision.
type Logger struct {
	sink Sink
	now  func() time.Time
}

func NewLogger() *Logger {
	return &Logger{
		sink: func(line string) { logger.Infof("AUDIT: %s", line) },
		now:  time.Now,
	}
}

// NewLoggerWithSink is used by tests and alternative outputs.
func NewLoggerWithSink(sink Sink) *Logger {
	return &Logger{sink: sink, now: time.Now}
}

func (a *Logger) LogSettlement(deliveryID, event, reference, userID string, amount int64, outcome string) {
	a.log(Event{
		EventType:  "SETTLEMENT",
		DeliveryID: deliveryID,
		Reference:  reference,
		UserID:     userID,
		Amount:     amount,
		Status:     outcome,
		Details:    map[string]string{"event": event},
	})
}

func (a *Logger) LogRejected(deliveryID, remoteAddr, reason string) {
	a.log(Event{
		EventType:  "WEBHOOK_REJECTED",
		DeliveryID: deliveryID,
		Status:     "REJECTED",
		Details: map[string]string{
			"remote_addr": remoteAddr,
			"reason":      reason,
		},
	})
}

func (a *Logger) LogError(deliveryID, reference string, err error) {
	a.log(Event{
		EventType:  "ERROR",
		DeliveryID: deliveryID,
		Reference:  reference,
		Status:     "FAILED",
		Details:    map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	if a == nil || a.sink == nil {
		return
	}
	event.Timestamp = a.now()
	data, _ := json.Marshal(event)
	a.sink(string(data))
}
