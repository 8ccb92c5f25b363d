package eventbus

import (
	"time"

	"github.com/google/uuid"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

type EventType string

const (
	EventTypeSuspension EventType = "suspension"
)

type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
	Retries   int         `json:"retries"`
}

// NewSuspensionEvent wraps a notice with a fresh event id.
func NewSuspensionEvent(notice domain.SuspensionNotice) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      EventTypeSuspension,
		Payload:   notice,
		Timestamp: time.Now(),
	}
}
