package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-dashboard/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	ID         string         `json:"id"`
	RequestID  string         `json:"request_id"`
	Outcome    domain.Outcome `json:"outcome"`
	ObservedAt time.Time      `json:"observed_at"`
}

// NewEvent constructs an Event for the given outcome.
func NewEvent(outcome domain.Outcome) Event {
	return Event{
		ID:         uuid.NewString(),
		RequestID:  outcome.RequestID,
		Outcome:    outcome,
		ObservedAt: time.Now().UTC(),
	}
}
