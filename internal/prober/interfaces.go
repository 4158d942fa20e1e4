package prober

import (
	"context"

	"github.com/samvad-hq/samvad-dashboard/pkg/publishers"
)

// EventPublisher publishes outcome events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers the last outcome fingerprint per request.
type Deduper interface {
	LastFingerprint(id string) (string, bool, error)
	RecordFingerprint(id, fingerprint string) error
}
