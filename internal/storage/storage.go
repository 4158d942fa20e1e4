// Package storage remembers the last outcome fingerprint seen per catalog entry.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks outcome fingerprints keyed by request id.
type Store interface {
	Close() error
	LastFingerprint(id string) (string, bool, error)
	RecordFingerprint(id, fingerprint string) error
}

// Backend names a Store implementation selectable from config.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendBBolt Backend = "bbolt"
)

// Options controls how long fingerprints are kept and how often expired ones are swept.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.EntryTTL <= 0 {
		o.EntryTTL = 7 * 24 * time.Hour
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = 12 * time.Hour
	}
	return o
}

// NewStore opens the backend named by typ. An empty type (or "disabled") keeps nothing,
// so every outcome counts as changed.
func NewStore(typ, path string, opts Options) (Store, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(typ))); b {
	case "", BackendNone, "disabled":
		return noopStore{}, nil
	case BackendBBolt:
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("%s storage requires a path", b)
		}
		return openBolt(path, opts.withDefaults())
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error                                 { return nil }
func (noopStore) LastFingerprint(string) (string, bool, error) { return "", false, nil }
func (noopStore) RecordFingerprint(string, string) error       { return nil }
