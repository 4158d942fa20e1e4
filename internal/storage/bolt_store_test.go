package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreRecordsAndExpiresFingerprints(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		EntryTTL:        1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	store, err := openBolt(filepath.Join(dir, "outcomes.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	if _, found, err := store.LastFingerprint("summary"); err != nil || found {
		t.Fatalf("expected no fingerprint, found=%v err=%v", found, err)
	}

	if err := store.RecordFingerprint("summary", "abc123"); err != nil {
		t.Fatalf("RecordFingerprint: %v", err)
	}

	fp, found, err := store.LastFingerprint("summary")
	if err != nil || !found || fp != "abc123" {
		t.Fatalf("expected abc123, got fp=%q found=%v err=%v", fp, found, err)
	}

	if err := store.RecordFingerprint("summary", "def456"); err != nil {
		t.Fatalf("RecordFingerprint overwrite: %v", err)
	}
	if fp, _, _ := store.LastFingerprint("summary"); fp != "def456" {
		t.Fatalf("expected overwrite, got %q", fp)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, found, err := store.LastFingerprint("summary"); err != nil || found {
		t.Fatalf("expected entry to expire, found=%v err=%v", found, err)
	}
	if n := countRecords(t, store); n != 0 {
		t.Fatalf("expected sweep to drop expired record, %d left", n)
	}
}

func countRecords(t *testing.T, store *boltStore) int {
	t.Helper()
	var n int
	err := store.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(outcomeBucket).Stats().KeyN
		return nil
	})
	if err != nil {
		t.Fatalf("count records: %v", err)
	}
	return n
}

func TestDecodeRecordRejectsShortValues(t *testing.T) {
	if _, _, ok := decodeRecord([]byte{1, 2}); ok {
		t.Fatalf("expected short value to be rejected")
	}
	fp, _, ok := decodeRecord(encodeRecord("", time.Now().Add(time.Hour)))
	if !ok || fp != "" {
		t.Fatalf("expected empty fingerprint to round trip, ok=%v fp=%q", ok, fp)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordFingerprint("x", "y"); err != nil {
		t.Fatalf("noop store RecordFingerprint: %v", err)
	}
	if _, found, _ := store.LastFingerprint("x"); found {
		t.Fatalf("noop store must never remember")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
