package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	outcomeBucket = []byte("outcomes")

	errBucketMissing = errors.New("outcome bucket missing")
)

// expiryPrefix is the width of the big-endian unix-seconds expiry stored ahead of each fingerprint.
const expiryPrefix = 8

// boltStore keeps one record per request id in a single bucket.
type boltStore struct {
	db  *bolt.DB
	ttl time.Duration

	sweepEvery time.Duration
	sweepMu    sync.Mutex
	nextSweep  time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(outcomeBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{
		db:         db,
		ttl:        opts.EntryTTL,
		sweepEvery: opts.CleanupInterval,
		nextSweep:  time.Now().Add(opts.CleanupInterval),
	}, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// LastFingerprint reports the fingerprint recorded for id. Expired records read as absent
// and are left for the next sweep.
func (b *boltStore) LastFingerprint(id string) (fingerprint string, found bool, err error) {
	if b == nil || b.db == nil {
		return "", false, nil
	}
	now := time.Now()
	if err := b.sweepIfDue(now); err != nil {
		return "", false, err
	}

	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(outcomeBucket)
		if bucket == nil {
			return errBucketMissing
		}
		fp, expiry, ok := decodeRecord(bucket.Get([]byte(id)))
		if ok && expiry.After(now) {
			fingerprint, found = fp, true
		}
		return nil
	})
	return fingerprint, found, err
}

// RecordFingerprint stores fingerprint for id and restarts its TTL.
func (b *boltStore) RecordFingerprint(id, fingerprint string) error {
	if b == nil || b.db == nil {
		return nil
	}
	now := time.Now()
	if err := b.sweepIfDue(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(outcomeBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(id), encodeRecord(fingerprint, now.Add(b.ttl)))
	})
}

// sweepIfDue deletes expired and malformed records at most once per cleanup interval.
func (b *boltStore) sweepIfDue(now time.Time) error {
	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Before(b.nextSweep) {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(outcomeBucket)
		if bucket == nil {
			return errBucketMissing
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if _, expiry, ok := decodeRecord(v); ok && expiry.After(now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired outcomes: %w", err)
	}
	b.nextSweep = now.Add(b.sweepEvery)
	return nil
}

func encodeRecord(fingerprint string, expiry time.Time) []byte {
	buf := make([]byte, expiryPrefix, expiryPrefix+len(fingerprint))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	return append(buf, fingerprint...)
}

// decodeRecord splits a stored value; ok is false for nil or malformed values.
func decodeRecord(value []byte) (fingerprint string, expiry time.Time, ok bool) {
	if len(value) < expiryPrefix {
		return "", time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryPrefix]))
	if unix <= 0 {
		return "", time.Time{}, false
	}
	return string(value[expiryPrefix:]), time.Unix(unix, 0), true
}
