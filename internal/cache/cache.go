// Package cache is a key/value store with per-entry absolute expiry, used
// by consumers to wrap expensive external lookups (geocoding, feed fetches).
// Expired entries are evicted lazily on read and proactively by Sweeper.
package cache

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
)

// Cache stores opaque serialized payloads under string keys. At most one
// live entry exists per key; Set replaces value and expiry atomically.
type Cache interface {
	// Get returns the value for key when a live entry exists. A read that
	// finds an expired entry removes it and reports absence.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value with expiry now + ttlHours. Fractional hours give
	// sub-hour granularity (0.25 = 15 minutes).
	Set(ctx context.Context, key string, value []byte, ttlHours float64) error
	// ClearExpired removes every entry whose expiry is at or before now and
	// returns how many were removed.
	ClearExpired(ctx context.Context) (int, error)
	Close() error
}

// Entries are stored as an 8-byte big-endian expiry (UnixNano) followed by
// the payload, so both the lazy read path and the sweep decode expiry the
// same way.
const headerSize = 8

func encodeEntry(value []byte, expiry time.Time) []byte {
	buf := make([]byte, headerSize+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expiry.UnixNano()))
	copy(buf[headerSize:], value)
	return buf
}

func decodeEntry(raw []byte) ([]byte, time.Time, error) {
	if len(raw) < headerSize {
		return nil, time.Time{}, errors.Errorf("cache entry too short: %d bytes", len(raw))
	}
	expiry := time.Unix(0, int64(binary.BigEndian.Uint64(raw)))
	return raw[headerSize:], expiry, nil
}

func ttlToDuration(ttlHours float64) time.Duration {
	return time.Duration(ttlHours * float64(time.Hour))
}
