package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *badgerCache {
	t.Helper()
	c, err := Open("", true, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c.(*badgerCache)
}

// entryExists bypasses expiry handling and reports raw key presence.
func entryExists(t *testing.T, c *badgerCache, key string) bool {
	t.Helper()
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestCache_SetGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"lat":34.05}`), 1))

	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"lat":34.05}`, string(v))
}

func TestCache_MissingKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	v, ok, err := c.Get(ctx, "never-set")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestCache_LazyEvictionOnExpiredRead(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 1))

	// still live one second before the expiry instant
	c.now = func() time.Time { return base.Add(time.Hour - time.Second) }
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	// past expiry the read reports absence and removes the entry
	c.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, entryExists(t, c, "k"), "expired entry must be removed by the read")
}

func TestCache_SetReplacesValueAndExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "k", []byte("v1"), 1))
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), 2))

	// past the first TTL but inside the second: the replacement's expiry won
	c.now = func() time.Time { return base.Add(90 * time.Minute) }
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", string(v))
}

func TestCache_FractionalTTL(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0.25)) // 15 minutes

	c.now = func() time.Time { return base.Add(14 * time.Minute) }
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(16 * time.Minute) }
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ClearExpired(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "short-a", []byte("a"), 0.5))
	require.NoError(t, c.Set(ctx, "short-b", []byte("b"), 0.5))
	require.NoError(t, c.Set(ctx, "long", []byte("c"), 72))

	c.now = func() time.Time { return base.Add(time.Hour) }
	n, err := c.ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.False(t, entryExists(t, c, "short-a"))
	assert.False(t, entryExists(t, c, "short-b"))
	assert.True(t, entryExists(t, c, "long"))

	// sweeping again finds nothing; already-gone entries are not an error
	n, err = c.ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSweeper_RemovesExpiredEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := newTestCache(t)

	base := time.Now()
	c.now = func() time.Time { return base.Add(time.Hour) } // everything below is born expired
	require.NoError(t, c.Set(ctx, "stale", []byte("v"), -1))

	sw := NewSweeper(c, zerolog.Nop())
	go sw.Start(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for entryExists(t, c, "stale") {
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not remove expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
