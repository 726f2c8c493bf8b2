package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// badgerLoggerAdapter adapts zerolog to the badger.Logger interface.
type badgerLoggerAdapter struct {
	log zerolog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.log.Error().Msg(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.log.Warn().Msg(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.log.Debug().Msg(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.log.Debug().Msg(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed cache at path, or a purely in-memory one when
// inMemory is set (path is ignored then). Badger's own TTL is not used:
// expiry lives in the entry header so ClearExpired can enumerate and count
// expired entries deterministically.
func Open(path string, inMemory bool, log zerolog.Logger) (Cache, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLoggerAdapter{log: log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerCache{db: db, log: log, now: time.Now}, nil
}

type badgerCache struct {
	db  *badger.DB
	log zerolog.Logger

	// now is swapped out by tests to step through expiry instants.
	now func() time.Time
}

func (c *badgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiry time.Time

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			v, exp, err := decodeEntry(raw)
			if err != nil {
				return err
			}
			value = append([]byte(nil), v...)
			expiry = exp
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if expiry.After(c.now()) {
		return value, true, nil
	}

	// Lazy eviction: the expired read both answers the caller and cleans
	// storage. The sweep may have raced us to the delete; absence and
	// commit conflicts both mean the entry is already gone.
	if err := c.delete(key); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (c *badgerCache) Set(ctx context.Context, key string, value []byte, ttlHours float64) error {
	expiry := c.now().Add(ttlToDuration(ttlHours))
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), encodeEntry(value, expiry))
	})
}

func (c *badgerCache) ClearExpired(ctx context.Context) (int, error) {
	now := c.now()

	var expired []string
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(raw []byte) error {
				_, exp, err := decodeEntry(raw)
				if err != nil {
					return err
				}
				if !exp.After(now) {
					expired = append(expired, string(item.Key()))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range expired {
		if err := c.delete(key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (c *badgerCache) Close() error { return c.db.Close() }

// delete removes key, treating "already absent" and write conflicts from a
// concurrent eviction as success.
func (c *badgerCache) delete(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err == badger.ErrKeyNotFound || err == badger.ErrConflict {
		return nil
	}
	return err
}
