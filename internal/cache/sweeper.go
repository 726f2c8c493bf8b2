package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper runs ClearExpired on a fixed interval, bounding the footprint of
// entries nobody re-reads between expiry and the next lazy eviction.
type Sweeper struct {
	cache Cache
	log   zerolog.Logger
}

// NewSweeper creates a sweeper over c.
func NewSweeper(c Cache, log zerolog.Logger) *Sweeper {
	return &Sweeper{cache: c, log: log}
}

// Start blocks, sweeping every interval until ctx is cancelled. Run it on
// its own goroutine.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.cache.ClearExpired(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("cache sweep failed")
				continue
			}
			if n > 0 {
				s.log.Debug().Int("removed", n).Msg("cache sweep")
			}
		}
	}
}
