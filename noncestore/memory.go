package noncestore

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/vitalvas/macauth/mac"
)

// Memory is a process-local Store. Expired entries are dropped lazily on
// the next claim of the same nonce and in bulk by Sweep.
type Memory struct {
	entries *xsync.MapOf[string, time.Time]
	clock   mac.Clock
}

// NewMemory creates an empty in-memory store. A nil clock means the system
// clock.
func NewMemory(clock mac.Clock) *Memory {
	if clock == nil {
		clock = mac.SystemClock{}
	}

	return &Memory{
		entries: xsync.NewMapOf[string, time.Time](),
		clock:   clock,
	}
}

// Claim records the nonce until now+ttl, or returns ErrReplayed if it is
// already recorded and not yet expired.
func (m *Memory) Claim(_ context.Context, keyID, nonce string, ttl time.Duration) error {
	now := m.clock.Now()
	replayed := false

	m.entries.Compute(storageKey(keyID, nonce), func(expires time.Time, loaded bool) (time.Time, bool) {
		if loaded && now.Before(expires) {
			replayed = true
			return expires, false
		}

		return now.Add(ttl), false
	})

	if replayed {
		return ErrReplayed
	}

	return nil
}

// Sweep removes expired entries and returns how many were removed.
func (m *Memory) Sweep() int {
	now := m.clock.Now()
	removed := 0

	m.entries.Range(func(key string, _ time.Time) bool {
		m.entries.Compute(key, func(expires time.Time, loaded bool) (time.Time, bool) {
			if loaded && !now.Before(expires) {
				removed++
				return expires, true
			}

			return expires, !loaded
		})

		return true
	})

	return removed
}

// Len returns the number of recorded nonces, expired or not.
func (m *Memory) Len() int {
	return m.entries.Size()
}

// Run calls Sweep every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
