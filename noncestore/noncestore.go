// Package noncestore detects replayed MAC nonces.
//
// A store remembers every (key identifier, nonce) pair it is asked to claim
// for the given TTL and refuses a second claim within that window. Both
// implementations satisfy mac.NonceStore.
package noncestore

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalvas/macauth/mac"
)

// ErrReplayed is returned when a nonce is claimed twice within its TTL. It
// wraps mac.ErrReplayedNonce.
var ErrReplayed = fmt.Errorf("noncestore: replayed nonce: %w", mac.ErrReplayedNonce)

// KeyPrefix prefixes every key written to a shared backend.
const KeyPrefix = "mac:nonce:"

// Store claims nonces.
type Store interface {
	Claim(ctx context.Context, keyID, nonce string, ttl time.Duration) error
}

var (
	_ Store          = (*Memory)(nil)
	_ Store          = (*Redis)(nil)
	_ mac.NonceStore = Store(nil)
)

func storageKey(keyID, nonce string) string {
	return KeyPrefix + keyID + ":" + nonce
}
