package service

import (
	"context"
	"time"

	"github.com/iliyamo/contact-book/internal/utils"
)

// RevocationStore is a TTL-capable key/value store keyed by token hash.
// Add must be atomic and report whether it created the entry; Contains must
// observe every Add that has returned.
type RevocationStore interface {
	Add(ctx context.Context, tokenHash string, ttl time.Duration) (bool, error)
	Contains(ctx context.Context, tokenHash string) (bool, error)
}

// RevocationLedger records tokens invalidated before their natural expiry.
// Entries live exactly as long as the token would have, so the ledger only
// ever holds revoked tokens that are otherwise still valid.
type RevocationLedger struct {
	store RevocationStore
	now   func() time.Time
}

func NewRevocationLedger(store RevocationStore, now func() time.Time) *RevocationLedger {
	if now == nil {
		now = time.Now
	}
	return &RevocationLedger{store: store, now: now}
}

// Add revokes raw until expiresAt. It reports true when this call created
// the entry. A token already past expiresAt is not stored.
func (l *RevocationLedger) Add(ctx context.Context, raw string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return false, nil
	}
	created, err := l.store.Add(ctx, utils.HashToken(raw), ttl)
	if err != nil {
		return false, wrapInternal("add revocation", err)
	}
	return created, nil
}

// Contains reports whether tokenHash has been revoked and not yet purged.
func (l *RevocationLedger) Contains(ctx context.Context, tokenHash string) (bool, error) {
	ok, err := l.store.Contains(ctx, tokenHash)
	if err != nil {
		return false, wrapInternal("lookup revocation", err)
	}
	return ok, nil
}
