package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revocationPrefix namespaces revoked token hashes in Redis.
const revocationPrefix = "blacklist:jwt:"

// RevocationRepo stores hashes of revoked session tokens as Redis keys that
// expire on their own together with the token they describe.
type RevocationRepo struct{ RDB redis.Cmdable }

func NewRevocationRepo(rdb redis.Cmdable) *RevocationRepo { return &RevocationRepo{RDB: rdb} }

// Add records tokenHash for ttl. It reports true when the entry was created
// by this call and false when it already existed. SET NX makes the check and
// the write one atomic step.
func (r *RevocationRepo) Add(ctx context.Context, tokenHash string, ttl time.Duration) (bool, error) {
	created, err := r.RDB.SetNX(ctx, revocationPrefix+tokenHash, "true", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return created, nil
}

// Contains reports whether tokenHash is currently revoked.
func (r *RevocationRepo) Contains(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.RDB.Exists(ctx, revocationPrefix+tokenHash).Result()
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return n > 0, nil
}
