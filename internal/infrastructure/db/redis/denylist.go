package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/accesshub/accesshub-api/internal/core/ports"
)

// Denylist stores revoked token ids until the token would have expired anyway.
// Key format: revoked:<jti>
type Denylist struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewDenylist creates a Denylist wrapping the given Redis client.
func NewDenylist(client redis.UniversalClient) *Denylist {
	return &Denylist{client: client, now: time.Now}
}

var _ ports.TokenDenylist = (*Denylist)(nil)

// Revoke marks tokenID as revoked until the given expiry. An already expired
// token needs no entry.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func (d *Denylist) key(tokenID string) string {
	return "revoked:" + tokenID
}
