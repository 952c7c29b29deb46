package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDenylist stores revoked token ids as expiring keys.
type RedisDenylist struct {
	client redis.UniversalClient
	prefix string
}

var _ Denylist = (*RedisDenylist)(nil)

func NewRedisDenylist(client redis.UniversalClient, prefix string) *RedisDenylist {
	if prefix == "" {
		prefix = "jwt:revoked"
	}
	return &RedisDenylist{client: client, prefix: prefix}
}

func (d *RedisDenylist) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", d.prefix, tokenID)
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl means the
// token has already expired and nothing is stored.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("denylist set: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist exists: %w", err)
	}
	return n > 0, nil
}
