package repo

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Presence tracks which users are online via Redis keys with a TTL.
// Every authenticated request refreshes the caller's key; a user whose
// key expired reads as offline.
type Presence struct {
	C   *redis.Client
	TTL time.Duration
}

func NewPresence(addr string, ttl time.Duration) *Presence {
	return &Presence{C: redis.NewClient(&redis.Options{Addr: addr}), TTL: ttl}
}

func (p *Presence) key(userID string) string { return "presence:" + userID }

func (p *Presence) Heartbeat(ctx context.Context, userID string) error {
	return p.C.Set(ctx, p.key(userID), "1", p.TTL).Err()
}

func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := p.C.Exists(ctx, p.key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *Presence) Ping(ctx context.Context) error { return p.C.Ping(ctx).Err() }
func (p *Presence) Close() error                   { return p.C.Close() }
