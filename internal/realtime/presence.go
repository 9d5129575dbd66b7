package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const onlineUsersKey = "echo:online"

// Presence keeps the online-user set in Redis so every instance sees the
// same list regardless of which one holds the socket.
type Presence struct {
	rdb *redis.Client
}

func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb}
}

func (p *Presence) Add(ctx context.Context, userID string) error {
	return p.rdb.SAdd(ctx, onlineUsersKey, userID).Err()
}

func (p *Presence) Remove(ctx context.Context, userID string) error {
	return p.rdb.SRem(ctx, onlineUsersKey, userID).Err()
}

func (p *Presence) Online(ctx context.Context) ([]string, error) {
	return p.rdb.SMembers(ctx, onlineUsersKey).Result()
}

func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	return p.rdb.SIsMember(ctx, onlineUsersKey, userID).Result()
}
