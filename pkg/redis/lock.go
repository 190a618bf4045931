package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisclient "github.com/redis/go-redis/v9"

	apperrors "github.com/aranyat/reviews-api/pkg/errors"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock that was taken over is never released by the old holder.
var releaseScript = redisclient.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker is a single-instance Redis lock keyed per product.
type Locker struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewLocker(client *redisclient.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// Acquire takes the lock for key without waiting. It returns
// apperrors.ErrLockBusy when someone else holds it.
func (l *Locker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, apperrors.ErrLockBusy
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}
	return release, nil
}
