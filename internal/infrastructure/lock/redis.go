package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// release only deletes the key if we still own it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX PX lock shared by every API replica.
// TTL bounds how long a crashed holder can block others.
type RedisLocker struct {
	rdb   *redis.Client
	ttl   time.Duration
	retry time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, retry: 50 * time.Millisecond}
}

func lockKey(key string) string { return "lock:" + key }

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.rdb == nil {
		return nil, errors.New("redis locker: no client")
	}
	k := lockKey(key)
	token := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(c, l.rdb, []string{k}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}
