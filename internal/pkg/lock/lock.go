// Package lock provides short-lived distributed mutual exclusion on Redis.
//
// A lease is a key set with NX and a TTL holding a random token. Only the
// holder of the token can release it, so an expired lease taken over by
// another process is never released by the previous owner.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the key.
var ErrNotAcquired = errors.New("lock: not acquired")

const defaultPrefix = "lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker acquires named leases.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
}

// TokenSource generates lease tokens.
type TokenSource interface {
	Generate() string
}

// Redis is a Locker backed by a single Redis instance.
type Redis struct {
	client redis.Cmdable
	tokens TokenSource
	prefix string
}

// NewRedis returns a Locker using SET NX with a per-lease token.
func NewRedis(client redis.Cmdable, tokens TokenSource) *Redis {
	return &Redis{client: client, tokens: tokens, prefix: defaultPrefix}
}

// Lease is an acquired lock.
type Lease struct {
	client redis.Cmdable
	key    string
	token  string
}

// Acquire returns ErrNotAcquired when the key is already held.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	fk := r.prefix + key
	token := r.tokens.Generate()

	ok, err := r.client.SetNX(ctx, fk, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return &Lease{client: r.client, key: fk, token: token}, nil
}

// Release deletes the key if this lease still owns it. Releasing twice, or
// after expiry, is a no-op.
func (l *Lease) Release(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}

// With runs fn while holding key.
func With(ctx context.Context, l Locker, key string, ttl time.Duration, fn func(context.Context) error) error {
	lease, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}

	// release must survive a canceled request context
	defer func() {
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = lease.Release(relCtx)
	}()

	return fn(ctx)
}
