package locks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/logger"
)

const defaultRedisLockTTL = 2 * time.Minute

// releaseScript deletes the key only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the expiry only while the key still holds the caller's token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker shares the origin lock set between service instances.
// A held lock is renewed until released, so the TTL only bounds how long a
// crashed holder can keep an origin busy.
type RedisLocker struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	renewEvery time.Duration
	logger     *zap.Logger
}

// RedisLockerOption configures a RedisLocker.
type RedisLockerOption func(*RedisLocker)

// WithKeyPrefix sets the key namespace.
func WithKeyPrefix(prefix string) RedisLockerOption {
	return func(l *RedisLocker) {
		l.prefix = prefix
	}
}

// WithTTL sets the lock expiry.
func WithTTL(ttl time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		l.ttl = ttl
	}
}

// WithRenewInterval sets how often a held lock is extended. Defaults to a
// third of the TTL.
func WithRenewInterval(interval time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		l.renewEvery = interval
	}
}

// NewRedisLocker creates a locker backed by client.
func NewRedisLocker(client redis.UniversalClient, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		prefix: "wallet-rpc:origin-lock:",
		ttl:    defaultRedisLockTTL,
		logger: logger.Log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Connect initializes a Redis client from URL or host:port input.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// TryAcquire claims origin with SET NX; the token guards renewal and release.
func (l *RedisLocker) TryAcquire(ctx context.Context, origin string) (Release, bool, error) {
	key := l.prefix + origin
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire origin lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	renewCtx, stopRenew := context.WithCancel(context.Background())
	renewDone := make(chan struct{})
	go l.keepAlive(renewCtx, renewDone, origin, key, token)

	var once sync.Once
	return func() {
		once.Do(func() {
			stopRenew()
			<-renewDone

			// Release must succeed even if the request context is already cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("Failed to release origin lock",
					zap.String("origin", origin),
					zap.Error(err))
			}
		})
	}, true, nil
}

func (l *RedisLocker) renewInterval() time.Duration {
	if l.renewEvery > 0 {
		return l.renewEvery
	}
	if l.ttl >= 3*time.Millisecond {
		return l.ttl / 3
	}
	return defaultRedisLockTTL / 3
}

// keepAlive extends the lock until ctx is cancelled or the key no longer
// holds token.
func (l *RedisLocker) keepAlive(ctx context.Context, done chan<- struct{}, origin, key, token string) {
	defer close(done)

	ticker := time.NewTicker(l.renewInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Warn("Failed to renew origin lock",
					zap.String("origin", origin),
					zap.Error(err))
				continue
			}
			if held == 0 {
				l.logger.Warn("Origin lock lost before release", zap.String("origin", origin))
				return
			}
		}
	}
}
