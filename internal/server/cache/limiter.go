package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	// Allow registers one hit. When the limit is exceeded it returns false and
	// the time until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type RedisLimiter struct {
	client redisClient
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redisClient, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := fmt.Sprintf("rate_limit:%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, 0, fmt.Errorf("redis incr: %w", err)
	}

	// First hit opens the window.
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("redis expire: %w", err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

type window struct {
	count int
	reset time.Time
}

// LocalLimiter is the single-process Limiter.
type LocalLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string]*window
}

func NewLocalLimiter(limit int, win time.Duration) *LocalLimiter {
	return &LocalLimiter{limit: limit, window: win, now: time.Now, hits: make(map[string]*window)}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.hits[key]
	if !ok || !now.Before(w.reset) {
		w = &window{reset: now.Add(l.window)}
		l.hits[key] = w
	}
	w.count++

	if w.count > l.limit {
		return false, w.reset.Sub(now), nil
	}
	return true, 0, nil
}
