package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Locker hands out short exclusive locks. release is safe to call more than
// once; a nil release comes with ok == false.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// Deletes the key only if it still holds our token.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

type RedisLocker struct {
	client redisClient
}

func NewRedisLocker(client redisClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	k := "lock:" + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = l.client.Eval(context.WithoutCancel(ctx), releaseScript, []string{k}, token).Err()
		})
	}
	return release, true, nil
}

// LocalLocker is the single-process Locker.
type LocalLocker struct {
	now func() time.Time

	mu    sync.Mutex
	seq   uint64
	locks map[string]localLock
}

type localLock struct {
	id      uint64
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{now: time.Now, locks: make(map[string]localLock)}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.locks[key]; ok && now.Before(cur.expires) {
		return nil, false, nil
	}

	l.seq++
	id := l.seq
	l.locks[key] = localLock{id: id, expires: now.Add(ttl)}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.locks[key]; ok && cur.id == id {
			delete(l.locks, key)
		}
	}
	return release, true, nil
}
