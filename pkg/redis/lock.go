package redis

import (
	"context"
	"fmt"
	"time"
)

// Lock is a coarse mutex over Redis SET NX, scoped to one pipeline pass.
// 동시 실행(타이머 + 수동) 방지용. TTL은 프로세스가 죽었을 때의 안전장치.
type Lock struct {
	client *Client
	key    string
	ttl    time.Duration
	token  string
}

// NewLock creates a lock on the given key
func NewLock(client *Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Acquire tries to take the lock, polling until wait elapses.
// Returns false when another holder keeps the lock for the whole window.
func (l *Lock) Acquire(ctx context.Context, wait time.Duration) (bool, error) {
	if !l.client.Enabled() {
		// Without Redis there is nothing to coordinate against
		return true, nil
	}

	token := fmt.Sprintf("%d", time.Now().UnixNano())
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.Redis().SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return false, fmt.Errorf("lock acquire failed: %w", err)
		}
		if ok {
			l.token = token
			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// Release frees the lock if this instance still holds it
func (l *Lock) Release(ctx context.Context) error {
	if !l.client.Enabled() || l.token == "" {
		return nil
	}

	// Compare-and-delete so an expired lock taken over by another run
	// is not released from under it.
	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		end
		return 0
	`
	err := l.client.Redis().Eval(ctx, script, []string{l.key}, l.token).Err()
	l.token = ""
	if err != nil {
		return fmt.Errorf("lock release failed: %w", err)
	}
	return nil
}
