package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and Redis-disabled
// runs. State does not survive the process, which degrades chunk
// resumability to a single process lifetime.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory state store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]json.RawMessage),
	}
}

// Get implements Store
func (s *MemoryStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("state unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Set implements Store
func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state marshal %s: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// LocalLock is an in-process pipeline mutex for Redis-disabled runs.
// 같은 프로세스의 타이머/수동 실행 겹침만 막는다.
type LocalLock struct {
	ch chan struct{}
}

// NewLocalLock creates a released local lock
func NewLocalLock() *LocalLock {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	return &LocalLock{ch: ch}
}

// Acquire implements contracts.Locker
func (l *LocalLock) Acquire(ctx context.Context, wait time.Duration) (bool, error) {
	select {
	case <-l.ch:
		return true, nil
	case <-time.After(wait):
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Release implements contracts.Locker
func (l *LocalLock) Release(ctx context.Context) error {
	select {
	case l.ch <- struct{}{}:
	default:
		// already released
	}
	return nil
}
