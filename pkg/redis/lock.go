package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLockNotAcquired is returned when the lock is held by another owner.
var ErrLockNotAcquired = fmt.Errorf("lock not acquired")

// TaskLock is a Redis-backed lock used to serialize a scheduled task
// across service instances. The owner token guards against releasing or
// refreshing a lock that expired and was taken over by someone else.
type TaskLock struct {
	client          *Client
	key             string
	token           string
	ttl             time.Duration
	refreshInterval time.Duration
}

// NewTaskLock creates a lock for the named task. The TTL bounds how long
// a crashed holder blocks other instances; refreshInterval must be
// shorter than the TTL.
func NewTaskLock(client *Client, name string, ttl, refreshInterval time.Duration) *TaskLock {
	return &TaskLock{
		client:          client,
		key:             "task_lock:" + name,
		token:           uuid.New().String(),
		ttl:             ttl,
		refreshInterval: refreshInterval,
	}
}

// Lock attempts to acquire the lock once. It returns ErrLockNotAcquired
// when another instance holds it.
func (l *TaskLock) Lock(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, []byte(l.token), l.ttl)
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.key, err)
	}
	if !ok {
		return ErrLockNotAcquired
	}
	return nil
}

// Unlock releases the lock if this instance still owns it.
func (l *TaskLock) Unlock(ctx context.Context) error {
	data, found, err := l.client.GetBytes(ctx, l.key)
	if err != nil {
		return err
	}
	if !found || string(data) != l.token {
		return nil
	}
	return l.client.Delete(ctx, l.key)
}

// AutoRefresh extends the lock TTL periodically until the context is
// canceled or a refresh fails. The returned channel yields exactly one
// value: nil on context cancellation, the refresh error otherwise.
func (l *TaskLock) AutoRefresh(ctx context.Context) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(l.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				errChan <- nil
				return
			case <-ticker.C:
				if err := l.refresh(ctx); err != nil {
					errChan <- err
					return
				}
			}
		}
	}()

	return errChan
}

// refresh extends the TTL when this instance still owns the lock.
func (l *TaskLock) refresh(ctx context.Context) error {
	data, found, err := l.client.GetBytes(ctx, l.key)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", l.key, err)
	}
	if !found || string(data) != l.token {
		return fmt.Errorf("refresh %s: lock lost", l.key)
	}
	return l.client.Expire(ctx, l.key, l.ttl)
}
