// Package locking serializes read-modify-write updates of a single bike.
package locking

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrNotAcquired is returned when a lock could not be taken before the context ended.
var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a held lock.
type Unlock func()

// Locker hands out exclusive locks keyed by bike id.
type Locker interface {
	Lock(ctx context.Context, bikeID int) (Unlock, error)
}

// LocalLocker is an in-process Locker. It only protects against writers in
// the same process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[int]chan struct{}
}

var _ Locker = (*LocalLocker)(nil)

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[int]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, bikeID int) (Unlock, error) {
	l.mu.Lock()
	ch, ok := l.locks[bikeID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[bikeID] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}
}

func key(bikeID int) string {
	return "bikes:lock:" + strconv.Itoa(bikeID)
}
