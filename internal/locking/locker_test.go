package locking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameBike(t *testing.T) {
	l := NewLocalLocker()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), 7)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside.Load())
}

func TestLocalLocker_DifferentBikesDoNotBlock(t *testing.T) {
	l := NewLocalLocker()

	unlockA, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	unlockB, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_ContextEndsWait(t *testing.T) {
	l := NewLocalLocker()

	unlock, err := l.Lock(context.Background(), 3)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, 3)
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op

	again, err := l.Lock(context.Background(), 3)
	require.NoError(t, err)
	again()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "bikes:lock:42", key(42))
}

func TestRedisLocker_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	l := NewRedisLocker(client, time.Second)

	unlock, err := l.Lock(context.Background(), 5)

	assert.Error(t, err)
	assert.Nil(t, unlock)
}

func TestNewRedisLocker_DefaultTTL(t *testing.T) {
	l := NewRedisLocker(nil, 0)
	assert.Equal(t, 30*time.Second, l.ttl)
}
