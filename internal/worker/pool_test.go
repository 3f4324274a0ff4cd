package worker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gamemaster-server/internal/worker"
)

func TestPoolReturnsResult(t *testing.T) {
	pool := worker.New(2, zap.NewNop())

	text, err := pool.Do(context.Background(), func(context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", text)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := worker.New(2, zap.NewNop())

	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = pool.Do(context.Background(), func(context.Context) (string, error) {
				now := atomic.AddInt32(&running, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return "", nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestPoolHonorsContextWhileWaiting(t *testing.T) {
	pool := worker.New(1, zap.NewNop())

	release := make(chan struct{})
	go func() {
		_, _ = pool.Do(context.Background(), func(context.Context) (string, error) {
			<-release
			return "", nil
		})
	}()
	// Let the blocking job occupy the only worker.
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Do(ctx, func(context.Context) (string, error) {
		return "never", nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	pool.Wait()
}
