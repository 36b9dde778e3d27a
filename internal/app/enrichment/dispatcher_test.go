package enrichment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(3, time.Minute, zap.NewNop())
	defer d.Close()

	var running, maxRunning, completed int32
	var mu sync.Mutex

	results := make([]<-chan error, 0, 10)
	for i := 0; i < 10; i++ {
		results = append(results, d.Submit(func(ctx context.Context) error {
			now := atomic.AddInt32(&running, 1)
			mu.Lock()
			if now > maxRunning {
				maxRunning = now
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&completed, 1)
			return nil
		}))
	}

	for _, done := range results {
		require.NoError(t, <-done)
	}

	assert.Equal(t, int32(10), completed)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxRunning, int32(3))
}

func TestDispatcher_FailuresDoNotStallQueue(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(2, time.Minute, zap.NewNop())
	defer d.Close()

	boom := errors.New("boom")
	var succeeded int32

	var results []<-chan error
	for i := 0; i < 6; i++ {
		i := i
		results = append(results, d.Submit(func(ctx context.Context) error {
			if i%2 == 0 {
				return boom
			}
			atomic.AddInt32(&succeeded, 1)
			return nil
		}))
	}

	var failures int
	for _, done := range results {
		if err := <-done; err != nil {
			failures++
		}
	}

	assert.Equal(t, 3, failures)
	assert.Equal(t, int32(3), atomic.LoadInt32(&succeeded))
}

func TestDispatcher_PanicCountsAsFailure(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, time.Minute, zap.NewNop())
	defer d.Close()

	first := d.Submit(func(ctx context.Context) error {
		panic("job went sideways")
	})
	second := d.Submit(func(ctx context.Context) error {
		return nil
	})

	assert.Error(t, <-first)
	assert.NoError(t, <-second)
}

func TestDispatcher_JobTimeout(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, 20*time.Millisecond, zap.NewNop())
	defer d.Close()

	done := d.Submit(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_FIFOStartOrder(t *testing.T) {
	t.Parallel()

	// Single slot makes start order observable.
	d := NewDispatcher(1, time.Minute, zap.NewNop())
	defer d.Close()

	var mu sync.Mutex
	var order []int

	var results []<-chan error
	for i := 0; i < 5; i++ {
		i := i
		results = append(results, d.Submit(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}

	for _, done := range results {
		<-done
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDispatcher_SubmitAfterClose(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, time.Minute, zap.NewNop())
	d.Close()

	err := <-d.Submit(func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}
