package dispatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodexd/rolodexd/internal/dispatch"
)

func TestRun_DeliversResult(t *testing.T) {
	t.Parallel()
	pool := dispatch.NewPool(2)
	defer pool.Close()

	got, err := dispatch.Run(context.Background(), pool, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRun_PropagatesError(t *testing.T) {
	t.Parallel()
	pool := dispatch.NewPool(1)
	defer pool.Close()

	boom := errors.New("boom")
	_, err := dispatch.Run(context.Background(), pool, func() (struct{}, error) { return struct{}{}, boom })
	assert.ErrorIs(t, err, boom)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()
	pool := dispatch.NewPool(2)
	defer pool.Close()

	var running, peak atomic.Int32
	futures := make([]*dispatch.Future[struct{}], 0, 8)
	for range 8 {
		futures = append(futures, dispatch.Submit(context.Background(), pool, func() (struct{}, error) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		}))
	}
	for _, f := range futures {
		_, err := f.Wait(context.Background())
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSubmit_AfterCloseRejects(t *testing.T) {
	t.Parallel()
	pool := dispatch.NewPool(1)
	pool.Close()

	_, err := dispatch.Run(context.Background(), pool, func() (int, error) { return 0, nil })
	assert.ErrorIs(t, err, dispatch.ErrClosed)
}

func TestWait_RespectsContext(t *testing.T) {
	t.Parallel()
	pool := dispatch.NewPool(1)
	defer pool.Close()

	release := make(chan struct{})
	f := dispatch.Submit(context.Background(), pool, func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The abandoned work still completes.
	close(release)
	got, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
