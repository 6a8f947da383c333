package async

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestPool_SequentialOrder(t *testing.T) {
	p := NewPool(quietLogger())
	require.Equal(t, 1, p.Workers())

	var order []int
	err := p.Run(context.Background(), 5, func(_ context.Context, i int) {
		order = append(order, i)
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPool_ConcurrentSlots(t *testing.T) {
	p := NewPool(quietLogger(), WithWorkers(4))
	out := make([]int, 50)
	var running, peak int32

	err := p.Run(context.Background(), len(out), func(_ context.Context, i int) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		out[i] = i * i
		atomic.AddInt32(&running, -1)
	})
	require.NoError(t, err)
	for i, v := range out {
		require.Equal(t, i*i, v)
	}
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
}

func TestPool_CancelStopsScheduling(t *testing.T) {
	for _, workers := range []int{1, 3} {
		ctx, cancel := context.WithCancel(context.Background())
		p := NewPool(quietLogger(), WithWorkers(workers))

		var mu sync.Mutex
		calls := 0
		err := p.Run(ctx, 100, func(_ context.Context, i int) {
			mu.Lock()
			calls++
			mu.Unlock()
			if i == 0 {
				cancel()
				return
			}
			time.Sleep(time.Millisecond)
		})
		require.ErrorIs(t, err, context.Canceled)
		require.Less(t, calls, 100)
		cancel()
	}
}

func TestWithWorkers_IgnoresNonPositive(t *testing.T) {
	require.Equal(t, 1, NewPool(quietLogger(), WithWorkers(0)).Workers())
	require.Equal(t, 1, NewPool(quietLogger(), WithWorkers(-2)).Workers())
	require.Equal(t, 8, NewPool(nil, WithWorkers(8)).Workers())
}
