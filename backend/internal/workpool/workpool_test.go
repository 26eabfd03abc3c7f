package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryTask(t *testing.T) {
	p := New(4)
	var n int64
	for i := 0; i < 100; i++ {
		p.Post(func() error {
			atomic.AddInt64(&n, 1)
			return nil
		})
	}
	require.NoError(t, p.Wait())
	require.EqualValues(t, 100, n)
}

func TestPoolSurfacesFirstError(t *testing.T) {
	p := New(2)
	boom := errors.New("boom")
	p.Post(func() error { return boom })
	require.Equal(t, boom, p.Wait())
}

func TestPoolReusableAfterWait(t *testing.T) {
	p := New(2)
	p.Post(func() error { return errors.New("first wave fails") })
	require.Error(t, p.Wait())

	var ran bool
	p.Post(func() error {
		ran = true
		return nil
	})
	require.NoError(t, p.Wait())
	require.True(t, ran)
}

func TestCounterWaitUnblocksAfterAllIncrements(t *testing.T) {
	var c Counter
	c.Init(3)
	for i := 0; i < 3; i++ {
		go c.Increment()
	}
	require.NoError(t, c.Wait(context.Background()))
}

func TestCounterWaitRespectsCancellation(t *testing.T) {
	var c Counter
	c.Init(1) // never incremented
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
}
