package hashedwheel_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperjiang/hashedwheel"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T) (*hashedwheel.Wheel, *hashedwheel.Driver) {
	t.Helper()

	tw, err := hashedwheel.New(16,
		hashedwheel.WithLogger(hashedwheel.Printf),
		hashedwheel.WithTickDuration(5*time.Millisecond),
	)
	require.NoError(t, err)

	return tw, hashedwheel.NewDriver(tw)
}

func TestDriverRunsTasks(t *testing.T) {
	should := require.New(t)

	_, d := newDriver(t)
	d.Start()
	d.Start() // already running
	defer d.Stop()
	should.True(d.Running())

	var count int32
	task := hashedwheel.NewTaskFunc(func(*hashedwheel.Task) error {
		atomic.AddInt32(&count, 1)
		return nil
	})

	ctx := context.Background()
	should.NoError(d.Do(ctx, func(w *hashedwheel.Wheel) {
		should.NoError(w.ScheduleRepeat(task, 1, 2))
	}))

	should.Eventually(func() bool {
		return atomic.LoadInt32(&count) >= 3
	}, time.Second, 5*time.Millisecond)

	var state hashedwheel.State
	should.NoError(d.Do(ctx, func(*hashedwheel.Wheel) {
		task.Cancel()
		state = task.State()
	}))
	should.Equal(hashedwheel.StateCancelled, state)
}

func TestDriverStep(t *testing.T) {
	should := require.New(t)

	tw, err := hashedwheel.New(4, hashedwheel.WithTickDuration(time.Hour))
	should.NoError(err)
	d := hashedwheel.NewDriver(tw)

	_, err = d.Step(context.Background())
	should.ErrorIs(err, hashedwheel.ErrDriverStopped)

	d.Start()
	defer d.Stop()

	var runs int
	should.NoError(d.Do(context.Background(), func(w *hashedwheel.Wheel) {
		should.NoError(w.ScheduleAfter(hashedwheel.NewTaskFunc(func(*hashedwheel.Task) error {
			runs++
			return nil
		}), 2))
	}))

	n, err := d.Step(context.Background())
	should.NoError(err)
	should.Zero(n)

	n, err = d.Step(context.Background())
	should.NoError(err)
	should.Equal(1, n)

	should.NoError(d.Do(context.Background(), func(w *hashedwheel.Wheel) {
		should.Equal(1, runs)
		should.Equal(int64(2), w.CurrentTicks())
	}))
}

func TestDriverDoPanic(t *testing.T) {
	should := require.New(t)

	_, d := newDriver(t)
	d.Start()
	defer d.Stop()

	err := d.Do(context.Background(), func(*hashedwheel.Wheel) {
		panic("boom")
	})
	var panicErr *hashedwheel.PanicError
	should.ErrorAs(err, &panicErr)
	should.Equal("boom", panicErr.Value)

	// the loop survives
	should.NoError(d.Do(context.Background(), func(*hashedwheel.Wheel) {}))
}

func TestDriverDoContext(t *testing.T) {
	should := require.New(t)

	_, d := newDriver(t)
	d.Start()
	defer d.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), func(*hashedwheel.Wheel) {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Do(ctx, func(*hashedwheel.Wheel) {})
	should.ErrorIs(err, context.DeadlineExceeded)

	close(release)
}

func TestDriverIdempotentStop(t *testing.T) {
	should := require.New(t)

	_, d := newDriver(t)
	d.Stop() // not started
	d.Start()
	d.Stop()
	d.Stop()
	should.False(d.Running())

	err := d.Do(context.Background(), func(*hashedwheel.Wheel) {})
	should.ErrorIs(err, hashedwheel.ErrDriverStopped)

	// restartable
	d.Start()
	defer d.Stop()
	should.NoError(d.Do(context.Background(), func(*hashedwheel.Wheel) {}))
}
