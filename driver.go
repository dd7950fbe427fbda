package hashedwheel

import (
	"context"
	"sync"
	"time"
)

// Driver advances a Wheel on a ticker from a dedicated goroutine.
//
// The goroutine is the only user of the wheel while the driver runs; other
// goroutines reach the wheel through Do or Step.
type Driver struct {
	wheel    *Wheel
	interval time.Duration
	jobCh    chan func()

	mu     sync.Mutex
	stopCh chan struct{} // nil when not running
	doneCh chan struct{}
}

// NewDriver creates a driver advancing w every w.TickDuration.
func NewDriver(w *Wheel) *Driver {
	return &Driver{
		wheel:    w,
		interval: w.TickDuration,
		jobCh:    make(chan func()),
	}
}

// Start starts the driver. Starting a running driver does nothing.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopCh != nil {
		return
	}

	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	go d.run(time.NewTicker(d.interval), d.stopCh, d.doneCh)

	d.wheel.Logger.Info().
		Dur("interval", d.interval).
		Log("driver started")
}

// Stop stops the driver and waits for its goroutine to exit.
// Stopping a stopped driver does nothing.
func (d *Driver) Stop() {
	d.mu.Lock()
	if d.stopCh == nil {
		d.mu.Unlock()
		return
	}
	close(d.stopCh)
	done := d.doneCh
	d.stopCh, d.doneCh = nil, nil
	d.mu.Unlock()

	<-done

	d.wheel.Logger.Info().Log("driver stopped")
}

// Running reports whether the driver loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopCh != nil
}

func (d *Driver) run(ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.wheel.Advance()
		case job := <-d.jobCh:
			job()
		case <-stop:
			return
		}
	}
}

// Do runs fn with the wheel on the driver goroutine and waits for it.
// A panic in fn is returned as a *PanicError.
func (d *Driver) Do(ctx context.Context, fn func(w *Wheel)) error {
	d.mu.Lock()
	stop := d.stopCh
	d.mu.Unlock()
	if stop == nil {
		return ErrDriverStopped
	}

	var err error
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r}
			}
		}()
		fn(d.wheel)
	}

	select {
	case d.jobCh <- job:
	case <-stop:
		return ErrDriverStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Step advances the wheel immediately, without waiting for the ticker,
// and returns the number of handlers invoked.
func (d *Driver) Step(ctx context.Context) (int, error) {
	var n int
	if err := d.Do(ctx, func(w *Wheel) { n = w.Advance() }); err != nil {
		return 0, err
	}
	return n, nil
}
