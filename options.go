package hashedwheel

import (
	"time"
)

// default driver cadence, matching one tick per second.
const defaultTickDuration = 1 * time.Second

// Movement reports the current absolute tick.
type Movement func() int64

// Options is common options
type Options struct {
	Logger       *Logger
	Movement     Movement // nil means one tick per Advance call
	FaultHandler func(t *Task, err error)
	TickDuration time.Duration

	err error // movement misconfiguration, reported by New
}

// NewOptions creates options with defaults.
func NewOptions(opts ...Option) Options {
	var options = Options{
		Logger:       defaultLogger,
		TickDuration: defaultTickDuration,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return options
}

// Option is for setting options.
type Option func(*Options)

// WithLogger sets logger.
func WithLogger(logger *Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMovement sets a custom tick source.
// A nil movement keeps the auto-increment mode.
func WithMovement(movement Movement) Option {
	return func(o *Options) {
		if movement != nil {
			o.Movement = movement
		}
	}
}

// WithTimeMovement derives ticks from a clock: tick = now / interval.
// The interval also becomes the default cadence of a Driver.
func WithTimeMovement(now func() time.Time, interval time.Duration) Option {
	return func(o *Options) {
		switch {
		case now == nil:
			o.err = ErrMissingMovement
		case interval <= 0:
			o.err = ErrInvalidInterval
		default:
			o.Movement = func() int64 {
				return now().UnixNano() / int64(interval)
			}
			o.TickDuration = interval
		}
	}
}

// WithFaultHandler sets a callback receiving every error or recovered panic
// raised by a task handler during Advance.
func WithFaultHandler(fn func(t *Task, err error)) Option {
	return func(o *Options) {
		o.FaultHandler = fn
	}
}

// WithTickDuration sets the default Driver cadence, must be greater than 0.
// If not, it will be ignored.
func WithTickDuration(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.TickDuration = d
		}
	}
}
