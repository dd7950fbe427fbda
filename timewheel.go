package hashedwheel

import (
	"fmt"
)

// Wheel is a hashed timing wheel.
//
// Tasks are kept in an array of capacity+1 slots indexed by their due tick
// modulo the array length. A Wheel is not safe for concurrent use: run it
// from one goroutine, or through a Driver.
type Wheel struct {
	Options                   // inherited options
	slots        []*slotQueue // created lazily, one per slot
	currentTicks int64        // last tick handed to Advance, never decreases
}

// New creates a wheel accepting delays and periods up to capacity ticks.
func New(capacity int, opts ...Option) (*Wheel, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	options := NewOptions(opts...)
	if options.err != nil {
		return nil, options.err
	}

	w := &Wheel{
		Options: options,
		slots:   make([]*slotQueue, capacity+1),
	}
	if w.Movement != nil {
		w.currentTicks = w.Movement()
	}

	return w, nil
}

// Capacity returns the largest accepted delay or period.
func (w *Wheel) Capacity() int { return len(w.slots) - 1 }

// Len returns the number of slots.
func (w *Wheel) Len() int { return len(w.slots) }

// CurrentTicks returns the tick reached by the last Advance.
func (w *Wheel) CurrentTicks() int64 { return w.currentTicks }

// Schedule registers a one-shot task due at the current tick.
func (w *Wheel) Schedule(t *Task) error {
	return w.register(t, 0, 0)
}

// ScheduleAfter registers a one-shot task due delay ticks from now.
// Negative delays are treated as 0.
func (w *Wheel) ScheduleAfter(t *Task, delay int) error {
	return w.register(t, max(0, delay), 0)
}

// ScheduleRepeat registers a periodic task, first due delay ticks from now
// and then every period ticks. Periods below 1 are treated as 1.
func (w *Wheel) ScheduleRepeat(t *Task, delay, period int) error {
	return w.register(t, max(0, delay), max(1, period))
}

func (w *Wheel) register(t *Task, delay, period int) error {
	if t == nil {
		return ErrNilTask
	}
	if t.state == StateScheduled {
		return fmt.Errorf("%w: %v", ErrAlreadyScheduled, t)
	}

	length := len(w.slots)
	if delay >= length {
		return fmt.Errorf("%w: %d (max %d)", ErrDelayOutOfRange, delay, length-1)
	}
	if period >= length {
		return fmt.Errorf("%w: %d (max %d)", ErrPeriodOutOfRange, period, length-1)
	}

	// rescheduled from inside its own handler, still at the head of its slot.
	// A zero delay would make the running pass pick it up again forever.
	if t.state == StateRunning {
		t.queue.unlinkFirst(t)
		delay = max(1, delay)
	}

	t.state = StateScheduled
	t.period = period
	t.nextRun = w.currentTicks + int64(delay)
	w.link(t)

	w.Logger.Debug().
		Any("key", t.key).
		Int64("next_run", t.nextRun).
		Int("period", period).
		Log("task scheduled")

	return nil
}

// link appends t to the slot of its nextRun.
func (w *Wheel) link(t *Task) {
	i := w.index(t.nextRun)
	q := w.slots[i]
	if q == nil {
		q = new(slotQueue)
		w.slots[i] = q
	}
	q.append(t)
}

func (w *Wheel) index(tick int64) int {
	length := int64(len(w.slots))
	i := tick % length
	if i < 0 {
		i += length
	}
	return int(i)
}

// Advance runs every task that has come due since the previous call and
// returns how many handlers were invoked.
//
// In auto-increment mode each call moves one tick. With a movement source,
// all ticks elapsed since the last call are caught up, visiting at most one
// lap of slots. A movement that went backwards is ignored.
func (w *Wheel) Advance() int {
	taskTicks := w.currentTicks
	var newTicks int64
	if w.Movement == nil {
		newTicks = taskTicks + 1
	} else {
		newTicks = w.Movement()
	}

	if newTicks < taskTicks {
		w.Logger.Warning().
			Int64("current", taskTicks).
			Int64("movement", newTicks).
			Log("movement went backwards")
		return 0
	}

	// handlers rescheduling themselves must see the new tick
	w.currentTicks = newTicks

	length := int64(len(w.slots))
	targetTick := min(newTicks, taskTicks+length-1)

	var ran int
	for tick := taskTicks; tick <= targetTick; tick++ {
		q := w.slots[w.index(tick)]
		if q == nil {
			continue
		}

		for {
			t := q.peek()
			if t == nil || t.nextRun > newTicks {
				break
			}

			t.state = StateRunning
			ran++
			if err := w.runTask(t); err != nil {
				w.reportFault(t, newTicks, err)
			}

			if t.state != StateRunning {
				// cancelled or rescheduled by its handler
				continue
			}

			q.unlinkFirst(t)
			if t.period > 0 {
				t.nextRun = newTicks + int64(t.period)
				t.state = StateScheduled
				w.link(t)
			} else {
				t.state = StateExecuted
			}
		}
	}

	return ran
}

func (w *Wheel) runTask(t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return t.handler.Handle(t)
}

func (w *Wheel) reportFault(t *Task, tick int64, err error) {
	w.Logger.Err().
		Err(err).
		Any("key", t.key).
		Int64("tick", tick).
		Int64("next_run", t.nextRun).
		Int("period", t.period).
		Log("task handler failed")

	if w.FaultHandler != nil {
		w.FaultHandler(t, err)
	}
}

// Clear cancels every scheduled task and releases all slots.
// It returns the number of tasks cancelled.
func (w *Wheel) Clear() int {
	var n int
	for i, q := range w.slots {
		if q == nil {
			continue
		}
		for t := q.peek(); t != nil; t = q.peek() {
			q.unlinkFirst(t)
			t.state = StateCancelled
			n++
		}
		w.slots[i] = nil
	}

	w.Logger.Debug().
		Int("cancelled", n).
		Log("wheel cleared")

	return n
}
