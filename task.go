package hashedwheel

import "fmt"

// State is the lifecycle state of a Task.
type State int32

const (
	StateVirgin State = iota
	StateScheduled
	StateRunning
	StateExecuted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateVirgin:
		return "virgin"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateExecuted:
		return "executed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Task is the structure of a task in the time wheel.
//
// The link fields are owned by the slot queue currently holding the task,
// and state, period and nextRun are written only by the wheel. A Task must
// not be copied once scheduled.
type Task struct {
	queue      *slotQueue // the slot holding the task, nil when unlinked
	prev, next *Task
	handler    Handler
	key        any   // optional caller label, used in log fields
	nextRun    int64 // absolute tick the task is due at
	period     int   // ticks between runs, 0 for one-shot
	state      State
}

// NewTask creates a task running h. A nil handler does nothing.
func NewTask(h Handler) *Task {
	if h == nil {
		h = defaultHandler
	}
	return &Task{handler: h}
}

// NewTaskFunc creates a task running f.
func NewTaskFunc(f func(t *Task) error) *Task {
	if f == nil {
		return NewTask(nil)
	}
	return NewTask(HandlerFunc(f))
}

// WithKey labels the task for logging and returns it.
func (t *Task) WithKey(key any) *Task {
	t.key = key
	return t
}

func (t *Task) Key() any { return t.key }

func (t *Task) State() State { return t.state }

// Period returns the repeat interval in ticks, 0 for a one-shot task.
func (t *Task) Period() int { return t.period }

// NextRun returns the absolute tick the task is (or was last) due at.
func (t *Task) NextRun() int64 { return t.nextRun }

// Scheduled reports whether the task is waiting in a wheel.
func (t *Task) Scheduled() bool { return t.state == StateScheduled }

// Cancel removes the task from its wheel.
// It returns false if the task is not linked into any slot. It is safe to
// call from the task's own handler.
func (t *Task) Cancel() bool {
	q := t.queue
	if q == nil {
		return false
	}

	q.unlink(t)
	t.state = StateCancelled
	return true
}

func (t *Task) String() string {
	return fmt.Sprintf("task(%v, %s, next=%d, period=%d)", t.key, t.state, t.nextRun, t.period)
}
