package hashedwheel

// Handler is the work a task performs when it fires.
// It receives its own task, so it may cancel or reschedule itself.
type Handler interface {
	Handle(t *Task) error
}

// HandlerFunc is a function type that implements the Handler interface.
type HandlerFunc func(t *Task) error

func (f HandlerFunc) Handle(t *Task) error {
	return f(t)
}

// NewHandlerFunc creates a new HandlerFunc.
// It is a convenience function to create a Handler from a function.
func NewHandlerFunc(f func(t *Task) error) Handler {
	return HandlerFunc(f)
}

var defaultHandler = NewHandlerFunc(func(*Task) error { return nil })
