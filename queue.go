package hashedwheel

// slotQueue is an intrusive doubly linked list of the tasks sharing a slot.
// first and last are both nil when the queue is empty.
type slotQueue struct {
	first, last *Task
}

// append links t at the tail.
func (q *slotQueue) append(t *Task) {
	l := q.last
	t.prev = l
	t.next = nil
	q.last = t
	if l == nil {
		q.first = t
	} else {
		l.next = t
	}
	t.queue = q
}

func (q *slotQueue) peek() *Task {
	return q.first
}

func (q *slotQueue) empty() bool {
	return q.first == nil
}

// unlink removes t from any position.
func (q *slotQueue) unlink(t *Task) {
	next, prev := t.next, t.prev

	if prev == nil {
		q.first = next
	} else {
		prev.next = next
	}

	if next == nil {
		q.last = prev
	} else {
		next.prev = prev
	}

	t.prev, t.next, t.queue = nil, nil, nil
}

// unlinkFirst removes t, which must be the head.
func (q *slotQueue) unlinkFirst(t *Task) {
	next := t.next
	t.queue = nil
	t.next = nil
	q.first = next
	if next == nil {
		q.last = nil
	} else {
		next.prev = nil
	}
}
