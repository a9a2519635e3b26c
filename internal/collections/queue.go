package collections

// Queue is a FIFO container implemented as a growable ring buffer so that
// Dequeue does not shift the backing slice.
type Queue[T any] struct {
	buf   []T
	head  int
	count int
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue appends item to the back of the queue.
func (q *Queue[T]) Enqueue(item T) {
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.count)%len(q.buf)] = item
	q.count++
}

// Dequeue removes and returns the front item. The second return value is
// false when the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}
	item := q.buf[q.head]
	q.buf[q.head] = zero // release reference
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return item, true
}

// Peek returns the front item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.head], true
}

// Len reports the number of queued items.
func (q *Queue[T]) Len() int { return q.count }

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool { return q.count == 0 }

func (q *Queue[T]) grow() {
	next := make([]T, max(len(q.buf)*2, 8))
	for i := 0; i < q.count; i++ {
		next[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = next
	q.head = 0
}
