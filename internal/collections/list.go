package collections

// node is a singly linked list element.
type node[T any] struct {
	value T
	next  *node[T]
}

// List is a singly linked list with O(1) front operations.
type List[T any] struct {
	head *node[T]
	size int
}

// NewList returns an empty list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// PushFront inserts value at the head of the list.
func (l *List[T]) PushFront(value T) {
	l.head = &node[T]{value: value, next: l.head}
	l.size++
}

// PopFront removes and returns the head value. The second return value is
// false when the list is empty.
func (l *List[T]) PopFront() (T, bool) {
	var zero T
	if l.head == nil {
		return zero, false
	}
	n := l.head
	l.head = n.next
	l.size--
	return n.value, true
}

// Front returns the head value without removing it.
func (l *List[T]) Front() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	return l.head.value, true
}

// Len reports the number of elements in the list.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list holds no elements.
func (l *List[T]) Empty() bool { return l.head == nil }
