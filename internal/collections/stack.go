// SPDX-License-Identifier: MIT

// Package collections provides small generic containers: a stack, a queue
// and a singly linked list.
package collections

// Stack is a LIFO container backed by a slice.
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push places item on top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item. The second return value is false
// when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	item := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero // release reference
	s.items = s.items[:len(s.items)-1]
	return item, true
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len reports the number of items on the stack.
func (s *Stack[T]) Len() int { return len(s.items) }

// Empty reports whether the stack holds no items.
func (s *Stack[T]) Empty() bool { return len(s.items) == 0 }
