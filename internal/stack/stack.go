// Package stack implements the call stack holding subroutine return addresses.
package stack

import (
	"errors"
	"fmt"
)

// DefaultDepth is the default maximum amount of nested subroutine calls.
const DefaultDepth = 16

var (
	// ErrStackUnderflow is returned when returning with no active subroutine call.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrStackOverflow is returned when the nesting depth limit is exceeded.
	ErrStackOverflow = errors.New("stack overflow")
)

// Stack is a bounded LIFO of 16-bit return addresses.
type Stack struct {
	entries []uint16
	depth   int
}

// New returns an empty stack that allows depth nested calls.
// A depth of 0 or less selects DefaultDepth.
func New(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{
		entries: make([]uint16, 0, depth),
		depth:   depth,
	}
}

// Push adds a return address on top of the stack.
func (s *Stack) Push(address uint16) error {
	if len(s.entries) >= s.depth {
		return fmt.Errorf("%w: depth %d exceeded", ErrStackOverflow, s.depth)
	}
	s.entries = append(s.entries, address)
	return nil
}

// Pop removes and returns the top return address.
func (s *Stack) Pop() (uint16, error) {
	n := len(s.entries)
	if n == 0 {
		return 0, ErrStackUnderflow
	}
	address := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return address, nil
}

// Peek returns the top return address without removing it.
func (s *Stack) Peek() (uint16, bool) {
	n := len(s.entries)
	if n == 0 {
		return 0, false
	}
	return s.entries[n-1], true
}

// Len returns the amount of pushed return addresses.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Reset removes all entries.
func (s *Stack) Reset() {
	s.entries = s.entries[:0]
}

// Entries returns a copy of the stack content, bottom first.
func (s *Stack) Entries() []uint16 {
	entries := make([]uint16, len(s.entries))
	copy(entries, s.entries)
	return entries
}
