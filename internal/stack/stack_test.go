package stack

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestPushPop(t *testing.T) {
	s := New(0)
	assert.Equal(t, 0, s.Len())

	assert.NoError(t, s.Push(0x202))
	assert.NoError(t, s.Push(0x300))
	assert.Equal(t, 2, s.Len())

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x300), top)

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x300), address)

	address, err = s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), address)
	assert.Equal(t, 0, s.Len())
}

func TestPopEmpty(t *testing.T) {
	s := New(0)

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	_, ok := s.Peek()
	assert.False(t, ok)
}

func TestOverflow(t *testing.T) {
	s := New(2)
	assert.NoError(t, s.Push(1))
	assert.NoError(t, s.Push(2))

	err := s.Push(3)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, 2, s.Len())
}

func TestResetAndEntries(t *testing.T) {
	s := New(4)
	assert.NoError(t, s.Push(0x210))
	assert.NoError(t, s.Push(0x220))

	entries := s.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, uint16(0x210), entries[0])

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint16(0x210), entries[0])
}
