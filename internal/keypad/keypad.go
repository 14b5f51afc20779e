// Package keypad implements the 16 key hex keypad snapshot.
package keypad

// KeyCount is the amount of hex keys.
const KeyCount = 16

// Keypad is the input state read by the executor.
type Keypad interface {
	// IsDown returns whether the hex key is currently held.
	IsDown(key uint8) bool
	// JustPressed returns the lowest hex key that went down since the last
	// call and forgets all pending transitions.
	JustPressed() (uint8, bool)
}

// Compile-time check to ensure State implements Keypad.
var _ Keypad = (*State)(nil)

// State is the keypad snapshot that the host refreshes once per frame.
type State struct {
	down    uint16 // bit n set if key n is held
	pressed uint16 // bit n set if key n went down since the last JustPressed
}

// New returns a keypad with all keys released.
func New() *State {
	return &State{}
}

// Set updates the held state of a hex key. Only the low nibble is used.
func (s *State) Set(key uint8, down bool) {
	mask := uint16(1) << (key & 0x0F)
	if down {
		if s.down&mask == 0 {
			s.pressed |= mask
		}
		s.down |= mask
		return
	}
	s.down &^= mask
}

// IsDown returns whether the hex key is currently held.
func (s *State) IsDown(key uint8) bool {
	return s.down&(1<<(key&0x0F)) != 0
}

// JustPressed returns the lowest hex key that transitioned to pressed since
// the last call.
func (s *State) JustPressed() (uint8, bool) {
	if s.pressed == 0 {
		return 0, false
	}
	pressed := s.pressed
	s.pressed = 0
	for key := range uint8(KeyCount) {
		if pressed&(1<<key) != 0 {
			return key, true
		}
	}
	return 0, false
}

// Reset releases all keys and forgets pending transitions.
func (s *State) Reset() {
	s.down = 0
	s.pressed = 0
}
