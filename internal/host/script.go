package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/retroenv/chip8vm/internal/keypad"
	"github.com/retroenv/retrogolib/set"
)

// Key names accepted in key scripts.
const (
	LayoutHex      = "hex"
	LayoutQWERTY   = "qwerty"
	LayoutScancode = "scancode"
)

var errInvalidKeyEvent = errors.New("invalid key event")

type keyEvent struct {
	key  uint8
	down bool
}

// ScriptedInput replays key events at fixed frame numbers.
type ScriptedInput struct {
	events map[uint64][]keyEvent
	frames set.Set[uint64]
}

// Compile-time check to ensure ScriptedInput implements InputSource.
var _ InputSource = (*ScriptedInput)(nil)

// ParseScript parses a comma separated list of key events of the form
// frame:key+ (pressed) or frame:key- (released). Keys are named using the
// given layout, an empty layout selects hex key names.
func ParseScript(script, layout string) (*ScriptedInput, error) {
	s := &ScriptedInput{
		events: map[uint64][]keyEvent{},
		frames: set.New[uint64](),
	}

	for entry := range strings.SplitSeq(script, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		frame, event, err := parseEvent(entry, layout)
		if err != nil {
			return nil, err
		}
		s.events[frame] = append(s.events[frame], event)
		s.frames.Add(frame)
	}
	return s, nil
}

// Update applies the key events of the frame.
func (s *ScriptedInput) Update(frame uint64, keys *keypad.State) {
	if !s.frames.Contains(frame) {
		return
	}
	for _, event := range s.events[frame] {
		keys.Set(event.key, event.down)
	}
}

// LastFrame returns the highest frame number that has an event.
func (s *ScriptedInput) LastFrame() uint64 {
	var last uint64
	for frame := range s.frames {
		last = max(last, frame)
	}
	return last
}

func parseEvent(entry, layout string) (uint64, keyEvent, error) {
	frameText, keyText, ok := strings.Cut(entry, ":")
	if !ok || len(keyText) < 2 {
		return 0, keyEvent{}, fmt.Errorf("%w '%s': expected frame:key+ or frame:key-", errInvalidKeyEvent, entry)
	}

	frame, err := strconv.ParseUint(frameText, 10, 64)
	if err != nil {
		return 0, keyEvent{}, fmt.Errorf("%w '%s': parsing frame: %w", errInvalidKeyEvent, entry, err)
	}

	var event keyEvent
	switch keyText[len(keyText)-1] {
	case '+':
		event.down = true
	case '-':
	default:
		return 0, keyEvent{}, fmt.Errorf("%w '%s': missing + or - suffix", errInvalidKeyEvent, entry)
	}

	event.key, err = parseKey(keyText[:len(keyText)-1], layout)
	if err != nil {
		return 0, keyEvent{}, fmt.Errorf("%w '%s': %w", errInvalidKeyEvent, entry, err)
	}
	return frame, event, nil
}

func parseKey(name, layout string) (uint8, error) {
	switch strings.ToLower(layout) {
	case "", LayoutHex:
		key, err := strconv.ParseUint(name, 16, 8)
		if err != nil || key >= keypad.KeyCount {
			return 0, fmt.Errorf("unknown hex key '%s'", name)
		}
		return uint8(key), nil

	case LayoutQWERTY:
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) {
			return 0, fmt.Errorf("unknown keyboard key '%s'", name)
		}
		key, ok := keypad.QWERTYLayout.HexKey(unicode.ToLower(r))
		if !ok {
			return 0, fmt.Errorf("unknown keyboard key '%s'", name)
		}
		return key, nil

	case LayoutScancode:
		code, err := strconv.Atoi(name)
		if err != nil {
			return 0, fmt.Errorf("unknown scancode '%s'", name)
		}
		key, ok := keypad.ScancodeLayout.HexKey(code)
		if !ok {
			return 0, fmt.Errorf("unmapped scancode %d", code)
		}
		return key, nil

	default:
		return 0, fmt.Errorf("unsupported key layout '%s'", layout)
	}
}

// ValidLayout returns whether the layout name is supported.
func ValidLayout(layout string) bool {
	switch strings.ToLower(layout) {
	case "", LayoutHex, LayoutQWERTY, LayoutScancode:
		return true
	}
	return false
}
