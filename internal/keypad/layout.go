package keypad

// Layout maps physical keys of a host keyboard to hex keys.
type Layout[K comparable] map[K]uint8

// QWERTYLayout maps the left block of a QWERTY keyboard to the COSMAC VIP
// keypad arrangement:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var QWERTYLayout = Layout[rune]{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// ScancodeLayout maps PC set 1 keyboard scancodes of the same key block to
// hex keys.
var ScancodeLayout = Layout[int]{
	2: 0x1, 3: 0x2, 4: 0x3, 5: 0xC,
	16: 0x4, 17: 0x5, 18: 0x6, 19: 0xD,
	30: 0x7, 31: 0x8, 32: 0x9, 33: 0xE,
	44: 0xA, 45: 0x0, 46: 0xB, 47: 0xF,
}

// HexKey returns the hex key of a physical key.
func (l Layout[K]) HexKey(key K) (uint8, bool) {
	hex, ok := l[key]
	return hex, ok
}

// PhysicalKey returns the physical key that is mapped to a hex key.
func (l Layout[K]) PhysicalKey(hex uint8) (K, bool) {
	for key, h := range l {
		if h == hex {
			return key, true
		}
	}
	var zero K
	return zero, false
}
