// Package bits extracts and composes contiguous bit ranges of machine words.
package bits

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a requested bit range does not fit the word.
var ErrInvalidRange = errors.New("invalid bit range")

// MaxWidth is the widest word that can be processed.
const MaxWidth = 64

// Extract returns the bits [start, end) of value, counted from the least
// significant bit and shifted down to bit 0. The value is treated as a word
// of the given width.
func Extract(value uint64, width, start, end uint) (uint64, error) {
	if width == 0 || width > MaxWidth || start > end || start >= width || end > width {
		return 0, fmt.Errorf("%w: [%d, %d) of %d-bit word", ErrInvalidRange, start, end, width)
	}
	return (value >> start) & mask(end-start), nil
}

// Extract8 returns the bits [start, end) of an 8-bit value.
func Extract8(value uint8, start, end uint) (uint8, error) {
	v, err := Extract(uint64(value), 8, start, end)
	return uint8(v), err
}

// Extract16 returns the bits [start, end) of a 16-bit value.
func Extract16(value uint16, start, end uint) (uint16, error) {
	v, err := Extract(uint64(value), 16, start, end)
	return uint16(v), err
}

// Compose places hi above the loWidth bits of lo, resulting in one wider value.
func Compose(hi, lo uint64, loWidth uint) uint64 {
	if loWidth >= MaxWidth {
		return lo
	}
	return hi<<loWidth | lo&mask(loWidth)
}

// Word composes two bytes into a big-endian 16-bit word, hi being the byte
// stored first in memory.
func Word(hi, lo byte) uint16 {
	return uint16(Compose(uint64(hi), uint64(lo), 8))
}

func mask(n uint) uint64 {
	if n >= MaxWidth {
		return ^uint64(0)
	}
	return 1<<n - 1
}
