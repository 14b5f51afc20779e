// Package memory implements the flat CHIP-8 address space.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter area, the hex font lives at FontStart
//	0x200-0xFFF: Program space, ROMs are loaded at ProgramStart
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the amount of addressable bytes.
	Size = 0x1000

	// MaxAddress is the highest valid address.
	MaxAddress = Size - 1

	// ProgramStart is the address where ROMs are loaded and execution starts.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits into program space.
	MaxROMSize = Size - ProgramStart

	// FontStart is the address of the first glyph of the built-in font.
	FontStart = 0x050

	// FontGlyphSize is the amount of bytes per font glyph.
	FontGlyphSize = 5
)

var (
	// ErrROMTooLarge is returned when a ROM does not fit into program space.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrAddressOutOfRange is returned for accesses past MaxAddress.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// Font contains the 16 hex digit glyphs 0-F, 4x5 pixels each.
var Font = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4KB main memory of the machine.
type Memory struct {
	data [Size]byte
}

// New returns a memory with the font installed and program space cleared.
func New() *Memory {
	m := &Memory{}
	copy(m.data[FontStart:], Font[:])
	return m
}

// LoadROM copies the ROM into program space starting at ProgramStart.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, %d bytes available", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	copy(m.data[ProgramStart:], rom)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if address > MaxAddress {
		return 0, fmt.Errorf("%w: reading $%04X", ErrAddressOutOfRange, address)
	}
	return m.data[address], nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if address > MaxAddress {
		return fmt.Errorf("%w: writing $%04X", ErrAddressOutOfRange, address)
	}
	m.data[address] = value
	return nil
}

// Slice returns a view of length bytes starting at address. The range has to
// be fully inside the address space.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if length < 0 || end > Size {
		return nil, fmt.Errorf("%w: $%04X-$%04X", ErrAddressOutOfRange, address, end-1)
	}
	return m.data[address:end], nil
}

// FontAddress returns the address of the glyph for the given hex digit.
// Only the low nibble of digit is used.
func FontAddress(digit uint8) uint16 {
	return FontStart + FontGlyphSize*uint16(digit&0x0F)
}
