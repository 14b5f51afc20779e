// Package instruction decodes 16-bit CHIP-8 instruction words into the
// fields used by the executor.
package instruction

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/bits"
)

// Size is the size of CHIP-8 instructions in bytes.
const Size = 2

// Instruction is a decoded instruction word.
type Instruction struct {
	Word   uint16 // raw instruction word
	Family uint8  // first nibble, selects the opcode family
	X      uint8  // second nibble, register index
	Y      uint8  // third nibble, register index
	N      uint8  // fourth nibble, 4-bit immediate
	NN     uint8  // low byte, 8-bit immediate
	NNN    uint16 // low 12 bits, address
}

// Decode splits a big-endian instruction word given as its two memory bytes.
func Decode(hi, lo byte) Instruction {
	return DecodeWord(bits.Word(hi, lo))
}

// DecodeWord splits an instruction word into its nibble and byte views.
func DecodeWord(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Family: uint8(field(word, 12, 16)),
		X:      uint8(field(word, 8, 12)),
		Y:      uint8(field(word, 4, 8)),
		N:      uint8(field(word, 0, 4)),
		NN:     uint8(field(word, 0, 8)),
		NNN:    field(word, 0, 12),
	}
}

// field extracts a constant range that is always valid for 16-bit words.
func field(word uint16, start, end uint) uint16 {
	v, err := bits.Extract16(word, start, end)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the instruction word as 4 hex digits.
func (i Instruction) String() string {
	return fmt.Sprintf("%04X", i.Word)
}

// IsJump returns true if the instruction is an unconditional jump.
func (i Instruction) IsJump() bool {
	return i.Family == 0x1 || i.Family == 0xB
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.Family == 0x2
}

// IsReturn returns true if the instruction returns from a subroutine.
func (i Instruction) IsReturn() bool {
	return i.Word == 0x00EE
}

// IsSkip returns true if the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	switch i.Family {
	case 0x3, 0x4:
		return true
	case 0x5, 0x9:
		return i.N == 0
	case 0xE:
		return i.NN == 0x9E || i.NN == 0xA1
	}
	return false
}

// Known returns true if the word is part of the CHIP-8 instruction set.
// Family 0 only knows 00E0 and 00EE, machine code calls 0NNN are not
// supported.
func (i Instruction) Known() bool {
	switch i.Family {
	case 0x0:
		return i.Word == 0x00E0 || i.Word == 0x00EE
	case 0x5, 0x9:
		return i.N == 0
	case 0x8:
		return i.N <= 0x7 || i.N == 0xE
	case 0xE:
		return i.NN == 0x9E || i.NN == 0xA1
	case 0xF:
		switch i.NN {
		case 0x07, 0x0A, 0x15, 0x18, 0x1E, 0x29, 0x33, 0x55, 0x65:
			return true
		}
		return false
	}
	return true
}

// IsDataReference returns true if the instruction loads an address into I.
func (i Instruction) IsDataReference() bool {
	return i.Family == 0xA
}
