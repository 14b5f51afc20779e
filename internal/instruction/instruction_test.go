package instruction

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	ins := Decode(0xD1, 0x2F)

	assert.Equal(t, uint16(0xD12F), ins.Word)
	assert.Equal(t, uint8(0xD), ins.Family)
	assert.Equal(t, uint8(0x1), ins.X)
	assert.Equal(t, uint8(0x2), ins.Y)
	assert.Equal(t, uint8(0xF), ins.N)
	assert.Equal(t, uint8(0x2F), ins.NN)
	assert.Equal(t, uint16(0x12F), ins.NNN)
	assert.Equal(t, "D12F", ins.String())
}

func TestDecodeWord(t *testing.T) {
	ins := DecodeWord(0x00EE)
	assert.Equal(t, uint8(0), ins.Family)
	assert.Equal(t, uint8(0xEE), ins.NN)
	assert.Equal(t, uint16(0x0EE), ins.NNN)
}

func TestInstruction_IsJump(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected bool
	}{
		{"jump instruction", 0x1234, true},
		{"jump with offset", 0xB300, true},
		{"call instruction", 0x2300, false},
		{"load instruction", 0x6012, false},
		{"return instruction", 0x00EE, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeWord(tt.word).IsJump())
		})
	}
}

func TestInstruction_IsReturn(t *testing.T) {
	assert.True(t, DecodeWord(0x00EE).IsReturn())
	assert.False(t, DecodeWord(0x00E0).IsReturn())
	assert.False(t, DecodeWord(0x2300).IsReturn())
	assert.True(t, DecodeWord(0x2300).IsCall())
}

func TestInstruction_IsSkip(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected bool
	}{
		{"SE byte", 0x3234, true},
		{"SNE byte", 0x4234, true},
		{"SE registers", 0x5230, true},
		{"invalid SE registers", 0x5123, false},
		{"SNE registers", 0x9230, true},
		{"SKP", 0xE19E, true},
		{"SKNP", 0xE1A1, true},
		{"unknown E family", 0xE1A2, false},
		{"jump", 0x1200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeWord(tt.word).IsSkip())
		})
	}
}

func TestInstruction_Known(t *testing.T) {
	tests := []struct {
		word     uint16
		expected bool
	}{
		{0x00E0, true},
		{0x00EE, true},
		{0x0123, false},
		{0x1234, true},
		{0x5120, true},
		{0x5123, false},
		{0x8127, true},
		{0x8128, false},
		{0x812E, true},
		{0x9120, true},
		{0x9121, false},
		{0xD125, true},
		{0xE29E, true},
		{0xE200, false},
		{0xF10A, true},
		{0xF165, true},
		{0xF175, false},
	}

	for _, tt := range tests {
		t.Run(DecodeWord(tt.word).String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeWord(tt.word).Known())
		})
	}
}

func TestInstruction_IsDataReference(t *testing.T) {
	assert.True(t, DecodeWord(0xA200).IsDataReference())
	assert.False(t, DecodeWord(0x6200).IsDataReference())
}
