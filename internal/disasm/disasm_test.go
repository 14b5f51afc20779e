package disasm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		word     uint16
		expected string
	}{
		{0x00E0, "cls"},
		{0x1234, "jp $234"},
		{0x2300, "call $300"},
		{0x3234, "se V2, $34"},
		{0xA234, "ld I, $234"},
		{0x0123, ".word $0123"},
		{0x5123, ".word $5123"},
		{0xFFFF, ".word $FFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.word))
		})
	}
}

func TestLookup(t *testing.T) {
	ins, ok := Lookup(0x00EE)
	assert.True(t, ok)
	assert.Equal(t, "ret", ins.Name)

	_, ok = Lookup(0xE1A2)
	assert.False(t, ok)
}

func disassemble(t *testing.T, rom []byte) (*Disasm, string) {
	t.Helper()

	dis, err := New(log.NewTestLogger(t), rom)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, dis.Process(context.Background(), &buf))
	return dis, buf.String()
}

func TestDisasm_Process(t *testing.T) {
	rom := []byte{
		0x00, 0xE0, // cls
		0xA2, 0x0A, // ld I, _data_020a
		0x22, 0x08, // call _func_0208
		0x12, 0x06, // jp _label_0206
		0x00, 0xEE, // ret
		0xF0, 0x90, // sprite data
	}

	dis, output := disassemble(t, rom)
	assert.Equal(t, 10, dis.CodeBytes())

	expected := []string{
		"Start:",
		"cls",
		"ld I, _data_020a",
		"call _func_0208",
		"_label_0206:",
		"jp _label_0206",
		"_func_0208:",
		"ret",
		"_data_020a:",
		".byte $F0, $90",
	}
	for _, s := range expected {
		assert.True(t, strings.Contains(output, s), s)
	}
}

func TestDisasm_SkipFollowsBothPaths(t *testing.T) {
	rom := []byte{
		0x30, 0x01, // se V0, $01
		0x12, 0x06, // jp $206
		0x00, 0xE0, // cls
		0x12, 0x06, // jp $206
	}

	dis, output := disassemble(t, rom)
	assert.Equal(t, len(rom), dis.CodeBytes())
	assert.True(t, strings.Contains(output, "cls"))
	assert.False(t, strings.Contains(output, ".byte"))
}

func TestDisasm_UnknownInstructionIsData(t *testing.T) {
	rom := []byte{
		0x00, 0xE0,
		0xFF, 0xFF,
		0x00, 0xE0,
	}

	dis, output := disassemble(t, rom)
	assert.Equal(t, 2, dis.CodeBytes())
	assert.True(t, strings.Contains(output, ".byte $FF, $FF, $00, $E0"))
}

func TestDisasm_BranchIntoInstruction(t *testing.T) {
	rom := []byte{0x12, 0x01}

	dis, output := disassemble(t, rom)
	assert.Equal(t, 0, dis.CodeBytes())
	assert.True(t, strings.Contains(output, "branch into instruction detected: jp $201"))
	assert.True(t, strings.Contains(output, "_label_0201:"))
}

func TestDisasm_IndirectJump(t *testing.T) {
	rom := []byte{
		0xB3, 0x00, // jp V0, $300
		0x00, 0xE0,
	}

	dis, output := disassemble(t, rom)
	assert.Equal(t, 2, dis.CodeBytes())
	assert.True(t, strings.Contains(output, "; $0200 B3 00 indirect jump\n"))
}

func TestDisasm_TargetOutsideProgram(t *testing.T) {
	rom := []byte{0x13, 0x00} // jp $300

	_, output := disassemble(t, rom)
	assert.True(t, strings.Contains(output, "jp $300"))
}

func TestDisasm_Canceled(t *testing.T) {
	dis, err := New(log.NewTestLogger(t), []byte{0x00, 0xE0})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err = dis.Process(ctx, &buf)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNew_ROMTooLarge(t *testing.T) {
	_, err := New(log.NewTestLogger(t), make([]byte, memory.MaxROMSize+1))
	assert.True(t, errors.Is(err, memory.ErrROMTooLarge))
}
