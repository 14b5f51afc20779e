package disasm

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the instruction set entry for an instruction word.
// Words that the executor does not know are reported as not found.
func Lookup(word uint16) (*chip8.Instruction, bool) {
	if !instruction.DecodeWord(word).Known() {
		return nil, false
	}

	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction, op.Instruction != nil
		}
	}
	return nil, false
}

// Format returns the assembly text of an instruction word.
// Unknown words are formatted as a data word.
func Format(word uint16) string {
	ins, ok := Lookup(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}
	if params := formatParams(ins.Name, instruction.DecodeWord(word)); params != "" {
		return ins.Name + " " + params
	}
	return ins.Name
}

// formatParams formats the parameters of an instruction.
func formatParams(name string, ins instruction.Instruction) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		return formatJump(ins, fmt.Sprintf("$%03X", ins.NNN))
	case chip8.CallName:
		return fmt.Sprintf("$%03X", ins.NNN)
	case chip8.SeName, chip8.SneName:
		return formatCompare(ins)
	case chip8.LdName:
		return formatLoad(ins, fmt.Sprintf("$%03X", ins.NNN))
	case chip8.AddName:
		return formatAdd(ins)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", ins.X)
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	}
	return ""
}

// formatJump formats JP addr and JP V0, addr with the given target text.
func formatJump(ins instruction.Instruction, target string) string {
	if ins.Family == 0xB {
		return "V0, " + target
	}
	return target
}

func formatCompare(ins instruction.Instruction) string {
	switch ins.Family {
	case 0x3, 0x4:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	}
	return ""
}

// formatLoad formats all LD forms, target is the text used for LD I, addr.
func formatLoad(ins instruction.Instruction, target string) string {
	switch ins.Family {
	case 0x6:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case 0x8:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0xA:
		return "I, " + target
	case 0xF:
		return formatLoadSpecial(ins)
	}
	return ""
}

// formatLoadSpecial formats the FX loads between registers, timers, the
// keypad and memory.
func formatLoadSpecial(ins instruction.Instruction) string {
	switch ins.NN {
	case 0x07:
		return fmt.Sprintf("V%X, DT", ins.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", ins.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", ins.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", ins.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", ins.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", ins.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", ins.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}

func formatAdd(ins instruction.Instruction) string {
	switch ins.Family {
	case 0x7:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case 0x8:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0xF:
		return fmt.Sprintf("I, V%X", ins.X)
	}
	return ""
}
