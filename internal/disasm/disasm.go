// Package disasm traces the reachable code of a CHIP-8 program and writes
// it as an assembly listing.
package disasm

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/bits"
	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// offset contains the disassembly state of a single ROM byte.
type offset struct {
	code     bool // start of an instruction
	codeTail bool // second byte of an instruction

	word uint16
	text string // formatted instruction with numeric target

	target    uint16 // address referenced by jp, call or ld I
	hasTarget bool

	callDestination bool
	label           string
	comment         string
}

// Disasm implements a CHIP-8 disassembler.
type Disasm struct {
	logger *log.Logger
	rom    []byte

	offsets            []offset
	branchDestinations set.Set[uint16] // set of all addresses that are branched to
	dataReferences     set.Set[uint16] // set of all addresses that are loaded into I

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
}

// New creates a new disassembler for the program bytes that get loaded at
// the program start address.
func New(logger *log.Logger, rom []byte) (*Disasm, error) {
	if len(rom) > memory.MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, %d bytes available", memory.ErrROMTooLarge, len(rom), memory.MaxROMSize)
	}

	return &Disasm{
		logger:              logger,
		rom:                 rom,
		offsets:             make([]offset, len(rom)),
		branchDestinations:  set.New[uint16](),
		dataReferences:      set.New[uint16](),
		offsetsToParseAdded: set.New[uint16](),
	}, nil
}

// Process disassembles the program and writes the listing to the writer.
func (dis *Disasm) Process(ctx context.Context, w io.Writer) error {
	if len(dis.rom) > 0 {
		dis.offsets[0].label = startLabel
		dis.addAddressToParse(memory.ProgramStart)
	}

	if err := dis.followExecutionFlow(ctx); err != nil {
		return err
	}
	dis.processJumpDestinations()
	dis.processDataReferences()

	if err := dis.write(w); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// CodeBytes returns the amount of program bytes that were traced as code.
func (dis *Disasm) CodeBytes() int {
	var count int
	for _, offsetInfo := range dis.offsets {
		if offsetInfo.code {
			count += instruction.Size
		}
	}
	return count
}

// followExecutionFlow parses all reachable instructions starting from the
// program entry point.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("following execution flow: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]
		dis.processOffset(address)
	}
	return nil
}

func (dis *Disasm) processOffset(address uint16) {
	index := dis.addressToIndex(address)
	if index+1 >= len(dis.rom) {
		return // single trailing byte can not hold an instruction
	}

	offsetInfo := &dis.offsets[index]
	if offsetInfo.code || offsetInfo.codeTail || dis.offsets[index+1].code {
		return // overlapping instructions are handled as branch into instruction
	}

	word := bits.Word(dis.rom[index], dis.rom[index+1])
	name, ok := Lookup(word)
	if !ok {
		// consider an unknown instruction as start of data
		dis.logger.Debug("Unknown instruction in execution flow",
			log.Hex("address", address), log.Hex("word", word))
		return
	}

	offsetInfo.code = true
	offsetInfo.word = word
	offsetInfo.text = Format(word)
	dis.offsets[index+1].codeTail = true

	dis.handleControlFlow(address, offsetInfo, instruction.DecodeWord(word), name.Name)
}

// handleControlFlow queues all addresses that execution can continue at.
func (dis *Disasm) handleControlFlow(address uint16, offsetInfo *offset, ins instruction.Instruction, name string) {
	next := address + instruction.Size

	switch {
	case ins.IsJump():
		// the target of jp V0, addr depends on a register value
		if ins.Family == 0x1 {
			dis.addBranch(offsetInfo, ins.NNN, false)
		} else {
			offsetInfo.comment = "indirect jump"
		}

	case ins.IsCall():
		dis.addBranch(offsetInfo, ins.NNN, true)
		dis.addAddressToParse(next)

	case chip8.SkipInstructions.Contains(name):
		dis.addAddressToParse(next)
		dis.addAddressToParse(next + instruction.Size)

	case ins.IsReturn():
		// execution continues at the caller

	case ins.IsDataReference():
		if dis.inROM(ins.NNN) {
			offsetInfo.target = ins.NNN
			offsetInfo.hasTarget = true
			dis.dataReferences.Add(ins.NNN)
		}
		dis.addAddressToParse(next)

	default:
		dis.addAddressToParse(next)
	}
}

// addBranch records a jump or call destination and queues it for parsing.
func (dis *Disasm) addBranch(offsetInfo *offset, target uint16, call bool) {
	if !dis.inROM(target) {
		return
	}

	offsetInfo.target = target
	offsetInfo.hasTarget = true
	dis.branchDestinations.Add(target)
	if call {
		dis.offsets[dis.addressToIndex(target)].callDestination = true
	}
	dis.addAddressToParse(target)
}

func (dis *Disasm) addAddressToParse(address uint16) {
	if !dis.inROM(address) || dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

func (dis *Disasm) inROM(address uint16) bool {
	return address >= memory.ProgramStart && int(address-memory.ProgramStart) < len(dis.rom)
}

func (dis *Disasm) addressToIndex(address uint16) int {
	return int(address - memory.ProgramStart)
}

func (dis *Disasm) indexToAddress(index int) uint16 {
	return memory.ProgramStart + uint16(index)
}

// write outputs the listing, instructions are followed by their address,
// bytes and optional annotation as comment.
func (dis *Disasm) write(w io.Writer) error {
	buf := bufio.NewWriter(w)

	for index := 0; index < len(dis.rom); {
		offsetInfo := dis.offsets[index]
		if offsetInfo.label != "" {
			if index > 0 {
				_, _ = fmt.Fprintln(buf)
			}
			_, _ = fmt.Fprintf(buf, "%s:\n", offsetInfo.label)
		}

		if offsetInfo.code {
			_, _ = fmt.Fprintf(buf, "  %-24s ; $%04X %02X %02X", dis.codeText(offsetInfo),
				dis.indexToAddress(index), dis.rom[index], dis.rom[index+1])
			if offsetInfo.comment != "" {
				_, _ = fmt.Fprintf(buf, " %s", offsetInfo.comment)
			}
			_, _ = fmt.Fprintln(buf)
			index += instruction.Size
			continue
		}

		index = dis.writeData(buf, index)
	}

	return buf.Flush()
}

// writeData outputs a line of data bytes starting at the index and returns
// the index following the written bytes.
func (dis *Disasm) writeData(buf *bufio.Writer, index int) int {
	start := index
	comment := dis.offsets[index].comment

	_, _ = fmt.Fprintf(buf, "  .byte $%02X", dis.rom[index])
	for index++; index < len(dis.rom) && index-start < dataBytesPerLine; index++ {
		offsetInfo := dis.offsets[index]
		if offsetInfo.code || offsetInfo.label != "" || offsetInfo.comment != "" {
			break
		}
		_, _ = fmt.Fprintf(buf, ", $%02X", dis.rom[index])
	}

	if comment != "" {
		_, _ = fmt.Fprintf(buf, " ; $%04X %s", dis.indexToAddress(start), comment)
	}
	_, _ = fmt.Fprintln(buf)
	return index
}
