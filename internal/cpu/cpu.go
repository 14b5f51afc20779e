// Package cpu implements the CHIP-8 fetch, decode and execute cycle.
package cpu

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/chip8vm/internal/keypad"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/stack"
	"github.com/retroenv/chip8vm/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// RegisterCount is the amount of general purpose registers.
const RegisterCount = 16

// FlagRegister is the index of VF, the carry, borrow and collision flag.
const FlagRegister = 0xF

// State is the execution state of the CPU.
type State uint8

// Execution states.
const (
	Ready         State = iota // next Step executes the instruction at PC
	WaitingForKey              // FX0A is re-executed until a key gets pressed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case WaitingForKey:
		return "waiting for key"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Registers is the register file.
type Registers struct {
	V  [RegisterCount]uint8 // V0..VF
	I  uint16               // index register
	PC uint16               // program counter
}

// CPU executes instructions against memory, display, keypad, stack and timers.
type CPU struct {
	Registers

	logger *log.Logger
	opts   options.Emulator

	memory  *memory.Memory
	display display.Display
	keypad  keypad.Keypad
	stack   *stack.Stack
	timers  timer.Pair
	random  *rand.Rand

	state  State
	cycles uint64
}

// New returns a CPU with PC set to the program start address. The quirks of
// the options are fixed for the lifetime of the CPU.
func New(logger *log.Logger, mem *memory.Memory, disp display.Display, keys keypad.Keypad,
	opts options.Emulator) *CPU {

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &CPU{
		Registers: Registers{PC: memory.ProgramStart},
		logger:    logger,
		opts:      opts,
		memory:    mem,
		display:   disp,
		keypad:    keys,
		stack:     stack.New(opts.StackDepth),
		random:    rand.New(rand.NewPCG(seed, seed)),
	}
}

// Step executes a single instruction. Returned errors are fatal, the
// machine state is undefined afterwards.
func (c *CPU) Step() error {
	pc := c.PC
	hi, err := c.memory.Read(pc)
	if err != nil {
		return fmt.Errorf("fetching instruction at $%04X: %w", pc, err)
	}
	lo, err := c.memory.Read(pc + 1)
	if err != nil {
		return fmt.Errorf("fetching instruction at $%04X: %w", pc, err)
	}

	ins := instruction.Decode(hi, lo)
	c.PC += instruction.Size

	if c.opts.Trace {
		c.logger.Debug("Executing instruction",
			log.Hex("address", pc),
			log.String("opcode", ins.String()),
			log.String("instruction", disasm.Format(ins.Word)))
	}

	if err := c.execute(ins); err != nil {
		return fmt.Errorf("executing instruction at $%04X: %w", pc, err)
	}
	c.cycles++
	return nil
}

// State returns the execution state.
func (c *CPU) State() State {
	return c.state
}

// Timers returns the delay and sound timers that the host ticks.
func (c *CPU) Timers() *timer.Pair {
	return &c.timers
}

// Cycles returns the amount of executed instructions.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// StackEntries returns the return addresses on the call stack, oldest first.
func (c *CPU) StackEntries() []uint16 {
	return c.stack.Entries()
}

// String returns a dump of the machine state.
func (c *CPU) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC: $%04X I: $%04X state: %s cycles: %d\n", c.PC, c.I, c.state, c.cycles)

	for i, v := range c.V {
		if i%8 == 0 {
			fmt.Fprintf(&sb, "V%X-V%X:", i, i+7)
		}
		fmt.Fprintf(&sb, " %02X", v)
		if i%8 == 7 {
			sb.WriteByte('\n')
		}
	}

	fmt.Fprintf(&sb, "DT: %02X ST: %02X stack:", c.timers.Delay(), c.timers.Sound())
	for _, address := range c.stack.Entries() {
		fmt.Fprintf(&sb, " $%04X", address)
	}
	return sb.String()
}
