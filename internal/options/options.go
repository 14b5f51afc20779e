// Package options contains the program options.
package options

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/retroenv/chip8vm/internal/stack"
	"github.com/retroenv/chip8vm/internal/timer"
)

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"ROM file to run"`
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for the disassembly or final screen (default: stdout)"`
	Keys   string `flag:"keys" usage:"scripted key events, for example 30:5+,40:5-"`
	Layout string `flag:"layout" usage:"key names used in the key script: hex, qwerty, scancode"`
}

// Flags contains behavior options.
type Flags struct {
	Quirks      string `flag:"quirks" usage:"quirk profile: modern, superchip, vip, amiga (default: auto-detect)"`
	Disassemble bool   `flag:"disasm" usage:"print a disassembly of the ROM and exit"`
	Verify      bool   `flag:"verify" usage:"verify that the disassembly recreates the ROM bytes"`
	Trace       bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug       bool   `flag:"debug" usage:"enable debug logging"`
	Quiet       bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	Render bool `flag:"render" usage:"print the display to the console whenever it changes"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	OutputFlags

	Overrides QuirkOverrides
}

// Quirks selects between historically divergent instruction behaviors.
// The set is fixed for the lifetime of a machine.
type Quirks struct {
	ShiftUsesVY        bool // 8XY6/8XYE copy VY into VX before shifting
	JumpUsesVX         bool // BNNN adds VX (X = high nibble of NNN) instead of V0
	IndexAutoincrement bool // FX55/FX65 leave I pointing past the last register
	IndexOverflowFlag  bool // FX1E sets VF when I overflows
}

// QuirkOverrides contains quirks that were set individually on the command
// line. Nil fields keep the value of the selected profile.
type QuirkOverrides struct {
	ShiftUsesVY        *bool
	JumpUsesVX         *bool
	IndexAutoincrement *bool
	IndexOverflowFlag  *bool
}

// Apply returns the quirks with all set overrides applied.
func (o QuirkOverrides) Apply(q Quirks) Quirks {
	apply := func(field *bool, override *bool) {
		if override != nil {
			*field = *override
		}
	}
	apply(&q.ShiftUsesVY, o.ShiftUsesVY)
	apply(&q.JumpUsesVX, o.JumpUsesVX)
	apply(&q.IndexAutoincrement, o.IndexAutoincrement)
	apply(&q.IndexOverflowFlag, o.IndexOverflowFlag)
	return q
}

// Quirk profile names.
const (
	ProfileModern    = "modern"
	ProfileSuperChip = "superchip"
	ProfileVIP       = "vip"
	ProfileAmiga     = "amiga"
)

var profiles = map[string]Quirks{
	ProfileModern:    {JumpUsesVX: true},
	ProfileSuperChip: {JumpUsesVX: true},
	ProfileVIP:       {ShiftUsesVY: true, IndexAutoincrement: true},
	ProfileAmiga:     {JumpUsesVX: true, IndexOverflowFlag: true},
}

// DefaultQuirks returns the modern CHIP-48/SUPER-CHIP behavior.
func DefaultQuirks() Quirks {
	return profiles[ProfileModern]
}

// QuirksFromProfile returns the quirks of a named profile.
func QuirksFromProfile(name string) (Quirks, error) {
	q, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Quirks{}, fmt.Errorf("unsupported quirk profile '%s'. Valid options: %s",
			name, strings.Join(ProfileNames(), ", "))
	}
	return q, nil
}

// ProfileNames returns all supported quirk profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Emulator defines options to control the emulated machine and its host loop.
type Emulator struct {
	Quirks Quirks

	CyclesPerFrame int           // instructions executed per timer tick
	FrameInterval  time.Duration // wall clock time per frame, 0 runs unthrottled
	MaxFrames      uint64        // stop after this many frames, 0 runs until cancelled
	StackDepth     int           // maximum nesting of subroutine calls
	Seed           uint64        // random generator seed, 0 seeds from the clock
	Trace          bool          // log every executed instruction
}

// Default values of the emulator options.
const (
	DefaultCyclesPerFrame = 12
)

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		Quirks:         DefaultQuirks(),
		CyclesPerFrame: DefaultCyclesPerFrame,
		FrameInterval:  timer.Interval,
		StackDepth:     stack.DefaultDepth,
	}
}
