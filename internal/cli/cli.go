// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/retroenv/chip8vm/internal/host"
	"github.com/retroenv/chip8vm/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	emulator := options.NewEmulator()
	readOptionFlags(flags, &opts)
	readEmulatorFlags(flags, &emulator)

	var quirks quirkFlags
	readQuirkFlags(flags, &quirks)

	var fps int
	var fast bool
	flags.IntVar(&fps, "fps", 60, "frames per second, the timers tick once per frame")
	flags.BoolVar(&fast, "fast", false, "run frames unthrottled instead of at the frame rate")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, emulator, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, emulator, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	opts.Overrides = quirks.overrides(flags)
	if err := normalizeOptions(&opts, &emulator, fps, fast); err != nil {
		return opts, emulator, err
	}

	return opts, emulator, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program, emulator *options.Emulator, fps int, fast bool) error {
	if opts.Quirks != "" {
		opts.Quirks = strings.ToLower(opts.Quirks)
		if _, err := options.QuirksFromProfile(opts.Quirks); err != nil {
			return err
		}
	}

	if opts.Verify && !opts.Disassemble {
		return errors.New("parameter -verify requires -disasm")
	}

	opts.Layout = strings.ToLower(opts.Layout)
	if !host.ValidLayout(opts.Layout) {
		return fmt.Errorf("unsupported key layout: %s. Valid options: %s, %s, %s",
			opts.Layout, host.LayoutHex, host.LayoutQWERTY, host.LayoutScancode)
	}

	switch {
	case emulator.CyclesPerFrame <= 0:
		return fmt.Errorf("invalid instructions per frame %d, has to be positive", emulator.CyclesPerFrame)
	case fps <= 0:
		return fmt.Errorf("invalid frame rate %d, has to be positive", fps)
	case emulator.StackDepth <= 0:
		return fmt.Errorf("invalid stack depth %d, has to be positive", emulator.StackDepth)
	}

	emulator.FrameInterval = time.Second / time.Duration(fps)
	if fast {
		emulator.FrameInterval = 0
	}
	emulator.Trace = opts.Trace
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for the disassembly or display, printed on console if no name given")
	flags.StringVar(&opts.Keys, "keys", "", "scripted key events as frame:key+ or frame:key-, for example 30:5+,40:5-")
	flags.StringVar(&opts.Layout, "layout", host.LayoutHex, "key names used in the key script (hex/qwerty/scancode)")
	flags.StringVar(&opts.Quirks, "quirks", "", "quirk profile (amiga/modern/superchip/vip), default is vip for .vip files and modern otherwise")
	flags.BoolVar(&opts.Disassemble, "disasm", false, "print a disassembly of the ROM instead of running it")
	flags.BoolVar(&opts.Verify, "verify", false, "verify that the generated disassembly contains the exact bytes of the ROM")
	flags.BoolVar(&opts.Render, "render", false, "print the display every time it changes")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, enables debug logging")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readEmulatorFlags(flags *flag.FlagSet, opts *options.Emulator) {
	flags.IntVar(&opts.CyclesPerFrame, "cycles", options.DefaultCyclesPerFrame, "instructions executed per frame")
	flags.Uint64Var(&opts.MaxFrames, "frames", 0, "stop after the given amount of frames, 0 runs until interrupted")
	flags.IntVar(&opts.StackDepth, "stack", opts.StackDepth, "maximum nesting of subroutine calls")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses the current time")
}

// quirkFlags contains the individual quirk flags, only flags that were set
// override the quirk profile.
type quirkFlags struct {
	shiftUsesVY        bool
	jumpUsesVX         bool
	indexAutoincrement bool
	indexOverflowFlag  bool
}

func readQuirkFlags(flags *flag.FlagSet, q *quirkFlags) {
	flags.BoolVar(&q.shiftUsesVY, "shift-vy", false, "8XY6/8XYE shift VY instead of VX")
	flags.BoolVar(&q.jumpUsesVX, "jump-vx", false, "BNNN jumps to NNN plus VX instead of V0")
	flags.BoolVar(&q.indexAutoincrement, "index-inc", false, "FX55/FX65 increment I")
	flags.BoolVar(&q.indexOverflowFlag, "index-overflow", false, "FX1E sets VF on overflow of I")
}

func (q *quirkFlags) overrides(flags *flag.FlagSet) options.QuirkOverrides {
	var overrides options.QuirkOverrides
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shift-vy":
			overrides.ShiftUsesVY = &q.shiftUsesVY
		case "jump-vx":
			overrides.JumpUsesVX = &q.jumpUsesVX
		case "index-inc":
			overrides.IndexAutoincrement = &q.indexAutoincrement
		case "index-overflow":
			overrides.IndexOverflowFlag = &q.indexOverflowFlag
		}
	})
	return overrides
}
