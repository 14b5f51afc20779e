// Package pipeline orchestrates the emulation and disassembly workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/app"
	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/host"
	"github.com/retroenv/chip8vm/internal/keypad"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow for a ROM file.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the ROM file and either disassembles or runs it.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, emulator options.Emulator, writer io.Writer) error {
	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	if opts.Disassemble {
		app.PrintInfo(p.logger, opts, "", len(rom))
		if opts.Verify {
			return p.DisassembleAndVerify(ctx, rom, writer)
		}
		return p.Disassemble(ctx, rom, writer)
	}

	profile, quirks, err := p.detector.Detect(opts)
	if err != nil {
		return fmt.Errorf("detecting quirk profile: %w", err)
	}
	emulator.Quirks = opts.Overrides.Apply(quirks)

	app.PrintInfo(p.logger, opts, profile, len(rom))
	return p.ExecuteWithROM(ctx, rom, opts, emulator, writer)
}

// Disassemble writes the assembly listing of the ROM.
func (p *Pipeline) Disassemble(ctx context.Context, rom []byte, writer io.Writer) error {
	dis, err := disasm.New(p.logger, rom)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}
	if err := dis.Process(ctx, writer); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	p.logger.Debug("Disassembly finished",
		log.Int("code_bytes", dis.CodeBytes()),
		log.Int("data_bytes", len(rom)-dis.CodeBytes()))
	return nil
}

// DisassembleAndVerify writes the assembly listing of the ROM after verifying
// that the listing recreates the exact ROM bytes.
func (p *Pipeline) DisassembleAndVerify(ctx context.Context, rom []byte, writer io.Writer) error {
	var buf bytes.Buffer
	if err := p.Disassemble(ctx, rom, &buf); err != nil {
		return err
	}

	if err := verification.VerifyListing(p.logger, bytes.NewReader(buf.Bytes()), rom); err != nil {
		return fmt.Errorf("verifying disassembly: %w", err)
	}
	p.logger.Debug("Disassembly verified")

	if _, err := writer.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing disassembly: %w", err)
	}
	return nil
}

// ExecuteWithROM runs a ROM that is already in memory until the frame
// limit is reached or the context gets cancelled. The display is written to
// the writer when the run ends, unless every change was already rendered.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program,
	emulator options.Emulator, writer io.Writer) error {

	mem := memory.New()
	if err := mem.LoadROM(rom); err != nil {
		return fmt.Errorf("loading ROM into memory: %w", err)
	}

	collaborators, err := p.createCollaborators(opts, writer)
	if err != nil {
		return err
	}

	screen := display.New()
	keys := keypad.New()
	machine := cpu.New(p.logger, mem, screen, keys, emulator)
	h := host.New(p.logger, emulator, machine, keys, screen, collaborators)

	err = h.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Machine state at failure", log.String("state", machine.String()))
		return fmt.Errorf("running ROM: %w", err)
	}

	if !opts.Render {
		if _, werr := io.WriteString(writer, screen.String()); werr != nil {
			return fmt.Errorf("writing display: %w", werr)
		}
	}

	p.logger.Info("Emulation stopped",
		log.Int("frames", int(h.Frames())),
		log.Int("instructions", int(machine.Cycles())))
	return err
}

// createCollaborators creates the host components selected by the options.
func (p *Pipeline) createCollaborators(opts options.Program, writer io.Writer) (host.Collaborators, error) {
	collaborators := host.Collaborators{
		Beeper: host.NewLogBeeper(p.logger),
	}

	if opts.Keys != "" {
		script, err := host.ParseScript(opts.Keys, opts.Layout)
		if err != nil {
			return host.Collaborators{}, fmt.Errorf("parsing key script: %w", err)
		}
		collaborators.Input = script
	}

	if opts.Render {
		collaborators.Renderer = host.NewTextRenderer(writer)
	}
	return collaborators, nil
}
