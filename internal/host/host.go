// Package host drives the machine at a fixed frame rate and connects it to
// input, display output and sound.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/keypad"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// Machine is the interpreter that the host drives.
type Machine interface {
	Step() error
	Timers() *timer.Pair
}

// InputSource updates the keypad state at the start of every frame.
type InputSource interface {
	Update(frame uint64, keys *keypad.State)
}

// Renderer outputs the display after a frame modified it.
type Renderer interface {
	Render(frame uint64, screen *display.Framebuffer) error
}

// Beeper is notified when the sound timer starts or stops sounding.
type Beeper interface {
	SetSounding(on bool)
}

// Collaborators are the optional host side components, nil fields are
// replaced by implementations that do nothing.
type Collaborators struct {
	Input    InputSource
	Renderer Renderer
	Beeper   Beeper
}

// Host runs frames of the machine.
type Host struct {
	logger  *log.Logger
	opts    options.Emulator
	machine Machine
	keys    *keypad.State
	screen  *display.Framebuffer

	input    InputSource
	renderer Renderer
	beeper   Beeper

	frame    uint64
	sounding bool
}

// New returns a new host for the machine.
func New(logger *log.Logger, opts options.Emulator, machine Machine, keys *keypad.State,
	screen *display.Framebuffer, collaborators Collaborators) *Host {

	h := &Host{
		logger:   logger,
		opts:     opts,
		machine:  machine,
		keys:     keys,
		screen:   screen,
		input:    collaborators.Input,
		renderer: collaborators.Renderer,
		beeper:   collaborators.Beeper,
	}
	if h.input == nil {
		h.input = nopInput{}
	}
	if h.renderer == nil {
		h.renderer = nopRenderer{}
	}
	if h.beeper == nil {
		h.beeper = nopBeeper{}
	}
	return h
}

// Run executes frames until the frame limit is reached, the context gets
// cancelled or the machine returns an error. Without frame interval the
// frames run unthrottled.
func (h *Host) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if h.opts.FrameInterval > 0 {
		ticker := time.NewTicker(h.opts.FrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for h.opts.MaxFrames == 0 || h.frame < h.opts.MaxFrames {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := h.Frame(); err != nil {
			return err
		}
	}

	h.logger.Debug("Frame limit reached", log.Int("frames", int(h.frame)))
	return nil
}

// Frame runs a single frame: the keypad is updated, the instructions of
// the frame are executed, the timers tick once and the display is handed
// to the renderer if it changed.
func (h *Host) Frame() error {
	h.input.Update(h.frame, h.keys)

	for range h.opts.CyclesPerFrame {
		if err := h.machine.Step(); err != nil {
			return fmt.Errorf("running frame %d: %w", h.frame, err)
		}
	}

	timers := h.machine.Timers()
	if sounding := timers.Sounding(); sounding != h.sounding {
		h.sounding = sounding
		h.beeper.SetSounding(sounding)
	}
	timers.Tick()

	if h.screen.Changed() {
		if err := h.renderer.Render(h.frame, h.screen); err != nil {
			return fmt.Errorf("rendering frame %d: %w", h.frame, err)
		}
	}

	h.frame++
	return nil
}

// Frames returns the amount of completed frames.
func (h *Host) Frames() uint64 {
	return h.frame
}

type nopInput struct{}

func (nopInput) Update(uint64, *keypad.State) {}

type nopRenderer struct{}

func (nopRenderer) Render(uint64, *display.Framebuffer) error { return nil }

type nopBeeper struct{}

func (nopBeeper) SetSounding(bool) {}
