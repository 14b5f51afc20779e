package host

import (
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/retrogolib/log"
)

// TextRenderer prints the display as text.
type TextRenderer struct {
	w io.Writer
}

// Compile-time check to ensure TextRenderer implements Renderer.
var _ Renderer = (*TextRenderer)(nil)

// NewTextRenderer returns a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// Render writes the frame number followed by the display rows.
func (r *TextRenderer) Render(frame uint64, screen *display.Framebuffer) error {
	if _, err := fmt.Fprintf(r.w, "frame %d\n%s", frame, screen.String()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return nil
}

// LogBeeper logs the start and stop of the sound.
type LogBeeper struct {
	logger *log.Logger
}

// Compile-time check to ensure LogBeeper implements Beeper.
var _ Beeper = (*LogBeeper)(nil)

// NewLogBeeper returns a beeper that logs to the logger.
func NewLogBeeper(logger *log.Logger) *LogBeeper {
	return &LogBeeper{logger: logger}
}

// SetSounding logs the new sound state.
func (b *LogBeeper) SetSounding(on bool) {
	if on {
		b.logger.Info("Beep started")
	} else {
		b.logger.Info("Beep stopped")
	}
}
