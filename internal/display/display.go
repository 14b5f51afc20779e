// Package display provides the monochrome CHIP-8 display surface.
package display

import "strings"

// Screen dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Display is the surface the executor draws on. Coordinates are always
// inside the Width x Height grid.
type Display interface {
	Get(x, y int) bool
	Set(x, y int, on bool)
	Clear()
}

// Compile-time check to ensure Framebuffer implements Display.
var _ Display = (*Framebuffer)(nil)

// Framebuffer is an in-memory Display that tracks whether it was modified
// since the last call to Changed.
type Framebuffer struct {
	pixels  [Height][Width]bool
	changed bool
}

// New returns a cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{changed: true}
}

// Get returns whether the pixel is on.
func (f *Framebuffer) Get(x, y int) bool {
	return f.pixels[y][x]
}

// Set switches the pixel on or off.
func (f *Framebuffer) Set(x, y int, on bool) {
	if f.pixels[y][x] != on {
		f.pixels[y][x] = on
		f.changed = true
	}
}

// Clear switches all pixels off.
func (f *Framebuffer) Clear() {
	f.pixels = [Height][Width]bool{}
	f.changed = true
}

// Changed returns whether the framebuffer was modified since the last call
// and resets the flag.
func (f *Framebuffer) Changed() bool {
	changed := f.changed
	f.changed = false
	return changed
}

// Lit returns the amount of pixels that are on.
func (f *Framebuffer) Lit() int {
	var n int
	for y := range f.pixels {
		for x := range f.pixels[y] {
			if f.pixels[y][x] {
				n++
			}
		}
	}
	return n
}

// String renders the framebuffer as text, one line per pixel row.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range f.pixels {
		for x := range f.pixels[y] {
			if f.pixels[y][x] {
				sb.WriteRune('█')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
