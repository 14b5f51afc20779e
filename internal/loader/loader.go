// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8vm/internal/memory"
)

// ErrEmptyROM is returned for ROM files without content.
var ErrEmptyROM = errors.New("empty rom")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a raw ROM file. CHIP-8 ROMs have no header, the whole file
// content is placed at the program start address.
func (l *Loader) Load(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	switch {
	case len(rom) == 0:
		return nil, fmt.Errorf("%w: %s", ErrEmptyROM, path)
	case len(rom) > memory.MaxROMSize:
		return nil, fmt.Errorf("%w: %s has %d bytes, %d bytes available",
			memory.ErrROMTooLarge, path, len(rom), memory.MaxROMSize)
	}
	return rom, nil
}
