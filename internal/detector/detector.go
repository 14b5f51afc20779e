// Package detector handles quirk profile detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles quirk profile detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new quirk profile detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the quirk profile from options or file auto-detection.
// It first checks if a profile is explicitly specified in options, otherwise
// the profile is derived from the input filename extension.
func (d *Detector) Detect(opts options.Program) (string, options.Quirks, error) {
	profile := strings.ToLower(opts.Quirks)
	if profile == "" {
		profile = d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected quirk profile",
			log.String("profile", profile),
			log.String("file", opts.Input))
	}

	quirks, err := options.QuirksFromProfile(profile)
	if err != nil {
		return "", options.Quirks{}, err
	}
	return profile, quirks, nil
}

// detectFromFile determines the quirk profile based on file extension.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".vip":
		// programs written for the original COSMAC VIP interpreter
		return options.ProfileVIP
	default:
		return options.ProfileModern
	}
}
