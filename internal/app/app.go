// Package app provides the main application helpers of the emulator.
package app

import (
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// PrintBanner prints the application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the input file. An empty profile
// means that the ROM is not executed.
func PrintInfo(logger *log.Logger, opts options.Program, profile string, size int) {
	if opts.Quiet {
		return
	}

	if profile == "" {
		logger.Info("Disassembling CHIP-8 ROM",
			log.String("file", opts.Input),
			log.Int("size", size),
		)
		return
	}

	logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.String("quirks", profile),
	)
	if opts.Overrides != (options.QuirkOverrides{}) {
		logger.Info("Quirk profile overridden by command line flags")
	}
}
