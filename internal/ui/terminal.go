package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/kodebaseai/artifacts-sub003/internal/config"
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor decides color output from the standard conventions:
// NO_COLOR always wins, CLICOLOR_FORCE enables color even when piped,
// CLICOLOR=0 disables, and otherwise color follows TTY detection.
func ShouldUseColor() bool {
	out := termenv.NewOutput(os.Stdout)
	if out.EnvNoColor() {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	return IsTerminal()
}

// ShouldUseEmoji reports whether state icons may use emoji. KB_NO_EMOJI
// or the no-emoji config key opt out; piped output gets plain icons
// regardless.
func ShouldUseEmoji() bool {
	if os.Getenv("KB_NO_EMOJI") != "" {
		return false
	}
	if config.GetBool("no-emoji") {
		return false
	}
	return IsTerminal() && ShouldUseColor()
}
