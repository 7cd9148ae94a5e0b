package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results reach the operator.
type OutputMode int

const (
	// OutputModePlain is uncolored text, safe for pipes and logs.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is lipgloss-rendered text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks the output mode for stdout. plain and noColor
// (or NO_COLOR in the environment) force plain text; forceColor yields
// styled output even when stdout is not a terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain || noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if IsTTY() {
		if os.Getenv("CI") != "" {
			return OutputModeStyled
		}
		return OutputModeInteractive
	}
	if forceColor {
		return OutputModeStyled
	}
	return OutputModePlain
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or a default when unknown.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
