package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rshade/amlscreen/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading input failed.
	Cancelled bool
}

// ConfirmOverwrite asks whether an existing config file at path may be
// replaced. It declines without prompting when stdin is not a terminal.
//
// The prompt defaults to "No" when the user presses Enter without input.
func ConfirmOverwrite(writer io.Writer, reader io.Reader, path string) PromptResult {
	if !tui.IsTTY() {
		return PromptResult{Accepted: false}
	}
	return confirm(writer, reader, fmt.Sprintf("? %s already exists. Overwrite it? [y/N] ", path))
}

func confirm(writer io.Writer, reader io.Reader, question string) PromptResult {
	fmt.Fprint(writer, question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF (Ctrl+D) declines.
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}
