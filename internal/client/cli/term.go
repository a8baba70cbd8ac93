package cli

import (
	"os"

	"golang.org/x/term"
)

// narrowWidth is the terminal width below which the session list becomes a
// drawer instead of a fixed panel.
const narrowWidth = 80

// getTermSize is a test seam for term.GetSize.
var getTermSize = term.GetSize

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	w, _, err := getTermSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

func isNarrow(width int) bool {
	return width > 0 && width < narrowWidth
}
