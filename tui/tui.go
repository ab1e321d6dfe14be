package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI prepares the terminal environment for widget output.
// When `CLICOLOR_FORCE=1` or `COLORTERM=truecolor` is set the truecolor
// profile is forced, so piped and CI runs keep chart colors. `NO_COLOR`
// forces plain ASCII output.
func InitializeTUI() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
