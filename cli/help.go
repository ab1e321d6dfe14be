package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/widgets/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const maxWidth = 72
const minWidth = 40

// TerminalWidth returns the stdout terminal width clamped to
// [minWidth, maxWidth], or maxWidth when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to the specified width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
			} else if len(line)+1+len(word) <= width {
				line += " " + word
			} else {
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies the themed help output to a command.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help to a command and all its
// subcommands. Call it after every subcommand has been added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// parseDescription splits a long description into text and examples.
func parseDescription(long string) (description string, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func renderExamples(w io.Writer, t *theme.Theme, examples string, rootCmd string) {
	main := lipgloss.NewStyle().Foreground(t.Colors.Cyan)
	flag := lipgloss.NewStyle().Foreground(t.Colors.Violet)

	for _, line := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			fmt.Fprintln(w)
		case strings.HasPrefix(trimmed, "#"):
			fmt.Fprintln(w, " "+t.Muted.Render(trimmed))
		default:
			var parts []string
			for i, part := range strings.Fields(trimmed) {
				switch {
				case i == 0 && part == rootCmd:
					parts = append(parts, main.Render(part))
				case strings.HasPrefix(part, "-"):
					parts = append(parts, flag.Render(part))
				default:
					parts = append(parts, part)
				}
			}
			fmt.Fprintln(w, "   "+strings.Join(parts, " "))
		}
	}
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	t := theme.DefaultTheme
	name := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan)
	section := lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Yellow)
	width := TerminalWidth() - 2

	fmt.Fprintln(w, " "+t.Header.Render(strings.ToUpper(cmd.CommandPath())))

	var description, examples string
	if cmd.Long != "" {
		description, examples = parseDescription(cmd.Long)
	}
	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			fmt.Fprintln(w, " "+t.Muted.Render(line))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(w)
		for _, line := range strings.Split(wrapText(description, width), "\n") {
			fmt.Fprintln(w, " "+line)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Fprintln(w, "\n "+section.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Fprintf(w, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(w, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}
		fmt.Fprintln(w, "\n "+section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Fprintf(w, " %s%s  %s\n", name.Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	var visibleFlags []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visibleFlags = append(visibleFlags, f)
		}
	})
	if len(visibleFlags) > 0 {
		flagStyle := lipgloss.NewStyle().Foreground(t.Colors.Violet)
		fmt.Fprintln(w, "\n "+section.Render("FLAGS"))
		maxFlagLen := 0
		for _, f := range visibleFlags {
			if l := len(formatFlagName(f)); l > maxFlagLen {
				maxFlagLen = l
			}
		}
		for _, f := range visibleFlags {
			flagStr := formatFlagName(f)
			padding := strings.Repeat(" ", maxFlagLen-len(flagStr))
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
				usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			fmt.Fprintf(w, " %s%s  %s\n", flagStyle.Render(flagStr), padding, usage)
		}
	}

	exampleText := cmd.Example
	if exampleText == "" {
		exampleText = examples
	}
	if exampleText != "" {
		fmt.Fprintln(w, "\n "+section.Render("EXAMPLES"))
		renderExamples(w, t, exampleText, cmd.Root().Name())
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// formatFlagName returns a formatted flag string like "-f, --flag" or "--flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
