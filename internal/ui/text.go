package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats runnable commands. Yellow, or `backticks` without colour.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --times.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Version formats key version numbers. Use FormatVersion for the v<N> form.
	Version = Formatter{color.New(color.FgMagenta), "", ""}

	// Layer formats an encryption layer count.
	Layer = Formatter{color.New(color.FgMagenta, color.Bold), "", ""}

	Success   = Formatter{color.New(color.FgGreen), "", ""}
	Error     = Formatter{color.New(color.FgRed), "", ""}
	Warning   = Formatter{color.New(color.FgYellow), "", ""}
	Info      = Formatter{color.New(color.FgCyan), "", ""}
	Muted     = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Succeeded returns a "✓ message" status line.
func Succeeded(format string, a ...interface{}) string {
	return Success.Sprint("✓") + " " + fmt.Sprintf(format, a...)
}

// Failure returns a "✗ message" status line.
func Failure(format string, a ...interface{}) string {
	return Error.Sprint("✗") + " " + fmt.Sprintf(format, a...)
}

// Hint returns a "→ message" follow-up line.
func Hint(format string, a ...interface{}) string {
	return Info.Sprint("→") + " " + fmt.Sprintf(format, a...)
}

// FormatVersion renders a key version as v<N>.
func FormatVersion(v uint32) string {
	return Version.Sprintf("v%d", v)
}
