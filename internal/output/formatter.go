// Package output provides output formatting for plantcare.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/manav03panchal/plantcare/internal/errors"
)

// Format represents the output format type.
type Format string

const (
	FormatCLI   Format = "cli"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ColorMode represents the color output mode.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCLI, FormatJSON, FormatPlain:
		return f, nil
	default:
		return "", errors.NewUserErrorWithField("format", s,
			fmt.Sprintf("Unknown output format '%s'", s),
			"Use one of: cli, json, plain")
	}
}

// ParseColorMode parses a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", errors.NewUserErrorWithField("color", s,
			fmt.Sprintf("Unknown color mode '%s'", s),
			"Use one of: auto, always, never")
	}
}

// Formatter handles output formatting.
type Formatter struct {
	Writer    io.Writer
	Format    Format
	ColorMode ColorMode
}

// NewFormatter creates a new formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		Writer:    os.Stdout,
		Format:    FormatCLI,
		ColorMode: ColorAuto,
	}
}

func (f *Formatter) terminal() (*os.File, bool) {
	w, ok := f.Writer.(*os.File)
	if !ok {
		return nil, false
	}
	return w, isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}

// IsColorEnabled returns true if color output is enabled.
func (f *Formatter) IsColorEnabled() bool {
	if f.Format == FormatPlain {
		return false
	}
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		_, ok := f.terminal()
		return ok
	}
}

// Width returns the terminal width, or DefaultWidth when unknown.
func (f *Formatter) Width() int {
	if w, ok := f.terminal(); ok {
		if width, _, err := term.GetSize(int(w.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

// Print outputs formatted text.
func (f *Formatter) Print(a ...any) {
	fmt.Fprint(f.Writer, a...)
}

// Println outputs formatted text with newline.
func (f *Formatter) Println(a ...any) {
	fmt.Fprintln(f.Writer, a...)
}

// Printf outputs formatted text.
func (f *Formatter) Printf(format string, a ...any) {
	fmt.Fprintf(f.Writer, format, a...)
}

// JSON outputs data as indented JSON.
func (f *Formatter) JSON(v any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// FormatTime formats a time in local timezone.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// FormatHealth renders a health value the way cards show it.
func FormatHealth(health float64) string {
	return fmt.Sprintf("%d/100", int(math.Round(health)))
}

// FormatRelative describes t relative to now, e.g. "3 days ago" or "in 5 hours".
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	var text string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		text = Plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		text = Plural(int(d.Hours()), "hour")
	default:
		text = Plural(int(d.Hours()/24), "day")
	}

	if future {
		return "in " + text
	}
	return text + " ago"
}

// Plural renders a count with its unit, adding an s when n is not 1.
func Plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
