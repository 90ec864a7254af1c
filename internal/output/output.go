// Package output provides consistent CLI output formatting: status lines for
// commands and error banners for bootstrap diagnostics.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ColorRed is the ANSI 256 color used for error banners.
const ColorRed = "196"

// Writer provides formatted output for CLI.
type Writer struct {
	out      io.Writer
	useColor bool
	banner   lipgloss.Style
}

// New creates a new output Writer. Color is enabled only when out is a
// terminal and NO_COLOR is unset.
func New(out io.Writer) *Writer {
	w := &Writer{
		out:      out,
		useColor: isTerminal(out) && os.Getenv("NO_COLOR") == "",
	}
	w.banner = bannerStyle(w.useColor)
	return w
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func bannerStyle(color bool) lipgloss.Style {
	if !color {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorRed)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorRed)).
		Padding(0, 1)
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Banner prints a prominent error block: the headline followed by any
// detail lines. Blank detail lines are dropped.
func (w *Writer) Banner(headline string, details ...string) {
	lines := []string{headline}
	for _, d := range details {
		d = strings.TrimRight(d, "\n")
		if strings.TrimSpace(d) != "" {
			lines = append(lines, d)
		}
	}
	body := strings.Join(lines, "\n")

	if !w.useColor {
		_, _ = fmt.Fprintf(w.out, "ERROR: %s\n", body)
		return
	}
	_, _ = fmt.Fprintln(w.out, w.banner.Render(body))
}
