// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Writer handles CLI output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(os.Stdout),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// Out returns the writer used for results.
func (w *Writer) Out() io.Writer {
	return w.out
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetColor enables or disables styled output.
func (w *Writer) SetColor(color bool) {
	w.color = color
}

// Styles.
var (
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleSection = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	stylePass    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleSkip    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleBroken  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
)

// render applies style when color output is enabled.
func (w *Writer) render(style lipgloss.Style, s string) string {
	if !w.color {
		return s
	}
	return style.Render(s)
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Errorln("%s %s", w.render(styleSkip, "warning:"), msg)
}

// ErrorPrefix prints an error message with the arcphpunit prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Errorln("%s %s", w.render(styleFail, "arcphpunit:"), msg)
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	w.Println("")
	w.Println("%s", w.render(styleSection, "=== "+title+" ==="))
}

// List prints a list of items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// Hint prints a de-emphasized hint.
func (w *Writer) Hint(format string, args ...interface{}) {
	w.Println("%s", w.render(styleDim, fmt.Sprintf(format, args...)))
}

// Status prints one test outcome line: a status marker, the test name, and
// the duration. Non-empty messages follow, indented.
func (w *Writer) Status(status, name string, seconds float64, message string) {
	if name == "" {
		name = "(unnamed)"
	}
	marker, style := statusMarker(status)
	w.Println("  %s %s %s", w.render(style, marker), name, w.render(styleDim, fmt.Sprintf("(%.3fs)", seconds)))
	if message == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		w.Println("      %s", line)
	}
}

func statusMarker(status string) (string, lipgloss.Style) {
	switch status {
	case "pass":
		return "PASS  ", stylePass
	case "fail":
		return "FAIL  ", styleFail
	case "skip":
		return "SKIP  ", styleSkip
	case "broken":
		return "BROKEN", styleBroken
	default:
		return strings.ToUpper(status), styleDim
	}
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	w.Println("  %s %s", w.render(styleDim, label+":"), value)
}

// SummaryPassed prints a passed items summary.
func (w *Writer) SummaryPassed(label, value string) {
	w.Println("  %s %s", w.render(styleDim, label+":"), w.render(stylePass, value))
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	w.Println("  %s %s", w.render(styleDim, label+":"), w.render(styleFail, value))
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	w.Println("")
	w.Println("%s", w.render(stylePass.Bold(true), fmt.Sprintf(format, args...)))
}

// FinalFailure prints a final failure message.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.Println("")
	w.Println("%s", w.render(styleFail.Bold(true), fmt.Sprintf(format, args...)))
}

// Table prints a table whose columns are aligned by display width, so wide
// runes in paths and test names do not break alignment.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if cw := runewidth.StringWidth(cell); cw > widths[i] {
					widths[i] = cw
				}
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, 0, len(widths))
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(widths)-1 {
				parts = append(parts, cell)
			} else {
				parts = append(parts, runewidth.FillRight(cell, width))
			}
		}
		return strings.Join(parts, "  ")
	}

	w.Println("%s", w.render(styleBold, line(headers)))

	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	w.Println("%s", strings.Join(sep, "  "))

	for _, row := range rows {
		w.Println("%s", line(row))
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
