// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Writer handles CLI output formatting.
type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	verbose bool
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

// Diagnostics returns a Writer that sends everything, including regular
// messages, to stderr. The export command uses it so stdout carries only
// the host's own output.
func Diagnostics() *Writer {
	return &Writer{
		out:   os.Stderr,
		err:   os.Stderr,
		color: isTerminal(os.Stderr),
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetVerbose enables or disables debug messages.
func (w *Writer) SetVerbose(verbose bool) {
	w.verbose = verbose
}

// SetColor forces color on or off.
func (w *Writer) SetColor(color bool) {
	w.color = color
}

// Verbose reports whether debug messages are shown.
func (w *Writer) Verbose() bool {
	return w.verbose
}

// Out returns the regular output stream.
func (w *Writer) Out() io.Writer { return w.out }

// Err returns the diagnostic stream.
func (w *Writer) Err() io.Writer { return w.err }

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	w.Print(format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	w.Error(format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Debug prints a dimmed message to stderr, only in verbose mode.
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%s%s%s", dim, msg, reset)
	} else {
		w.Errorln("%s", msg)
	}
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println(green+format+reset, args...)
	} else {
		w.Println(format, args...)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.color {
		w.Errorln(yellow+"warning: "+format+reset, args...)
	} else {
		w.Errorln("warning: "+format, args...)
	}
}

// ErrorPrefix prints an error message with the gmhelper prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%sgmhelper:%s %s", red, reset, msg)
	} else {
		w.Errorln("gmhelper: %s", msg)
	}
}

// SpriteStart announces work on one source file.
func (w *Writer) SpriteStart(file string) {
	if w.quiet {
		return
	}
	label := fmt.Sprintf("─── %s ───", file)
	if w.color {
		w.Println("%s%s%s", bold+cyan, label, reset)
	} else {
		w.Println("%s", label)
	}
}

// TagExported reports one exported tag.
func (w *Writer) TagExported(tag, path string) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println("  %s✓%s %s %s→ %s%s", green, reset, tag, dim, path, reset)
	} else {
		w.Println("  + %s -> %s", tag, path)
	}
}

// TagFailed reports one failed tag.
func (w *Writer) TagFailed(tag string, err error) {
	if w.color {
		w.Errorln("  %s✗ %s failed:%s %v", red, tag, reset, err)
	} else {
		w.Errorln("  x %s failed: %v", tag, err)
	}
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	w.Println("")
	if w.color {
		w.Println("%s=== %s ===%s", bold, title, reset)
	} else {
		w.Println("=== %s ===", title)
	}
}

// List prints a list of items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s", dim, label, reset, value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// ValidationSuccess prints a validation success message.
func (w *Writer) ValidationSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s✓%s %s", green, reset, msg)
	} else {
		w.Println("%s", msg)
	}
}

// Hint prints a hint message for the user.
func (w *Writer) Hint(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", dim, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// isTerminal returns true if f is a terminal.
func isTerminal(f *os.File) bool {
	if fi, _ := f.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)
