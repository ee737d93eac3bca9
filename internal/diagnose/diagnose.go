// Package diagnose renders the translator's stderr diagnostics in the
// `[HIPIFY] warning: <file>:<line>:<col>: <message>` form, colorized the
// way cmd/uast/validate.go colorizes its own validation output.
package diagnose

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Severity distinguishes a plain warning from an error-level diagnostic.
// The core emits only warnings (§7 of the spec never calls for a hard
// error short of option-conflict, which the driver handles separately),
// but the type exists so front-end parse failures — surfaced through the
// same channel — are labelled "error" and counted separately by ErrCount.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Location is a 1-based file position.
type Location struct {
	File string
	Line int
	Col  int
}

// Reporter writes diagnostics to an underlying writer (normally stderr),
// counting them as it goes so the Driver can fold front-end failures into
// the process exit code.
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	noColor   bool
	warnCount int
	errCount  int
}

// New creates a Reporter writing to w. When noColor is true (or the
// NO_COLOR / -no-color convention applies), output carries no ANSI color
// codes.
func New(w io.Writer, noColor bool) *Reporter {
	return &Reporter{w: w, noColor: noColor}
}

// Warn emits a warning diagnostic. Safe for concurrent use across the
// worker pool a -j>1 run drives.
func (r *Reporter) Warn(loc Location, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.warnCount++
	r.emit(SeverityWarning, loc, fmt.Sprintf(format, args...))
}

// Error emits an error diagnostic. Safe for concurrent use across the
// worker pool a -j>1 run drives.
func (r *Reporter) Error(loc Location, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errCount++
	r.emit(SeverityError, loc, fmt.Sprintf(format, args...))
}

// WarnCount and ErrCount report how many diagnostics of each severity have
// been emitted so far.
func (r *Reporter) WarnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.warnCount
}

func (r *Reporter) ErrCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.errCount
}

// emit must be called with r.mu held.
func (r *Reporter) emit(sev Severity, loc Location, message string) {
	label := "warning"
	c := color.New(color.FgYellow)

	if sev == SeverityError {
		label = "error"
		c = color.New(color.FgRed)
	}

	prefix := fmt.Sprintf("[HIPIFY] %s: %s:%d:%d: ", label, loc.File, loc.Line, loc.Col)

	if r.noColor {
		color.NoColor = true
	}

	c.Fprint(r.w, prefix)
	fmt.Fprintln(r.w, message)
}
