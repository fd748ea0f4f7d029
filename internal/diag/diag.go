// Package diag centralizes the three user-visible diagnostic shapes
// this system reports: SemanticWarnings printed during construction,
// the fatal "Syntax Error" banner printed on a failed parse, and the
// unrecoverable Fatal condition for call/parameter lists longer than
// three.
package diag

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Reporter writes diagnostics to standard output, matching spec §6/§7:
// every diagnostic it prints, warning or Syntax Error banner, goes to
// stdout, never stderr.
type Reporter struct {
	out *os.File
}

// NewReporter creates a Reporter writing to os.Stdout.
func NewReporter() *Reporter {
	return &Reporter{out: os.Stdout}
}

// Warnf prints a SemanticWarning (undeclared or unassigned variable
// use) in yellow, prefixed the way the original implementation's
// warnings read.
func (r *Reporter) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, color.YellowString("[Warning] %s", msg))
}

// SyntaxError prints the fatal parse-failure banner. Parsing does not
// recover from this: the caller is expected to stop and report
// builder state for debugging, then exit normally (spec §6).
func (r *Reporter) SyntaxError() {
	fmt.Fprintln(r.out, color.RedString("Syntax Error"))
}

// FatalError is the panic value used for spec's Fatal taxonomy entry:
// more than three call arguments or formal parameters. It is never
// recovered inside the parser or builder; only a process entrypoint
// may recover it, to print a clean message before exiting non-zero.
type FatalError struct {
	Message string
}

func (e FatalError) Error() string { return e.Message }

// Fatal constructs a FatalError, meant to be passed straight to panic.
func Fatal(format string, args ...any) FatalError {
	return FatalError{Message: fmt.Sprintf(format, args...)}
}
