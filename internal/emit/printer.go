// Package emit contains the two read-only consumers of a finished
// ir.Builder: the DOT graph writer and the textual SSA pretty-printer.
package emit

import (
	"fmt"
	"strings"
)

// printer accumulates emitted text, mirroring the teacher's own
// Printer type (an indent-aware strings.Builder wrapper) rather than
// repeated ad-hoc fmt.Sprintf concatenation.
type printer struct {
	out strings.Builder
}

func (p *printer) writeLine(format string, args ...any) {
	p.out.WriteString(fmt.Sprintf(format, args...))
	p.out.WriteByte('\n')
}

func (p *printer) write(s string) { p.out.WriteString(s) }

func (p *printer) String() string { return p.out.String() }
