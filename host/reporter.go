package host

import (
	"fmt"
	"io"
)

// Reporter is the host's error/warning sink (§6): Errorf aborts the
// current compilation, Warnf logs a non-fatal condition (redefinition)
// and lets analysis continue.
type Reporter interface {
	Errorf(format string, args ...any) error
	Warnf(format string, args ...any)
}

// WriterReporter is a Reporter that writes warnings to an io.Writer and
// builds (but does not panic on) errors, grounded on the teacher's bare
// fmt.Errorf/fmt.Fprintf style — no logging library backs this, since
// neither the teacher nor original_source/codegen.c use one for
// diagnostics of this kind.
type WriterReporter struct {
	Out io.Writer
}

// NewWriterReporter builds a WriterReporter writing warnings to out.
func NewWriterReporter(out io.Writer) *WriterReporter {
	return &WriterReporter{Out: out}
}

// Errorf formats a plain error; callers wrap it in a *compileerr.Error
// at the call site where the Kind is known.
func (r *WriterReporter) Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Warnf writes a warning line to Out.
func (r *WriterReporter) Warnf(format string, args ...any) {
	fmt.Fprintf(r.Out, "warning: "+format+"\n", args...)
}
