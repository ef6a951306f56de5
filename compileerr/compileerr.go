// Package compileerr defines the typed error taxonomy raised by the
// analyzer and code generator (§7). Every error is fatal to the current
// compilation: neither package attempts partial recovery once one is
// raised.
package compileerr

import "fmt"

// Kind classifies a compile-time failure.
type Kind int

const (
	// UnboundVariable is raised when findVar finds no binding.
	UnboundVariable Kind = iota
	// SyntaxError is raised on special-form arity/shape violations, a
	// non-symbol lvalue in set!/define, or an improper list where a
	// proper one was required.
	SyntaxError
	// WrongNumberOfArguments is raised when a primitive-arity rule with
	// no call fallback fails.
	WrongNumberOfArguments
	// InvalidFormals is raised when a lambda's formal-parameter list is
	// not a (possibly improper) list of symbols.
	InvalidFormals
	// InternalError is raised when a primitive rename is missing at
	// startup, or codegen encounters an AST tag it does not recognize.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case UnboundVariable:
		return "unbound-variable"
	case SyntaxError:
		return "syntax-error"
	case WrongNumberOfArguments:
		return "wrong-number-of-arguments"
	case InvalidFormals:
		return "invalid-formals"
	case InternalError:
		return "internal-error"
	default:
		return "unknown-error"
	}
}

// Error is a compile-time failure tagged with the Kind that produced it,
// so callers can distinguish, say, an UnboundVariable from a SyntaxError
// with errors.Is/As instead of string matching.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is a *Error with the same Kind, so callers
// can write errors.Is(err, compileerr.New(compileerr.UnboundVariable, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal condition (§7's sole warning kind is
// redefining-variable). Analysis continues after a Warning is reported.
type Warning struct {
	Message string
}

func (w *Warning) Error() string { return w.Message }

// Warnf builds a Warning.
func Warnf(format string, args ...any) *Warning {
	return &Warning{Message: fmt.Sprintf(format, args...)}
}
