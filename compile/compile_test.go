package compile

import (
	"bytes"
	"testing"

	"irepc/host"
	"irepc/sexp"
)

func newTestHost() (*sexp.Interner, host.Expander, host.Reporter) {
	interner := sexp.NewInterner()
	lib := host.NewBaseLibrary(interner)
	expander := host.NewIdentityExpander(lib)
	reporter := host.NewWriterReporter(&bytes.Buffer{})
	return interner, expander, reporter
}

func TestCompileQuoteProducesIRep(t *testing.T) {
	_, expander, reporter := newTestHost()

	result, err := Compile(expander, reporter, nil, sexp.Integer(42))
	if err != nil {
		t.Fatalf("Compile returned error: %s", err)
	}

	want := "0000 PUSHINT 42\n0009 RET 1\n"
	if got := result.IRep.Code.String(); got != want {
		t.Errorf("wrong code. want=%q, got=%q", want, got)
	}
}

func TestCompileGrowsGlobalsAcrossCalls(t *testing.T) {
	interner, expander, reporter := newTestHost()
	globals := host.NewGlobals()
	define := interner.Intern("define")
	x := interner.Intern("x")

	defineExpr := sexp.FromSlice([]sexp.Value{define, x, sexp.Integer(7)})
	if _, err := Compile(expander, reporter, globals, defineExpr); err != nil {
		t.Fatalf("first Compile returned error: %s", err)
	}

	if !globals.Has(x) {
		t.Fatal("expected Compile to register x as a defined global after (define x 7)")
	}

	// A later, independent Compile call must now see x as a global
	// rather than raising unbound-variable.
	result, err := Compile(expander, reporter, globals, x)
	if err != nil {
		t.Fatalf("second Compile returned error: %s", err)
	}
	want := "(RETURN (GREF x))"
	if got := result.Analyzed.String(); got != want {
		t.Errorf("wrong AST. want=%s, got=%s", want, got)
	}
}

func TestCompileUnboundVariablePropagatesError(t *testing.T) {
	interner, expander, reporter := newTestHost()
	undefined := interner.Intern("undefined-thing")

	if _, err := Compile(expander, reporter, nil, undefined); err == nil {
		t.Fatal("expected an unbound-variable error")
	}
}
