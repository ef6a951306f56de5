package analyzer

import (
	"bytes"
	"testing"

	"irepc/ast"
	"irepc/host"
	"irepc/sexp"
)

// newTestState builds an interner/expander/reporter triple wired the
// way a real host would wire them, for use across this file's tests.
func newTestState() (*sexp.Interner, host.Expander, host.Reporter, *bytes.Buffer) {
	interner := sexp.NewInterner()
	lib := host.NewBaseLibrary(interner)
	expander := host.NewIdentityExpander(lib)
	var out bytes.Buffer
	reporter := host.NewWriterReporter(&out)
	return interner, expander, reporter, &out
}

func list(vs ...sexp.Value) sexp.Value {
	return sexp.FromSlice(vs)
}

func TestAnalyzeQuote(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	quote := interner.Intern("quote")

	expr := list(quote, sexp.Integer(42))

	node, err := Analyze(expander, reporter, nil, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	want := "(RETURN (QUOTE 42))"
	if got := node.String(); got != want {
		t.Errorf("wrong AST. want=%s, got=%s", want, got)
	}
}

func TestAnalyzeTopLevelDefine(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	define := interner.Intern("define")
	x := interner.Intern("x")

	expr := list(define, x, sexp.Integer(7))

	node, err := Analyze(expander, reporter, nil, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	want := "(RETURN (SETBANG (GREF x) (QUOTE 7)))"
	if got := node.String(); got != want {
		t.Errorf("wrong AST. want=%s, got=%s", want, got)
	}
}

func TestAnalyzeUnaryMinus(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	minus := interner.Intern("-")

	expr := list(minus, sexp.Integer(5))

	node, err := Analyze(expander, reporter, nil, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	want := "(RETURN (MINUS (QUOTE 5)))"
	if got := node.String(); got != want {
		t.Errorf("wrong AST. want=%s, got=%s", want, got)
	}
}

func TestAnalyzeArithmeticFold(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	add := interner.Intern("+")

	expr := list(add, sexp.Integer(1), sexp.Integer(2), sexp.Integer(3))

	node, err := Analyze(expander, reporter, nil, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	want := "(RETURN (ADD (ADD (QUOTE 1) (QUOTE 2)) (QUOTE 3)))"
	if got := node.String(); got != want {
		t.Errorf("wrong fold. want=%s, got=%s", want, got)
	}
}

func TestShadowingPreservesSemantics(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	lambda := interner.Intern("lambda")
	cons := interner.Intern("cons")
	list_ := interner.Intern("list")

	// ((lambda (cons) (cons 1 2)) list)
	inner := list(cons, sexp.Integer(1), sexp.Integer(2))
	lam := list(lambda, list(cons), inner)
	expr := list(lam, list_)

	// list is not a base-library primitive, so it has to be a defined
	// global for the outer call's argument to resolve.
	globals := host.NewGlobals()
	globals.Define(list_)

	node, err := Analyze(expander, reporter, globals, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	tc, ok := node.(*ast.TailCall)
	if !ok {
		t.Fatalf("expected a TAILCALL of the outer lambda, got %T: %s", node, node.String())
	}
	deferred, ok := tc.Callee.(*ast.Deferred)
	if !ok {
		t.Fatalf("expected the outer lambda to still be a Deferred skeleton, got %T", tc.Callee)
	}
	lambdaNode := deferred.Resolved()

	// A call in tail position is a TAILCALL node on its own; it is never
	// boxed in a RETURN.
	body, ok := lambdaNode.Body.(*ast.TailCall)
	if !ok {
		t.Fatalf("shadowed cons must compile to a CALL, not a CONS opcode; got lambda body %T", lambdaNode.Body)
	}
	if _, ok := body.Callee.(*ast.LRef); !ok {
		t.Errorf("shadowed cons must be called through its local binding; got callee %T", body.Callee)
	}
}

func TestNestedLambdaCapture(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	lambda := interner.Intern("lambda")
	x := interner.Intern("x")
	y := interner.Intern("y")

	// (lambda (x) (lambda (y) x))
	innerLambda := list(lambda, list(y), x)
	expr := list(lambda, list(x), innerLambda)

	node, err := Analyze(expander, reporter, nil, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	ret := node.(*ast.Return)
	outer := ret.Exprs[0].(*ast.Deferred).Resolved()
	// The captures list lives on the scope that OWNS the variable, not
	// the scope that reaches for it: x is outer's own arg, and it is
	// outer's captures list that the inner lambda's CREF resolves
	// against (§8's depth-correctness invariant), so outer records it.
	if len(outer.Captures) != 1 || outer.Captures[0] != x {
		t.Errorf("outer lambda should capture [x] (owns the var an inner lambda reaches for), got %v", outer.Captures)
	}

	outerBody := outer.Body.(*ast.Return)
	inner := outerBody.Exprs[0].(*ast.Deferred).Resolved()
	if len(inner.Captures) != 0 {
		t.Errorf("inner lambda captures nothing of its own, got %v", inner.Captures)
	}

	innerBody := inner.Body.(*ast.Return)
	cref, ok := innerBody.Exprs[0].(*ast.CRef)
	if !ok || cref.Depth != 1 || cref.Sym != x {
		t.Errorf("inner lambda's reference to x should be (CREF 1 x), got %#v", innerBody.Exprs[0])
	}
}

func TestUnboundVariableError(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	expr := interner.Intern("undefined-thing")

	_, err := Analyze(expander, reporter, nil, expr)
	if err == nil {
		t.Fatal("expected an unbound-variable error")
	}
}

func TestPredefinedGlobalResolves(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	globals := host.NewGlobals()
	counter := interner.Intern("counter")
	globals.Define(counter)

	node, err := Analyze(expander, reporter, globals, counter)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}
	ret := node.(*ast.Return)
	if _, ok := ret.Exprs[0].(*ast.GRef); !ok {
		t.Errorf("expected a GREF to the predefined global, got %T", ret.Exprs[0])
	}
}

func TestCallWithValuesTailPosition(t *testing.T) {
	interner, expander, reporter, _ := newTestState()
	callWithValues := interner.Intern("call-with-values")
	lambda := interner.Intern("lambda")
	values := interner.Intern("values")
	plus := interner.Intern("+")

	producer := list(lambda, sexp.NilValue, list(values, sexp.Integer(1), sexp.Integer(2)))
	expr := list(callWithValues, producer, plus)

	node, err := Analyze(expander, reporter, nil, expr)
	if err != nil {
		t.Fatalf("Analyze returned error: %s", err)
	}

	if _, ok := node.(*ast.TailCallWithValues); !ok {
		t.Errorf("expected a TAILCALL_WITH_VALUES, got %T: %s", node, node.String())
	}
}
