package ast

import (
	"testing"

	"irepc/sexp"
)

func TestNodeStringForms(t *testing.T) {
	interner := sexp.NewInterner()
	x := interner.Intern("x")

	tests := []struct {
		node Node
		want string
	}{
		{&GRef{Sym: x}, "(GREF x)"},
		{&LRef{Sym: x}, "(LREF x)"},
		{&CRef{Depth: 2, Sym: x}, "(CREF 2 x)"},
		{&Quote{Datum: sexp.Integer(5)}, "(QUOTE 5)"},
		{&SetBang{Var: &GRef{Sym: x}, Value: &Quote{Datum: sexp.Integer(1)}}, "(SETBANG (GREF x) (QUOTE 1))"},
		{&If{Cond: &Quote{Datum: sexp.Boolean(true)}, Then: &Quote{Datum: sexp.Integer(1)}, Else: &Quote{Datum: sexp.Integer(2)}}, "(IF (QUOTE #t) (QUOTE 1) (QUOTE 2))"},
		{&Begin{Exprs: []Node{&Quote{Datum: sexp.Integer(1)}, &Quote{Datum: sexp.Integer(2)}}}, "(BEGIN (QUOTE 1) (QUOTE 2))"},
		{&Return{Exprs: []Node{&Quote{Datum: sexp.Integer(1)}}}, "(RETURN (QUOTE 1))"},
		{&Unary{Op: Car, Operand: &LRef{Sym: x}}, "(CAR (LREF x))"},
		{&Binary{Op: Add, Left: &Quote{Datum: sexp.Integer(1)}, Right: &Quote{Datum: sexp.Integer(2)}}, "(ADD (QUOTE 1) (QUOTE 2))"},
	}

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("wrong String(). want=%q, got=%q", tt.want, got)
		}
	}
}

func TestLambdaStringAnonymousAndNamed(t *testing.T) {
	interner := sexp.NewInterner()
	x := interner.Intern("x")
	f := interner.Intern("f")

	anon := &Lambda{Args: []*sexp.Symbol{x}, Body: &LRef{Sym: x}}
	if got := anon.String(); got == "" {
		t.Fatalf("expected non-empty String()")
	}
	wantAnonPrefix := "(LAMBDA (anonymous lambda) [x] [] false [] (LREF x))"
	if got := anon.String(); got != wantAnonPrefix {
		t.Errorf("wrong anonymous lambda string. want=%q, got=%q", wantAnonPrefix, got)
	}

	named := &Lambda{Name: f, Args: []*sexp.Symbol{x}, Body: &LRef{Sym: x}}
	want := "(LAMBDA f [x] [] false [] (LREF x))"
	if got := named.String(); got != want {
		t.Errorf("wrong named lambda string. want=%q, got=%q", want, got)
	}
}

func TestDeferredResolveAndResolved(t *testing.T) {
	d := &Deferred{}
	if got := d.String(); got != "(GREF <<nowhere>>)" {
		t.Errorf("unresolved Deferred should print as placeholder, got %q", got)
	}

	lambda := &Lambda{Body: &Quote{Datum: sexp.Integer(1)}}
	d.Resolve(lambda)

	if d.Resolved() != lambda {
		t.Errorf("expected Resolved to return the resolved Lambda")
	}
	if got := d.String(); got != lambda.String() {
		t.Errorf("expected resolved Deferred to delegate String() to its Lambda")
	}
}

func TestDeferredDoubleResolvePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a second Resolve call to panic")
		}
	}()
	d := &Deferred{}
	d.Resolve(&Lambda{})
	d.Resolve(&Lambda{})
}

func TestDeferredReadBeforeResolutionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Resolved before Resolve to panic")
		}
	}()
	d := &Deferred{}
	d.Resolved()
}
