package reader

import (
	"testing"

	"irepc/sexp"
)

func TestReadAllAtomsAndLists(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"-7", "-7"},
		{"#t", "#t"},
		{"#f", "#f"},
		{"foo", "foo"},
		{"()", "()"},
		{"(+ 1 2)", "(+ 1 2)"},
		{"(lambda (x) x)", "(lambda (x) x)"},
		{"(a . b)", "(a . b)"},
		{"'x", "(quote x)"},
		{"#\\a", "#\\a"},
		{`"hello"`, `"hello"`},
	}

	for _, tt := range tests {
		interner := sexp.NewInterner()
		forms, err := ReadAll(tt.input, interner)
		if err != nil {
			t.Fatalf("ReadAll(%q) returned error: %s", tt.input, err)
		}
		if len(forms) != 1 {
			t.Fatalf("ReadAll(%q) produced %d forms, want 1", tt.input, len(forms))
		}
		if got := forms[0].String(); got != tt.want {
			t.Errorf("ReadAll(%q): want=%s, got=%s", tt.input, tt.want, got)
		}
	}
}

func TestReadAllMultipleForms(t *testing.T) {
	interner := sexp.NewInterner()
	forms, err := ReadAll("(define x 1) (define y 2) (+ x y)", interner)
	if err != nil {
		t.Fatalf("ReadAll returned error: %s", err)
	}
	if len(forms) != 3 {
		t.Fatalf("expected 3 top-level forms, got %d", len(forms))
	}
	want := []string{"(define x 1)", "(define y 2)", "(+ x y)"}
	for i, w := range want {
		if got := forms[i].String(); got != w {
			t.Errorf("form %d: want=%s, got=%s", i, w, got)
		}
	}
}

func TestReadAllSkipsComments(t *testing.T) {
	interner := sexp.NewInterner()
	forms, err := ReadAll("; a comment\n(+ 1 2) ; trailing\n", interner)
	if err != nil {
		t.Fatalf("ReadAll returned error: %s", err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(forms))
	}
	if got := forms[0].String(); got != "(+ 1 2)" {
		t.Errorf("want=(+ 1 2), got=%s", got)
	}
}

func TestReadUnterminatedListError(t *testing.T) {
	interner := sexp.NewInterner()
	if _, err := ReadAll("(+ 1 2", interner); err == nil {
		t.Fatal("expected an unterminated-list error")
	}
}

func TestInternerSharedAcrossForms(t *testing.T) {
	interner := sexp.NewInterner()
	forms, err := ReadAll("(x x)", interner)
	if err != nil {
		t.Fatalf("ReadAll returned error: %s", err)
	}
	pair := forms[0].(*sexp.Pair)
	first := pair.Car.(*sexp.Symbol)
	second := pair.Cdr.(*sexp.Pair).Car.(*sexp.Symbol)
	if first != second {
		t.Error("two occurrences of the same atom must intern to the same *sexp.Symbol")
	}
}
