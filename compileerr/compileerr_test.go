package compileerr

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{UnboundVariable, "unbound-variable"},
		{SyntaxError, "syntax-error"},
		{WrongNumberOfArguments, "wrong-number-of-arguments"},
		{InvalidFormals, "invalid-formals"},
		{InternalError, "internal-error"},
		{Kind(99), "unknown-error"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewFormatsMessage(t *testing.T) {
	err := New(UnboundVariable, "unbound: %s", "foo")
	if err.Kind != UnboundVariable {
		t.Errorf("wrong kind: %v", err.Kind)
	}
	want := "unbound-variable: unbound: foo"
	if got := err.Error(); got != want {
		t.Errorf("wrong error string. want=%q, got=%q", want, got)
	}
}

func TestErrorIsMatchesOnKindOnly(t *testing.T) {
	a := New(SyntaxError, "bad if form")
	b := New(SyntaxError, "bad lambda form")
	c := New(UnboundVariable, "bad if form")

	if !errors.Is(a, b) {
		t.Errorf("expected two SyntaxErrors with different messages to match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Errorf("expected errors of different Kind to not match via errors.Is")
	}
}

func TestWarnf(t *testing.T) {
	w := Warnf("redefining %s", "x")
	if got := w.Error(); got != "redefining x" {
		t.Errorf("wrong warning string: %q", got)
	}
}
