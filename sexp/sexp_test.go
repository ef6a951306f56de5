package sexp

import "testing"

func TestInternerReturnsSamePointer(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a != b {
		t.Errorf("expected Intern to return the same pointer for the same name")
	}

	c := in.Intern("bar")
	if a == c {
		t.Errorf("expected distinct names to intern to distinct pointers")
	}
}

func TestInternerAllReturnsEverySymbol(t *testing.T) {
	in := NewInterner()
	in.Intern("foo")
	in.Intern("bar")
	in.Intern("foo")

	all := in.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 distinct symbols, got %d", len(all))
	}
}

func TestConsCarCdr(t *testing.T) {
	p := Cons(Integer(1), Integer(2))
	if Car(p) != Integer(1) {
		t.Errorf("wrong car: %v", Car(p))
	}
	if Cdr(p) != Integer(2) {
		t.Errorf("wrong cdr: %v", Cdr(p))
	}
}

func TestCarOfNonPairPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Car of a non-pair to panic")
		}
	}()
	Car(NilValue)
}

func TestListPAndLength(t *testing.T) {
	proper := FromSlice([]Value{Integer(1), Integer(2), Integer(3)})
	if !ListP(proper) {
		t.Errorf("expected proper list to report ListP true")
	}
	if got := Length(proper); got != 3 {
		t.Errorf("wrong length: %d", got)
	}

	dotted := Cons(Integer(1), Integer(2))
	if ListP(dotted) {
		t.Errorf("expected dotted pair to report ListP false")
	}
	if got := Length(dotted); got != -1 {
		t.Errorf("expected Length of a dotted pair to be -1, got %d", got)
	}
}

func TestListRefAndListTail(t *testing.T) {
	list := FromSlice([]Value{Integer(10), Integer(20), Integer(30)})

	if got := ListRef(list, 1); got != Integer(20) {
		t.Errorf("wrong ListRef: %v", got)
	}

	tail := ListTail(list, 2)
	if got := ListRef(tail, 0); got != Integer(30) {
		t.Errorf("wrong ListTail: %v", got)
	}
}

func TestToSliceFromSliceRoundTrip(t *testing.T) {
	want := []Value{Integer(1), Integer(2), Integer(3)}
	list := FromSlice(want)
	got := ToSlice(list)

	if len(got) != len(want) {
		t.Fatalf("wrong length: want=%d, got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: want=%v, got=%v", i, want[i], got[i])
		}
	}
}

func TestReverse(t *testing.T) {
	list := FromSlice([]Value{Integer(1), Integer(2), Integer(3)})
	reversed := Reverse(list)

	want := []Value{Integer(3), Integer(2), Integer(1)}
	got := ToSlice(reversed)
	if len(got) != len(want) {
		t.Fatalf("wrong length: want=%d, got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: want=%v, got=%v", i, want[i], got[i])
		}
	}
}

func TestPairString(t *testing.T) {
	proper := FromSlice([]Value{Integer(1), Integer(2)})
	if got := proper.String(); got != "(1 2)" {
		t.Errorf("wrong proper-list string: %q", got)
	}

	dotted := Cons(Integer(1), Integer(2))
	if got := dotted.String(); got != "(1 . 2)" {
		t.Errorf("wrong dotted-pair string: %q", got)
	}
}

func TestVectorString(t *testing.T) {
	v := &Vector{Elements: []Value{Integer(1), Boolean(true)}}
	if got := v.String(); got != "#(1 #t)" {
		t.Errorf("wrong vector string: %q", got)
	}
}
