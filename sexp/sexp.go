// Package sexp defines the value model the analyzer consumes: the
// already-parsed, already-macroexpanded s-expression tree, plus the
// symbol interner and list primitives a host would otherwise supply.
//
// Every other compiler-core package (ast, code, analyzer, codegen)
// builds on these types without caring how they were produced — the
// reader that turns program text into a Value tree, like the macro
// expander that rewrites it, lives outside this module (internal/reader
// is a convenience for the CLI/REPL only, never imported here).
package sexp

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Value is any object in the expression tree: booleans, integers,
// characters, nil, symbols, pairs, strings, or vectors. Anything that
// is not a boolean/integer/character/nil is placed verbatim in an
// IRep's constant pool by codegen rather than inlined into an opcode.
type Value interface {
	// String returns a debug representation, used by tracing and tests.
	String() string
}

// Boolean is a Scheme boolean value.
type Boolean bool

func (b Boolean) String() string {
	if b {
		return "#t"
	}
	return "#f"
}

// Integer is a Scheme fixnum.
type Integer int64

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// Character is a Scheme character.
type Character rune

func (c Character) String() string { return "#\\" + string(rune(c)) }

// Nil is the empty list.
type Nil struct{}

func (Nil) String() string { return "()" }

// NilValue is the single shared empty-list value.
var NilValue = Nil{}

// Str is a Scheme string, placed in the constant pool verbatim (never
// inlined into an opcode).
type Str string

func (s Str) String() string { return strconv.Quote(string(s)) }

// Vector stands in for any other pool object the host's reader might
// produce (vectors, bytevectors, records, ...); the analyzer never
// looks inside it, it only ever reaches codegen's QUOTE handling.
type Vector struct {
	Elements []Value
}

func (v *Vector) String() string {
	var b strings.Builder
	b.WriteString("#(")
	for i, e := range v.Elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Symbol is an interned identifier. Two Symbols are the same binding
// iff they are the same pointer — identity, not name, decides variable
// resolution and primitive recognition (§4.1.2/§9 "Primitive-as-symbol
// identity").
type Symbol struct {
	name string
}

// Name returns the symbol's printable name.
func (s *Symbol) Name() string { return s.name }

func (s *Symbol) String() string { return s.name }

// Pair is a cons cell.
type Pair struct {
	Car Value
	Cdr Value
}

func (p *Pair) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(p.Car.String())
	rest := p.Cdr
	for {
		switch v := rest.(type) {
		case Nil:
			b.WriteByte(')')
			return b.String()
		case *Pair:
			b.WriteByte(' ')
			b.WriteString(v.Car.String())
			rest = v.Cdr
		default:
			b.WriteString(" . ")
			b.WriteString(v.String())
			b.WriteByte(')')
			return b.String()
		}
	}
}

// Interner hands out identical *Symbol pointers for identical names,
// giving the analyzer the identity comparison §3.1 requires. It is the
// shared resource §5 says a parallel-compiling host must not share
// across compile states without its own synchronization; this
// implementation is safe for concurrent use on its own.
type Interner struct {
	mu      sync.Mutex
	symbols map[string]*Symbol
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{symbols: make(map[string]*Symbol)}
}

// Intern returns the unique *Symbol for name, creating it on first use.
func (in *Interner) Intern(name string) *Symbol {
	in.mu.Lock()
	defer in.mu.Unlock()
	if sym, ok := in.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{name: name}
	in.symbols[name] = sym
	return sym
}

// All returns every symbol interned so far, in no particular order.
// The analyzer does not use it to seed its root scope; that comes from
// host.Globals, which holds only symbols actually bound at top level.
func (in *Interner) All() []*Symbol {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]*Symbol, 0, len(in.symbols))
	for _, sym := range in.symbols {
		out = append(out, sym)
	}
	return out
}

// Cons allocates a new pair.
func Cons(car, cdr Value) *Pair { return &Pair{Car: car, Cdr: cdr} }

// Car returns the head of a pair. Panics on a non-pair, matching the
// host's list-accessor contract (§6) — callers that accept improper
// input must check PairP first.
func Car(v Value) Value {
	p, ok := v.(*Pair)
	if !ok {
		panic(fmt.Sprintf("sexp: car of non-pair %v", v))
	}
	return p.Car
}

// Cdr returns the tail of a pair.
func Cdr(v Value) Value {
	p, ok := v.(*Pair)
	if !ok {
		panic(fmt.Sprintf("sexp: cdr of non-pair %v", v))
	}
	return p.Cdr
}

// PairP reports whether v is a pair.
func PairP(v Value) bool {
	_, ok := v.(*Pair)
	return ok
}

// NilP reports whether v is the empty list.
func NilP(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

// ListP reports whether v is a proper (nil-terminated) list.
func ListP(v Value) bool {
	for {
		switch x := v.(type) {
		case Nil:
			return true
		case *Pair:
			v = x.Cdr
		default:
			return false
		}
	}
}

// Length returns the number of elements in a proper list, or -1 if v is
// not a proper list.
func Length(v Value) int {
	n := 0
	for {
		switch x := v.(type) {
		case Nil:
			return n
		case *Pair:
			n++
			v = x.Cdr
		default:
			return -1
		}
	}
}

// ListRef returns the i-th element (0-based) of a proper list.
func ListRef(v Value, i int) Value {
	for ; i > 0; i-- {
		v = Cdr(v)
	}
	return Car(v)
}

// ListTail returns the list remaining after dropping the first i
// elements.
func ListTail(v Value, i int) Value {
	for ; i > 0; i-- {
		v = Cdr(v)
	}
	return v
}

// ToSlice collects a proper list into a Go slice.
func ToSlice(v Value) []Value {
	out := make([]Value, 0, Length(v))
	for {
		switch x := v.(type) {
		case Nil:
			return out
		case *Pair:
			out = append(out, x.Car)
			v = x.Cdr
		default:
			return out
		}
	}
}

// FromSlice builds a proper list out of a Go slice.
func FromSlice(vs []Value) Value {
	var list Value = NilValue
	for i := len(vs) - 1; i >= 0; i-- {
		list = Cons(vs[i], list)
	}
	return list
}

// Reverse reverses a proper list, allocating new pairs.
func Reverse(v Value) Value {
	var out Value = NilValue
	for {
		switch x := v.(type) {
		case Nil:
			return out
		case *Pair:
			out = Cons(x.Car, out)
			v = x.Cdr
		default:
			return out
		}
	}
}
