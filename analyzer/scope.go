package analyzer

import (
	"irepc/ast"
	"irepc/sexp"
)

// deferredLambda is one entry in a scope's defer queue (§4.1.5): a
// skeleton node already woven into the parent tree, paired with the raw
// formals/body forms flushDeferred will compile once the enclosing body
// has been fully analyzed. The C original pushes these onto the head of
// a list and reverses at flush time to restore insertion order; a Go
// slice appended in order needs no such reversal.
type deferredLambda struct {
	skeleton *ast.Deferred
	name     *sexp.Symbol // nil for an anonymous lambda
	formals  sexp.Value
	body     sexp.Value
}

// Scope is one lexical analyzer frame (§3.3).
type Scope struct {
	Depth    int
	Varg     bool
	Args     []*sexp.Symbol
	Locals   []*sexp.Symbol
	Captures []*sexp.Symbol
	Defer    []*deferredLambda
	Up       *Scope
}

func newScope(up *Scope, args []*sexp.Symbol, varg bool) *Scope {
	depth := 0
	if up != nil {
		depth = up.Depth + 1
	}
	return &Scope{Depth: depth, Varg: varg, Args: args, Up: up}
}

// hasLocal reports whether sym is already bound in this scope's args or
// locals (§3.3's "every symbol appears at most once in args ∪ locals").
func (s *Scope) hasLocal(sym *sexp.Symbol) bool {
	for _, a := range s.Args {
		if a == sym {
			return true
		}
	}
	for _, l := range s.Locals {
		if l == sym {
			return true
		}
	}
	return false
}

// defineLocal adds sym to this scope's locals, reporting whether it was
// freshly added (false means sym already occupied a slot here — the
// caller decides whether to warn).
func (s *Scope) defineLocal(sym *sexp.Symbol) bool {
	if s.hasLocal(sym) {
		return false
	}
	s.Locals = append(s.Locals, sym)
	return true
}

// addCapture records sym in this scope's captures, deduplicated and in
// insertion order (§4.1.3).
func (s *Scope) addCapture(sym *sexp.Symbol) {
	for _, c := range s.Captures {
		if c == sym {
			return
		}
	}
	s.Captures = append(s.Captures, sym)
}

// varKind classifies how a resolved variable reference must be coded.
type varKind int

const (
	kindLocal varKind = iota
	kindCaptured
	kindGlobal
)

// findVar walks the scope chain from start outward (§4.1.3). Local and
// Global both report depth 0 to the caller since neither GREF nor LREF
// carry one; Captured reports the walked depth, which becomes the CREF
// node's depth operand.
//
// A binding that lands on the root scope is always Global, even when
// start IS the root scope (steps == 0) — the root scope preseeds every
// interned global into its locals (§3.3), so a reference resolved there
// is a global access, never a same-frame local one. Anywhere else,
// steps == 0 is Local and steps > 0 is Captured, which additionally
// records sym in the owning scope's captures.
func findVar(start *Scope, sym *sexp.Symbol) (kind varKind, depth int, ok bool) {
	scope := start
	steps := 0
	for scope != nil {
		if scope.hasLocal(sym) {
			switch {
			case scope.Up == nil:
				return kindGlobal, 0, true
			case steps == 0:
				return kindLocal, 0, true
			default:
				scope.addCapture(sym)
				return kindCaptured, steps, true
			}
		}
		steps++
		scope = scope.Up
	}
	return 0, 0, false
}
