package host

import "irepc/sexp"

// Globals is the host's table of already-defined top-level bindings —
// the analog of pic->globals, which new_analyze_state iterates to
// preseed the root scope's locals (§3.3, §4.1.1). This is deliberately
// not the same thing as "every symbol the reader has ever interned":
// a symbol becomes a Globals member only once something has actually
// bound it at the top level, so an unbound reference to a symbol that
// merely appears in source text still raises unbound-variable (§7).
//
// A REPL or script driver owns one Globals for its whole session and
// grows it after each top-level compile (see compile.Compile), so
// mutually visible top-level defines across separate compile calls
// resolve the same way a single big compile would.
type Globals struct {
	order []*sexp.Symbol
	has   map[*sexp.Symbol]bool
}

// NewGlobals builds an empty global table.
func NewGlobals() *Globals {
	return &Globals{has: make(map[*sexp.Symbol]bool)}
}

// Define records sym as a defined top-level binding, deduplicated,
// insertion order preserved.
func (g *Globals) Define(sym *sexp.Symbol) {
	if g.has[sym] {
		return
	}
	g.has[sym] = true
	g.order = append(g.order, sym)
}

// Has reports whether sym has already been defined.
func (g *Globals) Has(sym *sexp.Symbol) bool {
	return g.has[sym]
}

// All returns every defined symbol, in definition order.
func (g *Globals) All() []*sexp.Symbol {
	return append([]*sexp.Symbol(nil), g.order...)
}
