package analyzer

import (
	"irepc/compileerr"
	"irepc/host"
	"irepc/sexp"
)

// State is the per-compilation analyzer state (§5's "analyze_state is
// per-compilation, not process-wide; no singletons"). It owns the scope
// stack and the resolved primitive/special-form symbol table.
type State struct {
	Expander host.Expander
	Reporter host.Reporter

	scope *Scope

	// specialForms maps a renamed keyword symbol to its canonical name
	// ("define", "lambda", ...), resolved once at construction so
	// dispatch is a map lookup on symbol identity, never a string
	// comparison (§9 "Primitive-as-symbol identity").
	specialForms map[*sexp.Symbol]string

	// prims maps a renamed primitive symbol to its base name.
	prims map[*sexp.Symbol]string

	// kw maps a canonical keyword name back to its resolved symbol, so
	// analyzeProcedure can build a synthetic (begin . body-exprs) form
	// the same way the body of a lambda or a define's value is wrapped
	// before recursing into analyze.
	kw map[string]*sexp.Symbol
}

// NewState resolves the primitive and special-form symbol tables against
// expander and seeds a root scope whose locals are every primitive
// procedure, every special-form keyword, plus every symbol globals
// reports as already defined (§4.1.1, §3.3's "root scope's locals is
// preseeded with every already-interned global symbol" — "interned"
// there means "bound in the global table", not merely read by the
// reader; see host.Globals). Seeding the keywords into root.Locals too
// is what lets findVar tell an unshadowed "if"/"define"/... apart from
// one captured by an enclosing lambda's parameter (§8's shadowing law,
// enforced by analyzeForm before it ever consults specialForm/primitive).
func NewState(expander host.Expander, reporter host.Reporter, globals *host.Globals) (*State, error) {
	st := &State{
		Expander:     expander,
		Reporter:     reporter,
		specialForms: make(map[*sexp.Symbol]string, len(host.SpecialFormNames())),
		prims:        make(map[*sexp.Symbol]string, len(host.PrimitiveNames())),
		kw:           make(map[string]*sexp.Symbol, len(host.SpecialFormNames())),
	}

	for _, name := range host.SpecialFormNames() {
		sym, ok := expander.FindRename(name)
		if !ok {
			return nil, compileerr.New(compileerr.InternalError, "native special form not found: %s", name)
		}
		st.specialForms[sym] = name
		st.kw[name] = sym
	}

	root := newScope(nil, nil, false)
	for _, name := range host.PrimitiveNames() {
		sym, ok := expander.FindRename(name)
		if !ok {
			return nil, compileerr.New(compileerr.InternalError, "native VM procedure not found: %s", name)
		}
		st.prims[sym] = name
		root.Locals = append(root.Locals, sym)
	}
	for sym := range st.specialForms {
		root.Locals = append(root.Locals, sym)
	}
	if globals != nil {
		root.Locals = append(root.Locals, globals.All()...)
	}
	st.scope = root

	return st, nil
}

// specialForm reports the canonical keyword name sym is bound to, if
// any.
func (st *State) specialForm(sym *sexp.Symbol) (string, bool) {
	name, ok := st.specialForms[sym]
	return name, ok
}

// primitive reports the canonical base name sym is bound to, if any.
// This is an identity match against the table resolved at construction
// time only — it says nothing about whether sym is the call head's
// *current* binding. A lambda parameter named "cons" interns (or
// renames) to the very same *sexp.Symbol the base library bound, so this
// table alone cannot distinguish the primitive from a local that shadows
// it: the caller (analyzeForm) must first resolve the head with findVar
// and only trust this table when that resolves to the root scope
// (§4.1.2, §8).
func (st *State) primitive(sym *sexp.Symbol) (string, bool) {
	name, ok := st.prims[sym]
	return name, ok
}

// pushScope enters a fresh child scope under the current one.
func (st *State) pushScope(args []*sexp.Symbol, varg bool) {
	st.scope = newScope(st.scope, args, varg)
}

// popScope leaves the current scope, returning to its parent.
func (st *State) popScope() {
	st.scope = st.scope.Up
}
