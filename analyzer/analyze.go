// Package analyzer resolves lexical scope, captures, tail position, and
// primitive recognition, turning an expanded s-expression into the
// analyzed AST codegen consumes (§4.1).
package analyzer

import (
	"irepc/ast"
	"irepc/compileerr"
	"irepc/host"
	"irepc/sexp"
)

// Analyze is the public entry point (§4.1.1, §6's analyze(host, expr)).
// It builds a fresh State, analyzes expr in tail position, flushes any
// lambda bodies deferred at the root scope, and returns the analyzed
// AST. The State is discarded with it — nothing outlives one call.
// globals is the host's table of top-level bindings already defined by
// a prior compile in this session; pass nil for a first/standalone
// compile.
func Analyze(expander host.Expander, reporter host.Reporter, globals *host.Globals, expr sexp.Value) (ast.Node, error) {
	st, err := NewState(expander, reporter, globals)
	if err != nil {
		return nil, err
	}
	node, err := st.analyze(expr, true)
	if err != nil {
		return nil, err
	}
	if err := st.flushDeferred(st.scope); err != nil {
		return nil, err
	}
	return node, nil
}

// analyze wraps analyzeNode with the tail-position normalization of
// §4.1.6: in tail position, any result not already headed by IF, BEGIN,
// TAILCALL, TAILCALL_WITH_VALUES, or RETURN is boxed in a RETURN.
func (st *State) analyze(expr sexp.Value, tailpos bool) (ast.Node, error) {
	node, err := st.analyzeNode(expr, tailpos)
	if err != nil {
		return nil, err
	}
	if tailpos && !isTailTagged(node) {
		return &ast.Return{Exprs: []ast.Node{node}}, nil
	}
	return node, nil
}

func isTailTagged(n ast.Node) bool {
	switch n.(type) {
	case *ast.If, *ast.Begin, *ast.TailCall, *ast.TailCallWithValues, *ast.Return:
		return true
	}
	return false
}

// analyzeNode dispatches on the shape of expr (§4.1.4): a symbol is a
// variable reference, a proper list is a special form, primitive, or
// application, and anything else is a self-evaluating literal.
func (st *State) analyzeNode(expr sexp.Value, tailpos bool) (ast.Node, error) {
	switch v := expr.(type) {
	case *sexp.Symbol:
		return st.analyzeVar(v)
	case *sexp.Pair:
		if !sexp.ListP(v) {
			return nil, compileerr.New(compileerr.SyntaxError, "invalid expression given: %s", v.String())
		}
		return st.analyzeForm(v, tailpos)
	default:
		return &ast.Quote{Datum: expr}, nil
	}
}

// analyzeForm dispatches a proper-list form whose head is checked, in
// order, against the special forms, then the primitive table, falling
// back to a generic application (§4.1.4). Both checks are gated on
// headIsUnshadowed: a call head is a special form or a primitive iff its
// symbol is identity-equal to the resolved keyword/procedure *and* still
// denotes that root binding at this point in the scope chain, so a
// lambda parameter named "if" or "cons" always falls through to the
// generic call path instead (§8's mandatory shadowing law).
func (st *State) analyzeForm(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	head := sexp.Car(obj)
	sym, ok := head.(*sexp.Symbol)
	if !ok {
		return st.analyzeCall(obj, tailpos)
	}

	if st.headIsUnshadowed(sym) {
		if form, ok := st.specialForm(sym); ok {
			switch form {
			case "define":
				return st.analyzeDefine(obj)
			case "lambda":
				return st.analyzeLambda(obj)
			case "if":
				return st.analyzeIf(obj, tailpos)
			case "begin":
				return st.analyzeBegin(obj, tailpos)
			case "set!":
				return st.analyzeSet(obj)
			case "quote":
				return st.analyzeQuote(obj)
			}
		}

		if prim, ok := st.primitive(sym); ok {
			node, handled, err := st.analyzePrimitive(prim, obj, tailpos)
			if err != nil {
				return nil, err
			}
			if handled {
				return node, nil
			}
			// ARGC_ASSERT_WITH_FALLBACK arity mismatch: fall through to a
			// generic call, since the primitive is still a real procedure.
		}
	}

	return st.analyzeCall(obj, tailpos)
}

// headIsUnshadowed reports whether sym, used as a call head, still
// resolves to its root-scope binding rather than a local or captured one
// introduced by an enclosing lambda parameter or define. An unbound sym
// (never a special form, primitive, local, or global) also reports false
// here; analyzeCall's own analysis of the head then raises the
// unbound-variable error, exactly as it would for any other reference.
func (st *State) headIsUnshadowed(sym *sexp.Symbol) bool {
	kind, _, ok := findVar(st.scope, sym)
	return ok && kind == kindGlobal
}

// analyzeVar resolves a bare symbol reference (§4.1.3).
func (st *State) analyzeVar(sym *sexp.Symbol) (ast.Node, error) {
	kind, depth, ok := findVar(st.scope, sym)
	if !ok {
		return nil, compileerr.New(compileerr.UnboundVariable, "unbound variable %s", sym.Name())
	}
	switch kind {
	case kindGlobal:
		return &ast.GRef{Sym: sym}, nil
	case kindLocal:
		return &ast.LRef{Sym: sym}, nil
	default:
		return &ast.CRef{Depth: depth, Sym: sym}, nil
	}
}

// analyzeDeclare defines sym in the current scope (warning, not
// erroring, on redefinition per §4.1.4's "define") then resolves it as a
// reference, which — since it was just bound here — always yields the
// node appropriate to this scope (GREF at the root scope, LREF
// elsewhere).
func (st *State) analyzeDeclare(sym *sexp.Symbol) (ast.Node, error) {
	if !st.scope.defineLocal(sym) {
		st.Reporter.Warnf("redefining variable: %s", sym.Name())
	}
	return st.analyzeVar(sym)
}
