package analyzer

import (
	"irepc/ast"
	"irepc/compileerr"
	"irepc/sexp"
)

// parseFormals validates a lambda's formal-parameter list, which may be
// a proper list of symbols, an improper list ending in a rest-argument
// symbol, or a single symbol (an all-rest lambda). Anything else is
// invalid-formals (§7).
func parseFormals(formals sexp.Value) (args []*sexp.Symbol, varg bool, rest *sexp.Symbol, err error) {
	v := formals
	for sexp.PairP(v) {
		sym, ok := sexp.Car(v).(*sexp.Symbol)
		if !ok {
			return nil, false, nil, compileerr.New(compileerr.InvalidFormals, "invalid formal syntax: %s", formals.String())
		}
		args = append(args, sym)
		v = sexp.Cdr(v)
	}
	switch {
	case sexp.NilP(v):
		return args, false, nil, nil
	default:
		sym, ok := v.(*sexp.Symbol)
		if !ok {
			return nil, false, nil, compileerr.New(compileerr.InvalidFormals, "invalid formal syntax: %s", formals.String())
		}
		return args, true, sym, nil
	}
}

// analyzeDefer allocates the skeleton node for a lambda form and queues
// its formals/body for compilation once the enclosing body has been
// fully analyzed (§4.1.5). name is nil for an anonymous lambda.
func (st *State) analyzeDefer(name *sexp.Symbol, formals, body sexp.Value) (ast.Node, error) {
	skeleton := &ast.Deferred{}
	st.scope.Defer = append(st.scope.Defer, &deferredLambda{
		skeleton: skeleton,
		name:     name,
		formals:  formals,
		body:     body,
	})
	return skeleton, nil
}

// flushDeferred compiles every lambda body queued on scope, in
// insertion order, resolving each skeleton in place so every reference
// already woven into the parent tree observes the compiled Lambda
// without re-traversal (§4.1.5).
func (st *State) flushDeferred(scope *Scope) error {
	entries := scope.Defer
	scope.Defer = nil
	for _, entry := range entries {
		lambda, err := st.analyzeProcedure(entry.name, entry.formals, entry.body)
		if err != nil {
			return err
		}
		entry.skeleton.Resolve(lambda)
	}
	return nil
}

// analyzeProcedure compiles one lambda's formals and body into an
// *ast.Lambda (§4.1.5's analyze_procedure): it pushes a child scope,
// analyzes the body before flushing that scope's own deferred lambdas
// — so every sibling define is visible to every nested closure — then
// reads back the now-complete args/locals/captures and pops the scope.
func (st *State) analyzeProcedure(name *sexp.Symbol, formals, bodyExprs sexp.Value) (*ast.Lambda, error) {
	args, varg, rest, err := parseFormals(formals)
	if err != nil {
		return nil, err
	}

	st.pushScope(args, varg)
	if varg {
		st.scope.Locals = append(st.scope.Locals, rest)
	}

	beginForm := sexp.Cons(st.kw["begin"], bodyExprs)
	body, err := st.analyze(beginForm, true)
	if err != nil {
		return nil, err
	}

	if err := st.flushDeferred(st.scope); err != nil {
		return nil, err
	}

	lambda := &ast.Lambda{
		Name:     name,
		Args:     append([]*sexp.Symbol(nil), st.scope.Args...),
		Locals:   append([]*sexp.Symbol(nil), st.scope.Locals...),
		Varg:     st.scope.Varg,
		Captures: append([]*sexp.Symbol(nil), st.scope.Captures...),
		Body:     body,
	}
	st.popScope()

	return lambda, nil
}
