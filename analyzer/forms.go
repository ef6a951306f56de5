package analyzer

import (
	"irepc/ast"
	"irepc/compileerr"
	"irepc/sexp"
)

// unspecified stands for the value "no particular result" — the
// glossary's note that PUSHNONE is an alias for PUSHFALSE means a
// missing else-branch or empty begin body analyzes exactly like a
// literal #f.
var unspecified sexp.Value = sexp.Boolean(false)

// analyzeDefine handles (define name value) (§4.1.4). A lambda-valued
// define has its body deferred so that sibling defines in the same
// enclosing body remain visible to it; anything else is analyzed
// eagerly, non-tail.
func (st *State) analyzeDefine(obj *sexp.Pair) (ast.Node, error) {
	if sexp.Length(obj) != 3 {
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}

	varExpr := sexp.ListRef(obj, 1)
	sym, ok := varExpr.(*sexp.Symbol)
	if !ok {
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}

	ref, err := st.analyzeDeclare(sym)
	if err != nil {
		return nil, err
	}

	valueExpr := sexp.ListRef(obj, 2)
	var value ast.Node
	if lambdaForm, ok := st.asLambdaForm(valueExpr); ok {
		formals := sexp.ListRef(lambdaForm, 1)
		bodyExprs := sexp.ListTail(lambdaForm, 2)
		value, err = st.analyzeDefer(sym, formals, bodyExprs)
	} else {
		value, err = st.analyze(valueExpr, false)
	}
	if err != nil {
		return nil, err
	}

	return &ast.SetBang{Var: ref, Value: value}, nil
}

// asLambdaForm reports whether v is a pair headed by the resolved
// lambda keyword, returning it as a *sexp.Pair if so. Gated on
// headIsUnshadowed the same way analyzeForm is (§8): a (define f
// (lambda ...)) nested inside a scope that rebinds "lambda" as a local
// must not be mistaken for the deferred-compilation shape.
func (st *State) asLambdaForm(v sexp.Value) (*sexp.Pair, bool) {
	p, ok := v.(*sexp.Pair)
	if !ok {
		return nil, false
	}
	sym, ok := p.Car.(*sexp.Symbol)
	if !ok || !st.headIsUnshadowed(sym) {
		return nil, false
	}
	if name, ok := st.specialForm(sym); !ok || name != "lambda" {
		return nil, false
	}
	return p, true
}

// analyzeLambda handles a bare (lambda formals body...) (§4.1.4): it is
// always deferred, with an anonymous name hint.
func (st *State) analyzeLambda(obj *sexp.Pair) (ast.Node, error) {
	if sexp.Length(obj) < 2 {
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}
	formals := sexp.ListRef(obj, 1)
	bodyExprs := sexp.ListTail(obj, 2)
	return st.analyzeDefer(nil, formals, bodyExprs)
}

// analyzeIf handles (if cond then [else]) (§4.1.4). The predicate is
// analyzed non-tail; both branches inherit tailpos. A missing else
// analyzes to the unspecified value.
func (st *State) analyzeIf(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	var thenExpr, elseExpr sexp.Value
	switch sexp.Length(obj) {
	case 3:
		thenExpr = sexp.ListRef(obj, 2)
		elseExpr = unspecified
	case 4:
		thenExpr = sexp.ListRef(obj, 2)
		elseExpr = sexp.ListRef(obj, 3)
	default:
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}

	cond, err := st.analyze(sexp.ListRef(obj, 1), false)
	if err != nil {
		return nil, err
	}
	thenNode, err := st.analyze(thenExpr, tailpos)
	if err != nil {
		return nil, err
	}
	elseNode, err := st.analyze(elseExpr, tailpos)
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: thenNode, Else: elseNode}, nil
}

// analyzeBegin handles (begin expr...) (§4.1.4): empty analyzes to the
// unspecified value, a single expression inherits tailpos directly,
// and otherwise every expression but the last is analyzed non-tail.
func (st *State) analyzeBegin(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	switch sexp.Length(obj) {
	case 1:
		return st.analyze(unspecified, tailpos)
	case 2:
		return st.analyze(sexp.ListRef(obj, 1), tailpos)
	default:
		var exprs []ast.Node
		for cur := sexp.Cdr(obj); !sexp.NilP(cur); cur = sexp.Cdr(cur) {
			tail := false
			if sexp.NilP(sexp.Cdr(cur)) {
				tail = tailpos
			}
			node, err := st.analyze(sexp.Car(cur), tail)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, node)
		}
		return &ast.Begin{Exprs: exprs}, nil
	}
}

// analyzeSet handles (set! var value) (§4.1.4): the lvalue must be a
// symbol; both operands are analyzed non-tail.
func (st *State) analyzeSet(obj *sexp.Pair) (ast.Node, error) {
	if sexp.Length(obj) != 3 {
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}
	varExpr := sexp.ListRef(obj, 1)
	if _, ok := varExpr.(*sexp.Symbol); !ok {
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}

	ref, err := st.analyze(varExpr, false)
	if err != nil {
		return nil, err
	}
	value, err := st.analyze(sexp.ListRef(obj, 2), false)
	if err != nil {
		return nil, err
	}
	return &ast.SetBang{Var: ref, Value: value}, nil
}

// analyzeQuote handles (quote datum) (§4.1.4): the datum is preserved
// verbatim.
func (st *State) analyzeQuote(obj *sexp.Pair) (ast.Node, error) {
	if sexp.Length(obj) != 2 {
		return nil, compileerr.New(compileerr.SyntaxError, "syntax error")
	}
	return &ast.Quote{Datum: sexp.ListRef(obj, 1)}, nil
}
