package analyzer

import (
	"irepc/ast"
	"irepc/compileerr"
	"irepc/sexp"
)

// analyzeCall handles a generic application (§4.1.4): the head and each
// argument are analyzed non-tail, then the whole form becomes a Call or
// a TailCall depending on tailpos.
func (st *State) analyzeCall(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	callee, err := st.analyze(sexp.Car(obj), false)
	if err != nil {
		return nil, err
	}

	var args []ast.Node
	for rest := sexp.Cdr(obj); !sexp.NilP(rest); rest = sexp.Cdr(rest) {
		arg, err := st.analyze(sexp.Car(rest), false)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if tailpos {
		return &ast.TailCall{Callee: callee, Args: args}, nil
	}
	return &ast.Call{Callee: callee, Args: args}, nil
}

// analyzeValues handles (values e...) (§4.1.4): in tail position it
// becomes a multi-value RETURN; otherwise it is a plain call to the
// values procedure.
func (st *State) analyzeValues(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	if !tailpos {
		return st.analyzeCall(obj, false)
	}

	var exprs []ast.Node
	for rest := sexp.Cdr(obj); !sexp.NilP(rest); rest = sexp.Cdr(rest) {
		node, err := st.analyze(sexp.Car(rest), false)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, node)
	}
	return &ast.Return{Exprs: exprs}, nil
}

// analyzeCallWithValues handles (call-with-values producer consumer)
// (§4.1.4): exactly two operands, tail context selects the
// TailCallWithValues variant.
func (st *State) analyzeCallWithValues(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	if sexp.Length(obj) != 3 {
		return nil, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
	}

	producer, err := st.analyze(sexp.ListRef(obj, 1), false)
	if err != nil {
		return nil, err
	}
	consumer, err := st.analyze(sexp.ListRef(obj, 2), false)
	if err != nil {
		return nil, err
	}

	if tailpos {
		return &ast.TailCallWithValues{Producer: producer, Consumer: consumer}, nil
	}
	return &ast.CallWithValues{Producer: producer, Consumer: consumer}, nil
}
