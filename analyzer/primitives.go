package analyzer

import (
	"irepc/ast"
	"irepc/compileerr"
	"irepc/sexp"
)

// argc returns the number of arguments in a primitive-call form, i.e.
// its list length minus the operator itself.
func argc(obj *sexp.Pair) int {
	return sexp.Length(obj) - 1
}

func (st *State) unaryOp(op ast.PrimOp, obj *sexp.Pair) (ast.Node, error) {
	operand, err := st.analyze(sexp.ListRef(obj, 1), false)
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: op, Operand: operand}, nil
}

func (st *State) binaryOp(op ast.PrimOp, obj *sexp.Pair) (ast.Node, error) {
	left, err := st.analyze(sexp.ListRef(obj, 1), false)
	if err != nil {
		return nil, err
	}
	right, err := st.analyze(sexp.ListRef(obj, 2), false)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: op, Left: left, Right: right}, nil
}

// foldLeft left-folds args pairwise into nested Binary nodes of op
// (§4.1.4's arithmetic fold), analyzing each operand non-tail in
// source order.
func (st *State) foldLeft(op ast.PrimOp, args sexp.Value) (ast.Node, error) {
	node, err := st.analyze(sexp.Car(args), false)
	if err != nil {
		return nil, err
	}
	for rest := sexp.Cdr(args); !sexp.NilP(rest); rest = sexp.Cdr(rest) {
		right, err := st.analyze(sexp.Car(rest), false)
		if err != nil {
			return nil, err
		}
		node = &ast.Binary{Op: op, Left: node, Right: right}
	}
	return node, nil
}

// analyzePrimitive dispatches a call whose head resolved to one of the
// base-library primitives (§4.1.2). handled reports whether the call
// was fully handled here; when it is false (an arity-mismatched
// comparison), the caller falls back to a generic application.
func (st *State) analyzePrimitive(name string, obj *sexp.Pair, tailpos bool) (ast.Node, bool, error) {
	switch name {
	case "cons":
		if argc(obj) != 2 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.binaryOp(ast.Cons, obj)
		return n, true, err

	case "car":
		if argc(obj) != 1 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.unaryOp(ast.Car, obj)
		return n, true, err

	case "cdr":
		if argc(obj) != 1 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.unaryOp(ast.Cdr, obj)
		return n, true, err

	case "null?":
		if argc(obj) != 1 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.unaryOp(ast.NilP, obj)
		return n, true, err

	case "symbol?":
		if argc(obj) != 1 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.unaryOp(ast.SymbolP, obj)
		return n, true, err

	case "pair?":
		if argc(obj) != 1 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.unaryOp(ast.PairP, obj)
		return n, true, err

	case "not":
		if argc(obj) != 1 {
			return nil, true, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
		}
		n, err := st.unaryOp(ast.Not, obj)
		return n, true, err

	case "+":
		n, err := st.analyzeAdd(obj, tailpos)
		return n, true, err

	case "-":
		n, err := st.analyzeSub(obj)
		return n, true, err

	case "*":
		n, err := st.analyzeMul(obj, tailpos)
		return n, true, err

	case "/":
		n, err := st.analyzeDiv(obj)
		return n, true, err

	case "=":
		if argc(obj) != 2 {
			return nil, false, nil
		}
		n, err := st.binaryOp(ast.Eq, obj)
		return n, true, err

	case "<":
		if argc(obj) != 2 {
			return nil, false, nil
		}
		n, err := st.binaryOp(ast.Lt, obj)
		return n, true, err

	case "<=":
		if argc(obj) != 2 {
			return nil, false, nil
		}
		n, err := st.binaryOp(ast.Le, obj)
		return n, true, err

	case ">":
		if argc(obj) != 2 {
			return nil, false, nil
		}
		n, err := st.binaryOp(ast.Gt, obj)
		return n, true, err

	case ">=":
		if argc(obj) != 2 {
			return nil, false, nil
		}
		n, err := st.binaryOp(ast.Ge, obj)
		return n, true, err

	case "values":
		n, err := st.analyzeValues(obj, tailpos)
		return n, true, err

	case "call-with-values":
		n, err := st.analyzeCallWithValues(obj, tailpos)
		return n, true, err
	}
	return nil, false, nil
}

// analyzeAdd folds (+ a b c ...) into nested ADD nodes (§4.1.4).
func (st *State) analyzeAdd(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	switch sexp.Length(obj) {
	case 1:
		return &ast.Quote{Datum: sexp.Integer(0)}, nil
	case 2:
		return st.analyze(sexp.ListRef(obj, 1), tailpos)
	default:
		return st.foldLeft(ast.Add, sexp.Cdr(obj))
	}
}

// analyzeMul folds (* a b c ...) into nested MUL nodes.
func (st *State) analyzeMul(obj *sexp.Pair, tailpos bool) (ast.Node, error) {
	switch sexp.Length(obj) {
	case 1:
		return &ast.Quote{Datum: sexp.Integer(1)}, nil
	case 2:
		return st.analyze(sexp.ListRef(obj, 1), tailpos)
	default:
		return st.foldLeft(ast.Mul, sexp.Cdr(obj))
	}
}

// analyzeSub handles (- a), unary negation, and (- a b c ...), folded
// subtraction; zero operands is an error.
func (st *State) analyzeSub(obj *sexp.Pair) (ast.Node, error) {
	switch argc(obj) {
	case 0:
		return nil, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
	case 1:
		return st.unaryOp(ast.Minus, obj)
	default:
		return st.foldLeft(ast.Sub, sexp.Cdr(obj))
	}
}

// analyzeDiv handles (/ a), the reciprocal 1/a, and (/ a b c ...),
// folded division; zero operands is an error.
func (st *State) analyzeDiv(obj *sexp.Pair) (ast.Node, error) {
	switch argc(obj) {
	case 0:
		return nil, compileerr.New(compileerr.WrongNumberOfArguments, "wrong number of arguments")
	case 1:
		operand, err := st.analyze(sexp.ListRef(obj, 1), false)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.Div, Left: &ast.Quote{Datum: sexp.Integer(1)}, Right: operand}, nil
	default:
		return st.foldLeft(ast.Div, sexp.Cdr(obj))
	}
}
