// Package compile wires the analyzer and code generator into the
// single entry point a driver calls per top-level form: macroexpand,
// then analyze, then generate (§6, grounded on pic_compile's
// macroexpand→analyze→codegen chain and the teacher's main.go
// lexer→parser→compiler→vm wiring, minus the VM step this spec leaves
// out of scope).
package compile

import (
	"irepc/analyzer"
	"irepc/ast"
	"irepc/code"
	"irepc/codegen"
	"irepc/host"
	"irepc/sexp"
)

// Result is everything one call to Compile produces: the form as the
// expander left it, the analyzed tree, and the generated IRep — the
// three stages trace.Tracer renders.
type Result struct {
	Expanded sexp.Value
	Analyzed ast.Node
	IRep     *code.IRep
}

// Compile expands expr, analyzes it against globals, and generates its
// IRep tree. On success it also grows globals with any symbol the
// top-level form defined, so a later call in the same session sees it
// as a global rather than raising unbound-variable (§4.1.1's "the root
// scope's locals is preseeded with every already-defined global").
func Compile(expander host.Expander, reporter host.Reporter, globals *host.Globals, expr sexp.Value) (*Result, error) {
	expanded, err := expander.Expand(expr)
	if err != nil {
		return nil, err
	}

	node, err := analyzer.Analyze(expander, reporter, globals, expanded)
	if err != nil {
		return nil, err
	}

	irep, err := codegen.Generate(node)
	if err != nil {
		return nil, err
	}

	if globals != nil {
		for _, sym := range definedSymbols(node) {
			globals.Define(sym)
		}
	}

	return &Result{Expanded: expanded, Analyzed: node, IRep: irep}, nil
}

// definedSymbols walks the top-level analyzed node for the GREF/SETBANG
// shape analyzeDeclare produces for a top-level (define sym value)
// (§4.1.4), returning the symbol(s) a driver must add to its Globals.
// Only the outermost RETURN/BEGIN is inspected — a define nested inside
// a lambda body binds a local, not a global, and never reaches here.
func definedSymbols(node ast.Node) []*sexp.Symbol {
	var syms []*sexp.Symbol
	var exprs []ast.Node
	switch n := node.(type) {
	case *ast.Return:
		exprs = n.Exprs
	case *ast.Begin:
		exprs = n.Exprs
	default:
		exprs = []ast.Node{node}
	}
	for _, e := range exprs {
		// The last expression of a top-level BEGIN is in tail position,
		// so a define there arrives boxed in its own RETURN.
		if ret, ok := e.(*ast.Return); ok && len(ret.Exprs) == 1 {
			e = ret.Exprs[0]
		}
		if set, ok := e.(*ast.SetBang); ok {
			if gref, ok := set.Var.(*ast.GRef); ok {
				syms = append(syms, gref.Sym)
			}
		}
	}
	return syms
}
