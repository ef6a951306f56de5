// Package ast defines the analyzed AST the analyzer produces and the
// code generator consumes.
//
// Every node is tagged the way §3.2 describes: a symbolic tag identifying
// the node kind, with a fixed shape of children per tag. Here the tag is
// expressed as a Go type (one struct per row of §3.2's table) rather than
// a literal head symbol, since nothing downstream needs to walk the tree
// as raw s-expression data — codegen type-switches on concrete node type.
package ast

import (
	"fmt"
	"strings"

	"irepc/sexp"
)

// Node is any analyzed-AST node.
type Node interface {
	// String returns a debug representation, used by tracing and tests.
	String() string
}

// GRef is a reference to a global.
type GRef struct {
	Sym *sexp.Symbol
}

func (n *GRef) String() string { return "(GREF " + n.Sym.Name() + ")" }

// LRef is a reference to a local (argument or local of the current
// frame).
type LRef struct {
	Sym *sexp.Symbol
}

func (n *LRef) String() string { return "(LREF " + n.Sym.Name() + ")" }

// CRef is a reference to a captured variable, Depth frames outward
// (Depth >= 1).
type CRef struct {
	Depth int
	Sym   *sexp.Symbol
}

func (n *CRef) String() string {
	return fmt.Sprintf("(CREF %d %s)", n.Depth, n.Sym.Name())
}

// SetBang is an assignment. Var is always a GRef, LRef, or CRef.
type SetBang struct {
	Var   Node
	Value Node
}

func (n *SetBang) String() string {
	return "(SETBANG " + n.Var.String() + " " + n.Value.String() + ")"
}

// Lambda is a closure: name (nil if anonymous), positional parameters,
// locals (defines plus the rest-arg symbol if any), whether it has a
// rest argument, the upvalues captured from enclosing scopes, and the
// analyzed body.
type Lambda struct {
	Name     *sexp.Symbol // nil means "(anonymous lambda)"
	Args     []*sexp.Symbol
	Locals   []*sexp.Symbol
	Varg     bool
	Captures []*sexp.Symbol
	Body     Node
}

func (n *Lambda) String() string {
	name := "(anonymous lambda)"
	if n.Name != nil {
		name = n.Name.Name()
	}
	return fmt.Sprintf("(LAMBDA %s %v %v %v %v %s)", name, symNames(n.Args), symNames(n.Locals), n.Varg, symNames(n.Captures), n.Body.String())
}

func symNames(syms []*sexp.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name()
	}
	return out
}

// If is a conditional. Else is never nil — a missing else analyzes to
// the unspecified value (§4.1.4).
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (n *If) String() string {
	return "(IF " + n.Cond.String() + " " + n.Then.String() + " " + n.Else.String() + ")"
}

// Begin is a sequence of expressions.
type Begin struct {
	Exprs []Node
}

func (n *Begin) String() string {
	return "(BEGIN " + joinNodes(n.Exprs) + ")"
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, e := range nodes {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Quote is a literal constant, preserved verbatim from the input.
type Quote struct {
	Datum sexp.Value
}

func (n *Quote) String() string { return "(QUOTE " + n.Datum.String() + ")" }

// Call is a non-tail application.
type Call struct {
	Callee Node
	Args   []Node
}

func (n *Call) String() string { return "(CALL " + n.Callee.String() + " " + joinNodes(n.Args) + ")" }

// TailCall is an application in tail position.
type TailCall struct {
	Callee Node
	Args   []Node
}

func (n *TailCall) String() string {
	return "(TAILCALL " + n.Callee.String() + " " + joinNodes(n.Args) + ")"
}

// CallWithValues is a non-tail call-with-values form.
type CallWithValues struct {
	Producer Node
	Consumer Node
}

func (n *CallWithValues) String() string {
	return "(CALL_WITH_VALUES " + n.Producer.String() + " " + n.Consumer.String() + ")"
}

// TailCallWithValues is a call-with-values form in tail position.
type TailCallWithValues struct {
	Producer Node
	Consumer Node
}

func (n *TailCallWithValues) String() string {
	return "(TAILCALL_WITH_VALUES " + n.Producer.String() + " " + n.Consumer.String() + ")"
}

// Return is a tail return, possibly carrying multiple values.
type Return struct {
	Exprs []Node
}

func (n *Return) String() string { return "(RETURN " + joinNodes(n.Exprs) + ")" }

// PrimOp names the primitive intrinsic a Unary/Binary node denotes.
type PrimOp int

const (
	Cons PrimOp = iota
	Car
	Cdr
	NilP
	SymbolP
	PairP
	Add
	Sub
	Mul
	Div
	Minus
	Eq
	Lt
	Le
	Gt
	Ge
	Not
)

var primOpNames = map[PrimOp]string{
	Cons: "CONS", Car: "CAR", Cdr: "CDR", NilP: "NILP", SymbolP: "SYMBOLP",
	PairP: "PAIRP", Add: "ADD", Sub: "SUB", Mul: "MUL", Div: "DIV",
	Minus: "MINUS", Eq: "EQ", Lt: "LT", Le: "LE", Gt: "GT", Ge: "GE", Not: "NOT",
}

func (op PrimOp) String() string { return primOpNames[op] }

// Unary is a single-operand primitive intrinsic: CAR, CDR, NILP,
// SYMBOLP, PAIRP, MINUS, NOT.
type Unary struct {
	Op      PrimOp
	Operand Node
}

func (n *Unary) String() string { return "(" + n.Op.String() + " " + n.Operand.String() + ")" }

// Binary is a two-operand primitive intrinsic: CONS, ADD, SUB, MUL, DIV,
// EQ, LT, LE, GT, GE.
type Binary struct {
	Op    PrimOp
	Left  Node
	Right Node
}

func (n *Binary) String() string {
	return "(" + n.Op.String() + " " + n.Left.String() + " " + n.Right.String() + ")"
}

// Deferred is the interior-mutable slot a forward-referenced lambda
// body resolves into once its enclosing body has been fully analyzed
// (§4.1.5, §9's "OnceCell/interior-mutable slot" design note). The
// parent tree embeds a *Deferred directly; once Resolve is called every
// holder of that same pointer observes the compiled Lambda without
// re-traversing the tree to find it.
type Deferred struct {
	resolved Node
}

// Resolve fixes the deferred node's final value. It must be called
// exactly once, after the enclosing scope's body (and hence all of its
// locals) has been analyzed.
func (d *Deferred) Resolve(n *Lambda) {
	if d.resolved != nil {
		panic("ast: Deferred already resolved")
	}
	d.resolved = n
}

// Resolved returns the fixed node, and panics if Resolve has not run
// yet — callers (codegen) must only reach a Deferred after the analyzer
// has flushed every pending lambda (§4.1.5's analyze_deferred contract).
func (d *Deferred) Resolved() *Lambda {
	if d.resolved == nil {
		panic("ast: Deferred read before resolution")
	}
	return d.resolved.(*Lambda)
}

func (d *Deferred) String() string {
	if d.resolved == nil {
		return "(GREF <<nowhere>>)"
	}
	return d.resolved.String()
}
