package codegen

import (
	"fmt"

	"irepc/ast"
	"irepc/code"
	"irepc/sexp"
)

// Generator walks an analyzed AST, emitting into whichever Context is
// currently on top of its stack (§4.2.1).
type Generator struct {
	cxt *Context
}

// Generate compiles node under a fresh top-level context: anonymous
// name, no args, no locals, no captures, not variadic (§4.2.5's
// "compiles under a top-level context whose name is false"). This is
// the root IRep a driver wraps in a callable procedure.
func Generate(node ast.Node) (*code.IRep, error) {
	g := &Generator{}
	g.pushContext(nil, nil, nil, false, nil)
	if err := g.compile(node); err != nil {
		return nil, err
	}
	return g.popContext(), nil
}

func (g *Generator) pushContext(name *sexp.Symbol, args, locals []*sexp.Symbol, varg bool, captures []*sexp.Symbol) {
	g.cxt = newContext(g.cxt, name, args, locals, varg, captures)
}

func (g *Generator) popContext() *code.IRep {
	irep := g.cxt.finalize()
	g.cxt = g.cxt.Up
	return irep
}

// compile dispatches on node's concrete type (§4.2.4). Each case emits
// into the current context; an unrecognized node type is a codegen bug,
// not a user-facing error (§7's internal-error).
func (g *Generator) compile(node ast.Node) error {
	switch n := node.(type) {
	case *ast.GRef:
		g.cxt.emit(code.GREF, g.cxt.indexSymbol(n.Sym))
		return nil

	case *ast.CRef:
		g.cxt.emit(code.CREF, n.Depth, g.cxt.indexCapture(n.Sym, n.Depth))
		return nil

	case *ast.LRef:
		if slot, ok := g.cxt.selfCaptureSlot(n.Sym); ok {
			g.cxt.emit(code.LREF, slot)
			return nil
		}
		idx, ok := g.cxt.indexLocal(n.Sym)
		if !ok {
			return fmt.Errorf("codegen: %s is not a local of its own frame", n.Sym.Name())
		}
		g.cxt.emit(code.LREF, idx)
		return nil

	case *ast.SetBang:
		if err := g.compile(n.Value); err != nil {
			return err
		}
		if err := g.compileSet(n.Var); err != nil {
			return err
		}
		g.cxt.emit(code.PUSHFALSE)
		return nil

	case *ast.Lambda:
		return g.compileLambda(n)

	case *ast.Deferred:
		return g.compileLambda(n.Resolved())

	case *ast.If:
		return g.compileIf(n)

	case *ast.Begin:
		for i, e := range n.Exprs {
			if i != 0 {
				g.cxt.emit(code.POP)
			}
			if err := g.compile(e); err != nil {
				return err
			}
		}
		return nil

	case *ast.Quote:
		return g.compileQuote(n.Datum)

	case *ast.Unary:
		return g.compileUnary(n)

	case *ast.Binary:
		return g.compileBinary(n)

	case *ast.Call:
		return g.compileCall(n.Callee, n.Args, code.CALL)

	case *ast.TailCall:
		return g.compileCall(n.Callee, n.Args, code.TAILCALL)

	case *ast.CallWithValues:
		return g.compileCallWithValues(n.Producer, n.Consumer, code.CALL)

	case *ast.TailCallWithValues:
		return g.compileCallWithValues(n.Producer, n.Consumer, code.TAILCALL)

	case *ast.Return:
		for _, e := range n.Exprs {
			if err := g.compile(e); err != nil {
				return err
			}
		}
		g.cxt.emit(code.RET, len(n.Exprs))
		return nil

	default:
		return fmt.Errorf("codegen: unknown AST node %T", node)
	}
}

// compileSet emits the GSET/CSET/LSET mirroring ref's *REF rule (§4.2.4).
func (g *Generator) compileSet(ref ast.Node) error {
	switch v := ref.(type) {
	case *ast.GRef:
		g.cxt.emit(code.GSET, g.cxt.indexSymbol(v.Sym))
		return nil
	case *ast.CRef:
		g.cxt.emit(code.CSET, v.Depth, g.cxt.indexCapture(v.Sym, v.Depth))
		return nil
	case *ast.LRef:
		if slot, ok := g.cxt.selfCaptureSlot(v.Sym); ok {
			g.cxt.emit(code.LSET, slot)
			return nil
		}
		idx, ok := g.cxt.indexLocal(v.Sym)
		if !ok {
			return fmt.Errorf("codegen: %s is not a local of its own frame", v.Sym.Name())
		}
		g.cxt.emit(code.LSET, idx)
		return nil
	default:
		return fmt.Errorf("codegen: set! target must be a variable reference, got %T", ref)
	}
}

func (g *Generator) compileIf(n *ast.If) error {
	if err := g.compile(n.Cond); err != nil {
		return err
	}
	jmpifPos := g.cxt.emit(code.JMPIF)

	if err := g.compile(n.Else); err != nil {
		return err
	}
	jmpPos := g.cxt.emit(code.JMP)
	g.cxt.changeOperand(jmpifPos, g.cxt.here()-jmpifPos)

	if err := g.compile(n.Then); err != nil {
		return err
	}
	g.cxt.changeOperand(jmpPos, g.cxt.here()-jmpPos)
	return nil
}

// compileQuote inlines booleans, fixnums, nil, and characters; anything
// else goes into the constant pool (§4.2.3, §4.2.4).
func (g *Generator) compileQuote(datum sexp.Value) error {
	switch v := datum.(type) {
	case sexp.Boolean:
		if v {
			g.cxt.emit(code.PUSHTRUE)
		} else {
			g.cxt.emit(code.PUSHFALSE)
		}
	case sexp.Integer:
		g.cxt.emit(code.PUSHINT, int(v))
	case sexp.Character:
		g.cxt.emit(code.PUSHCHAR, int(v))
	case sexp.Nil:
		g.cxt.emit(code.PUSHNIL)
	default:
		g.cxt.emit(code.PUSHCONST, g.cxt.addConstant(datum))
	}
	return nil
}

var unaryOpcodes = map[ast.PrimOp]code.Opcode{
	ast.Car: code.CAR, ast.Cdr: code.CDR, ast.NilP: code.NILP,
	ast.SymbolP: code.SYMBOLP, ast.PairP: code.PAIRP, ast.Minus: code.MINUS,
	ast.Not: code.NOT,
}

func (g *Generator) compileUnary(n *ast.Unary) error {
	if err := g.compile(n.Operand); err != nil {
		return err
	}
	op, ok := unaryOpcodes[n.Op]
	if !ok {
		return fmt.Errorf("codegen: unknown unary primitive %s", n.Op)
	}
	g.cxt.emit(op)
	return nil
}

var binaryOpcodes = map[ast.PrimOp]code.Opcode{
	ast.Cons: code.CONS, ast.Add: code.ADD, ast.Sub: code.SUB, ast.Mul: code.MUL,
	ast.Div: code.DIV, ast.Eq: code.EQ, ast.Lt: code.LT, ast.Le: code.LE,
}

// compileBinary emits left-then-right for most binaries, but GT/GE swap
// operand order and reuse LT/LE at codegen time (§4.2.4, §8's "Identity
// of >").
func (g *Generator) compileBinary(n *ast.Binary) error {
	switch n.Op {
	case ast.Gt, ast.Ge:
		if err := g.compile(n.Right); err != nil {
			return err
		}
		if err := g.compile(n.Left); err != nil {
			return err
		}
		if n.Op == ast.Gt {
			g.cxt.emit(code.LT)
		} else {
			g.cxt.emit(code.LE)
		}
		return nil
	}

	if err := g.compile(n.Left); err != nil {
		return err
	}
	if err := g.compile(n.Right); err != nil {
		return err
	}
	op, ok := binaryOpcodes[n.Op]
	if !ok {
		return fmt.Errorf("codegen: unknown binary primitive %s", n.Op)
	}
	g.cxt.emit(op)
	return nil
}

// compileCall emits the callee and args in source order, then CALL/
// TAILCALL with the argument count, not counting the callee (§4.2.4).
func (g *Generator) compileCall(callee ast.Node, args []ast.Node, op code.Opcode) error {
	if err := g.compile(callee); err != nil {
		return err
	}
	for _, a := range args {
		if err := g.compile(a); err != nil {
			return err
		}
	}
	g.cxt.emit(op, len(args))
	return nil
}

// compileCallWithValues emits the consumer first, then the producer,
// invokes the producer with CALL 1, then invokes the consumer with the
// -1 multi-value sentinel (§4.2.4, §9's "-1 arity" design note).
func (g *Generator) compileCallWithValues(producer, consumer ast.Node, op code.Opcode) error {
	if err := g.compile(consumer); err != nil {
		return err
	}
	if err := g.compile(producer); err != nil {
		return err
	}
	g.cxt.emit(code.CALL, 1)
	g.cxt.emit(op, -1)
	return nil
}

// compileLambda allocates a child-IRep slot, emits LAMBDA k, and
// recursively compiles the body into a freshly pushed context (§4.2.4).
func (g *Generator) compileLambda(lambda *ast.Lambda) error {
	k := len(g.cxt.irep)
	g.cxt.emit(code.LAMBDA, k)
	g.cxt.irep = append(g.cxt.irep, nil)

	g.pushContext(lambda.Name, lambda.Args, lambda.Locals, lambda.Varg, lambda.Captures)
	if err := g.compile(lambda.Body); err != nil {
		return err
	}
	irep := g.popContext()
	g.cxt.irep[k] = irep
	return nil
}
