package codegen

import (
	"irepc/code"
	"irepc/sexp"
)

// emit appends one instruction to this context's code and returns its
// starting position, for later jump-patching (§4.2.1's emit_n/emit_i).
func (cxt *Context) emit(op code.Opcode, operands ...int) int {
	pos := len(cxt.code)
	cxt.code = append(cxt.code, code.Make(op, operands...)...)
	return pos
}

// changeOperand rewrites the operand of the instruction at pos in
// place, used to patch a placeholder JMP/JMPIF once its target is
// known (§4.2.4's relative jump patching).
func (cxt *Context) changeOperand(pos int, operand int) {
	op := code.Opcode(cxt.code[pos])
	copy(cxt.code[pos:], code.Make(op, operand))
}

// here returns the position the next emitted instruction will occupy.
func (cxt *Context) here() int {
	return len(cxt.code)
}

// indexLocal implements §4.2.3's index_local: args occupy slots
// 1..len(args), locals (including the rest-arg symbol, if any) occupy
// the slots immediately after.
func (cxt *Context) indexLocal(sym *sexp.Symbol) (int, bool) {
	for i, a := range cxt.Args {
		if a == sym {
			return i + 1, true
		}
	}
	offset := len(cxt.Args) + 1
	for i, l := range cxt.Locals {
		if l == sym {
			return offset + i, true
		}
	}
	return 0, false
}

// indexCapture implements index_capture: walk depth contexts outward,
// then linear-scan that context's captures.
func (cxt *Context) indexCapture(sym *sexp.Symbol, depth int) int {
	target := cxt
	for ; depth > 0; depth-- {
		target = target.Up
	}
	for i, c := range target.Captures {
		if c == sym {
			return i
		}
	}
	return -1
}

// indexSymbol implements index_symbol: find-or-append sym in this
// context's own symbol table, returning its index.
func (cxt *Context) indexSymbol(sym *sexp.Symbol) int {
	for i, s := range cxt.syms {
		if s == sym {
			return i
		}
	}
	cxt.syms = append(cxt.syms, sym)
	return len(cxt.syms) - 1
}

// addConstant appends datum to this context's constant pool and
// returns its index (§4.2.3).
func (cxt *Context) addConstant(datum sexp.Value) int {
	cxt.pool = append(cxt.pool, datum)
	return len(cxt.pool) - 1
}

// selfCaptureSlot reports the capture-area slot of sym when it is also
// one of this context's own captures (a "self-capture": the lambda
// refers to a variable it itself closed over, which after the
// activation prelude lives past args and locals). The capture area's
// physical base is |args|+|locals|+1 (§4.2.2).
func (cxt *Context) selfCaptureSlot(sym *sexp.Symbol) (int, bool) {
	i := cxt.indexCapture(sym, 0)
	if i == -1 {
		return 0, false
	}
	return i + len(cxt.Args) + len(cxt.Locals) + 1, true
}
