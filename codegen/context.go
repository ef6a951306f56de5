// Package codegen turns the analyzed AST into a tree of IReps (§3.6,
// §4.2). It walks the scope stack a second time, this time emitting
// opcodes instead of resolving bindings — the context stack here
// mirrors the analyzer's scope stack field for field.
package codegen

import (
	"irepc/code"
	"irepc/sexp"
)

// Context is one frame of the codegen stack, parallel to analyzer.Scope
// (§3.6). Unlike Scope it owns growable output buffers instead of a
// defer queue, and its captures list arrives fully populated from the
// analyzed Lambda before codegen of the body begins.
type Context struct {
	Name     *sexp.Symbol // nil for the top-level/anonymous procedure
	Args     []*sexp.Symbol
	Locals   []*sexp.Symbol
	Varg     bool
	Captures []*sexp.Symbol

	code code.Instructions
	pool []sexp.Value
	syms []*sexp.Symbol
	irep []*code.IRep

	Up *Context
}

// newContext allocates a context and immediately emits its activation
// prelude (§4.2.1), copying incoming arguments that are also captures
// into the capture area at the top of the register file.
func newContext(up *Context, name *sexp.Symbol, args, locals []*sexp.Symbol, varg bool, captures []*sexp.Symbol) *Context {
	cxt := &Context{
		Name:     name,
		Args:     args,
		Locals:   locals,
		Varg:     varg,
		Captures: captures,
		Up:       up,
	}
	cxt.emitActivationPrelude()
	return cxt
}

// emitActivationPrelude realizes §4.2.2: for each capture, find its
// local-frame slot in this same context (args first, offset 1, then
// locals); if that slot falls within the incoming arguments (including
// the rest-arg slot when varg), LREF copies it into the capture area,
// otherwise PUSHNONE reserves an undefined placeholder for later
// define/set! to fill in.
func (cxt *Context) emitActivationPrelude() {
	argc := len(cxt.Args)
	for _, sym := range cxt.Captures {
		n, _ := cxt.indexLocal(sym)
		if n >= 1 && n <= argc || (cxt.Varg && n == argc+1) {
			cxt.emit(code.LREF, n)
		} else {
			// PUSHNONE is an alias for PUSHFALSE: the unspecified value
			// is false (§3.5).
			cxt.emit(code.PUSHFALSE)
		}
	}
}

// finalize materializes this context's buffers into an IRep and returns
// it (§4.2.1's pop_codegen_context). The context itself is discarded;
// the caller restores Up as the active context.
func (cxt *Context) finalize() *code.IRep {
	return &code.IRep{
		Name:     cxt.Name,
		Varg:     cxt.Varg,
		Argc:     len(cxt.Args) + 1,
		Localc:   len(cxt.Locals),
		Capturec: len(cxt.Captures),
		Code:     cxt.code,
		Pool:     cxt.pool,
		Syms:     cxt.syms,
		Irep:     cxt.irep,
	}
}
