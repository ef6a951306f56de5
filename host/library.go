// Package host defines the services §6 requires the embedding host to
// supply: a base-library rename table the analyzer queries to recognize
// primitives, a macro expander, and fatal/warning reporters.
package host

import "irepc/sexp"

// primitiveNames are the base-library procedures the analyzer must be
// able to resolve by rename at startup (§4.1.2). Inability to resolve
// any of them is the internal-error §7 describes.
var primitiveNames = []string{
	"cons", "car", "cdr", "null?", "symbol?", "pair?",
	"+", "-", "*", "/", "=", "<", "<=", ">", ">=", "not",
	"values", "call-with-values",
}

// specialFormNames are the syntactic keywords the analyzer dispatches
// on (§4.1.4). Like the primitives, their renamed identity is resolved
// once at state construction rather than compared by name on every
// call head.
var specialFormNames = []string{
	"define", "lambda", "if", "begin", "set!", "quote",
}

// Library is the rename table a macro expander/base library exposes:
// the mapping from a primitive's base name to the symbol identity that
// denotes it after hygienic renaming. A real macro expander would
// rename every binding per expansion; since this module treats macro
// expansion as an external collaborator (§1), Library here binds base
// names to themselves via the shared interner. That shortcut never
// mishandles shadowing on its own: the analyzer resolves a call head's
// lexical scope (findVar) before ever trusting an identity match against
// this table, so a lambda parameter named "cons" is recognized as a
// local long before it would reach this table (§8's shadowing law).
//
// Grounded on object/builtins.go's Builtins slice + GetBuiltinByName
// linear-lookup pattern, generalized from six Monkey builtins to the
// eighteen base-library primitives the analyzer resolves by rename.
type Library struct {
	interner *sexp.Interner
	bindings map[string]*sexp.Symbol
}

// NewBaseLibrary builds the rename table for every primitive the
// analyzer's primitive-symbol table needs (§4.1.2).
func NewBaseLibrary(interner *sexp.Interner) *Library {
	lib := &Library{
		interner: interner,
		bindings: make(map[string]*sexp.Symbol, len(primitiveNames)+len(specialFormNames)),
	}
	for _, name := range primitiveNames {
		lib.bindings[name] = interner.Intern(name)
	}
	for _, name := range specialFormNames {
		lib.bindings[name] = interner.Intern(name)
	}
	return lib
}

// FindRename looks up the renamed symbol bound to name in this library,
// mirroring pic_find_rename(pic, lib->env, sym, &gsym) in the system
// this spec was distilled from.
func (l *Library) FindRename(name string) (*sexp.Symbol, bool) {
	sym, ok := l.bindings[name]
	return sym, ok
}

// GetByName returns the symbol bound to name, or nil if this library has
// no such binding.
func (l *Library) GetByName(name string) *sexp.Symbol {
	return l.bindings[name]
}

// PrimitiveNames returns the base names of the primitives the analyzer
// must resolve at startup (§4.1.2).
func PrimitiveNames() []string {
	return append([]string(nil), primitiveNames...)
}

// SpecialFormNames returns the syntactic keywords the analyzer dispatches
// on (§4.1.4).
func SpecialFormNames() []string {
	return append([]string(nil), specialFormNames...)
}
