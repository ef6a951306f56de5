package host

import "irepc/sexp"

// Expander hygienically renames an expanded form before analysis and
// answers FindRename queries against the base library's rename table
// (§6's "macro-expander producing hygienically renamed forms plus a
// query find_rename"). This module treats macro expansion itself as an
// external collaborator (§1) — Expander is the seam a host plugs a real
// expander into.
type Expander interface {
	// Expand hygienically renames expr, returning the form the analyzer
	// should consume.
	Expand(expr sexp.Value) (sexp.Value, error)

	// FindRename resolves name against the base library, mirroring
	// find_rename(env, name) -> renamed_sym.
	FindRename(name string) (*sexp.Symbol, bool)
}

// IdentityExpander is the default Expander: it performs no renaming and
// answers FindRename straight out of a Library. Sufficient for input
// that is already fully expanded and never shadows a primitive with a
// macro-introduced binding.
type IdentityExpander struct {
	Library *Library
}

// NewIdentityExpander builds an IdentityExpander backed by lib.
func NewIdentityExpander(lib *Library) *IdentityExpander {
	return &IdentityExpander{Library: lib}
}

// Expand returns expr unchanged.
func (e *IdentityExpander) Expand(expr sexp.Value) (sexp.Value, error) {
	return expr, nil
}

// FindRename delegates to the underlying Library.
func (e *IdentityExpander) FindRename(name string) (*sexp.Symbol, bool) {
	return e.Library.FindRename(name)
}
