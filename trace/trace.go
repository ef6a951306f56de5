// Package trace implements the optional DEBUG tracing hook of §6: a
// dump of each compilation stage to an io.Writer, styled with Lipgloss
// the way repl/repl.go styles its own output. Grounded on
// original_source/codegen.c's "#if DEBUG" blocks inside pic_compile,
// which print exactly these three stages: the macroexpanded form, the
// analyzed tree, and the disassembled bytecode.
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"irepc/ast"
	"irepc/code"
	"irepc/sexp"
)

var (
	stageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	disasmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// Tracer writes staged compilation dumps to Out. NoColor disables
// Lipgloss styling for output that isn't a terminal (§9's design
// note on the reader/tracer being CLI conveniences, not part of the
// compiler core's public surface).
type Tracer struct {
	Out     io.Writer
	NoColor bool
}

// New builds a Tracer writing to out.
func New(out io.Writer, noColor bool) *Tracer {
	return &Tracer{Out: out, NoColor: noColor}
}

func (t *Tracer) style(style lipgloss.Style, text string) string {
	if t.NoColor {
		return text
	}
	return style.Render(text)
}

func (t *Tracer) stage(title, body string) {
	fmt.Fprintln(t.Out, t.style(stageStyle, title))
	fmt.Fprintln(t.Out, t.style(bodyStyle, body))
	fmt.Fprintln(t.Out)
}

// Expanded dumps the form after macroexpansion, before analysis.
func (t *Tracer) Expanded(form sexp.Value) {
	t.stage("expanded", form.String())
}

// Analyzed dumps the analyzed AST tree.
func (t *Tracer) Analyzed(node ast.Node) {
	t.stage("analyzed", node.String())
}

// IRep dumps the disassembled bytecode tree, recursing into every child
// IRep depth-first with indentation marking nesting (LAMBDA k points at
// the corresponding indented block).
func (t *Tracer) IRep(irep *code.IRep) {
	fmt.Fprintln(t.Out, t.style(stageStyle, "bytecode"))
	t.disassemble(irep, 0)
	fmt.Fprintln(t.Out)
}

func (t *Tracer) disassemble(irep *code.IRep, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	name := "(anonymous)"
	if irep.Name != nil {
		name = irep.Name.Name()
	}
	fmt.Fprintf(t.Out, "%s%s argc=%d localc=%d capturec=%d varg=%v\n",
		indent, t.style(bodyStyle, name), irep.Argc, irep.Localc, irep.Capturec, irep.Varg)

	for _, line := range strings.Split(strings.TrimRight(irep.Code.String(), "\n"), "\n") {
		fmt.Fprintln(t.Out, indent+"  "+t.style(disasmStyle, line))
	}
	for _, child := range irep.Irep {
		t.disassemble(child, depth+1)
	}
}
