// Package repl implements the Read-Eval-Print Loop for the compiler
// core: it reads one s-expression at a time, compiles it, and displays
// the analyzed tree and disassembled bytecode instead of evaluating it
// (there is no VM in scope). It uses the Charm libraries (Bubble Tea,
// Bubbles, and Lipgloss) to create an interactive terminal interface,
// the way the teacher's REPL does for its own language.
//
// Key features:
//   - Interactive command input and execution
//   - Command history tracking
//   - Styled output for the analyzed tree and bytecode
//   - A persistent host.Globals across inputs, so later top-level
//     defines see earlier ones
//
// The main entry point is the Start function.
package repl

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"irepc/compile"
	"irepc/host"
	"irepc/internal/reader"
	"irepc/sexp"
	"irepc/trace"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = ">> "

	// ContPrompt is the continuation prompt used in multiline input mode.
	ContPrompt = ".. "
)

// Options contains configuration options for the REPL.
type Options struct {
	NoColor bool // Disable styled output
	Debug   bool // Also show the post-macroexpand form
}

// Start initializes and runs the REPL with the given username and
// options.
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

// compileResultMsg carries the outcome of an asynchronous compile back
// into Update.
type compileResultMsg struct {
	output  string
	isError bool
	elapsed time.Duration
}

// model is the state of the REPL program.
type model struct {
	textInput       textinput.Model
	history         []historyEntry
	interner        *sexp.Interner
	expander        host.Expander
	reporter        host.Reporter
	globals         *host.Globals
	username        string
	compiling       bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool
	spinner         spinner.Model
	options         Options
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

type historyEntry struct {
	input          string
	output         string
	isError        bool
	evaluationTime time.Duration
}

func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "Enter an s-expression"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	interner := sexp.NewInterner()
	lib := host.NewBaseLibrary(interner)

	return model{
		textInput: ti,
		history:   []historyEntry{},
		interner:  interner,
		expander:  host.NewIdentityExpander(lib),
		reporter:  host.NewWriterReporter(&bytes.Buffer{}),
		globals:   host.NewGlobals(),
		username:  username,
		spinner:   s,
		options:   options,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced checks if parentheses and brackets are balanced in input,
// so the REPL can tell a complete form from one that still needs more
// lines.
func isBalanced(input string) bool {
	var stack []rune
	for _, char := range input {
		switch char {
		case '(', '[':
			stack = append(stack, char)
		case ')':
			if len(stack) == 0 || stack[len(stack)-1] != '(' {
				return false
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// compileCmd compiles input asynchronously against the session's
// shared interner/expander/reporter/globals.
func compileCmd(m model, input string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		forms, err := reader.ReadAll(input, m.interner)
		if err != nil {
			return compileResultMsg{output: "Read error: " + err.Error(), isError: true, elapsed: time.Since(start)}
		}

		var out bytes.Buffer
		tr := trace.New(&out, m.options.NoColor)
		for _, form := range forms {
			result, err := compile.Compile(m.expander, m.reporter, m.globals, form)
			if err != nil {
				return compileResultMsg{output: "Compilation error: " + err.Error(), isError: true, elapsed: time.Since(start)}
			}
			if m.options.Debug {
				tr.Expanded(result.Expanded)
			}
			tr.Analyzed(result.Analyzed)
			tr.IRep(result.IRep)
		}

		return compileResultMsg{output: out.String(), elapsed: time.Since(start)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.compiling {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case compileResultMsg:
		m.compiling = false
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			output:         msg.output,
			isError:        msg.isError,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.compiling && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}
					m.compiling = true
					m.currentInput = m.multilineBuffer
					m.textInput.SetValue("")
					m.isMultiline = false
					buffer := m.multilineBuffer
					m.multilineBuffer = ""
					return m, compileCmd(m, buffer)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.multilineBuffer) {
					m.compiling = true
					m.currentInput = m.multilineBuffer
					m.isMultiline = false
					buffer := m.multilineBuffer
					m.multilineBuffer = ""
					return m, compileCmd(m, buffer)
				}
				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			m.compiling = true
			m.currentInput = input
			m.textInput.SetValue("")
			return m, compileCmd(m, input)
		}
	}

	if !m.compiling {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.compiling {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " irepc Scheme IRep Compiler REPL "))
	s.WriteString("\n")

	if m.username != "" {
		s.WriteString(fmt.Sprintf("\nHello %s! Feel free to type in s-expressions\n", m.username))
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}

		if entry.isError {
			s.WriteString(m.applyStyle(errorStyle, entry.output))
		} else {
			s.WriteString(m.applyStyle(resultStyle, entry.output))
		}

		if entry.evaluationTime > 10*time.Millisecond {
			timeStr := fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())
			s.WriteString(m.applyStyle(historyStyle, timeStr))
		}
		s.WriteString("\n")
	}

	if m.compiling {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.currentInput)
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" Compiling...")
		s.WriteString("\n\n")
	}

	if m.isMultiline && !m.compiling {
		s.WriteString(m.applyStyle(historyStyle, "Current multiline input:\n"))
		s.WriteString(m.multilineBuffer)
		s.WriteString("\n")
	}

	if !m.compiling {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	helpText := "\nPress Esc or Ctrl+C/D to exit"
	if m.isMultiline {
		helpText += " | Multiline mode: Enter empty line to compile or continue typing"
	} else {
		helpText += " | Multiline input supported for unbalanced parentheses"
	}
	s.WriteString(m.applyStyle(historyStyle, helpText))

	return s.String()
}
