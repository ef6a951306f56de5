// irepc compiles s-expression source into a tree of IReps and prints
// the analyzed tree and disassembled bytecode. There is no VM here —
// this module is a compiler core, not an interpreter (§1).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"irepc/compile"
	"irepc/host"
	"irepc/internal/reader"
	"irepc/repl"
	"irepc/sexp"
	"irepc/trace"
)

const version = "0.1.0"

// printUsage displays custom usage information.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `irepc Scheme IRep Compiler v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    irepc analyzes and compiles s-expression source into a tree of IReps,
    printing the analyzed tree and disassembled bytecode for each
    top-level form. Without any flags, it starts an interactive REPL.

OPTIONS:
    -f, --file <path>       Compile a source file
    -e, --eval <code>       Compile a single expression
    -d, --debug             Also print the post-macroexpand form
    -v, --version           Show version information
    -h, --help              Show this help message

EXAMPLES:
    # Start interactive REPL
    %s

    # Compile a script file
    %s -f script.scm
    %s --file script.scm

    # Compile an expression
    %s -e "(+ 1 2)"

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Compile a source file")
	evalFlag := flag.String("eval", "", "Compile a single expression")
	debugFlag := flag.Bool("debug", false, "Also print the post-macroexpand form")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Compile a source file")
	flag.StringVar(evalFlag, "e", "", "Compile a single expression")
	flag.BoolVar(debugFlag, "d", false, "Also print the post-macroexpand form")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("irepc Scheme IRep Compiler v%s\n", version)
		return
	}

	if *fileFlag != "" {
		compileFile(*fileFlag, *debugFlag)
		return
	}

	if *evalFlag != "" {
		compileExpr(*evalFlag, *debugFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	fmt.Println("Hello", username+",", "welcome to the irepc compiler!")
	fmt.Println("Feel free to type in s-expressions. (Ctrl+D or Ctrl+C to exit)")

	repl.Start(username, repl.Options{Debug: *debugFlag})
}

// compileFile reads and compiles every top-level form in a source file.
func compileFile(filename string, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Compiling file: %s\n", absolute)

	//nolint:gosec // We're not reading user input here
	content, err := os.ReadFile(absolute)
	if err != nil {
		fmt.Printf("Error reading file: %s\n", err)
		os.Exit(1)
	}

	runForms(string(content), debug)
}

// compileExpr compiles a single expression passed on the command line.
func compileExpr(expr string, debug bool) {
	runForms(expr, debug)
}

// runForms reads every top-level form out of src and compiles them in
// sequence against one growing host.Globals, so later forms see
// earlier top-level defines, then prints the staged trace for each.
func runForms(src string, debug bool) {
	interner := sexp.NewInterner()
	lib := host.NewBaseLibrary(interner)
	expander := host.NewIdentityExpander(lib)
	reporter := host.NewWriterReporter(os.Stderr)
	globals := host.NewGlobals()
	tr := trace.New(os.Stdout, false)

	forms, err := reader.ReadAll(src, interner)
	if err != nil {
		fmt.Printf("Read error: %s\n", err)
		os.Exit(1)
	}

	for _, form := range forms {
		result, err := compile.Compile(expander, reporter, globals, form)
		if err != nil {
			fmt.Printf("Compilation error: %s\n", err)
			os.Exit(1)
		}
		if debug {
			tr.Expanded(result.Expanded)
		}
		tr.Analyzed(result.Analyzed)
		tr.IRep(result.IRep)
	}
}
