/*
File    : relox/repl/repl.go

Package repl implements the Read-Eval-Print Loop: an interactive session
that lexes, parses, and evaluates one line at a time against a
persistent Interpreter, echoing colorized results and diagnostics.
Banner, readline-backed history, and color-coded output follow the same
shape as the interpreter's file-mode CLI front end.
*/
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/relox-lang/relox/ast"
	"github.com/relox-lang/relox/interp"
	"github.com/relox-lang/relox/lexer"
	"github.com/relox-lang/relox/parser"
	"github.com/relox-lang/relox/token"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl is a configured, reusable REPL session.
type Repl struct {
	Banner  string
	Version string
	Line    string // decorative separator

	Prompt string

	// Dump flags, settable by the CLI front end; all default to off.
	AstDump         bool
	TokenDump       bool
	ImmediateResult bool
}

// New builds a Repl with the given banner, version, separator line, and
// prompt.
func New(banner, version, line, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Line: line, Prompt: prompt}
}

// printBanner writes the welcome banner and usage hints to writer.
func (r *Repl) printBanner(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "relox "+r.Version)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintln(writer, "Type relox source and press enter.")
	cyanColor.Fprintln(writer, "Type '.exit' to quit.")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the REPL main loop against reader/writer until '.exit', EOF,
// or a readline error. A single Interpreter (and thus its Environment) is
// reused across every iteration, so bindings persist for the session.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.printBanner(writer)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: r.Prompt,
		Stdin:  reader,
		Stdout: writer,
	})
	if err != nil {
		redColor.Fprintf(writer, "[REPL ERROR] %v\n", err)
		return
	}
	defer rl.Close()

	machine := interp.New()
	machine.SetOutput(writer)

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good bye!\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good bye!\n"))
			return
		}

		rl.SaveHistory(line)
		r.evalLine(writer, line, machine)
	}
}

// evalLine runs one line of source through the full pipeline, printing
// diagnostics or the dump output the Repl was configured with. Unlike
// file mode, the REPL always returns to the prompt after an error.
func (r *Repl) evalLine(writer io.Writer, line string, machine *interp.Interpreter) {
	tokens, err := lexer.New(line).ScanTokens()
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}
	if r.TokenDump {
		for _, t := range tokens {
			if t.Kind != token.COMMENT {
				cyanColor.Fprintf(writer, "%s\n", t)
			}
		}
	}

	decls, err := parser.New(tokens).Parse()
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	if r.AstDump {
		for _, d := range decls {
			cyanColor.Fprintf(writer, "%s\n", ast.Print(d))
		}
	}

	result, err := machine.Run(decls)
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}
	if r.ImmediateResult {
		yellowColor.Fprintf(writer, "%s\n", result.String())
	}
}
