/*
File    : relox/cmd/relox/main.go

Package main is the entry point for the relox interpreter. It supports
three modes of operation:
 1. REPL mode (default): interactive read-eval-print loop over stdin/stdout
 2. File mode: execute a relox source file given as the single argument
 3. Serve mode ("relox serve <port>"): one REPL session per TCP connection

The interpreter is a lexer -> parser -> evaluator pipeline; see the
token, lexer, parser, and interp packages.
*/
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/relox-lang/relox/ast"
	"github.com/relox-lang/relox/diag"
	"github.com/relox-lang/relox/interp"
	"github.com/relox-lang/relox/lexer"
	"github.com/relox-lang/relox/parser"
	"github.com/relox-lang/relox/repl"
	"github.com/relox-lang/relox/token"
)

// VERSION is the current version of the relox interpreter.
const VERSION = "v1.0.0"

// PROMPT is the command prompt displayed in REPL mode.
const PROMPT = "relox >> "

// BANNER is the banner shown at the top of an interactive session.
const BANNER = "  relox - a tree-walking Lox-family interpreter"

// LINE is a separator used for visual formatting in the REPL.
const LINE = "--------------------------------------------------------"

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

// displaySettings bundles the three optional diagnostic dump flags.
type displaySettings struct {
	astDump         bool
	tokenDump       bool
	immediateResult bool
}

func main() {
	astDump := flag.Bool("ast-dump", false, "print the parenthesized AST for each top-level expression")
	tokenDump := flag.Bool("token-dump", false, "print each token's kind")
	immediateResult := flag.Bool("immediate-result-dump", false, "print the evaluator's result after each top-level expression")

	var help, version bool
	flag.BoolVar(&help, "help", false, "print usage and exit")
	flag.BoolVar(&help, "h", false, "print usage and exit")
	flag.BoolVar(&version, "version", false, "print version and exit")
	flag.BoolVar(&version, "v", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}
	if version {
		cyanColor.Println("relox " + VERSION)
		os.Exit(0)
	}

	display := displaySettings{astDump: *astDump, tokenDump: *tokenDump, immediateResult: *immediateResult}
	args := flag.Args()

	switch {
	case len(args) == 0:
		runRepl(display)
	case len(args) == 2 && args[0] == "serve":
		runServer(args[1], display)
	case len(args) == 1:
		runFile(args[0], display)
	default:
		usage()
		os.Exit(64)
	}
}

func usage() {
	cyanColor.Println("relox - a tree-walking Lox-family interpreter")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	fmt.Fprintln(os.Stderr, "  relox                         start the interactive REPL")
	fmt.Fprintln(os.Stderr, "  relox <path>                  run a relox source file")
	fmt.Fprintln(os.Stderr, "  relox serve <port>             start a REPL server on <port>")
	fmt.Fprintln(os.Stderr, "  relox -ast-dump ...            print the AST for each top-level expression")
	fmt.Fprintln(os.Stderr, "  relox -token-dump ...          print the token stream")
	fmt.Fprintln(os.Stderr, "  relox -immediate-result-dump   print each top-level result")
}

// runRepl starts an interactive session on stdin/stdout.
func runRepl(display displaySettings) {
	session := repl.New(BANNER, VERSION, LINE, PROMPT)
	session.AstDump = display.astDump
	session.TokenDump = display.tokenDump
	session.ImmediateResult = display.immediateResult
	session.Start(os.Stdin, os.Stdout)
}

// runServer listens on port, handing each accepted connection its own
// REPL session (and thus its own Interpreter/Environment) on a dedicated
// goroutine so no state is shared across clients.
func runServer(port string, display displaySettings) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] Failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	defer listener.Close()
	cyanColor.Printf("relox REPL server listening on :%s\n", port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] Failed to accept connection: %v\n", err)
			continue
		}
		go handleConn(conn, display)
	}
}

func handleConn(conn net.Conn, display displaySettings) {
	defer conn.Close()
	cyanColor.Printf("client connected from %s\n", conn.RemoteAddr())
	session := repl.New(BANNER, VERSION, LINE, PROMPT)
	session.AstDump = display.astDump
	session.TokenDump = display.tokenDump
	session.ImmediateResult = display.immediateResult
	session.Start(conn, conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}

// runFile reads and executes a relox source file to completion. Any
// pipeline error is reported and the process exits 65; success exits 0.
func runFile(path string, display displaySettings) {
	source, err := os.ReadFile(path)
	if err != nil {
		diagErr := diag.New(0, "Could not read file '%s': %v", path, err)
		redColor.Fprintf(os.Stderr, "%s\n", diagErr)
		os.Exit(65)
	}

	tokens, err := lexer.New(string(source)).ScanTokens()
	if err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(65)
	}
	if display.tokenDump {
		for _, t := range tokens {
			if t.Kind != token.COMMENT {
				fmt.Println(t)
			}
		}
	}

	decls, err := parser.New(tokens).Parse()
	if err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(65)
	}
	if display.astDump {
		for _, d := range decls {
			fmt.Println(ast.Print(d))
		}
	}

	machine := interp.New()
	result, err := machine.Run(decls)
	if err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(65)
	}
	if display.immediateResult {
		yellowColor.Printf("%s\n", result.String())
	}
	os.Exit(0)
}
