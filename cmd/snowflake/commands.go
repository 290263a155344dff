package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/diag"
	"github.com/snowflake-lang/snowflake/internal/lexer"
	"github.com/snowflake-lang/snowflake/internal/parser"
)

const stdinName = "<stdin>"

// entry runs one parser entry point and renders its result.
type entry func(p *parser.Parser) (string, error)

func render[T ast.Node](parse func() (T, error)) (string, error) {
	node, err := parse()
	if err != nil {
		return "", err
	}
	return ast.Sexpr(node), nil
}

var entries = map[string]entry{
	"program": func(p *parser.Parser) (string, error) {
		stmts, err := p.ParseProgram()
		if err != nil {
			return "", err
		}
		return ast.FormatProgram(stmts), nil
	},
	"stmt":    func(p *parser.Parser) (string, error) { return render(p.ParseStatement) },
	"expr":    func(p *parser.Parser) (string, error) { return render(p.ParseExpression) },
	"type":    func(p *parser.Parser) (string, error) { return render(p.ParseType) },
	"match":   func(p *parser.Parser) (string, error) { return render(p.ParseMatch) },
	"pattern": func(p *parser.Parser) (string, error) { return render(p.ParsePattern) },
	"tag":     func(p *parser.Parser) (string, error) { return render(p.ParseTag) },
	"tagdecl": func(p *parser.Parser) (string, error) { return render(p.ParseTagDecl) },
}

func entryNames() string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// readSource loads path, or standard input for "-".
func readSource(path string) (src, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", errors.Wrap(err, "reading standard input")
		}
		return string(data), stdinName, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), path, nil
}

// report prints err as a diagnostic with a source snippet when it came from
// the lexer or parser, and as plain text otherwise.
func report(f *diag.Formatter, err error) {
	if d, ok := parser.Diagnostic(err); ok {
		f.Format(d)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func runTokens(args []string) int {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: snowflake tokens <file|->\n")
		return 2
	}

	src, name, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	f := diag.NewFormatter(os.Stderr)
	f.AddSource(name, src)

	toks, err := lexer.Tokenize(src, lexer.WithFilename(name))
	if err != nil {
		report(f, err)
		return 1
	}

	for _, tok := range toks {
		switch tok.Type {
		case lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.STRING:
			fmt.Printf("%d:%d\t%s\t%s\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Literal)
		default:
			fmt.Printf("%d:%d\t%s\n", tok.Span.Line, tok.Span.Column, tok.Type)
		}
	}
	return 0
}

func runParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	entryName := fs.String("entry", "program", "Grammar entry point: "+entryNames())
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: snowflake parse [-entry %s] <file|->\n", entryNames())
		return 2
	}

	run, ok := entries[*entryName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown entry point: %s (want %s)\n", *entryName, entryNames())
		return 2
	}

	src, name, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	f := diag.NewFormatter(os.Stderr)
	f.AddSource(name, src)

	out, err := parseWith(src, name, run)
	if err != nil {
		report(f, err)
		return 1
	}
	fmt.Println(out)
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	quiet := fs.Bool("q", false, "Only set the exit status, print nothing")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: snowflake check [-q] <file>...\n")
		return 2
	}

	out := io.Writer(os.Stderr)
	if *quiet {
		out = io.Discard
	}
	f := diag.NewFormatter(out)

	failed := 0
	for _, path := range fs.Args() {
		src, name, err := readSource(path)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			failed++
			continue
		}
		f.AddSource(name, src)

		if _, err := parseWith(src, name, entries["program"]); err != nil {
			slog.Info("check failed", "file", name, "error", err)
			if d, ok := parser.Diagnostic(err); ok {
				f.Format(d)
			} else {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			failed++
			continue
		}
		slog.Info("check passed", "file", name)
	}

	if failed > 0 {
		fmt.Fprintf(out, "%d of %d file(s) failed\n", failed, fs.NArg())
		return 1
	}
	return 0
}

func parseWith(src, name string, run entry) (string, error) {
	p, err := parser.NewFromSource(src, parserOptions(name)...)
	if err != nil {
		return "", err
	}
	return run(p)
}
