package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/snowflake-lang/snowflake/internal/diag"
	"github.com/snowflake-lang/snowflake/internal/parser"
)

const (
	historyFile = ".snowflake_history"
	replName    = "<repl>"
	promptCont  = "... "
)

const replHelp = `Enter an expression to see its syntax tree.
Commands:
  :expr :type :pattern :tag :program   switch what is parsed
  :help                                show this text
  :quit                                leave
Indented input continues until an empty line.`

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	mode := fs.String("mode", "expr", "Initial entry point: "+entryNames())
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if _, ok := entries[*mode]; !ok {
		fmt.Fprintf(os.Stderr, "Unknown entry point: %s (want %s)\n", *mode, entryNames())
		return 2
	}

	fmt.Printf("snowflake %s (:help for help)\n", Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	current := *mode
	for {
		src, ok := readByParseProbe(ln, current+"> ", promptCont, entries[current])
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch cmd := strings.ToLower(trimmed[1:]); cmd {
			case "quit", "q":
				return 0
			case "help":
				fmt.Println(replHelp)
			default:
				if _, ok := entries[cmd]; ok {
					current = cmd
					continue
				}
				fmt.Printf("unknown command %s. Type :help for help.\n", trimmed)
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		out, err := parseWith(src, replName, entries[current])
		if err != nil {
			f := diag.NewFormatter(os.Stderr)
			f.AddSource(replName, src)
			report(f, err)
			continue
		}
		fmt.Println(out)
	}
}

// readByParseProbe reads lines until they form a complete parse for run, the
// input turns out to be wrong, or an empty line ends it. An indented last
// line keeps the input open so blocks can grow.
func readByParseProbe(ln *liner.State, prompt, cont string, run entry) (string, bool) {
	var lines []string

	for {
		p := prompt
		if len(lines) > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			slog.Warn("reading input failed", "error", err)
			return "", false
		}

		if len(lines) > 0 && strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)

		if len(lines) == 1 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}

		if len(lines) > 1 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			continue
		}

		src := strings.Join(lines, "\n")
		if _, err := parseWith(src, replName, run); err != nil && incomplete(err) {
			continue
		}
		return src, true
	}
}

func incomplete(err error) bool {
	var perr *parser.ParseError
	return errors.As(err, &perr) && perr.Incomplete()
}
