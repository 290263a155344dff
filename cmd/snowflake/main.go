package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/snowflake-lang/snowflake/internal/parser"
)

const maxDepthEnv = "SNOWFLAKE_MAX_DEPTH"

var (
	// Version is overridden at build time with -ldflags "-X main.Version=...".
	Version = "dev"

	showVersion bool
	logLevel    string
	logFile     string
	maxDepth    int
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information and exit")
	flag.StringVar(&logLevel, "log-level", "none", "Log level: debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	flag.IntVar(&maxDepth, "max-depth", 0, "Maximum grammar nesting depth (default "+strconv.Itoa(parser.DefaultMaxDepth)+", or $"+maxDepthEnv+")")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: snowflake [options] <command> [args]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  tokens <file|->             Print the token stream after layout\n")
		fmt.Fprintf(os.Stderr, "  parse [-entry E] <file|->   Print the syntax tree as S-expressions\n")
		fmt.Fprintf(os.Stderr, "  check <file>...             Report syntax errors, exit 1 on failure\n")
		fmt.Fprintf(os.Stderr, "  repl [-mode E]              Parse expressions interactively\n")
		fmt.Fprintf(os.Stderr, "  lsp                         Serve the language server protocol on stdio\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	closeLog := configureLogging()

	if showVersion {
		fmt.Printf("snowflake %s\n", Version)
		closeLog()
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		closeLog()
		os.Exit(2)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	slog.Debug("starting", "command", command, "args", args)

	var code int
	switch command {
	case "tokens":
		code = runTokens(args)
	case "parse":
		code = runParse(args)
	case "check":
		code = runCheck(args)
	case "repl":
		code = runRepl(args)
	case "lsp":
		code = runLsp(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		code = 2
	}

	closeLog()
	os.Exit(code)
}

// configureLogging installs the default slog logger. Logging is off unless
// -log-level asks for it.
func configureLogging() func() {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", logFile, err)
		} else {
			w = f
			closeFn = func() { _ = f.Close() }
		}
	}

	level, enabled := logLevelFromString(logLevel)
	if !enabled {
		w = io.Discard
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return closeFn
}

func logLevelFromString(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelError, false
	}
}

// resolveMaxDepth picks the depth limit: the flag wins, then the environment.
func resolveMaxDepth() int {
	if maxDepth > 0 {
		return maxDepth
	}
	raw := os.Getenv(maxDepthEnv)
	if raw == "" {
		return parser.DefaultMaxDepth
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		slog.Warn("ignoring invalid depth limit", "env", maxDepthEnv, "value", raw)
		return parser.DefaultMaxDepth
	}
	return n
}

func parserOptions(filename string) []parser.Option {
	return []parser.Option{
		parser.WithFilename(filename),
		parser.WithMaxDepth(resolveMaxDepth()),
		parser.WithLogger(slog.Default()),
	}
}
