package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/snowflake-lang/snowflake/internal/lsp"
)

// runLsp serves the language server protocol on stdin and stdout. Logging
// must not touch stdout, so -log-file is the usual companion flag.
func runLsp(args []string) int {
	fs := flag.NewFlagSet("lsp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := lsp.NewServer(
		lsp.WithLogger(slog.Default()),
		lsp.WithMaxDepth(resolveMaxDepth()),
		lsp.WithVersion(Version),
	)
	slog.Info("language server starting", "version", Version)

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}
