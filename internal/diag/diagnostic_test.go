package diag_test

import (
	"testing"

	"github.com/snowflake-lang/snowflake/internal/diag"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

func TestFromLexerError(t *testing.T) {
	err := lexer.LexerError{
		Kind:    lexer.ErrUnterminatedString,
		Message: "unterminated string literal",
		Span: lexer.Span{
			Line:   1,
			Column: 3,
			Start:  2,
			End:    6,
		},
	}

	diagnostic := err.ToDiagnostic()

	if diagnostic.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, diagnostic.Stage)
	}
	if diagnostic.Code != diag.CodeLexerUnterminatedString {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerUnterminatedString, diagnostic.Code)
	}
	if diagnostic.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, diagnostic.Message)
	}
	if diagnostic.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, diagnostic.Severity)
	}

	wantSpan := diag.Span{
		Line:   err.Span.Line,
		Column: err.Span.Column,
		Start:  err.Span.Start,
		End:    err.Span.End,
	}
	if diagnostic.Span != wantSpan {
		t.Fatalf("expected span %+v, got %+v", wantSpan, diagnostic.Span)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := diag.Diagnostic{
		Message: "expected `)`",
		Span:    diag.Span{Filename: "a.sf", Line: 3, Column: 7},
	}
	if got := d.Error(); got != "a.sf:3:7: expected `)`" {
		t.Fatalf("unexpected error text %q", got)
	}

	d.Span = diag.Span{}
	if got := d.Error(); got != "expected `)`" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestBuilderMethodsDoNotAlias(t *testing.T) {
	base := diag.Diagnostic{Message: "m"}.WithNote("first")
	a := base.WithNote("a").WithPrimarySpan(diag.Span{Line: 1, Column: 1}, "")
	b := base.WithHelp("h").WithSecondarySpan(diag.Span{Line: 2, Column: 1}, "here")

	if len(base.Notes) != 1 || len(base.LabeledSpans) != 0 {
		t.Fatalf("expected base to be unchanged, got %+v", base)
	}
	if len(a.Notes) != 2 || a.LabeledSpans[0].Style != diag.StylePrimary {
		t.Fatalf("unexpected diagnostic %+v", a)
	}
	if b.Help != "h" || b.LabeledSpans[0].Style != diag.StyleSecondary || b.LabeledSpans[0].Label != "here" {
		t.Fatalf("unexpected diagnostic %+v", b)
	}
}
