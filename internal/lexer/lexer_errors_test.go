package lexer

import (
	"testing"

	"github.com/snowflake-lang/snowflake/internal/diag"
)

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    LexerErrorKind
		message string
		column  int
	}{
		{"unterminated string", `x "abc`, ErrUnterminatedString, "unterminated string literal", 3},
		{"newline in string", "x \"ab\ncd\"", ErrUnterminatedString, "newline in string literal", 3},
		{"illegal rune", "a @ b", ErrIllegalRune, `illegal character "@"`, 3},
		{"lone colon", "a : b", ErrIllegalRune, `illegal character ":"`, 3},
		{"lone dot", "a.b", ErrIllegalRune, `illegal character "."`, 2},
		{"lone hash", "#a", ErrIllegalRune, `illegal character "#"`, 1},
		{"empty hex", "0x", ErrMalformedNumber, `malformed integer literal "0x"`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("expected an error")
			}
			lerr, ok := err.(*LexerError)
			if !ok {
				t.Fatalf("expected *LexerError, got %T", err)
			}
			if lerr.Kind != tt.kind {
				t.Fatalf("expected kind %d, got %d", tt.kind, lerr.Kind)
			}
			if lerr.Message != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, lerr.Message)
			}
			if lerr.Span.Column != tt.column {
				t.Fatalf("expected column %d, got %d", tt.column, lerr.Span.Column)
			}
		})
	}
}

func TestLexerErrorCarriesFilename(t *testing.T) {
	_, err := Tokenize("a\n  b @", WithFilename("bad.sf"))
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := err.Error(); got != `bad.sf:2:5: illegal character "@"` {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestLexerError_ToDiagnostic(t *testing.T) {
	err := LexerError{
		Kind:    ErrIllegalRune,
		Message: `illegal character "@"`,
		Span: Span{
			Line:   2,
			Column: 5,
			Start:  4,
			End:    5,
		},
	}

	diagnostic := err.ToDiagnostic()

	if diagnostic.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, diagnostic.Stage)
	}
	if diagnostic.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, diagnostic.Severity)
	}
	if diagnostic.Code != diag.CodeLexerIllegalRune {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerIllegalRune, diagnostic.Code)
	}
	if diagnostic.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, diagnostic.Message)
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

func TestLexerErrorKindsMapToCodes(t *testing.T) {
	tests := map[LexerErrorKind]diag.Code{
		ErrUnterminatedString: diag.CodeLexerUnterminatedString,
		ErrIllegalRune:        diag.CodeLexerIllegalRune,
		ErrMalformedNumber:    diag.CodeLexerMalformedNumber,
		ErrInvalidIndent:      diag.CodeLexerInvalidIndent,
	}
	for kind, want := range tests {
		if got := (LexerError{Kind: kind}).ToDiagnostic().Code; got != want {
			t.Fatalf("kind %d: expected %s, got %s", kind, want, got)
		}
	}
}
