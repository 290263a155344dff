package lexer

import (
	"strings"
	"testing"
)

func tokenTypes(t *testing.T, src string) string {
	t.Helper()

	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected tokenize error: %v", err)
	}

	names := make([]string, len(toks))
	for i, tok := range toks {
		if tok.Type == IDENT || tok.Type == INT {
			names[i] = tok.Literal
			continue
		}
		names[i] = string(tok.Type)
	}
	return strings.Join(names, " ")
}

func TestLayoutIndentAndDedent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "flat",
			src:  "a\nb\n",
			want: "a NEWLINE b NEWLINE EOF",
		},
		{
			name: "missing final newline",
			src:  "a",
			want: "a NEWLINE EOF",
		},
		{
			name: "one level",
			src:  "f =>\n  x\n  y\ng\n",
			want: "f => NEWLINE INDENT x NEWLINE y NEWLINE DEDENT g NEWLINE EOF",
		},
		{
			name: "close several levels at once",
			src:  "a\n  b\n    c\nd\n",
			want: "a NEWLINE INDENT b NEWLINE INDENT c NEWLINE DEDENT DEDENT d NEWLINE EOF",
		},
		{
			name: "close at end of input",
			src:  "a\n  b\n    c",
			want: "a NEWLINE INDENT b NEWLINE INDENT c NEWLINE DEDENT DEDENT EOF",
		},
		{
			name: "blank and comment lines keep the level",
			src:  "a\n  b\n\n      \n// note\n  c\n",
			want: "a NEWLINE INDENT b NEWLINE NEWLINE NEWLINE NEWLINE c NEWLINE DEDENT EOF",
		},
		{
			name: "tabs",
			src:  "a\n\tb\n\t\tc\n\td\n",
			want: "a NEWLINE INDENT b NEWLINE INDENT c NEWLINE DEDENT d NEWLINE DEDENT EOF",
		},
		{
			name: "empty input",
			src:  "",
			want: "EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenTypes(t, tt.src); got != tt.want {
				t.Fatalf("expected\n%s\ngot\n%s", tt.want, got)
			}
		})
	}
}

func TestLayoutIsBalanced(t *testing.T) {
	src := "a\n  b\n    c\n      d\n  e\n    f\n"

	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected tokenize error: %v", err)
	}

	depth := 0
	for _, tok := range toks {
		switch tok.Type {
		case INDENT:
			depth++
		case DEDENT:
			depth--
		}
		if depth < 0 {
			t.Fatalf("dedent without indent at %s", tok.Span)
		}
	}
	if depth != 0 {
		t.Fatalf("expected balanced layout, got depth %d", depth)
	}
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("expected trailing EOF, got %s", toks[len(toks)-1].Type)
	}
}

func TestLayoutIndentSpan(t *testing.T) {
	toks, err := Tokenize("f =>\n    x\n", WithFilename("b.sf"))
	if err != nil {
		t.Fatalf("unexpected tokenize error: %v", err)
	}

	for _, tok := range toks {
		if tok.Type != INDENT {
			continue
		}
		want := Span{Filename: "b.sf", Line: 2, Column: 1, Start: 5, End: 9}
		if tok.Span != want {
			t.Fatalf("expected indent span %+v, got %+v", want, tok.Span)
		}
		if tok.Literal != "    " {
			t.Fatalf("expected indent literal of four spaces, got %q", tok.Literal)
		}
		return
	}
	t.Fatalf("expected an INDENT token")
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		line    int
	}{
		{
			name:    "indented first line",
			src:     "  a\n",
			message: "unexpected indentation on the first line",
			line:    1,
		},
		{
			name:    "unmatched dedent",
			src:     "a\n    b\n  c\n",
			message: "unindent does not match any outer indentation level",
			line:    3,
		},
		{
			name:    "mixed tabs and spaces",
			src:     "a\n\tb\n  c\n",
			message: "unindent does not match any outer indentation level",
			line:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			if err == nil {
				t.Fatalf("expected an error")
			}
			lerr, ok := err.(*LexerError)
			if !ok {
				t.Fatalf("expected *LexerError, got %T", err)
			}
			if lerr.Kind != ErrInvalidIndent {
				t.Fatalf("expected ErrInvalidIndent, got %d", lerr.Kind)
			}
			if lerr.Message != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, lerr.Message)
			}
			if lerr.Span.Line != tt.line {
				t.Fatalf("expected error on line %d, got %d", tt.line, lerr.Span.Line)
			}
		})
	}
}
