package lexer

import (
	"fmt"
	"math/big"
)

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // rune offset of the first character
	End      int    // exclusive end offset (runes)
}

// String renders the span as file:line:col, omitting the file when unknown.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Token represents a lexical token.
//
// Literal is the exact source text. Value carries the decoded text of string
// literals and identifiers; Int and Float carry numeric payloads for INT and
// FLOAT tokens respectively.
type Token struct {
	Type    TokenType
	Literal string
	Value   string
	Int     *big.Int
	Float   float64
	Span    Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // add, foobar, x, y, ...
	INT    TokenType = "INT"    // 1343456
	FLOAT  TokenType = "FLOAT"  // 3.14, 1e9
	STRING TokenType = "STRING" // "hello"

	// Operators
	ASSIGN     TokenType = "="
	PLUS       TokenType = "+"
	MINUS      TokenType = "-"
	ASTERISK   TokenType = "*"
	POWER      TokenType = "**"
	SLASH      TokenType = "/"
	CARET      TokenType = "^"
	LT         TokenType = "<"
	GT         TokenType = ">"
	FATARROW   TokenType = "=>"
	ARROW      TokenType = "->"
	DOTDOT     TokenType = ".."
	UNDERSCORE TokenType = "_"

	// Delimiters
	COMMA        TokenType = ","
	SEMICOLON    TokenType = ";"
	DOUBLE_COLON TokenType = "::"
	HASH_LBRACE  TokenType = "#{"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	MATCH TokenType = "MATCH"
	LET   TokenType = "LET"
	IN    TokenType = "IN"
	TAG   TokenType = "TAG"

	// Layout tokens
	NEWLINE TokenType = "NEWLINE"
	INDENT  TokenType = "INDENT"
	DEDENT  TokenType = "DEDENT"

	// Trivia: leading whitespace of a line, consumed by Layout.
	WHITESPACE TokenType = "WHITESPACE"
)

var keywords = map[string]TokenType{
	"match": MATCH,
	"let":   LET,
	"in":    IN,
	"tag":   TAG,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident == "_" {
		return UNDERSCORE
	}
	return IDENT
}

// IsLayout reports whether tt is one of the structural tokens produced by Layout.
func (tt TokenType) IsLayout() bool {
	switch tt {
	case NEWLINE, INDENT, DEDENT:
		return true
	default:
		return false
	}
}

// Describe returns a human readable name of the token type for diagnostics.
func (tt TokenType) Describe() string {
	switch tt {
	case IDENT:
		return "identifier"
	case INT:
		return "integer literal"
	case FLOAT:
		return "float literal"
	case STRING:
		return "string literal"
	case NEWLINE:
		return "line terminator"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	case EOF:
		return "end of input"
	case MATCH, LET, IN, TAG:
		for word, kw := range keywords {
			if kw == tt {
				return "`" + word + "`"
			}
		}
	}
	return "`" + string(tt) + "`"
}
