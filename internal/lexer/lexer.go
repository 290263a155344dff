package lexer

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/snowflake-lang/snowflake/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrIllegalRune
	ErrMalformedNumber
	ErrInvalidIndent
)

// LexerError is a lexical or layout failure. The parser never repairs these;
// they are handed to the caller as-is.
type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

// Error implements the error interface.
func (e *LexerError) Error() string {
	return e.Span.String() + ": " + e.Message
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrMalformedNumber:
		return diag.CodeLexerMalformedNumber
	case ErrInvalidIndent:
		return diag.CodeLexerInvalidIndent
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer scans snowflake source into raw tokens. Leading whitespace of every
// line is reported as a WHITESPACE token and every line end as NEWLINE; the
// Layout pass turns those into INDENT/DEDENT markers.
type Lexer struct {
	input       []rune
	pos         int  // index of the current rune
	ch          rune // current rune (0 = EOF)
	line        int  // current line number (1-based)
	column      int  // current column number (1-based)
	atLineStart bool
	filename    string

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:       []rune(input),
		pos:         -1, // start before first rune
		line:        1,
		atLineStart: true,
	}
	l.read()
	return l
}

// SetFilename attributes every emitted span to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// read advances the lexer to the next character. line/column always reflect
// the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}

	switch {
	case prevPos < 0:
		l.column = 1
	case prevPos >= inputLen:
		// Already at EOF; the position stays put.
	case l.endsLine(prevPos):
		l.line++
		l.column = 1
	default:
		l.column++
	}
}

// endsLine reports whether the rune at i finishes a line: '\n', or a '\r'
// that is not the first half of "\r\n".
func (l *Lexer) endsLine(i int) bool {
	switch l.input[i] {
	case '\n':
		return true
	case '\r':
		return i+1 >= len(l.input) || l.input[i+1] != '\n'
	}
	return false
}

func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos, endPos int, literal, value string) Token {
	return Token{
		Type:    tokType,
		Literal: literal,
		Value:   value,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

// single emits a one-rune token for the current character.
func (l *Lexer) single(tokType TokenType) Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	raw := string(l.ch)
	l.read()
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, raw)
}

// pair emits a two-rune token, consuming the current and the next character.
func (l *Lexer) pair(tokType TokenType) Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	raw := string(l.ch) + string(l.peek())
	l.read()
	l.read()
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, raw)
}

// skipWhitespace consumes blanks. At the start of a line the blanks are
// returned as a WHITESPACE token so the layout pass can measure them.
func (l *Lexer) skipWhitespace() *Token {
	if !l.atLineStart {
		for l.ch == ' ' || l.ch == '\t' {
			l.read()
		}
		return nil
	}

	l.atLineStart = false
	if l.ch != ' ' && l.ch != '\t' {
		return nil
	}

	startLine, startColumn, startPos := l.currentSpanStart()
	for l.ch == ' ' || l.ch == '\t' {
		l.read()
	}
	raw := string(l.input[startPos:l.pos])
	tok := l.makeToken(WHITESPACE, startLine, startColumn, startPos, l.pos, raw, raw)
	return &tok
}

func (l *Lexer) readNewline() Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	raw := string(l.ch)
	l.read()
	if raw == "\r" && l.ch == '\n' {
		raw = "\r\n"
		l.read()
	}
	l.atLineStart = true
	return l.makeToken(NEWLINE, startLine, startColumn, startPos, l.pos, raw, raw)
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.read()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads a number literal (decimal, hex 0x..., binary 0b..., float)
func (l *Lexer) readNumber() (string, TokenType) {
	start := l.pos
	l.read()

	if start == l.pos-1 && l.input[start] == '0' {
		switch l.ch {
		case 'x', 'X':
			l.read()
			for isHexDigit(l.ch) || l.ch == '_' {
				l.read()
			}
			return string(l.input[start:l.pos]), INT
		case 'b', 'B':
			l.read()
			for l.ch == '0' || l.ch == '1' || l.ch == '_' {
				l.read()
			}
			return string(l.input[start:l.pos]), INT
		}
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.read()
	}

	tokType := INT

	// A dot only starts a fraction when a digit follows, so 1..5 stays a range.
	if l.ch == '.' && isDigit(l.peek()) {
		tokType = FLOAT
		l.read()
		for isDigit(l.ch) || l.ch == '_' {
			l.read()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peek()
		if isDigit(next) || next == '+' || next == '-' {
			tokType = FLOAT
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
	}

	return string(l.input[start:l.pos]), tokType
}

// numberToken decodes the numeric payload of a scanned literal.
func (l *Lexer) numberToken(startLine, startColumn, startPos int, literal string, tokType TokenType) Token {
	tok := l.makeToken(tokType, startLine, startColumn, startPos, l.pos, literal, literal)

	if tokType == FLOAT {
		f, err := strconv.ParseFloat(strings.ReplaceAll(literal, "_", ""), 64)
		if err != nil {
			tok.Type = ILLEGAL
			l.addError(ErrMalformedNumber, "malformed float literal "+strconv.Quote(literal), tok.Span)
			return tok
		}
		tok.Float = f
		return tok
	}

	n, ok := ParseInt(literal)
	if !ok {
		tok.Type = ILLEGAL
		l.addError(ErrMalformedNumber, "malformed integer literal "+strconv.Quote(literal), tok.Span)
		return tok
	}
	tok.Int = n
	return tok
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		if ws := l.skipWhitespace(); ws != nil {
			return *ws
		}

		switch l.ch {
		case 0:
			startLine, startColumn, startPos := l.currentSpanStart()
			return l.makeToken(EOF, startLine, startColumn, startPos, startPos, "", "")

		case '\n', '\r':
			return l.readNewline()

		case '=':
			if l.peek() == '>' {
				return l.pair(FATARROW)
			}
			return l.single(ASSIGN)

		case '-':
			if l.peek() == '>' {
				return l.pair(ARROW)
			}
			return l.single(MINUS)

		case '*':
			if l.peek() == '*' {
				return l.pair(POWER)
			}
			return l.single(ASTERISK)

		case '/':
			if l.peek() == '/' {
				l.skipLineComment()
				continue
			}
			return l.single(SLASH)

		case '.':
			if l.peek() == '.' {
				return l.pair(DOTDOT)
			}
			return l.illegal()

		case ':':
			if l.peek() == ':' {
				return l.pair(DOUBLE_COLON)
			}
			return l.illegal()

		case '#':
			if l.peek() == '{' {
				return l.pair(HASH_LBRACE)
			}
			return l.illegal()

		case '+':
			return l.single(PLUS)
		case '^':
			return l.single(CARET)
		case '<':
			return l.single(LT)
		case '>':
			return l.single(GT)
		case ',':
			return l.single(COMMA)
		case ';':
			return l.single(SEMICOLON)
		case '(':
			return l.single(LPAREN)
		case ')':
			return l.single(RPAREN)
		case '{':
			return l.single(LBRACE)
		case '}':
			return l.single(RBRACE)
		case '[':
			return l.single(LBRACKET)
		case ']':
			return l.single(RBRACKET)

		case '"':
			startLine, startColumn, startPos := l.currentSpanStart()
			raw, value, terminated := l.readString(startLine, startColumn, startPos)
			if !terminated {
				return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
			}
			return l.makeToken(STRING, startLine, startColumn, startPos, l.pos, raw, value)

		default:
			if isLetter(l.ch) {
				startLine, startColumn, startPos := l.currentSpanStart()
				literal := l.readIdentifier()
				return l.makeToken(LookupIdent(literal), startLine, startColumn, startPos, l.pos, literal, literal)
			}
			if isDigit(l.ch) {
				startLine, startColumn, startPos := l.currentSpanStart()
				literal, tokType := l.readNumber()
				return l.numberToken(startLine, startColumn, startPos, literal, tokType)
			}
			return l.illegal()
		}
	}
}

// ParseInt decodes an integer literal as written in source: decimal, 0x hex
// or 0b binary, with optional '_' separators. A leading zero never means octal.
func ParseInt(literal string) (*big.Int, bool) {
	digits := strings.ReplaceAll(literal, "_", "")
	base := 10
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base, digits = 16, digits[2:]
		case 'b', 'B':
			base, digits = 2, digits[2:]
		}
	}
	if digits == "" {
		return nil, false
	}
	return new(big.Int).SetString(digits, base)
}

func (l *Lexer) illegal() Token {
	tok := l.single(ILLEGAL)
	l.addError(ErrIllegalRune, "illegal character "+strconv.Quote(tok.Literal), tok.Span)
	return tok
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

// readString reads a string literal, handling escape sequences.
// Returns both raw (with escapes) and decoded (without escapes) values,
// along with a flag indicating whether the string was properly terminated.
func (l *Lexer) readString(startLine, startColumn, startPos int) (raw string, value string, terminated bool) {
	var rawRunes []rune
	var decodedRunes []rune

	rawRunes = append(rawRunes, '"')
	l.read()

	for {
		if l.ch == 0 {
			l.addError(
				ErrUnterminatedString,
				"unterminated string literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			break
		}
		if l.ch == '"' {
			rawRunes = append(rawRunes, '"')
			l.read()
			return string(rawRunes), string(decodedRunes), true
		}
		if l.ch == '\n' || l.ch == '\r' {
			l.addError(
				ErrUnterminatedString,
				"newline in string literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			break
		}
		if l.ch == '\\' {
			rawRunes = append(rawRunes, '\\')
			l.read()
			if l.ch != 0 {
				rawRunes = append(rawRunes, l.ch)
				switch l.ch {
				case 'n':
					decodedRunes = append(decodedRunes, '\n')
				case 't':
					decodedRunes = append(decodedRunes, '\t')
				case 'r':
					decodedRunes = append(decodedRunes, '\r')
				case '\\':
					decodedRunes = append(decodedRunes, '\\')
				case '"':
					decodedRunes = append(decodedRunes, '"')
				default:
					decodedRunes = append(decodedRunes, '\\', l.ch)
				}
				l.read()
			}
			continue
		}
		rawRunes = append(rawRunes, l.ch)
		decodedRunes = append(decodedRunes, l.ch)
		l.read()
	}

	return string(rawRunes), string(decodedRunes), false
}
