package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/snowflake-lang/snowflake/internal/diag"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// ParseError is the first syntax error of a parse. Expected lists the token
// kinds that would have been accepted at Span, when that set is known.
type ParseError struct {
	Code     diag.Code
	Message  string
	Span     lexer.Span
	Found    lexer.Token
	Expected []lexer.TokenType
	Help     string

	// Related points at an earlier token involved in the failure, such as
	// the INDENT of a block that never closed.
	Related      *lexer.Span
	RelatedLabel string

	atEnd bool
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Span.String() + ": " + e.Message
}

// Offset returns the rune offset of the offending token, counted from the
// start of the input like every Span.
func (e *ParseError) Offset() int {
	return e.Span.Start
}

// Incomplete reports whether parsing ran out of input: the failure happened
// where only line breaks and the end of input were left, so more text could
// still turn the input into a valid parse.
func (e *ParseError) Incomplete() bool {
	return e.Found.Type == lexer.EOF || e.atEnd
}

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *ParseError) ToDiagnostic() diag.Diagnostic {
	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     e.Code,
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
		Help:     e.Help,
	}
	d = d.WithPrimarySpan(d.Span, "")
	if e.Related != nil {
		d = d.WithSecondarySpan(toDiagSpan(*e.Related), e.RelatedLabel)
	}
	if len(e.Expected) > 1 {
		d = d.WithNote("expected one of " + describeAll(e.Expected))
	}
	return d
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Diagnostic extracts a diagnostic from an error returned by this package,
// looking through wrapping added with github.com/pkg/errors.
func Diagnostic(err error) (diag.Diagnostic, bool) {
	switch e := errors.Cause(err).(type) {
	case *ParseError:
		return e.ToDiagnostic(), true
	case *lexer.LexerError:
		return e.ToDiagnostic(), true
	default:
		return diag.Diagnostic{}, false
	}
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

// fail records err unless an earlier error is pending.
func (p *Parser) fail(err *ParseError) {
	if p.err != nil {
		return
	}
	err.Span = p.spanWithFilename(err.Span)
	if err.Related != nil {
		related := p.spanWithFilename(*err.Related)
		err.Related = &related
	}
	if err.Code == "" {
		err.Code = diag.CodeParseUnexpectedToken
	}
	err.atEnd = p.onlyLayoutLeft()
	p.err = err
}

func (p *Parser) onlyLayoutLeft() bool {
	for _, tok := range p.tokens[p.pos:] {
		if tok.Type != lexer.EOF && !tok.Type.IsLayout() {
			return false
		}
	}
	return true
}

// reportError reports a simple error at the current token.
func (p *Parser) reportError(msg string) {
	tok := p.cur()
	p.fail(&ParseError{Message: msg, Span: tok.Span, Found: tok})
}

// reportExpected reports that none of the expected token kinds is at the cursor.
func (p *Parser) reportExpected(expected ...lexer.TokenType) {
	p.reportExpectedAt(p.cur(), expected...)
}

func (p *Parser) reportExpectedAt(found lexer.Token, expected ...lexer.TokenType) {
	p.fail(&ParseError{
		Message:  fmt.Sprintf("expected %s, found %s", describeAll(expected), describeToken(found)),
		Span:     found.Span,
		Found:    found,
		Expected: expected,
	})
}

// reportExpectedWhat is reportExpected with a grammar-level name ("expression",
// "pattern") instead of a token list in the message.
func (p *Parser) reportExpectedWhat(what string, expected ...lexer.TokenType) {
	found := p.cur()
	p.fail(&ParseError{
		Message:  fmt.Sprintf("expected %s, found %s", what, describeToken(found)),
		Span:     found.Span,
		Found:    found,
		Expected: expected,
	})
}

const callHelp = "a function call is only allowed as a whole expression; wrap it in parentheses to use it as an operand or argument"

func (p *Parser) reportMissingTerminator() {
	found := p.cur()
	err := &ParseError{
		Message:  fmt.Sprintf("expected line terminator, found %s", describeToken(found)),
		Span:     found.Span,
		Found:    found,
		Expected: []lexer.TokenType{lexer.NEWLINE, lexer.SEMICOLON},
	}
	if isSubExprStart(found.Type) {
		err.Help = callHelp
	}
	p.fail(err)
}

func (p *Parser) reportUnclosedBlock(indent lexer.Token) {
	found := p.cur()
	p.fail(&ParseError{
		Code:         diag.CodeParseUnbalancedBlock,
		Message:      fmt.Sprintf("expected dedent to close indented block, found %s", describeToken(found)),
		Span:         found.Span,
		Found:        found,
		Expected:     []lexer.TokenType{lexer.DEDENT},
		Related:      &indent.Span,
		RelatedLabel: "block opened here",
	})
}

func (p *Parser) reportNestingTooDeep() {
	found := p.cur()
	p.fail(&ParseError{
		Code:    diag.CodeParseNestingTooDeep,
		Message: fmt.Sprintf("nesting exceeds the maximum depth of %d", p.maxDepth),
		Span:    found.Span,
		Found:   found,
	})
}

func (p *Parser) reportTrailingInput(what string) {
	found := p.cur()
	err := &ParseError{
		Code:     diag.CodeParseTrailingInput,
		Message:  fmt.Sprintf("unexpected %s after %s", describeToken(found), what),
		Span:     found.Span,
		Found:    found,
		Expected: []lexer.TokenType{lexer.EOF},
	}
	if isSubExprStart(found.Type) {
		err.Help = callHelp
	}
	p.fail(err)
}

func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.STRING:
		return fmt.Sprintf("%s `%s`", tok.Type.Describe(), tok.Literal)
	default:
		return tok.Type.Describe()
	}
}

func describeAll(types []lexer.TokenType) string {
	names := make([]string, len(types))
	for i, tt := range types {
		names[i] = tt.Describe()
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
