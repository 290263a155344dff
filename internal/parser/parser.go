package parser

import (
	"io"
	"log/slog"

	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// DefaultMaxDepth bounds grammar nesting (parentheses, nested blocks, nested
// types and tags) when no WithMaxDepth option is given.
const DefaultMaxDepth = 200

type Option func(*options)

type options struct {
	filename string
	maxDepth int
	logger   *slog.Logger
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithLogger routes parser debug logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolveOptions(opts []Option) options {
	cfg := options{
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Parser is a recursive descent parser over a laid-out token sequence.
//
// Invariants:
//   - Cursor: tokens always ends with EOF and pos never moves past it, so cur
//     is always defined. The cursor is the only mutable parsing state; trial
//     parses rewind it with mark/reset.
//   - Errors: err holds the first syntax error. Once it is set every
//     production returns nil and the entry point reports err. Nothing is
//     accumulated after the first failure.
//   - Depth: depth counts the productions currently on the call stack that
//     can nest without consuming a closing token; enter refuses to go beyond
//     maxDepth.
type Parser struct {
	tokens []lexer.Token
	pos    int

	err      *ParseError
	depth    int
	maxDepth int

	filename string
	logger   *slog.Logger
}

// New returns a parser over tokens. The sequence is expected to come from
// lexer.Tokenize or an equivalent source with balanced INDENT/DEDENT; an EOF
// token is appended when missing.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	cfg := resolveOptions(opts)

	if n := len(tokens); n == 0 || tokens[n-1].Type != lexer.EOF {
		var at lexer.Span
		if n > 0 {
			at = tokens[n-1].Span
			at.Start = at.End
			at.Column += at.End - tokens[n-1].Span.Start
		}
		tokens = append(tokens[:n:n], lexer.Token{Type: lexer.EOF, Span: at})
	}

	return &Parser{
		tokens:   tokens,
		maxDepth: cfg.maxDepth,
		filename: cfg.filename,
		logger:   cfg.logger,
	}
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

// peekAt returns the token n positions after the cursor, or the trailing EOF.
func (p *Parser) peekAt(n int) lexer.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// prev returns the most recently consumed token.
func (p *Parser) prev() (lexer.Token, bool) {
	if p.pos == 0 {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos-1], true
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

// advance consumes the current token and returns it.
func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

// expect consumes the current token when it has type tt and reports a syntax
// error otherwise.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.reportExpected(tt)
	return lexer.Token{}, false
}

func (p *Parser) failed() bool {
	return p.err != nil
}

// mark and reset implement ordered alternative trial. reset drops the error
// of the abandoned alternative, so it may only rewind to a mark taken while
// no error was pending.
func (p *Parser) mark() int {
	return p.pos
}

func (p *Parser) reset(m int) {
	p.pos = m
	p.err = nil
}

// enter guards recursion depth. Every successful enter must be paired with
// a deferred leave.
func (p *Parser) enter() bool {
	if p.depth >= p.maxDepth {
		p.reportNestingTooDeep()
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func isTerminator(tt lexer.TokenType) bool {
	return tt == lexer.NEWLINE || tt == lexer.SEMICOLON
}

// terminated reports whether the last consumed token already ended a line,
// which is the case for constructs closed by an inline or indented block.
func (p *Parser) terminated() bool {
	tok, ok := p.prev()
	return ok && (isTerminator(tok.Type) || tok.Type == lexer.DEDENT)
}

// expectTerminator closes an expression statement or program line. End of
// input also ends a line but is left in place.
func (p *Parser) expectTerminator() bool {
	if p.terminated() || p.at(lexer.EOF) {
		return true
	}
	if isTerminator(p.cur().Type) {
		p.advance()
		return true
	}
	p.reportMissingTerminator()
	return false
}

func (p *Parser) skipTerminators() {
	for isTerminator(p.cur().Type) {
		p.advance()
	}
}
