package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

func isLiteralPatternStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.INT, lexer.IDENT, lexer.STRING:
		return true
	default:
		return false
	}
}

func isPatternStart(tt lexer.TokenType) bool {
	return tt == lexer.UNDERSCORE || isLiteralPatternStart(tt)
}

// parsePattern parses a wildcard, a literal or a closed range `lo..hi`.
func (p *Parser) parsePattern() ast.Pattern {
	if p.at(lexer.UNDERSCORE) {
		tok := p.advance()
		return ast.NewPatternWild(tok.Span)
	}

	if p.at(lexer.DOTDOT) {
		found := p.cur()
		p.fail(&ParseError{
			Message:  "expected pattern, found `..`",
			Span:     found.Span,
			Found:    found,
			Expected: []lexer.TokenType{lexer.INT, lexer.IDENT, lexer.STRING, lexer.UNDERSCORE},
			Help:     "a range pattern needs a start and an end, as in `1..5`",
		})
		return nil
	}

	lo := p.parseLiteralPattern()
	if lo == nil || !p.at(lexer.DOTDOT) {
		return lo
	}

	p.advance() // consume '..'
	if !isLiteralPatternStart(p.cur().Type) {
		found := p.cur()
		p.fail(&ParseError{
			Message:  "expected end of range pattern, found " + describeToken(found),
			Span:     found.Span,
			Found:    found,
			Expected: []lexer.TokenType{lexer.INT, lexer.IDENT, lexer.STRING},
			Help:     "open ranges are not supported; write both bounds",
		})
		return nil
	}
	hi := p.parseLiteralPattern()
	if hi == nil {
		return nil
	}

	return ast.NewPatternRange(lo, hi, mergeSpan(lo.Span(), hi.Span()))
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		n, ok := p.intValue(tok)
		if !ok {
			return nil
		}
		return ast.NewPatternInt(n, tok.Span)
	case lexer.IDENT:
		name := p.parseIdentifier()
		return ast.NewPatternIdent(name, name.Span())
	case lexer.STRING:
		p.advance()
		return ast.NewPatternString(tok.Value, tok.Span)
	default:
		p.reportExpectedWhat("pattern", lexer.INT, lexer.IDENT, lexer.STRING, lexer.UNDERSCORE)
		return nil
	}
}
