package parser

import (
	"math/big"

	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// intValue returns the arbitrary precision payload of an INT token. Tokens
// built by hand may carry only the literal text; it is decoded here so no
// precision is lost either way.
func (p *Parser) intValue(tok lexer.Token) (*big.Int, bool) {
	if tok.Int != nil {
		return new(big.Int).Set(tok.Int), true
	}
	n, ok := lexer.ParseInt(tok.Literal)
	if !ok {
		p.fail(&ParseError{
			Message: "malformed integer literal `" + tok.Literal + "`",
			Span:    tok.Span,
			Found:   tok,
		})
		return nil, false
	}
	return n, true
}

func identName(tok lexer.Token) string {
	if tok.Value != "" {
		return tok.Value
	}
	return tok.Literal
}

func (p *Parser) parseIdentifier() *ast.Ident {
	tok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	return ast.NewIdent(identName(tok), tok.Span)
}

func (p *Parser) parseIntegerLiteral() *ast.IntegerLit {
	tok, ok := p.expect(lexer.INT)
	if !ok {
		return nil
	}
	n, ok := p.intValue(tok)
	if !ok {
		return nil
	}
	return ast.NewIntegerLit(n, tok.Span)
}

func (p *Parser) parseStringLiteral() *ast.StringLit {
	tok, ok := p.expect(lexer.STRING)
	if !ok {
		return nil
	}
	return ast.NewStringLit(tok.Value, tok.Span)
}

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// Callers pass the earliest start span first.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

// spanFrom covers start up to the last consumed token that is not a layout
// marker, so nodes ending in a block do not stretch onto the next line.
func (p *Parser) spanFrom(start lexer.Span) lexer.Span {
	for i := p.pos - 1; i >= 0; i-- {
		tok := p.tokens[i]
		if tok.Span.Start < start.Start {
			break
		}
		if !tok.Type.IsLayout() {
			return mergeSpan(start, tok.Span)
		}
	}
	return start
}
