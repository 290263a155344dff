package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

func isSubTypeStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.INT, lexer.IDENT, lexer.LPAREN:
		return true
	default:
		return false
	}
}

// parseTypeExpr parses a full type. Argument types of a signature are
// collected greedily before the arrow is looked for, so `a b -> c` is a
// two-argument signature and `a -> b -> c` nests to the right.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	if p.at(lexer.TAG) {
		kw := p.advance()
		tag := p.parseTagExpr()
		if tag == nil {
			return nil
		}
		return ast.NewTagType(tag, p.spanFrom(kw.Span))
	}

	if !isSubTypeStart(p.cur().Type) {
		p.reportExpectedWhat("type", lexer.INT, lexer.IDENT, lexer.LPAREN, lexer.TAG)
		return nil
	}

	start := p.cur().Span
	var args []ast.TypeExpr
	for isSubTypeStart(p.cur().Type) {
		sub := p.parseSubType()
		if sub == nil {
			return nil
		}
		args = append(args, sub)
	}

	if p.at(lexer.ARROW) {
		p.advance()
		ret := p.parseTypeExpr()
		if ret == nil {
			return nil
		}
		return ast.NewFnSigType(args, ret, p.spanFrom(start))
	}

	if len(args) > 1 {
		found := p.cur()
		p.fail(&ParseError{
			Message:  "expected `->` after function argument types, found " + describeToken(found),
			Span:     found.Span,
			Found:    found,
			Expected: []lexer.TokenType{lexer.ARROW},
			Help:     "a type made of several parts is a function signature and needs a return type",
		})
		return nil
	}

	return args[0]
}

func (p *Parser) parseSubType() ast.TypeExpr {
	if !p.at(lexer.LPAREN) {
		return p.parseTypeLiteral()
	}

	p.advance() // consume '('
	inner := p.parseTypeExpr()
	if inner == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}
	return inner
}

// parseTypeLiteral parses a natural number or a type name.
func (p *Parser) parseTypeLiteral() ast.TypeExpr {
	switch p.cur().Type {
	case lexer.INT:
		tok := p.advance()
		n, ok := p.intValue(tok)
		if !ok {
			return nil
		}
		return ast.NewNatType(n, tok.Span)
	case lexer.IDENT:
		name := p.parseIdentifier()
		return ast.NewNamedType(name, name.Span())
	default:
		p.reportExpectedWhat("type literal", lexer.INT, lexer.IDENT)
		return nil
	}
}
