package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// parseTagDecl parses `tag TagExpression`.
func (p *Parser) parseTagDecl() ast.Tag {
	if _, ok := p.expect(lexer.TAG); !ok {
		return nil
	}
	return p.parseTagExpr()
}

// parseTagExpr parses a right associative operator chain over tag atoms. The
// chain is collected first and folded afterwards so a long chain does not
// count against the nesting limit.
func (p *Parser) parseTagExpr() ast.Tag {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	var (
		atoms []ast.Tag
		ops   []ast.Op
	)
	for {
		atom := p.parseTagAtom()
		if atom == nil {
			return nil
		}
		atoms = append(atoms, atom)

		op, ok := ast.OpFromToken(p.cur().Type)
		if !ok {
			break
		}
		p.advance()
		ops = append(ops, op)
	}

	tag := atoms[len(atoms)-1]
	for i := len(ops) - 1; i >= 0; i-- {
		tag = ast.NewTagOpCall(ops[i], atoms[i], tag, mergeSpan(atoms[i].Span(), tag.Span()))
	}
	return tag
}

func (p *Parser) parseTagAtom() ast.Tag {
	if !p.at(lexer.LPAREN) {
		return p.parseTagLiteral()
	}

	p.advance() // consume '('
	inner := p.parseTagExpr()
	if inner == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}
	return inner
}

// parseTagLiteral parses `*name` or `name`. In atom position the star marks
// a primary tag; after an atom it is an operator.
func (p *Parser) parseTagLiteral() ast.Tag {
	switch p.cur().Type {
	case lexer.ASTERISK:
		star := p.advance()
		name := p.parseIdentifier()
		if name == nil {
			return nil
		}
		return ast.NewPrimaryTag(name, mergeSpan(star.Span, name.Span()))
	case lexer.IDENT:
		name := p.parseIdentifier()
		return ast.NewTagIdent(name, name.Span())
	default:
		p.reportExpectedWhat("tag", lexer.IDENT, lexer.ASTERISK, lexer.LPAREN)
		return nil
	}
}

// parseTagSet parses `#{ TagLiteral (, TagLiteral)* }`.
func (p *Parser) parseTagSet() *ast.TagSet {
	open, ok := p.expect(lexer.HASH_LBRACE)
	if !ok {
		return nil
	}

	patterns, ok := parseDelimited(p, delimitedConfig{
		Closing:           lexer.RBRACE,
		MissingElementMsg: "tag name",
	}, func() (ast.Tag, bool) {
		tag := p.parseTagLiteral()
		return tag, tag != nil
	})
	if !ok {
		return nil
	}

	return ast.NewTagSet(patterns, p.spanFrom(open.Span))
}
