package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// parseProgram parses every program line up to EOF. Blank lines and stray
// `;` contribute nothing.
func (p *Parser) parseProgram() []ast.Statement {
	stmts := []ast.Statement{}
	for {
		p.skipTerminators()
		if p.at(lexer.EOF) {
			return stmts
		}

		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		if !p.expectTerminator() {
			return nil
		}
		stmts = append(stmts, stmt)
	}
}

// parseStatement parses `Name :: Type` or `Name Arg* => Block`.
func (p *Parser) parseStatement() ast.Statement {
	if !p.at(lexer.IDENT) {
		p.reportExpectedWhat("type or function declaration", lexer.IDENT)
		return nil
	}

	if p.peekAt(1).Type == lexer.DOUBLE_COLON {
		if decl := p.parseTypeDecl(); decl != nil {
			return decl
		}
		return nil
	}

	if decl := p.parseFnDecl(); decl != nil {
		return decl
	}
	return nil
}

func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}
	if _, ok := p.expect(lexer.DOUBLE_COLON); !ok {
		return nil
	}
	body := p.parseTypeExpr()
	if body == nil {
		return nil
	}
	return ast.NewTypeDecl(name, body, p.spanFrom(name.Span()))
}

func (p *Parser) parseFnDecl() *ast.FnDecl {
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}

	args := []*ast.Ident{}
	for p.at(lexer.IDENT) {
		args = append(args, p.parseIdentifier())
	}

	if !p.at(lexer.FATARROW) {
		if len(args) == 0 {
			p.reportExpected(lexer.IDENT, lexer.DOUBLE_COLON, lexer.FATARROW)
		} else {
			p.reportExpected(lexer.IDENT, lexer.FATARROW)
		}
		return nil
	}
	p.advance()

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return ast.NewFnDecl(name, args, body, p.spanFrom(name.Span()))
}
