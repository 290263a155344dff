package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// parseBlock parses either a single expression statement on the current
// line or, after a line break, an indented run of statements closed by
// DEDENT.
func (p *Parser) parseBlock() *ast.Block {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	start := p.cur().Span

	if !p.at(lexer.NEWLINE) {
		expr := p.parseExpressionStatement()
		if expr == nil {
			return nil
		}
		return ast.NewBlock([]ast.Expr{expr}, p.spanFrom(start))
	}

	indent, ok := p.openIndent("indented block")
	if !ok {
		return nil
	}

	var exprs []ast.Expr
	ok = p.indentedRun(indent, "expression", func() bool {
		expr := p.parseExpressionStatement()
		if expr == nil {
			return false
		}
		exprs = append(exprs, expr)
		return true
	})
	if !ok {
		return nil
	}

	return ast.NewBlock(exprs, p.spanFrom(indent.Span))
}

// parseMatchBlock parses the arms of a match. Unlike a Block it has no
// single-line form.
func (p *Parser) parseMatchBlock() []*ast.Destructure {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	if !p.at(lexer.NEWLINE) {
		found := p.cur()
		p.fail(&ParseError{
			Message:  "expected line break before match arms, found " + describeToken(found),
			Span:     found.Span,
			Found:    found,
			Expected: []lexer.TokenType{lexer.NEWLINE},
			Help:     "match arms go on their own indented lines",
		})
		return nil
	}

	indent, ok := p.openIndent("indented match arms")
	if !ok {
		return nil
	}

	var arms []*ast.Destructure
	ok = p.indentedRun(indent, "match arm", func() bool {
		arm := p.parseMatchPart()
		if arm == nil {
			return false
		}
		arms = append(arms, arm)
		return true
	})
	if !ok {
		return nil
	}

	return arms
}

// openIndent consumes the line break that introduces an indented run, any
// blank lines after it, and the INDENT itself.
func (p *Parser) openIndent(what string) (lexer.Token, bool) {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
	if !p.at(lexer.INDENT) {
		p.reportExpectedWhat(what, lexer.INDENT)
		return lexer.Token{}, false
	}
	return p.advance(), true
}

// indentedRun calls item for every entry of an indented run until the
// closing DEDENT, which it consumes. Blank terminators between entries are
// skipped and at least one entry is required.
func (p *Parser) indentedRun(indent lexer.Token, what string, item func() bool) bool {
	count := 0
	for {
		p.skipTerminators()

		switch p.cur().Type {
		case lexer.DEDENT:
			if count == 0 {
				p.reportExpectedWhat(what)
				return false
			}
			p.advance()
			return true
		case lexer.EOF:
			p.reportUnclosedBlock(indent)
			return false
		}

		if !item() {
			return false
		}
		count++
	}
}

// parseExpressionStatement parses an expression and the terminator that
// ends it. Expressions that end with an indented block are already
// terminated.
func (p *Parser) parseExpressionStatement() ast.Expr {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expectTerminator() {
		return nil
	}
	return expr
}
