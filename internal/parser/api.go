package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// ParseProgram parses the whole token sequence as a program.
func (p *Parser) ParseProgram() ([]ast.Statement, error) {
	return run(p, "program", p.parseProgram)
}

// ParseStatement parses a single type or function declaration.
func (p *Parser) ParseStatement() (ast.Statement, error) {
	return run(p, "statement", p.parseStatement)
}

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	return run(p, "expression", p.parseExpression)
}

// ParseType parses a single type expression.
func (p *Parser) ParseType() (ast.TypeExpr, error) {
	return run(p, "type", p.parseTypeExpr)
}

// ParseMatch parses a single match expression.
func (p *Parser) ParseMatch() (*ast.MatchExpr, error) {
	return run(p, "match expression", p.parseMatch)
}

// ParsePattern parses a single pattern.
func (p *Parser) ParsePattern() (ast.Pattern, error) {
	return run(p, "pattern", p.parsePattern)
}

// ParseTag parses a tag expression without the `tag` keyword.
func (p *Parser) ParseTag() (ast.Tag, error) {
	return run(p, "tag", p.parseTagExpr)
}

// ParseTagDecl parses `tag TagExpression`.
func (p *Parser) ParseTagDecl() (ast.Tag, error) {
	return run(p, "tag declaration", p.parseTagDecl)
}

// run rewinds the parser, applies parse and requires that nothing but line
// terminators follows the result. Entry points may be called repeatedly on
// the same parser but not concurrently.
func run[T any](p *Parser, what string, parse func() T) (T, error) {
	var zero T

	p.pos = 0
	p.err = nil
	p.depth = 0

	result := parse()
	if !p.failed() {
		p.skipTerminators()
		if !p.at(lexer.EOF) {
			p.reportTrailingInput(what)
		}
	}

	if p.failed() {
		p.logger.Debug("parse failed",
			"entry", what,
			"file", p.filename,
			"code", string(p.err.Code),
			"error", p.err.Error(),
		)
		return zero, p.err
	}

	p.logger.Debug("parsed",
		"entry", what,
		"file", p.filename,
		"tokens", len(p.tokens),
	)
	return result, nil
}
