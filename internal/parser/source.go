package parser

import (
	"github.com/pkg/errors"

	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// NewFromSource tokenizes src and returns a parser over the result. Lexer
// errors are wrapped; errors.Cause returns the *lexer.LexerError.
func NewFromSource(src string, opts ...Option) (*Parser, error) {
	cfg := resolveOptions(opts)

	tokens, err := lexer.Tokenize(src, lexer.WithFilename(cfg.filename))
	if err != nil {
		name := cfg.filename
		if name == "" {
			name = "<input>"
		}
		cfg.logger.Debug("tokenize failed", "file", cfg.filename, "error", err)
		return nil, errors.Wrapf(err, "tokenizing %s", name)
	}

	return New(tokens, opts...), nil
}

// ParseSource tokenizes and parses a whole program.
func ParseSource(src string, opts ...Option) ([]ast.Statement, error) {
	p, err := NewFromSource(src, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// ParseExpressionSource tokenizes and parses a single expression.
func ParseExpressionSource(src string, opts ...Option) (ast.Expr, error) {
	p, err := NewFromSource(src, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseExpression()
}

// ParseTypeSource tokenizes and parses a single type expression.
func ParseTypeSource(src string, opts ...Option) (ast.TypeExpr, error) {
	p, err := NewFromSource(src, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseType()
}
