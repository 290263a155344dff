package ast

import (
	"math/big"

	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// PatternInt matches an integer literal.
type PatternInt struct {
	Value *big.Int
	span  lexer.Span
}

// NewPatternInt constructs an integer pattern.
func NewPatternInt(value *big.Int, span lexer.Span) *PatternInt {
	return &PatternInt{Value: value, span: span}
}

// Span returns the pattern span.
func (p *PatternInt) Span() lexer.Span { return p.span }

func (*PatternInt) patternNode() {}

// PatternIdent binds or names a value.
type PatternIdent struct {
	Name *Ident
	span lexer.Span
}

// NewPatternIdent constructs an identifier pattern.
func NewPatternIdent(name *Ident, span lexer.Span) *PatternIdent {
	return &PatternIdent{Name: name, span: span}
}

// Span returns the pattern span.
func (p *PatternIdent) Span() lexer.Span { return p.span }

func (*PatternIdent) patternNode() {}

// PatternString matches a string literal.
type PatternString struct {
	Value string
	span  lexer.Span
}

// NewPatternString constructs a string pattern.
func NewPatternString(value string, span lexer.Span) *PatternString {
	return &PatternString{Value: value, span: span}
}

// Span returns the pattern span.
func (p *PatternString) Span() lexer.Span { return p.span }

func (*PatternString) patternNode() {}

// PatternRange matches Start..End. Both bounds are always present.
type PatternRange struct {
	Start Pattern
	End   Pattern
	span  lexer.Span
}

// NewPatternRange constructs a range pattern.
func NewPatternRange(start, end Pattern, span lexer.Span) *PatternRange {
	return &PatternRange{Start: start, End: end, span: span}
}

// Span returns the pattern span.
func (p *PatternRange) Span() lexer.Span { return p.span }

func (*PatternRange) patternNode() {}

// PatternWild is the `_` pattern.
type PatternWild struct {
	span lexer.Span
}

// NewPatternWild constructs a wildcard pattern.
func NewPatternWild(span lexer.Span) *PatternWild {
	return &PatternWild{span: span}
}

// Span returns the pattern span.
func (p *PatternWild) Span() lexer.Span { return p.span }

func (*PatternWild) patternNode() {}
