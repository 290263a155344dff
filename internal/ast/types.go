package ast

import (
	"math/big"

	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// NatType is an integer literal used as a type.
type NatType struct {
	Value *big.Int
	span  lexer.Span
}

// NewNatType constructs a natural-number type node.
func NewNatType(value *big.Int, span lexer.Span) *NatType {
	return &NatType{Value: value, span: span}
}

// Span returns the type span.
func (t *NatType) Span() lexer.Span { return t.span }

func (*NatType) typeNode() {}

// NamedType refers to a type by name.
type NamedType struct {
	Name *Ident
	span lexer.Span
}

// NewNamedType constructs a named type node.
func NewNamedType(name *Ident, span lexer.Span) *NamedType {
	return &NamedType{Name: name, span: span}
}

// Span returns the type span.
func (t *NamedType) Span() lexer.Span { return t.span }

func (*NamedType) typeNode() {}

// FnSigType is a curried function signature `a b -> r`. Args is never empty.
type FnSigType struct {
	Args []TypeExpr
	Ret  TypeExpr
	span lexer.Span
}

// NewFnSigType constructs a function signature node.
func NewFnSigType(args []TypeExpr, ret TypeExpr, span lexer.Span) *FnSigType {
	return &FnSigType{Args: args, Ret: ret, span: span}
}

// Span returns the type span.
func (t *FnSigType) Span() lexer.Span { return t.span }

func (*FnSigType) typeNode() {}

// TagType is a `tag` declaration used in type position.
type TagType struct {
	Tag  Tag
	span lexer.Span
}

// NewTagType constructs a tag type node.
func NewTagType(tag Tag, span lexer.Span) *TagType {
	return &TagType{Tag: tag, span: span}
}

// Span returns the type span.
func (t *TagType) Span() lexer.Span { return t.span }

func (*TagType) typeNode() {}
