package ast

import (
	"math/big"

	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// IntegerLit is an arbitrary precision integer literal.
type IntegerLit struct {
	Value *big.Int
	span  lexer.Span
}

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(value *big.Int, span lexer.Span) *IntegerLit {
	return &IntegerLit{Value: value, span: span}
}

// Span returns the literal span.
func (e *IntegerLit) Span() lexer.Span { return e.span }

func (*IntegerLit) exprNode() {}

// StringLit is a string literal holding its decoded text.
type StringLit struct {
	Value string
	span  lexer.Span
}

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

// Span returns the literal span.
func (e *StringLit) Span() lexer.Span { return e.span }

func (*StringLit) exprNode() {}

// OpCall is a binary operator application. Args always has two elements.
type OpCall struct {
	Op   Op
	Args [2]Expr
	span lexer.Span
}

// NewOpCall constructs an operator application node.
func NewOpCall(op Op, left, right Expr, span lexer.Span) *OpCall {
	return &OpCall{Op: op, Args: [2]Expr{left, right}, span: span}
}

// Span returns the expression span.
func (e *OpCall) Span() lexer.Span { return e.span }

func (*OpCall) exprNode() {}

// FnCall applies a named function to one or more arguments.
type FnCall struct {
	Name *Ident
	Args []Expr
	span lexer.Span
}

// NewFnCall constructs a call node.
func NewFnCall(name *Ident, args []Expr, span lexer.Span) *FnCall {
	return &FnCall{Name: name, Args: args, span: span}
}

// Span returns the expression span.
func (e *FnCall) Span() lexer.Span { return e.span }

func (*FnCall) exprNode() {}

// ListExpr is a bracketed, comma separated list.
type ListExpr struct {
	Elems []Expr
	span  lexer.Span
}

// NewListExpr constructs a list node.
func NewListExpr(elems []Expr, span lexer.Span) *ListExpr {
	return &ListExpr{Elems: elems, span: span}
}

// Span returns the expression span.
func (e *ListExpr) Span() lexer.Span { return e.span }

func (*ListExpr) exprNode() {}

// MatchExpr matches Expr against the patterns of its arms in order.
type MatchExpr struct {
	Expr Expr
	Arms []*Destructure
	span lexer.Span
}

// NewMatchExpr constructs a match node.
func NewMatchExpr(expr Expr, arms []*Destructure, span lexer.Span) *MatchExpr {
	return &MatchExpr{Expr: expr, Arms: arms, span: span}
}

// Span returns the expression span.
func (e *MatchExpr) Span() lexer.Span { return e.span }

func (*MatchExpr) exprNode() {}

// Destructure is one match arm: a pattern and the block run when it matches.
type Destructure struct {
	Pattern Pattern
	Body    *Block
	span    lexer.Span
}

// NewDestructure constructs a match arm node.
func NewDestructure(pattern Pattern, body *Block, span lexer.Span) *Destructure {
	return &Destructure{Pattern: pattern, Body: body, span: span}
}

// Span returns the arm span.
func (e *Destructure) Span() lexer.Span { return e.span }

func (*Destructure) exprNode() {}

// ValueDecl is a `let` binding group. Body is nil for the single-binding form
// without `in`; its scope is decided by later passes.
type ValueDecl struct {
	Assigns []Expr
	Body    *Block
	span    lexer.Span
}

// NewValueDecl constructs a let node.
func NewValueDecl(assigns []Expr, body *Block, span lexer.Span) *ValueDecl {
	return &ValueDecl{Assigns: assigns, Body: body, span: span}
}

// Span returns the expression span.
func (e *ValueDecl) Span() lexer.Span { return e.span }

func (*ValueDecl) exprNode() {}

// ValueAssign binds the value of Expr to Pattern.
type ValueAssign struct {
	Pattern Pattern
	Expr    Expr
	span    lexer.Span
}

// NewValueAssign constructs a value binding node.
func NewValueAssign(pattern Pattern, expr Expr, span lexer.Span) *ValueAssign {
	return &ValueAssign{Pattern: pattern, Expr: expr, span: span}
}

// Span returns the expression span.
func (e *ValueAssign) Span() lexer.Span { return e.span }

func (*ValueAssign) exprNode() {}

// TagAssign binds a tag expression to a tag-set pattern: `#{a, *b} = tag x`.
type TagAssign struct {
	Tag  *TagSet
	Expr Tag
	span lexer.Span
}

// NewTagAssign constructs a tag binding node.
func NewTagAssign(tag *TagSet, expr Tag, span lexer.Span) *TagAssign {
	return &TagAssign{Tag: tag, Expr: expr, span: span}
}

// Span returns the expression span.
func (e *TagAssign) Span() lexer.Span { return e.span }

func (*TagAssign) exprNode() {}

// TypedExpr is an expression annotated with a type, `(e :: T)` or `(e) :: T`.
type TypedExpr struct {
	Type TypeExpr
	Expr Expr
	span lexer.Span
}

// NewTypedExpr constructs a type annotation node.
func NewTypedExpr(ty TypeExpr, expr Expr, span lexer.Span) *TypedExpr {
	return &TypedExpr{Type: ty, Expr: expr, span: span}
}

// Span returns the expression span.
func (e *TypedExpr) Span() lexer.Span { return e.span }

func (*TypedExpr) exprNode() {}
