package ast

import "github.com/snowflake-lang/snowflake/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Statement is a top-level program line: a type or function declaration.
type Statement interface {
	Node
	stmtNode()
}

// TypeExpr represents a type expression.
type TypeExpr interface {
	Node
	typeNode()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern represents a match or binding pattern.
type Pattern interface {
	Node
	patternNode()
}

// Tag represents a node of the tag algebra. Tags never mix with Expr.
type Tag interface {
	Node
	tagNode()
}

// Op is the closed set of infix operators shared by expressions and tags.
// All operators bind equally tight; chains associate to the right.
type Op int

const (
	Plus Op = iota + 1
	Minus
	Star
	ForwardSlash
	LAngleBracket
	RAngleBracket
	Circumflex
)

var opSymbols = map[Op]string{
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	ForwardSlash:  "/",
	LAngleBracket: "<",
	RAngleBracket: ">",
	Circumflex:    "^",
}

// String returns the source symbol of the operator.
func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return "?"
}

// OpFromToken maps an operator token to its Op.
func OpFromToken(tt lexer.TokenType) (Op, bool) {
	switch tt {
	case lexer.PLUS:
		return Plus, true
	case lexer.MINUS:
		return Minus, true
	case lexer.ASTERISK:
		return Star, true
	case lexer.SLASH:
		return ForwardSlash, true
	case lexer.LT:
		return LAngleBracket, true
	case lexer.GT:
		return RAngleBracket, true
	case lexer.CARET:
		return Circumflex, true
	default:
		return 0, false
	}
}

// Ident is a name. It is used as an expression and wherever the grammar
// names something (declarations, call heads, arguments).
type Ident struct {
	Name string
	span lexer.Span
}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

func (*Ident) exprNode() {}

// TypeDecl binds a name to a type: `Name :: Body`.
type TypeDecl struct {
	Name *Ident
	Body TypeExpr
	span lexer.Span
}

// NewTypeDecl constructs a type declaration node.
func NewTypeDecl(name *Ident, body TypeExpr, span lexer.Span) *TypeDecl {
	return &TypeDecl{Name: name, Body: body, span: span}
}

// Span returns the declaration span.
func (d *TypeDecl) Span() lexer.Span { return d.span }

func (*TypeDecl) stmtNode() {}

// FnDecl declares a function: `Name Args... => Body`.
type FnDecl struct {
	Name *Ident
	Args []*Ident
	Body *Block
	span lexer.Span
}

// NewFnDecl constructs a function declaration node.
func NewFnDecl(name *Ident, args []*Ident, body *Block, span lexer.Span) *FnDecl {
	return &FnDecl{Name: name, Args: args, Body: body, span: span}
}

// Span returns the declaration span.
func (d *FnDecl) Span() lexer.Span { return d.span }

func (*FnDecl) stmtNode() {}

// Block is a non-empty, ordered run of expression statements, written either
// inline after `=>` / `in` or as an indented region.
type Block struct {
	Exprs []Expr
	span  lexer.Span
}

// NewBlock constructs a block node.
func NewBlock(exprs []Expr, span lexer.Span) *Block {
	return &Block{Exprs: exprs, span: span}
}

// Span returns the block span.
func (b *Block) Span() lexer.Span { return b.span }
