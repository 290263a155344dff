package ast

import "github.com/snowflake-lang/snowflake/internal/lexer"

// TagIdent is a plain tag name.
type TagIdent struct {
	Name *Ident
	span lexer.Span
}

// NewTagIdent constructs a tag name node.
func NewTagIdent(name *Ident, span lexer.Span) *TagIdent {
	return &TagIdent{Name: name, span: span}
}

// Span returns the tag span.
func (t *TagIdent) Span() lexer.Span { return t.span }

func (*TagIdent) tagNode() {}

// PrimaryTag is a tag name marked primary with a leading `*`.
type PrimaryTag struct {
	Name *Ident
	span lexer.Span
}

// NewPrimaryTag constructs a primary tag node.
func NewPrimaryTag(name *Ident, span lexer.Span) *PrimaryTag {
	return &PrimaryTag{Name: name, span: span}
}

// Span returns the tag span.
func (t *PrimaryTag) Span() lexer.Span { return t.span }

func (*PrimaryTag) tagNode() {}

// TagOpCall combines two tags with an operator.
type TagOpCall struct {
	Op   Op
	Args [2]Tag
	span lexer.Span
}

// NewTagOpCall constructs a tag operator node.
func NewTagOpCall(op Op, left, right Tag, span lexer.Span) *TagOpCall {
	return &TagOpCall{Op: op, Args: [2]Tag{left, right}, span: span}
}

// Span returns the tag span.
func (t *TagOpCall) Span() lexer.Span { return t.span }

func (*TagOpCall) tagNode() {}

// TagSet is the `#{...}` destructuring pattern on the left of a tag binding.
// Patterns is never empty and holds TagIdent or PrimaryTag nodes.
type TagSet struct {
	Patterns []Tag
	span     lexer.Span
}

// NewTagSet constructs a tag set node.
func NewTagSet(patterns []Tag, span lexer.Span) *TagSet {
	return &TagSet{Patterns: patterns, span: span}
}

// Span returns the tag span.
func (t *TagSet) Span() lexer.Span { return t.span }

func (*TagSet) tagNode() {}
