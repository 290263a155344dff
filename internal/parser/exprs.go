package parser

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

// isSubExprStart reports whether tt can begin a SubExpression, and therefore
// a function argument. FLOAT is included so it reaches the atom parser and
// gets its own diagnostic.
func isSubExprStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.INT, lexer.IDENT, lexer.STRING, lexer.LPAREN, lexer.LBRACKET, lexer.FLOAT:
		return true
	default:
		return false
	}
}

// parseExpression parses the top layer of the expression grammar. The
// alternatives are tried in order: match, let, tag binding, bare value
// binding, function call, and finally a SubExpression.
func (p *Parser) parseExpression() ast.Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	switch p.cur().Type {
	case lexer.MATCH:
		if m := p.parseMatch(); m != nil {
			return m
		}
		return nil
	case lexer.LET:
		if decl := p.parseLet(); decl != nil {
			return decl
		}
		return nil
	case lexer.HASH_LBRACE:
		if assign := p.parseTagAssign(); assign != nil {
			return assign
		}
		return nil
	}

	if assign, ok := p.tryValueAssign(); ok {
		if assign != nil {
			return assign
		}
		return nil
	}

	if p.at(lexer.IDENT) && isSubExprStart(p.peekAt(1).Type) {
		if call := p.parseFnCall(); call != nil {
			return call
		}
		return nil
	}

	return p.parseSubExpression()
}

// tryValueAssign commits to a bare `Pattern = Expression` binding when a
// pattern followed by `=` is at the cursor and rewinds otherwise. ok reports
// whether it committed; after committing a nil result means a later failure.
func (p *Parser) tryValueAssign() (assign *ast.ValueAssign, ok bool) {
	if !isPatternStart(p.cur().Type) {
		return nil, false
	}

	m := p.mark()
	pat := p.parsePattern()
	if pat == nil || !p.at(lexer.ASSIGN) {
		p.reset(m)
		return nil, false
	}

	p.advance() // consume '='
	expr := p.parseExpression()
	if expr == nil {
		return nil, true
	}
	return ast.NewValueAssign(pat, expr, mergeSpan(pat.Span(), expr.Span())), true
}

// parseFnCall parses `name arg+`. Every argument is a SubExpression, so
// `f g h` applies f to g and h and a nested call needs parentheses.
func (p *Parser) parseFnCall() *ast.FnCall {
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}

	var args []ast.Expr
	for isSubExprStart(p.cur().Type) {
		arg := p.parseSubExpression()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if len(args) == 0 {
		p.reportExpectedWhat("function argument", lexer.INT, lexer.IDENT, lexer.STRING, lexer.LPAREN, lexer.LBRACKET)
		return nil
	}

	return ast.NewFnCall(name, args, p.spanFrom(name.Span()))
}

func (p *Parser) parseSubExpression() ast.Expr {
	if p.at(lexer.LBRACKET) {
		if list := p.parseList(); list != nil {
			return list
		}
		return nil
	}
	return p.parseOpCall()
}

// parseList parses `[ SubExpression (, SubExpression)* ]`; the empty list is
// allowed.
func (p *Parser) parseList() *ast.ListExpr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	open, ok := p.expect(lexer.LBRACKET)
	if !ok {
		return nil
	}

	elems, ok := parseDelimited(p, delimitedConfig{
		Closing:           lexer.RBRACKET,
		AllowEmpty:        true,
		MissingElementMsg: "list element",
	}, func() (ast.Expr, bool) {
		elem := p.parseSubExpression()
		return elem, elem != nil
	})
	if !ok {
		return nil
	}

	return ast.NewListExpr(elems, p.spanFrom(open.Span))
}

// parseOpCall parses `Atom (Op Atom)*`. All operators bind equally and the
// chain associates to the right: `a - b - c` is `a - (b - c)`.
func (p *Parser) parseOpCall() ast.Expr {
	var (
		atoms []ast.Expr
		ops   []ast.Op
	)
	for {
		atom := p.parseAtom()
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

	expr := atoms[len(atoms)-1]
	for i := len(ops) - 1; i >= 0; i-- {
		expr = ast.NewOpCall(ops[i], atoms[i], expr, mergeSpan(atoms[i].Span(), expr.Span()))
	}
	return expr
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		if lit := p.parseIntegerLiteral(); lit != nil {
			return lit
		}
		return nil
	case lexer.IDENT:
		return p.parseIdentifier()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.LPAREN:
		return p.parseParenAtom()
	case lexer.FLOAT:
		p.fail(&ParseError{
			Message: "float literal `" + tok.Literal + "` is not allowed in an expression",
			Span:    tok.Span,
			Found:   tok,
			Help:    "only integer literals are supported",
		})
		return nil
	default:
		p.reportExpectedWhat("expression", lexer.INT, lexer.IDENT, lexer.STRING, lexer.LPAREN)
		return nil
	}
}

// parseParenAtom parses a parenthesized expression, optionally annotated
// with a type either inside the parentheses (`(e :: T)`) or after them
// (`(e) :: T`, where T must be a type literal).
func (p *Parser) parseParenAtom() ast.Expr {
	open := p.advance() // consume '('

	inner := p.parseExpression()
	if inner == nil {
		return nil
	}

	if p.at(lexer.DOUBLE_COLON) {
		p.advance()
		ty := p.parseTypeExpr()
		if ty == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN); !ok {
			return nil
		}
		return ast.NewTypedExpr(ty, inner, p.spanFrom(open.Span))
	}

	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}

	if p.at(lexer.DOUBLE_COLON) {
		p.advance()
		ty := p.parseTypeLiteral()
		if ty == nil {
			return nil
		}
		return ast.NewTypedExpr(ty, inner, p.spanFrom(open.Span))
	}

	return inner
}

// parseMatch parses `match Expression => MatchBlock`.
func (p *Parser) parseMatch() *ast.MatchExpr {
	kw, ok := p.expect(lexer.MATCH)
	if !ok {
		return nil
	}

	scrutinee := p.parseExpression()
	if scrutinee == nil {
		return nil
	}
	if _, ok := p.expect(lexer.FATARROW); !ok {
		return nil
	}

	arms := p.parseMatchBlock()
	if arms == nil {
		return nil
	}

	return ast.NewMatchExpr(scrutinee, arms, p.spanFrom(kw.Span))
}

// parseMatchPart parses one arm, `Pattern => Block`.
func (p *Parser) parseMatchPart() *ast.Destructure {
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if _, ok := p.expect(lexer.FATARROW); !ok {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return ast.NewDestructure(pat, body, p.spanFrom(pat.Span()))
}

// parseLet parses a `let` declaration. With `in` the bindings scope over the
// following block. Without it exactly one binding is allowed, it must be the
// end of the statement, and the terminator is left to the caller.
func (p *Parser) parseLet() *ast.ValueDecl {
	kw, ok := p.expect(lexer.LET)
	if !ok {
		return nil
	}

	var assigns []ast.Expr
	for {
		assign := p.parseValueAssign()
		if assign == nil {
			return nil
		}
		assigns = append(assigns, assign)

		if !p.at(lexer.COMMA) {
			break
		}
		p.advance()
	}

	if p.at(lexer.IN) {
		p.advance()
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		return ast.NewValueDecl(assigns, body, p.spanFrom(kw.Span))
	}

	if len(assigns) == 1 && (p.terminated() || isTerminator(p.cur().Type) || p.at(lexer.EOF)) {
		return ast.NewValueDecl(assigns, nil, p.spanFrom(kw.Span))
	}

	if len(assigns) > 1 {
		found := p.cur()
		p.fail(&ParseError{
			Message:  "expected `in` after let bindings, found " + describeToken(found),
			Span:     found.Span,
			Found:    found,
			Expected: []lexer.TokenType{lexer.IN},
			Help:     "several bindings can only be introduced with `let ... in`",
		})
		return nil
	}
	p.reportExpected(lexer.IN, lexer.NEWLINE, lexer.SEMICOLON)
	return nil
}

// parseValueAssign parses one binding of a let: `Pattern = Expression` or
// `#{...} = tag TagExpression`.
func (p *Parser) parseValueAssign() ast.Expr {
	if p.at(lexer.HASH_LBRACE) {
		if assign := p.parseTagAssign(); assign != nil {
			return assign
		}
		return nil
	}

	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if _, ok := p.expect(lexer.ASSIGN); !ok {
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	return ast.NewValueAssign(pat, expr, mergeSpan(pat.Span(), expr.Span()))
}

// parseTagAssign parses `#{...} = tag TagExpression`.
func (p *Parser) parseTagAssign() *ast.TagAssign {
	set := p.parseTagSet()
	if set == nil {
		return nil
	}
	if _, ok := p.expect(lexer.ASSIGN); !ok {
		return nil
	}
	decl := p.parseTagDecl()
	if decl == nil {
		return nil
	}
	return ast.NewTagAssign(set, decl, p.spanFrom(set.Span()))
}
