package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *TypeDecl:
		Walk(n.Name, fn)
		Walk(n.Body, fn)

	case *FnDecl:
		Walk(n.Name, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		Walk(n.Body, fn)

	case *Block:
		for _, expr := range n.Exprs {
			Walk(expr, fn)
		}

	case *NamedType:
		Walk(n.Name, fn)

	case *FnSigType:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		Walk(n.Ret, fn)

	case *TagType:
		Walk(n.Tag, fn)

	case *OpCall:
		Walk(n.Args[0], fn)
		Walk(n.Args[1], fn)

	case *FnCall:
		Walk(n.Name, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *ListExpr:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}

	case *MatchExpr:
		Walk(n.Expr, fn)
		for _, arm := range n.Arms {
			Walk(arm, fn)
		}

	case *Destructure:
		Walk(n.Pattern, fn)
		Walk(n.Body, fn)

	case *ValueDecl:
		for _, assign := range n.Assigns {
			Walk(assign, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ValueAssign:
		Walk(n.Pattern, fn)
		Walk(n.Expr, fn)

	case *TagAssign:
		Walk(n.Tag, fn)
		Walk(n.Expr, fn)

	case *TypedExpr:
		Walk(n.Expr, fn)
		Walk(n.Type, fn)

	case *PatternIdent:
		Walk(n.Name, fn)

	case *PatternRange:
		Walk(n.Start, fn)
		Walk(n.End, fn)

	case *TagIdent:
		Walk(n.Name, fn)

	case *PrimaryTag:
		Walk(n.Name, fn)

	case *TagOpCall:
		Walk(n.Args[0], fn)
		Walk(n.Args[1], fn)

	case *TagSet:
		for _, pat := range n.Patterns {
			Walk(pat, fn)
		}

	// Leaf nodes don't need traversal
	case *Ident, *IntegerLit, *StringLit, *NatType, *PatternInt, *PatternString, *PatternWild:
	}
}

// Count returns the number of nodes reachable from node, node included.
func Count(node Node) int {
	n := 0
	Walk(node, func(Node) bool {
		n++
		return true
	})
	return n
}
