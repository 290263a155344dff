package lsp

import (
	"github.com/snowflake-lang/snowflake/internal/ast"
)

func contains(n ast.Node, offset int) bool {
	span := n.Span()
	return span.Start <= offset && offset <= span.End
}

// pathAt returns the nodes whose span covers offset, outermost first.
func pathAt(stmts []ast.Statement, offset int) []ast.Node {
	var path []ast.Node
	for _, stmt := range stmts {
		ast.Walk(stmt, func(n ast.Node) bool {
			if !contains(n, offset) {
				return false
			}
			path = append(path, n)
			return true
		})
	}
	return path
}

// innermostAt returns the smallest node covering offset.
func innermostAt(stmts []ast.Statement, offset int) ast.Node {
	path := pathAt(stmts, offset)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

func identAt(stmts []ast.Statement, offset int) *ast.Ident {
	ident, _ := innermostAt(stmts, offset).(*ast.Ident)
	return ident
}

func enclosingFn(stmts []ast.Statement, offset int) *ast.FnDecl {
	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.FnDecl); ok && contains(fn, offset) {
			return fn
		}
	}
	return nil
}

// bindingsBefore lists the pattern-bound names in fn's body that start
// before offset, in source order.
func bindingsBefore(fn *ast.FnDecl, offset int) []*ast.Ident {
	var names []*ast.Ident
	ast.Walk(fn.Body, func(n ast.Node) bool {
		if p, ok := n.(*ast.PatternIdent); ok && p.Name.Span().Start <= offset {
			names = append(names, p.Name)
		}
		return true
	})
	return names
}

// topLevelName returns the declared name of a statement.
func topLevelName(stmt ast.Statement) *ast.Ident {
	switch s := stmt.(type) {
	case *ast.FnDecl:
		return s.Name
	case *ast.TypeDecl:
		return s.Name
	}
	return nil
}

// resolve finds the identifier that introduces ref. Inside a function the
// nearest preceding pattern binding wins, then the function's arguments,
// then the top-level declarations. Arm scoping is not tracked, so a binding
// from an earlier match arm can shadow an argument.
func resolve(stmts []ast.Statement, ref *ast.Ident) (*ast.Ident, ast.Statement) {
	at := ref.Span().Start

	if fn := enclosingFn(stmts, at); fn != nil {
		bindings := bindingsBefore(fn, at)
		for i := len(bindings) - 1; i >= 0; i-- {
			if bindings[i].Name == ref.Name {
				return bindings[i], fn
			}
		}
		for _, arg := range fn.Args {
			if arg.Name == ref.Name {
				return arg, fn
			}
		}
	}

	for _, stmt := range stmts {
		if name := topLevelName(stmt); name != nil && name.Name == ref.Name {
			return name, stmt
		}
	}
	return nil, nil
}
