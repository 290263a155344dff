package ast

import (
	"strconv"
	"strings"
)

// Sexpr renders node as a compact S-expression. The output is stable and is
// what the command line prints; tests use it to compare tree shapes.
//
//	a + b + c      =>  (+ a (+ b c))
//	f a [1, 2]     =>  (call f a (list 1 2))
//	f x => x       =>  (fn f (x) (block x))
func Sexpr(node Node) string {
	var sb strings.Builder
	writeSexpr(&sb, node)
	return sb.String()
}

// FormatProgram renders each statement on its own line.
func FormatProgram(stmts []Statement) string {
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = Sexpr(stmt)
	}
	return strings.Join(lines, "\n")
}

func writeSexpr(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("<nil>")

	case *Ident:
		sb.WriteString(n.Name)
	case *IntegerLit:
		sb.WriteString(n.Value.String())
	case *StringLit:
		sb.WriteString(strconv.Quote(n.Value))

	case *TypeDecl:
		list(sb, "type", n.Name, n.Body)
	case *FnDecl:
		sb.WriteString("(fn ")
		sb.WriteString(n.Name.Name)
		sb.WriteString(" (")
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(arg.Name)
		}
		sb.WriteString(") ")
		writeSexpr(sb, n.Body)
		sb.WriteByte(')')
	case *Block:
		list(sb, "block", exprNodes(n.Exprs)...)

	case *NatType:
		sb.WriteString(n.Value.String())
	case *NamedType:
		sb.WriteString(n.Name.Name)
	case *FnSigType:
		nodes := make([]Node, 0, len(n.Args)+1)
		for _, arg := range n.Args {
			nodes = append(nodes, arg)
		}
		list(sb, "->", append(nodes, n.Ret)...)
	case *TagType:
		list(sb, "tag", n.Tag)

	case *OpCall:
		list(sb, n.Op.String(), n.Args[0], n.Args[1])
	case *FnCall:
		list(sb, "call", append([]Node{n.Name}, exprNodes(n.Args)...)...)
	case *ListExpr:
		list(sb, "list", exprNodes(n.Elems)...)
	case *MatchExpr:
		nodes := []Node{n.Expr}
		for _, arm := range n.Arms {
			nodes = append(nodes, arm)
		}
		list(sb, "match", nodes...)
	case *Destructure:
		list(sb, "arm", n.Pattern, n.Body)
	case *ValueDecl:
		nodes := exprNodes(n.Assigns)
		if n.Body != nil {
			nodes = append(nodes, n.Body)
		}
		list(sb, "let", nodes...)
	case *ValueAssign:
		list(sb, "=", n.Pattern, n.Expr)
	case *TagAssign:
		list(sb, "tag=", n.Tag, n.Expr)
	case *TypedExpr:
		list(sb, "::", n.Expr, n.Type)

	case *PatternInt:
		sb.WriteString(n.Value.String())
	case *PatternIdent:
		sb.WriteString(n.Name.Name)
	case *PatternString:
		sb.WriteString(strconv.Quote(n.Value))
	case *PatternRange:
		list(sb, "..", n.Start, n.End)
	case *PatternWild:
		sb.WriteByte('_')

	case *TagIdent:
		sb.WriteString(n.Name.Name)
	case *PrimaryTag:
		sb.WriteByte('*')
		sb.WriteString(n.Name.Name)
	case *TagOpCall:
		list(sb, n.Op.String(), n.Args[0], n.Args[1])
	case *TagSet:
		sb.WriteString("#{")
		for i, pat := range n.Patterns {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeSexpr(sb, pat)
		}
		sb.WriteByte('}')

	default:
		sb.WriteString("<?>")
	}
}

func list(sb *strings.Builder, head string, nodes ...Node) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, node := range nodes {
		sb.WriteByte(' ')
		writeSexpr(sb, node)
	}
	sb.WriteByte(')')
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}
