package ast

import (
	"math/big"
	"testing"
)

func TestWalkVisitsInSourceOrder(t *testing.T) {
	// f x => let y = x in [y, 1]
	fn := NewFnDecl(id("f"), []*Ident{id("x")}, NewBlock([]Expr{
		NewValueDecl(
			[]Expr{NewValueAssign(NewPatternIdent(id("y"), noSpan), id("x"), noSpan)},
			NewBlock([]Expr{NewListExpr([]Expr{id("y"), num(1)}, noSpan)}, noSpan),
			noSpan,
		),
	}, noSpan), noSpan)

	var names []string
	Walk(fn, func(n Node) bool {
		if ident, ok := n.(*Ident); ok {
			names = append(names, ident.Name)
		}
		return true
	})

	want := []string{"f", "x", "y", "x", "y"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestWalkPrunesBranches(t *testing.T) {
	expr := NewOpCall(Plus, NewFnCall(id("f"), []Expr{id("a")}, noSpan), id("b"), noSpan)

	var seen []string
	Walk(expr, func(n Node) bool {
		switch n := n.(type) {
		case *FnCall:
			return false
		case *Ident:
			seen = append(seen, n.Name)
		}
		return true
	})

	if len(seen) != 1 || seen[0] != "b" {
		t.Fatalf("expected only b to be visited, got %v", seen)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"nil", nil, 0},
		{"leaf", num(1), 1},
		// OpCall + 2 leaves
		{"op", NewOpCall(Minus, num(1), num(2), noSpan), 3},
		// ValueDecl without body: decl, assign, wild pattern, literal
		{"let", NewValueDecl([]Expr{NewValueAssign(NewPatternWild(noSpan), num(1), noSpan)}, nil, noSpan), 4},
		// TypeDecl, name, FnSig, Nat, Named, its ident
		{"type", NewTypeDecl(id("T"), NewFnSigType([]TypeExpr{NewNatType(big.NewInt(1), noSpan)}, NewNamedType(id("U"), noSpan), noSpan), noSpan), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.node); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
