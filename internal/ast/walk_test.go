package ast

import (
	"testing"

	"github.com/funvibe/specsema/internal/token"
)

func v(name string) *VarExp {
	return &VarExp{Token: token.Token{Lexeme: name}, Name: name}
}

func TestInspect_VisitsInSourceOrder(t *testing.T) {
	// Definition Max(x, y : Z) : Z = (if x > y then x else y)
	def := &MathDefinitionDec{
		Name: "Max",
		Params: []*MathVarDec{
			{Name: "x", Ty: &NameTy{Name: "Z"}},
			{Name: "y", Ty: &NameTy{Name: "Z"}},
		},
		ReturnTy: &NameTy{Name: "Z"},
		Body: &IfExp{
			Test: &InfixExp{Left: v("x"), Operator: ">", Right: v("y")},
			Then: v("x"),
			Else: v("y"),
		},
	}

	var names []string
	Inspect(def, func(n Node) bool {
		if ve, ok := n.(*VarExp); ok {
			names = append(names, ve.Name)
		}
		return true
	})
	want := []string{"x", "y", "x", "y"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestInspect_SkipsTypedNilChildren(t *testing.T) {
	var where *InfixExp
	q := &QuantExp{
		Quantifier: Universal,
		Vars:       []*MathVarDec{{Name: "x", Ty: &NameTy{Name: "N"}}},
		Where:      where,
		Body:       v("p"),
	}
	count := 0
	Inspect(q, func(n Node) bool {
		count++
		return true
	})
	// QuantExp, MathVarDec, NameTy, VarExp
	if count != 4 {
		t.Errorf("visited %d nodes, want 4", count)
	}
}

func TestInspect_PruneChildren(t *testing.T) {
	e := &FunctionExp{Name: "F", Args: []Exp{&TupleExp{Fields: []Exp{v("a"), v("b")}}}}
	count := 0
	Inspect(e, func(n Node) bool {
		count++
		_, isTuple := n.(*TupleExp)
		return !isTuple
	})
	if count != 2 {
		t.Errorf("visited %d nodes, want 2", count)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&InfixExp{Left: v("x"), Operator: ">", Right: v("y")}, "(x > y)"},
		{&OutfixExp{Operator: "|_|", Arg: v("S")}, "|S|"},
		{&FunctionExp{Qualifier: "T", Name: "F", Args: []Exp{v("a")}}, "T::F(a)"},
		{&SetExp{Var: &MathVarDec{Name: "x", Ty: &NameTy{Name: "Z"}}, Predicate: v("p")}, "{x : Z | p}"},
		{&TypeAssertionExp{Exp: v("T"), Ty: &NameTy{Name: "MType"}}, "T : MType"},
	}
	for _, tt := range tests {
		if got := Format(tt.node); got != tt.want {
			t.Errorf("Format = %q, want %q", got, tt.want)
		}
	}
}

func TestParseParameterMode(t *testing.T) {
	m, ok := ParseParameterMode("restores")
	if !ok || m != Restores {
		t.Errorf("ParseParameterMode(restores) = %v, %v", m, ok)
	}
	if _, ok := ParseParameterMode("borrows"); ok {
		t.Error("unknown mode accepted")
	}
}
