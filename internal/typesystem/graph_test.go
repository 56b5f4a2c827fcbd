package typesystem

import (
	"errors"
	"testing"

	"github.com/funvibe/specsema/internal/ast"
)

type fakeScope map[string]MathType

func (s fakeScope) UniversalTypeBounds() map[string]MathType { return s }

func TestIsSubtype_Builtins(t *testing.T) {
	g := NewGraph()
	z := g.ProperFor("Z", g.SSet)
	tests := []struct {
		name       string
		sub, super MathType
		want       bool
	}{
		{"everything is in MType", g.Powertype(z), g.MType, true},
		{"everything is in Entity", g.FunctionOf(z, z), g.Entity, true},
		{"reflexive", z, z, true},
		{"B under SSet", g.Boolean, g.SSet, true},
		{"declared super", z, g.SSet, true},
		{"no relation", z, g.Boolean, false},
		{"MType is not an SSet", g.MType, g.SSet, false},
		{"cartesian pointwise", g.CartesianOf(g.Boolean, z), g.CartesianOf(g.SSet, g.SSet), true},
		{"function covariant range", g.FunctionOf(g.Boolean, z), g.FunctionOf(g.SSet, z), true},
		{"function contravariant domain", g.FunctionOf(z, g.SSet), g.FunctionOf(z, g.Boolean), true},
		{"function wrong domain", g.FunctionOf(z, g.Boolean), g.FunctionOf(z, g.SSet), false},
		{"powertype base", g.Powertype(g.Boolean), g.Powertype(g.SSet), true},
		{"set restriction", g.SetRestriction("x", z, nil), z, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsSubtype(tt.sub, tt.super); got != tt.want {
				t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.sub, tt.super, got, tt.want)
			}
		})
	}
}

func TestIsSubtype_ForeignGraph(t *testing.T) {
	g1, g2 := NewGraph(), NewGraph()
	if g1.IsSubtype(g2.Boolean, g1.MType) {
		t.Error("types from different graphs must never be compared")
	}
}

func TestIsKnownToBeIn(t *testing.T) {
	g := NewGraph()
	z := g.ProperFor("Z", g.SSet)
	if !g.IsKnownToBeIn(z, nil, z) {
		t.Error("value of Z is in Z")
	}
	if !g.IsKnownToBeIn(g.SSet, z, g.SSet) {
		t.Error("Z (an SSet) is in SSet")
	}
	if g.IsKnownToBeIn(g.MType, g.MType, g.SSet) {
		t.Error("MType is not in SSet")
	}
	if !g.IsKnownToBeIn(g.MType, g.Entity, g.MType) {
		t.Error("Entity is in MType")
	}
}

func TestAddRelationship_MakesSubtype(t *testing.T) {
	g := NewGraph()
	n := g.ProperFor("N", g.SSet)
	z := g.ProperFor("Z", g.SSet)
	if g.IsSubtype(n, z) {
		t.Fatal("N <: Z before the theorem")
	}

	// Type Theorem N_Is_Z: For all n : N, n : Z;
	binding := &ast.VarExp{Name: "n"}
	if err := g.AddRelationship(binding, n, z, nil, fakeScope{}); err != nil {
		t.Fatalf("AddRelationship: %v", err)
	}
	if !g.IsSubtype(n, z) {
		t.Error("N <: Z after the theorem")
	}
	if g.IsSubtype(z, n) {
		t.Error("relationship is not symmetric")
	}
	if len(g.Relationships()) != 1 {
		t.Errorf("relationships = %d", len(g.Relationships()))
	}
}

func TestRollback(t *testing.T) {
	g := NewGraph()
	n := g.ProperFor("N", g.SSet)
	z := g.ProperFor("Z", g.SSet)
	mark := g.Mark()
	if err := g.AddRelationship(&ast.VarExp{Name: "n"}, n, z, nil, fakeScope{}); err != nil {
		t.Fatal(err)
	}
	if !g.IsSubtype(n, z) {
		t.Fatal("N <: Z after the theorem")
	}
	g.Rollback(mark)
	if g.IsSubtype(n, z) {
		t.Error("rolled back relationship still applies")
	}
	if len(g.Relationships()) != 0 {
		t.Errorf("relationships = %d", len(g.Relationships()))
	}
}

func TestIsSubtype_CycleThroughRelationships(t *testing.T) {
	g := NewGraph()
	x := g.ProperFor("X", g.SSet)
	y := g.ProperFor("Y", g.SSet)
	q := g.ProperFor("Q", g.SSet)
	for _, r := range [][2]MathType{{y, x}, {x, y}, {y, q}} {
		if err := g.AddRelationship(&ast.VarExp{Name: "v"}, r[0], r[1], nil, fakeScope{}); err != nil {
			t.Fatal(err)
		}
	}
	if !g.IsSubtype(y, q) {
		t.Fatal("Y <: Q directly")
	}
	// X <: Q was first asked while Y <: Q was still open.
	if !g.IsSubtype(x, q) {
		t.Error("X <: Q through Y after the cycle was broken")
	}
	if g.IsSubtype(q, x) {
		t.Error("Q <: X was never asserted")
	}
}

func TestAddRelationship_Conditional(t *testing.T) {
	g := NewGraph()
	n := g.ProperFor("N", g.SSet)
	z := g.ProperFor("Z", g.SSet)
	cond := &ast.VarExp{Name: "p"}
	if err := g.AddRelationship(&ast.VarExp{Name: "n"}, n, z, cond, nil); err != nil {
		t.Fatal(err)
	}
	if g.IsSubtype(n, z) {
		t.Error("a condition that is not literally true must not establish subtyping")
	}
}

func TestAddRelationship_Pattern(t *testing.T) {
	g := NewGraph()
	z := g.ProperFor("Z", g.SSet)
	// For all T : MType, For all S : Powerset(T), S : SSet
	scope := fakeScope{"T": g.MType}
	binding := &ast.VarExp{Name: "S"}
	if err := g.AddRelationship(binding, g.Powertype(g.Named("T")), g.SSet, nil, scope); err != nil {
		t.Fatal(err)
	}
	if !g.IsSubtype(g.Powertype(z), g.SSet) {
		t.Error("Powerset(Z) <: SSet through the pattern")
	}
}

func TestAddRelationship_Rejects(t *testing.T) {
	g := NewGraph()
	other := NewGraph()
	err := g.AddRelationship(&ast.VarExp{Name: "x"}, other.Boolean, g.SSet, nil, nil)
	var ire *IllegalRelationshipError
	if !errors.As(err, &ire) {
		t.Errorf("expected IllegalRelationshipError, got %v", err)
	}
}

func TestSplitTypeTheorem(t *testing.T) {
	assertion := &ast.TypeAssertionExp{Exp: &ast.VarExp{Name: "n"}, Ty: &ast.NameTy{Name: "Z"}}
	cond := &ast.VarExp{Name: "p"}

	c, body, err := SplitTypeTheorem(assertion)
	if err != nil || c != nil || body != assertion {
		t.Errorf("plain assertion: %v %v %v", c, body, err)
	}

	c, body, err = SplitTypeTheorem(&ast.InfixExp{Left: cond, Operator: "implies", Right: assertion})
	if err != nil || c != ast.Exp(cond) || body != assertion {
		t.Errorf("conditional assertion: %v %v %v", c, body, err)
	}

	_, _, err = SplitTypeTheorem(&ast.InfixExp{Left: cond, Operator: "and", Right: assertion})
	var ire *IllegalRelationshipError
	if !errors.As(err, &ire) {
		t.Errorf("expected IllegalRelationshipError, got %v", err)
	}
}

func TestIsLiteralTrue(t *testing.T) {
	if !IsLiteralTrue(nil) || !IsLiteralTrue(&ast.VarExp{Name: "true"}) {
		t.Error("nil and true are literally true")
	}
	if IsLiteralTrue(&ast.VarExp{Name: "false"}) || IsLiteralTrue(&ast.VarExp{Qualifier: "M", Name: "true"}) {
		t.Error("only the unqualified symbol true counts")
	}
}
