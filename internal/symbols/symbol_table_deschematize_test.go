package symbols

import (
	"errors"
	"testing"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/typesystem"
)

// dependentSetFixture is Definition F(T : MType, E : Powerset(T)) : T with
// N : SSet and S : Powerset(N) to call it with.
func dependentSetFixture(g *typesystem.Graph) (f *MathSymbolEntry, n, s Argument) {
	T := g.Named("T")
	fn := g.TaggedFunction(T, []string{"T", "E"}, []typesystem.MathType{g.MType, g.Powertype(T)})
	f = NewMathSymbolEntry("F", nil, "M", ast.NoQuantification, fn, nil, nil, nil)

	nSym := NewMathSymbolEntry("N", nil, "M", ast.NoQuantification, g.SSet, nil, nil, nil)
	nValue, _ := nSym.TypeValue()
	sSym := NewMathSymbolEntry("S", nil, "M", ast.NoQuantification, g.Powertype(nValue), nil, nil, nil)
	sValue, _ := sSym.TypeValue()

	n = Argument{Type: nSym.Type, TypeValue: nValue}
	s = Argument{Type: sSym.Type, TypeValue: sValue}
	return f, n, s
}

func TestDeschematize_EarlierParameterBindsLater(t *testing.T) {
	g := typesystem.NewGraph()
	f, n, s := dependentSetFixture(g)

	got, err := f.Deschematize([]Argument{n, s}, nil)
	if err != nil {
		t.Fatalf("Deschematize(N, S): %v", err)
	}
	fn := got.Type.(*typesystem.Function)
	if fn.Range != n.TypeValue {
		t.Errorf("range = %s, want N", fn.Range)
	}
	if p := fn.Params()[1]; !typesystem.Equal(p, g.Powertype(n.TypeValue)) {
		t.Errorf("second parameter = %s, want Powerset(N)", p)
	}
	if len(got.SchematicTypes) != 0 {
		t.Error("a deschematized entry has no schematic types")
	}
	if f.Type.(*typesystem.Function).Range.String() != "T" {
		t.Error("Deschematize modified the original entry")
	}
}

func TestDeschematize_SwappedArgumentsHaveNoSolution(t *testing.T) {
	g := typesystem.NewGraph()
	f, n, s := dependentSetFixture(g)

	_, err := f.Deschematize([]Argument{s, n}, nil)
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
}

func TestDeschematize_SchematicTypes(t *testing.T) {
	g := typesystem.NewGraph()
	z := g.ProperFor("Z", g.SSet)
	T := g.Named("T")
	// Definition Singleton(x : T) : Powerset(T), T a schematic type
	fn := g.TaggedFunction(g.Powertype(T), []string{"x"}, []typesystem.MathType{T})
	single := NewMathSymbolEntry("Singleton", nil, "M", ast.NoQuantification, fn, nil,
		map[string]typesystem.MathType{"T": g.MType}, nil)

	got, err := single.Deschematize([]Argument{{Type: z}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := g.FunctionOf(g.Powertype(z), z)
	if !typesystem.Equal(got.Type, want) {
		t.Errorf("type = %s, want %s", got.Type, want)
	}

	// Pair(x, y : T) : T binds T from x; y then faces plain Z, which is
	// left for the caller to check.
	pair := NewMathSymbolEntry("Pair", nil, "M", ast.NoQuantification, g.FunctionOf(T, T, T), nil,
		map[string]typesystem.MathType{"T": g.MType}, nil)
	got, err = pair.Deschematize([]Argument{{Type: z}, {Type: g.Boolean}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := g.FunctionOf(z, z, z); !typesystem.Equal(got.Type, want) {
		t.Errorf("type = %s, want %s", got.Type, want)
	}
}

func TestDeschematize_BoundViolated(t *testing.T) {
	g := typesystem.NewGraph()
	T := g.Named("T")
	f := NewMathSymbolEntry("Card", nil, "M", ast.NoQuantification, g.FunctionOf(T, g.Powertype(T)), nil,
		map[string]typesystem.MathType{"T": g.SSet}, nil)
	_, err := f.Deschematize([]Argument{{Type: g.Powertype(g.MType)}}, nil)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("MType is outside the bound SSet, got %v", err)
	}
}

func TestDeschematize_Arity(t *testing.T) {
	g := typesystem.NewGraph()
	z := g.ProperFor("Z", g.SSet)
	f := NewMathSymbolEntry("Max", nil, "M", ast.NoQuantification, g.FunctionOf(z, z, z), nil, nil, nil)

	if _, err := f.Deschematize([]Argument{{Type: z}}, nil); !errors.Is(err, ErrNoSolution) {
		t.Errorf("one argument for two: %v", err)
	}

	// A single tuple argument splats into the parameters.
	tuple := Argument{Type: g.CartesianOf(z, z), Exp: &ast.TupleExp{Fields: []ast.Exp{&ast.VarExp{Name: "a"}, &ast.VarExp{Name: "b"}}}}
	if _, err := f.Deschematize([]Argument{tuple}, nil); err != nil {
		t.Errorf("tuple splat: %v", err)
	}

	nonFunction := NewMathSymbolEntry("c", nil, "M", ast.NoQuantification, z, nil, nil, nil)
	if _, err := nonFunction.Deschematize(nil, nil); !errors.Is(err, ErrNoSolution) {
		t.Errorf("a constant is not applied: %v", err)
	}
}

// Non-schematic formals are not checked here: Deschematize accepts an
// argument of the wrong type and leaves the check to its caller. The
// analyzer's domain match is that check.
func TestDeschematize_DefersNonSchematicFormals(t *testing.T) {
	g := typesystem.NewGraph()
	z := g.ProperFor("Z", g.SSet)
	f := NewMathSymbolEntry("Succ", nil, "M", ast.NoQuantification, g.FunctionOf(z, z), nil, nil, nil)
	got, err := f.Deschematize([]Argument{{Type: g.Boolean}}, nil)
	if err != nil {
		t.Fatalf("non-schematic formal was checked: %v", err)
	}
	if g.IsSubtype(g.Boolean, got.Type.(*typesystem.Function).Domain) {
		t.Error("B is not in Z; the caller must reject this")
	}
}

func TestDeschematize_GenericsOfDefiningModule(t *testing.T) {
	g := typesystem.NewGraph()
	z := g.ProperFor("Z", g.SSet)
	Entry := g.Named("Entry")
	generics := map[string]typesystem.MathType{"Entry": g.MType}
	// Definition Is_Present(e : Entry) : B inside Stack_Template(type Entry)
	f := NewMathSymbolEntry("Is_Present", nil, "Stack_Template", ast.NoQuantification,
		g.FunctionOf(g.Boolean, Entry), nil, nil, generics)

	// Outside the concept Entry is inferred from the argument.
	got, err := f.Deschematize([]Argument{{Type: z}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !typesystem.Equal(got.Type, g.FunctionOf(g.Boolean, z)) {
		t.Errorf("outside: %s", got.Type)
	}

	// Inside it stays the generic.
	got, err = f.Deschematize([]Argument{{Type: z}}, generics)
	if err != nil {
		t.Fatal(err)
	}
	if !typesystem.Equal(got.Type, f.Type) {
		t.Errorf("inside: %s, want %s", got.Type, f.Type)
	}
}
