package analyzer

import (
	"testing"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

func TestPopulateMaxDefinition(t *testing.T) {
	a := newTestAnalyzer()
	theory := populateAll(t, a, integerTheory())
	z := typeValueOf(t, theory, "Z")

	body := &ast.IfExp{Test: infix(v("x"), ">", v("y")), Then: v("x"), Else: v("y")}
	m := precis("Max_Theory", []string{"Integer_Theory"},
		def("Max", nameTy("Z"), body, mvar("x", nameTy("Z")), mvar("y", nameTy("Z"))))
	scope := populateAll(t, a, m)

	fn, ok := mathSymbol(t, scope, "Max").Type.(*typesystem.Function)
	if !ok {
		t.Fatalf("Max has type %v, expected a function", mathSymbol(t, scope, "Max").Type)
	}
	if fn.Range != z {
		t.Errorf("Max range = %v, expected Z", fn.Range)
	}
	if got := len(fn.Params()); got != 2 {
		t.Errorf("Max takes %d parameters, expected 2", got)
	}
	tm := a.TypeMap(symbols.ModuleIdentifier("Max_Theory"))
	if tm.Type(body) != z {
		t.Errorf("if-expression typed %v, expected Z", tm.Type(body))
	}
	if tm.Type(body.Test) != typesystem.MathType(a.Table().Graph().Boolean) {
		t.Errorf("test typed %v, expected B", tm.Type(body.Test))
	}
}

func TestPopulateTypesEveryExpression(t *testing.T) {
	a := newTestAnalyzer()
	populateAll(t, a, integerTheory())

	positive := &ast.QuantExp{
		Quantifier: ast.Universal,
		Vars:       []*ast.MathVarDec{mvar("n", nameTy("Z"))},
		Body:       infix(v("n"), ">", v("zero")),
	}
	set := &ast.SetExp{Var: mvar("n", nameTy("Z")), Predicate: infix(v("n"), ">", v("zero"))}
	m := precis("Order_Theory", []string{"Integer_Theory"},
		def("All_Positive", nameTy("B"), positive),
		def("Positives", expTy(call("Powerset", v("Z"))), set),
		&ast.MathAssertionDec{Kind: ast.Axiom, Name: "Zero_Not_Positive", Assertion: &ast.PrefixExp{
			Operator: "not", Arg: infix(v("zero"), ">", v("zero")),
		}},
	)
	scope := populateAll(t, a, m)

	tm := a.TypeMap(symbols.ModuleIdentifier("Order_Theory"))
	ast.Inspect(m, func(n ast.Node) bool {
		if e, ok := n.(ast.Exp); ok && !tm.HasType(e) {
			t.Errorf("%s left untyped", ast.Format(e))
		}
		return true
	})

	positives := mathSymbol(t, scope, "Positives")
	if !positives.HasTypeValue() {
		t.Fatal("Positives should denote a type")
	}
	value, _ := positives.TypeValue()
	if _, ok := value.(*typesystem.SetRestriction); !ok {
		t.Errorf("Positives denotes %T, expected a set restriction", value)
	}
	if _, ok := scope.Lookup("Zero_Not_Positive"); !ok {
		t.Error("axiom not bound")
	}
}

func TestPopulateInnerBindingsHideOuterNames(t *testing.T) {
	quant := func(q ast.Quantification, name string, body ast.Exp) *ast.QuantExp {
		return &ast.QuantExp{Quantifier: q, Vars: []*ast.MathVarDec{mvar(name, nameTy("Z"))}, Body: body}
	}
	type bound struct {
		in   func(d *ast.MathDefinitionDec) ast.Node // node defining the scope
		name string
		q    ast.Quantification
	}
	bodyQuant := func(d *ast.MathDefinitionDec) ast.Node { return d.Body }
	innerQuant := func(d *ast.MathDefinitionDec) ast.Node { return d.Body.(*ast.QuantExp).Body }
	self := func(d *ast.MathDefinitionDec) ast.Node { return d }

	tests := []struct {
		name  string
		build func(use *ast.VarExp) *ast.MathDefinitionDec
		want  []bound
	}{
		{
			name: "universal",
			build: func(use *ast.VarExp) *ast.MathDefinitionDec {
				return def("All", nameTy("B"), quant(ast.Universal, "n", infix(use, ">", v("zero"))))
			},
			want: []bound{{bodyQuant, "n", ast.Universal}},
		},
		{
			name: "existential",
			build: func(use *ast.VarExp) *ast.MathDefinitionDec {
				return def("Some", nameTy("B"), quant(ast.Existential, "n", infix(use, ">", v("zero"))))
			},
			want: []bound{{bodyQuant, "n", ast.Existential}},
		},
		{
			name: "unique",
			build: func(use *ast.VarExp) *ast.MathDefinitionDec {
				return def("One", nameTy("B"), quant(ast.Unique, "n", infix(use, ">", v("zero"))))
			},
			want: []bound{{bodyQuant, "n", ast.Unique}},
		},
		{
			name: "nested quantifiers",
			build: func(use *ast.VarExp) *ast.MathDefinitionDec {
				return def("Below", nameTy("B"),
					quant(ast.Existential, "m", quant(ast.Universal, "n", infix(use, ">", v("m")))))
			},
			want: []bound{{bodyQuant, "m", ast.Existential}, {innerQuant, "n", ast.Universal}},
		},
		{
			name: "definition parameter",
			build: func(use *ast.VarExp) *ast.MathDefinitionDec {
				return def("Pos", nameTy("B"), infix(use, ">", v("zero")), mvar("n", nameTy("Z")))
			},
			want: []bound{{self, "n", ast.Universal}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer()
			theory := populateAll(t, a, integerTheory())
			z := typeValueOf(t, theory, "Z")

			use := v("n")
			d := tt.build(use)
			module := populateAll(t, a, precis("Shadow_Theory", []string{"Integer_Theory"}, def("n", nameTy("B"), nil), d))

			if outer := mathSymbol(t, module, "n"); outer.Type != typesystem.MathType(a.Table().Graph().Boolean) {
				t.Errorf("module n typed %v, expected B", outer.Type)
			}
			if got := a.TypeMap("Shadow_Theory").Type(use); got != z {
				t.Errorf("inner n typed %v, expected Z", got)
			}
			for _, b := range tt.want {
				scope := findScope(module, b.in(d))
				if scope == nil {
					t.Fatalf("no scope for %s", b.name)
				}
				sym := mathSymbol(t, scope, b.name)
				if sym.Quantification != b.q || sym.Type != z {
					t.Errorf("%s bound %s : %v, expected %s : Z", b.name, sym.Quantification, sym.Type, b.q)
				}
			}
		})
	}
}

func findScope(s *symbols.Scope, def ast.Node) *symbols.Scope {
	if s.DefiningElement() == def {
		return s
	}
	for _, c := range s.Children() {
		if found := findScope(c, def); found != nil {
			return found
		}
	}
	return nil
}

func TestPopulateSchematicTypeParameter(t *testing.T) {
	a := newTestAnalyzer()
	m := precis("Identity_Theory", nil,
		def("Id", nameTy("T"), nil, mvar("T", nameTy("SSet")), mvar("x", nameTy("T"))))
	scope := populateAll(t, a, m)

	id := mathSymbol(t, scope, "Id")
	if got := id.SchematicTypes["T"]; got != typesystem.MathType(a.Table().Graph().SSet) {
		t.Errorf("schematic T bounded by %v, expected SSet", got)
	}
	if id.SchematicTypes["x"] != nil {
		t.Error("x holds values, not types; it cannot be schematic")
	}
}

func TestPopulateArgumentsRecheckedAfterDeschematize(t *testing.T) {
	a := newTestAnalyzer()
	succ := precis("Succ_Theory", []string{"Integer_Theory"},
		def("Succ", nameTy("Z"), nil, mvar("n", nameTy("Z"))))
	bad := precis("Bad_Succ", []string{"Integer_Theory", "Succ_Theory"},
		def("One", nameTy("Z"), call("Succ", v("true"))))

	de := expectPopulateError(t, a, diagnostics.ErrS005, integerTheory(), succ, bad)
	expectErrorContains(t, de, "No function applicable for domain")
	expectErrorContains(t, de, "Succ_Theory::Succ")
}

func TestPopulateOverloads(t *testing.T) {
	zFunction := func(module string) *ast.Module {
		return precis(module, []string{"Integer_Theory"}, def("F", nameTy("Z"), nil, mvar("x", nameTy("Z"))))
	}
	entityFunction := precis("Entity_Theory", nil, def("F", nameTy("B"), nil, mvar("x", nameTy("Entity"))))

	t.Run("exact domain wins", func(t *testing.T) {
		a := newTestAnalyzer()
		theory := populateAll(t, a, integerTheory())
		populateAll(t, a, zFunction("Z_Theory"), entityFunction)

		body := call("F", v("zero"))
		user := precis("User", []string{"Integer_Theory", "Z_Theory", "Entity_Theory"}, def("Pick", nameTy("Z"), body))
		populateAll(t, a, user)

		got := a.TypeMap("User").Type(body)
		if got != typeValueOf(t, theory, "Z") {
			t.Errorf("F(zero) typed %v, expected Z", got)
		}
	})

	t.Run("inexact match when no domain is exact", func(t *testing.T) {
		a := newTestAnalyzer()
		populateAll(t, a, integerTheory(), entityFunction)

		body := call("F", v("zero"))
		user := precis("User", []string{"Integer_Theory", "Entity_Theory"}, def("Pick", nameTy("B"), body))
		populateAll(t, a, user)

		if got := a.TypeMap("User").Type(body); got != typesystem.MathType(a.Table().Graph().Boolean) {
			t.Errorf("F(zero) typed %v, expected B", got)
		}
	})

	t.Run("two exact domains are ambiguous", func(t *testing.T) {
		a := newTestAnalyzer()
		user := precis("User", []string{"Integer_Theory", "Z_Theory", "Other_Z_Theory"},
			def("Pick", nameTy("Z"), call("F", v("zero"))))
		de := expectPopulateError(t, a, diagnostics.ErrS003,
			integerTheory(), zFunction("Z_Theory"), zFunction("Other_Z_Theory"), user)
		expectErrorContains(t, de, "Consider explicitly qualifying")
	})

	t.Run("qualification picks one", func(t *testing.T) {
		a := newTestAnalyzer()
		body := &ast.FunctionExp{Qualifier: "Other_Z_Theory", Name: "F", Args: []ast.Exp{v("zero")}}
		user := precis("User", []string{"Integer_Theory", "Z_Theory", "Other_Z_Theory"}, def("Pick", nameTy("Z"), body))
		populateAll(t, a, integerTheory(), zFunction("Z_Theory"), zFunction("Other_Z_Theory"), user)
	})
}

func TestPopulateTypeTheoremWidensArguments(t *testing.T) {
	a := newTestAnalyzer()
	theorem := &ast.MathTypeTheoremDec{
		Name:          "N_Subset_Z",
		UniversalVars: []*ast.MathVarDec{mvar("n", nameTy("N"))},
		Assertion:     &ast.TypeAssertionExp{Exp: v("n"), Ty: nameTy("Z")},
	}
	naturals := precis("Natural_Theory", []string{"Integer_Theory"},
		theorem,
		def("one", nameTy("N"), nil),
		def("Positive", nameTy("B"), infix(v("one"), ">", v("zero"))),
	)
	populateAll(t, a, integerTheory(), naturals)

	if got := len(a.Table().Graph().Relationships()); got != 1 {
		t.Errorf("%d relationships registered, expected 1", got)
	}
}

func TestPopulateFailureRollsBack(t *testing.T) {
	a := newTestAnalyzer()
	populateAll(t, a, integerTheory())

	broken := precis("Broken", []string{"Integer_Theory"},
		&ast.MathTypeTheoremDec{
			Name:          "N_Subset_Z",
			UniversalVars: []*ast.MathVarDec{mvar("n", nameTy("N"))},
			Assertion:     &ast.TypeAssertionExp{Exp: v("n"), Ty: nameTy("Z")},
		},
		def("Bad", nameTy("Z"), v("Nope")),
	)
	expectPopulateError(t, a, diagnostics.ErrS002, broken)

	if got := len(a.Table().Graph().Relationships()); got != 0 {
		t.Errorf("%d relationships survived the failed module", got)
	}
	if a.Table().HasModule("Broken") {
		t.Error("failed module was registered")
	}
	if a.TypeMap("Broken") != nil {
		t.Error("failed module kept a type map")
	}

	// The name is free again and the table is usable.
	populateAll(t, a, precis("Broken", []string{"Integer_Theory"}, def("Good", nameTy("Z"), v("zero"))))
}

func TestPopulateErrors(t *testing.T) {
	tests := []struct {
		name   string
		module *ast.Module
		code   diagnostics.ErrorCode
		substr string
	}{
		{
			name:   "duplicate definition",
			module: precis("Dup", nil, def("Q", nameTy("SSet"), nil), def("Q", nameTy("SSet"), nil)),
			code:   diagnostics.ErrS001,
		},
		{
			name:   "unknown symbol",
			module: precis("Unknown", []string{"Integer_Theory"}, def("Bad", nameTy("Z"), v("Nope"))),
			code:   diagnostics.ErrS002,
			substr: "Nope",
		},
		{
			name:   "unknown module",
			module: precis("Lost", []string{"Missing_Theory"}),
			code:   diagnostics.ErrS011,
			substr: "No such module: Missing_Theory",
		},
		{
			name:   "unknown function",
			module: precis("NoFn", []string{"Integer_Theory"}, def("Bad", nameTy("Z"), call("Nope", v("zero")))),
			code:   diagnostics.ErrS012,
			substr: "No such function: Nope",
		},
		{
			name: "direct definition calls itself",
			module: precis("Loop_Theory", []string{"Integer_Theory"},
				def("Loop", nameTy("Z"), call("Loop", v("x")), mvar("x", nameTy("Z")))),
			code:   diagnostics.ErrS007,
			substr: "recursive call",
		},
		{
			name: "type parameter introduced after use",
			module: precis("Late_Theory", []string{"Integer_Theory"},
				def("F", nameTy("B"), nil, mvar("S", expTy(call("Powerset", v("Z")))), mvar("Z", nameTy("SSet")))),
			code:   diagnostics.ErrS013,
			substr: "must precede any use",
		},
		{
			name: "branches disagree",
			module: precis("Branches", []string{"Integer_Theory"},
				def("Bad", nameTy("Z"), &ast.IfExp{Test: v("true"), Then: v("zero"), Else: v("false")})),
			code:   diagnostics.ErrS006,
			substr: "Branches must share a type",
		},
		{
			name: "body outside declared range",
			module: precis("Range", []string{"Integer_Theory"},
				def("Bad", nameTy("Z"), v("true"))),
			code: diagnostics.ErrS006,
		},
		{
			name: "type assertion outside a type",
			module: precis("Assert", []string{"Integer_Theory"},
				def("Bad", nameTy("B"), &ast.TypeAssertionExp{Exp: v("zero"), Ty: nameTy("Z")})),
			code:   diagnostics.ErrS013,
			substr: "EXPR : TYPE",
		},
		{
			name: "malformed type theorem",
			module: precis("Shape", []string{"Integer_Theory"},
				&ast.MathTypeTheoremDec{
					Name:          "Bad",
					UniversalVars: []*ast.MathVarDec{mvar("n", nameTy("Z"))},
					Assertion:     infix(v("n"), ">", v("zero")),
				}),
			code:   diagnostics.ErrS010,
			substr: "must be 'implies' or ':'",
		},
		{
			name:   "value used as a type",
			module: precis("NotType", []string{"Integer_Theory"}, def("Bad", nameTy("zero"), nil)),
			code:   diagnostics.ErrS004,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := expectPopulateError(t, newTestAnalyzer(), tt.code, integerTheory(), tt.module)
			if tt.substr != "" {
				expectErrorContains(t, de, tt.substr)
			}
		})
	}
}

func TestPopulateRejectsRepeatedModule(t *testing.T) {
	a := newTestAnalyzer()
	populateAll(t, a, integerTheory())
	expectPopulateError(t, a, diagnostics.ErrS001, integerTheory())
}
