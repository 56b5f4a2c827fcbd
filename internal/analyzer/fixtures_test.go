package analyzer

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// Builders for hand-assembled modules. Tokens are left zero.

func v(name string) *ast.VarExp { return &ast.VarExp{Name: name} }

func call(name string, args ...ast.Exp) *ast.FunctionExp {
	return &ast.FunctionExp{Name: name, Args: args}
}

func infix(l ast.Exp, op string, r ast.Exp) *ast.InfixExp {
	return &ast.InfixExp{Left: l, Operator: op, Right: r}
}

func dot(segs ...ast.Exp) *ast.DotExp { return &ast.DotExp{Segments: segs} }

func nameTy(name string) *ast.NameTy              { return &ast.NameTy{Name: name} }
func expTy(e ast.Exp) *ast.ArbitraryExpTy         { return &ast.ArbitraryExpTy{Exp: e} }
func mvar(name string, ty ast.Ty) *ast.MathVarDec { return &ast.MathVarDec{Name: name, Ty: ty} }

func def(name string, ret ast.Ty, body ast.Exp, params ...*ast.MathVarDec) *ast.MathDefinitionDec {
	return &ast.MathDefinitionDec{Name: name, ReturnTy: ret, Body: body, Params: params}
}

func precis(name string, uses []string, decs ...ast.Dec) *ast.Module {
	m := &ast.Module{Kind: ast.PrecisModule, Name: name, Decs: decs}
	for _, u := range uses {
		m.Uses = append(m.Uses, &ast.UsesItem{Name: u})
	}
	return m
}

// integerTheory declares Z and N with a zero and an ordering on Z.
func integerTheory() *ast.Module {
	return precis("Integer_Theory", nil,
		def("Z", nameTy("SSet"), nil),
		def("N", nameTy("SSet"), nil),
		def("zero", nameTy("Z"), nil),
		def(">", nameTy("B"), nil, mvar("x", nameTy("Z")), mvar("y", nameTy("Z"))),
	)
}

func param(mode ast.ParameterMode, name, ty string) *ast.ParameterVarDec {
	return &ast.ParameterVarDec{Mode: mode, Name: name, Ty: nameTy(ty)}
}

func operation(name string, params ...*ast.ParameterVarDec) *ast.OperationDec {
	return &ast.OperationDec{Name: name, Params: params}
}

func procedure(name string, body []ast.Stmt, params ...*ast.ParameterVarDec) *ast.ProcedureDec {
	return &ast.ProcedureDec{Name: name, Params: params, Body: body}
}

func pname(name string) *ast.ProgramVariableNameExp {
	return &ast.ProgramVariableNameExp{Name: name}
}

func pcall(name string, args ...ast.ProgramExp) *ast.CallStmt {
	return &ast.CallStmt{Call: &ast.ProgramFunctionExp{Name: name, Args: args}}
}

// stackTemplate is a one-operation stack concept over a generic Entry.
func stackTemplate() *ast.Module {
	return &ast.Module{
		Kind:   ast.ConceptModule,
		Name:   "Stack_Template",
		Params: []ast.Dec{&ast.ConceptTypeParamDec{Name: "Entry"}},
		Decs: []ast.Dec{
			&ast.TypeFamilyDec{Name: "Stack", Model: nameTy("Entity"), Exemplar: "S"},
			operation("Push", param(ast.Alters, "e", "Entry"), param(ast.Updates, "S", "Stack")),
		},
	}
}

// arrayRealization realizes Stack_Template with the given procedures.
// With none it gets a Push that stores its entry.
func arrayRealization(procs ...ast.Dec) *ast.Module {
	if len(procs) == 0 {
		procs = []ast.Dec{procedure("Push", storeTop(),
			param(ast.Alters, "e", "Entry"), param(ast.Updates, "S", "Stack"))}
	}
	repr := &ast.TypeRepresentationDec{
		Name: "Stack",
		Representation: &ast.RecordTy{Fields: []*ast.VarDec{
			{Name: "Top", Ty: nameTy("Entry")},
		}},
		Convention:     infix(dot(v("S"), v("Top")), "=", dot(v("S"), v("Top"))),
		Correspondence: infix(v("conc"), "=", dot(v("Conc"), v("S"))),
	}
	return &ast.Module{
		Kind:    ast.ConceptRealizationModule,
		Name:    "Array_Based_Realization",
		Concept: "Stack_Template",
		Decs:    append([]ast.Dec{repr}, procs...),
	}
}

// storeTop is S.Top := e.
func storeTop() []ast.Stmt {
	return []ast.Stmt{&ast.AssignStmt{
		Var: &ast.ProgramVariableDotExp{Segments: []*ast.ProgramVariableNameExp{pname("S"), pname("Top")}},
		Exp: pname("e"),
	}}
}

func getNthAbility() *ast.Module {
	return &ast.Module{
		Kind:    ast.EnhancementModule,
		Name:    "Get_Nth_Ability",
		Concept: "Stack_Template",
		Decs:    []ast.Dec{operation("Peek", param(ast.Restores, "S", "Stack"))},
	}
}

// stackFacility instantiates the stack over a local Token type.
func stackFacility(args ...*ast.ModuleArgument) *ast.Module {
	return &ast.Module{
		Kind: ast.FacilityModule,
		Name: "Stack_Facility",
		Decs: []ast.Dec{
			&ast.TypeRepresentationDec{Name: "Token", Representation: &ast.RecordTy{}},
			&ast.FacilityDec{
				Name:         "Stack_Fac",
				Concept:      "Stack_Template",
				ConceptArgs:  args,
				Realization:  "Array_Based_Realization",
				Enhancements: []*ast.EnhancementSpecRealizItem{{Name: "Get_Nth_Ability"}},
			},
		},
	}
}

func newTestAnalyzer() *Analyzer {
	return New(symbols.NewTable(typesystem.NewGraph()))
}

// populateAll populates mods in order and returns the scope of the last.
func populateAll(t *testing.T, a *Analyzer, mods ...*ast.Module) *symbols.Scope {
	t.Helper()
	var scope *symbols.Scope
	for _, m := range mods {
		s, err := a.Populate(m)
		if err != nil {
			t.Fatalf("Populate(%s): %v", m.Name, err)
		}
		scope = s
	}
	return scope
}

// expectPopulateError populates all but the last module, then requires
// the last to fail with code.
func expectPopulateError(t *testing.T, a *Analyzer, code diagnostics.ErrorCode, mods ...*ast.Module) *diagnostics.DiagnosticError {
	t.Helper()
	populateAll(t, a, mods[:len(mods)-1]...)
	last := mods[len(mods)-1]
	scope, err := a.Populate(last)
	if err == nil {
		t.Fatalf("Populate(%s): expected error %s, got scope %v", last.Name, code, scope.Module())
	}
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("Populate(%s): expected a diagnostic, got %T: %v", last.Name, err, err)
	}
	if de.Code != code {
		t.Fatalf("Populate(%s): expected error %s, got %s", last.Name, code, de)
	}
	return de
}

func expectErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("expected error message to contain %q, got: %s", substr, err.Error())
	}
}

// typeValueOf returns what the math symbol name denotes in scope.
func typeValueOf(t *testing.T, scope *symbols.Scope, name string) typesystem.MathType {
	t.Helper()
	e, err := scope.QueryForOne(symbols.MathSymbolQuery("", name))
	if err != nil {
		t.Fatalf("query %s: %v", name, err)
	}
	sym, err := e.ToMathSymbol()
	if err != nil {
		t.Fatal(err)
	}
	value, err := sym.TypeValue()
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return value
}

func mathSymbol(t *testing.T, scope *symbols.Scope, name string) *symbols.MathSymbolEntry {
	t.Helper()
	e, ok := scope.Lookup(name)
	if !ok {
		t.Fatalf("%s not bound in %s", name, scope.Module())
	}
	sym, err := e.ToMathSymbol()
	if err != nil {
		t.Fatal(err)
	}
	return sym
}
