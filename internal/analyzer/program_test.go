package analyzer

import (
	"testing"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
)

func isOperationEntry(e symbols.Entry) bool {
	_, err := e.ToOperation()
	return err == nil
}

func TestPopulateStackFacility(t *testing.T) {
	a := newTestAnalyzer()
	scope := populateAll(t, a, stackTemplate(), arrayRealization(), getNthAbility(),
		stackFacility(&ast.ModuleArgument{Ty: nameTy("Token")}))

	e, ok := scope.Lookup("Stack_Fac")
	if !ok {
		t.Fatal("Stack_Fac not bound")
	}
	f, err := e.ToFacility()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("enhancement shares the concept realization", func(t *testing.T) {
		r, ok := f.EnhancementRealization("Get_Nth_Ability")
		if !ok {
			t.Fatal("no realization for Get_Nth_Ability")
		}
		if r != f.Realization {
			t.Errorf("enhancement realized by %v, expected the facility realization %v", r.Module, f.Realization.Module)
		}
	})

	tokenEntry, _ := scope.Lookup("Token")
	token, err := tokenEntry.ToProgramType()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("facility type is its own representation", func(t *testing.T) {
		if _, err := tokenEntry.ToFacilityTypeRepresentation(); err != nil {
			t.Error(err)
		}
		if _, err := tokenEntry.ToTypeRepresentation(); err == nil {
			t.Error("Token realizes no family")
		}
	})

	t.Run("module entries", func(t *testing.T) {
		short := &ast.Module{
			Kind: ast.FacilityModule,
			Name: "Token_Stack_Facility",
			Uses: []*ast.UsesItem{{Name: "Stack_Facility"}},
			Decs: []ast.Dec{&ast.FacilityDec{
				Name:        "Token_Stack",
				Concept:     "Stack_Template",
				ConceptArgs: []*ast.ModuleArgument{{Ty: nameTy("Token")}},
				Realization: "Array_Based_Realization",
			}},
		}
		populateAll(t, a, short)

		e, _ := a.Table().ModuleEntry("Token_Stack_Facility")
		sf, err := e.ToShortFacility()
		if err != nil {
			t.Fatal(err)
		}
		if sf.Facility.Name() != "Token_Stack" {
			t.Errorf("short facility stands for %s", sf.Facility.Name())
		}
		long, _ := a.Table().ModuleEntry("Stack_Facility")
		if _, err := long.ToShortFacility(); err == nil {
			t.Error("Stack_Facility also declares Token")
		}
	})

	t.Run("generic bound to the type argument", func(t *testing.T) {
		if got := f.GenericInstantiations()["Entry"]; got != token.ProgramType {
			t.Errorf("Entry instantiated as %v, expected Token", got)
		}
	})

	t.Run("qualified operation is instantiated", func(t *testing.T) {
		found, err := scope.QueryForOne(symbols.NameAndKindQuery("Stack_Fac", "Push", isOperationEntry,
			symbols.ImportNamed, symbols.FacilityInstantiate))
		if err != nil {
			t.Fatal(err)
		}
		op, _ := found.ToOperation()
		if got := op.Params[0].ProgramType; got != token.ProgramType {
			t.Errorf("Push takes %v, expected Token", got)
		}
	})

	t.Run("enhancement operations are reachable", func(t *testing.T) {
		if _, err := scope.QueryForOne(symbols.NameAndKindQuery("Stack_Fac", "Peek", isOperationEntry,
			symbols.ImportNamed, symbols.FacilityInstantiate)); err != nil {
			t.Error(err)
		}
	})
}

func TestPopulateRealizationTypesRecords(t *testing.T) {
	a := newTestAnalyzer()
	realization := arrayRealization()
	populateAll(t, a, stackTemplate(), realization)

	assign := realization.Decs[1].(*ast.ProcedureDec).Body[0].(*ast.AssignStmt)
	target, ok := a.ProgramType("Array_Based_Realization", assign.Var)
	if !ok {
		t.Fatal("S.Top has no program type")
	}
	if _, ok := target.(*symbols.PTGeneric); !ok {
		t.Errorf("S.Top is %v, expected the generic Entry", target)
	}

	tm := a.TypeMap("Array_Based_Realization")
	repr := realization.Decs[0].(*ast.TypeRepresentationDec)
	ast.Inspect(repr, func(n ast.Node) bool {
		if e, ok := n.(ast.Exp); ok && !tm.HasType(e) {
			t.Errorf("%s left untyped", ast.Format(e))
		}
		return true
	})
}

func TestPopulateProcedureSignature(t *testing.T) {
	tests := []struct {
		name   string
		proc   *ast.ProcedureDec
		code   diagnostics.ErrorCode
		substr string
	}{
		{
			name: "parameter renamed",
			proc: procedure("Push", storeTop(),
				param(ast.Alters, "e", "Entry"), param(ast.Updates, "T", "Stack")),
			code:   diagnostics.ErrS009,
			substr: "Parameter 2's name",
		},
		{
			name:   "parameter missing",
			proc:   procedure("Push", nil, param(ast.Alters, "e", "Entry")),
			code:   diagnostics.ErrS009,
			substr: "Expected count: 2",
		},
		{
			name: "weaker mode",
			proc: procedure("Push", storeTop(),
				param(ast.Preserves, "e", "Entry"), param(ast.Updates, "S", "Stack")),
			code:   diagnostics.ErrS008,
			substr: "alters mode parameter cannot be implemented with preserves mode",
		},
		{
			name:   "no such operation",
			proc:   procedure("Pop", nil, param(ast.Updates, "S", "Stack")),
			code:   diagnostics.ErrS002,
			substr: "does not implement any known operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := expectPopulateError(t, newTestAnalyzer(), tt.code, stackTemplate(), arrayRealization(tt.proc))
			expectErrorContains(t, de, tt.substr)
		})
	}
}

func TestPopulateStrongerModeAccepted(t *testing.T) {
	proc := procedure("Push", storeTop(), param(ast.Clears, "e", "Entry"), param(ast.Restores, "S", "Stack"))
	populateAll(t, newTestAnalyzer(), stackTemplate(), arrayRealization(proc))
}

func TestPopulateProcedureRecursion(t *testing.T) {
	selfCall := func() []ast.Stmt { return []ast.Stmt{pcall("Push", pname("e"), pname("S"))} }
	params := func() []*ast.ParameterVarDec {
		return []*ast.ParameterVarDec{param(ast.Alters, "e", "Entry"), param(ast.Updates, "S", "Stack")}
	}

	t.Run("unmarked self call", func(t *testing.T) {
		proc := procedure("Push", selfCall(), params()...)
		de := expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS007, stackTemplate(), arrayRealization(proc))
		expectErrorContains(t, de, "not marked recursive")
	})

	t.Run("marked without self call", func(t *testing.T) {
		proc := procedure("Push", storeTop(), params()...)
		proc.Recursive = true
		de := expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS013, stackTemplate(), arrayRealization(proc))
		expectErrorContains(t, de, "does not call itself")
	})

	t.Run("marked with self call", func(t *testing.T) {
		proc := procedure("Push", selfCall(), params()...)
		proc.Recursive = true
		populateAll(t, newTestAnalyzer(), stackTemplate(), arrayRealization(proc))
	})
}

func TestPopulateUnimplementedOperation(t *testing.T) {
	empty := &ast.Module{Kind: ast.ConceptRealizationModule, Name: "Empty_Realization", Concept: "Stack_Template"}
	de := expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS014, stackTemplate(), empty)
	expectErrorContains(t, de, "Operation Push is not implemented.")
}

func TestPopulateFacilityArguments(t *testing.T) {
	t.Run("count mismatch", func(t *testing.T) {
		de := expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS009,
			stackTemplate(), arrayRealization(), getNthAbility(), stackFacility())
		if len(de.Notes) != 1 || de.Notes[0] != "Stack_Template expects 1, found 0" {
			t.Errorf("notes = %q", de.Notes)
		}
	})

	t.Run("type parameter given an expression", func(t *testing.T) {
		arg := &ast.ModuleArgument{Exp: &ast.ProgramLiteralExp{Kind: ast.IntegerLiteral, Value: "3"}}
		expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS004,
			stackTemplate(), arrayRealization(), getNthAbility(), stackFacility(arg))
	})

	t.Run("unknown realization", func(t *testing.T) {
		m := stackFacility(&ast.ModuleArgument{Ty: nameTy("Token")})
		m.Decs[1].(*ast.FacilityDec).Realization = "Missing_Realization"
		expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS011,
			stackTemplate(), arrayRealization(), getNthAbility(), m)
	})
}

func TestPopulateRepresentationNeedsFamily(t *testing.T) {
	m := &ast.Module{
		Kind:    ast.ConceptRealizationModule,
		Name:    "Queue_Realization",
		Concept: "Stack_Template",
		Decs: []ast.Dec{
			&ast.TypeRepresentationDec{Name: "Queue", Representation: &ast.RecordTy{}},
		},
	}
	de := expectPopulateError(t, newTestAnalyzer(), diagnostics.ErrS002, stackTemplate(), m)
	expectErrorContains(t, de, "No type family Queue to represent.")
}

func TestPopulateOperationProfile(t *testing.T) {
	profileModule := func(p *ast.OperationProfileDec) *ast.Module {
		return &ast.Module{
			Kind:    ast.EnhancementModule,
			Name:    "Stack_Profile",
			Concept: "Stack_Template",
			Decs:    []ast.Dec{p},
		}
	}
	pushProfile := func(params ...*ast.ParameterVarDec) *ast.OperationProfileDec {
		return &ast.OperationProfileDec{Name: "Push", Params: params, Duration: v("true")}
	}

	t.Run("bound to its operation", func(t *testing.T) {
		a := newTestAnalyzer()
		concept := populateAll(t, a, stackTemplate())
		p := pushProfile(param(ast.Alters, "e", "Entry"), param(ast.Updates, "S", "Stack"))
		scope := populateAll(t, a, profileModule(p))

		e, ok := scope.Lookup("Push")
		if !ok {
			t.Fatal("profile not bound")
		}
		profile, err := e.ToOperationProfile()
		if err != nil {
			t.Fatal(err)
		}
		op, _ := concept.Lookup("Push")
		if profile.Operation != op {
			t.Errorf("profile of %s, expected Stack_Template::Push", symbols.FullyQualifiedName(profile.Operation))
		}
		if !a.TypeMap("Stack_Profile").HasType(p.Duration) {
			t.Error("duration left untyped")
		}
	})

	tests := []struct {
		name    string
		profile *ast.OperationProfileDec
		code    diagnostics.ErrorCode
		substr  string
	}{
		{
			name:    "unknown operation",
			profile: &ast.OperationProfileDec{Name: "Pop"},
			code:    diagnostics.ErrS002,
			substr:  "Profile Pop does not profile any known operation.",
		},
		{
			name:    "parameter count",
			profile: pushProfile(param(ast.Alters, "e", "Entry")),
			code:    diagnostics.ErrS009,
			substr:  "Expected count: 2",
		},
		{
			name:    "parameter mode",
			profile: pushProfile(param(ast.Replaces, "e", "Entry"), param(ast.Updates, "S", "Stack")),
			code:    diagnostics.ErrS009,
			substr:  "Parameter 1 of the profile",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := expectPopulateError(t, newTestAnalyzer(), tt.code, stackTemplate(), profileModule(tt.profile))
			expectErrorContains(t, de, tt.substr)
		})
	}
}
