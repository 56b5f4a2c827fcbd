package analyzer

import (
	"fmt"
	"slices"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
)

// populate opens the module scope, resolves imports, visits parameters
// and declarations, and closes (seals) the scope.
func (w *walker) populate() (*symbols.Scope, error) {
	m := w.module
	if _, err := w.table.StartModuleScope(m); err != nil {
		return nil, w.symbolError(m, err)
	}
	if err := w.addImplicitImports(); err != nil {
		return nil, err
	}
	for _, u := range m.Uses {
		if err := w.addImport(u, u.Name); err != nil {
			return nil, err
		}
	}
	w.addAutoImports()

	for _, p := range m.Params {
		if err := w.visitModuleParam(p); err != nil {
			return nil, err
		}
	}
	for _, d := range m.Decs {
		if err := w.visitDec(d); err != nil {
			return nil, err
		}
	}
	if err := w.checkImplemented(); err != nil {
		return nil, err
	}
	if err := w.checkComplete(); err != nil {
		return nil, err
	}
	scope, err := w.table.EndScope()
	if err != nil {
		return nil, w.symbolError(m, err)
	}
	return scope, nil
}

// addImplicitImports imports the modules a realization or enhancement
// is written against, and adopts their type parameters as generics.
func (w *walker) addImplicitImports() error {
	m := w.module
	var implied []string
	switch m.Kind {
	case ast.ConceptRealizationModule, ast.EnhancementModule:
		implied = []string{m.Concept}
	case ast.EnhancementRealizationModule:
		implied = []string{m.Concept, m.Enhancement}
	}
	for _, name := range implied {
		if err := w.addImport(m, name); err != nil {
			return err
		}
		scope, _ := w.table.ModuleScope(symbols.ModuleIdentifier(name))
		for _, f := range scope.Formals() {
			if p, ok := f.(*symbols.ProgramParameterEntry); ok && p.Mode == ast.TypeMode {
				w.genericTypes[p.Name()] = w.g.MType
			}
		}
	}
	return nil
}

func (w *walker) addImport(node ast.Node, name string) error {
	id := symbols.ModuleIdentifier(name)
	if !w.table.HasModule(id) {
		return w.errorf(diagnostics.ErrS011, node, "No such module: %s", name)
	}
	w.scope().AddImport(id)
	return nil
}

// addAutoImports gives program modules the standard facilities. A module
// that is itself a standard facility only sees the ones before it.
func (w *walker) addAutoImports() {
	if !w.module.Kind.IsProgramModule() || slices.Contains(w.noAutoImport, w.module.Name) {
		return
	}
	for _, name := range w.autoImports {
		if name == w.module.Name {
			return
		}
		if id := symbols.ModuleIdentifier(name); w.table.HasModule(id) {
			w.scope().AddImport(id)
		}
	}
}

func (w *walker) visitModuleParam(p ast.Dec) error {
	scope := w.scope()
	var entry symbols.Entry
	switch d := p.(type) {
	case *ast.ConceptTypeParamDec:
		entry = symbols.NewProgramParameterEntry(d.Name, d, w.moduleID, ast.TypeMode, symbols.NewPTGeneric(w.g, d.Name))
		w.genericTypes[d.Name] = w.g.MType
	case *ast.ConstantParamDec:
		pt, err := w.programTy(d.Ty)
		if err != nil {
			return err
		}
		entry = symbols.NewProgramParameterEntry(d.Name, d, w.moduleID, ast.Evaluates, pt)
	case *ast.DefinitionParamDec:
		e, err := w.defineMath(d.Definition)
		if err != nil {
			return err
		}
		entry = e
	default:
		return w.errorf(diagnostics.ErrS013, p, "%s cannot be a module parameter.", ast.Format(p))
	}
	if err := scope.AddFormal(entry); err != nil {
		return w.symbolError(p, err)
	}
	return nil
}

func (w *walker) visitDec(d ast.Dec) error {
	switch n := d.(type) {
	case *ast.MathDefinitionDec:
		return w.VisitMathDefinitionDec(n)
	case *ast.MathAssertionDec:
		return w.VisitMathAssertionDec(n)
	case *ast.MathTypeTheoremDec:
		return w.VisitMathTypeTheoremDec(n)
	case *ast.TypeFamilyDec:
		return w.VisitTypeFamilyDec(n)
	case *ast.TypeRepresentationDec:
		return w.VisitTypeRepresentationDec(n)
	case *ast.VarDec:
		return w.VisitVarDec(n)
	case *ast.OperationDec:
		return w.VisitOperationDec(n)
	case *ast.OperationProfileDec:
		return w.VisitOperationProfileDec(n)
	case *ast.ProcedureDec:
		return w.VisitProcedureDec(n)
	case *ast.OperationProcedureDec:
		return w.VisitOperationProcedureDec(n)
	case *ast.FacilityDec:
		return w.VisitFacilityDec(n)
	}
	return w.errorf(diagnostics.ErrS013, d, "%s is not allowed here.", ast.Format(d))
}

// checkImplemented requires a realization to provide a procedure for
// every operation of what it realizes.
func (w *walker) checkImplemented() error {
	var realized string
	switch w.module.Kind {
	case ast.ConceptRealizationModule:
		realized = w.module.Concept
	case ast.EnhancementRealizationModule:
		realized = w.module.Enhancement
	default:
		return nil
	}
	scope, ok := w.table.ModuleScope(symbols.ModuleIdentifier(realized))
	if !ok {
		return w.errorf(diagnostics.ErrS011, w.module, "No such module: %s", realized)
	}
	spec, ok := scope.DefiningElement().(*ast.Module)
	if !ok {
		return nil
	}

	implemented := make(map[string]bool)
	for _, d := range w.module.Decs {
		switch n := d.(type) {
		case *ast.ProcedureDec:
			implemented[n.Name] = true
		case *ast.OperationProcedureDec:
			implemented[n.Operation.Name] = true
		}
	}
	for _, d := range spec.Decs {
		if op, ok := d.(*ast.OperationDec); ok && !implemented[op.Name] {
			return w.errorf(diagnostics.ErrS014, w.module, "Operation %s is not implemented.", op.Name)
		}
	}
	return nil
}

// VisitFacilityDec instantiates a concept with its realization and
// enhancements.
func (w *walker) VisitFacilityDec(d *ast.FacilityDec) error {
	spec, err := w.parameterization(d, d.Concept, d.ConceptArgs)
	if err != nil {
		return err
	}
	var realization *symbols.ModuleParameterization
	if d.Realization != "" {
		if realization, err = w.parameterization(d, d.Realization, d.RealizationArgs); err != nil {
			return err
		}
	}
	f := symbols.NewFacilityEntry(d.Name, d, w.moduleID, spec, realization)

	for _, item := range d.Enhancements {
		enh, err := w.parameterization(item, item.Name, item.Args)
		if err != nil {
			return err
		}
		var enhRealization *symbols.ModuleParameterization
		if item.Realization != "" {
			if enhRealization, err = w.parameterization(item, item.Realization, item.RealizationArgs); err != nil {
				return err
			}
		}
		f.AddEnhancement(enh, enhRealization)
	}
	return w.add(d, f)
}

// parameterization resolves the arguments given to module name against
// its formal parameters, left to right.
func (w *walker) parameterization(node ast.Node, name string, args []*ast.ModuleArgument) (*symbols.ModuleParameterization, error) {
	scope, ok := w.table.ModuleScope(symbols.ModuleIdentifier(name))
	if !ok {
		return nil, w.errorf(diagnostics.ErrS011, node, "No such module: %s", name)
	}
	formals := scope.Formals()
	if len(formals) != len(args) {
		return nil, diagnostics.NewError(diagnostics.ErrS009, tokenOf(node),
			"Invalid facility declaration. Number of arguments does not match the number of module parameters.").
			WithNote(fmt.Sprintf("%s expects %d, found %d", name, len(formals), len(args)))
	}

	out := make([]symbols.ModuleArgument, len(args))
	for i, a := range args {
		arg, err := w.moduleArgument(formals[i], a)
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return symbols.NewModuleParameterization(scope, out), nil
}

func (w *walker) moduleArgument(formal symbols.Entry, a *ast.ModuleArgument) (symbols.ModuleArgument, error) {
	param, isParam := formal.(*symbols.ProgramParameterEntry)
	if isParam && param.Mode == ast.TypeMode {
		if a.Ty == nil {
			return symbols.ModuleArgument{}, w.errorf(diagnostics.ErrS004, a, "Expected a program type for type parameter %s.", param.Name())
		}
		pt, err := w.programTy(a.Ty)
		if err != nil {
			return symbols.ModuleArgument{}, err
		}
		return symbols.ModuleArgument{Node: a, IsType: true, ProgramType: pt}, nil
	}
	if a.Exp == nil {
		return symbols.ModuleArgument{}, w.errorf(diagnostics.ErrS013, a, "Expected an expression for parameter %s.", formal.Name())
	}

	if _, isDefinition := formal.(*symbols.MathSymbolEntry); isDefinition {
		// A definition is passed by name.
		if v, ok := a.Exp.(*ast.ProgramVariableNameExp); ok {
			return symbols.ModuleArgument{Node: a}, w.resolveSymbol(v, v.Qualifier, v.Name)
		}
	}
	if err := w.visitExp(a.Exp); err != nil {
		return symbols.ModuleArgument{}, err
	}
	pt := w.programTypes[a.Exp]
	if isParam && pt != nil {
		if _, generic := param.ProgramType.(*symbols.PTGeneric); !generic && !pt.AcceptableFor(param.ProgramType) {
			return symbols.ModuleArgument{}, w.errorf(diagnostics.ErrS006, a.Exp,
				"Expected: %s\nFound: %s", param.ProgramType, pt)
		}
	}
	return symbols.ModuleArgument{Node: a, ProgramType: pt}, nil
}
