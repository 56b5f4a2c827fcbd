package analyzer

import (
	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// VisitTypeFamilyDec declares a concept's abstract type. The exemplar
// ranges over the model inside the family's own clauses.
func (w *walker) VisitTypeFamilyDec(d *ast.TypeFamilyDec) error {
	if err := w.startScope(symbols.TypeScope, d); err != nil {
		return err
	}
	model, err := w.mathTy(d.Model)
	if err != nil {
		return err
	}
	exemplar, err := w.bindMath(d, d.Exemplar, ast.Universal, model, nil, nil)
	if err != nil {
		return err
	}
	for _, clause := range []ast.Exp{d.Constraint, d.InitEnsures, d.FinalEnsures} {
		if err := w.expectBoolean(clause); err != nil {
			return err
		}
	}
	if err := w.endScope(d); err != nil {
		return err
	}
	return w.add(d, symbols.NewTypeFamilyEntry(d, w.moduleID, model, exemplar))
}

func isTypeFamily(e symbols.Entry) bool {
	_, err := e.ToTypeFamily()
	return err == nil
}

// VisitTypeRepresentationDec realizes a type family. Inside its clauses
// the exemplar is a variable of the representation, Conc.x is the
// abstract value and conc its shorthand.
func (w *walker) VisitTypeRepresentationDec(d *ast.TypeRepresentationDec) error {
	if err := w.startScope(symbols.TypeScope, d); err != nil {
		return err
	}
	family, err := w.representedFamily(d)
	if err != nil {
		return err
	}
	base, err := w.programTy(d.Representation)
	if err != nil {
		return err
	}
	repr := &symbols.PTRepresentation{Name: d.Name, Base: base}
	exemplar := d.Exemplar
	if family != nil {
		repr.Family = family.Family()
		if exemplar == "" {
			exemplar = repr.Family.ExemplarName
		}
	}

	if exemplar != "" {
		if err := w.add(d, symbols.NewProgramVariableEntry(exemplar, d, w.moduleID, repr)); err != nil {
			return err
		}
	}
	if family != nil {
		model := family.Model
		conc := w.g.Cartesian(typesystem.Element{Tag: exemplar, Type: model})
		if _, err := w.bindMath(d, config.ConcName, ast.NoQuantification, conc, nil, nil); err != nil {
			return err
		}
		if _, err := w.bindMath(d, config.ExemplarConcName, ast.NoQuantification, model, nil, nil); err != nil {
			return err
		}
	}

	if err := w.expectBoolean(d.Convention); err != nil {
		return err
	}
	if err := w.expectBoolean(d.Correspondence); err != nil {
		return err
	}
	if err := w.endScope(d); err != nil {
		return err
	}
	if family == nil {
		return w.add(d, symbols.NewFacilityTypeRepresentationEntry(d, w.moduleID, repr))
	}
	return w.add(d, symbols.NewTypeRepresentationEntry(d, w.moduleID, family, repr))
}

// representedFamily finds the family d realizes. Facility modules may
// declare representations of no family.
func (w *walker) representedFamily(d *ast.TypeRepresentationDec) (*symbols.TypeFamilyEntry, error) {
	entry, err := w.scope().QueryForOne(symbols.NameAndKindQuery("", d.Name, isTypeFamily,
		symbols.ImportNamed, symbols.FacilityIgnore))
	var noSuch *symbols.NoSuchSymbolError
	switch {
	case errors.As(err, &noSuch):
		if w.module.Kind == ast.FacilityModule {
			return nil, nil
		}
		return nil, w.errorf(diagnostics.ErrS002, d, "No type family %s to represent.", d.Name)
	case err != nil:
		return nil, w.symbolError(d, err)
	}
	family, err := entry.ToTypeFamily()
	if err != nil {
		return nil, w.symbolError(d, err)
	}
	return family, nil
}

func (w *walker) VisitVarDec(d *ast.VarDec) error {
	pt, err := w.programTy(d.Ty)
	if err != nil {
		return err
	}
	return w.add(d, symbols.NewProgramVariableEntry(d.Name, d, w.moduleID, pt))
}

func (w *walker) VisitOperationDec(d *ast.OperationDec) error {
	op, err := w.declareOperation(d)
	if err != nil {
		return err
	}
	return w.add(d, op)
}

// declareOperation populates an operation's scope and returns its entry
// unbound.
func (w *walker) declareOperation(d *ast.OperationDec) (*symbols.OperationEntry, error) {
	if err := w.startScope(symbols.OperationScope, d); err != nil {
		return nil, err
	}
	params, err := w.bindParameters(d.Params)
	if err != nil {
		return nil, err
	}
	ret, err := w.returnType(d.ReturnTy)
	if err != nil {
		return nil, err
	}
	if d.ReturnTy != nil {
		// The result is named after the operation in its ensures clause.
		if _, err := w.bindMath(d, d.Name, ast.NoQuantification, ret.ToMath(), nil, nil); err != nil {
			return nil, err
		}
	}
	if err := w.expectBoolean(d.Requires); err != nil {
		return nil, err
	}
	if err := w.expectBoolean(d.Ensures); err != nil {
		return nil, err
	}
	if err := w.endScope(d); err != nil {
		return nil, err
	}
	return symbols.NewOperationEntry(d.Name, d, w.moduleID, params, ret), nil
}

// VisitOperationProfileDec binds the performance profile of a visible
// operation. Its parameters repeat the operation's exactly.
func (w *walker) VisitOperationProfileDec(d *ast.OperationProfileDec) error {
	entry, err := w.scope().QueryForOne(symbols.NameAndKindQuery("", d.Name, isOperation,
		symbols.ImportNamed, symbols.FacilityIgnore))
	if err != nil {
		var noSuch *symbols.NoSuchSymbolError
		if errors.As(err, &noSuch) {
			return w.errorf(diagnostics.ErrS002, d, "Profile %s does not profile any known operation.", d.Name)
		}
		return w.symbolError(d, err)
	}
	op := entry.(*symbols.OperationEntry)

	if err := w.startScope(symbols.OperationScope, d); err != nil {
		return err
	}
	params, err := w.bindParameters(d.Params)
	if err != nil {
		return err
	}
	if len(params) != len(op.Params) {
		return w.errorf(diagnostics.ErrS009, d,
			"Profile parameter count does not correspond to the parameter count of %s.\n\nExpected count: %d\nFound count: %d",
			d.Name, len(op.Params), len(params))
	}
	for i, p := range params {
		want := op.Params[i]
		if p.Name() != want.Name() || p.Mode != want.Mode || !p.ProgramType.AcceptableFor(want.ProgramType) {
			return w.errorf(diagnostics.ErrS009, d.Params[i],
				"Parameter %d of the profile does not correspond to parameter %d of %s.\n\nExpected: %s %s : %s\nFound: %s %s : %s",
				i+1, i+1, d.Name, want.Mode, want.Name(), want.ProgramType, p.Mode, p.Name(), p.ProgramType)
		}
	}
	if !ast.IsNil(d.Duration) {
		if err := w.visitExp(d.Duration); err != nil {
			return err
		}
	}
	if err := w.endScope(d); err != nil {
		return err
	}
	return w.add(d, symbols.NewOperationProfileEntry(d.Name, d, w.moduleID, op, d.Duration))
}

func (w *walker) bindParameters(decs []*ast.ParameterVarDec) ([]*symbols.ProgramParameterEntry, error) {
	params := make([]*symbols.ProgramParameterEntry, len(decs))
	for i, p := range decs {
		pt, err := w.programTy(p.Ty)
		if err != nil {
			return nil, err
		}
		params[i] = symbols.NewProgramParameterEntry(p.Name, p, w.moduleID, p.Mode, pt)
		if err := w.add(p, params[i]); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func (w *walker) returnType(ty ast.Ty) (symbols.ProgramType, error) {
	if ty == nil {
		return symbols.NewPTVoid(w.g), nil
	}
	return w.programTy(ty)
}

// procedureParts is what ProcedureDec and OperationProcedureDec share.
type procedureParts struct {
	node       ast.Node
	name       string
	recursive  bool
	decreasing ast.Exp
	vars       []*ast.VarDec
	body       []ast.Stmt
}

// VisitProcedureDec implements an operation declared elsewhere. The
// procedure's signature must agree with the operation's.
func (w *walker) VisitProcedureDec(d *ast.ProcedureDec) error {
	entry, err := w.scope().QueryForOne(symbols.NameAndKindQuery("", d.Name, isOperation,
		symbols.ImportNamed, symbols.FacilityIgnore))
	if err != nil {
		var noSuch *symbols.NoSuchSymbolError
		if errors.As(err, &noSuch) {
			return w.errorf(diagnostics.ErrS002, d, "Procedure %s does not implement any known operation.", d.Name)
		}
		return w.symbolError(d, err)
	}
	op := entry.(*symbols.OperationEntry)

	if err := w.startScope(symbols.ProcedureScope, d); err != nil {
		return err
	}
	params, err := w.bindParameters(d.Params)
	if err != nil {
		return err
	}
	ret, err := w.returnType(d.ReturnTy)
	if err != nil {
		return err
	}
	if d.ReturnTy != nil {
		if err := w.add(d, symbols.NewProgramVariableEntry(d.Name, d, w.moduleID, ret)); err != nil {
			return err
		}
	}
	if err := w.checkSignature(d, op, d.Params, params, ret); err != nil {
		return err
	}
	err = w.procedureBody(procedureParts{
		node:       d,
		name:       d.Name,
		recursive:  d.Recursive,
		decreasing: d.Decreasing,
		vars:       d.Vars,
		body:       d.Body,
	}, op)
	if err != nil {
		return err
	}
	if err := w.endScope(d); err != nil {
		return err
	}
	return w.add(d, symbols.NewProcedureEntry(d.Name, d, w.moduleID, op, params, d.Recursive))
}

// VisitOperationProcedureDec declares and implements an operation at
// once. Only the procedure is bound; it answers operation queries for
// its own operation.
func (w *walker) VisitOperationProcedureDec(d *ast.OperationProcedureDec) error {
	od := d.Operation
	op, err := w.declareOperation(od)
	if err != nil {
		return err
	}

	if err := w.startScope(symbols.ProcedureScope, d); err != nil {
		return err
	}
	params, err := w.bindParameters(od.Params)
	if err != nil {
		return err
	}
	if od.ReturnTy != nil {
		if err := w.add(d, symbols.NewProgramVariableEntry(od.Name, d, w.moduleID, op.ReturnType)); err != nil {
			return err
		}
	}
	proc := symbols.NewProcedureEntry(od.Name, d, w.moduleID, op, params, d.Recursive)
	// The procedure is visible to its own body.
	if err := w.scope().Parent().Add(proc); err != nil {
		return w.symbolError(d, err)
	}
	err = w.procedureBody(procedureParts{
		node:       d,
		name:       od.Name,
		recursive:  d.Recursive,
		decreasing: d.Decreasing,
		vars:       d.Vars,
		body:       d.Body,
	}, op)
	if err != nil {
		return err
	}
	return w.endScope(d)
}

// checkSignature compares a procedure with the operation it implements.
// Parameters are numbered from 1.
func (w *walker) checkSignature(node ast.Node, op *symbols.OperationEntry, decs []*ast.ParameterVarDec,
	params []*symbols.ProgramParameterEntry, ret symbols.ProgramType) error {
	if !ret.AcceptableFor(op.ReturnType) {
		return w.errorf(diagnostics.ErrS009, node,
			"Procedure return type does not correspond to the return type of the operation it implements.\n\nExpected: %s\nFound: %s",
			op.ReturnType, ret)
	}
	if len(params) != len(op.Params) {
		return w.errorf(diagnostics.ErrS009, node,
			"Procedure parameter count does not correspond to the parameter count of the operation it implements.\n\nExpected count: %d\nFound count: %d",
			len(op.Params), len(params))
	}
	for i, p := range params {
		want := op.Params[i]
		switch {
		case p.Name() != want.Name():
			return w.errorf(diagnostics.ErrS009, decs[i],
				"Parameter %d's name does not correspond to parameter %d's name in the operation it implements.\n\nExpected: %s\nFound: %s",
				i+1, i+1, want.Name(), p.Name())
		case !p.ProgramType.AcceptableFor(want.ProgramType):
			return w.errorf(diagnostics.ErrS009, decs[i],
				"Parameter %d's type does not correspond to parameter %d's type in the operation it implements.\n\nExpected: %s\nFound: %s",
				i+1, i+1, want.ProgramType, p.ProgramType)
		case !symbols.CanBeImplementedWith(want.Mode, p.Mode):
			return w.errorf(diagnostics.ErrS008, decs[i],
				"%s mode parameter cannot be implemented with %s mode.", want.Mode, p.Mode)
		}
	}
	return nil
}

func (w *walker) procedureBody(p procedureParts, op *symbols.OperationEntry) error {
	w.operation, w.recursiveCall = op, nil
	defer func() { w.operation, w.recursiveCall = nil, nil }()

	for _, v := range p.vars {
		if err := w.VisitVarDec(v); err != nil {
			return err
		}
	}
	if !ast.IsNil(p.decreasing) {
		if err := w.visitExp(p.decreasing); err != nil {
			return err
		}
	}
	for _, s := range p.body {
		if err := w.visitStmt(s); err != nil {
			return err
		}
	}

	switch {
	case !p.recursive && w.recursiveCall != nil:
		return diagnostics.Newf(diagnostics.ErrS007, *w.recursiveCall,
			"Procedure %s is not marked recursive but calls itself.", p.name)
	case p.recursive && w.recursiveCall == nil:
		return w.errorf(diagnostics.ErrS013, p.node,
			"Procedure %s is marked recursive but does not call itself.", p.name)
	}
	return nil
}
