package analyzer

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
)

// visitProgramExp gives a program expression its program type and, by
// way of the type's model, its math type.
func (w *walker) visitProgramExp(e ast.ProgramExp) error {
	switch n := e.(type) {
	case *ast.ProgramVariableNameExp:
		return w.VisitProgramVariableNameExp(n)
	case *ast.ProgramLiteralExp:
		return w.VisitProgramLiteralExp(n)
	case *ast.ProgramFunctionExp:
		return w.VisitProgramFunctionExp(n)
	case *ast.ProgramVariableDotExp:
		return w.VisitProgramVariableDotExp(n)
	}
	return w.errorf(diagnostics.ErrI002, e, "unexpected program expression %T", e)
}

func (w *walker) VisitProgramVariableNameExp(e *ast.ProgramVariableNameExp) error {
	entry, err := w.scope().QueryForOne(symbols.NameAndKindQuery(e.Qualifier, e.Name, isProgramVariable,
		symbols.ImportNamed, symbols.FacilityInstantiate))
	if err != nil {
		return w.symbolError(e, err)
	}
	v, err := entry.ToProgramVariable()
	if err != nil {
		return w.symbolError(e, err)
	}
	return w.setProgramType(e, v.ProgramType)
}

var literalTypeNames = map[ast.LiteralKind]string{
	ast.IntegerLiteral:   config.IntegerProgramTypeName,
	ast.CharacterLiteral: config.CharacterProgramTypeName,
	ast.StringLiteral:    config.StringProgramTypeName,
}

func (w *walker) VisitProgramLiteralExp(e *ast.ProgramLiteralExp) error {
	name := literalTypeNames[e.Kind]
	entry, err := w.scope().QueryForOne(symbols.ProgramTypeQuery("", name))
	if err != nil {
		var noSuch *symbols.NoSuchSymbolError
		if errors.As(err, &noSuch) {
			return w.errorf(diagnostics.ErrS002, e, "No program type %s is visible for %s literal %s.", name, e.Kind, ast.Format(e))
		}
		return w.symbolError(e, err)
	}
	pte, err := entry.ToProgramType()
	if err != nil {
		return w.symbolError(e, err)
	}
	return w.setProgramType(e, pte.ProgramType)
}

// VisitProgramFunctionExp resolves a call by the program types of its
// arguments. A call to the operation the enclosing procedure implements
// is recorded for the recursion check.
func (w *walker) VisitProgramFunctionExp(e *ast.ProgramFunctionExp) error {
	args := make([]symbols.ProgramType, len(e.Args))
	for i, a := range e.Args {
		if err := w.visitProgramExp(a); err != nil {
			return err
		}
		args[i] = w.programTypes[a]
	}

	entry, err := w.scope().QueryForOne(symbols.OperationQuery(e.Qualifier, e.Name, args))
	if err != nil {
		var noSuch *symbols.NoSuchSymbolError
		if errors.As(err, &noSuch) {
			names := make([]string, len(args))
			for i, a := range args {
				names[i] = a.String()
			}
			return w.errorf(diagnostics.ErrS002, e,
				"No operation found corresponding to the call with the specified arguments: %s(%s)",
				e.Name, strings.Join(names, ", "))
		}
		return w.symbolError(e, err)
	}
	op, err := entry.ToOperation()
	if err != nil {
		return w.symbolError(e, err)
	}
	if w.operation != nil && op == w.operation && w.recursiveCall == nil {
		tok := e.Token
		w.recursiveCall = &tok
	}
	return w.setProgramType(e, op.ReturnType)
}

// VisitProgramVariableDotExp walks record fields. A representation is
// seen through to its record inside its realization.
func (w *walker) VisitProgramVariableDotExp(e *ast.ProgramVariableDotExp) error {
	if len(e.Segments) == 0 {
		return w.errorf(diagnostics.ErrS013, e, "Empty dotted expression.")
	}
	if err := w.VisitProgramVariableNameExp(e.Segments[0]); err != nil {
		return err
	}
	pt := w.programTypes[e.Segments[0]]
	for _, seg := range e.Segments[1:] {
		if r, ok := pt.(*symbols.PTRepresentation); ok {
			pt = r.Base
		}
		rec, ok := pt.(*symbols.PTRecord)
		if !ok {
			return w.errorf(diagnostics.ErrS006, seg, "%s is not a record.", pt)
		}
		field, ok := rec.Field(seg.Name)
		if !ok {
			return w.errorf(diagnostics.ErrS002, seg, "No such field: %s", seg.Name)
		}
		if err := w.setProgramType(seg, field); err != nil {
			return err
		}
		pt = field
	}
	return w.setProgramType(e, pt)
}
