package analyzer

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// mathTy evaluates the syntax of a math type to the type it denotes.
func (w *walker) mathTy(ty ast.Ty) (typesystem.MathType, error) {
	switch t := ty.(type) {
	case *ast.NameTy:
		entry, err := w.scope().QueryForOne(symbols.MathSymbolQuery(t.Qualifier, t.Name))
		if err != nil {
			return nil, w.symbolError(t, err)
		}
		sym, err := entry.ToMathSymbol()
		if err != nil {
			return nil, w.symbolError(t, err)
		}
		value := w.symbolTypeValue(sym)
		if value == nil {
			return nil, w.errorf(diagnostics.ErrS004, t, "%s is not known to be a type.", qualifiedName(t.Qualifier, t.Name, sym))
		}
		if t.Qualifier == "" {
			w.namedTypes.Insert(t.Name)
		}
		return value, nil

	case *ast.ArbitraryExpTy:
		w.typeValueDepth++
		err := w.visitExp(t.Exp)
		w.typeValueDepth--
		if err != nil {
			return nil, err
		}
		value := w.valueOf(t.Exp)
		if value == nil {
			return nil, w.errorf(diagnostics.ErrS004, t.Exp, "Not known to be a type.")
		}
		return value, nil

	case *ast.RecordTy:
		pt, err := w.programTy(t)
		if err != nil {
			return nil, err
		}
		return pt.ToMath(), nil
	}
	return nil, w.errorf(diagnostics.ErrI002, ty, "missing type")
}

// programTy resolves the syntax of a program type.
func (w *walker) programTy(ty ast.Ty) (symbols.ProgramType, error) {
	switch t := ty.(type) {
	case *ast.NameTy:
		entry, err := w.scope().QueryForOne(symbols.ProgramTypeQuery(t.Qualifier, t.Name))
		if err != nil {
			return nil, w.symbolError(t, err)
		}
		pte, err := entry.ToProgramType()
		if err != nil {
			return nil, w.symbolError(t, err)
		}
		return pte.ProgramType, nil

	case *ast.RecordTy:
		fields := make([]symbols.RecordField, 0, len(t.Fields))
		for _, f := range t.Fields {
			pt, err := w.programTy(f.Ty)
			if err != nil {
				return nil, err
			}
			fields = append(fields, symbols.RecordField{Name: f.Name, Type: pt})
		}
		return symbols.NewPTRecord(w.g, fields), nil

	case *ast.ArbitraryExpTy:
		return nil, w.errorf(diagnostics.ErrS004, t, "A math type cannot be used as a program type.")
	}
	return nil, w.errorf(diagnostics.ErrI002, ty, "missing program type")
}

// symbolTypeValue is the type a math symbol denotes where it is used. A
// quantified variable ranging over types stands for itself.
func (w *walker) symbolTypeValue(sym *symbols.MathSymbolEntry) typesystem.MathType {
	if sym.Quantification != ast.NoQuantification {
		if sym.Type.IsKnownToContainOnlyMTypes() {
			return w.g.Named(sym.Name())
		}
		return nil
	}
	value, err := sym.TypeValue()
	if err != nil {
		return nil
	}
	return value
}

func qualifiedName(qualifier, name string, e symbols.Entry) string {
	if qualifier != "" {
		return qualifier + "::" + name
	}
	if e != nil {
		return symbols.FullyQualifiedName(e)
	}
	return name
}
