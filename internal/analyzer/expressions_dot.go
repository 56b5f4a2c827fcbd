package analyzer

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// VisitDotExp types a dotted path. A first segment that names no local
// math symbol is a module or facility qualifier for the second. The
// remaining segments select factors of a Cartesian value, applying the
// factor when the segment is a call.
func (w *walker) VisitDotExp(e *ast.DotExp) error {
	if len(e.Segments) == 0 {
		return w.errorf(diagnostics.ErrS013, e, "Empty dotted expression.")
	}

	start, err := w.visitDotHead(e)
	if err != nil {
		return err
	}
	last := e.Segments[start-1]
	cur := w.typeOf(last)
	for _, seg := range e.Segments[start:] {
		next, err := w.selectFactor(cur, seg)
		if err != nil {
			return err
		}
		cur, last = next, seg
	}
	return w.setType(e, cur, w.valueOf(last))
}

// visitDotHead populates the leading segments and returns the index of
// the first segment left to walk.
func (w *walker) visitDotHead(e *ast.DotExp) (int, error) {
	first := e.Segments[0]
	v, ok := first.(*ast.VarExp)
	if !ok || v.Qualifier != "" || len(e.Segments) == 1 {
		return 1, w.visitExp(first)
	}

	local, err := w.scope().Query(symbols.NameQuery("", v.Name, symbols.ImportNamed, symbols.FacilityInstantiate, true))
	if err != nil {
		return 0, w.symbolError(first, err)
	}
	for _, entry := range local {
		if symbols.IsMathSymbol(entry) {
			return 1, w.visitExp(first)
		}
	}

	// v names a module.
	if err := w.setType(first, w.g.Boolean, nil); err != nil {
		return 0, err
	}
	switch seg := e.Segments[1].(type) {
	case *ast.VarExp:
		err = w.VisitVarExp(seg, v.Name)
	case *ast.FunctionExp:
		err = w.VisitFunctionExp(seg, v.Name)
	default:
		err = w.errorf(diagnostics.ErrS013, seg, "Expected a name after module qualifier %s.", v.Name)
	}
	return 2, err
}

func (w *walker) selectFactor(cur typesystem.MathType, seg ast.Exp) (typesystem.MathType, error) {
	var name string
	switch s := seg.(type) {
	case *ast.VarExp:
		name = s.Name
	case *ast.FunctionExp:
		name = s.Name
	default:
		return nil, w.errorf(diagnostics.ErrS013, seg, "Expected a field name.")
	}

	c, ok := cur.(*typesystem.Cartesian)
	if !ok {
		return nil, w.errorf(diagnostics.ErrS006, seg, "Value not a tuple.")
	}
	factor, ok := c.Factor(name)
	if !ok {
		return nil, w.errorf(diagnostics.ErrS002, seg, "No such factor.")
	}

	call, ok := seg.(*ast.FunctionExp)
	if !ok {
		return factor, w.setType(seg, factor, nil)
	}
	fn, ok := factor.(*typesystem.Function)
	if !ok {
		return nil, w.errorf(diagnostics.ErrS006, seg, "Not a function.")
	}
	argTypes := make([]typesystem.MathType, len(call.Args))
	for i, a := range call.Args {
		if err := w.visitExp(a); err != nil {
			return nil, err
		}
		argTypes[i] = w.typeOf(a)
	}
	domain := w.g.FunctionOf(w.g.Entity, argTypes...).Domain
	if !typesystem.Equal(domain, fn.Domain) && !w.acceptsArguments(fn, call.Args, domain) {
		return nil, w.errorf(diagnostics.ErrS006, seg,
			"Parameters do not match function range.\n\nExpected: %s\nFound: %s", fn.Domain, domain)
	}
	return fn.Range, w.setType(seg, fn.Range, nil)
}
