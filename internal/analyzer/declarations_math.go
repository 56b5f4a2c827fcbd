package analyzer

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// VisitMathVarDec binds a math variable with the active quantification
// and returns its declared type. A type-valued parameter of a definition
// becomes one of the definition's type parameters.
func (w *walker) VisitMathVarDec(d *ast.MathVarDec) (typesystem.MathType, error) {
	typ, err := w.mathTy(d.Ty)
	if err != nil {
		return nil, err
	}
	onlyTypes := typ.IsKnownToContainOnlyMTypes()
	if w.directDefinition != nil && onlyTypes && w.namedTypes.Contains(d.Name) {
		return nil, w.errorf(diagnostics.ErrS013, d,
			"Introduction of type parameter must precede any use of that variable name.")
	}

	q := w.quantification()
	if w.definitionParams && w.typeValueDepth == 0 {
		q = ast.Universal
	}
	if w.definitionParams && onlyTypes && w.schematicTypes != nil {
		w.schematicTypes[d.Name] = typ
	}
	if _, err := w.bindMath(d, d.Name, q, typ, nil, nil); err != nil {
		return nil, err
	}
	return typ, nil
}

func (w *walker) VisitMathDefinitionDec(d *ast.MathDefinitionDec) error {
	entry, err := w.defineMath(d)
	if err != nil {
		return err
	}
	return w.add(d, entry)
}

// defineMath populates a definition and returns its entry without
// binding it, so module parameters can bind it as a formal.
func (w *walker) defineMath(d *ast.MathDefinitionDec) (*symbols.MathSymbolEntry, error) {
	if err := w.startScope(symbols.DefinitionScope, d); err != nil {
		return nil, err
	}
	if d.Kind == ast.DirectDefinition {
		w.directDefinition = d
	}
	if d.Kind != ast.InductiveDefinition {
		w.schematicTypes = make(map[string]typesystem.MathType)
	}
	w.namedTypes = set.New[string](0)
	defer func() {
		w.directDefinition = nil
		w.schematicTypes = nil
		w.definitionParams = false
	}()

	names := make([]string, len(d.Params))
	params := make([]typesystem.MathType, len(d.Params))
	w.definitionParams = true
	for i, p := range d.Params {
		t, err := w.VisitMathVarDec(p)
		if err != nil {
			return nil, err
		}
		names[i] = p.Name
		params[i] = t
	}
	w.definitionParams = false

	rng, err := w.mathTy(d.ReturnTy)
	if err != nil {
		return nil, err
	}
	typ := rng
	if len(params) > 0 {
		typ = w.g.TaggedFunction(rng, names, params)
	}
	schematics := cloneTypes(w.schematicTypes)

	// The definition sees itself so that inductive and implicit bodies
	// can refer to it; a direct body doing so is rejected on use.
	if _, err := w.bindMath(d, d.Name, ast.NoQuantification, typ, nil, schematics); err != nil {
		return nil, err
	}

	switch d.Kind {
	case ast.InductiveDefinition:
		if err := w.expectBoolean(d.BaseCase); err != nil {
			return nil, err
		}
		if err := w.expectBoolean(d.InductiveCase); err != nil {
			return nil, err
		}
	case ast.ImplicitDefinition:
		if err := w.expectBoolean(d.Body); err != nil {
			return nil, err
		}
	default:
		if !ast.IsNil(d.Body) {
			if err := w.visitExp(d.Body); err != nil {
				return nil, err
			}
			if err := w.expectType(d.Body, rng); err != nil {
				return nil, err
			}
		}
	}
	if err := w.endScope(d); err != nil {
		return nil, err
	}

	var value typesystem.MathType
	if d.Kind == ast.DirectDefinition && len(params) == 0 && !ast.IsNil(d.Body) {
		value = w.valueOf(d.Body)
	}
	return symbols.NewMathSymbolEntry(d.Name, d, w.moduleID, ast.NoQuantification, typ, value,
		schematics, cloneTypes(w.genericTypes)), nil
}

func (w *walker) VisitMathAssertionDec(d *ast.MathAssertionDec) error {
	if err := w.expectBoolean(d.Assertion); err != nil {
		return err
	}
	return w.add(d, symbols.NewTheoremEntry(d.Name, d, w.moduleID, d.Kind, d.Assertion, w.g))
}

// VisitMathTypeTheoremDec checks the shape of a type theorem, types its
// assertion and registers the relationship it states with the graph.
func (w *walker) VisitMathTypeTheoremDec(d *ast.MathTypeTheoremDec) error {
	if err := w.startScope(symbols.TheoremScope, d); err != nil {
		return err
	}
	w.pushQuantification(ast.Universal)
	for _, v := range d.UniversalVars {
		if _, err := w.VisitMathVarDec(v); err != nil {
			return err
		}
	}
	w.popQuantification()

	cond, body, err := typesystem.SplitTypeTheorem(d.Assertion)
	if err != nil {
		return w.errorf(diagnostics.ErrS010, d.Assertion, "top level of type theorem assertion must be 'implies' or ':'")
	}
	w.theoremAssertion = body
	defer func() {
		w.theoremAssertion = nil
		w.theoremDest = nil
	}()
	if err := w.expectBoolean(d.Assertion); err != nil {
		return err
	}
	if err := w.g.AddRelationship(body.Exp, w.typeOf(body.Exp), w.theoremDest, cond, w.scope()); err != nil {
		return w.symbolError(d, err)
	}
	if err := w.endScope(d); err != nil {
		return err
	}
	return w.add(d, symbols.NewTheoremEntry(d.Name, d, w.moduleID, ast.Theorem, d.Assertion, w.g))
}
