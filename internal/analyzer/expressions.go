package analyzer

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// visitExp populates e and everything under it. On success e has a math
// type.
func (w *walker) visitExp(e ast.Exp) error {
	switch n := e.(type) {
	case *ast.VarExp:
		return w.VisitVarExp(n, n.Qualifier)
	case *ast.LiteralExp:
		return w.VisitLiteralExp(n)
	case *ast.FunctionExp:
		return w.VisitFunctionExp(n, n.Qualifier)
	case *ast.InfixExp:
		return w.applyNamed(n, n.Qualifier, n.Operator, []ast.Exp{n.Left, n.Right})
	case *ast.PrefixExp:
		return w.applyNamed(n, n.Qualifier, n.Operator, []ast.Exp{n.Arg})
	case *ast.OutfixExp:
		return w.applyNamed(n, "", n.Operator, []ast.Exp{n.Arg})
	case *ast.IfExp:
		return w.VisitIfExp(n)
	case *ast.AlternativeExp:
		return w.VisitAlternativeExp(n)
	case *ast.BetweenExp:
		return w.VisitBetweenExp(n)
	case *ast.OldExp:
		if err := w.visitExp(n.Exp); err != nil {
			return err
		}
		return w.setType(n, w.typeOf(n.Exp), w.valueOf(n.Exp))
	case *ast.QuantExp:
		return w.VisitQuantExp(n)
	case *ast.TupleExp:
		return w.VisitTupleExp(n)
	case *ast.DotExp:
		return w.VisitDotExp(n)
	case *ast.LambdaExp:
		return w.VisitLambdaExp(n)
	case *ast.SetExp:
		return w.VisitSetExp(n)
	case *ast.SetCollectionExp:
		return w.VisitSetCollectionExp(n)
	case *ast.TypeAssertionExp:
		return w.VisitTypeAssertionExp(n)
	case *ast.CrossTypeExp:
		return w.VisitCrossTypeExp(n)
	case ast.ProgramExp:
		return w.visitProgramExp(n)
	}
	return w.errorf(diagnostics.ErrI002, e, "unexpected expression %T", e)
}

// VisitVarExp resolves a math symbol reference. qualifier overrides the
// node's own when the name is the tail of a module-qualified dot path.
func (w *walker) VisitVarExp(e *ast.VarExp, qualifier string) error {
	return w.resolveSymbol(e, qualifier, e.Name)
}

// Math literals are symbols named by their text.
func (w *walker) VisitLiteralExp(e *ast.LiteralExp) error {
	return w.resolveSymbol(e, e.Qualifier, e.SymbolName())
}

func (w *walker) resolveSymbol(e ast.Exp, qualifier, name string) error {
	entry, err := w.scope().QueryForOne(symbols.MathSymbolQuery(qualifier, name))
	if err != nil {
		return w.symbolError(e, err)
	}
	if w.directDefinition != nil && entry.DefiningElement() == ast.Node(w.directDefinition) {
		return w.errorf(diagnostics.ErrS007, e, "Direct definition cannot contain recursive call.")
	}
	sym, err := entry.ToMathSymbol()
	if err != nil {
		return w.symbolError(e, err)
	}
	value := w.symbolTypeValue(sym)
	if w.typeValueDepth > 0 {
		if value == nil {
			return w.errorf(diagnostics.ErrS004, e, "%s is not known to be a type.", qualifiedName(qualifier, name, entry))
		}
		if qualifier == "" {
			w.namedTypes.Insert(name)
		}
	}
	if err := w.setType(e, sym.Type, value); err != nil {
		return err
	}
	w.debugf("Processed symbol %s with type %s", name, sym.Type)
	return nil
}

func (w *walker) VisitIfExp(e *ast.IfExp) error {
	if err := w.expectBoolean(e.Test); err != nil {
		return err
	}
	if err := w.visitExp(e.Then); err != nil {
		return err
	}
	if ast.IsNil(e.Else) {
		return w.setType(e, w.typeOf(e.Then), w.valueOf(e.Then))
	}
	if err := w.visitExp(e.Else); err != nil {
		return err
	}
	thenType, elseType := w.typeOf(e.Then), w.typeOf(e.Else)
	switch {
	case w.g.IsSubtype(elseType, thenType):
		return w.setType(e, thenType, nil)
	case w.g.IsSubtype(thenType, elseType):
		return w.setType(e, elseType, nil)
	}
	return w.errorf(diagnostics.ErrS006, e, "Branches must share a type.\nIf branch:   %s\nElse branch: %s", thenType, elseType)
}

func (w *walker) VisitAlternativeExp(e *ast.AlternativeExp) error {
	var first ast.Exp
	for _, alt := range e.Alternatives {
		if err := w.expectBoolean(alt.Test); err != nil {
			return err
		}
		if err := w.visitExp(alt.Assignment); err != nil {
			return err
		}
		if first == nil {
			first = alt.Assignment
		} else if err := w.expectType(alt.Assignment, w.typeOf(first)); err != nil {
			return err
		}
		if err := w.setType(alt, w.typeOf(alt.Assignment), w.valueOf(alt.Assignment)); err != nil {
			return err
		}
	}
	if first == nil {
		return w.errorf(diagnostics.ErrS013, e, "Alternative expression has no alternatives.")
	}
	return w.setType(e, w.typeOf(first), w.valueOf(first))
}

func (w *walker) VisitBetweenExp(e *ast.BetweenExp) error {
	for _, j := range e.Joined {
		if err := w.expectBoolean(j); err != nil {
			return err
		}
	}
	return w.setType(e, w.g.Boolean, nil)
}

// VisitQuantExp binds the quantified variables with the quantifier and
// then populates the body with no quantification.
func (w *walker) VisitQuantExp(e *ast.QuantExp) error {
	if err := w.startScope(symbols.QuantifierScope, e); err != nil {
		return err
	}
	w.pushQuantification(e.Quantifier)
	prev := w.quantifiedVars
	w.quantifiedVars = true
	for _, v := range e.Vars {
		if _, err := w.VisitMathVarDec(v); err != nil {
			return err
		}
	}
	w.quantifiedVars = prev
	w.popQuantification()

	w.pushQuantification(ast.NoQuantification)
	depth := w.enterValue()
	if err := w.expectBoolean(e.Where); err != nil {
		return err
	}
	if err := w.expectBoolean(e.Body); err != nil {
		return err
	}
	w.typeValueDepth = depth
	w.popQuantification()

	if err := w.endScope(e); err != nil {
		return err
	}
	return w.setType(e, w.g.Boolean, nil)
}

func (w *walker) VisitTupleExp(e *ast.TupleExp) error {
	fields := make([]typesystem.MathType, len(e.Fields))
	for i, f := range e.Fields {
		if err := w.visitExp(f); err != nil {
			return err
		}
		fields[i] = w.typeOf(f)
	}
	return w.setType(e, w.g.CartesianOf(fields...), nil)
}

func (w *walker) VisitLambdaExp(e *ast.LambdaExp) error {
	if err := w.startScope(symbols.LambdaScope, e); err != nil {
		return err
	}
	names := make([]string, len(e.Params))
	params := make([]typesystem.MathType, len(e.Params))
	w.pushQuantification(ast.NoQuantification)
	for i, p := range e.Params {
		t, err := w.VisitMathVarDec(p)
		if err != nil {
			return err
		}
		names[i] = p.Name
		params[i] = t
	}
	w.popQuantification()
	depth := w.enterValue()
	if err := w.visitExp(e.Body); err != nil {
		return err
	}
	w.typeValueDepth = depth
	if err := w.endScope(e); err != nil {
		return err
	}
	return w.setType(e, w.g.TaggedFunction(w.typeOf(e.Body), names, params), nil)
}

// VisitSetExp types {x : T | P} as a set of T whose type value is the
// restriction of T by P.
func (w *walker) VisitSetExp(e *ast.SetExp) error {
	if err := w.startScope(symbols.QuantifierScope, e); err != nil {
		return err
	}
	w.pushQuantification(ast.NoQuantification)
	varType, err := w.VisitMathVarDec(e.Var)
	if err != nil {
		return err
	}
	w.popQuantification()
	depth := w.enterValue()
	if err := w.expectBoolean(e.Predicate); err != nil {
		return err
	}
	w.typeValueDepth = depth
	if err := w.endScope(e); err != nil {
		return err
	}
	return w.setType(e, w.g.Powertype(varType), w.g.SetRestriction(e.Var.Name, varType, e.Predicate))
}

func (w *walker) VisitSetCollectionExp(e *ast.SetCollectionExp) error {
	if len(e.Members) == 0 {
		return w.setType(e, w.g.EmptySet, nil)
	}
	var member typesystem.MathType
	for _, m := range e.Members {
		if err := w.visitExp(m); err != nil {
			return err
		}
		t := w.typeOf(m)
		switch {
		case member == nil, w.g.IsSubtype(member, t):
			member = t
		case w.g.IsSubtype(t, member):
		default:
			return w.errorf(diagnostics.ErrS006, m, "Set members must share a type.\nExpected: %s\nFound: %s", member, t)
		}
	}
	return w.setType(e, w.g.Powertype(member), nil)
}

// VisitTypeAssertionExp handles exp : Ty. Inside a type it introduces a
// schematic type; as the assertion of a type theorem it names the
// destination type. Anywhere else it is not allowed.
func (w *walker) VisitTypeAssertionExp(e *ast.TypeAssertionExp) error {
	if e == w.theoremAssertion {
		if err := w.visitExp(e.Exp); err != nil {
			return err
		}
		dest, err := w.mathTy(e.Ty)
		if err != nil {
			return err
		}
		w.theoremDest = dest
		return w.setType(e, w.g.Boolean, nil)
	}

	if w.typeValueDepth == 0 {
		return w.errorf(diagnostics.ErrS013, e,
			"This construct only permitted in type declarations or in expressions matching:\n\n    EXPR : TYPE")
	}
	if w.quantifiedVars {
		return w.errorf(diagnostics.ErrS013, e,
			"Implicit types are not permitted inside quantified variable declarations. Quantify the type explicitly instead.")
	}
	v, ok := e.Exp.(*ast.VarExp)
	if !ok || v.Qualifier != "" {
		return w.errorf(diagnostics.ErrS013, e.Exp, "Must be a variable name.")
	}
	bound, err := w.mathTy(e.Ty)
	if err != nil {
		return err
	}
	if _, err := w.bindMath(v, v.Name, ast.Universal, bound, nil, nil); err != nil {
		return err
	}
	named := w.g.Named(v.Name)
	if err := w.setType(v, bound, named); err != nil {
		return err
	}
	if w.schematicTypes != nil {
		w.schematicTypes[v.Name] = bound
	}
	return w.setType(e, bound, named)
}

// VisitCrossTypeExp builds the tagged product Cart x : T; y : U; end.
func (w *walker) VisitCrossTypeExp(e *ast.CrossTypeExp) error {
	w.typeValueDepth++
	defer func() { w.typeValueDepth-- }()
	elems := make([]typesystem.Element, len(e.Fields))
	for i, f := range e.Fields {
		t, err := w.mathTy(f.Ty)
		if err != nil {
			return err
		}
		elems[i] = typesystem.Element{Tag: f.Name, Type: t}
	}
	return w.setType(e, w.g.MType, w.g.Cartesian(elems...))
}

// enterValue leaves any type position for a nested boolean or value
// body and returns the depth to restore.
func (w *walker) enterValue() int {
	depth := w.typeValueDepth
	w.typeValueDepth = 0
	return depth
}
