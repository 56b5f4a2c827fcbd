package analyzer

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// VisitFunctionExp applies a named math function. qualifier overrides the
// node's own when the call is the tail of a module-qualified dot path.
func (w *walker) VisitFunctionExp(e *ast.FunctionExp, qualifier string) error {
	return w.applyNamed(e, qualifier, e.Name, e.Args)
}

// candidate is one overload that survived deschematization.
type candidate struct {
	entry *symbols.MathSymbolEntry
	fn    *typesystem.Function
}

// applyNamed types e as the application of the function symbol name to
// args. Every visible symbol of that name is deschematized against the
// arguments. A candidate whose domain equals the argument types wins
// over candidates that only accept them; two winners of the same rank
// are ambiguous.
func (w *walker) applyNamed(e ast.Exp, qualifier, name string, args []ast.Exp) error {
	for _, a := range args {
		if err := w.visitExp(a); err != nil {
			return err
		}
	}

	found, err := w.scope().Query(symbols.MathFunctionNamedQuery(qualifier, name))
	if err != nil {
		return w.symbolError(e, err)
	}
	symbolsFound := mathSymbols(found)
	if len(symbolsFound) == 0 {
		return w.errorf(diagnostics.ErrS012, e, "No such function: %s", name)
	}

	actuals := make([]symbols.Argument, len(args))
	argTypes := make([]typesystem.MathType, len(args))
	for i, a := range args {
		argTypes[i] = w.typeOf(a)
		actuals[i] = symbols.Argument{Exp: a, Type: argTypes[i], TypeValue: w.valueOf(a)}
	}
	preDomain := w.g.FunctionOf(w.g.Entity, argTypes...).Domain

	var exact, inexact []candidate
	for _, sym := range symbolsFound {
		if _, ok := sym.Type.(*typesystem.Function); !ok {
			continue
		}
		ds, err := sym.Deschematize(actuals, w.genericTypes)
		if err != nil {
			if errors.Is(err, symbols.ErrNoSolution) {
				continue
			}
			return w.symbolError(e, err)
		}
		fn, ok := ds.Type.(*typesystem.Function)
		if !ok {
			continue
		}
		c := candidate{entry: ds, fn: fn}
		switch {
		case typesystem.Equal(fn.Domain, preDomain):
			exact = append(exact, c)
		case w.acceptsArguments(fn, args, preDomain):
			inexact = append(inexact, c)
		}
	}

	chosen, err := w.pickCandidate(e, exact, inexact, symbolsFound, preDomain)
	if err != nil {
		return err
	}
	if w.directDefinition != nil && chosen.entry.DefiningElement() == ast.Node(w.directDefinition) {
		return w.errorf(diagnostics.ErrS007, e, "Direct definition cannot contain recursive call.")
	}

	value, err := w.applicationValue(e, name, chosen.fn, args)
	if err != nil {
		return err
	}
	if err := w.setType(e, chosen.fn.Range, value); err != nil {
		return err
	}
	w.debugf("Processed symbol %s with type %s", name, chosen.fn)
	return nil
}

func (w *walker) pickCandidate(e ast.Exp, exact, inexact []candidate, all []*symbols.MathSymbolEntry,
	preDomain typesystem.MathType) (candidate, error) {
	for _, rank := range [][]candidate{exact, inexact} {
		switch len(rank) {
		case 0:
			continue
		case 1:
			return rank[0], nil
		}
		a, b := rank[0], rank[1]
		return candidate{}, w.errorf(diagnostics.ErrS003, e,
			"Multiple %s domain matches.  For example, %s : %s and %s : %s.  Consider explicitly qualifying.",
			preDomain, symbols.FullyQualifiedName(a.entry), a.fn, symbols.FullyQualifiedName(b.entry), b.fn)
	}

	lines := make([]string, len(all))
	for i, s := range all {
		lines[i] = symbols.FullyQualifiedName(s) + " : " + s.Type.String()
	}
	return candidate{}, w.errorf(diagnostics.ErrS005, e,
		"No function applicable for domain: %s\n\nCandidates:\n\t%s", preDomain, strings.Join(lines, "\n\t"))
}

// acceptsArguments re-checks every formal of a deschematized function
// against its actual, including the formals deschematization defers.
func (w *walker) acceptsArguments(fn *typesystem.Function, args []ast.Exp, preDomain typesystem.MathType) bool {
	formals := fn.Params()
	if len(formals) != len(args) {
		// A single tuple argument spread over several formals.
		return len(args) == 1 && w.g.IsSubtype(preDomain, fn.Domain)
	}
	for i, formal := range formals {
		if !w.acceptsArgument(formal, args[i]) {
			return false
		}
	}
	return true
}

func (w *walker) acceptsArgument(expected typesystem.MathType, arg ast.Exp) bool {
	found, value := w.typeOf(arg), w.valueOf(arg)
	if w.g.IsKnownToBeIn(found, value, expected) {
		return true
	}
	if _, ok := arg.(*ast.LambdaExp); ok {
		ef, eok := expected.(*typesystem.Function)
		ff, fok := found.(*typesystem.Function)
		if eok && fok {
			return w.g.IsSubtype(ff.Domain, ef.Domain) && w.g.IsSubtype(ff.Range, ef.Range)
		}
	}
	if fa, ok := expected.(*typesystem.FunctionApplication); ok && fa.Range != nil {
		return w.g.IsSubtype(found, fa.Range)
	}
	if fa, ok := found.(*typesystem.FunctionApplication); ok && fa.Range != nil {
		return w.g.IsSubtype(fa.Range, expected)
	}
	return false
}

// applicationValue is the type an application denotes, if any. Inside a
// type position every argument must itself denote a type.
func (w *walker) applicationValue(e ast.Exp, name string, fn *typesystem.Function, args []ast.Exp) (typesystem.MathType, error) {
	values := make([]typesystem.MathType, len(args))
	for i, a := range args {
		values[i] = w.valueOf(a)
		if values[i] != nil {
			continue
		}
		if w.typeValueDepth > 0 {
			return nil, w.errorf(diagnostics.ErrS004, a, "Not known to be a type.")
		}
		return nil, nil
	}
	if w.typeValueDepth == 0 && !fn.Range.IsKnownToContainOnlyMTypes() {
		return nil, nil
	}
	return w.g.Apply(name, fn, values), nil
}

// mathSymbols keeps the distinct math views of the entries a function
// query found.
func mathSymbols(found []symbols.Entry) []*symbols.MathSymbolEntry {
	seen := make(map[symbols.Entry]bool, len(found))
	out := make([]*symbols.MathSymbolEntry, 0, len(found))
	for _, e := range found {
		if seen[e] {
			continue
		}
		seen[e] = true
		m, err := e.ToMathSymbol()
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
