package symbols

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/typesystem"
)

// Argument is an actual argument as deschematization sees it. TypeValue
// is set when the argument denotes a type.
type Argument struct {
	Exp       ast.Exp
	Type      typesystem.MathType
	TypeValue typesystem.MathType
}

// Deschematize resolves the schematic types of a function symbol against
// actual arguments, returning a specialized entry with no schematic
// types left. callGenerics are the generic type names visible at the
// call site with their bounds.
//
// Formals are walked left to right. Each formal is first rewritten with
// the bindings so far, so a type parameter fixed by an earlier argument
// is already resolved when a later formal mentions it. A formal naming
// schematic types is bound structurally against its actual. A formal
// that is itself a type parameter (tagged, and holding only types) has
// its actual checked for membership and binds its tag. Other formals are
// not checked here. Any failure wraps ErrNoSolution.
func (e *MathSymbolEntry) Deschematize(args []Argument, callGenerics map[string]typesystem.MathType) (*MathSymbolEntry, error) {
	fn, ok := e.Type.(*typesystem.Function)
	if !ok {
		return nil, noSolution("%s is not a function", e.name)
	}
	g := fn.Graph()

	formals := fn.Params()
	actuals := expandArguments(args)
	if len(formals) != len(actuals) {
		return nil, noSolution("%s expects %d arguments, found %d", e.name, len(formals), len(actuals))
	}

	schematic := set.New[string](len(e.SchematicTypes) + len(e.GenericsInDefiningContext))
	bounds := make(typesystem.Subst, len(e.SchematicTypes)+len(e.GenericsInDefiningContext)+len(callGenerics))
	for name, bound := range callGenerics {
		bounds[name] = bound
	}
	bindings := make(typesystem.Subst)
	for name, bound := range e.GenericsInDefiningContext {
		if _, visible := callGenerics[name]; visible {
			// Still inside the defining module: the generic is fixed.
			bindings[name] = g.Named(name)
			continue
		}
		schematic.Insert(name)
		bounds[name] = bound
	}
	for name, bound := range e.SchematicTypes {
		schematic.Insert(name)
		bounds[name] = bound
	}

	used := typesystem.Names(fn)
	for i, formal := range formals {
		actual := actuals[i]
		f := formal.Apply(bindings)

		if typesystem.ContainsAny(f, schematic) {
			if actual.Type == nil {
				return nil, noSolution("argument %d of %s is untyped", i+1, e.name)
			}
			next, err := g.Bind(actual.Type, f, bounds, bindings)
			if err != nil {
				return nil, noSolution("argument %d of %s: %v", i+1, e.name, err)
			}
			bindings = next
		}

		tag := fn.ParamName(i)
		if tag == "" || !f.IsKnownToContainOnlyMTypes() {
			continue
		}
		if actual.TypeValue == nil {
			if used.Contains(tag) {
				return nil, noSolution("argument %d of %s must be a type", i+1, e.name)
			}
			continue
		}
		if !g.IsKnownToBeIn(actual.Type, actual.TypeValue, f) {
			return nil, noSolution("%s is not in %s", actual.TypeValue, f)
		}
		if _, bound := bindings[tag]; !bound && used.Contains(tag) {
			bindings[tag] = actual.TypeValue
		}
	}

	out := *e
	out.Type = fn.Apply(bindings)
	if e.typeValue != nil {
		out.typeValue = e.typeValue.Apply(bindings)
	}
	out.SchematicTypes = nil
	return &out, nil
}

// expandArguments splats a single tuple-typed argument into its factors.
func expandArguments(args []Argument) []Argument {
	if len(args) != 1 {
		return args
	}
	c, ok := args[0].Type.(*typesystem.Cartesian)
	if !ok {
		return args
	}
	var fields []ast.Exp
	if tuple, ok := args[0].Exp.(*ast.TupleExp); ok && len(tuple.Fields) == len(c.Elements) {
		fields = tuple.Fields
	}
	out := make([]Argument, len(c.Elements))
	for i, el := range c.Elements {
		out[i] = Argument{Type: el.Type}
		if fields != nil {
			out[i].Exp = fields[i]
		}
	}
	return out
}
