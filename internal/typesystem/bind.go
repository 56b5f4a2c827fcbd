package typesystem

import (
	"github.com/pkg/errors"
)

// ErrBindingFailed is the cause of every Bind failure.
var ErrBindingFailed = errors.New("binding failed")

// Bind structurally matches actual against template. Names in bounds are
// bindable; each maps to the declared bound its binding must fall under.
// bindings holds names bound so far and is never modified; the returned
// Subst extends it. An existing binding takes priority over a new one.
func (g *Graph) Bind(actual, template MathType, bounds Subst, bindings Subst) (Subst, error) {
	out := bindings.Clone()
	if err := g.bind(actual, template, bounds, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Graph) bind(actual, template MathType, bounds, out Subst) error {
	if actual == nil || template == nil {
		return errors.Wrap(ErrBindingFailed, "missing type")
	}

	switch t := template.(type) {
	case *Named:
		bound, bindable := bounds[t.Name]
		if !bindable {
			if Equal(actual, t) {
				return nil
			}
			return mismatch(actual, template)
		}
		if existing, ok := out[t.Name]; ok {
			if Equal(actual, existing) || g.IsSubtype(actual, existing) {
				return nil
			}
			return errors.Wrapf(ErrBindingFailed, "%s conflicts with %s := %s", actual, t.Name, existing)
		}
		declared := actual
		if n, ok := actual.(*Named); ok {
			if b, ok := bounds[n.Name]; ok && n.Name != t.Name {
				declared = b
			}
		}
		if !g.IsSubtype(declared, bound) {
			return errors.Wrapf(ErrBindingFailed, "%s is not within bound %s of %s", actual, bound, t.Name)
		}
		out[t.Name] = actual
		return nil

	case *Proper:
		if actual == MathType(t) {
			return nil
		}
		return mismatch(actual, template)

	case *Function:
		a, ok := actual.(*Function)
		if !ok {
			return mismatch(actual, template)
		}
		if err := g.bind(a.Domain, t.Domain, bounds, out); err != nil {
			return err
		}
		return g.bind(a.Range, t.Range, bounds, out)

	case *Cartesian:
		a, ok := actual.(*Cartesian)
		if !ok || len(a.Elements) != len(t.Elements) {
			return mismatch(actual, template)
		}
		for i := range t.Elements {
			if err := g.bind(a.Elements[i].Type, t.Elements[i].Type, bounds, out); err != nil {
				return err
			}
		}
		return nil

	case *Powertype:
		a, ok := actual.(*Powertype)
		if !ok {
			return mismatch(actual, template)
		}
		return g.bind(a.Base, t.Base, bounds, out)

	case *FunctionApplication:
		a, ok := actual.(*FunctionApplication)
		if !ok || a.Name != t.Name || len(a.Args) != len(t.Args) {
			return mismatch(actual, template)
		}
		for i := range t.Args {
			if err := g.bind(a.Args[i], t.Args[i], bounds, out); err != nil {
				return err
			}
		}
		return nil

	case *SetRestriction:
		if Equal(actual, template) {
			return nil
		}
		return mismatch(actual, template)
	}
	return mismatch(actual, template)
}

func mismatch(actual, template MathType) error {
	return errors.Wrapf(ErrBindingFailed, "%s does not match %s", actual, template)
}
