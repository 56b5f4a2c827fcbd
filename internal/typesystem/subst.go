package typesystem

import (
	"github.com/hashicorp/go-set/v3"
)

// Subst maps type-variable names to the types that replace them.
type Subst map[string]MathType

// Compose returns a substitution equivalent to applying s1 and then s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	for k, v := range s2 {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of s.
func (s Subst) Clone() Subst {
	out := make(Subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ApplyWithCycleCheck applies substitution with cycle detection.
// This is the main entry point for substitution application.
func ApplyWithCycleCheck(t MathType, s Subst, visited map[string]bool) MathType {
	if t == nil || len(s) == 0 {
		return t
	}

	switch typ := t.(type) {
	case *Named:
		if visited[typ.Name] {
			return typ
		}
		if replacement, ok := s[typ.Name]; ok {
			if n, ok := replacement.(*Named); ok && n.Name == typ.Name {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return ApplyWithCycleCheck(replacement, s, newVisited)
		}
		return typ

	case *Proper:
		return typ

	case *Function:
		d := ApplyWithCycleCheck(typ.Domain, s, visited)
		r := ApplyWithCycleCheck(typ.Range, s, visited)
		if d == typ.Domain && r == typ.Range {
			return typ
		}
		return &Function{g: typ.g, Domain: d, Range: r, ParamNames: typ.ParamNames}

	case *Cartesian:
		changed := false
		elems := make([]Element, len(typ.Elements))
		for i, e := range typ.Elements {
			nt := ApplyWithCycleCheck(e.Type, s, visited)
			changed = changed || nt != e.Type
			elems[i] = Element{Tag: e.Tag, Type: nt}
		}
		if !changed {
			return typ
		}
		return &Cartesian{g: typ.g, Elements: elems}

	case *Powertype:
		b := ApplyWithCycleCheck(typ.Base, s, visited)
		if b == typ.Base {
			return typ
		}
		return &Powertype{g: typ.g, Base: b}

	case *SetRestriction:
		// The bound variable shadows a substitution of the same name.
		inner := s
		if _, ok := s[typ.Var]; ok {
			inner = s.Clone()
			delete(inner, typ.Var)
		}
		vt := ApplyWithCycleCheck(typ.VarType, inner, visited)
		if vt == typ.VarType {
			return typ
		}
		return &SetRestriction{g: typ.g, Var: typ.Var, VarType: vt, Predicate: typ.Predicate}

	case *FunctionApplication:
		changed := false
		args := make([]MathType, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = ApplyWithCycleCheck(a, s, visited)
			changed = changed || args[i] != a
		}
		if !changed {
			return typ
		}
		return &FunctionApplication{g: typ.g, Name: typ.Name, Args: args, Range: typ.Range}
	}
	return t
}

func copyVisited(visited map[string]bool) map[string]bool {
	out := make(map[string]bool, len(visited)+1)
	for k, v := range visited {
		out[k] = v
	}
	return out
}

// Names returns every type-variable name occurring in t.
func Names(t MathType) *set.Set[string] {
	out := set.New[string](0)
	collectNames(t, out)
	return out
}

func collectNames(t MathType, out *set.Set[string]) {
	switch typ := t.(type) {
	case *Named:
		out.Insert(typ.Name)
	case *Function:
		collectNames(typ.Domain, out)
		collectNames(typ.Range, out)
	case *Cartesian:
		for _, e := range typ.Elements {
			collectNames(e.Type, out)
		}
	case *Powertype:
		collectNames(typ.Base, out)
	case *SetRestriction:
		collectNames(typ.VarType, out)
	case *FunctionApplication:
		for _, a := range typ.Args {
			collectNames(a, out)
		}
	}
}

// ContainsAny reports whether any of names occurs in t.
func ContainsAny(t MathType, names *set.Set[string]) bool {
	if names == nil || names.Empty() {
		return false
	}
	for n := range Names(t).Items() {
		if names.Contains(n) {
			return true
		}
	}
	return false
}

// Equal reports structural equality. Proper types compare by identity;
// function parameter tags and cartesian tags do not take part.
func Equal(a, b MathType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *Named:
		y, ok := b.(*Named)
		return ok && x.Name == y.Name
	case *Proper:
		return false
	case *Function:
		y, ok := b.(*Function)
		return ok && Equal(x.Domain, y.Domain) && Equal(x.Range, y.Range)
	case *Cartesian:
		y, ok := b.(*Cartesian)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i].Type, y.Elements[i].Type) {
				return false
			}
		}
		return true
	case *Powertype:
		y, ok := b.(*Powertype)
		return ok && Equal(x.Base, y.Base)
	case *SetRestriction:
		y, ok := b.(*SetRestriction)
		return ok && x.Var == y.Var && x.Predicate == y.Predicate && Equal(x.VarType, y.VarType)
	case *FunctionApplication:
		y, ok := b.(*FunctionApplication)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
