package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/specsema/internal/ast"
)

// MathType is the interface for all mathematical types. Every MathType
// belongs to exactly one Graph and is immutable; Apply always builds a
// new value when anything changes.
type MathType interface {
	String() string
	Apply(Subst) MathType
	Graph() *Graph

	// IsKnownToContainOnlyMTypes answers "can an instance of this type
	// itself be used as a type?"
	IsKnownToContainOnlyMTypes() bool

	// MembersKnownToContainOnlyMTypes answers "if a function returns an
	// instance of this type, is that instance known to hold only types?"
	MembersKnownToContainOnlyMTypes() bool
}

// Named is a type variable: a schematic, generic or quantified type name.
type Named struct {
	g    *Graph
	Name string
}

func (t *Named) String() string                        { return t.Name }
func (t *Named) Graph() *Graph                         { return t.g }
func (t *Named) IsKnownToContainOnlyMTypes() bool      { return false }
func (t *Named) MembersKnownToContainOnlyMTypes() bool { return false }
func (t *Named) Apply(s Subst) MathType {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

// Proper is a ground type with identity: B, Z, and user definitions
// whose declared type holds only types. Two Propers are equal only if
// they are the same value.
type Proper struct {
	g               *Graph
	Name            string
	Super           MathType
	MembersAreTypes bool
}

func (t *Proper) String() string                        { return t.Name }
func (t *Proper) Graph() *Graph                         { return t.g }
func (t *Proper) IsKnownToContainOnlyMTypes() bool      { return t.MembersAreTypes }
func (t *Proper) MembersKnownToContainOnlyMTypes() bool { return false }
func (t *Proper) Apply(Subst) MathType                  { return t }

// Function is Domain -> Range. ParamNames, when present, tag each
// expanded domain factor with the formal parameter name.
type Function struct {
	g          *Graph
	Domain     MathType
	Range      MathType
	ParamNames []string
}

func (t *Function) String() string {
	return fmt.Sprintf("(%s -> %s)", t.Domain, t.Range)
}
func (t *Function) Graph() *Graph                    { return t.g }
func (t *Function) IsKnownToContainOnlyMTypes() bool { return false }
func (t *Function) MembersKnownToContainOnlyMTypes() bool {
	return t.Range.IsKnownToContainOnlyMTypes()
}
func (t *Function) Apply(s Subst) MathType {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

// Params expands the domain into one type per formal parameter: the
// factors of a Cartesian domain, nothing for Void, else the domain itself.
func (t *Function) Params() []MathType {
	return ExpandAsNeeded(t.Domain)
}

// ParamName returns the tag of the i-th expanded parameter, or "".
func (t *Function) ParamName(i int) string {
	if i < len(t.ParamNames) {
		return t.ParamNames[i]
	}
	return ""
}

// Element is one factor of a Cartesian product.
type Element struct {
	Tag  string
	Type MathType
}

// Cartesian is the product type of its factors.
type Cartesian struct {
	g        *Graph
	Elements []Element
}

func (t *Cartesian) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		if e.Tag != "" {
			parts[i] = e.Tag + " : " + e.Type.String()
		} else {
			parts[i] = e.Type.String()
		}
	}
	return "(" + strings.Join(parts, " * ") + ")"
}
func (t *Cartesian) Graph() *Graph                         { return t.g }
func (t *Cartesian) IsKnownToContainOnlyMTypes() bool      { return false }
func (t *Cartesian) MembersKnownToContainOnlyMTypes() bool { return false }
func (t *Cartesian) Apply(s Subst) MathType {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

// Factor returns the factor with the given tag.
func (t *Cartesian) Factor(tag string) (MathType, bool) {
	for _, e := range t.Elements {
		if e.Tag == tag {
			return e.Type, true
		}
	}
	return nil, false
}

// Types returns the factor types in order.
func (t *Cartesian) Types() []MathType {
	out := make([]MathType, len(t.Elements))
	for i, e := range t.Elements {
		out[i] = e.Type
	}
	return out
}

// Powertype is Powerset(Base): the type of all subsets of Base.
type Powertype struct {
	g    *Graph
	Base MathType
}

func (t *Powertype) String() string                   { return "Powerset(" + t.Base.String() + ")" }
func (t *Powertype) Graph() *Graph                    { return t.g }
func (t *Powertype) IsKnownToContainOnlyMTypes() bool { return true }
func (t *Powertype) MembersKnownToContainOnlyMTypes() bool {
	return t.Base.IsKnownToContainOnlyMTypes()
}
func (t *Powertype) Apply(s Subst) MathType {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

// SetRestriction is {Var : VarType | Predicate}.
type SetRestriction struct {
	g         *Graph
	Var       string
	VarType   MathType
	Predicate ast.Exp
}

func (t *SetRestriction) String() string {
	return fmt.Sprintf("{%s : %s | %s}", t.Var, t.VarType, ast.Format(t.Predicate))
}
func (t *SetRestriction) Graph() *Graph { return t.g }
func (t *SetRestriction) IsKnownToContainOnlyMTypes() bool {
	return t.VarType.IsKnownToContainOnlyMTypes()
}
func (t *SetRestriction) MembersKnownToContainOnlyMTypes() bool {
	return t.VarType.MembersKnownToContainOnlyMTypes()
}
func (t *SetRestriction) Apply(s Subst) MathType {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

// FunctionApplication is the type value of a type-valued function
// applied to type arguments, e.g. Str(Entry).
type FunctionApplication struct {
	g     *Graph
	Name  string
	Args  []MathType
	Range MathType
}

func (t *FunctionApplication) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "(" + strings.Join(parts, ", ") + ")"
}
func (t *FunctionApplication) Graph() *Graph { return t.g }
func (t *FunctionApplication) IsKnownToContainOnlyMTypes() bool {
	return t.Range != nil && t.Range.MembersKnownToContainOnlyMTypes()
}
func (t *FunctionApplication) MembersKnownToContainOnlyMTypes() bool { return false }
func (t *FunctionApplication) Apply(s Subst) MathType {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

// ExpandAsNeeded flattens a domain type into its parameter list.
func ExpandAsNeeded(t MathType) []MathType {
	switch typ := t.(type) {
	case *Cartesian:
		return typ.Types()
	case *Proper:
		if typ == typ.g.Void {
			return nil
		}
	}
	return []MathType{t}
}
