package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
)

// Graph is the mathematical type universe of one compilation. After
// construction the only mutation it undergoes is AddRelationship; every
// other method is a query. Queries memoize subtype answers, so a Graph
// must not be queried concurrently while relationships are still being
// added.
type Graph struct {
	MType    *Proper
	Entity   *Proper
	Element  *Proper
	SSet     *Proper
	Boolean  *Proper
	EmptySet *Proper
	Void     *Proper

	// Powerset is the type of the built-in Powerset symbol: MType -> MType.
	Powerset *Function

	relationships []*Relationship
	subtypeCache  map[string]bool
	pending       map[string]bool // subtype queries being answered
}

func NewGraph() *Graph {
	g := &Graph{subtypeCache: make(map[string]bool), pending: make(map[string]bool)}
	g.MType = &Proper{g: g, Name: config.MTypeTypeName, MembersAreTypes: true}
	g.Entity = &Proper{g: g, Name: config.EntityTypeName, Super: g.MType}
	g.Element = &Proper{g: g, Name: config.ElementTypeName, Super: g.MType}
	g.SSet = &Proper{g: g, Name: config.SSetTypeName, Super: g.MType, MembersAreTypes: true}
	g.Boolean = &Proper{g: g, Name: config.BooleanTypeName, Super: g.SSet}
	g.EmptySet = &Proper{g: g, Name: config.EmptySetTypeName, Super: g.SSet}
	g.Void = &Proper{g: g, Name: config.VoidTypeName, Super: g.MType}
	g.Powerset = g.FunctionOf(g.MType, g.MType)
	return g
}

// Named builds a type variable.
func (g *Graph) Named(name string) *Named {
	return &Named{g: g, Name: name}
}

// Proper builds a fresh ground type. Its identity is the returned pointer.
func (g *Graph) Proper(name string, super MathType, membersAreTypes bool) *Proper {
	return &Proper{g: g, Name: name, Super: super, MembersAreTypes: membersAreTypes}
}

// ProperFor builds the type value of a symbol whose declared type holds
// only types, as for "Definition Z : SSet".
func (g *Graph) ProperFor(name string, declared MathType) *Proper {
	return g.Proper(name, declared, declared.MembersKnownToContainOnlyMTypes())
}

// FunctionOf builds range <- params, with an untagged domain.
func (g *Graph) FunctionOf(rng MathType, params ...MathType) *Function {
	return &Function{g: g, Domain: g.domainOf(nil, params), Range: rng}
}

// TaggedFunction builds a function whose parameters carry names.
func (g *Graph) TaggedFunction(rng MathType, names []string, params []MathType) *Function {
	if len(names) != len(params) {
		panic("typesystem: parameter names and types differ in length")
	}
	return &Function{g: g, Domain: g.domainOf(names, params), Range: rng, ParamNames: names}
}

// NewFunction builds Domain -> Range directly.
func (g *Graph) NewFunction(domain, rng MathType) *Function {
	return &Function{g: g, Domain: domain, Range: rng}
}

func (g *Graph) domainOf(names []string, params []MathType) MathType {
	switch len(params) {
	case 0:
		return g.Void
	case 1:
		return params[0]
	}
	elems := make([]Element, len(params))
	for i, p := range params {
		elems[i] = Element{Type: p}
		if names != nil {
			elems[i].Tag = names[i]
		}
	}
	return &Cartesian{g: g, Elements: elems}
}

// Cartesian builds a product type.
func (g *Graph) Cartesian(elems ...Element) *Cartesian {
	return &Cartesian{g: g, Elements: elems}
}

// CartesianOf builds an untagged product type.
func (g *Graph) CartesianOf(types ...MathType) *Cartesian {
	elems := make([]Element, len(types))
	for i, t := range types {
		elems[i] = Element{Type: t}
	}
	return &Cartesian{g: g, Elements: elems}
}

// Powertype builds Powerset(base).
func (g *Graph) Powertype(base MathType) *Powertype {
	return &Powertype{g: g, Base: base}
}

// SetRestriction builds {v : vt | p}.
func (g *Graph) SetRestriction(v string, vt MathType, p ast.Exp) *SetRestriction {
	return &SetRestriction{g: g, Var: v, VarType: vt, Predicate: p}
}

// FunctionApplication builds the type value of fn(args).
func (g *Graph) FunctionApplication(name string, rng MathType, args ...MathType) *FunctionApplication {
	return &FunctionApplication{g: g, Name: name, Args: args, Range: rng}
}

// Apply builds the type value produced by applying the function symbol
// name, of type fn, to arguments whose type values are args.
func (g *Graph) Apply(name string, fn *Function, args []MathType) MathType {
	if name == config.PowersetName && len(args) == 1 {
		return g.Powertype(args[0])
	}
	return g.FunctionApplication(name, fn.Range, args...)
}

func (g *Graph) owns(t MathType) bool {
	return t != nil && t.Graph() == g
}

// IsSubtype reports whether sub is known to be a subtype of super. It is
// conservative: false means "not established", not "disproved".
func (g *Graph) IsSubtype(sub, super MathType) bool {
	if !g.owns(sub) || !g.owns(super) {
		return false
	}
	if super == MathType(g.MType) || super == MathType(g.Entity) {
		return true
	}
	if Equal(sub, super) {
		return true
	}

	k := key(sub) + " <: " + key(super)
	if v, ok := g.subtypeCache[k]; ok {
		return v
	}
	// A query reached again through relationships answers false for
	// that path only.
	if g.pending[k] {
		return false
	}
	g.pending[k] = true
	defer delete(g.pending, k)

	result := g.isSyntacticSubtype(sub, super)
	if !result {
		if p, ok := sub.(*Proper); ok && p.Super != nil {
			result = g.IsSubtype(p.Super, super)
		}
	}
	if !result {
		result = g.subtypeByRelationship(sub, super)
	}
	// A false inside an outer query may rest on a pending answer; only
	// the outermost one is final.
	if result || len(g.pending) == 1 {
		g.subtypeCache[k] = result
	}
	return result
}

func (g *Graph) isSyntacticSubtype(sub, super MathType) bool {
	switch s := sub.(type) {
	case *Cartesian:
		p, ok := super.(*Cartesian)
		if !ok || len(p.Elements) != len(s.Elements) {
			return false
		}
		for i := range s.Elements {
			if !g.IsSubtype(s.Elements[i].Type, p.Elements[i].Type) {
				return false
			}
		}
		return true
	case *Function:
		p, ok := super.(*Function)
		if !ok {
			return false
		}
		return g.IsSubtype(p.Domain, s.Domain) && g.IsSubtype(s.Range, p.Range)
	case *Powertype:
		p, ok := super.(*Powertype)
		return ok && g.IsSubtype(s.Base, p.Base)
	case *SetRestriction:
		return g.IsSubtype(s.VarType, super)
	}
	return false
}

// IsKnownToBeIn reports whether a value of type valueType (whose own type
// value, if it denotes a type, is typeValue) is known to be a member of
// expected. The universes MType and Entity are members only of MType.
func (g *Graph) IsKnownToBeIn(valueType, typeValue, expected MathType) bool {
	if valueType == nil || expected == nil {
		return false
	}
	if typeValue == MathType(g.MType) || typeValue == MathType(g.Entity) {
		return expected == MathType(g.MType)
	}
	return g.IsSubtype(valueType, expected)
}

// key is a canonical string for caching. Proper types include their
// address because distinct Propers may share a name.
func key(t MathType) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

func writeKey(b *strings.Builder, t MathType) {
	switch typ := t.(type) {
	case *Proper:
		fmt.Fprintf(b, "%s#%p", typ.Name, typ)
	case *Named:
		b.WriteString("'" + typ.Name)
	case *Function:
		b.WriteString("(")
		writeKey(b, typ.Domain)
		b.WriteString("->")
		writeKey(b, typ.Range)
		b.WriteString(")")
	case *Cartesian:
		b.WriteString("(")
		for i, e := range typ.Elements {
			if i > 0 {
				b.WriteString("*")
			}
			writeKey(b, e.Type)
		}
		b.WriteString(")")
	case *Powertype:
		b.WriteString("P(")
		writeKey(b, typ.Base)
		b.WriteString(")")
	case *SetRestriction:
		fmt.Fprintf(b, "{%s:", typ.Var)
		writeKey(b, typ.VarType)
		fmt.Fprintf(b, "|%p}", typ.Predicate)
	case *FunctionApplication:
		b.WriteString(typ.Name + "(")
		for i, a := range typ.Args {
			if i > 0 {
				b.WriteString(",")
			}
			writeKey(b, a)
		}
		b.WriteString(")")
	default:
		b.WriteString("?")
	}
}
