package typesystem

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
)

// RelationshipScope is the scope a type theorem was declared in. Its
// universally quantified type-valued variables act as pattern variables
// when the relationship is matched.
type RelationshipScope interface {
	UniversalTypeBounds() map[string]MathType
}

// Relationship records that every value of Source whose binding matches
// BindingExp is also in Dest whenever Condition holds.
type Relationship struct {
	BindingExp ast.Exp
	Source     MathType
	Dest       MathType
	Condition  ast.Exp
	Vars       Subst
}

// IsUnconditional reports whether the condition is literally true.
func (r *Relationship) IsUnconditional() bool {
	return IsLiteralTrue(r.Condition)
}

// IsLiteralTrue reports whether e is absent or the symbol true.
func IsLiteralTrue(e ast.Exp) bool {
	if ast.IsNil(e) {
		return true
	}
	v, ok := e.(*ast.VarExp)
	return ok && v.Qualifier == "" && v.Name == config.TrueName
}

// SplitTypeTheorem checks the fixed shape of a type theorem assertion,
// [condition implies] (exp : Ty), and returns its two parts. condition is
// nil when absent.
func SplitTypeTheorem(assertion ast.Exp) (condition ast.Exp, body *ast.TypeAssertionExp, err error) {
	switch e := assertion.(type) {
	case *ast.TypeAssertionExp:
		return nil, e, nil
	case *ast.InfixExp:
		if e.Operator == config.ImpliesName {
			if ta, ok := e.Right.(*ast.TypeAssertionExp); ok {
				return e.Left, ta, nil
			}
		}
	}
	return nil, nil, &IllegalRelationshipError{Assertion: assertion}
}

// AddRelationship registers a type theorem. bindingType is the math type
// of bindingExp; condition may be nil, meaning true.
func (g *Graph) AddRelationship(bindingExp ast.Exp, bindingType, dest MathType, condition ast.Exp, scope RelationshipScope) error {
	if ast.IsNil(bindingExp) || !g.owns(bindingType) || !g.owns(dest) {
		return &IllegalRelationshipError{Assertion: bindingExp}
	}
	vars := Subst{}
	if scope != nil {
		for name, bound := range scope.UniversalTypeBounds() {
			vars[name] = bound
		}
	}
	g.relationships = append(g.relationships, &Relationship{
		BindingExp: bindingExp,
		Source:     bindingType,
		Dest:       dest,
		Condition:  condition,
		Vars:       vars,
	})
	// New facts may turn earlier negative answers positive.
	g.subtypeCache = make(map[string]bool)
	return nil
}

// Mark returns the current relationship count, for Rollback.
func (g *Graph) Mark() int { return len(g.relationships) }

// Rollback drops every relationship added since mark. A module that
// fails population leaves the graph as it found it.
func (g *Graph) Rollback(mark int) {
	if mark < 0 || mark >= len(g.relationships) {
		return
	}
	g.relationships = g.relationships[:mark]
	g.subtypeCache = make(map[string]bool)
}

// Relationships returns the registered relationships in insertion order.
func (g *Graph) Relationships() []*Relationship {
	return append([]*Relationship(nil), g.relationships...)
}

func (g *Graph) subtypeByRelationship(sub, super MathType) bool {
	for _, r := range g.relationships {
		if !r.IsUnconditional() {
			continue
		}
		bindings, err := g.Bind(sub, r.Source, r.Vars, nil)
		if err != nil {
			continue
		}
		dest := r.Dest.Apply(bindings)
		if Equal(dest, super) || g.IsSubtype(dest, super) {
			return true
		}
	}
	return false
}
