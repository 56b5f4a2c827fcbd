package symbols

import (
	"slices"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/typesystem"
)

type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	ModuleScope
	OperationScope
	ProcedureScope
	TypeScope
	QuantifierScope
	DefinitionScope
	TheoremScope
	LambdaScope
)

var scopeKindNames = [...]string{"global", "module", "operation", "procedure", "type", "quantifier", "definition", "theorem", "lambda"}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "unknown"
}

// Scope is one node of the scope tree. Bindings keep insertion order.
// Only module scopes carry imports; only they outlive population.
type Scope struct {
	kind       ScopeKind
	definition ast.Node
	module     ModuleIdentifier
	parent     *Scope
	table      *Table

	names    []string
	bindings map[string]Entry
	imports  []ModuleIdentifier
	formals  []Entry
	children []*Scope
	sealed   bool
}

func newScope(t *Table, kind ScopeKind, def ast.Node, module ModuleIdentifier, parent *Scope) *Scope {
	return &Scope{
		kind:       kind,
		definition: def,
		module:     module,
		parent:     parent,
		table:      t,
		bindings:   make(map[string]Entry),
	}
}

func (s *Scope) Kind() ScopeKind             { return s.kind }
func (s *Scope) DefiningElement() ast.Node   { return s.definition }
func (s *Scope) Module() ModuleIdentifier    { return s.module }
func (s *Scope) Parent() *Scope              { return s.parent }
func (s *Scope) Children() []*Scope          { return s.children }
func (s *Scope) Imports() []ModuleIdentifier { return s.imports }
func (s *Scope) Sealed() bool                { return s.sealed }
func (s *Scope) Graph() *typesystem.Graph    { return s.table.graph }
func (s *Scope) Lookup(name string) (Entry, bool) {
	e, ok := s.bindings[name]
	return e, ok
}

// Entries returns the bindings in insertion order.
func (s *Scope) Entries() []Entry {
	out := make([]Entry, len(s.names))
	for i, n := range s.names {
		out[i] = s.bindings[n]
	}
	return out
}

// ModuleScope walks up to the enclosing module scope, or the global
// scope when there is none.
func (s *Scope) ModuleScope() *Scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == ModuleScope || cur.kind == GlobalScope {
			return cur
		}
	}
	return nil
}

// Add binds e.Name() in this scope. Names already bound in an enclosing
// scope are shadowed, not rejected.
func (s *Scope) Add(e Entry) error {
	if s.sealed {
		return &ScopeError{Msg: "add to sealed scope of " + string(s.module)}
	}
	if existing, ok := s.bindings[e.Name()]; ok {
		return &DuplicateSymbolError{Name: e.Name(), Existing: existing}
	}
	s.names = append(s.names, e.Name())
	s.bindings[e.Name()] = e
	return nil
}

// AddBinding binds a math symbol.
func (s *Scope) AddBinding(name string, q ast.Quantification, def ast.Node, typ, typeValue typesystem.MathType,
	schematics, generics map[string]typesystem.MathType) (*MathSymbolEntry, error) {
	e := NewMathSymbolEntry(name, def, s.module, q, typ, typeValue, schematics, generics)
	if err := s.Add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddFormal binds a module formal parameter and records its position.
func (s *Scope) AddFormal(e Entry) error {
	if err := s.Add(e); err != nil {
		return err
	}
	s.formals = append(s.formals, e)
	return nil
}

// Formals returns the module's formal parameters in declaration order.
func (s *Scope) Formals() []Entry { return s.formals }

// AddImport records that this module scope imports id. Repeats are
// ignored.
func (s *Scope) AddImport(id ModuleIdentifier) {
	if slices.Contains(s.imports, id) {
		return
	}
	s.imports = append(s.imports, id)
}

// UniversalTypeBounds returns the universally quantified type-valued
// variables bound in this scope, with their declared types.
func (s *Scope) UniversalTypeBounds() map[string]typesystem.MathType {
	out := make(map[string]typesystem.MathType)
	for _, n := range s.names {
		m, ok := s.bindings[n].(*MathSymbolEntry)
		if ok && m.Quantification == ast.Universal && m.Type.IsKnownToContainOnlyMTypes() {
			out[n] = m.Type
		}
	}
	return out
}
