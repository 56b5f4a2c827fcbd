// symbols/symbol_table.go - the scope builder and the module table
//
// The package is split into:
// - symbol_table.go: Table, the scope stack and sealing
// - symbol_table_init.go: the Global scope and its built-in symbols
// - symbol_table_entries.go: entry kinds and their coercions
// - symbol_table_program_types.go: program types and their math models
// - symbol_table_scope.go: Scope
// - symbol_table_query.go: queries, import and facility strategies
// - symbol_table_instantiate.go: facilities and module parameterization
// - symbol_table_deschematize.go: resolving schematic types per call
// - symbol_table_modes.go: parameter mode implementation order
// - symbol_table_errors.go: local failures

package symbols

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/typesystem"
)

// Table owns the Global scope, every completed module scope, and the
// stack of scopes open while one module is being populated.
type Table struct {
	graph   *typesystem.Graph
	global  *Scope
	modules map[ModuleIdentifier]*Scope
	order   []ModuleIdentifier
	stack   []*Scope
	sealed  bool
}

// NewTable builds a table whose Global scope holds the built-ins of g.
func NewTable(g *typesystem.Graph) *Table {
	t := &Table{graph: g, modules: make(map[ModuleIdentifier]*Scope)}
	t.global = newScope(t, GlobalScope, nil, GlobalModule, nil)
	t.initBuiltins()
	t.global.sealed = true
	return t
}

func (t *Table) Graph() *typesystem.Graph { return t.graph }
func (t *Table) Global() *Scope           { return t.global }

// StartModuleScope opens the scope of m. No other scope may be open.
func (t *Table) StartModuleScope(m *ast.Module) (*Scope, error) {
	if t.sealed {
		return nil, &ScopeError{Msg: "table is sealed"}
	}
	if len(t.stack) != 0 {
		return nil, &ScopeError{Msg: "module " + m.Name + " started inside another scope"}
	}
	id := ModuleIdentifier(m.Name)
	if existing, ok := t.modules[id]; ok || id == GlobalModule {
		if !ok {
			existing = t.global
		}
		return nil, &DuplicateSymbolError{Name: m.Name, Existing: moduleEntry(existing)}
	}
	s := newScope(t, ModuleScope, m, id, t.global)
	t.stack = append(t.stack, s)
	return s, nil
}

// StartScope opens a nested scope in the innermost one.
func (t *Table) StartScope(kind ScopeKind, def ast.Node) (*Scope, error) {
	parent := t.CurrentScope()
	if parent == nil {
		return nil, &ScopeError{Msg: "nested scope with no module open"}
	}
	s := newScope(t, kind, def, parent.module, parent)
	parent.children = append(parent.children, s)
	t.stack = append(t.stack, s)
	return s, nil
}

// EndScope closes the innermost scope. Closing a module scope seals it
// and makes it visible to later modules.
func (t *Table) EndScope() (*Scope, error) {
	if len(t.stack) == 0 {
		return nil, &ScopeError{Msg: "end of scope with none open"}
	}
	s := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if s.kind == ModuleScope {
		sealTree(s)
		t.modules[s.module] = s
		t.order = append(t.order, s.module)
	}
	return s, nil
}

// Abandon discards every open scope. The half-built module is never
// registered.
func (t *Table) Abandon() {
	t.stack = nil
}

// CurrentScope is the innermost open scope, or nil.
func (t *Table) CurrentScope() *Scope {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// Depth is the number of open scopes.
func (t *Table) Depth() int { return len(t.stack) }

// ModuleScope returns a completed module scope. Global is always there.
func (t *Table) ModuleScope(id ModuleIdentifier) (*Scope, bool) {
	if id == GlobalModule {
		return t.global, true
	}
	s, ok := t.modules[id]
	return s, ok
}

// HasModule reports whether id has been populated.
func (t *Table) HasModule(id ModuleIdentifier) bool {
	_, ok := t.modules[id]
	return ok
}

// Modules returns the completed module scopes in population order.
func (t *Table) Modules() []*Scope {
	out := make([]*Scope, len(t.order))
	for i, id := range t.order {
		out[i] = t.modules[id]
	}
	return out
}

// Seal freezes the table. It fails if any scope is still open.
func (t *Table) Seal() error {
	if len(t.stack) != 0 {
		return &ScopeError{Msg: "seal with open scopes"}
	}
	t.sealed = true
	return nil
}

func (t *Table) Sealed() bool { return t.sealed }

func sealTree(s *Scope) {
	s.sealed = true
	for _, c := range s.children {
		sealTree(c)
	}
}

// ModuleEntry returns the entry standing for a populated module: a
// *ShortFacilityEntry for a facility module that declares exactly one
// facility and nothing else, a *ModuleEntry otherwise.
func (t *Table) ModuleEntry(id ModuleIdentifier) (Entry, bool) {
	s, ok := t.ModuleScope(id)
	if !ok {
		return nil, false
	}
	return moduleEntry(s), true
}

func moduleEntry(s *Scope) Entry {
	base := &ModuleEntry{
		baseEntry: baseEntry{name: string(s.module), definition: s.definition, module: s.module, description: "a module"},
		Scope:     s,
	}
	m, ok := s.definition.(*ast.Module)
	if !ok || m.Kind != ast.FacilityModule || len(m.Decs) != 1 {
		return base
	}
	dec, ok := m.Decs[0].(*ast.FacilityDec)
	if !ok {
		return base
	}
	e, ok := s.Lookup(dec.Name)
	if !ok {
		return base
	}
	f, err := e.ToFacility()
	if err != nil {
		return base
	}
	base.description = "a short facility module"
	return &ShortFacilityEntry{ModuleEntry: *base, Facility: f}
}

// ModuleEntry stands for a module scope where an Entry is expected.
type ModuleEntry struct {
	baseEntry
	Scope *Scope
}

func (e *ModuleEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry { return e }

// ShortFacilityEntry is a facility module made of a single facility
// declaration. Facility is that declaration's entry.
type ShortFacilityEntry struct {
	ModuleEntry
	Facility *FacilityEntry
}

func (e *ShortFacilityEntry) ToShortFacility() (*ShortFacilityEntry, error) { return e, nil }
func (e *ShortFacilityEntry) ToFacility() (*FacilityEntry, error)           { return e.Facility, nil }

func (e *ShortFacilityEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry {
	return e
}
