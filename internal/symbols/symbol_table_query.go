package symbols

import (
	"slices"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/specsema/internal/ast"
)

// ImportStrategy says which imported modules a lookup may enter.
type ImportStrategy int

const (
	// ImportNone searches only the scope chain.
	ImportNone ImportStrategy = iota
	// ImportNamed also searches modules imported by the current module,
	// but not what those modules import.
	ImportNamed
	// ImportRecursive follows imports transitively.
	ImportRecursive
)

func (s ImportStrategy) cascade() ImportStrategy {
	if s == ImportNamed {
		return ImportNone
	}
	return s
}

// FacilityStrategy says whether facilities declared in a searched scope
// are entered.
type FacilityStrategy int

const (
	FacilityIgnore FacilityStrategy = iota
	// FacilityInstantiate searches a facility's concept and enhancements
	// with the facility's generic arguments substituted.
	FacilityInstantiate
)

// entrySource is a scope as a searcher sees it.
type entrySource interface {
	lookup(name string) (Entry, bool)
	entries() []Entry
}

func (s *Scope) lookup(name string) (Entry, bool) { return s.Lookup(name) }
func (s *Scope) entries() []Entry                 { return s.Entries() }

// Searcher picks matching entries out of one scope. It returns the
// extended matches and whether the search is finished.
type Searcher interface {
	addMatches(src entrySource, matches []Entry) ([]Entry, bool)
}

type nameSearcher struct {
	name           string
	accept         func(Entry) bool
	stopAfterFirst bool
}

func (n nameSearcher) addMatches(src entrySource, matches []Entry) ([]Entry, bool) {
	e, ok := src.lookup(n.name)
	if !ok || (n.accept != nil && !n.accept(e)) {
		return matches, false
	}
	return append(matches, e), n.stopAfterFirst
}

type operationSearcher struct {
	name string
	args []ProgramType
}

func (o operationSearcher) addMatches(src entrySource, matches []Entry) ([]Entry, bool) {
	e, ok := src.lookup(o.name)
	if !ok {
		return matches, false
	}
	op, err := e.ToOperation()
	if err != nil || len(op.Params) != len(o.args) {
		return matches, false
	}
	for i, p := range op.Params {
		if !o.args[i].AcceptableFor(p.ProgramType) {
			return matches, false
		}
	}
	return append(matches, e), true
}

type genericSearcher struct{}

func (genericSearcher) addMatches(src entrySource, matches []Entry) ([]Entry, bool) {
	for _, e := range src.entries() {
		if p, ok := e.(*ProgramParameterEntry); ok && p.Mode == ast.TypeMode {
			matches = append(matches, e)
		}
	}
	return matches, false
}

// Query is a lookup. Qualifier, when set, names a module or facility
// and replaces the normal search path.
type Query struct {
	Qualifier  string
	Searcher   Searcher
	Imports    ImportStrategy
	Facilities FacilityStrategy
}

// NameQuery finds entries named name.
func NameQuery(qualifier, name string, imports ImportStrategy, facilities FacilityStrategy, stopAfterFirst bool) Query {
	return Query{
		Qualifier:  qualifier,
		Searcher:   nameSearcher{name: name, stopAfterFirst: stopAfterFirst},
		Imports:    imports,
		Facilities: facilities,
	}
}

// NameAndKindQuery finds entries named name that accept admits.
func NameAndKindQuery(qualifier, name string, accept func(Entry) bool, imports ImportStrategy, facilities FacilityStrategy) Query {
	return Query{
		Qualifier:  qualifier,
		Searcher:   nameSearcher{name: name, accept: accept, stopAfterFirst: true},
		Imports:    imports,
		Facilities: facilities,
	}
}

// MathSymbolQuery finds the innermost symbol named name usable in an
// assertion.
func MathSymbolQuery(qualifier, name string) Query {
	return NameAndKindQuery(qualifier, name, IsMathSymbol, ImportNamed, FacilityInstantiate)
}

// MathFunctionNamedQuery collects every math symbol named name visible
// from the scope, for overload resolution.
func MathFunctionNamedQuery(qualifier, name string) Query {
	return Query{
		Qualifier:  qualifier,
		Searcher:   nameSearcher{name: name, accept: IsMathSymbol},
		Imports:    ImportNamed,
		Facilities: FacilityInstantiate,
	}
}

// OperationQuery finds an operation whose parameters accept args.
func OperationQuery(qualifier, name string, args []ProgramType) Query {
	return Query{
		Qualifier:  qualifier,
		Searcher:   operationSearcher{name: name, args: args},
		Imports:    ImportNamed,
		Facilities: FacilityInstantiate,
	}
}

// ProgramTypeQuery finds a program type by name.
func ProgramTypeQuery(qualifier, name string) Query {
	return NameAndKindQuery(qualifier, name, IsProgramType, ImportNamed, FacilityInstantiate)
}

// GenericProgramTypeQuery collects the generic type parameters visible
// along the scope chain.
func GenericProgramTypeQuery() Query {
	return Query{Searcher: genericSearcher{}, Imports: ImportNone, Facilities: FacilityIgnore}
}

func IsMathSymbol(e Entry) bool {
	_, err := e.ToMathSymbol()
	return err == nil
}

func IsProgramType(e Entry) bool {
	_, err := e.ToProgramType()
	return err == nil
}

func IsFacility(e Entry) bool {
	_, ok := e.(*FacilityEntry)
	return ok
}

type searchKey struct {
	scope    *Scope
	facility *FacilityEntry
}

type search struct {
	q        Query
	searched *set.Set[searchKey]
	matches  []Entry
}

// Query runs q from this scope. Zero results is not an error.
func (s *Scope) Query(q Query) ([]Entry, error) {
	sr := &search{q: q, searched: set.New[searchKey](8)}
	if q.Qualifier != "" {
		if err := sr.qualified(s); err != nil {
			return nil, err
		}
		return sr.matches, nil
	}

	for cur := s; cur != nil; cur = cur.parent {
		if sr.scope(cur) {
			return sr.matches, nil
		}
	}
	if q.Imports == ImportNone {
		return sr.matches, nil
	}
	if mod := s.ModuleScope(); mod != nil {
		sr.imports(mod, q.Imports)
	}
	return sr.matches, nil
}

// QueryForOne runs q and requires exactly one distinct result.
func (s *Scope) QueryForOne(q Query) (Entry, error) {
	found, err := s.Query(q)
	if err != nil {
		return nil, err
	}
	found = distinct(found)
	switch len(found) {
	case 0:
		return nil, &NoSuchSymbolError{Qualifier: q.Qualifier, Name: searchedName(q)}
	case 1:
		return found[0], nil
	}
	return nil, &AmbiguousSymbolError{Name: searchedName(q), Candidates: found}
}

func searchedName(q Query) string {
	switch sr := q.Searcher.(type) {
	case nameSearcher:
		return sr.name
	case operationSearcher:
		return sr.name
	}
	return ""
}

func distinct(entries []Entry) []Entry {
	seen := set.New[Entry](len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if seen.Insert(e) {
			out = append(out, e)
		}
	}
	return out
}

// scope searches one scope and, when allowed, the facilities it
// declares. It reports whether the search is finished.
func (sr *search) scope(s *Scope) bool {
	if !sr.searched.Insert(searchKey{scope: s}) {
		return false
	}
	var finished bool
	sr.matches, finished = sr.q.Searcher.addMatches(s, sr.matches)
	if finished {
		return true
	}
	if sr.q.Facilities == FacilityIgnore {
		return false
	}
	for _, e := range s.Entries() {
		if f, ok := e.(*FacilityEntry); ok {
			if sr.facility(f) {
				return true
			}
		}
	}
	return false
}

// facility searches the concept and enhancement scopes of f.
func (sr *search) facility(f *FacilityEntry) bool {
	for _, p := range f.SearchedModules() {
		if !sr.searched.Insert(searchKey{scope: p.Scope, facility: f}) {
			continue
		}
		var src entrySource = p.Scope
		if sr.q.Facilities == FacilityInstantiate {
			src = &instantiatedScope{base: p.Scope, inst: f.GenericInstantiations(), facility: f}
		}
		var finished bool
		sr.matches, finished = sr.q.Searcher.addMatches(src, sr.matches)
		if finished {
			return true
		}
	}
	return false
}

// imports searches every module imported by mod. Each import is searched
// on its own, so one name found in two imports yields two matches.
func (sr *search) imports(mod *Scope, strategy ImportStrategy) {
	for _, id := range mod.imports {
		imported, ok := mod.table.ModuleScope(id)
		if !ok {
			continue
		}
		if sr.scope(imported) {
			continue
		}
		if next := strategy.cascade(); next != ImportNone {
			sr.imports(imported, next)
		}
	}
}

// qualified resolves Q.name: Q is a facility visible from s, the current
// module, or a module the current module imports.
func (sr *search) qualified(s *Scope) error {
	facilities, err := s.Query(NameAndKindQuery("", sr.q.Qualifier, IsFacility, ImportNamed, FacilityIgnore))
	if err != nil {
		return err
	}
	if len(facilities) > 0 {
		if sr.q.Facilities == FacilityIgnore {
			sr.q.Facilities = FacilityInstantiate
		}
		sr.facility(facilities[0].(*FacilityEntry))
		return nil
	}

	id := ModuleIdentifier(sr.q.Qualifier)
	mod := s.ModuleScope()
	var target *Scope
	switch {
	case mod != nil && mod.module == id:
		target = mod
	case id == GlobalModule:
		target = s.table.global
	case mod != nil && slices.Contains(mod.imports, id):
		target, _ = mod.table.ModuleScope(id)
	}
	if target == nil {
		return &NoSuchModuleError{Name: sr.q.Qualifier}
	}
	sr.scope(target)
	return nil
}
