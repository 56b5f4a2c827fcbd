package symbols

import (
	"github.com/funvibe/specsema/internal/ast"
)

// ModuleArgument is one resolved actual argument of a facility.
// ProgramType is the argument's program type: the type itself for a type
// argument, the expression's type otherwise.
type ModuleArgument struct {
	Node        ast.Node
	IsType      bool
	ProgramType ProgramType
}

// ModuleParameterization is a module together with the arguments it is
// instantiated with.
type ModuleParameterization struct {
	Module ModuleIdentifier
	Scope  *Scope
	Args   []ModuleArgument

	facility *FacilityEntry
}

func NewModuleParameterization(scope *Scope, args []ModuleArgument) *ModuleParameterization {
	return &ModuleParameterization{Module: scope.module, Scope: scope, Args: args}
}

// Facility is the facility this parameterization belongs to.
func (p *ModuleParameterization) Facility() *FacilityEntry { return p.facility }

// typeArguments pairs each type-mode formal with its argument. Arity is
// checked when the facility is populated.
func (p *ModuleParameterization) typeArguments(out map[string]ProgramType) {
	for i, formal := range p.Scope.formals {
		param, ok := formal.(*ProgramParameterEntry)
		if !ok || param.Mode != ast.TypeMode || i >= len(p.Args) {
			continue
		}
		if p.Args[i].IsType {
			out[param.Name()] = p.Args[i].ProgramType
		}
	}
}

// FacilityEntry pairs a concept with its realization and enhancements.
// An enhancement without its own realization is realized by the concept
// realization; EnhancementRealization then returns that same object.
type FacilityEntry struct {
	baseEntry
	Spec         *ModuleParameterization
	Realization  *ModuleParameterization
	Enhancements []*ModuleParameterization

	enhancementRealizations map[*ModuleParameterization]*ModuleParameterization
	instantiations          map[string]ProgramType
}

func NewFacilityEntry(name string, def ast.Node, module ModuleIdentifier, spec, realization *ModuleParameterization) *FacilityEntry {
	f := &FacilityEntry{
		baseEntry:               baseEntry{name: name, definition: def, module: module, description: "a facility"},
		Spec:                    spec,
		Realization:             realization,
		enhancementRealizations: make(map[*ModuleParameterization]*ModuleParameterization),
	}
	spec.facility = f
	if realization != nil {
		realization.facility = f
	}
	f.computeInstantiations()
	return f
}

// AddEnhancement records an enhancement. A nil realization means the
// concept realization provides it.
func (f *FacilityEntry) AddEnhancement(spec, realization *ModuleParameterization) {
	spec.facility = f
	if realization == nil {
		realization = f.Realization
	} else {
		realization.facility = f
	}
	f.Enhancements = append(f.Enhancements, spec)
	f.enhancementRealizations[spec] = realization
	f.computeInstantiations()
}

// EnhancementRealization returns the module realizing the named
// enhancement.
func (f *FacilityEntry) EnhancementRealization(enhancement ModuleIdentifier) (*ModuleParameterization, bool) {
	for _, e := range f.Enhancements {
		if e.Module == enhancement {
			r := f.enhancementRealizations[e]
			return r, r != nil
		}
	}
	return nil, false
}

// GenericInstantiations maps the concept's generic type names, and any
// an enhancement adds, to the facility's type arguments.
func (f *FacilityEntry) GenericInstantiations() map[string]ProgramType {
	return f.instantiations
}

func (f *FacilityEntry) computeInstantiations() {
	inst := make(map[string]ProgramType)
	f.Spec.typeArguments(inst)
	for _, e := range f.Enhancements {
		e.typeArguments(inst)
	}
	f.instantiations = inst
}

// SearchedModules are the modules whose symbols the facility exports.
func (f *FacilityEntry) SearchedModules() []*ModuleParameterization {
	out := make([]*ModuleParameterization, 0, 1+len(f.Enhancements))
	out = append(out, f.Spec)
	return append(out, f.Enhancements...)
}

func (f *FacilityEntry) ToFacility() (*FacilityEntry, error) { return f, nil }

func (f *FacilityEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry { return f }

// instantiatedScope presents a module scope as seen through a facility.
type instantiatedScope struct {
	base     *Scope
	inst     map[string]ProgramType
	facility *FacilityEntry
}

func (s *instantiatedScope) lookup(name string) (Entry, bool) {
	e, ok := s.base.Lookup(name)
	if !ok {
		return nil, false
	}
	return e.InstantiateGenerics(s.inst, s.facility), true
}

func (s *instantiatedScope) entries() []Entry {
	base := s.base.Entries()
	out := make([]Entry, len(base))
	for i, e := range base {
		out[i] = e.InstantiateGenerics(s.inst, s.facility)
	}
	return out
}

// InstantiateGenerics is the free form of Entry.InstantiateGenerics.
func InstantiateGenerics(e Entry, inst map[string]ProgramType, facility *FacilityEntry) Entry {
	if len(inst) == 0 {
		return e
	}
	return e.InstantiateGenerics(inst, facility)
}
