package symbols

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/typesystem"
)

// ModuleIdentifier names a module scope.
type ModuleIdentifier string

const GlobalModule ModuleIdentifier = config.GlobalModuleName

// Entry is one symbol binding. Coercions (ToX) are total: an entry that
// cannot represent kind X returns an *UnexpectedKindError.
type Entry interface {
	Name() string
	DefiningElement() ast.Node
	SourceModule() ModuleIdentifier
	Description() string

	ToMathSymbol() (*MathSymbolEntry, error)
	ToProgramVariable() (*ProgramVariableEntry, error)
	ToProgramParameter() (*ProgramParameterEntry, error)
	ToProgramType() (*ProgramTypeEntry, error)
	ToTypeFamily() (*TypeFamilyEntry, error)
	ToTypeRepresentation() (*TypeRepresentationEntry, error)
	ToFacilityTypeRepresentation() (*FacilityTypeRepresentationEntry, error)
	ToOperation() (*OperationEntry, error)
	ToOperationProfile() (*OperationProfileEntry, error)
	ToProcedure() (*ProcedureEntry, error)
	ToFacility() (*FacilityEntry, error)
	ToShortFacility() (*ShortFacilityEntry, error)
	ToTheorem() (*TheoremEntry, error)

	// InstantiateGenerics returns the entry as seen through a facility
	// that binds the named generic program types.
	InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry
}

// FullyQualifiedName is Module::name.
func FullyQualifiedName(e Entry) string {
	return string(e.SourceModule()) + "::" + e.Name()
}

type baseEntry struct {
	name        string
	definition  ast.Node
	module      ModuleIdentifier
	description string
}

func (e *baseEntry) Name() string                   { return e.name }
func (e *baseEntry) DefiningElement() ast.Node      { return e.definition }
func (e *baseEntry) SourceModule() ModuleIdentifier { return e.module }
func (e *baseEntry) Description() string            { return e.description }

func (e *baseEntry) unexpected(expected string) error {
	return &UnexpectedKindError{Expected: expected, Found: e.description}
}

func (e *baseEntry) ToMathSymbol() (*MathSymbolEntry, error) {
	return nil, e.unexpected("a math symbol")
}
func (e *baseEntry) ToProgramVariable() (*ProgramVariableEntry, error) {
	return nil, e.unexpected("a program variable")
}
func (e *baseEntry) ToProgramParameter() (*ProgramParameterEntry, error) {
	return nil, e.unexpected("a parameter")
}
func (e *baseEntry) ToProgramType() (*ProgramTypeEntry, error) {
	return nil, e.unexpected("a program type")
}
func (e *baseEntry) ToTypeFamily() (*TypeFamilyEntry, error) {
	return nil, e.unexpected("a type family")
}
func (e *baseEntry) ToTypeRepresentation() (*TypeRepresentationEntry, error) {
	return nil, e.unexpected("a type representation")
}
func (e *baseEntry) ToFacilityTypeRepresentation() (*FacilityTypeRepresentationEntry, error) {
	return nil, e.unexpected("a facility type representation")
}
func (e *baseEntry) ToOperation() (*OperationEntry, error) {
	return nil, e.unexpected("an operation")
}
func (e *baseEntry) ToOperationProfile() (*OperationProfileEntry, error) {
	return nil, e.unexpected("an operation profile")
}
func (e *baseEntry) ToProcedure() (*ProcedureEntry, error) {
	return nil, e.unexpected("a procedure")
}
func (e *baseEntry) ToFacility() (*FacilityEntry, error) {
	return nil, e.unexpected("a facility")
}
func (e *baseEntry) ToShortFacility() (*ShortFacilityEntry, error) {
	return nil, e.unexpected("a short facility module")
}
func (e *baseEntry) ToTheorem() (*TheoremEntry, error) {
	return nil, e.unexpected("a theorem")
}

// MathSymbolEntry is a math variable, definition or built-in.
type MathSymbolEntry struct {
	baseEntry
	Type           typesystem.MathType
	typeValue      typesystem.MathType
	Quantification ast.Quantification

	// SchematicTypes are implicit type parameters, resolved per use by
	// Deschematize. Each maps to its declared bound.
	SchematicTypes map[string]typesystem.MathType

	// GenericsInDefiningContext are the generic types visible where the
	// symbol was declared.
	GenericsInDefiningContext map[string]typesystem.MathType
}

// NewMathSymbolEntry builds a math symbol. When no type value is given
// and the declared type holds only types, the symbol itself denotes a
// fresh proper type, e.g. "Definition Z : SSet".
func NewMathSymbolEntry(name string, def ast.Node, module ModuleIdentifier, q ast.Quantification,
	typ, typeValue typesystem.MathType, schematics, generics map[string]typesystem.MathType) *MathSymbolEntry {
	if typeValue == nil && typ.IsKnownToContainOnlyMTypes() {
		typeValue = typ.Graph().ProperFor(name, typ)
	}
	return &MathSymbolEntry{
		baseEntry:                 baseEntry{name: name, definition: def, module: module, description: "a math symbol"},
		Type:                      typ,
		typeValue:                 typeValue,
		Quantification:            q,
		SchematicTypes:            schematics,
		GenericsInDefiningContext: generics,
	}
}

func (e *MathSymbolEntry) ToMathSymbol() (*MathSymbolEntry, error) { return e, nil }

// TypeValue returns the type the symbol denotes.
func (e *MathSymbolEntry) TypeValue() (typesystem.MathType, error) {
	if e.typeValue == nil {
		return nil, &NotATypeError{Name: e.name}
	}
	return e.typeValue, nil
}

func (e *MathSymbolEntry) HasTypeValue() bool { return e.typeValue != nil }

func (e *MathSymbolEntry) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry {
	subst := make(typesystem.Subst, len(inst))
	for name, pt := range inst {
		if _, own := e.SchematicTypes[name]; own {
			continue
		}
		subst[name] = pt.ToMath()
	}
	if len(subst) == 0 {
		return e
	}
	out := *e
	out.Type = e.Type.Apply(subst)
	if e.typeValue != nil {
		out.typeValue = e.typeValue.Apply(subst)
	}
	out.GenericsInDefiningContext = nil
	return &out
}

// ProgramVariableEntry is a Var declaration or a record exemplar.
type ProgramVariableEntry struct {
	baseEntry
	ProgramType  ProgramType
	mathAlterEgo *MathSymbolEntry
}

func NewProgramVariableEntry(name string, def ast.Node, module ModuleIdentifier, pt ProgramType) *ProgramVariableEntry {
	return &ProgramVariableEntry{
		baseEntry:    baseEntry{name: name, definition: def, module: module, description: "a program variable"},
		ProgramType:  pt,
		mathAlterEgo: NewMathSymbolEntry(name, def, module, ast.NoQuantification, pt.ToMath(), nil, nil, nil),
	}
}

func (e *ProgramVariableEntry) ToProgramVariable() (*ProgramVariableEntry, error) { return e, nil }

// ToMathSymbol is the variable as seen from an assertion.
func (e *ProgramVariableEntry) ToMathSymbol() (*MathSymbolEntry, error) {
	return e.mathAlterEgo, nil
}

func (e *ProgramVariableEntry) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry {
	return NewProgramVariableEntry(e.name, e.definition, e.module, e.ProgramType.InstantiateGenerics(inst, facility))
}

// ProgramParameterEntry is a formal parameter of an operation, a
// procedure or a module.
type ProgramParameterEntry struct {
	baseEntry
	Mode        ast.ParameterMode
	ProgramType ProgramType

	mathAlterEgo *MathSymbolEntry
	varAlterEgo  *ProgramVariableEntry
}

func NewProgramParameterEntry(name string, def ast.Node, module ModuleIdentifier, mode ast.ParameterMode, pt ProgramType) *ProgramParameterEntry {
	e := &ProgramParameterEntry{
		baseEntry:   baseEntry{name: name, definition: def, module: module, description: "a parameter"},
		Mode:        mode,
		ProgramType: pt,
	}
	if mode == ast.TypeMode {
		model := pt.ToMath()
		e.mathAlterEgo = NewMathSymbolEntry(name, def, module, ast.NoQuantification, model.Graph().MType, model, nil, nil)
	} else {
		e.varAlterEgo = NewProgramVariableEntry(name, def, module, pt)
		e.mathAlterEgo = e.varAlterEgo.mathAlterEgo
	}
	return e
}

func (e *ProgramParameterEntry) ToProgramParameter() (*ProgramParameterEntry, error) { return e, nil }

func (e *ProgramParameterEntry) ToMathSymbol() (*MathSymbolEntry, error) {
	return e.mathAlterEgo, nil
}

func (e *ProgramParameterEntry) ToProgramVariable() (*ProgramVariableEntry, error) {
	if e.varAlterEgo == nil {
		return nil, e.unexpected("a program variable")
	}
	return e.varAlterEgo, nil
}

// ToProgramType succeeds only for type parameters.
func (e *ProgramParameterEntry) ToProgramType() (*ProgramTypeEntry, error) {
	if e.Mode != ast.TypeMode {
		return nil, e.unexpected("a program type")
	}
	return NewProgramTypeEntry(e.name, e.definition, e.module, e.ProgramType.ToMath(), e.ProgramType), nil
}

func (e *ProgramParameterEntry) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry {
	return NewProgramParameterEntry(e.name, e.definition, e.module, e.Mode, e.ProgramType.InstantiateGenerics(inst, facility))
}

// ProgramTypeEntry is a program type with its math model.
type ProgramTypeEntry struct {
	baseEntry
	Model       typesystem.MathType
	ProgramType ProgramType
}

func NewProgramTypeEntry(name string, def ast.Node, module ModuleIdentifier, model typesystem.MathType, pt ProgramType) *ProgramTypeEntry {
	return &ProgramTypeEntry{
		baseEntry:   baseEntry{name: name, definition: def, module: module, description: "a program type"},
		Model:       model,
		ProgramType: pt,
	}
}

func (e *ProgramTypeEntry) ToProgramType() (*ProgramTypeEntry, error) { return e, nil }

// ToMathSymbol is the type's name in an assertion: a symbol of type
// MType whose value is the model.
func (e *ProgramTypeEntry) ToMathSymbol() (*MathSymbolEntry, error) {
	g := e.Model.Graph()
	return NewMathSymbolEntry(e.name, e.definition, e.module, ast.NoQuantification, g.MType, e.Model, nil, nil), nil
}

func (e *ProgramTypeEntry) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry {
	return NewProgramTypeEntry(e.name, e.definition, e.module,
		e.Model.Apply(mathSubst(inst)), e.ProgramType.InstantiateGenerics(inst, facility))
}

// TypeFamilyEntry is a concept's abstract type.
type TypeFamilyEntry struct {
	ProgramTypeEntry
	Exemplar       *MathSymbolEntry
	Constraint     ast.Exp
	Initialization ast.Exp
	Finalization   ast.Exp
}

func NewTypeFamilyEntry(def *ast.TypeFamilyDec, module ModuleIdentifier, model typesystem.MathType,
	exemplar *MathSymbolEntry) *TypeFamilyEntry {
	e := &TypeFamilyEntry{
		Exemplar:       exemplar,
		Constraint:     def.Constraint,
		Initialization: def.InitEnsures,
		Finalization:   def.FinalEnsures,
	}
	family := &PTFamily{Model: model, Name: def.Name, ExemplarName: def.Exemplar, Module: module}
	e.ProgramTypeEntry = *NewProgramTypeEntry(def.Name, def, module, model, family)
	e.description = "a type family"
	return e
}

func (e *TypeFamilyEntry) ToTypeFamily() (*TypeFamilyEntry, error) { return e, nil }
func (e *TypeFamilyEntry) ToProgramType() (*ProgramTypeEntry, error) {
	return &e.ProgramTypeEntry, nil
}

// Family returns the family program type.
func (e *TypeFamilyEntry) Family() *PTFamily {
	return e.ProgramType.(*PTFamily)
}

func (e *TypeFamilyEntry) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry {
	if len(inst) == 0 {
		return e
	}
	out := *e
	pt := e.ProgramTypeEntry.InstantiateGenerics(inst, facility).(*ProgramTypeEntry)
	out.ProgramTypeEntry = *pt
	if e.Exemplar != nil {
		out.Exemplar = e.Exemplar.InstantiateGenerics(inst, facility).(*MathSymbolEntry)
	}
	return &out
}

// TypeRepresentationEntry realizes a type family inside a realization.
type TypeRepresentationEntry struct {
	ProgramTypeEntry
	Family         *TypeFamilyEntry
	Convention     ast.Exp
	Correspondence ast.Exp
}

func NewTypeRepresentationEntry(def *ast.TypeRepresentationDec, module ModuleIdentifier,
	family *TypeFamilyEntry, repr *PTRepresentation) *TypeRepresentationEntry {
	e := &TypeRepresentationEntry{
		Family:         family,
		Convention:     def.Convention,
		Correspondence: def.Correspondence,
	}
	e.ProgramTypeEntry = *NewProgramTypeEntry(def.Name, def, module, repr.ToMath(), repr)
	e.description = "a type representation"
	return e
}

func (e *TypeRepresentationEntry) ToTypeRepresentation() (*TypeRepresentationEntry, error) {
	return e, nil
}
func (e *TypeRepresentationEntry) ToProgramType() (*ProgramTypeEntry, error) {
	return &e.ProgramTypeEntry, nil
}

// Representations are private to their realization and never seen
// through a facility.
func (e *TypeRepresentationEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry {
	return e
}

// FacilityTypeRepresentationEntry is a type declared directly in a
// facility module. It realizes no family; its convention constrains the
// representation alone.
type FacilityTypeRepresentationEntry struct {
	ProgramTypeEntry
	Convention ast.Exp
}

func NewFacilityTypeRepresentationEntry(def *ast.TypeRepresentationDec, module ModuleIdentifier,
	repr *PTRepresentation) *FacilityTypeRepresentationEntry {
	e := &FacilityTypeRepresentationEntry{Convention: def.Convention}
	e.ProgramTypeEntry = *NewProgramTypeEntry(def.Name, def, module, repr.ToMath(), repr)
	e.description = "a facility type representation"
	return e
}

func (e *FacilityTypeRepresentationEntry) ToFacilityTypeRepresentation() (*FacilityTypeRepresentationEntry, error) {
	return e, nil
}
func (e *FacilityTypeRepresentationEntry) ToProgramType() (*ProgramTypeEntry, error) {
	return &e.ProgramTypeEntry, nil
}

// Representation is the program type the facility type is built from.
func (e *FacilityTypeRepresentationEntry) Representation() *PTRepresentation {
	return e.ProgramType.(*PTRepresentation)
}

func (e *FacilityTypeRepresentationEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry {
	return e
}

// OperationEntry is an operation specification.
type OperationEntry struct {
	baseEntry
	Params     []*ProgramParameterEntry
	ReturnType ProgramType
}

func NewOperationEntry(name string, def ast.Node, module ModuleIdentifier, params []*ProgramParameterEntry, ret ProgramType) *OperationEntry {
	return &OperationEntry{
		baseEntry:  baseEntry{name: name, definition: def, module: module, description: "an operation"},
		Params:     params,
		ReturnType: ret,
	}
}

func (e *OperationEntry) ToOperation() (*OperationEntry, error) { return e, nil }

func (e *OperationEntry) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) Entry {
	params := make([]*ProgramParameterEntry, len(e.Params))
	for i, p := range e.Params {
		params[i] = p.InstantiateGenerics(inst, facility).(*ProgramParameterEntry)
	}
	return NewOperationEntry(e.name, e.definition, e.module, params, e.ReturnType.InstantiateGenerics(inst, facility))
}

// OperationProfileEntry is the performance profile of an operation.
// Its parameters live in its own scope; Duration is nil when the
// profile gives none.
type OperationProfileEntry struct {
	baseEntry
	Operation *OperationEntry
	Duration  ast.Exp
}

func NewOperationProfileEntry(name string, def ast.Node, module ModuleIdentifier, op *OperationEntry,
	duration ast.Exp) *OperationProfileEntry {
	return &OperationProfileEntry{
		baseEntry: baseEntry{name: name, definition: def, module: module, description: "an operation profile"},
		Operation: op,
		Duration:  duration,
	}
}

func (e *OperationProfileEntry) ToOperationProfile() (*OperationProfileEntry, error) { return e, nil }

func (e *OperationProfileEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry {
	return e
}

// ProcedureEntry is a procedure and the operation it implements.
type ProcedureEntry struct {
	baseEntry
	Operation *OperationEntry
	Params    []*ProgramParameterEntry
	Recursive bool
}

func NewProcedureEntry(name string, def ast.Node, module ModuleIdentifier, op *OperationEntry,
	params []*ProgramParameterEntry, recursive bool) *ProcedureEntry {
	return &ProcedureEntry{
		baseEntry: baseEntry{name: name, definition: def, module: module, description: "a procedure"},
		Operation: op,
		Params:    params,
		Recursive: recursive,
	}
}

func (e *ProcedureEntry) ToProcedure() (*ProcedureEntry, error) { return e, nil }
func (e *ProcedureEntry) ToOperation() (*OperationEntry, error) { return e.Operation, nil }

func (e *ProcedureEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry {
	return e
}

// TheoremEntry is a named math assertion.
type TheoremEntry struct {
	baseEntry
	Kind         ast.AssertionKind
	Assertion    ast.Exp
	mathAlterEgo *MathSymbolEntry
}

func NewTheoremEntry(name string, def ast.Node, module ModuleIdentifier, kind ast.AssertionKind,
	assertion ast.Exp, g *typesystem.Graph) *TheoremEntry {
	return &TheoremEntry{
		baseEntry:    baseEntry{name: name, definition: def, module: module, description: "a theorem"},
		Kind:         kind,
		Assertion:    assertion,
		mathAlterEgo: NewMathSymbolEntry(name, def, module, ast.NoQuantification, g.Boolean, nil, nil, nil),
	}
}

func (e *TheoremEntry) ToTheorem() (*TheoremEntry, error) { return e, nil }

// ToMathSymbol lets a theorem name appear in a proof as a boolean.
func (e *TheoremEntry) ToMathSymbol() (*MathSymbolEntry, error) { return e.mathAlterEgo, nil }

func (e *TheoremEntry) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) Entry {
	return e
}

func mathSubst(inst map[string]ProgramType) typesystem.Subst {
	s := make(typesystem.Subst, len(inst))
	for name, pt := range inst {
		s[name] = pt.ToMath()
	}
	return s
}
