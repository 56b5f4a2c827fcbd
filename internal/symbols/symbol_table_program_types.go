package symbols

import (
	"strings"

	"github.com/funvibe/specsema/internal/typesystem"
)

// ProgramType is the type of a program variable. Every program type has
// a modeling math type used when the variable appears in an assertion.
type ProgramType interface {
	String() string
	ToMath() typesystem.MathType

	// AcceptableFor reports whether a value of this type may be passed
	// where other is expected.
	AcceptableFor(other ProgramType) bool

	InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) ProgramType
}

// PTVoid is the return type of an operation without one.
type PTVoid struct {
	g *typesystem.Graph
}

func NewPTVoid(g *typesystem.Graph) *PTVoid { return &PTVoid{g: g} }

func (t *PTVoid) String() string              { return "Void" }
func (t *PTVoid) ToMath() typesystem.MathType { return t.g.Void }
func (t *PTVoid) AcceptableFor(other ProgramType) bool {
	_, ok := other.(*PTVoid)
	return ok
}
func (t *PTVoid) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) ProgramType { return t }

// PTGeneric is a module's type parameter, bound by a facility.
type PTGeneric struct {
	g    *typesystem.Graph
	Name string
}

func NewPTGeneric(g *typesystem.Graph, name string) *PTGeneric { return &PTGeneric{g: g, Name: name} }

func (t *PTGeneric) String() string              { return t.Name }
func (t *PTGeneric) ToMath() typesystem.MathType { return t.g.Named(t.Name) }
func (t *PTGeneric) AcceptableFor(other ProgramType) bool {
	o, ok := other.(*PTGeneric)
	return ok && o.Name == t.Name
}
func (t *PTGeneric) InstantiateGenerics(inst map[string]ProgramType, _ *FacilityEntry) ProgramType {
	if actual, ok := inst[t.Name]; ok {
		return actual
	}
	return t
}

// PTFamily is a concept's abstract type.
type PTFamily struct {
	Model        typesystem.MathType
	Name         string
	ExemplarName string
	Module       ModuleIdentifier

	// Facility names the facility this family was instantiated through,
	// or is empty.
	Facility string
}

func (t *PTFamily) String() string {
	if t.Facility != "" {
		return t.Facility + "." + t.Name
	}
	return t.Name
}

func (t *PTFamily) ToMath() typesystem.MathType { return t.Model }

func (t *PTFamily) AcceptableFor(other ProgramType) bool {
	switch o := other.(type) {
	case *PTFamily:
		return o.Name == t.Name && o.Module == t.Module && typesystem.Equal(o.Model, t.Model)
	case *PTRepresentation:
		return o.Family != nil && t.AcceptableFor(o.Family)
	}
	return false
}

func (t *PTFamily) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) ProgramType {
	out := *t
	out.Model = t.Model.Apply(mathSubst(inst))
	if facility != nil {
		out.Facility = facility.Name()
	}
	return &out
}

// PTRepresentation is a family's realization inside a realization, or a
// stand-alone representation type in a facility module.
type PTRepresentation struct {
	Name   string
	Base   ProgramType
	Family *PTFamily
}

func (t *PTRepresentation) String() string { return t.Name }

// ToMath is the model of the representation itself. Assertions inside
// the realization see the record; the family model is reached through
// Conc.
func (t *PTRepresentation) ToMath() typesystem.MathType { return t.Base.ToMath() }

func (t *PTRepresentation) AcceptableFor(other ProgramType) bool {
	if o, ok := other.(*PTRepresentation); ok && o == t {
		return true
	}
	return t.Family != nil && t.Family.AcceptableFor(other)
}

func (t *PTRepresentation) InstantiateGenerics(map[string]ProgramType, *FacilityEntry) ProgramType {
	return t
}

// RecordField is one field of a record type.
type RecordField struct {
	Name string
	Type ProgramType
}

// PTRecord is Record ... end.
type PTRecord struct {
	g      *typesystem.Graph
	Fields []RecordField
}

func NewPTRecord(g *typesystem.Graph, fields []RecordField) *PTRecord {
	return &PTRecord{g: g, Fields: fields}
}

func (t *PTRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + " : " + f.Type.String()
	}
	return "Record " + strings.Join(parts, "; ") + " end"
}

// ToMath is the product of the field models, tagged with field names.
func (t *PTRecord) ToMath() typesystem.MathType {
	elems := make([]typesystem.Element, len(t.Fields))
	for i, f := range t.Fields {
		elems[i] = typesystem.Element{Tag: f.Name, Type: f.Type.ToMath()}
	}
	return t.g.Cartesian(elems...)
}

func (t *PTRecord) AcceptableFor(other ProgramType) bool {
	o, ok := other.(*PTRecord)
	if !ok || len(o.Fields) != len(t.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if f.Name != o.Fields[i].Name || !f.Type.AcceptableFor(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

// Field returns the type of the named field.
func (t *PTRecord) Field(name string) (ProgramType, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (t *PTRecord) InstantiateGenerics(inst map[string]ProgramType, facility *FacilityEntry) ProgramType {
	fields := make([]RecordField, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = RecordField{Name: f.Name, Type: f.Type.InstantiateGenerics(inst, facility)}
	}
	return NewPTRecord(t.g, fields)
}

// SameProgramType reports mutual acceptability, as swap requires.
func SameProgramType(a, b ProgramType) bool {
	return a.AcceptableFor(b) && b.AcceptableFor(a)
}
