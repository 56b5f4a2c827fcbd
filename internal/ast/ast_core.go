package ast

import (
	"slices"

	"github.com/funvibe/specsema/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	GetToken() token.Token
	TokenLiteral() string
}

// Exp is a mathematical or program expression. Every Exp reachable in a
// populated module carries a math type in the analyzer's TypeMap.
type Exp interface {
	Node
	expNode()
}

// ProgramExp is an expression of the imperative sublanguage.
type ProgramExp interface {
	Exp
	programExpNode()
}

// Ty is the syntax of a type in a declaration.
type Ty interface {
	Node
	tyNode()
}

// Dec is a declaration inside a module (or a module parameter).
type Dec interface {
	Node
	decNode()
	DecName() string
}

// Stmt is a procedure body statement.
type Stmt interface {
	Node
	stmtNode()
}

// ModuleKind is the kind of a compilation unit.
type ModuleKind int

const (
	PrecisModule ModuleKind = iota
	ConceptModule
	ConceptRealizationModule
	EnhancementModule
	EnhancementRealizationModule
	FacilityModule
)

var moduleKindNames = [...]string{
	PrecisModule:                 "Precis",
	ConceptModule:                "Concept",
	ConceptRealizationModule:     "Realization",
	EnhancementModule:            "Enhancement",
	EnhancementRealizationModule: "Enhancement Realization",
	FacilityModule:               "Facility",
}

func (k ModuleKind) String() string {
	if int(k) < len(moduleKindNames) {
		return moduleKindNames[k]
	}
	return "Unknown"
}

// IsProgramModule reports whether standard auto-imports apply to this kind.
func (k ModuleKind) IsProgramModule() bool {
	return k != PrecisModule
}

// Module is the root node of every decoded module file.
//
//	Concept Stack_Template(type Entry; evaluates Max_Depth: Integer);
//	    uses Std_Integer_Fac;
//	    ...
//	end Stack_Template;
type Module struct {
	Token token.Token
	Kind  ModuleKind
	Name  string

	// Concept names the realized or enhanced concept for realization,
	// enhancement and enhancement realization modules.
	Concept string

	// Enhancement names the realized enhancement of an enhancement realization.
	Enhancement string

	Uses   []*UsesItem
	Params []Dec
	Decs   []Dec
}

func (m *Module) GetToken() token.Token { return m.Token }
func (m *Module) TokenLiteral() string  { return m.Token.Lexeme }

// ReferencedModules lists the other modules m names, first mention
// first: uses, the realized concept and enhancement, and the modules of
// its facility declarations.
func (m *Module) ReferencedModules() []string {
	var out []string
	named := func(name string) {
		if name != "" && name != m.Name && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	for _, u := range m.Uses {
		named(u.Name)
	}
	named(m.Concept)
	named(m.Enhancement)
	for _, dec := range m.Decs {
		f, ok := dec.(*FacilityDec)
		if !ok {
			continue
		}
		named(f.Concept)
		named(f.Realization)
		for _, e := range f.Enhancements {
			named(e.Name)
			named(e.Realization)
		}
	}
	return out
}

// UsesItem is one entry of a module's uses clause.
type UsesItem struct {
	Token token.Token
	Name  string
}

func (u *UsesItem) GetToken() token.Token { return u.Token }
func (u *UsesItem) TokenLiteral() string  { return u.Token.Lexeme }

// Quantification is the binding discipline of a math variable.
type Quantification int

const (
	NoQuantification Quantification = iota
	Universal
	Existential
	Unique
)

func (q Quantification) String() string {
	switch q {
	case Universal:
		return "Universal"
	case Existential:
		return "Existential"
	case Unique:
		return "Unique"
	default:
		return "None"
	}
}

// ParameterMode is the passing mode of an operation parameter.
type ParameterMode int

const (
	Alters ParameterMode = iota
	Updates
	Replaces
	Clears
	Restores
	Preserves
	Evaluates
	TypeMode
)

var parameterModeNames = [...]string{
	Alters:    "alters",
	Updates:   "updates",
	Replaces:  "replaces",
	Clears:    "clears",
	Restores:  "restores",
	Preserves: "preserves",
	Evaluates: "evaluates",
	TypeMode:  "type",
}

func (m ParameterMode) String() string {
	if int(m) < len(parameterModeNames) {
		return parameterModeNames[m]
	}
	return "unknown"
}

// ParseParameterMode maps the keyword to its mode.
func ParseParameterMode(s string) (ParameterMode, bool) {
	for i, n := range parameterModeNames {
		if n == s {
			return ParameterMode(i), true
		}
	}
	return 0, false
}

// LiteralKind distinguishes literal expressions.
type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota
	CharacterLiteral
	StringLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case CharacterLiteral:
		return "character"
	case StringLiteral:
		return "string"
	default:
		return "integer"
	}
}
