package ast

import (
	"github.com/funvibe/specsema/internal/token"
)

// DefinitionKind distinguishes the three math definition forms.
type DefinitionKind int

const (
	// DirectDefinition has an explicit body and may not refer to itself.
	DirectDefinition DefinitionKind = iota
	// InductiveDefinition has base and inductive cases that may recurse.
	InductiveDefinition
	// ImplicitDefinition is characterized by a boolean assertion.
	ImplicitDefinition
)

// MathDefinitionDec is a math definition.
//
//	Definition Max(x, y : Z) : Z = (if x > y then x else y);
//
// Body is nil for a definition without a right-hand side.
type MathDefinitionDec struct {
	Token         token.Token
	Name          string
	Kind          DefinitionKind
	Params        []*MathVarDec
	ReturnTy      Ty
	Body          Exp
	BaseCase      Exp
	InductiveCase Exp
}

func (d *MathDefinitionDec) decNode()              {}
func (d *MathDefinitionDec) DecName() string       { return d.Name }
func (d *MathDefinitionDec) GetToken() token.Token { return d.Token }
func (d *MathDefinitionDec) TokenLiteral() string  { return d.Token.Lexeme }

// AssertionKind distinguishes named math assertions.
type AssertionKind int

const (
	Theorem AssertionKind = iota
	Axiom
	Corollary
	Lemma
	Property
)

func (k AssertionKind) String() string {
	switch k {
	case Axiom:
		return "Axiom"
	case Corollary:
		return "Corollary"
	case Lemma:
		return "Lemma"
	case Property:
		return "Property"
	default:
		return "Theorem"
	}
}

// MathAssertionDec is Theorem T1: assertion;
type MathAssertionDec struct {
	Token     token.Token
	Kind      AssertionKind
	Name      string
	Assertion Exp
}

func (d *MathAssertionDec) decNode()              {}
func (d *MathAssertionDec) DecName() string       { return d.Name }
func (d *MathAssertionDec) GetToken() token.Token { return d.Token }
func (d *MathAssertionDec) TokenLiteral() string  { return d.Token.Lexeme }

// MathTypeTheoremDec is
//
//	Type Theorem N_Is_Z: For all n : N, n : Z;
//
// The assertion must have the form [condition implies] (exp : Ty).
type MathTypeTheoremDec struct {
	Token         token.Token
	Name          string
	UniversalVars []*MathVarDec
	Assertion     Exp
}

func (d *MathTypeTheoremDec) decNode()              {}
func (d *MathTypeTheoremDec) DecName() string       { return d.Name }
func (d *MathTypeTheoremDec) GetToken() token.Token { return d.Token }
func (d *MathTypeTheoremDec) TokenLiteral() string  { return d.Token.Lexeme }

// ConceptTypeParamDec is a module's generic type parameter: type Entry.
type ConceptTypeParamDec struct {
	Token token.Token
	Name  string
}

func (d *ConceptTypeParamDec) decNode()              {}
func (d *ConceptTypeParamDec) DecName() string       { return d.Name }
func (d *ConceptTypeParamDec) GetToken() token.Token { return d.Token }
func (d *ConceptTypeParamDec) TokenLiteral() string  { return d.Token.Lexeme }

// ConstantParamDec is a module's value parameter: evaluates Max_Depth : Integer.
type ConstantParamDec struct {
	Token token.Token
	Name  string
	Ty    Ty
}

func (d *ConstantParamDec) decNode()              {}
func (d *ConstantParamDec) DecName() string       { return d.Name }
func (d *ConstantParamDec) GetToken() token.Token { return d.Token }
func (d *ConstantParamDec) TokenLiteral() string  { return d.Token.Lexeme }

// DefinitionParamDec is a module parameter that is a math definition.
type DefinitionParamDec struct {
	Token      token.Token
	Definition *MathDefinitionDec
}

func (d *DefinitionParamDec) decNode()              {}
func (d *DefinitionParamDec) DecName() string       { return d.Definition.Name }
func (d *DefinitionParamDec) GetToken() token.Token { return d.Token }
func (d *DefinitionParamDec) TokenLiteral() string  { return d.Token.Lexeme }

// TypeFamilyDec is a concept's abstract program type.
//
//	Type Family Stack is modeled by Str(Entry);
//	    exemplar S;
//	    constraint |S| <= Max_Depth;
type TypeFamilyDec struct {
	Token        token.Token
	Name         string
	Model        Ty
	Exemplar     string
	Constraint   Exp
	InitEnsures  Exp
	FinalEnsures Exp
}

func (d *TypeFamilyDec) decNode()              {}
func (d *TypeFamilyDec) DecName() string       { return d.Name }
func (d *TypeFamilyDec) GetToken() token.Token { return d.Token }
func (d *TypeFamilyDec) TokenLiteral() string  { return d.Token.Lexeme }

// TypeRepresentationDec realizes a type family.
//
//	Type Stack = Record Contents : Entry_Array; Top : Integer; end;
//	    convention 0 <= S.Top <= Max_Depth;
//	    correspondence Conc.S = ...;
type TypeRepresentationDec struct {
	Token          token.Token
	Name           string
	Representation Ty
	Exemplar       string
	Convention     Exp
	Correspondence Exp
}

func (d *TypeRepresentationDec) decNode()              {}
func (d *TypeRepresentationDec) DecName() string       { return d.Name }
func (d *TypeRepresentationDec) GetToken() token.Token { return d.Token }
func (d *TypeRepresentationDec) TokenLiteral() string  { return d.Token.Lexeme }

// VarDec declares a program variable or a record field.
type VarDec struct {
	Token token.Token
	Name  string
	Ty    Ty
}

func (d *VarDec) decNode()              {}
func (d *VarDec) DecName() string       { return d.Name }
func (d *VarDec) GetToken() token.Token { return d.Token }
func (d *VarDec) TokenLiteral() string  { return d.Token.Lexeme }

// ParameterVarDec is an operation or procedure formal parameter.
type ParameterVarDec struct {
	Token token.Token
	Mode  ParameterMode
	Name  string
	Ty    Ty
}

func (d *ParameterVarDec) GetToken() token.Token { return d.Token }
func (d *ParameterVarDec) TokenLiteral() string  { return d.Token.Lexeme }

// OperationDec is an operation specification.
//
//	Operation Push(alters e : Entry; updates S : Stack);
//	    requires |S| < Max_Depth;
//	    ensures S = <#e> o #S;
type OperationDec struct {
	Token    token.Token
	Name     string
	Params   []*ParameterVarDec
	ReturnTy Ty
	Requires Exp
	Ensures  Exp
}

func (d *OperationDec) decNode()              {}
func (d *OperationDec) DecName() string       { return d.Name }
func (d *OperationDec) GetToken() token.Token { return d.Token }
func (d *OperationDec) TokenLiteral() string  { return d.Token.Lexeme }

// OperationProfileDec is the performance profile of an operation:
//
//	Operation Push(alters e : Entry; updates S : Stack);
//	    duration C_Push;
type OperationProfileDec struct {
	Token    token.Token
	Name     string
	Params   []*ParameterVarDec
	Duration Exp
}

func (d *OperationProfileDec) decNode()              {}
func (d *OperationProfileDec) DecName() string       { return d.Name }
func (d *OperationProfileDec) GetToken() token.Token { return d.Token }
func (d *OperationProfileDec) TokenLiteral() string  { return d.Token.Lexeme }

// ProcedureDec implements an operation.
type ProcedureDec struct {
	Token      token.Token
	Name       string
	Params     []*ParameterVarDec
	ReturnTy   Ty
	Recursive  bool
	Decreasing Exp
	Vars       []*VarDec
	Body       []Stmt
}

func (d *ProcedureDec) decNode()              {}
func (d *ProcedureDec) DecName() string       { return d.Name }
func (d *ProcedureDec) GetToken() token.Token { return d.Token }
func (d *ProcedureDec) TokenLiteral() string  { return d.Token.Lexeme }

// OperationProcedureDec declares and implements an operation in one
// place, as facility modules do.
type OperationProcedureDec struct {
	Token      token.Token
	Operation  *OperationDec
	Recursive  bool
	Decreasing Exp
	Vars       []*VarDec
	Body       []Stmt
}

func (d *OperationProcedureDec) decNode()              {}
func (d *OperationProcedureDec) DecName() string       { return d.Operation.Name }
func (d *OperationProcedureDec) GetToken() token.Token { return d.Token }
func (d *OperationProcedureDec) TokenLiteral() string  { return d.Token.Lexeme }

// ModuleArgument is one actual argument of a facility instantiation.
// Exactly one of Ty and Exp is set.
type ModuleArgument struct {
	Token token.Token
	Ty    Ty
	Exp   ProgramExp
}

func (a *ModuleArgument) GetToken() token.Token { return a.Token }
func (a *ModuleArgument) TokenLiteral() string  { return a.Token.Lexeme }

// EnhancementSpecRealizItem is one "enhanced by" clause of a facility.
// Realization is empty when the concept realization already provides
// the enhancement.
type EnhancementSpecRealizItem struct {
	Token           token.Token
	Name            string
	Args            []*ModuleArgument
	Realization     string
	RealizationArgs []*ModuleArgument
}

func (i *EnhancementSpecRealizItem) GetToken() token.Token { return i.Token }
func (i *EnhancementSpecRealizItem) TokenLiteral() string  { return i.Token.Lexeme }

// FacilityDec instantiates a concept.
//
//	Facility Stack_Fac is Stack_Template(Integer, 4)
//	    realized by Array_Based_Realization
//	    enhanced by Get_Nth_Ability;
type FacilityDec struct {
	Token           token.Token
	Name            string
	Concept         string
	ConceptArgs     []*ModuleArgument
	Realization     string
	RealizationArgs []*ModuleArgument
	Enhancements    []*EnhancementSpecRealizItem
}

func (d *FacilityDec) decNode()              {}
func (d *FacilityDec) DecName() string       { return d.Name }
func (d *FacilityDec) GetToken() token.Token { return d.Token }
func (d *FacilityDec) TokenLiteral() string  { return d.Token.Lexeme }
