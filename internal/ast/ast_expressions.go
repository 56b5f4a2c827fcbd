package ast

import (
	"github.com/funvibe/specsema/internal/token"
)

// VarExp is a (possibly qualified) reference to a math symbol.
// Stack_Template.Max_Depth or x
type VarExp struct {
	Token     token.Token
	Qualifier string
	Name      string
}

func (e *VarExp) expNode()              {}
func (e *VarExp) GetToken() token.Token { return e.Token }
func (e *VarExp) TokenLiteral() string  { return e.Token.Lexeme }

// LiteralExp is a math numeral, character or string. Math literals are
// resolved as symbols named by their text.
type LiteralExp struct {
	Token     token.Token
	Qualifier string
	Kind      LiteralKind
	Value     string
}

func (e *LiteralExp) expNode()              {}
func (e *LiteralExp) GetToken() token.Token { return e.Token }
func (e *LiteralExp) TokenLiteral() string  { return e.Token.Lexeme }

// SymbolName is the name the literal resolves as.
func (e *LiteralExp) SymbolName() string {
	switch e.Kind {
	case CharacterLiteral:
		return "'" + e.Value + "'"
	case StringLiteral:
		return "\"" + e.Value + "\""
	default:
		return e.Value
	}
}

// FunctionExp applies a named math function: F(a, b).
type FunctionExp struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []Exp
}

func (e *FunctionExp) expNode()              {}
func (e *FunctionExp) GetToken() token.Token { return e.Token }
func (e *FunctionExp) TokenLiteral() string  { return e.Token.Lexeme }

// InfixExp is a binary operator application: a + b, p implies q.
type InfixExp struct {
	Token     token.Token
	Left      Exp
	Qualifier string
	Operator  string
	Right     Exp
}

func (e *InfixExp) expNode()              {}
func (e *InfixExp) GetToken() token.Token { return e.Token }
func (e *InfixExp) TokenLiteral() string  { return e.Token.Lexeme }

// PrefixExp is a unary operator application: not p, -x.
type PrefixExp struct {
	Token     token.Token
	Qualifier string
	Operator  string
	Arg       Exp
}

func (e *PrefixExp) expNode()              {}
func (e *PrefixExp) GetToken() token.Token { return e.Token }
func (e *PrefixExp) TokenLiteral() string  { return e.Token.Lexeme }

// OutfixExp is a bracketing operator such as |S| or <x>. Operator holds
// the symbol name with an underscore for the argument, e.g. "|_|".
type OutfixExp struct {
	Token    token.Token
	Operator string
	Arg      Exp
}

func (e *OutfixExp) expNode()              {}
func (e *OutfixExp) GetToken() token.Token { return e.Token }
func (e *OutfixExp) TokenLiteral() string  { return e.Token.Lexeme }

// IfExp is a conditional math expression.
// (if x > y then x else y)
type IfExp struct {
	Token token.Token
	Test  Exp
	Then  Exp
	Else  Exp
}

func (e *IfExp) expNode()              {}
func (e *IfExp) GetToken() token.Token { return e.Token }
func (e *IfExp) TokenLiteral() string  { return e.Token.Lexeme }

// AltItemExp is one row of an alternative expression. Test is nil for
// the "otherwise" row.
type AltItemExp struct {
	Token      token.Token
	Test       Exp
	Assignment Exp
}

func (e *AltItemExp) expNode()              {}
func (e *AltItemExp) GetToken() token.Token { return e.Token }
func (e *AltItemExp) TokenLiteral() string  { return e.Token.Lexeme }

// AlternativeExp is {{ a if p; b otherwise; }}.
type AlternativeExp struct {
	Token        token.Token
	Alternatives []*AltItemExp
}

func (e *AlternativeExp) expNode()              {}
func (e *AlternativeExp) GetToken() token.Token { return e.Token }
func (e *AlternativeExp) TokenLiteral() string  { return e.Token.Lexeme }

// BetweenExp is a chain of boolean joins such as 0 <= i < n.
type BetweenExp struct {
	Token  token.Token
	Joined []Exp
}

func (e *BetweenExp) expNode()              {}
func (e *BetweenExp) GetToken() token.Token { return e.Token }
func (e *BetweenExp) TokenLiteral() string  { return e.Token.Lexeme }

// OldExp is #x, the incoming value of a parameter.
type OldExp struct {
	Token token.Token
	Exp   Exp
}

func (e *OldExp) expNode()              {}
func (e *OldExp) GetToken() token.Token { return e.Token }
func (e *OldExp) TokenLiteral() string  { return e.Token.Lexeme }

// QuantExp is For all / There exists / There exists unique.
type QuantExp struct {
	Token      token.Token
	Quantifier Quantification
	Vars       []*MathVarDec
	Where      Exp
	Body       Exp
}

func (e *QuantExp) expNode()              {}
func (e *QuantExp) GetToken() token.Token { return e.Token }
func (e *QuantExp) TokenLiteral() string  { return e.Token.Lexeme }

// TupleExp is (a, b, c).
type TupleExp struct {
	Token  token.Token
	Fields []Exp
}

func (e *TupleExp) expNode()              {}
func (e *TupleExp) GetToken() token.Token { return e.Token }
func (e *TupleExp) TokenLiteral() string  { return e.Token.Lexeme }

// DotExp is a qualified path: Module.x, s.Contents, p.f(a).
type DotExp struct {
	Token    token.Token
	Segments []Exp
}

func (e *DotExp) expNode()              {}
func (e *DotExp) GetToken() token.Token { return e.Token }
func (e *DotExp) TokenLiteral() string  { return e.Token.Lexeme }

// LambdaExp is lambda(x : T).(body).
type LambdaExp struct {
	Token  token.Token
	Params []*MathVarDec
	Body   Exp
}

func (e *LambdaExp) expNode()              {}
func (e *LambdaExp) GetToken() token.Token { return e.Token }
func (e *LambdaExp) TokenLiteral() string  { return e.Token.Lexeme }

// SetExp is the set-builder {x : T | P}.
type SetExp struct {
	Token     token.Token
	Var       *MathVarDec
	Predicate Exp
}

func (e *SetExp) expNode()              {}
func (e *SetExp) GetToken() token.Token { return e.Token }
func (e *SetExp) TokenLiteral() string  { return e.Token.Lexeme }

// SetCollectionExp is an enumerated set {a, b, c}.
type SetCollectionExp struct {
	Token   token.Token
	Members []Exp
}

func (e *SetCollectionExp) expNode()              {}
func (e *SetCollectionExp) GetToken() token.Token { return e.Token }
func (e *SetCollectionExp) TokenLiteral() string  { return e.Token.Lexeme }

// TypeAssertionExp is exp : Ty. Inside a type position it introduces a
// schematic type named by Exp.
type TypeAssertionExp struct {
	Token token.Token
	Exp   Exp
	Ty    Ty
}

func (e *TypeAssertionExp) expNode()              {}
func (e *TypeAssertionExp) GetToken() token.Token { return e.Token }
func (e *TypeAssertionExp) TokenLiteral() string  { return e.Token.Lexeme }

// CrossTypeField is one tagged factor of a cross type.
type CrossTypeField struct {
	Token token.Token
	Name  string
	Ty    Ty
}

func (f *CrossTypeField) GetToken() token.Token { return f.Token }
func (f *CrossTypeField) TokenLiteral() string  { return f.Token.Lexeme }

// CrossTypeExp is Cart x : T; y : U; end.
type CrossTypeExp struct {
	Token  token.Token
	Fields []*CrossTypeField
}

func (e *CrossTypeExp) expNode()              {}
func (e *CrossTypeExp) GetToken() token.Token { return e.Token }
func (e *CrossTypeExp) TokenLiteral() string  { return e.Token.Lexeme }

// MathVarDec declares a math variable: x : Z.
type MathVarDec struct {
	Token token.Token
	Name  string
	Ty    Ty
}

func (d *MathVarDec) GetToken() token.Token { return d.Token }
func (d *MathVarDec) TokenLiteral() string  { return d.Token.Lexeme }
