package ast

import (
	"github.com/funvibe/specsema/internal/token"
)

// ProgramVariableNameExp names a program variable, parameter or type.
type ProgramVariableNameExp struct {
	Token     token.Token
	Qualifier string
	Name      string
}

func (e *ProgramVariableNameExp) expNode()              {}
func (e *ProgramVariableNameExp) programExpNode()       {}
func (e *ProgramVariableNameExp) GetToken() token.Token { return e.Token }
func (e *ProgramVariableNameExp) TokenLiteral() string  { return e.Token.Lexeme }

// ProgramFunctionExp calls an operation: Push(e, S), Stack_Fac.Depth(S).
type ProgramFunctionExp struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []ProgramExp
}

func (e *ProgramFunctionExp) expNode()              {}
func (e *ProgramFunctionExp) programExpNode()       {}
func (e *ProgramFunctionExp) GetToken() token.Token { return e.Token }
func (e *ProgramFunctionExp) TokenLiteral() string  { return e.Token.Lexeme }

// ProgramVariableDotExp is a record field access: S.Top, S.Contents.Count.
type ProgramVariableDotExp struct {
	Token    token.Token
	Segments []*ProgramVariableNameExp
}

func (e *ProgramVariableDotExp) expNode()              {}
func (e *ProgramVariableDotExp) programExpNode()       {}
func (e *ProgramVariableDotExp) GetToken() token.Token { return e.Token }
func (e *ProgramVariableDotExp) TokenLiteral() string  { return e.Token.Lexeme }

// ProgramLiteralExp is an integer, character or string program literal.
type ProgramLiteralExp struct {
	Token token.Token
	Kind  LiteralKind
	Value string
}

func (e *ProgramLiteralExp) expNode()              {}
func (e *ProgramLiteralExp) programExpNode()       {}
func (e *ProgramLiteralExp) GetToken() token.Token { return e.Token }
func (e *ProgramLiteralExp) TokenLiteral() string  { return e.Token.Lexeme }

// NameTy names a program type, or a math type in math positions.
type NameTy struct {
	Token     token.Token
	Qualifier string
	Name      string
}

func (t *NameTy) tyNode()               {}
func (t *NameTy) GetToken() token.Token { return t.Token }
func (t *NameTy) TokenLiteral() string  { return t.Token.Lexeme }

// ArbitraryExpTy is a math expression used as a type: x : Powerset(T).
type ArbitraryExpTy struct {
	Token token.Token
	Exp   Exp
}

func (t *ArbitraryExpTy) tyNode()               {}
func (t *ArbitraryExpTy) GetToken() token.Token { return t.Token }
func (t *ArbitraryExpTy) TokenLiteral() string  { return t.Token.Lexeme }

// RecordTy is Record Contents : Entry_Array; Top : Integer; end.
type RecordTy struct {
	Token  token.Token
	Fields []*VarDec
}

func (t *RecordTy) tyNode()               {}
func (t *RecordTy) GetToken() token.Token { return t.Token }
func (t *RecordTy) TokenLiteral() string  { return t.Token.Lexeme }

// AssignStmt is x := exp.
type AssignStmt struct {
	Token token.Token
	Var   ProgramExp
	Exp   ProgramExp
}

func (s *AssignStmt) stmtNode()             {}
func (s *AssignStmt) GetToken() token.Token { return s.Token }
func (s *AssignStmt) TokenLiteral() string  { return s.Token.Lexeme }

// SwapStmt is x :=: y.
type SwapStmt struct {
	Token token.Token
	Left  ProgramExp
	Right ProgramExp
}

func (s *SwapStmt) stmtNode()             {}
func (s *SwapStmt) GetToken() token.Token { return s.Token }
func (s *SwapStmt) TokenLiteral() string  { return s.Token.Lexeme }

// CallStmt is an operation call used as a statement.
type CallStmt struct {
	Token token.Token
	Call  *ProgramFunctionExp
}

func (s *CallStmt) stmtNode()             {}
func (s *CallStmt) GetToken() token.Token { return s.Token }
func (s *CallStmt) TokenLiteral() string  { return s.Token.Lexeme }

// IfStmt is If cond then ... else ... end.
type IfStmt struct {
	Token token.Token
	Cond  ProgramExp
	Then  []Stmt
	Else  []Stmt
}

func (s *IfStmt) stmtNode()             {}
func (s *IfStmt) GetToken() token.Token { return s.Token }
func (s *IfStmt) TokenLiteral() string  { return s.Token.Lexeme }

// WhileStmt is While cond maintaining inv; decreasing m; do ... end.
type WhileStmt struct {
	Token       token.Token
	Cond        ProgramExp
	Maintaining Exp
	Decreasing  Exp
	Body        []Stmt
}

func (s *WhileStmt) stmtNode()             {}
func (s *WhileStmt) GetToken() token.Token { return s.Token }
func (s *WhileStmt) TokenLiteral() string  { return s.Token.Lexeme }
