package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/specsema/internal/token"
)

type ErrorCode string

// Semantic errors reported against user source.
const (
	ErrS001 ErrorCode = "S001" // duplicate symbol
	ErrS002 ErrorCode = "S002" // no such symbol
	ErrS003 ErrorCode = "S003" // ambiguous symbol
	ErrS004 ErrorCode = "S004" // not a type
	ErrS005 ErrorCode = "S005" // no solution / arity mismatch
	ErrS006 ErrorCode = "S006" // type mismatch
	ErrS007 ErrorCode = "S007" // self reference
	ErrS008 ErrorCode = "S008" // parameter mode incompatible
	ErrS009 ErrorCode = "S009" // procedure signature mismatch
	ErrS010 ErrorCode = "S010" // illegal relationship
	ErrS011 ErrorCode = "S011" // no such module
	ErrS012 ErrorCode = "S012" // no such function
	ErrS013 ErrorCode = "S013" // illegal construct
	ErrS014 ErrorCode = "S014" // unimplemented operation
)

// Internal consistency faults. These indicate a bug in the populator
// or in whoever built the AST, never a problem in the user's module.
const (
	ErrI001 ErrorCode = "I001" // math type set twice
	ErrI002 ErrorCode = "I002" // expression left untyped
	ErrI003 ErrorCode = "I003" // scope stack imbalance
)

var codeNames = map[ErrorCode]string{
	ErrS001: "DuplicateSymbol",
	ErrS002: "NoSuchSymbol",
	ErrS003: "AmbiguousSymbol",
	ErrS004: "NotAType",
	ErrS005: "NoSolution",
	ErrS006: "TypeMismatch",
	ErrS007: "SelfReference",
	ErrS008: "ParameterModeIncompatible",
	ErrS009: "ProcedureSignatureMismatch",
	ErrS010: "IllegalRelationship",
	ErrS011: "NoSuchModule",
	ErrS012: "NoSuchFunction",
	ErrS013: "IllegalConstruct",
	ErrS014: "UnimplementedOperation",
	ErrI001: "TypeSetTwice",
	ErrI002: "UntypedExpression",
	ErrI003: "ScopeImbalance",
}

// Name returns the taxonomy name of the code, e.g. "DuplicateSymbol".
func (c ErrorCode) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return string(c)
}

func (c ErrorCode) IsInternal() bool {
	return strings.HasPrefix(string(c), "I")
}

// DiagnosticError is a located, human-readable failure.
type DiagnosticError struct {
	Code  ErrorCode
	File  string
	Token token.Token
	Msg   string
	Notes []string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, File: tok.File, Token: tok, Msg: msg}
}

// Newf is NewError with a format string.
func Newf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

// WithNote appends a note line shown under the main message.
func (e *DiagnosticError) WithNote(note string) *DiagnosticError {
	e.Notes = append(e.Notes, note)
	return e
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "%s:", e.File)
	}
	fmt.Fprintf(&b, "%d:%d: %s: %s", e.Token.Line, e.Token.Column, e.Code, e.Msg)
	for _, n := range e.Notes {
		b.WriteString("\n\t")
		b.WriteString(n)
	}
	return b.String()
}
