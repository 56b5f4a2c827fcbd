package token

import "fmt"

// Token is the source position of a syntax element. The parser that
// produces module ASTs fills it in; the semantic core only reads it.
type Token struct {
	File   string `yaml:"file,omitempty"`
	Line   int    `yaml:"line,omitempty"`
	Column int    `yaml:"column,omitempty"`
	Lexeme string `yaml:"lexeme,omitempty"`
}

// At is shorthand for a token with a position and no lexeme.
func At(file string, line, column int) Token {
	return Token{File: file, Line: line, Column: column}
}

func (t Token) IsZero() bool {
	return t.File == "" && t.Line == 0 && t.Column == 0
}

func (t Token) String() string {
	if t.File == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}
