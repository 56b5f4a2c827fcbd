package symbols

import (
	"slices"

	"github.com/funvibe/specsema/internal/ast"
)

// implementationModes lists, for each operation parameter mode, the
// procedure modes that may implement it.
var implementationModes = map[ast.ParameterMode][]ast.ParameterMode{
	ast.Alters:    {ast.Alters, ast.Clears},
	ast.Updates:   {ast.Updates, ast.Clears, ast.Restores, ast.Preserves},
	ast.Replaces:  {ast.Replaces, ast.Clears},
	ast.Clears:    {ast.Clears},
	ast.Restores:  {ast.Restores, ast.Preserves},
	ast.Preserves: {ast.Preserves},
	ast.Evaluates: {ast.Evaluates},
	ast.TypeMode:  {ast.TypeMode},
}

// CanBeImplementedWith reports whether a procedure parameter in mode impl
// may implement an operation parameter in mode op.
func CanBeImplementedWith(op, impl ast.ParameterMode) bool {
	return slices.Contains(implementationModes[op], impl)
}
