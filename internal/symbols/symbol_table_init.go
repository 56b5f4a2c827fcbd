package symbols

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/typesystem"
)

func (t *Table) initBuiltins() {
	g := t.graph
	def := func(name string, typ, value typesystem.MathType) {
		// Global names are distinct by construction.
		_ = t.global.Add(NewMathSymbolEntry(name, nil, GlobalModule, ast.NoQuantification, typ, value, nil, nil))
	}

	// Built-in types
	def(config.EntityTypeName, g.MType, g.Entity)
	def(config.ElementTypeName, g.MType, g.Element)
	def(config.ClsTypeName, g.MType, g.MType)
	def(config.MTypeTypeName, g.MType, g.MType)
	def(config.SSetTypeName, g.MType, g.SSet)
	def(config.BooleanTypeName, g.SSet, g.Boolean)
	def(config.EmptySetTypeName, g.SSet, g.EmptySet)

	// Boolean constants and connectives
	def(config.TrueName, g.Boolean, nil)
	def(config.FalseName, g.Boolean, nil)
	def(config.NotName, g.FunctionOf(g.Boolean, g.Boolean), nil)
	for _, op := range []string{config.AndName, config.OrName, config.ImpliesName, config.IffName} {
		def(op, g.FunctionOf(g.Boolean, g.Boolean, g.Boolean), nil)
	}

	// Equality over everything
	def(config.EqualsName, g.FunctionOf(g.Boolean, g.Entity, g.Entity), nil)
	def(config.NotEqualName, g.FunctionOf(g.Boolean, g.Entity, g.Entity), nil)

	def(config.PowersetName, g.Powerset, nil)
}
