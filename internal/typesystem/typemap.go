package typesystem

import (
	"github.com/funvibe/specsema/internal/ast"
)

// TypeMap is the side table of population results: the math type of each
// expression and, for type-denoting expressions, the type value.
type TypeMap struct {
	types  map[ast.Exp]MathType
	values map[ast.Exp]MathType
}

func NewTypeMap() *TypeMap {
	return &TypeMap{
		types:  make(map[ast.Exp]MathType),
		values: make(map[ast.Exp]MathType),
	}
}

// SetType records e's math type. Setting it twice is an internal fault.
func (m *TypeMap) SetType(e ast.Exp, t MathType) error {
	if _, ok := m.types[e]; ok {
		return &TypeSetTwiceError{Exp: e}
	}
	m.types[e] = t
	return nil
}

// SetTypeValue records the type e denotes. A nil value is ignored.
func (m *TypeMap) SetTypeValue(e ast.Exp, t MathType) {
	if t != nil {
		m.values[e] = t
	}
}

func (m *TypeMap) Type(e ast.Exp) MathType      { return m.types[e] }
func (m *TypeMap) TypeValue(e ast.Exp) MathType { return m.values[e] }

func (m *TypeMap) HasType(e ast.Exp) bool {
	_, ok := m.types[e]
	return ok
}

// Len returns the number of typed expressions.
func (m *TypeMap) Len() int { return len(m.types) }
