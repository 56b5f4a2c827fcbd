package typesystem

import (
	"fmt"

	"github.com/funvibe/specsema/internal/ast"
)

// IllegalRelationshipError reports a type theorem whose assertion is not
// of the form [condition implies] (exp : Ty).
type IllegalRelationshipError struct {
	Assertion ast.Exp
}

func (e *IllegalRelationshipError) Error() string {
	return "top level of type theorem assertion must be 'implies' or ':'"
}

// TypeSetTwiceError is an internal fault: an expression was stamped twice.
type TypeSetTwiceError struct {
	Exp ast.Exp
}

func (e *TypeSetTwiceError) Error() string {
	return fmt.Sprintf("math type of %s set twice", ast.Format(e.Exp))
}
