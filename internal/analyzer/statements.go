package analyzer

import (
	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
)

func (w *walker) visitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.AssignStmt:
		if err := w.visitProgramExp(n.Var); err != nil {
			return err
		}
		if err := w.visitProgramExp(n.Exp); err != nil {
			return err
		}
		target, value := w.programTypes[n.Var], w.programTypes[n.Exp]
		if !value.AcceptableFor(target) {
			return w.errorf(diagnostics.ErrS006, n.Exp, "Expected: %s\nFound: %s", target, value)
		}
		return nil

	case *ast.SwapStmt:
		if err := w.visitProgramExp(n.Left); err != nil {
			return err
		}
		if err := w.visitProgramExp(n.Right); err != nil {
			return err
		}
		left, right := w.programTypes[n.Left], w.programTypes[n.Right]
		if !symbols.SameProgramType(left, right) {
			return w.errorf(diagnostics.ErrS006, n, "Cannot swap %s with %s.", left, right)
		}
		return nil

	case *ast.CallStmt:
		return w.visitProgramExp(n.Call)

	case *ast.IfStmt:
		if err := w.visitCondition(n.Cond); err != nil {
			return err
		}
		return w.visitStmts(n.Then, n.Else)

	case *ast.WhileStmt:
		if err := w.visitCondition(n.Cond); err != nil {
			return err
		}
		if err := w.expectBoolean(n.Maintaining); err != nil {
			return err
		}
		if !ast.IsNil(n.Decreasing) {
			if err := w.visitExp(n.Decreasing); err != nil {
				return err
			}
		}
		return w.visitStmts(n.Body)
	}
	return w.errorf(diagnostics.ErrS013, s, "unexpected statement %T", s)
}

func (w *walker) visitStmts(blocks ...[]ast.Stmt) error {
	for _, block := range blocks {
		for _, s := range block {
			if err := w.visitStmt(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// visitCondition requires a program expression modeled by B.
func (w *walker) visitCondition(cond ast.ProgramExp) error {
	if err := w.visitProgramExp(cond); err != nil {
		return err
	}
	if !w.g.IsSubtype(w.typeOf(cond), w.g.Boolean) {
		return w.errorf(diagnostics.ErrS006, cond, "Condition must be Boolean.\n\nFound: %s", w.programTypes[cond])
	}
	return nil
}

// checkComplete fails on the first expression of the module left
// without a math type.
func (w *walker) checkComplete() error {
	var missing ast.Exp
	ast.Inspect(w.module, func(n ast.Node) bool {
		if missing != nil {
			return false
		}
		if e, ok := n.(ast.Exp); ok && !w.types.HasType(e) {
			missing = e
			return false
		}
		return true
	})
	if missing != nil {
		return w.errorf(diagnostics.ErrI002, missing, "Expression %s was not typed.", ast.Format(missing))
	}
	return nil
}
