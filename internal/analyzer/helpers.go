package analyzer

import (
	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/token"
	"github.com/funvibe/specsema/internal/typesystem"
)

func (w *walker) errorf(code diagnostics.ErrorCode, node ast.Node, format string, args ...interface{}) error {
	return diagnostics.Newf(code, tokenOf(node), format, args...)
}

func tokenOf(node ast.Node) token.Token {
	if node == nil {
		return token.Token{}
	}
	return node.GetToken()
}

// symbolError turns a local failure from the symbol table or the type
// graph into a diagnostic located at node.
func (w *walker) symbolError(node ast.Node, err error) error {
	var (
		diag      *diagnostics.DiagnosticError
		dup       *symbols.DuplicateSymbolError
		noSuch    *symbols.NoSuchSymbolError
		ambiguous *symbols.AmbiguousSymbolError
		noModule  *symbols.NoSuchModuleError
		notType   *symbols.NotATypeError
		kind      *symbols.UnexpectedKindError
		scopeErr  *symbols.ScopeError
		twice     *typesystem.TypeSetTwiceError
		illegal   *typesystem.IllegalRelationshipError
	)
	tok := tokenOf(node)
	switch {
	case errors.As(err, &diag):
		return diag
	case errors.As(err, &dup):
		d := diagnostics.NewError(diagnostics.ErrS001, tok, dup.Error())
		if dup.Existing != nil && dup.Existing.DefiningElement() != nil {
			d.WithNote("previously declared at " + dup.Existing.DefiningElement().GetToken().String())
		}
		return d
	case errors.As(err, &noSuch):
		return diagnostics.NewError(diagnostics.ErrS002, tok, noSuch.Error())
	case errors.As(err, &ambiguous):
		return diagnostics.NewError(diagnostics.ErrS003, tok, ambiguous.Error())
	case errors.As(err, &noModule):
		return diagnostics.NewError(diagnostics.ErrS011, tok, noModule.Error())
	case errors.As(err, &notType):
		return diagnostics.NewError(diagnostics.ErrS004, tok, notType.Error())
	case errors.As(err, &kind):
		return diagnostics.NewError(diagnostics.ErrS004, tok, kind.Error())
	case errors.As(err, &twice):
		return diagnostics.NewError(diagnostics.ErrI001, tok, twice.Error())
	case errors.As(err, &illegal):
		return diagnostics.NewError(diagnostics.ErrS010, tok, illegal.Error())
	case errors.As(err, &scopeErr):
		return diagnostics.NewError(diagnostics.ErrI003, tok, scopeErr.Error())
	case errors.Is(err, symbols.ErrNoSolution):
		return diagnostics.NewError(diagnostics.ErrS005, tok, err.Error())
	}
	return diagnostics.NewError(diagnostics.ErrI003, tok, err.Error())
}

// setType records the math type and, when it has one, the type value of
// e. Every expression the walker visits passes through here exactly once.
func (w *walker) setType(e ast.Exp, typ, value typesystem.MathType) error {
	if typ == nil {
		return w.errorf(diagnostics.ErrI002, e, "no math type computed for %s", ast.Format(e))
	}
	if err := w.types.SetType(e, typ); err != nil {
		return w.symbolError(e, err)
	}
	w.types.SetTypeValue(e, value)
	return nil
}

// setProgramType records a program expression's program type and its
// math model.
func (w *walker) setProgramType(e ast.ProgramExp, pt symbols.ProgramType) error {
	w.programTypes[e] = pt
	return w.setType(e, pt.ToMath(), nil)
}

func (w *walker) typeOf(e ast.Exp) typesystem.MathType  { return w.types.Type(e) }
func (w *walker) valueOf(e ast.Exp) typesystem.MathType { return w.types.TypeValue(e) }

// expectType requires e to be a member of expected.
func (w *walker) expectType(e ast.Exp, expected typesystem.MathType) error {
	if w.g.IsKnownToBeIn(w.typeOf(e), w.valueOf(e), expected) {
		return nil
	}
	return w.errorf(diagnostics.ErrS006, e, "Expected: %s\nFound: %s", expected, w.typeOf(e))
}

// expectBoolean visits an optional assertion clause and requires B.
func (w *walker) expectBoolean(e ast.Exp) error {
	if ast.IsNil(e) {
		return nil
	}
	if err := w.visitExp(e); err != nil {
		return err
	}
	return w.expectType(e, w.g.Boolean)
}

func (w *walker) startScope(kind symbols.ScopeKind, def ast.Node) error {
	if _, err := w.table.StartScope(kind, def); err != nil {
		return w.symbolError(def, err)
	}
	return nil
}

func (w *walker) endScope(def ast.Node) error {
	if _, err := w.table.EndScope(); err != nil {
		return w.symbolError(def, err)
	}
	return nil
}

// add binds e in the innermost scope.
func (w *walker) add(node ast.Node, e symbols.Entry) error {
	if err := w.scope().Add(e); err != nil {
		return w.symbolError(node, err)
	}
	return nil
}

// bindMath binds a math symbol in the innermost scope.
func (w *walker) bindMath(node ast.Node, name string, q ast.Quantification, typ, value typesystem.MathType,
	schematics map[string]typesystem.MathType) (*symbols.MathSymbolEntry, error) {
	e, err := w.scope().AddBinding(name, q, node, typ, value, schematics, cloneTypes(w.genericTypes))
	if err != nil {
		return nil, w.symbolError(node, err)
	}
	return e, nil
}

func cloneTypes(m map[string]typesystem.MathType) map[string]typesystem.MathType {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]typesystem.MathType, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func isOperation(e symbols.Entry) bool {
	_, ok := e.(*symbols.OperationEntry)
	return ok
}

func isProgramVariable(e symbols.Entry) bool {
	_, err := e.ToProgramVariable()
	return err == nil
}
