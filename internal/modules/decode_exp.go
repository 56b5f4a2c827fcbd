package modules

import (
	"gopkg.in/yaml.v3"

	"github.com/funvibe/specsema/internal/ast"
)

func (d *decoder) requiredExp(m *mapping, key string) (ast.Exp, error) {
	n := m.get(key)
	if n == nil {
		return nil, d.errorf(m.node, "%s: missing %s", m.head(), key)
	}
	return d.exp(n)
}

func (d *decoder) optionalExp(m *mapping, key string) (ast.Exp, error) {
	if n := m.get(key); n != nil {
		return d.exp(n)
	}
	return nil, nil
}

func (d *decoder) exps(n *yaml.Node, what string) ([]ast.Exp, error) {
	items, err := d.sequence(n, what)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Exp, len(items))
	for i, item := range items {
		if out[i], err = d.exp(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// exp decodes a math expression. A bare name is a symbol reference and
// a bare integer a literal; every other form is a mapping named by its
// first key.
func (d *decoder) exp(n *yaml.Node) (ast.Exp, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!int" {
			return &ast.LiteralExp{Token: d.tok(n), Kind: ast.IntegerLiteral, Value: n.Value}, nil
		}
		q, name := splitQualifier(n.Value)
		return &ast.VarExp{Token: d.tok(n), Qualifier: q, Name: name}, nil
	}
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	tok := d.tok(m.keyPos[m.head()])

	if q, ok := quantifiers[m.head()]; ok {
		if err := d.only(m, m.head(), "where", "body"); err != nil {
			return nil, err
		}
		e := &ast.QuantExp{Token: tok, Quantifier: q}
		if e.Vars, err = d.mathVars(m.get(m.head()), m.head()); err != nil {
			return nil, err
		}
		if e.Where, err = d.optionalExp(m, "where"); err != nil {
			return nil, err
		}
		e.Body, err = d.requiredExp(m, "body")
		return e, err
	}

	switch m.head() {
	case "call":
		if err := d.only(m, "call", "args"); err != nil {
			return nil, err
		}
		name, err := d.requiredScalar(m, "call")
		if err != nil {
			return nil, err
		}
		q, fn := splitQualifier(name)
		args, err := d.exps(m.get("args"), "args")
		return &ast.FunctionExp{Token: tok, Qualifier: q, Name: fn, Args: args}, err

	case "op":
		if err := d.only(m, "op", "args"); err != nil {
			return nil, err
		}
		name, err := d.requiredScalar(m, "op")
		if err != nil {
			return nil, err
		}
		q, op := splitQualifier(name)
		args, err := d.exps(m.get("args"), "args")
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 1:
			return &ast.PrefixExp{Token: tok, Qualifier: q, Operator: op, Arg: args[0]}, nil
		case 2:
			return &ast.InfixExp{Token: tok, Left: args[0], Qualifier: q, Operator: op, Right: args[1]}, nil
		}
		return nil, d.errorf(n, "operator %s takes one or two arguments, found %d", op, len(args))

	case "outfix":
		if err := d.only(m, "outfix", "arg"); err != nil {
			return nil, err
		}
		op, err := d.requiredScalar(m, "outfix")
		if err != nil {
			return nil, err
		}
		arg, err := d.requiredExp(m, "arg")
		return &ast.OutfixExp{Token: tok, Operator: op, Arg: arg}, err

	case "if":
		if err := d.only(m, "if", "then", "else"); err != nil {
			return nil, err
		}
		e := &ast.IfExp{Token: tok}
		if e.Test, err = d.requiredExp(m, "if"); err != nil {
			return nil, err
		}
		if e.Then, err = d.requiredExp(m, "then"); err != nil {
			return nil, err
		}
		e.Else, err = d.optionalExp(m, "else")
		return e, err

	case "cases":
		if err := d.only(m, "cases"); err != nil {
			return nil, err
		}
		items, err := d.sequence(m.get("cases"), "cases")
		if err != nil {
			return nil, err
		}
		e := &ast.AlternativeExp{Token: tok}
		for _, item := range items {
			im, err := d.mapping(item)
			if err != nil {
				return nil, err
			}
			if err := d.only(im, "when", "then", "otherwise"); err != nil {
				return nil, err
			}
			alt := &ast.AltItemExp{Token: d.tok(item)}
			if o := im.get("otherwise"); o != nil {
				alt.Assignment, err = d.exp(o)
			} else {
				if alt.Test, err = d.requiredExp(im, "when"); err != nil {
					return nil, err
				}
				alt.Assignment, err = d.requiredExp(im, "then")
			}
			if err != nil {
				return nil, err
			}
			e.Alternatives = append(e.Alternatives, alt)
		}
		return e, nil

	case "between":
		if err := d.only(m, "between"); err != nil {
			return nil, err
		}
		joined, err := d.exps(m.get("between"), "between")
		return &ast.BetweenExp{Token: tok, Joined: joined}, err

	case "old":
		if err := d.only(m, "old"); err != nil {
			return nil, err
		}
		inner, err := d.requiredExp(m, "old")
		return &ast.OldExp{Token: tok, Exp: inner}, err

	case "tuple":
		if err := d.only(m, "tuple"); err != nil {
			return nil, err
		}
		fields, err := d.exps(m.get("tuple"), "tuple")
		return &ast.TupleExp{Token: tok, Fields: fields}, err

	case "dot":
		if err := d.only(m, "dot"); err != nil {
			return nil, err
		}
		segs, err := d.exps(m.get("dot"), "dot")
		return &ast.DotExp{Token: tok, Segments: segs}, err

	case "lambda":
		if err := d.only(m, "lambda", "body"); err != nil {
			return nil, err
		}
		e := &ast.LambdaExp{Token: tok}
		if e.Params, err = d.mathVars(m.get("lambda"), "lambda"); err != nil {
			return nil, err
		}
		e.Body, err = d.requiredExp(m, "body")
		return e, err

	case "set":
		if err := d.only(m, "set", "such_that"); err != nil {
			return nil, err
		}
		if m.get("set") == nil {
			return nil, d.errorf(n, "set: missing variable")
		}
		vars, err := d.mathVars(&yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{m.get("set")}}, "set")
		if err != nil {
			return nil, err
		}
		pred, err := d.requiredExp(m, "such_that")
		return &ast.SetExp{Token: tok, Var: vars[0], Predicate: pred}, err

	case "members":
		if err := d.only(m, "members"); err != nil {
			return nil, err
		}
		members, err := d.exps(m.get("members"), "members")
		return &ast.SetCollectionExp{Token: tok, Members: members}, err

	case "is":
		if err := d.only(m, "is", "type"); err != nil {
			return nil, err
		}
		inner, err := d.requiredExp(m, "is")
		if err != nil {
			return nil, err
		}
		ty, err := d.requiredTy(m, "type")
		return &ast.TypeAssertionExp{Token: tok, Exp: inner, Ty: ty}, err

	case "cart":
		if err := d.only(m, "cart"); err != nil {
			return nil, err
		}
		vars, err := d.mathVars(m.get("cart"), "cart")
		if err != nil {
			return nil, err
		}
		e := &ast.CrossTypeExp{Token: tok}
		for _, v := range vars {
			e.Fields = append(e.Fields, &ast.CrossTypeField{Token: v.Token, Name: v.Name, Ty: v.Ty})
		}
		return e, nil

	case "char", "string":
		if err := d.only(m, m.head()); err != nil {
			return nil, err
		}
		value, err := d.scalar(m.get(m.head()), m.head())
		kind := ast.StringLiteral
		if m.head() == "char" {
			kind = ast.CharacterLiteral
		}
		return &ast.LiteralExp{Token: tok, Kind: kind, Value: value}, err
	}
	return nil, d.errorf(n, "unknown expression form %q", m.head())
}

// programExp decodes an expression of the imperative sublanguage: a
// variable name, an integer, {call: Op, args}, {dot: [a, b]}, {char: c}
// or {string: s}.
func (d *decoder) programExp(n *yaml.Node) (ast.ProgramExp, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!int" {
			return &ast.ProgramLiteralExp{Token: d.tok(n), Kind: ast.IntegerLiteral, Value: n.Value}, nil
		}
		q, name := splitQualifier(n.Value)
		return &ast.ProgramVariableNameExp{Token: d.tok(n), Qualifier: q, Name: name}, nil
	}
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	tok := d.tok(m.keyPos[m.head()])
	switch m.head() {
	case "call":
		return d.programCall(m)

	case "dot":
		if err := d.only(m, "dot"); err != nil {
			return nil, err
		}
		items, err := d.sequence(m.get("dot"), "dot")
		if err != nil {
			return nil, err
		}
		e := &ast.ProgramVariableDotExp{Token: tok}
		for _, item := range items {
			s, err := d.scalar(item, "dot segment")
			if err != nil {
				return nil, err
			}
			e.Segments = append(e.Segments, &ast.ProgramVariableNameExp{Token: d.tok(item), Name: s})
		}
		return e, nil

	case "char", "string":
		if err := d.only(m, m.head()); err != nil {
			return nil, err
		}
		value, err := d.scalar(m.get(m.head()), m.head())
		kind := ast.StringLiteral
		if m.head() == "char" {
			kind = ast.CharacterLiteral
		}
		return &ast.ProgramLiteralExp{Token: tok, Kind: kind, Value: value}, err
	}
	return nil, d.errorf(n, "unknown program expression form %q", m.head())
}

func (d *decoder) programCall(m *mapping) (*ast.ProgramFunctionExp, error) {
	if err := d.only(m, "call", "args"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "call")
	if err != nil {
		return nil, err
	}
	q, op := splitQualifier(name)
	items, err := d.sequence(m.get("args"), "args")
	if err != nil {
		return nil, err
	}
	call := &ast.ProgramFunctionExp{Token: d.tok(m.keyPos["call"]), Qualifier: q, Name: op}
	for _, item := range items {
		arg, err := d.programExp(item)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func (d *decoder) requiredProgramExp(m *mapping, key string) (ast.ProgramExp, error) {
	n := m.get(key)
	if n == nil {
		return nil, d.errorf(m.node, "%s: missing %s", m.head(), key)
	}
	return d.programExp(n)
}

func (d *decoder) stmts(n *yaml.Node) ([]ast.Stmt, error) {
	if n == nil {
		return nil, nil
	}
	items, err := d.sequence(n, "statements")
	if err != nil {
		return nil, err
	}
	out := make([]ast.Stmt, 0, len(items))
	for _, item := range items {
		s, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) stmt(n *yaml.Node) (ast.Stmt, error) {
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	tok := d.tok(m.keyPos[m.head()])
	switch m.head() {
	case "assign":
		if err := d.only(m, "assign", "value"); err != nil {
			return nil, err
		}
		s := &ast.AssignStmt{Token: tok}
		if s.Var, err = d.requiredProgramExp(m, "assign"); err != nil {
			return nil, err
		}
		s.Exp, err = d.requiredProgramExp(m, "value")
		return s, err

	case "swap":
		if err := d.only(m, "swap"); err != nil {
			return nil, err
		}
		items, err := d.sequence(m.get("swap"), "swap")
		if err != nil {
			return nil, err
		}
		if len(items) != 2 {
			return nil, d.errorf(n, "swap takes two variables, found %d", len(items))
		}
		s := &ast.SwapStmt{Token: tok}
		if s.Left, err = d.programExp(items[0]); err != nil {
			return nil, err
		}
		s.Right, err = d.programExp(items[1])
		return s, err

	case "call":
		call, err := d.programCall(m)
		return &ast.CallStmt{Token: tok, Call: call}, err

	case "if":
		if err := d.only(m, "if", "then", "else"); err != nil {
			return nil, err
		}
		s := &ast.IfStmt{Token: tok}
		if s.Cond, err = d.requiredProgramExp(m, "if"); err != nil {
			return nil, err
		}
		if s.Then, err = d.stmts(m.get("then")); err != nil {
			return nil, err
		}
		s.Else, err = d.stmts(m.get("else"))
		return s, err

	case "while":
		if err := d.only(m, "while", "maintaining", "decreasing", "do"); err != nil {
			return nil, err
		}
		s := &ast.WhileStmt{Token: tok}
		if s.Cond, err = d.requiredProgramExp(m, "while"); err != nil {
			return nil, err
		}
		if s.Maintaining, err = d.optionalExp(m, "maintaining"); err != nil {
			return nil, err
		}
		if s.Decreasing, err = d.optionalExp(m, "decreasing"); err != nil {
			return nil, err
		}
		s.Body, err = d.stmts(m.get("do"))
		return s, err
	}
	return nil, d.errorf(n, "unknown statement %q", m.head())
}
