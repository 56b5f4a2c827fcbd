package ast

// Inspect traverses the tree rooted at node in source order, calling f for
// each node. If f returns false, the children of that node are skipped.
// Nil children are not visited.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}

// Children returns the direct children of node in left-to-right order.
func Children(node Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, n := range ns {
			if !isNil(n) {
				out = append(out, n)
			}
		}
	}

	switch n := node.(type) {
	case *Module:
		for _, u := range n.Uses {
			add(u)
		}
		for _, p := range n.Params {
			add(p)
		}
		for _, d := range n.Decs {
			add(d)
		}
	case *UsesItem:

	// Math expressions
	case *VarExp, *LiteralExp:
	case *FunctionExp:
		for _, a := range n.Args {
			add(a)
		}
	case *InfixExp:
		add(n.Left, n.Right)
	case *PrefixExp:
		add(n.Arg)
	case *OutfixExp:
		add(n.Arg)
	case *IfExp:
		add(n.Test, n.Then, n.Else)
	case *AltItemExp:
		add(n.Test, n.Assignment)
	case *AlternativeExp:
		for _, a := range n.Alternatives {
			add(a)
		}
	case *BetweenExp:
		for _, j := range n.Joined {
			add(j)
		}
	case *OldExp:
		add(n.Exp)
	case *QuantExp:
		for _, v := range n.Vars {
			add(v)
		}
		add(n.Where, n.Body)
	case *TupleExp:
		for _, f := range n.Fields {
			add(f)
		}
	case *DotExp:
		for _, s := range n.Segments {
			add(s)
		}
	case *LambdaExp:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *SetExp:
		add(n.Var, n.Predicate)
	case *SetCollectionExp:
		for _, m := range n.Members {
			add(m)
		}
	case *TypeAssertionExp:
		add(n.Exp, n.Ty)
	case *CrossTypeExp:
		for _, f := range n.Fields {
			add(f)
		}
	case *CrossTypeField:
		add(n.Ty)
	case *MathVarDec:
		add(n.Ty)

	// Program expressions
	case *ProgramVariableNameExp, *ProgramLiteralExp:
	case *ProgramFunctionExp:
		for _, a := range n.Args {
			add(a)
		}
	case *ProgramVariableDotExp:
		for _, s := range n.Segments {
			add(s)
		}

	// Types
	case *NameTy:
	case *ArbitraryExpTy:
		add(n.Exp)
	case *RecordTy:
		for _, f := range n.Fields {
			add(f)
		}

	// Statements
	case *AssignStmt:
		add(n.Var, n.Exp)
	case *SwapStmt:
		add(n.Left, n.Right)
	case *CallStmt:
		add(n.Call)
	case *IfStmt:
		add(n.Cond)
		for _, s := range n.Then {
			add(s)
		}
		for _, s := range n.Else {
			add(s)
		}
	case *WhileStmt:
		add(n.Cond, n.Maintaining, n.Decreasing)
		for _, s := range n.Body {
			add(s)
		}

	// Declarations
	case *MathDefinitionDec:
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnTy, n.Body, n.BaseCase, n.InductiveCase)
	case *MathAssertionDec:
		add(n.Assertion)
	case *MathTypeTheoremDec:
		for _, v := range n.UniversalVars {
			add(v)
		}
		add(n.Assertion)
	case *ConceptTypeParamDec:
	case *ConstantParamDec:
		add(n.Ty)
	case *DefinitionParamDec:
		add(n.Definition)
	case *TypeFamilyDec:
		add(n.Model, n.Constraint, n.InitEnsures, n.FinalEnsures)
	case *TypeRepresentationDec:
		add(n.Representation, n.Convention, n.Correspondence)
	case *VarDec:
		add(n.Ty)
	case *ParameterVarDec:
		add(n.Ty)
	case *OperationDec:
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnTy, n.Requires, n.Ensures)
	case *OperationProfileDec:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Duration)
	case *ProcedureDec:
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnTy, n.Decreasing)
		for _, v := range n.Vars {
			add(v)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *OperationProcedureDec:
		add(n.Operation, n.Decreasing)
		for _, v := range n.Vars {
			add(v)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *ModuleArgument:
		add(n.Ty, n.Exp)
	case *EnhancementSpecRealizItem:
		for _, a := range n.Args {
			add(a)
		}
		for _, a := range n.RealizationArgs {
			add(a)
		}
	case *FacilityDec:
		for _, a := range n.ConceptArgs {
			add(a)
		}
		for _, a := range n.RealizationArgs {
			add(a)
		}
		for _, e := range n.Enhancements {
			add(e)
		}
	default:
		panic("ast: unexpected node type in Children")
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Module:
		return v == nil
	case Exp:
		return isNilExp(v)
	case Ty:
		switch t := v.(type) {
		case *NameTy:
			return t == nil
		case *ArbitraryExpTy:
			return t == nil
		case *RecordTy:
			return t == nil
		}
	case Stmt:
		switch s := v.(type) {
		case *AssignStmt:
			return s == nil
		case *SwapStmt:
			return s == nil
		case *CallStmt:
			return s == nil
		case *IfStmt:
			return s == nil
		case *WhileStmt:
			return s == nil
		}
	case *MathVarDec:
		return v == nil
	case *CrossTypeField:
		return v == nil
	case *ParameterVarDec:
		return v == nil
	case *ModuleArgument:
		return v == nil
	case *EnhancementSpecRealizItem:
		return v == nil
	case *UsesItem:
		return v == nil
	case *MathDefinitionDec:
		return v == nil
	case *OperationDec:
		return v == nil
	}
	return false
}

func isNilExp(e Exp) bool {
	switch v := e.(type) {
	case *VarExp:
		return v == nil
	case *LiteralExp:
		return v == nil
	case *FunctionExp:
		return v == nil
	case *InfixExp:
		return v == nil
	case *PrefixExp:
		return v == nil
	case *OutfixExp:
		return v == nil
	case *IfExp:
		return v == nil
	case *AltItemExp:
		return v == nil
	case *AlternativeExp:
		return v == nil
	case *BetweenExp:
		return v == nil
	case *OldExp:
		return v == nil
	case *QuantExp:
		return v == nil
	case *TupleExp:
		return v == nil
	case *DotExp:
		return v == nil
	case *LambdaExp:
		return v == nil
	case *SetExp:
		return v == nil
	case *SetCollectionExp:
		return v == nil
	case *TypeAssertionExp:
		return v == nil
	case *CrossTypeExp:
		return v == nil
	case *ProgramVariableNameExp:
		return v == nil
	case *ProgramFunctionExp:
		return v == nil
	case *ProgramVariableDotExp:
		return v == nil
	case *ProgramLiteralExp:
		return v == nil
	}
	return false
}

// IsNil reports whether e is absent, including typed nil pointers that
// arrive through optional fields.
func IsNil(e Exp) bool {
	return e == nil || isNilExp(e)
}
