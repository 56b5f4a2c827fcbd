package ast

import (
	"strings"
)

// Format renders a node in a compact surface syntax for messages.
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	if isNil(n) {
		b.WriteString("<nil>")
		return
	}
	switch n := n.(type) {
	case *VarExp:
		qualified(b, n.Qualifier, n.Name)
	case *LiteralExp:
		qualified(b, n.Qualifier, n.SymbolName())
	case *FunctionExp:
		qualified(b, n.Qualifier, n.Name)
		list(b, "(", n.Args, ")")
	case *InfixExp:
		b.WriteString("(")
		format(b, n.Left)
		b.WriteString(" ")
		qualified(b, n.Qualifier, n.Operator)
		b.WriteString(" ")
		format(b, n.Right)
		b.WriteString(")")
	case *PrefixExp:
		qualified(b, n.Qualifier, n.Operator)
		b.WriteString("(")
		format(b, n.Arg)
		b.WriteString(")")
	case *OutfixExp:
		left, right, ok := strings.Cut(n.Operator, "_")
		if !ok {
			left, right = n.Operator+"(", ")"
		}
		b.WriteString(left)
		format(b, n.Arg)
		b.WriteString(right)
	case *IfExp:
		b.WriteString("(if ")
		format(b, n.Test)
		b.WriteString(" then ")
		format(b, n.Then)
		b.WriteString(" else ")
		format(b, n.Else)
		b.WriteString(")")
	case *AltItemExp:
		format(b, n.Assignment)
		if IsNil(n.Test) {
			b.WriteString(" otherwise")
		} else {
			b.WriteString(" if ")
			format(b, n.Test)
		}
	case *AlternativeExp:
		b.WriteString("{{")
		for i, a := range n.Alternatives {
			if i > 0 {
				b.WriteString("; ")
			}
			format(b, a)
		}
		b.WriteString("}}")
	case *BetweenExp:
		for i, j := range n.Joined {
			if i > 0 {
				b.WriteString(" and ")
			}
			format(b, j)
		}
	case *OldExp:
		b.WriteString("#")
		format(b, n.Exp)
	case *QuantExp:
		switch n.Quantifier {
		case Universal:
			b.WriteString("For all ")
		case Existential:
			b.WriteString("There exists ")
		case Unique:
			b.WriteString("There exists unique ")
		}
		for i, v := range n.Vars {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, v)
		}
		if !IsNil(n.Where) {
			b.WriteString(" where ")
			format(b, n.Where)
		}
		b.WriteString(", ")
		format(b, n.Body)
	case *TupleExp:
		list(b, "(", n.Fields, ")")
	case *DotExp:
		for i, s := range n.Segments {
			if i > 0 {
				b.WriteString(".")
			}
			format(b, s)
		}
	case *LambdaExp:
		b.WriteString("lambda(")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, p)
		}
		b.WriteString(").(")
		format(b, n.Body)
		b.WriteString(")")
	case *SetExp:
		b.WriteString("{")
		format(b, n.Var)
		b.WriteString(" | ")
		format(b, n.Predicate)
		b.WriteString("}")
	case *SetCollectionExp:
		list(b, "{", n.Members, "}")
	case *TypeAssertionExp:
		format(b, n.Exp)
		b.WriteString(" : ")
		format(b, n.Ty)
	case *CrossTypeExp:
		b.WriteString("Cart ")
		for _, f := range n.Fields {
			b.WriteString(f.Name)
			b.WriteString(" : ")
			format(b, f.Ty)
			b.WriteString("; ")
		}
		b.WriteString("end")
	case *MathVarDec:
		b.WriteString(n.Name)
		if !isNil(n.Ty) {
			b.WriteString(" : ")
			format(b, n.Ty)
		}
	case *ProgramVariableNameExp:
		qualified(b, n.Qualifier, n.Name)
	case *ProgramFunctionExp:
		qualified(b, n.Qualifier, n.Name)
		b.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, a)
		}
		b.WriteString(")")
	case *ProgramVariableDotExp:
		for i, s := range n.Segments {
			if i > 0 {
				b.WriteString(".")
			}
			format(b, s)
		}
	case *ProgramLiteralExp:
		switch n.Kind {
		case CharacterLiteral:
			b.WriteString("'" + n.Value + "'")
		case StringLiteral:
			b.WriteString("\"" + n.Value + "\"")
		default:
			b.WriteString(n.Value)
		}
	case *NameTy:
		qualified(b, n.Qualifier, n.Name)
	case *ArbitraryExpTy:
		format(b, n.Exp)
	case *RecordTy:
		b.WriteString("Record ")
		for _, f := range n.Fields {
			b.WriteString(f.Name)
			b.WriteString(" : ")
			format(b, f.Ty)
			b.WriteString("; ")
		}
		b.WriteString("end")
	case Dec:
		b.WriteString(n.DecName())
	default:
		b.WriteString(n.TokenLiteral())
	}
}

func qualified(b *strings.Builder, qualifier, name string) {
	if qualifier != "" {
		b.WriteString(qualifier)
		b.WriteString("::")
	}
	b.WriteString(name)
}

func list(b *strings.Builder, open string, exps []Exp, close string) {
	b.WriteString(open)
	for i, e := range exps {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, e)
	}
	b.WriteString(close)
}
