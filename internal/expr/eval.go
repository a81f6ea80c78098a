package expr

import (
	"fmt"

	"github.com/ontograph/ontograph/internal/evgraph"
)

// Context supplies the ambient values the expression language's specials
// resolve against (spec.md section 4.4a).
type Context struct {
	State             map[string]string // local field state, e.g. current individual's field values
	Value             string            // $Value: the proposed input value, for ValueCondition
	CurrentActor      string
	CurrentIndividual string
}

// Eval walks node against ctx and returns the resulting Value.
func Eval(node Node, ctx Context) (evgraph.Value, error) {
	switch n := node.(type) {
	case *NumberLit:
		return evgraph.Number(n.Value), nil
	case *StringLit:
		return evgraph.String(n.Value), nil
	case *BoolLit:
		return evgraph.Bool(n.Value), nil
	case *NullLit:
		return evgraph.Nil, nil
	case *FieldRef:
		v, ok := ctx.State[n.Field]
		if !ok {
			return evgraph.Nil, nil
		}
		return evgraph.Coerce(v), nil
	case *SpecialRef:
		return evalSpecial(n.Name, ctx)
	case *Unary:
		return evalUnary(n, ctx)
	case *Binary:
		return evalBinary(n, ctx)
	case *Ternary:
		cond, err := Eval(n.Cond, ctx)
		if err != nil {
			return evgraph.Nil, err
		}
		if cond.BoolVal() {
			return Eval(n.Then, ctx)
		}
		return Eval(n.Else, ctx)
	case *Call:
		return evalCall(n, ctx)
	default:
		return evgraph.Nil, fmt.Errorf("unsupported node type %T", node)
	}
}

func evalSpecial(name string, ctx Context) (evgraph.Value, error) {
	switch name {
	case "$Value":
		return evgraph.Coerce(ctx.Value), nil
	case "$CurrentActor":
		return evgraph.String(ctx.CurrentActor), nil
	case "$CurrentIndividual":
		return evgraph.String(ctx.CurrentIndividual), nil
	default:
		return evgraph.Nil, fmt.Errorf("unknown special reference %q", name)
	}
}

func evalUnary(n *Unary, ctx Context) (evgraph.Value, error) {
	v, err := Eval(n.Expr, ctx)
	if err != nil {
		return evgraph.Nil, err
	}
	switch n.Op {
	case "!":
		return evgraph.Bool(!v.BoolVal()), nil
	case "-":
		if v.Kind() != evgraph.KindNumber {
			return evgraph.Nil, fmt.Errorf("unary '-' requires a number")
		}
		return evgraph.Number(-v.Num()), nil
	default:
		return evgraph.Nil, fmt.Errorf("unknown unary operator %q", n.Op)
	}
}

func evalBinary(n *Binary, ctx Context) (evgraph.Value, error) {
	// Short-circuit logical operators before evaluating the right side.
	if n.Op == "&&" {
		left, err := Eval(n.Left, ctx)
		if err != nil {
			return evgraph.Nil, err
		}
		if !left.BoolVal() {
			return evgraph.Bool(false), nil
		}
		right, err := Eval(n.Right, ctx)
		if err != nil {
			return evgraph.Nil, err
		}
		return evgraph.Bool(right.BoolVal()), nil
	}
	if n.Op == "||" {
		left, err := Eval(n.Left, ctx)
		if err != nil {
			return evgraph.Nil, err
		}
		if left.BoolVal() {
			return evgraph.Bool(true), nil
		}
		right, err := Eval(n.Right, ctx)
		if err != nil {
			return evgraph.Nil, err
		}
		return evgraph.Bool(right.BoolVal()), nil
	}

	left, err := Eval(n.Left, ctx)
	if err != nil {
		return evgraph.Nil, err
	}
	right, err := Eval(n.Right, ctx)
	if err != nil {
		return evgraph.Nil, err
	}

	switch n.Op {
	case "==":
		return evgraph.Bool(evgraph.Equal(left, right)), nil
	case "!=":
		return evgraph.Bool(!evgraph.Equal(left, right)), nil
	case "<":
		return evgraph.Bool(evgraph.Compare(left, right) < 0), nil
	case "<=":
		return evgraph.Bool(evgraph.Compare(left, right) <= 0), nil
	case ">":
		return evgraph.Bool(evgraph.Compare(left, right) > 0), nil
	case ">=":
		return evgraph.Bool(evgraph.Compare(left, right) >= 0), nil
	case "+", "-", "*", "/":
		return evalArith(n.Op, left, right)
	default:
		return evgraph.Nil, fmt.Errorf("unknown binary operator %q", n.Op)
	}
}

func evalArith(op string, left, right evgraph.Value) (evgraph.Value, error) {
	if left.Kind() != evgraph.KindNumber || right.Kind() != evgraph.KindNumber {
		return evgraph.Nil, fmt.Errorf("arithmetic operator %q requires numeric operands", op)
	}
	a, b := left.Num(), right.Num()
	switch op {
	case "+":
		return evgraph.Number(a + b), nil
	case "-":
		return evgraph.Number(a - b), nil
	case "*":
		return evgraph.Number(a * b), nil
	case "/":
		if b == 0 {
			return evgraph.Nil, fmt.Errorf("division by zero")
		}
		return evgraph.Number(a / b), nil
	default:
		return evgraph.Nil, fmt.Errorf("unknown arithmetic operator %q", op)
	}
}

func evalCall(n *Call, ctx Context) (evgraph.Value, error) {
	switch n.Name {
	case "isNaN":
		if len(n.Args) != 1 {
			return evgraph.Nil, fmt.Errorf("isNaN expects exactly 1 argument, got %d", len(n.Args))
		}
		v, err := Eval(n.Args[0], ctx)
		if err != nil {
			return evgraph.Nil, err
		}
		return evgraph.Bool(evgraph.IsNaN(v)), nil
	default:
		return evgraph.Nil, fmt.Errorf("unknown function %q", n.Name)
	}
}

// EvalString parses and evaluates src in one step, returning its canonical
// string form.
func EvalString(src string, ctx Context) (string, error) {
	node, err := Parse(src)
	if err != nil {
		return "", err
	}
	v, err := Eval(node, ctx)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// EvalBool parses and evaluates src, returning its truthiness.
func EvalBool(src string, ctx Context) (bool, error) {
	node, err := Parse(src)
	if err != nil {
		return false, err
	}
	v, err := Eval(node, ctx)
	if err != nil {
		return false, err
	}
	return v.BoolVal(), nil
}

// ExtractFieldRefs returns the set of $.field / $$.field names an
// expression reads, in first-seen order. The Recalc Engine calls this to
// build its field dependency graph (spec.md section 4.4a).
func ExtractFieldRefs(node Node) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *FieldRef:
			if !seen[v.Field] {
				seen[v.Field] = true
				out = append(out, v.Field)
			}
		case *Unary:
			walk(v.Expr)
		case *Binary:
			walk(v.Left)
			walk(v.Right)
		case *Ternary:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *Call:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(node)
	return out
}

// ExtractFieldRefsFromSource parses src and returns its field references,
// or nil if src fails to parse (callers treat a parse failure as "no
// dependencies" rather than propagating it, since Recalc tolerates
// malformed rules by leaving them unresolved).
func ExtractFieldRefsFromSource(src string) []string {
	node, err := Parse(src)
	if err != nil {
		return nil
	}
	return ExtractFieldRefs(node)
}
