package expr

import (
	"fmt"
	"math"
	"sort"
)

// Variable is the name of the bound input variable.
const Variable = "x"

type node interface {
	eval(x float64, vars map[string]float64) (float64, error)
}

type numberNode float64

func (n numberNode) eval(float64, map[string]float64) (float64, error) {
	return float64(n), nil
}

type varNode string

func (n varNode) eval(x float64, vars map[string]float64) (float64, error) {
	if n == Variable {
		return x, nil
	}
	if v, ok := vars[string(n)]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", errUnbound, string(n))
}

type negNode struct{ x node }

func (n *negNode) eval(x float64, vars map[string]float64) (float64, error) {
	v, err := n.x.eval(x, vars)
	return -v, err
}

type binaryNode struct {
	op          byte
	left, right node
}

func (n *binaryNode) eval(x float64, vars map[string]float64) (float64, error) {
	a, err := n.left.eval(x, vars)
	if err != nil {
		return 0, err
	}
	b, err := n.right.eval(x, vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, errDivByZero
		}
		return a / b, nil
	case '%':
		if b == 0 {
			return 0, errDivByZero
		}
		return math.Mod(a, b), nil
	case '^':
		return math.Pow(a, b), nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

type callNode struct {
	fn   *function
	args []node
}

func (n *callNode) eval(x float64, vars map[string]float64) (float64, error) {
	var buf [2]float64
	args := buf[:0]
	for _, a := range n.args {
		v, err := a.eval(x, vars)
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}
	return n.fn.call(args)
}

// Program is a compiled expression.
type Program struct {
	root node
	vars map[string]bool
}

// Compile parses a rewritten expression. The result is cached on r, so
// repeated calls are cheap.
func Compile(r *Rewritten) (*Program, error) {
	return r.program()
}

// Eval evaluates the program with x bound to the input variable and any
// free parameters taken from vars. Non-finite results are errors.
func (p *Program) Eval(x float64, vars map[string]float64) (float64, error) {
	v, err := p.root.eval(x, vars)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, errNotANumber
	}
	if math.IsInf(v, 0) {
		return 0, errNonFinite
	}
	return v, nil
}

// Params lists the free identifiers other than x, sorted.
func (p *Program) Params() []string {
	var out []string
	for v := range p.vars {
		if v != Variable {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Evaluate computes the expression at x. It reports false, and never
// panics, when the value is undefined: the text does not parse, an
// identifier is unbound, a division by zero or domain error occurs, or the
// result is not finite.
func Evaluate(r *Rewritten, x float64) (float64, bool) {
	return EvaluateWith(r, x, nil)
}

// EvaluateWith is Evaluate with free parameters such as a or k bound.
func EvaluateWith(r *Rewritten, x float64, vars map[string]float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	prog, err := r.program()
	if err != nil {
		return 0, false
	}
	v, err := prog.Eval(x, vars)
	if err != nil {
		return 0, false
	}
	return v, true
}
