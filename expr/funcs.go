package expr

import (
	"errors"
	"math"
	"sort"
)

// ============================================================================
// FUNCTION TABLE
// ============================================================================

var (
	errDomain     = errors.New("argument outside function domain")
	errDivByZero  = errors.New("division by zero")
	errNonFinite  = errors.New("non-finite result")
	errUnbound    = errors.New("unbound identifier")
	errArgCount   = errors.New("wrong number of arguments")
	errNotANumber = errors.New("not a number")
)

type function struct {
	name    string
	minArgs int
	maxArgs int // -1 = variadic
	call    func(args []float64) (float64, error)
}

func fn1(name string, f func(float64) (float64, error)) *function {
	return &function{name: name, minArgs: 1, maxArgs: 1, call: func(a []float64) (float64, error) {
		return f(a[0])
	}}
}

func plain(f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return f(x), nil }
}

// within rejects arguments outside [lo, hi].
func within(lo, hi float64, f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x < lo || x > hi {
			return 0, errDomain
		}
		return f(x), nil
	}
}

var functions = map[string]*function{}

func init() {
	for _, f := range []*function{
		fn1("sin", plain(math.Sin)),
		fn1("cos", plain(math.Cos)),
		fn1("tan", plain(math.Tan)),
		fn1("asin", within(-1, 1, math.Asin)),
		fn1("acos", within(-1, 1, math.Acos)),
		fn1("atan", plain(math.Atan)),
		fn1("sinh", plain(math.Sinh)),
		fn1("cosh", plain(math.Cosh)),
		fn1("tanh", plain(math.Tanh)),
		fn1("asinh", plain(math.Asinh)),
		fn1("acosh", within(1, math.Inf(1), math.Acosh)),
		fn1("atanh", within(-1, 1, math.Atanh)),
		fn1("exp", plain(math.Exp)),
		fn1("ln", within(0, math.Inf(1), math.Log)),
		fn1("log10", within(0, math.Inf(1), math.Log10)),
		fn1("log2", within(0, math.Inf(1), math.Log2)),
		fn1("sqrt", within(0, math.Inf(1), math.Sqrt)),
		fn1("cbrt", plain(math.Cbrt)),
		fn1("abs", plain(math.Abs)),
		fn1("ceil", plain(math.Ceil)),
		fn1("floor", plain(math.Floor)),
		fn1("round", plain(roundHalfUp)),
		fn1("sign", plain(sign)),
		{name: "pow", minArgs: 2, maxArgs: 2, call: func(a []float64) (float64, error) {
			return math.Pow(a[0], a[1]), nil
		}},
		{name: "max", minArgs: 1, maxArgs: -1, call: func(a []float64) (float64, error) {
			m := a[0]
			for _, v := range a[1:] {
				m = math.Max(m, v)
			}
			return m, nil
		}},
		{name: "min", minArgs: 1, maxArgs: -1, call: func(a []float64) (float64, error) {
			m := a[0]
			for _, v := range a[1:] {
				m = math.Min(m, v)
			}
			return m, nil
		}},
	} {
		functions[f.name] = f
	}
}

// aliases map accepted spellings onto canonical function names.
var aliases = map[string]string{
	"log":    "ln",
	"arcsin": "asin",
	"arccos": "acos",
	"arctan": "atan",
}

// reciprocals are written as (1/f(arg)).
var reciprocals = map[string]string{
	"sec": "cos",
	"csc": "sin",
	"cot": "tan",
}

// constants are replaced by their values before anything else.
var constants = map[string]float64{
	"pi": math.Pi,
	"π":  math.Pi,
	"e":  math.E,
}

// IsFunction reports whether name is recognized as a function, including
// aliases and reciprocal trig names.
func IsFunction(name string) bool {
	if _, ok := functions[name]; ok {
		return true
	}
	if _, ok := aliases[name]; ok {
		return true
	}
	_, ok := reciprocals[name]
	return ok
}

// Functions returns every recognized function name, longest first. Names
// that are prefixes of others (sin, sinh, asin) therefore sort after them.
func Functions() []string {
	var names []string
	for n := range functions {
		names = append(names, n)
	}
	for n := range aliases {
		names = append(names, n)
	}
	for n := range reciprocals {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Factorial returns n! for a non-negative integer n. Non-integers and
// negative values give NaN and anything above 170 overflows to +Inf.
func Factorial(n float64) float64 {
	if n < 0 || n != math.Trunc(n) || math.IsNaN(n) {
		return math.NaN()
	}
	if n > 170 {
		return math.Inf(1)
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}
