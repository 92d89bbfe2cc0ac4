// Package expr turns free-form math text into something that can be
// evaluated point by point.
//
//	r := expr.Rewrite("2sin(x)^2 + sec(x)")
//	y, ok := expr.Evaluate(r, 0.5)
//
// Rewrite canonicalizes the text (constants, ^, factorials, function names,
// reciprocal trig, implicit multiplication) and never fails. Evaluate parses
// the canonical tokens once with a recursive-descent parser and reports
// undefined points with ok == false instead of an error, since samplers call
// it thousands of times per sweep.
package expr
