// Package classify routes free-form expression text to a mathematical
// domain with ordered pattern rules.
//
// The rules are approximate on purpose: the compute service owns real
// parsing, and this package only has to pick which analysis to ask for.
// Rules are evaluated top to bottom and the first match wins, so their
// order is part of the observable behavior. Geometry function calls are
// checked before the generic two-variable equation rules, otherwise
// "distance(0,0,3,4)" would never reach geometry.
package classify

import (
	"regexp"
	"strings"

	"github.com/spektr-org/mathviz/schema"
)

// ============================================================================
// RULES — Ordered, first match wins
// ============================================================================

// Rule names reported by Explain.
const (
	RuleVectorNotation    = "vector_notation"
	RuleSolidCall         = "solid_call"
	RuleMensurationCall   = "mensuration_call"
	RuleCircleCall        = "circle_call"
	RuleTriangleCall      = "triangle_call"
	RuleCoordinateCall    = "coordinate_call"
	RuleConicEquation     = "conic_equation"
	RuleLineEquation      = "line_equation"
	RuleCalculusNotation  = "calculus_notation"
	RuleAlgebraicEquation = "algebraic_equation"
	RuleFallback          = "fallback"
)

type rule struct {
	name   string
	domain schema.Domain
	match  func(lower string) bool
}

var (
	bareI = regexp.MustCompile(`\bi\b`)
	bareJ = regexp.MustCompile(`\bj\b`)
	bareK = regexp.MustCompile(`\bk\b`)

	solidCall       = regexp.MustCompile(`\b(cube|cuboid|cylinder|cone|sphere|hemisphere)\s*\(`)
	mensurationCall = regexp.MustCompile(`\b(rectangle|square|circle_area|circle_circumference)\s*\(`)
	circleCall      = regexp.MustCompile(`\b(circle|tangent_length|chord)\s*\(`)
	triangleCall    = regexp.MustCompile(`\b(triangle|pythagoras|centroid|circumcenter|incenter|orthocenter)\s*\(`)
	coordinateCall  = regexp.MustCompile(`\b(distance|midpoint|slope|line|area_triangle|collinear)\s*\(`)

	lineForm      = regexp.MustCompile(`y\s*=.*x`)
	variablePower = regexp.MustCompile(`x\^[\d{]|[a-z]\^`)
)

// calculusMarkers are substrings that signal trigonometric, logarithmic,
// exponential or derivative/integral notation.
var calculusMarkers = []string{
	"sin(", "cos(", "tan(",
	`\sin`, `\cos`, `\tan`,
	`\frac{d`, `\int`,
	`\ln`, `\log`, "ln(", "log(",
	"e^", "exp(",
}

var rules = []rule{
	{RuleVectorNotation, schema.Vectors, func(s string) bool {
		if strings.Contains(s, `\hat{i}`) || strings.Contains(s, `\hat{j}`) ||
			strings.Contains(s, `\hat{k}`) || strings.Contains(s, `\vec`) {
			return true
		}
		return bareI.MatchString(s) && (bareJ.MatchString(s) || bareK.MatchString(s))
	}},
	{RuleSolidCall, schema.Geometry, solidCall.MatchString},
	{RuleMensurationCall, schema.Geometry, mensurationCall.MatchString},
	{RuleCircleCall, schema.Geometry, circleCall.MatchString},
	{RuleTriangleCall, schema.Geometry, triangleCall.MatchString},
	{RuleCoordinateCall, schema.Geometry, coordinateCall.MatchString},
	{RuleConicEquation, schema.Geometry, func(s string) bool {
		if !twoVariableEquation(s) {
			return false
		}
		return strings.Contains(s, "x^2") || strings.Contains(s, "y^2") ||
			strings.Contains(s, "x^{2}") || strings.Contains(s, "y^{2}")
	}},
	{RuleLineEquation, schema.Geometry, func(s string) bool {
		return twoVariableEquation(s) && lineForm.MatchString(s) && !strings.Contains(s, "^")
	}},
	{RuleCalculusNotation, schema.Calculus, func(s string) bool {
		for _, m := range calculusMarkers {
			if strings.Contains(s, m) {
				return true
			}
		}
		return false
	}},
	{RuleAlgebraicEquation, schema.Algebra, func(s string) bool {
		return strings.Contains(s, "=") || variablePower.MatchString(s)
	}},
}

func twoVariableEquation(s string) bool {
	return strings.Contains(s, "x") && strings.Contains(s, "y") && strings.Contains(s, "=")
}

// ============================================================================
// CLASSIFY
// ============================================================================

// Match is the outcome of classifying one expression.
type Match struct {
	Domain schema.Domain `json:"domain"`
	Rule   string        `json:"rule"`
}

// Classify returns the domain for expr. It never fails: text no rule
// recognizes is treated as a single-variable function, which is calculus.
func Classify(expr string) schema.Domain {
	return Explain(expr).Domain
}

// Explain is Classify plus the name of the rule that decided.
func Explain(expr string) Match {
	lower := strings.ToLower(expr)
	for _, r := range rules {
		if r.match(lower) {
			return Match{Domain: r.domain, Rule: r.name}
		}
	}
	return Match{Domain: schema.Calculus, Rule: RuleFallback}
}

// Rules lists rule names in evaluation order, fallback last.
func Rules() []string {
	names := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		names = append(names, r.name)
	}
	return append(names, RuleFallback)
}

// Domains returns the domains text classification can produce. Statistics
// is reached only through an explicit operation selector.
func Domains() []schema.Domain {
	return []schema.Domain{schema.Calculus, schema.Algebra, schema.Geometry, schema.Vectors}
}

// ============================================================================
// DISPLAY
// ============================================================================

var displayNames = map[schema.Domain]string{
	schema.Calculus:   "Calculus",
	schema.Algebra:    "Algebra",
	schema.Geometry:   "Geometry",
	schema.Vectors:    "3D Vectors",
	schema.Statistics: "Statistics",
}

// DisplayName returns the human-readable module name for d.
func DisplayName(d schema.Domain) string {
	if name, ok := displayNames[d]; ok {
		return name
	}
	return string(d)
}

// geometryHints pairs an input marker with its hint, checked in order.
var geometryHints = []struct {
	markers []string
	hint    string
}{
	{[]string{"distance("}, "Distance formula: √[(x₂-x₁)² + (y₂-y₁)²]"},
	{[]string{"midpoint("}, "Midpoint formula: ((x₁+x₂)/2, (y₁+y₂)/2)"},
	{[]string{"circle("}, "Circle: Center-radius form"},
	{[]string{"pythagoras("}, "Pythagoras: a² + b² = c²"},
	{[]string{"triangle("}, "Triangle analysis: Type, area, perimeter"},
	{[]string{"cube(", "sphere("}, "3D visualization with surface area & volume"},
}

// InputHint returns a short explanation of what a geometry input will
// compute, or "" when there is nothing useful to say.
func InputHint(expr string, d schema.Domain) string {
	if d != schema.Geometry {
		return ""
	}
	lower := strings.ToLower(expr)
	for _, h := range geometryHints {
		for _, m := range h.markers {
			if strings.Contains(lower, m) {
				return h.hint
			}
		}
	}
	if strings.Contains(lower, "x^2") && strings.Contains(lower, "y^2") && strings.Contains(lower, "=") {
		return "Conic section: Likely a circle or ellipse"
	}
	return ""
}
