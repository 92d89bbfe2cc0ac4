package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/spektr-org/mathviz/expr"
)

// ============================================================================
// SAMPLER — Discontinuity-aware sweep of a single-variable expression
// ============================================================================
// Each point is evaluated at frequency·(x − phase) and then scaled by
// amplitude and shifted. A point becomes a gap when it does not evaluate,
// when it jumps more than the discontinuity threshold from the previous
// evaluated value, or when its magnitude reaches the clamp. Sweeps hold no
// state between calls, so re-sampling with the same inputs is identical.
// ============================================================================

// ParameterBinding carries the slider values of the quick-plot mode.
type ParameterBinding struct {
	XMin          float64            `json:"x_min" yaml:"x_min"`
	XMax          float64            `json:"x_max" yaml:"x_max"`
	Amplitude     float64            `json:"amplitude" yaml:"amplitude"`
	Frequency     float64            `json:"frequency" yaml:"frequency"`
	Phase         float64            `json:"phase" yaml:"phase"`
	VerticalShift float64            `json:"vertical_shift" yaml:"vertical_shift"`
	Params        map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

// DefaultBinding is the untransformed curve over [-10, 10].
func DefaultBinding() ParameterBinding {
	return ParameterBinding{
		XMin:      -10,
		XMax:      10,
		Amplitude: 1,
		Frequency: 1,
	}
}

// Validate checks that the range is usable.
func (b ParameterBinding) Validate() error {
	for _, v := range []float64{b.XMin, b.XMax, b.Amplitude, b.Frequency, b.Phase, b.VerticalShift} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("binding values must be finite")
		}
	}
	if b.XMin >= b.XMax {
		return fmt.Errorf("x min (%s) must be less than x max (%s)",
			FormatNumber(b.XMin), FormatNumber(b.XMax))
	}
	return nil
}

// Sample sweeps expression over the binding's range at resolution evenly
// spaced points, both ends included.
func Sample(expression string, b ParameterBinding, resolution int, opts ...Option) (*SampleResult, error) {
	cfg := applyOptions(opts)

	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}
	if resolution < 2 {
		return nil, fmt.Errorf("resolution must be at least 2, got %d", resolution)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	r := expr.Rewrite(expression)
	if _, err := expr.Compile(r); err != nil {
		// Every point will be a gap; the caller sees NoValidPoints.
		cfg.Logger.Debug("expression does not compile",
			slog.String("expression", expression),
			slog.String("rewritten", r.String()),
			slog.String("error", err.Error()))
	}

	res := &SampleResult{Points: make([]SamplePoint, resolution)}
	span := b.XMax - b.XMin
	var prevY float64
	havePrev := false

	for i := 0; i < resolution; i++ {
		x := b.XMin + span*float64(i)/float64(resolution-1)
		pt := SamplePoint{X: x}

		raw, ok := expr.EvaluateWith(r, b.Frequency*(x-b.Phase), b.Params)
		y := b.Amplitude*raw + b.VerticalShift
		if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			pt.Gap = true
			res.Points[i] = pt
			res.GapCount++
			havePrev = false
			continue
		}
		res.EvaluatedCount++

		switch {
		case havePrev && math.Abs(y-prevY) > cfg.Threshold:
			pt.Gap = true
		case math.Abs(y) >= cfg.Clamp:
			pt.Gap = true
		default:
			pt.Y = y
		}
		if pt.Gap {
			res.GapCount++
		} else {
			res.ValidCount++
		}
		res.Points[i] = pt

		// The jump rule compares against the last evaluated value, drawn or not.
		prevY, havePrev = y, true
	}

	res.NoValidPoints = res.ValidCount == 0
	cfg.Metrics.observeSweep(res)
	cfg.Logger.Debug("sampled expression",
		slog.String("expression", expression),
		slog.Int("points", resolution),
		slog.Int("valid", res.ValidCount),
		slog.Int("gaps", res.GapCount))
	return res, nil
}

// SampleChart samples expression and builds its line chart. When nothing
// in range can be drawn it returns the sweep with an error wrapping
// ErrNoValidPoints and no chart.
func SampleChart(expression string, b ParameterBinding, resolution int, opts ...Option) (*ChartDescription, *SampleResult, error) {
	res, err := Sample(expression, b, resolution, opts...)
	if err != nil {
		return nil, nil, err
	}
	if res.NoValidPoints {
		return nil, res, fmt.Errorf("%q over [%s, %s]: %w", expression,
			FormatNumber(b.XMin), FormatNumber(b.XMax), ErrNoValidPoints)
	}

	xs := make(Series, len(res.Points))
	ys := make(Series, len(res.Points))
	for i, p := range res.Points {
		xs[i] = p.X
		if p.Gap {
			ys[i] = math.NaN()
		} else {
			ys[i] = p.Y
		}
	}

	chart := &ChartDescription{
		Title:      "Custom Function Graph",
		XAxis:      "x",
		YAxis:      "y",
		ShowLegend: true,
		Traces: []Trace{
			lineTrace(BuildFunctionLabel(expression, b), xs, ys, accentColor, 2.5),
		},
	}
	return chart, res, nil
}

// BuildFunctionLabel describes the transformed curve for a legend, e.g.
// "y = 2·f(3(x - 1)) + 4   [sin(x)]".
func BuildFunctionLabel(expression string, b ParameterBinding) string {
	var sb strings.Builder
	sb.WriteString("y = ")

	if b.Amplitude != 1 && b.Amplitude != 0 {
		if b.Amplitude == -1 {
			sb.WriteString("-")
		} else {
			sb.WriteString(FormatNumber(b.Amplitude) + "·")
		}
	}

	hasFreq := b.Frequency != 1 && b.Frequency != 0
	hasPhase := b.Phase != 0
	sign := "+"
	if b.Phase > 0 {
		sign = "-"
	}
	phase := FormatNumber(math.Abs(b.Phase))

	sb.WriteString("f(")
	switch {
	case hasFreq && hasPhase:
		fmt.Fprintf(&sb, "%s(x %s %s)", FormatNumber(b.Frequency), sign, phase)
	case hasFreq:
		sb.WriteString(FormatNumber(b.Frequency) + "x")
	case hasPhase:
		fmt.Fprintf(&sb, "x %s %s", sign, phase)
	default:
		sb.WriteString("x")
	}
	sb.WriteString(")")

	if b.VerticalShift > 0 {
		sb.WriteString(" + " + FormatNumber(b.VerticalShift))
	} else if b.VerticalShift < 0 {
		sb.WriteString(" - " + FormatNumber(-b.VerticalShift))
	}

	sb.WriteString("   [" + expression + "]")
	return sb.String()
}

// ============================================================================
// EXAMPLES
// ============================================================================

// Example is a ready-made quick-plot expression.
type Example struct {
	Label      string `json:"label"`
	Expression string `json:"expression"`
	Category   string `json:"category"`
}

var examples = []Example{
	{"Sine Wave", "sin(x)", "trigonometric"},
	{"Parabola", "x^2", "polynomial"},
	{"Damped Cosine", "cos(x)*exp(-x/10)", "exponential"},
	{"Tangent", "tan(x)", "trigonometric"},
	{"Cubic", "x^3 - 3*x", "polynomial"},
	{"Hyperbola", "1/x", "rational"},
	{"Sinc", "sin(x)/x", "rational"},
	{"Spiral", "x*sin(x)", "trigonometric"},
	{"Absolute", "abs(x)", "piecewise"},
	{"Floor", "floor(x)", "piecewise"},
	{"Square Root", "sqrt(abs(x))", "radical"},
	{"Beat Wave", "sin(x) + sin(1.2*x)", "trigonometric"},
	{"Gaussian", "exp(-x^2)", "exponential"},
	{"Secant", "sec(x)", "trigonometric"},
	{"Witch of Agnesi", "1/(1+x^2)", "rational"},
	{"Polynomial", "x^4 - 4*x^2 + 2", "polynomial"},
}

// Examples returns the built-in quick-plot expressions.
func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}
