package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================================
// ALGEBRA RENDERER
// ============================================================================
// Types: algebra, algebra_system, algebra_inequality, algebra_absolute,
// algebra_radical.
// ============================================================================

func renderAlgebra(typ string, raw []byte) (*Result, error) {
	switch typ {
	case "algebra":
		return renderAlgebraEquation(raw)
	case "algebra_system":
		return renderAlgebraSystem(raw)
	case "algebra_inequality":
		return renderAlgebraInequality(raw)
	case "algebra_absolute", "algebra_radical":
		return renderAlgebraSpecial(typ, raw)
	}
	return nil, &UnknownTypeError{Type: typ}
}

// standardPlot is the f(x) plot shared by equations, absolute value and
// radical payloads.
type standardPlot struct {
	PlotType        string   `json:"plot_type"`
	X               Series   `json:"x"`
	Y               Series   `json:"y"`
	SolutionPoints  []xy     `json:"solution_points"`
	HorizontalLine  *float64 `json:"horizontal_line"`
	IsAbsoluteValue bool     `json:"is_absolute_value"`

	// complex_plane
	Real   Series   `json:"real"`
	Imag   Series   `json:"imag"`
	Labels []string `json:"labels"`
}

// ============================================================================
// EQUATION / EXPRESSION
// ============================================================================

type algebraPayload struct {
	EquationType       string        `json:"equation_type"`
	OriginalExpression string        `json:"original_expression"`
	RealSolutions      []Scalar      `json:"real_solutions"`
	ComplexSolutions   []Scalar      `json:"complex_solutions"`
	Factored           string        `json:"factored"`
	Analysis           orderedFields `json:"analysis"`
	LaTeX              algebraLaTeX  `json:"latex"`
	PlotData           *standardPlot `json:"plot_data"`
}

type algebraLaTeX struct {
	Expression string `json:"expression"`
	Factored   string `json:"factored"`
	Equation   string `json:"equation"`
	Inequality string `json:"inequality"`
}

func renderAlgebraEquation(raw []byte) (*Result, error) {
	var p algebraPayload
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	kind := p.EquationType
	if kind == "" {
		kind = "Expression"
	}

	f := newFacts("Algebra")
	f.add("Equation Type", kind)
	f.addLaTeX("Expression", p.OriginalExpression, p.LaTeX.Expression)
	f.addLaTeX("Factored Form", p.Factored, p.LaTeX.Factored)

	realSols := make([]string, len(p.RealSolutions))
	for i, s := range p.RealSolutions {
		realSols[i] = s.Format(PrecisionDefault)
	}
	f.addIf("Real Solutions", strings.Join(realSols, ", "))

	complexSols := make([]string, len(p.ComplexSolutions))
	for i, s := range p.ComplexSolutions {
		complexSols[i] = s.String()
	}
	f.addIf("Complex Solutions", strings.Join(complexSols, ", "))

	if v, ok := p.Analysis.get("degree"); ok {
		if d := scalarOf(v); d.Present() && d.String() != "0" {
			f.add("Degree", d.String())
		}
	}
	if v, ok := p.Analysis.get("partial_fractions"); ok {
		if pf := scalarOf(v); pf.Present() && pf.String() != "" {
			f.add("Partial Fractions", pf.String())
		}
	}

	res := &Result{Facts: f.build()}
	switch {
	case p.PlotData == nil:
		res.Message = "No plot data available"
	case p.PlotData.PlotType == "complex_plane":
		if len(p.PlotData.Real) == 0 || len(p.PlotData.Imag) == 0 {
			res.Message = "No complex solutions to plot"
			break
		}
		c := newChart("Complex Plane - Solutions", "Real Part", "Imaginary Part", false)
		c.add(labeledMarkers("Solutions", p.PlotData.Real, p.PlotData.Imag, p.PlotData.Labels, accentColor, 12, ""))
		res.Charts = append(res.Charts, *c)
	default:
		res.Charts = append(res.Charts, standardAlgebraChart(p.PlotData, kind))
	}
	return res, nil
}

func standardAlgebraChart(pd *standardPlot, title string) ChartDescription {
	if title == "" {
		title = "Graph"
	}
	c := newChart(title, "x", "y", true)

	name := "f(x)"
	if pd.IsAbsoluteValue {
		name = "|f(x)|"
	}
	c.add(lineTrace(name, pd.X, pd.Y, accentColor, 3))

	if pd.HorizontalLine != nil && len(pd.X) > 0 {
		h := *pd.HorizontalLine
		c.add(dashedTrace("y = "+FormatNumber(h),
			Series{pd.X[0], pd.X[len(pd.X)-1]}, Series{h, h}, "#ff6b6b", 2, "dash"))
	}

	if len(pd.SolutionPoints) > 0 {
		xs, ys := xyColumns(pd.SolutionPoints)
		c.add(markerTrace("Solutions", xs, ys, alertColor, 16, "x"))
		for _, pt := range pd.SolutionPoints {
			drop := dashedTrace("x = "+FormatFixed(pt.X, PrecisionExtrema),
				Series{pt.X, pt.X}, Series{0, pt.Y}, alertColor, 1, "dot")
			drop.HideLegend = true
			c.add(drop)
		}
	}
	return *c
}

// ============================================================================
// SYSTEMS
// ============================================================================

type systemPayload struct {
	SystemSize     Scalar            `json:"system_size"`
	IsNonlinear    bool              `json:"is_nonlinear"`
	SolutionMethod string            `json:"solution_method"`
	Equations      []string          `json:"equations"`
	Solution       []json.RawMessage `json:"solution"`
	LaTeX          struct {
		Equations []string `json:"equations"`
	} `json:"latex"`
	PlotData *systemPlot `json:"plot_data"`
}

type systemPlot struct {
	Type  string `json:"type"`
	Lines []struct {
		X    Series `json:"x"`
		Y    Series `json:"y"`
		Name string `json:"name"`
	} `json:"lines"`
	SolutionPoint *xy `json:"solution_point"`
	Contours      []struct {
		X    Grid   `json:"x"`
		Y    Grid   `json:"y"`
		Z    Grid   `json:"z"`
		Name string `json:"name"`
	} `json:"contours"`
	SolutionPoints []xy `json:"solution_points"`
}

func renderAlgebraSystem(raw []byte) (*Result, error) {
	var p systemPayload
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	kind := "(Linear)"
	if p.IsNonlinear {
		kind = "(Nonlinear)"
	}

	f := newFacts("System of Equations")
	f.add("System Type", fmt.Sprintf("%s System %s", p.SystemSize, kind))
	f.addIf("Solution Method", p.SolutionMethod)
	for i, eq := range p.Equations {
		latex := ""
		if i < len(p.LaTeX.Equations) {
			latex = p.LaTeX.Equations[i]
		}
		f.addLaTeX(fmt.Sprintf("Equation %d", i+1), eq, latex)
	}

	if len(p.Solution) == 0 {
		f.headline("Solution", "No solution found")
	}
	for i, sol := range p.Solution {
		f.headline(fmt.Sprintf("Solution %d", i+1), formatAssignment(sol))
	}

	res := &Result{Facts: f.build()}
	if p.PlotData == nil {
		res.Message = "System solved (3+ variables - no visualization)"
		return res, nil
	}

	switch p.PlotData.Type {
	case "system_2d_nonlinear":
		if len(p.PlotData.Contours) == 0 {
			res.Message = "No plot data available"
			break
		}
		res.Charts = append(res.Charts, nonlinearSystemChart(p.PlotData))
	case "system_2d":
		if len(p.PlotData.Lines) == 0 {
			res.Message = "No plot data available"
			break
		}
		res.Charts = append(res.Charts, linearSystemChart(p.PlotData))
	default:
		res.Message = "No plot data available"
	}
	return res, nil
}

// formatAssignment renders {"x": 1, "y": 2} as "x = 1.0000, y = 2.0000".
// Non-object entries are shown as their JSON text.
func formatAssignment(raw json.RawMessage) string {
	var fields orderedFields
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return strings.TrimSpace(string(raw))
	}
	parts := make([]string, len(fields))
	for i, fl := range fields {
		parts[i] = fl.Key + " = " + scalarOf(fl.Value).Format(PrecisionDefault)
	}
	return strings.Join(parts, ", ")
}

func linearSystemChart(pd *systemPlot) ChartDescription {
	c := newChart("Linear System of Equations", "x", "y", true)
	for _, l := range pd.Lines {
		name := l.Name
		if name == "" {
			name = "Line"
		}
		c.add(lineTrace(name, l.X, l.Y, "", 3))
	}
	if pd.SolutionPoint != nil {
		c.add(markerTrace("Solution", Series{pd.SolutionPoint.X}, Series{pd.SolutionPoint.Y}, markerRed, 15, "x"))
	}
	assignColors(c)
	return *c
}

func nonlinearSystemChart(pd *systemPlot) ChartDescription {
	c := newChart("Nonlinear System of Equations", "x", "y", true)
	c.EqualAspect = true
	for i, ct := range pd.Contours {
		if ct.X == nil || ct.Y == nil || ct.Z == nil {
			continue
		}
		name := ct.Name
		if name == "" {
			name = fmt.Sprintf("Equation %d", i+1)
		}
		c.add(contourTrace(name, firstRow(ct.X), firstColumn(ct.Y), ct.Z, implicitLevels()))
	}
	if len(pd.SolutionPoints) > 0 {
		xs, ys := xyColumns(pd.SolutionPoints)
		c.add(markerTrace("Solutions", xs, ys, markerRed, 12, "x"))
	}
	return *c
}

// ============================================================================
// INEQUALITIES
// ============================================================================

type inequalityPayload struct {
	IsRational       bool      `json:"is_rational"`
	Inequality       string    `json:"inequality"`
	Solution         string    `json:"solution"`
	IntervalNotation string    `json:"interval_notation"`
	CriticalPoints   []float64 `json:"critical_points"`
	SignChart        []struct {
		Interval  string `json:"interval"`
		Sign      string `json:"sign"`
		Satisfies bool   `json:"satisfies"`
	} `json:"sign_chart"`
	LaTeX    algebraLaTeX `json:"latex"`
	PlotData *struct {
		X              Series    `json:"x"`
		Y              Series    `json:"y"`
		ShadedRegions  []xy      `json:"shaded_regions"`
		CriticalPoints []float64 `json:"critical_points"`
		Solution       string    `json:"solution"`
	} `json:"plot_data"`
}

func renderAlgebraInequality(raw []byte) (*Result, error) {
	var p inequalityPayload
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	kind := "Polynomial Inequality"
	if p.IsRational {
		kind = "Rational Inequality"
	}

	f := newFacts("Inequality")
	f.add("Type", kind)
	f.addLaTeX("Inequality", p.Inequality, p.LaTeX.Inequality)
	if len(p.CriticalPoints) > 0 {
		f.add("Critical Points", FormatList(p.CriticalPoints, PrecisionBounds))
	}
	f.addIf("Interval Notation", p.IntervalNotation)

	signs := FactTable{Title: "Sign Chart", Columns: []string{"Interval", "Sign", "Satisfies?"}}
	for _, s := range p.SignChart {
		signs.Rows = append(signs.Rows, []string{s.Interval, s.Sign, checkMark(s.Satisfies)})
	}
	f.table(signs)

	res := &Result{Facts: f.build()}
	pd := p.PlotData
	if pd == nil {
		res.Message = "No plot data available"
		return res, nil
	}

	solution := pd.Solution
	if solution == "" {
		solution = "See graph"
	}
	c := newChart("Solution: "+solution, "x", "f(x)", true)
	c.add(lineTrace("f(x)", pd.X, pd.Y, accentColor, 3))
	if len(pd.ShadedRegions) > 0 {
		xs, ys := xyColumns(pd.ShadedRegions)
		c.add(areaTrace("Solution Region", xs, ys, accentFill))
	}
	zero := dashedTrace("y = 0", pd.X, constant(0, len(pd.X)), referenceBlack, 1, "dot")
	zero.HideLegend = true
	c.add(zero)
	if len(pd.CriticalPoints) > 0 {
		c.add(markerTrace("Critical Points", pd.CriticalPoints,
			constant(0, len(pd.CriticalPoints)), alertColor, 14, "circle"))
	}
	res.Charts = append(res.Charts, *c)
	return res, nil
}

// ============================================================================
// ABSOLUTE VALUE / RADICAL
// ============================================================================

func renderAlgebraSpecial(typ string, raw []byte) (*Result, error) {
	var p struct {
		Equation string        `json:"equation"`
		LaTeX    algebraLaTeX  `json:"latex"`
		PlotData *standardPlot `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	label := "Radical"
	if typ == "algebra_absolute" {
		label = "Absolute Value"
	}

	f := newFacts(label + " Equation")
	f.add("Type", label+" Equation")
	f.addLaTeX("Equation", p.Equation, p.LaTeX.Equation)

	res := &Result{Facts: f.build()}
	if p.PlotData == nil {
		res.Message = "No plot data available"
		return res, nil
	}
	res.Charts = append(res.Charts, standardAlgebraChart(p.PlotData, label))
	return res, nil
}
