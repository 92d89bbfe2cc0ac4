package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// CALCULUS RENDERER
// ============================================================================

func renderCalculus(typ string, raw []byte) (*Result, error) {
	switch typ {
	case "calculus_standard":
		return renderCalculusStandard(raw)
	case "calculus_definite_integral":
		return renderDefiniteIntegral(raw)
	case "calculus_limit":
		return renderLimit(raw)
	case "calculus_taylor_series":
		return renderTaylor(raw)
	case "calculus_partial_derivatives":
		return renderPartials(raw)
	}
	return nil, &UnknownTypeError{Type: typ}
}

type calculusLaTeX struct {
	Function    string `json:"function"`
	Derivative1 string `json:"derivative_1"`
	Derivative2 string `json:"derivative_2"`
	Integral    string `json:"integral"`
	Result      string `json:"result"`
	Limit       string `json:"limit"`
	Series      string `json:"series"`
}

// ============================================================================
// STANDARD ANALYSIS
// ============================================================================

type standardCalculusPayload struct {
	OriginalFunction string    `json:"original_function"`
	Derivative1      string    `json:"derivative_1"`
	Derivative2      string    `json:"derivative_2"`
	Derivative3      string    `json:"derivative_3"`
	Integral         string    `json:"integral"`
	CriticalPoints   []float64 `json:"critical_points"`
	ClassifiedPoints []struct {
		Point float64 `json:"point"`
		Type  string  `json:"type"`
	} `json:"classified_points"`
	InflectionPoints []float64 `json:"inflection_points"`
	IntervalAnalysis []struct {
		Interval   string `json:"interval"`
		Increasing bool   `json:"increasing"`
		ConcaveUp  bool   `json:"concave_up"`
	} `json:"interval_analysis"`
	LaTeX    calculusLaTeX `json:"latex"`
	PlotData struct {
		X                 Series `json:"x"`
		YOriginal         Series `json:"y_original"`
		YDerivative       Series `json:"y_derivative"`
		YSecondDerivative Series `json:"y_second_derivative"`
		CriticalPoints    []xy   `json:"critical_points"`
		InflectionPoints  []xy   `json:"inflection_points"`
	} `json:"plot_data"`
}

func renderCalculusStandard(raw []byte) (*Result, error) {
	var p standardCalculusPayload
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	f := newFacts("Function Analysis")
	f.addLaTeX("Original Function", p.OriginalFunction, p.LaTeX.Function)
	f.addLaTeX("First Derivative", p.Derivative1, p.LaTeX.Derivative1)
	f.addLaTeX("Second Derivative", p.Derivative2, p.LaTeX.Derivative2)
	f.addIf("Third Derivative", p.Derivative3)
	f.addLaTeX("Indefinite Integral", p.Integral, p.LaTeX.Integral)
	if len(p.CriticalPoints) > 0 {
		f.add("Critical Points", FormatList(p.CriticalPoints, PrecisionExtrema))
	}
	if len(p.ClassifiedPoints) > 0 {
		lines := make([]string, len(p.ClassifiedPoints))
		for i, cp := range p.ClassifiedPoints {
			lines[i] = fmt.Sprintf("x = %s → %s", FormatFixed(cp.Point, PrecisionExtrema), cp.Type)
		}
		f.add("Extrema", strings.Join(lines, "; "))
	}
	if len(p.InflectionPoints) > 0 {
		f.add("Inflection Points", FormatList(p.InflectionPoints, PrecisionExtrema))
	}

	intervals := FactTable{Title: "Interval Analysis", Columns: []string{"Interval", "Increasing?", "Concave Up?"}}
	for _, ia := range p.IntervalAnalysis {
		intervals.Rows = append(intervals.Rows, []string{ia.Interval, checkMark(ia.Increasing), checkMark(ia.ConcaveUp)})
	}
	f.table(intervals)

	pd := p.PlotData
	c := newChart("Function Analysis", "x", "y", true)
	c.add(
		lineTrace("f(x)", pd.X, pd.YOriginal, accentColor, 3),
		dashedTrace("f'(x)", pd.X, pd.YDerivative, alertColor, 2, "dash"),
		dashedTrace("f''(x)", pd.X, pd.YSecondDerivative, successColor, 2, "dot"),
	)
	if len(pd.CriticalPoints) > 0 {
		xs, ys := xyColumns(pd.CriticalPoints)
		c.add(markerTrace("Critical Points", xs, ys, markerRed, 12, "circle"))
	}
	if len(pd.InflectionPoints) > 0 {
		xs, ys := xyColumns(pd.InflectionPoints)
		c.add(markerTrace("Inflection Points", xs, ys, markerOrange, 12, "diamond"))
	}

	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// ============================================================================
// DEFINITE INTEGRAL
// ============================================================================

func renderDefiniteIntegral(raw []byte) (*Result, error) {
	var p struct {
		Function           string        `json:"function"`
		LowerBound         Scalar        `json:"lower_bound"`
		UpperBound         Scalar        `json:"upper_bound"`
		DefiniteValue      Scalar        `json:"definite_value"`
		NumericalValue     Scalar        `json:"numerical_value"`
		IndefiniteIntegral string        `json:"indefinite_integral"`
		LaTeX              calculusLaTeX `json:"latex"`
		PlotData           struct {
			X      Series    `json:"x"`
			Y      Series    `json:"y"`
			XFill  Series    `json:"x_fill"`
			YFill  Series    `json:"y_fill"`
			Bounds []float64 `json:"bounds"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	f := newFacts("Definite Integral")
	f.addLaTeX("Function", p.Function, p.LaTeX.Function)
	f.addLaTeX("Definite Integral", "", p.LaTeX.Integral)
	f.add("Bounds", fmt.Sprintf("[%s, %s]", p.LowerBound, p.UpperBound))
	f.addLaTeX("Result", p.DefiniteValue.String(), p.LaTeX.Result)
	if p.NumericalValue.Present() {
		f.headline("Numerical Value", p.NumericalValue.Format(PrecisionIntegral))
	}
	f.addIf("Antiderivative", p.IndefiniteIntegral)

	pd := p.PlotData
	span := fmt.Sprintf("[%s, %s]", p.LowerBound, p.UpperBound)
	if len(pd.Bounds) == 2 {
		span = fmt.Sprintf("[%s, %s]",
			FormatFixed(pd.Bounds[0], PrecisionBounds), FormatFixed(pd.Bounds[1], PrecisionBounds))
	}
	c := newChart("Definite Integral "+span, "x", "y", true)
	area := areaTrace("Area "+span, pd.XFill, pd.YFill, accentFill)
	area.Mode = ModeLines
	area.Width = 0
	c.add(lineTrace("f(x)", pd.X, pd.Y, accentColor, 3), area)

	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// ============================================================================
// LIMIT
// ============================================================================

func renderLimit(raw []byte) (*Result, error) {
	var p struct {
		Function      string        `json:"function"`
		ApproachValue Scalar        `json:"approach_value"`
		LimitValue    Scalar        `json:"limit_value"`
		LeftLimit     Scalar        `json:"left_limit"`
		RightLimit    Scalar        `json:"right_limit"`
		LimitExists   bool          `json:"limit_exists"`
		LaTeX         calculusLaTeX `json:"latex"`
		PlotData      struct {
			X             Series   `json:"x"`
			Y             Series   `json:"y"`
			ApproachPoint *float64 `json:"approach_point"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	exists := "✗ No (discontinuity)"
	if p.LimitExists {
		exists = "✓ Yes"
	}

	f := newFacts("Limit")
	f.addLaTeX("Function", p.Function, p.LaTeX.Function)
	f.addLaTeX("Limit Expression", "x → "+p.ApproachValue.String(), p.LaTeX.Limit)
	f.fact(Fact{Label: "Limit Value", Value: p.LimitValue.String(), LaTeX: p.LaTeX.Result, Emphasis: true})
	f.add("Left Limit", p.LeftLimit.String())
	f.add("Right Limit", p.RightLimit.String())
	f.add("Limit Exists?", exists)

	pd := p.PlotData
	c := newChart("Limit Visualization", "x", "y", true)
	c.add(lineTrace("f(x)", pd.X, pd.Y, accentColor, 3))
	if pd.ApproachPoint != nil {
		c.add(markerTrace("Approach Point", Series{*pd.ApproachPoint}, Series{0}, markerRed, 15, "x"))
	}

	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// ============================================================================
// TAYLOR SERIES
// ============================================================================

func renderTaylor(raw []byte) (*Result, error) {
	var p struct {
		OriginalFunction string `json:"original_function"`
		Center           Scalar `json:"center"`
		Order            Scalar `json:"order"`
		SeriesName       string `json:"series_name"`
		TaylorPolynomial string `json:"taylor_polynomial"`
		Terms            []struct {
			Order       Scalar `json:"order"`
			Coefficient Scalar `json:"coefficient"`
			Term        Scalar `json:"term"`
		} `json:"terms"`
		LaTeX    calculusLaTeX `json:"latex"`
		PlotData struct {
			X         Series   `json:"x"`
			YOriginal Series   `json:"y_original"`
			YTaylor   Series   `json:"y_taylor"`
			Center    *float64 `json:"center"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	name := p.SeriesName
	if name == "" {
		name = "Taylor"
	}

	f := newFacts(name + " Series")
	f.add("Type", name)
	f.addLaTeX("Original Function", p.OriginalFunction, p.LaTeX.Function)
	f.add("Center", "x = "+p.Center.String())
	f.add("Order", p.Order.String())
	f.addLaTeX("Taylor Polynomial", p.TaylorPolynomial, p.LaTeX.Series)

	terms := FactTable{Title: "Series Terms", Columns: []string{"Order", "Coefficient", "Term"}}
	for _, t := range p.Terms {
		terms.Rows = append(terms.Rows, []string{t.Order.String(), t.Coefficient.String(), t.Term.String()})
	}
	f.table(terms)

	pd := p.PlotData
	c := newChart("Taylor Series Approximation", "x", "y", true)
	c.add(
		lineTrace("Original f(x)", pd.X, pd.YOriginal, accentColor, 3),
		dashedTrace("Taylor Approximation", pd.X, pd.YTaylor, alertColor, 2, "dash"),
	)
	center, ok := p.Center.Float()
	if pd.Center != nil {
		center, ok = *pd.Center, true
	}
	if ok && len(pd.YOriginal) > 0 {
		mid := len(pd.X) / 2
		if mid >= len(pd.YOriginal) {
			mid = len(pd.YOriginal) - 1
		}
		c.add(markerTrace("Center", Series{center}, Series{pd.YOriginal[mid]}, markerGreen, 12, "star"))
	}

	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// ============================================================================
// PARTIAL DERIVATIVES
// ============================================================================

func renderPartials(raw []byte) (*Result, error) {
	var p struct {
		Function           string        `json:"function"`
		Variables          []string      `json:"variables"`
		PartialDerivatives orderedFields `json:"partial_derivatives"`
		MixedPartials      orderedFields `json:"mixed_partials"`
		CriticalPoints     []struct {
			Point          Scalar `json:"point"`
			Classification string `json:"classification"`
		} `json:"critical_points"`
		LaTeX    calculusLaTeX `json:"latex"`
		PlotData *struct {
			X Grid `json:"x"`
			Y Grid `json:"y"`
			Z Grid `json:"z"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	f := newFacts("Partial Derivatives")
	f.addLaTeX("Function", p.Function, p.LaTeX.Function)
	f.add("Variables", strings.Join(p.Variables, ", "))

	partials := FactTable{Title: "Partial Derivatives", Columns: []string{"Variable", "First", "Second"}}
	for _, fl := range p.PartialDerivatives {
		var d struct {
			First  Scalar `json:"first"`
			Second Scalar `json:"second"`
		}
		if err := decodeInto(fl.Value, &d); err != nil {
			return nil, fmt.Errorf("partial derivative %q: %w", fl.Key, err)
		}
		partials.Rows = append(partials.Rows, []string{fl.Key, d.First.String(), d.Second.String()})
	}
	f.table(partials)

	for _, fl := range p.MixedPartials {
		f.add(fl.Key, scalarOf(fl.Value).String())
	}

	critical := FactTable{Title: "Critical Points", Columns: []string{"Point", "Classification"}}
	for _, cp := range p.CriticalPoints {
		critical.Rows = append(critical.Rows, []string{cp.Point.String(), cp.Classification})
	}
	f.table(critical)

	res := &Result{Facts: f.build()}
	if p.PlotData == nil {
		res.Message = "No surface plot for more than two variables"
		return res, nil
	}
	c := newChart3D("3D Surface Plot", false)
	c.XAxis, c.YAxis, c.ZAxis = "x", "y", "z"
	c.add(Trace{
		Name:       "f(x, y)",
		Kind:       KindSurface,
		X:          firstRow(p.PlotData.X),
		Y:          firstColumn(p.PlotData.Y),
		ZGrid:      p.PlotData.Z,
		Colorscale: "Viridis",
	})
	res.Charts = append(res.Charts, *c)
	return res, nil
}
