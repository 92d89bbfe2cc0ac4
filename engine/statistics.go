package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// STATISTICS RENDERER
// ============================================================================
// Statistics payloads come from an explicit operation selector, never from
// text classification. Types: descriptive_statistics, normal_distribution,
// binomial_distribution, poisson_distribution, one_sample_t_test,
// two_sample_t_test, z_test, linear_regression, polynomial_regression,
// correlation_analysis.
// ============================================================================

func renderStatistics(typ string, raw []byte) (*Result, error) {
	switch typ {
	case "descriptive_statistics":
		return renderDescriptive(raw)
	case "normal_distribution":
		return renderNormal(raw)
	case "binomial_distribution", "poisson_distribution":
		return renderDiscrete(typ, raw)
	case "one_sample_t_test", "two_sample_t_test", "z_test":
		return renderHypothesisTest(typ, raw)
	case "linear_regression", "polynomial_regression":
		return renderRegression(typ, raw)
	case "correlation_analysis":
		return renderCorrelation(raw)
	}
	return nil, &UnknownTypeError{Type: typ}
}

func fixed(v float64) string { return FormatFixed(v, PrecisionDefault) }

// statRows builds a two-column label/value table.
func statRows(title string, rows ...[2]string) FactTable {
	t := FactTable{Title: title, Columns: []string{"Statistic", "Value"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r[0], r[1]})
	}
	return t
}

// ============================================================================
// DESCRIPTIVE
// ============================================================================

func renderDescriptive(raw []byte) (*Result, error) {
	var p struct {
		N          int `json:"n"`
		Statistics struct {
			Mean     float64 `json:"mean"`
			Median   float64 `json:"median"`
			Mode     Scalar  `json:"mode"`
			StdDev   float64 `json:"std_dev"`
			Variance float64 `json:"variance"`
			Min      float64 `json:"min"`
			Max      float64 `json:"max"`
			Range    float64 `json:"range"`
			Q1       float64 `json:"q1"`
			Q2       float64 `json:"q2"`
			Q3       float64 `json:"q3"`
			IQR      float64 `json:"iqr"`
			Skewness float64 `json:"skewness"`
			Kurtosis float64 `json:"kurtosis"`
		} `json:"statistics"`
		PlotData struct {
			Histogram struct {
				Counts     Series `json:"counts"`
				BinCenters Series `json:"bin_centers"`
			} `json:"histogram"`
			Boxplot struct {
				Outliers   Series   `json:"outliers"`
				LowerFence *float64 `json:"lower_fence"`
				UpperFence *float64 `json:"upper_fence"`
			} `json:"boxplot"`
			RawData Series `json:"raw_data"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}
	s := p.Statistics

	mode := "N/A"
	if v, ok := s.Mode.Float(); ok && v != 0 {
		mode = fixed(v)
	}
	skew := "(Symmetric)"
	switch {
	case s.Skewness > 0:
		skew = "(Right-skewed)"
	case s.Skewness < 0:
		skew = "(Left-skewed)"
	}

	f := newFacts("Descriptive Statistics")
	f.table(statRows("Summary Statistics",
		[2]string{"Mean (μ)", fixed(s.Mean)},
		[2]string{"Median", fixed(s.Median)},
		[2]string{"Mode", mode},
		[2]string{"Std Dev (σ)", fixed(s.StdDev)},
		[2]string{"Variance (σ²)", fixed(s.Variance)},
		[2]string{"Range", fixed(s.Range)},
	))
	f.table(statRows("Five Number Summary",
		[2]string{"Minimum", fixed(s.Min)},
		[2]string{"Q1", fixed(s.Q1)},
		[2]string{"Q2 (Median)", fixed(s.Q2)},
		[2]string{"Q3", fixed(s.Q3)},
		[2]string{"Maximum", fixed(s.Max)},
		[2]string{"IQR", fixed(s.IQR)},
	))
	f.add("Sample Size", fmt.Sprintf("n = %d", p.N))
	f.add("Skewness", fixed(s.Skewness)+" "+skew)
	f.add("Kurtosis", fixed(s.Kurtosis))

	box := p.PlotData.Boxplot
	if len(box.Outliers) > 0 {
		f.add("Outliers", FormatList(box.Outliers, PrecisionDefault))
	}
	if box.LowerFence != nil && box.UpperFence != nil {
		f.note(fmt.Sprintf("Outlier fences: [%s, %s]", fixed(*box.LowerFence), fixed(*box.UpperFence)))
	}

	hist := newChart("Descriptive Statistics Visualization", "Value", "Frequency", false)
	hist.add(barTrace("Frequency", p.PlotData.Histogram.BinCenters, p.PlotData.Histogram.Counts, accentColor))

	boxChart := newChart("Box Plot", "Dataset", "Value", false)
	boxChart.add(Trace{Name: "Box Plot", Kind: KindBox, Y: p.PlotData.RawData, Color: alertColor})

	return &Result{Facts: f.build(), Charts: []ChartDescription{*hist, *boxChart}}, nil
}

// ============================================================================
// DISTRIBUTIONS
// ============================================================================

type interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (iv interval) String() string {
	return fmt.Sprintf("[%s, %s]", fixed(iv.Lower), fixed(iv.Upper))
}

func renderNormal(raw []byte) (*Result, error) {
	var p struct {
		Parameters struct {
			Mean     float64 `json:"mean"`
			StdDev   float64 `json:"std_dev"`
			Variance float64 `json:"variance"`
		} `json:"parameters"`
		Probabilities struct {
			PLessThan    *float64 `json:"p_less_than"`
			PGreaterThan *float64 `json:"p_greater_than"`
			PDFAtX       *float64 `json:"pdf_at_x"`
			ZScore       *float64 `json:"z_score"`
		} `json:"probabilities"`
		ConfidenceIntervals map[string]interval `json:"confidence_intervals"`
		PlotData            struct {
			X        Series  `json:"x"`
			PDF      Series  `json:"pdf"`
			MeanLine float64 `json:"mean_line"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}
	params := p.Parameters

	f := newFacts(fmt.Sprintf("Normal Distribution: N(μ=%s, σ²=%s)",
		FormatNumber(params.Mean), fixed(params.Variance)))
	f.add("Mean (μ)", fixed(params.Mean))
	f.add("Std Dev (σ)", fixed(params.StdDev))
	f.add("Variance (σ²)", fixed(params.Variance))

	if pr := p.Probabilities; pr.PLessThan != nil && pr.PGreaterThan != nil && pr.ZScore != nil {
		at := params.Mean + *pr.ZScore*params.StdDev
		probs := statRows("Probabilities at x = "+fixed(at),
			[2]string{"P(X < x)", fixed(*pr.PLessThan)},
			[2]string{"P(X > x)", fixed(*pr.PGreaterThan)},
			[2]string{"Z-Score", fixed(*pr.ZScore)},
		)
		if pr.PDFAtX != nil {
			probs.Rows = append(probs.Rows, []string{"f(x)", fixed(*pr.PDFAtX)})
		}
		f.table(probs)
	}
	for _, level := range []string{"95%", "99%"} {
		if iv, ok := p.ConfidenceIntervals[level]; ok {
			f.add(level+" CI", iv.String())
		}
	}

	pd := p.PlotData
	c := newChart("Normal Distribution - Probability Density Function", "x", "Probability Density", true)
	pdf := lineTrace("PDF", pd.X, pd.PDF, accentColor, 3)
	pdf.Fill = "tozeroy"
	pdf.FillColor = accentFillLight
	c.add(pdf, verticalLine("Mean", pd.MeanLine, maxOf(pd.PDF), markerRed, "dash"))

	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// renderDiscrete handles the binomial and Poisson probability mass functions.
func renderDiscrete(typ string, raw []byte) (*Result, error) {
	var p struct {
		Parameters struct {
			N      Scalar  `json:"n"`
			P      float64 `json:"p"`
			Q      float64 `json:"q"`
			Lambda float64 `json:"lambda"`
		} `json:"parameters"`
		Statistics struct {
			Mean     float64 `json:"mean"`
			Variance float64 `json:"variance"`
			StdDev   float64 `json:"std_dev"`
		} `json:"statistics"`
		PlotData struct {
			X   Series `json:"x"`
			PMF Series `json:"pmf"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}
	params, s := p.Parameters, p.Statistics

	var (
		f     *factsBuilder
		c     *ChartDescription
		color string
	)
	if typ == "binomial_distribution" {
		f = newFacts(fmt.Sprintf("Binomial Distribution: B(n=%s, p=%s)", params.N, FormatNumber(params.P)))
		f.add("Trials (n)", params.N.String())
		f.add("Success Prob (p)", fixed(params.P))
		f.add("Failure Prob (q)", fixed(params.Q))
		f.add("Mean (μ)", fixed(s.Mean))
		f.add("Std Dev (σ)", fixed(s.StdDev))
		f.add("Variance (σ²)", fixed(s.Variance))
		c = newChart("Binomial Distribution - Probability Mass Function",
			"Number of Successes (k)", "Probability P(X = k)", false)
		color = accentColor
	} else {
		f = newFacts(fmt.Sprintf("Poisson Distribution: P(λ=%s)", FormatNumber(params.Lambda)))
		f.add("Lambda (λ)", fixed(params.Lambda))
		f.add("Mean (μ)", fixed(s.Mean))
		f.add("Std Dev (σ)", fixed(s.StdDev))
		c = newChart("Poisson Distribution - Probability Mass Function",
			"Number of Events (k)", "Probability P(X = k)", false)
		color = successColor
	}
	c.add(barTrace("PMF", p.PlotData.X, p.PlotData.PMF, color))

	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// ============================================================================
// HYPOTHESIS TESTS
// ============================================================================

func renderHypothesisTest(typ string, raw []byte) (*Result, error) {
	var p struct {
		TestStatistic    float64       `json:"test_statistic"`
		PValue           float64       `json:"p_value"`
		DegreesOfFreedom Scalar        `json:"degrees_of_freedom"`
		CriticalValue    Scalar        `json:"critical_value"`
		CriticalValues   orderedFields `json:"critical_values"`
		NullHypothesis   string        `json:"null_hypothesis"`
		Decision         struct {
			RejectNull bool    `json:"reject_null"`
			Alpha      float64 `json:"alpha"`
			Conclusion string  `json:"conclusion"`
		} `json:"decision"`
		SampleStatistics *struct {
			Mean   float64 `json:"mean"`
			StdDev float64 `json:"std_dev"`
			N      int     `json:"n"`
			Mean1  float64 `json:"mean1"`
			Mean2  float64 `json:"mean2"`
			Std1   float64 `json:"std1"`
			Std2   float64 `json:"std2"`
			N1     int     `json:"n1"`
			N2     int     `json:"n2"`
		} `json:"sample_statistics"`
		PlotData *struct {
			X              Series    `json:"x"`
			PDF            Series    `json:"pdf"`
			TStatistic     *float64  `json:"t_statistic"`
			ZStatistic     *float64  `json:"z_statistic"`
			CriticalValues []float64 `json:"critical_values"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	f := newFacts(strings.ToUpper(strings.ReplaceAll(typ, "_", " ")))
	if p.NullHypothesis != "" {
		f.add("H₀", p.NullHypothesis)
	}
	f.add("Test Statistic", fixed(p.TestStatistic))
	f.add("P-Value", FormatFixed(p.PValue, PrecisionPValue))
	f.add("Significance Level", "α = "+FormatNumber(p.Decision.Alpha))
	f.headline("Decision", p.Decision.Conclusion)
	if p.DegreesOfFreedom.Present() {
		f.add("Degrees of Freedom", p.DegreesOfFreedom.String())
	}
	if p.CriticalValue.Present() {
		f.add("Critical Value", p.CriticalValue.Format(PrecisionDefault))
	}
	if len(p.CriticalValues) > 0 {
		cv := FactTable{Title: "Critical Values", Columns: []string{"Tail", "Value"}}
		for _, fv := range p.CriticalValues {
			cv.Rows = append(cv.Rows, []string{titleFor(fv.Key), scalarOf(fv.Value).Format(PrecisionDefault)})
		}
		f.table(cv)
	}

	if ss := p.SampleStatistics; ss != nil {
		switch typ {
		case "one_sample_t_test":
			f.table(statRows("Sample Statistics",
				[2]string{"Sample Mean", fixed(ss.Mean)},
				[2]string{"Sample Std Dev", fixed(ss.StdDev)},
				[2]string{"Sample Size", fmt.Sprint(ss.N)},
			))
		case "two_sample_t_test":
			f.table(statRows("Sample Statistics",
				[2]string{"Mean 1", fixed(ss.Mean1)},
				[2]string{"Mean 2", fixed(ss.Mean2)},
				[2]string{"Std Dev 1", fixed(ss.Std1)},
				[2]string{"Std Dev 2", fixed(ss.Std2)},
			))
		}
	}

	res := &Result{Facts: f.build()}
	pd := p.PlotData
	if pd == nil {
		res.Message = "No plot data available"
		return res, nil
	}
	xAxis := "T-Score"
	if strings.Contains(typ, "z") {
		xAxis = "Z-Score"
	}
	top := maxOf(pd.PDF)
	stat := p.TestStatistic
	switch {
	case pd.TStatistic != nil:
		stat = *pd.TStatistic
	case pd.ZStatistic != nil:
		stat = *pd.ZStatistic
	}

	c := newChart("Hypothesis Test Visualization", xAxis, "Probability Density", true)
	dist := lineTrace("Distribution", pd.X, pd.PDF, accentColor, 3)
	dist.Fill = "tozeroy"
	dist.FillColor = accentFillFaint
	c.add(dist, verticalLine("Test Statistic", stat, top, markerRed, "dash"))
	for i, cv := range pd.CriticalValues {
		c.add(verticalLine(fmt.Sprintf("Critical Value %d", i+1), cv, top, markerOrange, "dot"))
	}
	res.Charts = []ChartDescription{*c}
	return res, nil
}

// ============================================================================
// REGRESSION
// ============================================================================

func renderRegression(typ string, raw []byte) (*Result, error) {
	var p struct {
		Degree     int    `json:"degree"`
		Equation   string `json:"equation"`
		Statistics struct {
			R        *float64 `json:"r"`
			RSquared float64  `json:"r_squared"`
			PValue   *float64 `json:"p_value"`
			StdErr   *float64 `json:"std_err"`
			MSE      float64  `json:"mse"`
			RMSE     float64  `json:"rmse"`
		} `json:"statistics"`
		PlotData struct {
			XOriginal Series `json:"x_original"`
			YOriginal Series `json:"y_original"`
			XLine     Series `json:"x_line"`
			YLine     Series `json:"y_line"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}
	s := p.Statistics

	title := "Linear Regression"
	if typ == "polynomial_regression" {
		title = fmt.Sprintf("Polynomial (degree %d) Regression", p.Degree)
	}
	f := newFacts(title)
	f.headline("Equation", p.Equation)
	f.add("R² (Coefficient of Determination)", fixed(s.RSquared))
	if s.R != nil && *s.R != 0 {
		f.add("R (Correlation)", fixed(*s.R))
	}
	f.add("RMSE", fixed(s.RMSE))
	f.add("MSE", fixed(s.MSE))
	if s.PValue != nil {
		f.add("P-Value", FormatFixed(*s.PValue, PrecisionPValue))
	}
	if s.StdErr != nil {
		f.add("Std Error", fixed(*s.StdErr))
	}
	f.note(fmt.Sprintf("%s%% of variance in Y is explained by X", FormatFixed(s.RSquared*100, 2)))

	pd := p.PlotData
	c := newChart("Regression Analysis", "X", "Y", true)
	c.add(
		markerTrace("Data Points", pd.XOriginal, pd.YOriginal, accentColor, 8, "circle"),
		lineTrace("Regression Line", pd.XLine, pd.YLine, alertColor, 3),
	)
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}

// ============================================================================
// CORRELATION
// ============================================================================

func renderCorrelation(raw []byte) (*Result, error) {
	type coefficient struct {
		R              float64 `json:"r"`
		PValue         float64 `json:"p_value"`
		Interpretation string  `json:"interpretation"`
	}
	var p struct {
		Pearson    coefficient `json:"pearson"`
		Spearman   coefficient `json:"spearman"`
		Covariance float64     `json:"covariance"`
		PlotData   struct {
			X Series `json:"x"`
			Y Series `json:"y"`
		} `json:"plot_data"`
	}
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	f := newFacts("Correlation Analysis")
	f.table(statRows("Pearson Correlation",
		[2]string{"Correlation (r)", fixed(p.Pearson.R)},
		[2]string{"P-Value", FormatFixed(p.Pearson.PValue, PrecisionPValue)},
		[2]string{"Strength", p.Pearson.Interpretation},
	))
	f.table(statRows("Spearman Correlation (Rank)",
		[2]string{"Correlation (ρ)", fixed(p.Spearman.R)},
		[2]string{"P-Value", FormatFixed(p.Spearman.PValue, PrecisionPValue)},
	))
	f.headline("Pearson r", fixed(p.Pearson.R))
	f.add("Covariance", fixed(p.Covariance))

	c := newChart(fmt.Sprintf("Scatter Plot (r = %s)", fixed(p.Pearson.R)), "X", "Y", false)
	c.add(markerTrace("Data Points", p.PlotData.X, p.PlotData.Y, accentColor, 10, "circle"))
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, nil
}
