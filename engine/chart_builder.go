package engine

import "math"

// ============================================================================
// CHART BUILDER — Trace and layout helpers shared by the domain renderers
// ============================================================================

// Default color palette for traces the payload does not color.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Fixed colors for the roles a trace plays.
const (
	accentColor    = "#667eea"
	alertColor     = "#f44336"
	successColor   = "#4caf50"
	markerRed      = "red"
	markerGreen    = "green"
	markerOrange   = "orange"
	referenceBlack = "black"

	accentFill      = "rgba(102, 126, 234, 0.3)"
	accentFillLight = "rgba(102, 126, 234, 0.2)"
	accentFillDense = "rgba(102, 126, 234, 0.4)"
	accentFillFaint = "rgba(102, 126, 234, 0.1)"
)

// ============================================================================
// CHARTS
// ============================================================================

func newChart(title, xAxis, yAxis string, legend bool) *ChartDescription {
	return &ChartDescription{
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ShowLegend: legend,
	}
}

func newChart3D(title string, legend bool) *ChartDescription {
	return &ChartDescription{
		Title:      title,
		XAxis:      "X",
		YAxis:      "Y",
		ZAxis:      "Z",
		ShowLegend: legend,
		ThreeD:     true,
	}
}

// add appends traces and returns the chart for chaining.
func (c *ChartDescription) add(traces ...Trace) *ChartDescription {
	c.Traces = append(c.Traces, traces...)
	return c
}

// assignColors gives every uncolored trace a palette color, in order.
func assignColors(c *ChartDescription) {
	n := 0
	for i := range c.Traces {
		if c.Traces[i].Color != "" {
			continue
		}
		c.Traces[i].Color = defaultColors[n%len(defaultColors)]
		n++
	}
}

// ============================================================================
// TRACES
// ============================================================================

func lineTrace(name string, x, y Series, color string, width float64) Trace {
	return Trace{
		Name:  name,
		Kind:  KindScatter,
		Mode:  ModeLines,
		X:     x,
		Y:     y,
		Color: color,
		Width: width,
	}
}

func dashedTrace(name string, x, y Series, color string, width float64, dash string) Trace {
	t := lineTrace(name, x, y, color, width)
	t.Dash = dash
	return t
}

func markerTrace(name string, x, y Series, color string, size float64, symbol string) Trace {
	return Trace{
		Name:         name,
		Kind:         KindScatter,
		Mode:         ModeMarkers,
		X:            x,
		Y:            y,
		Color:        color,
		MarkerSize:   size,
		MarkerSymbol: symbol,
	}
}

// labeledMarkers draws markers with a text label above each one.
func labeledMarkers(name string, x, y Series, labels []string, color string, size float64, symbol string) Trace {
	t := markerTrace(name, x, y, color, size, symbol)
	t.Mode = ModeMarkersText
	t.Text = labels
	return t
}

// filledPolygon outlines a closed shape and fills its interior.
func filledPolygon(name string, x, y Series, fillColor string) Trace {
	t := lineTrace(name, x, y, accentColor, 3)
	t.Fill = "toself"
	t.FillColor = fillColor
	return t
}

// areaTrace fills between a curve and y = 0 without drawing the curve.
func areaTrace(name string, x, y Series, fillColor string) Trace {
	return Trace{
		Name:      name,
		Kind:      KindScatter,
		Mode:      ModeNone,
		X:         x,
		Y:         y,
		Fill:      "tozeroy",
		FillColor: fillColor,
	}
}

// verticalLine runs from y = 0 to top at x.
func verticalLine(name string, x, top float64, color string, dash string) Trace {
	return dashedTrace(name, Series{x, x}, Series{0, top}, color, 2, dash)
}

func barTrace(name string, x, y Series, color string) Trace {
	return Trace{Name: name, Kind: KindBar, X: x, Y: y, Color: color}
}

func contourTrace(name string, x, y Series, z Grid, levels *ContourLevels) Trace {
	return Trace{
		Name:       name,
		Kind:       KindContour,
		X:          x,
		Y:          y,
		ZGrid:      z,
		Width:      2,
		Colorscale: "Viridis",
		Levels:     levels,
	}
}

func surfaceTrace(name string, x, y, z Grid, colorscale string) Trace {
	return Trace{
		Name:       name,
		Kind:       KindSurface,
		XGrid:      x,
		YGrid:      y,
		ZGrid:      z,
		Colorscale: colorscale,
		HideLegend: true,
	}
}

func line3D(name string, x, y, z Series, color string, width float64) Trace {
	return Trace{
		Name:  name,
		Kind:  KindScatter3D,
		Mode:  ModeLines,
		X:     x,
		Y:     y,
		Z:     z,
		Color: color,
		Width: width,
	}
}

// implicitLevels are the iso-lines drawn for f(x, y) = 0 style contours.
func implicitLevels() *ContourLevels {
	return &ContourLevels{Start: -5, End: 5, Size: 0.5, Coloring: "lines"}
}

// ============================================================================
// SERIES HELPERS
// ============================================================================

// column extracts coordinate i from a list of points.
func column(points [][]float64, i int) Series {
	out := make(Series, len(points))
	for j, p := range points {
		if i < len(p) {
			out[j] = p[i]
		} else {
			out[j] = math.NaN()
		}
	}
	return out
}

// closedColumn is column with the first point repeated at the end.
func closedColumn(points [][]float64, i int) Series {
	s := column(points, i)
	if len(s) > 0 {
		s = append(s, s[0])
	}
	return s
}

// firstRow returns the first row of a mesh grid (its x ticks).
func firstRow(g Grid) Series {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// firstColumn returns the first element of each row (a mesh grid's y ticks).
func firstColumn(g Grid) Series {
	out := make(Series, len(g))
	for i, row := range g {
		if len(row) > 0 {
			out[i] = row[0]
		} else {
			out[i] = 0
		}
	}
	return out
}

// constant returns n copies of v.
func constant(v float64, n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// maxOf returns the largest finite value, or 0 for an empty series.
func maxOf(s Series) float64 {
	best := math.Inf(-1)
	for _, v := range s {
		if !math.IsNaN(v) && v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}
