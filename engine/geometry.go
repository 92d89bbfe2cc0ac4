package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// GEOMETRY RENDERER
// ============================================================================
// Types: coordinate_geometry, circle, triangle, mensuration_2d, solid_3d,
// geometry_equation. All but the last carry a secondary discriminator
// (operation or shape) that selects the layout.
// ============================================================================

type geometryPayload struct {
	Operation string `json:"operation"`
	Shape     string `json:"shape"`
	ShapeType string `json:"shape_type"`

	Point1        []float64   `json:"point1"`
	Point2        []float64   `json:"point2"`
	Points        [][]float64 `json:"points"`
	Vertices      [][]float64 `json:"vertices"`
	Midpoint      []float64   `json:"midpoint"`
	Centroid      []float64   `json:"centroid"`
	Circumcenter  []float64   `json:"circumcenter"`
	Center        []float64   `json:"center"`
	ExternalPoint []float64   `json:"external_point"`

	Distance          Scalar `json:"distance"`
	Slope             Scalar `json:"slope"`
	Area              Scalar `json:"area"`
	Perimeter         Scalar `json:"perimeter"`
	Circumference     Scalar `json:"circumference"`
	Radius            Scalar `json:"radius"`
	Circumradius      Scalar `json:"circumradius"`
	TangentLength     Scalar `json:"tangent_length"`
	Length            Scalar `json:"length"`
	Width             Scalar `json:"width"`
	Height            Scalar `json:"height"`
	Side              Scalar `json:"side"`
	SlantHeight       Scalar `json:"slant_height"`
	SurfaceArea       Scalar `json:"surface_area"`
	CurvedSurfaceArea Scalar `json:"curved_surface_area"`
	TotalSurfaceArea  Scalar `json:"total_surface_area"`
	Volume            Scalar `json:"volume"`

	Dimensions struct {
		Length Scalar `json:"length"`
		Width  Scalar `json:"width"`
		Height Scalar `json:"height"`
	} `json:"dimensions"`

	Equation     string            `json:"equation"`
	Formula      string            `json:"formula"`
	IsCollinear  bool              `json:"is_collinear"`
	Result       string            `json:"result"`
	TriangleType string            `json:"triangle_type"`
	Sides        orderedFields     `json:"sides"`
	Unknown      string            `json:"unknown"`
	Theorem      string            `json:"theorem"`
	Formulas     map[string]string `json:"formulas"`
	Properties   orderedFields     `json:"properties"`
	LaTeX        map[string]string `json:"latex"`
	PlotData     geometryPlot      `json:"plot_data"`
}

type geometryPlot struct {
	Type         string      `json:"type"`
	Points       [][]float64 `json:"points"`
	Line         [][]float64 `json:"line"`
	Vertices     [][]float64 `json:"vertices"`
	Polygon      [][]float64 `json:"polygon"`
	Midpoint     []float64   `json:"midpoint"`
	Centroid     []float64   `json:"centroid"`
	Circumcenter []float64   `json:"circumcenter"`
	Center       []float64   `json:"center"`
	Point        []float64   `json:"point"`
	X            axisData    `json:"x"`
	Y            axisData    `json:"y"`
	Z            Grid        `json:"z"`
	Circle       *struct {
		X Series `json:"x"`
		Y Series `json:"y"`
	} `json:"circle"`
}

func renderGeometry(typ string, raw []byte) (*Result, error) {
	var p geometryPayload
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	var (
		res *Result
		ok  bool
	)
	switch typ {
	case "coordinate_geometry":
		res, ok = renderCoordinate(&p)
	case "circle":
		res, ok = renderCircle(&p)
	case "triangle":
		res, ok = renderTriangle(&p)
	case "mensuration_2d":
		res, ok = renderMensuration(&p)
	case "solid_3d":
		res, ok = renderSolid(&p)
	case "geometry_equation":
		return renderGeometryEquation(&p), nil
	default:
		return nil, &UnknownTypeError{Type: typ}
	}
	if !ok {
		variant := p.Operation
		if typ == "mensuration_2d" || typ == "solid_3d" {
			variant = p.Shape
		}
		return nil, &UnknownTypeError{Type: typ, Variant: variant}
	}
	res.Variant = p.Operation
	if res.Variant == "" {
		res.Variant = p.Shape
	}
	return res, nil
}

// vertexNames labels the corners of a triangle.
var vertexNames = []string{"A", "B", "C"}

// namedPoints formats points as "A(1, 2), B(3, 4), ...".
func namedPoints(pts [][]float64, names []string) string {
	parts := make([]string, len(pts))
	for i, pt := range pts {
		name := fmt.Sprintf("P%d", i+1)
		if i < len(names) {
			name = names[i]
		}
		parts[i] = name + formatPoint(pt)
	}
	return strings.Join(parts, ", ")
}

func pointLabels(n int, names []string) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(names) {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("P%d", i+1)
		}
	}
	return out
}

// single wraps a point as one-element x and y series.
func single(pt []float64) (Series, Series) {
	if len(pt) < 2 {
		return nil, nil
	}
	return Series{pt[0]}, Series{pt[1]}
}

// ============================================================================
// COORDINATE GEOMETRY
// ============================================================================

func renderCoordinate(p *geometryPayload) (*Result, bool) {
	f := newFacts("Coordinate Geometry")
	f.add("Operation", labelFor(p.Operation))
	pd := p.PlotData

	var c *ChartDescription
	switch p.Operation {
	case "distance":
		f.add("Point 1", formatPoint(p.Point1)).add("Point 2", formatPoint(p.Point2))
		f.headline("Distance", p.Distance.String())
		f.addLaTeX("Formula", p.Formula, p.LaTeX["formula"])
		c = newChart("Distance Between Points", "x", "y", false)
		c.add(
			lineTrace("Distance", row(pd.Line, 0), row(pd.Line, 1), accentColor, 3),
			markerTrace("Points", column(pd.Points, 0), column(pd.Points, 1), markerRed, 10, "circle"),
		)

	case "midpoint":
		f.add("Point 1", formatPoint(p.Point1)).add("Point 2", formatPoint(p.Point2))
		f.headline("Midpoint", formatPoint(p.Midpoint))
		f.addLaTeX("Formula", p.Formula, p.LaTeX["formula"])
		mx, my := single(pd.Midpoint)
		c = newChart("Midpoint of Line Segment", "x", "y", true)
		segment := lineTrace("Line Segment", row(pd.Line, 0), row(pd.Line, 1), accentColor, 3)
		segment.Mode = ModeLinesMarkers
		segment.MarkerSize = 10
		c.add(segment, markerTrace("Midpoint", mx, my, markerRed, 15, "star"))

	case "slope":
		f.add("Point 1", formatPoint(p.Point1)).add("Point 2", formatPoint(p.Point2))
		f.headline("Slope", p.Slope.String())
		f.addLaTeX("Formula", p.Formula, p.LaTeX["formula"])
		c = newChart("Slope Calculation", "x", "y", false)
		c.add(
			lineTrace("Line", row(pd.Line, 0), row(pd.Line, 1), accentColor, 3),
			markerTrace("Points", column(pd.Points, 0), column(pd.Points, 1), markerRed, 10, "circle"),
		)

	case "line_equation":
		f.add("Point 1", formatPoint(p.Point1)).add("Point 2", formatPoint(p.Point2))
		f.fact(Fact{Label: "Equation", Value: p.Equation, LaTeX: p.LaTeX["equation"], Emphasis: true})
		c = newChart("Line Equation", "x", "y", true)
		c.add(
			lineTrace("Line", pd.X.Flat, pd.Y.Flat, accentColor, 3),
			markerTrace("Points", column(pd.Points, 0), column(pd.Points, 1), markerRed, 10, "circle"),
		)

	case "triangle_area":
		f.add("Vertices", namedPoints(p.Vertices, vertexNames))
		f.headline("Area", p.Area.String())
		f.addLaTeX("Formula", p.Formula, p.LaTeX["formula"])
		c = triangleChart("Triangle Area", pd, accentFill)

	case "collinearity":
		f.add("Points", namedPoints(p.Points, nil))
		f.headline("Result", p.Result)
		f.add("Area (should be 0)", p.Area.String())
		c = newChart("Collinearity Check", "x", "y", true)
		c.add(labeledMarkers("Points", column(pd.Points, 0), column(pd.Points, 1),
			pointLabels(len(pd.Points), nil), markerRed, 12, "circle"))
		if len(pd.Line) == 2 {
			c.add(dashedTrace("Line", row(pd.Line, 0), row(pd.Line, 1), accentColor, 2, "dash"))
		}

	default:
		return nil, false
	}
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, true
}

// triangleChart fills the closed polygon and labels its vertices.
func triangleChart(title string, pd geometryPlot, fill string) *ChartDescription {
	c := newChart(title, "x", "y", true)
	c.add(
		filledPolygon("Triangle", row(pd.Polygon, 0), row(pd.Polygon, 1), fill),
		labeledMarkers("Vertices", column(pd.Vertices, 0), column(pd.Vertices, 1),
			pointLabels(len(pd.Vertices), vertexNames), markerRed, 10, "circle"),
	)
	return c
}

// ============================================================================
// CIRCLE
// ============================================================================

func renderCircle(p *geometryPayload) (*Result, bool) {
	f := newFacts("Circle")
	pd := p.PlotData

	var c *ChartDescription
	switch p.Operation {
	case "circle_construction":
		f.add("Shape", "CIRCLE")
		f.add("Center", formatPoint(p.Center))
		f.add("Radius", p.Radius.String())
		f.addLaTeX("Area", p.Area.String(), p.LaTeX["area"])
		f.addLaTeX("Circumference", p.Circumference.String(), p.LaTeX["circumference"])
		f.fact(Fact{Label: "Equation", Value: p.Equation, LaTeX: p.LaTeX["equation"], Emphasis: true})
		c = circleChart("Circle", pd.X.Flat, pd.Y.Flat, pd.Center, accentFillLight)

	case "tangent_length":
		f.add("Center", formatPoint(p.Center))
		f.add("Radius", p.Radius.String())
		f.add("External Point", formatPoint(p.ExternalPoint))
		f.fact(Fact{Label: "Tangent Length", Value: p.TangentLength.String(), LaTeX: p.LaTeX["result"], Emphasis: true})
		f.addLaTeX("Formula", p.Formula, p.LaTeX["formula"])
		c = newChart("Tangent from External Point", "x", "y", true)
		if pd.Circle != nil {
			c.add(lineTrace("Circle", pd.Circle.X, pd.Circle.Y, accentColor, 3))
		}
		cx, cy := single(pd.Center)
		px, py := single(pd.Point)
		c.add(
			labeledMarkers("Center", cx, cy, []string{"Center"}, markerRed, 10, "circle"),
			labeledMarkers("Point", px, py, []string{"External Point"}, markerGreen, 12, "circle"),
		)
		c.EqualAspect = true

	default:
		return nil, false
	}
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, true
}

// circleChart draws a filled circle outline with its center marked.
func circleChart(title string, x, y Series, center []float64, fill string) *ChartDescription {
	c := newChart(title, "x", "y", true)
	outline := lineTrace("Circle", x, y, accentColor, 3)
	outline.Fill = "toself"
	outline.FillColor = fill
	c.add(outline)
	if cx, cy := single(center); cx != nil {
		c.add(markerTrace("Center", cx, cy, markerRed, 10, "x"))
	}
	c.EqualAspect = true
	return c
}

// ============================================================================
// TRIANGLE
// ============================================================================

func renderTriangle(p *geometryPayload) (*Result, bool) {
	f := newFacts("Triangle")
	pd := p.PlotData

	var c *ChartDescription
	switch p.Operation {
	case "pythagoras":
		for _, side := range p.Sides {
			label := "Side " + side.Key
			if side.Key == "c" {
				label += " (hypotenuse)"
			}
			f.add(label, scalarOf(side.Value).String())
		}
		if raw, ok := p.Sides.get(p.Unknown); ok {
			f.headline("Unknown Side", fmt.Sprintf("%s = %s", p.Unknown, scalarOf(raw)))
		}
		f.addLaTeX("Theorem", p.Theorem, p.LaTeX["formula"])
		c = newChart("Right Triangle - Pythagoras Theorem", "x", "y", false)
		c.add(filledPolygon("Triangle", row(pd.Polygon, 0), row(pd.Polygon, 1), accentFill))
		c.EqualAspect = true

	case "triangle_analysis":
		f.headline("Type", p.TriangleType)
		f.add("Vertices", namedPoints(p.Vertices, vertexNames))
		sides := make([]string, len(p.Sides))
		for i, side := range p.Sides {
			sides[i] = fmt.Sprintf("%s = %s", side.Key, scalarOf(side.Value))
		}
		f.add("Sides", strings.Join(sides, ", "))
		f.addLaTeX("Area", p.Area.String(), p.LaTeX["area"])
		f.addLaTeX("Perimeter", p.Perimeter.String(), p.LaTeX["perimeter"])
		c = triangleChart("Triangle Area", pd, accentFill)

	case "centroid":
		f.add("Vertices", namedPoints(p.Vertices, vertexNames))
		f.fact(Fact{Label: "Centroid", Value: "G" + formatPoint(p.Centroid), LaTeX: p.LaTeX["result"], Emphasis: true})
		f.addLaTeX("Formula", p.Formula, p.LaTeX["formula"])
		gx, gy := single(pd.Centroid)
		c = newChart("Triangle Centroid", "x", "y", true)
		c.add(
			filledPolygon("Triangle", row(pd.Polygon, 0), row(pd.Polygon, 1), accentFillLight),
			labeledMarkers("Centroid", gx, gy, []string{"Centroid"}, markerRed, 15, "star"),
		)

	case "circumcenter":
		f.add("Vertices", namedPoints(p.Vertices, vertexNames))
		f.headline("Circumcenter", "O"+formatPoint(p.Circumcenter))
		f.addLaTeX("Circumradius", p.Circumradius.String(), p.LaTeX["result"])
		c = newChart("Triangle Circumcircle", "x", "y", true)
		if pd.Circle != nil {
			c.add(dashedTrace("Circumcircle", pd.Circle.X, pd.Circle.Y, alertColor, 2, "dash"))
		}
		ox, oy := single(pd.Circumcenter)
		c.add(
			lineTrace("Triangle", row(pd.Polygon, 0), row(pd.Polygon, 1), accentColor, 3),
			markerTrace("Circumcenter", ox, oy, markerGreen, 12, "x"),
		)
		c.EqualAspect = true

	default:
		return nil, false
	}
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, true
}

// ============================================================================
// MENSURATION (2-D)
// ============================================================================

func renderMensuration(p *geometryPayload) (*Result, bool) {
	f := newFacts("Mensuration")
	f.add("Shape", strings.ToUpper(p.Shape))
	pd := p.PlotData

	var c *ChartDescription
	switch p.Shape {
	case "rectangle":
		f.add("Length", p.Length.String()).add("Width", p.Width.String())
		f.addLaTeX("Area", p.Area.String(), p.LaTeX["area"])
		f.addLaTeX("Perimeter", p.Perimeter.String(), p.LaTeX["perimeter"])
		c = polygonChart("Rectangle", pd.Vertices)

	case "square":
		f.add("Side", p.Side.String())
		f.addLaTeX("Area", p.Area.String(), p.LaTeX["area"])
		f.addLaTeX("Perimeter", p.Perimeter.String(), p.LaTeX["perimeter"])
		c = polygonChart("Square", pd.Vertices)

	case "circle":
		f.add("Radius", p.Radius.String())
		if p.Area.Present() {
			f.addLaTeX("Area", p.Area.String(), p.LaTeX["area"])
		}
		if p.Circumference.Present() {
			f.addLaTeX("Circumference", p.Circumference.String(), p.LaTeX["circumference"])
		}
		c = circleChart("Circle", pd.X.Flat, pd.Y.Flat, nil, accentFillDense)

	default:
		return nil, false
	}
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, true
}

func polygonChart(title string, vertices [][]float64) *ChartDescription {
	c := newChart(title, "x", "y", false)
	c.add(filledPolygon(title, closedColumn(vertices, 0), closedColumn(vertices, 1), accentFillDense))
	c.EqualAspect = true
	return c
}

// ============================================================================
// SOLIDS (3-D)
// ============================================================================

// boxEdges are the 12 edges of a box whose 8 vertices list the bottom face
// then the top face, both counter-clockwise.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// solidColorscales maps mesh solids to their surface colorscale.
var solidColorscales = map[string]string{
	"cylinder":   "Viridis",
	"cone":       "Plasma",
	"sphere":     "Blues",
	"hemisphere": "RdYlBu",
}

func renderSolid(p *geometryPayload) (*Result, bool) {
	f := newFacts("3D Solid")
	f.add("3D Shape", strings.ToUpper(p.Shape))

	switch p.Shape {
	case "cube":
		f.add("Side", p.Side.String())
	case "cuboid":
		f.add("Length", p.Dimensions.Length.String())
		f.add("Width", p.Dimensions.Width.String())
		f.add("Height", p.Dimensions.Height.String())
	case "cylinder":
		f.add("Radius", p.Radius.String()).add("Height", p.Height.String())
	case "cone":
		f.add("Radius", p.Radius.String()).add("Height", p.Height.String())
		f.add("Slant Height", p.SlantHeight.String())
	case "sphere", "hemisphere":
		f.add("Radius", p.Radius.String())
	default:
		return nil, false
	}

	solidMeasure(f, "Surface Area", p.SurfaceArea, p.Formulas["surface_area"], p.LaTeX["surface_area"])
	solidMeasure(f, "Curved Surface Area", p.CurvedSurfaceArea, p.Formulas["curved_surface"], p.LaTeX["curved_surface"])
	solidMeasure(f, "Total Surface Area", p.TotalSurfaceArea, p.Formulas["total_surface"], p.LaTeX["total_surface"])
	solidMeasure(f, "Volume", p.Volume, p.Formulas["volume"], p.LaTeX["volume"])

	title := titleFor(p.Shape) + " - 3D Visualization"
	c := newChart3D(title, false)
	pd := p.PlotData
	if p.Shape == "cube" || p.Shape == "cuboid" {
		if len(pd.Vertices) >= 8 {
			for _, e := range boxEdges {
				a, b := pd.Vertices[e[0]], pd.Vertices[e[1]]
				edge := line3D("", column([][]float64{a, b}, 0), column([][]float64{a, b}, 1),
					column([][]float64{a, b}, 2), accentColor, 5)
				edge.HideLegend = true
				c.add(edge)
			}
		}
	} else {
		c.add(surfaceTrace(titleFor(p.Shape), pd.X.Mesh, pd.Y.Mesh, pd.Z, solidColorscales[p.Shape]))
	}
	return &Result{Facts: f.build(), Charts: []ChartDescription{*c}}, true
}

// solidMeasure adds "formula = value" when the payload carries the measure.
func solidMeasure(f *factsBuilder, label string, v Scalar, formula, latex string) {
	if !v.Present() {
		return
	}
	value := v.String()
	if formula != "" {
		value = formula + " = " + value
	}
	f.addLaTeX(label, value, latex)
}

// ============================================================================
// GEOMETRY EQUATION
// ============================================================================

func renderGeometryEquation(p *geometryPayload) *Result {
	shape := strings.ToUpper(p.ShapeType)
	f := newFacts("Geometry Equation")
	f.headline("Shape Type", shape)
	f.addLaTeX("Equation", p.Equation, p.LaTeX["equation"])

	props := FactTable{Title: "Properties", Columns: []string{"Property", "Value"}}
	for _, prop := range p.Properties {
		props.Rows = append(props.Rows, []string{strings.Replace(prop.Key, "_", " ", 1), propertyValue(prop)})
	}
	f.table(props)

	res := &Result{Variant: p.ShapeType}
	pd := p.PlotData
	switch pd.Type {
	case "circle":
		res.Charts = []ChartDescription{*circleChart(shape, pd.X.Flat, pd.Y.Flat, pd.Center, accentFillLight)}
	case "line":
		c := newChart("Line", "x", "y", false)
		c.add(lineTrace("Line", pd.X.Flat, pd.Y.Flat, accentColor, 3))
		res.Charts = []ChartDescription{*c}
	case "contour":
		c := newChart(shape, "x", "y", false)
		c.add(contourTrace(shape, firstRow(pd.X.Mesh), firstColumn(pd.Y.Mesh), pd.Z, implicitLevels()))
		c.EqualAspect = true
		res.Charts = []ChartDescription{*c}
	default:
		res.Message = "No plot data available"
	}
	res.Facts = f.build()
	return res
}

// propertyValue renders numbers at 2 decimals and lists as "(a, b)".
func propertyValue(prop field) string {
	var pt []float64
	if err := decodeInto(prop.Value, &pt); err == nil && pt != nil {
		return formatPoint(pt)
	}
	s := scalarOf(prop.Value)
	if s.IsNumber() {
		return s.Format(2)
	}
	return s.String()
}
