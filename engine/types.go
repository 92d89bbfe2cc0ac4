package engine

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/spektr-org/mathviz/schema"
)

// ============================================================================
// ENGINE TYPES — Facts panel, chart descriptions, samples
// ============================================================================
// Every render call builds these fresh. Nothing here is retained between
// calls, so results can be handed to a plotting surface and forgotten.
// ============================================================================

// ============================================================================
// SERIES — numeric sequences with gaps
// ============================================================================

// Series is a sequence of numbers in which NaN marks a gap. Gaps encode as
// JSON null and nulls decode back to NaN, so a plotting surface never
// interpolates across them.
type Series []float64

// MarshalJSON writes NaN and infinities as null.
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			b.WriteString("null")
			continue
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// UnmarshalJSON reads null entries as NaN.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*s = out
	return nil
}

// Grid is a row-major 2-D sample grid used by contours and surfaces.
type Grid []Series

// ============================================================================
// CHART DESCRIPTION
// ============================================================================

// Trace kinds understood by the plotting surface.
const (
	KindScatter   = "scatter"
	KindScatter3D = "scatter3d"
	KindBar       = "bar"
	KindBox       = "box"
	KindContour   = "contour"
	KindSurface   = "surface"
)

// Trace render modes.
const (
	ModeLines        = "lines"
	ModeMarkers      = "markers"
	ModeLinesMarkers = "lines+markers"
	ModeMarkersText  = "markers+text"
	ModeNone         = "none"
)

// Trace is one named layer of a chart. Line, marker and bar traces use X/Y
// (and Z for 3-D lines). Contours use X/Y as axis ticks with ZGrid as
// values; surfaces built from full meshes use all three grids.
type Trace struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Mode string `json:"mode,omitempty"`

	X Series `json:"x,omitempty"`
	Y Series `json:"y,omitempty"`
	Z Series `json:"z,omitempty"`

	XGrid Grid `json:"xGrid,omitempty"`
	YGrid Grid `json:"yGrid,omitempty"`
	ZGrid Grid `json:"zGrid,omitempty"`

	Text []string `json:"text,omitempty"`

	// Styling hints
	Color        string  `json:"color,omitempty"`
	Width        float64 `json:"width,omitempty"`
	Dash         string  `json:"dash,omitempty"` // "dash", "dot"
	Fill         string  `json:"fill,omitempty"` // "tozeroy", "toself"
	FillColor    string  `json:"fillColor,omitempty"`
	MarkerSize   float64 `json:"markerSize,omitempty"`
	MarkerSymbol string  `json:"markerSymbol,omitempty"`
	Opacity      float64 `json:"opacity,omitempty"`
	HideLegend   bool    `json:"hideLegend,omitempty"`

	// Contour and surface styling
	Colorscale string         `json:"colorscale,omitempty"`
	Levels     *ContourLevels `json:"levels,omitempty"`
}

// ContourLevels fixes the iso-lines a contour trace draws.
type ContourLevels struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Size     float64 `json:"size"`
	Coloring string  `json:"coloring,omitempty"` // "lines", "fill"
}

// ChartDescription is a plotting-surface-agnostic chart.
type ChartDescription struct {
	Title       string  `json:"title"`
	XAxis       string  `json:"xAxis,omitempty"`
	YAxis       string  `json:"yAxis,omitempty"`
	ZAxis       string  `json:"zAxis,omitempty"`
	Traces      []Trace `json:"traces"`
	ShowLegend  bool    `json:"showLegend"`
	ThreeD      bool    `json:"threeD,omitempty"`
	EqualAspect bool    `json:"equalAspect,omitempty"`
}

// ============================================================================
// FACTS PANEL
// ============================================================================

// Fact is one label/value row of the facts panel. LaTeX carries the
// typeset form when the payload supplied one.
type Fact struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	LaTeX    string `json:"latex,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// FactTable is a small table inside the facts panel.
type FactTable struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FactsPanel is the textual half of a rendered result.
type FactsPanel struct {
	Title  string      `json:"title"`
	Facts  []Fact      `json:"facts"`
	Tables []FactTable `json:"tables,omitempty"`
	Notes  []string    `json:"notes,omitempty"`
}

// Empty reports whether the panel has nothing to show.
func (p FactsPanel) Empty() bool {
	return len(p.Facts) == 0 && len(p.Tables) == 0 && len(p.Notes) == 0
}

// ============================================================================
// RESULT
// ============================================================================

// Result is the render-ready output of Render.
type Result struct {
	Domain  schema.Domain      `json:"domain"`
	Type    string             `json:"type"`
	Variant string             `json:"variant,omitempty"`
	Facts   FactsPanel         `json:"facts"`
	Charts  []ChartDescription `json:"charts"`

	// Message explains an absent chart ("No plot data available").
	Message string `json:"message,omitempty"`
}

// ============================================================================
// SAMPLES
// ============================================================================

// SamplePoint is one sampled point. Gap points carry no y value.
type SamplePoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Gap bool    `json:"gap,omitempty"`
}

// MarshalJSON writes gaps as {"x":..,"y":null}.
func (p SamplePoint) MarshalJSON() ([]byte, error) {
	x := strconv.FormatFloat(p.X, 'g', -1, 64)
	if p.Gap {
		return []byte(`{"x":` + x + `,"y":null}`), nil
	}
	return []byte(`{"x":` + x + `,"y":` + strconv.FormatFloat(p.Y, 'g', -1, 64) + `}`), nil
}

// SampleResult is the outcome of one sweep.
type SampleResult struct {
	Points []SamplePoint `json:"points"`

	// ValidCount counts drawn points. EvaluatedCount counts points whose
	// raw evaluation succeeded, including those later dropped as jumps or
	// clamped, so a sweep that evaluated but drew nothing is distinguishable
	// from one that never evaluated.
	ValidCount     int `json:"validCount"`
	EvaluatedCount int `json:"evaluatedCount"`
	GapCount       int `json:"gapCount"`

	// NoValidPoints is set when nothing in the range can be drawn.
	NoValidPoints bool `json:"noValidPoints"`
}
