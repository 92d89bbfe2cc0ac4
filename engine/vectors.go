package engine

import (
	"fmt"
	"math"
	"strconv"
)

// ============================================================================
// VECTORS RENDERER
// ============================================================================

type vectorPlot struct {
	Vectors []struct {
		Origin []float64 `json:"origin"`
		Vector []float64 `json:"vector"`
		Label  string    `json:"label"`
		Color  string    `json:"color"`
	} `json:"vectors"`
}

type vectorPayload struct {
	Vector       []float64   `json:"vector"`
	Magnitude    float64     `json:"magnitude"`
	UnitVector   []float64   `json:"unit_vector"`
	Vector1      []float64   `json:"vector1"`
	Vector2      []float64   `json:"vector2"`
	DotProduct   float64     `json:"dot_product"`
	CrossProduct []float64   `json:"cross_product"`
	AngleDegrees float64     `json:"angle_degrees"`
	AngleRadians float64     `json:"angle_radians"`
	Vectors      [][]float64 `json:"vectors"`
	PlotData     vectorPlot  `json:"plot_data"`
}

func renderVectors(typ string, raw []byte) (*Result, error) {
	var p vectorPayload
	if err := decodeInto(raw, &p); err != nil {
		return nil, err
	}

	f := newFacts("3D Vectors")
	switch typ {
	case "vector_single":
		f.add("Vector", formatVector(p.Vector))
		f.headline("Magnitude", FormatFixed(p.Magnitude, PrecisionVector))
		f.add("Unit Vector", formatVector(p.UnitVector))
	case "vector_pair":
		f.add("Vector 1", formatVector(p.Vector1))
		f.add("Vector 2", formatVector(p.Vector2))
		f.headline("Dot Product", FormatFixed(p.DotProduct, PrecisionVector))
		f.add("Cross Product", formatVector(p.CrossProduct))
		f.add("Angle", fmt.Sprintf("%s° (%s rad)",
			FormatFixed(p.AngleDegrees, PrecisionDegrees), FormatFixed(p.AngleRadians, PrecisionVector)))
	case "vector_multiple":
		f.add("Count", strconv.Itoa(len(p.Vectors)))
		t := FactTable{Title: "Vectors", Columns: []string{"Vector", "Components", "Magnitude"}}
		for i, v := range p.Vectors {
			t.Rows = append(t.Rows, []string{
				fmt.Sprintf("v%d", i+1), formatVector(v), FormatFixed(norm(v), PrecisionVector),
			})
		}
		f.table(t)
	default:
		return nil, &UnknownTypeError{Type: typ}
	}

	return &Result{Facts: f.build(), Charts: []ChartDescription{*vectorChart(p.PlotData)}}, nil
}

// vectorChart draws each vector as a segment from its origin to its tip.
func vectorChart(pd vectorPlot) *ChartDescription {
	c := newChart3D("3D Vector Visualization", true)
	for _, v := range pd.Vectors {
		origin := v.Origin
		if len(origin) < 3 {
			origin = []float64{0, 0, 0}
		}
		tip := make([]float64, 3)
		for i := range tip {
			if i < len(v.Vector) {
				tip[i] = origin[i] + v.Vector[i]
			} else {
				tip[i] = origin[i]
			}
		}
		color := v.Color
		if color == "" {
			color = accentColor
		}
		t := line3D(v.Label, Series{origin[0], tip[0]}, Series{origin[1], tip[1]}, Series{origin[2], tip[2]}, color, 6)
		t.Mode = ModeLinesMarkers
		t.MarkerSize = 8
		c.add(t)
	}
	return c
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
