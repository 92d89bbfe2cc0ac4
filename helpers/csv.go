package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/spektr-org/mathviz/engine"
)

// ============================================================================
// CSV HELPER — Flattens chart descriptions and sweeps into CSV
// ============================================================================
// Consumer decides where the bytes go (file, stdout, S3).
// One row per plotted point in long form: trace,x,y,z,label.
// Gaps are written as empty cells so spreadsheets leave them blank.
// ============================================================================

// chartHeader is the column set ChartToCSV writes.
var chartHeader = []string{"trace", "x", "y", "z", "label"}

// ChartToCSV writes every point of every trace in c.
//
// Line, marker and bar traces give one row per index. Contour traces give one
// row per grid cell at (X[j], Y[i]). Full-mesh surfaces give one row per mesh
// vertex.
func ChartToCSV(c *engine.ChartDescription) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("nil chart")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(chartHeader); err != nil {
		return nil, err
	}

	for _, t := range c.Traces {
		for _, row := range traceRows(t) {
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// traceRows flattens one trace.
func traceRows(t engine.Trace) [][]string {
	var rows [][]string
	switch {
	case len(t.XGrid) > 0 && len(t.YGrid) > 0 && len(t.ZGrid) > 0:
		for i := range t.ZGrid {
			for j := range t.ZGrid[i] {
				rows = append(rows, []string{t.Name,
					cell(gridAt(t.XGrid, i, j)), cell(gridAt(t.YGrid, i, j)), cell(t.ZGrid[i][j]), ""})
			}
		}

	case len(t.ZGrid) > 0:
		for i := range t.ZGrid {
			for j := range t.ZGrid[i] {
				rows = append(rows, []string{t.Name,
					cell(at(t.X, j)), cell(at(t.Y, i)), cell(t.ZGrid[i][j]), ""})
			}
		}

	default:
		n := max(len(t.X), len(t.Y), len(t.Z))
		for i := 0; i < n; i++ {
			label := ""
			if i < len(t.Text) {
				label = t.Text[i]
			}
			z := ""
			if len(t.Z) > 0 {
				z = cell(at(t.Z, i))
			}
			rows = append(rows, []string{t.Name, cell(at(t.X, i)), cell(at(t.Y, i)), z, label})
		}
	}
	return rows
}

// SamplesToCSV writes a sweep as x,y rows. Gap points have an empty y.
func SamplesToCSV(points []engine.SamplePoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"x", "y"}); err != nil {
		return nil, err
	}
	for _, p := range points {
		y := ""
		if !p.Gap {
			y = cell(p.Y)
		}
		if err := w.Write([]string{cell(p.X), y}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// cell formats v with the shortest exact representation; NaN is a gap.
func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func at(s engine.Series, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return math.NaN()
}

func gridAt(g engine.Grid, i, j int) float64 {
	if i < len(g) {
		return at(g[i], j)
	}
	return math.NaN()
}
