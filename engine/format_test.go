package engine

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		prec int
		want string
	}{
		{"default precision", 2.0 / 3, PrecisionDefault, "0.6667"},
		{"integral precision", 1.0 / 3, PrecisionIntegral, "0.333333"},
		{"degrees", 90, PrecisionDegrees, "90.00"},
		{"negative zero", -0.00001, PrecisionDefault, "0.0000"},
		{"negative", -1.5, 1, "-1.5"},
		{"nan", math.NaN(), PrecisionDefault, "N/A"},
		{"positive infinity", math.Inf(1), PrecisionDefault, "∞"},
		{"negative infinity", math.Inf(-1), PrecisionDefault, "-∞"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFixed(tt.v, tt.prec))
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, "3", FormatNumber(3))
	assert.Equal(t, "-2.00, 2.00", FormatList([]float64{-2, 2}, 2))
	assert.Equal(t, "[1.00, -2.50, 3.00]", formatVector([]float64{1, -2.5, 3}))
	assert.Equal(t, "(3, 4)", formatPoint([]float64{3, 4}))
	assert.Equal(t, "LINE EQUATION", labelFor("line_equation"))
	assert.Equal(t, "Mixed partials", titleFor("mixed_partials"))
	assert.Equal(t, "", titleFor(""))
}

func TestScalarDecoding(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		present   bool
		isNumber  bool
		str       string
		formatted string
	}{
		{"number", `2.5`, true, true, "2.5", "2.5000"},
		{"symbolic string", `"1/3"`, true, false, "1/3", "1/3"},
		{"infinity symbol", `"oo"`, true, false, "oo", "oo"},
		{"boolean", `true`, true, false, "true", "true"},
		{"null", `null`, false, false, "N/A", "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scalar
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.present, s.Present())
			assert.Equal(t, tt.isNumber, s.IsNumber())
			assert.Equal(t, tt.str, s.String())
			assert.Equal(t, tt.formatted, s.Format(PrecisionDefault))
		})
	}

	var s Scalar
	require.NoError(t, json.Unmarshal([]byte(`" 4.25 "`), &s))
	v, ok := s.Float()
	assert.True(t, ok)
	assert.Equal(t, 4.25, v)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &s))
}

func TestSeriesGapsEncodeAsNull(t *testing.T) {
	out, err := json.Marshal(Series{1, math.NaN(), 2.5, math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, `[1,null,2.5,null]`, string(out))

	var back Series
	require.NoError(t, json.Unmarshal(out, &back))
	require.Len(t, back, 4)
	assert.Equal(t, 1.0, back[0])
	assert.True(t, math.IsNaN(back[1]))
	assert.True(t, math.IsNaN(back[3]))

	pts, err := json.Marshal([]SamplePoint{{X: 0, Y: 1}, {X: 0.5, Gap: true}})
	require.NoError(t, err)
	assert.Equal(t, `[{"x":0,"y":1},{"x":0.5,"y":null}]`, string(pts))
}

func TestBuildTable(t *testing.T) {
	out := BuildTable(FactTable{
		Title:   "Summary",
		Columns: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Mean (μ)", "3.0000"},
			{"Std Dev (σ)", "1.5811"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Summary", lines[0])
	assert.Equal(t, "  Statistic    Value", lines[1])
	assert.Equal(t, "  -----------  ------", lines[2])
	assert.Equal(t, "  Mean (μ)     3.0000", lines[3])
	assert.Equal(t, "  Std Dev (σ)  1.5811", lines[4])

	assert.Empty(t, BuildTable(FactTable{Title: "Empty", Columns: []string{"A"}}))
}

func TestBuildText(t *testing.T) {
	res, err := RenderGeometry([]byte(fixtureNamed(t, "distance")))
	require.NoError(t, err)

	out := BuildText(res)
	assert.True(t, strings.HasPrefix(out, "Coordinate Geometry\n===================\n"))
	assert.Contains(t, out, "  Operation: DISTANCE\n")
	assert.Contains(t, out, "* Distance:  5\n")
	assert.Contains(t, out, "[chart] Distance Between Points (Distance, Points)")

	res, err = RenderAlgebra([]byte(fixtureNamed(t, "three variable system")))
	require.NoError(t, err)
	assert.Contains(t, BuildText(res), "System solved (3+ variables - no visualization)")

	assert.Empty(t, BuildText(nil))
}

func TestDescribeTraces(t *testing.T) {
	assert.Equal(t, "f(x), 2 unnamed traces",
		describeTraces([]Trace{{Name: "f(x)"}, {}, {}}))
	assert.Equal(t, "1 unnamed trace", describeTraces([]Trace{{}}))
}
