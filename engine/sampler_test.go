package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleResolutionAndRange(t *testing.T) {
	res, err := Sample("sin(x)", DefaultBinding(), DefaultResolution)
	require.NoError(t, err)
	require.Len(t, res.Points, DefaultResolution)
	assert.Equal(t, -10.0, res.Points[0].X)
	assert.Equal(t, 10.0, res.Points[len(res.Points)-1].X)
	assert.Equal(t, DefaultResolution, res.ValidCount+res.GapCount)
	assert.False(t, res.NoValidPoints)
}

func TestSampleTangentBreaksAtAsymptote(t *testing.T) {
	res, err := Sample("tan(x)", DefaultBinding(), DefaultResolution)
	require.NoError(t, err)

	gapNearAsymptote := false
	for _, p := range res.Points {
		if p.Gap && math.Abs(p.X-math.Pi/2) < 0.05 {
			gapNearAsymptote = true
		}
	}
	assert.True(t, gapNearAsymptote, "expected a gap near π/2")

	for i := 1; i < len(res.Points); i++ {
		a, b := res.Points[i-1], res.Points[i]
		if a.Gap || b.Gap {
			continue
		}
		assert.LessOrEqual(t, math.Abs(b.Y-a.Y), DefaultDiscontinuityThreshold,
			"adjacent drawn points at x=%v and x=%v", a.X, b.X)
	}
}

func TestSampleParabolaCrossesZero(t *testing.T) {
	b := DefaultBinding()
	b.XMin, b.XMax = -5, 5
	res, err := Sample("x^2 - 4", b, 1001)
	require.NoError(t, err)
	assert.Zero(t, res.GapCount)

	var crossings []float64
	for i := 1; i < len(res.Points); i++ {
		a, c := res.Points[i-1], res.Points[i]
		if a.Y == 0 {
			crossings = append(crossings, a.X)
			continue
		}
		if a.Y*c.Y < 0 {
			crossings = append(crossings, (a.X+c.X)/2)
		}
	}
	require.Len(t, crossings, 2)
	assert.InDelta(t, -2, crossings[0], 0.02)
	assert.InDelta(t, 2, crossings[1], 0.02)
}

func TestSampleNoValidPoints(t *testing.T) {
	res, err := Sample("sqrt(-1-x^2)", DefaultBinding(), 101)
	require.NoError(t, err)
	assert.True(t, res.NoValidPoints)
	assert.Zero(t, res.ValidCount)
	assert.Zero(t, res.EvaluatedCount)
	assert.Equal(t, 101, res.GapCount)

	chart, swept, err := SampleChart("sqrt(-1-x^2)", DefaultBinding(), 101)
	assert.Nil(t, chart)
	assert.NotNil(t, swept)
	assert.True(t, errors.Is(err, ErrNoValidPoints))
}

func TestSampleEvaluatedButSuppressed(t *testing.T) {
	res, err := Sample("10000000 + x", DefaultBinding(), 11)
	require.NoError(t, err)
	assert.True(t, res.NoValidPoints)
	assert.Equal(t, 11, res.EvaluatedCount)
}

func TestSampleIsIdempotent(t *testing.T) {
	b := DefaultBinding()
	b.Amplitude, b.Frequency, b.Phase = 2, 3, 0.5
	first, err := Sample("tan(x) + 1/x", b, 501)
	require.NoError(t, err)
	second, err := Sample("tan(x) + 1/x", b, 501)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampleAppliesTransforms(t *testing.T) {
	tests := []struct {
		name    string
		binding ParameterBinding
		want    []float64
	}{
		{
			name:    "amplitude and shift",
			binding: ParameterBinding{XMin: 0, XMax: 4, Amplitude: 2, Frequency: 1, VerticalShift: 1},
			want:    []float64{1, 3, 5, 7, 9},
		},
		{
			name:    "frequency and phase",
			binding: ParameterBinding{XMin: 0, XMax: 4, Amplitude: 1, Frequency: 2, Phase: 1},
			want:    []float64{-2, 0, 2, 4, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Sample("x", tt.binding, 5)
			require.NoError(t, err)
			got := make([]float64, len(res.Points))
			for i, p := range res.Points {
				require.False(t, p.Gap)
				got[i] = p.Y
			}
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestSampleBindsParameters(t *testing.T) {
	b := ParameterBinding{XMin: 0, XMax: 2, Amplitude: 1, Frequency: 1, Params: map[string]float64{"a": 3}}
	res, err := Sample("a*x", b, 3)
	require.NoError(t, err)
	assert.Equal(t, 6.0, res.Points[2].Y)
}

func TestSampleOptions(t *testing.T) {
	b := ParameterBinding{XMin: 0, XMax: 10, Amplitude: 1, Frequency: 1}

	res, err := Sample("x", b, 11, WithClamp(5))
	require.NoError(t, err)
	assert.Equal(t, 5, res.ValidCount)

	res, err = Sample("x", b, 11, WithDiscontinuityThreshold(0.5))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ValidCount)
	assert.Equal(t, 11, res.EvaluatedCount)
}

func TestSampleRejectsBadInput(t *testing.T) {
	_, err := Sample("  ", DefaultBinding(), 10)
	assert.ErrorIs(t, err, ErrEmptyExpression)

	_, err = Sample("x", DefaultBinding(), 1)
	assert.Error(t, err)

	b := DefaultBinding()
	b.XMin, b.XMax = 3, 3
	_, err = Sample("x", b, 10)
	assert.Error(t, err)

	b = DefaultBinding()
	b.Amplitude = math.NaN()
	_, err = Sample("x", b, 10)
	assert.Error(t, err)
}

func TestSampleChart(t *testing.T) {
	chart, res, err := SampleChart("1/x", DefaultBinding(), 2001)
	require.NoError(t, err)
	require.Len(t, chart.Traces, 1)

	tr := chart.Traces[0]
	assert.Equal(t, "Custom Function Graph", chart.Title)
	assert.Equal(t, "y = f(x)   [1/x]", tr.Name)
	assert.Equal(t, accentColor, tr.Color)
	require.Len(t, tr.Y, len(res.Points))
	for i, p := range res.Points {
		if p.Gap {
			assert.True(t, math.IsNaN(tr.Y[i]))
		}
	}
}

func TestSampleRecordsMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	_, err := Sample("x", DefaultBinding(), 11, WithMetrics(m))
	require.NoError(t, err)
	_, err = Sample("ln(-1-x^2)", DefaultBinding(), 11, WithMetrics(m))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sweeps.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sweeps.WithLabelValues("no_valid_points")))
}

func TestBuildFunctionLabel(t *testing.T) {
	tests := []struct {
		name string
		b    ParameterBinding
		want string
	}{
		{"identity", DefaultBinding(), "y = f(x)   [sin(x)]"},
		{"all transforms", ParameterBinding{Amplitude: 2, Frequency: 3, Phase: 1, VerticalShift: 4},
			"y = 2·f(3(x - 1)) + 4   [sin(x)]"},
		{"negated with negative phase", ParameterBinding{Amplitude: -1, Frequency: 1, Phase: -2},
			"y = -f(x + 2)   [sin(x)]"},
		{"frequency and downward shift", ParameterBinding{Amplitude: 1, Frequency: 2, VerticalShift: -1.5},
			"y = f(2x) - 1.5   [sin(x)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFunctionLabel("sin(x)", tt.b))
		})
	}
}

func TestExamplesReturnsCopy(t *testing.T) {
	ex := Examples()
	require.NotEmpty(t, ex)
	ex[0].Expression = "changed"
	assert.NotEqual(t, "changed", Examples()[0].Expression)

	for _, e := range Examples() {
		res, err := Sample(e.Expression, DefaultBinding(), 201)
		require.NoError(t, err, e.Label)
		assert.False(t, res.NoValidPoints, e.Label)
	}
}
