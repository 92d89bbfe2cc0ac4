package compute

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// STATISTICS REQUEST BUILDER
// ============================================================================
// The statistics endpoint takes {operation, data} for descriptive statistics
// and {operation, params} for everything else. Series travel as
// comma-separated text, the way the service reads them.
// ============================================================================

// Operation selects a statistics analysis.
type Operation string

const (
	OpDescriptive Operation = "descriptive"
	OpNormal      Operation = "normal"
	OpBinomial    Operation = "binomial"
	OpPoisson     Operation = "poisson"
	OpOneSampleT  Operation = "one_sample_t"
	OpTwoSampleT  Operation = "two_sample_t"
	OpZTest       Operation = "z_test"
	OpLinear      Operation = "linear"
	OpPolynomial  Operation = "polynomial"
	OpCorrelation Operation = "correlation"
)

const (
	defaultAlpha  = 0.05
	defaultDegree = 2
)

// Operations lists every selector value in display order.
func Operations() []Operation {
	return []Operation{
		OpDescriptive, OpNormal, OpBinomial, OpPoisson,
		OpOneSampleT, OpTwoSampleT, OpZTest,
		OpLinear, OpPolynomial, OpCorrelation,
	}
}

// ParseOperation validates a selector value.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Operations() {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown statistics operation %q", s)
}

// StatsInput holds every input any operation can take. Each operation
// reads only its own fields.
type StatsInput struct {
	Data  []float64 `yaml:"data" json:"data,omitempty"`
	Data1 []float64 `yaml:"data1" json:"data1,omitempty"`
	Data2 []float64 `yaml:"data2" json:"data2,omitempty"`
	X     []float64 `yaml:"x" json:"x,omitempty"`
	Y     []float64 `yaml:"y" json:"y,omitempty"`

	Mean   float64  `yaml:"mean" json:"mean,omitempty"`
	Std    float64  `yaml:"std" json:"std,omitempty"`
	XValue *float64 `yaml:"x_value" json:"x_value,omitempty"`

	N      int     `yaml:"n" json:"n,omitempty"`
	P      float64 `yaml:"p" json:"p,omitempty"`
	Lambda float64 `yaml:"lambda" json:"lambda,omitempty"`

	Mu0   float64 `yaml:"mu0" json:"mu0,omitempty"`
	Sigma float64 `yaml:"sigma" json:"sigma,omitempty"`
	Alpha float64 `yaml:"alpha" json:"alpha,omitempty"`

	Degree int `yaml:"degree" json:"degree,omitempty"`
}

// StatsRequest is the wire body of a statistics call.
type StatsRequest struct {
	Operation string         `json:"operation"`
	Data      string         `json:"data,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// BuildStatsRequest validates in for op and builds the request body.
func BuildStatsRequest(op Operation, in StatsInput) (StatsRequest, error) {
	switch op {
	case OpDescriptive:
		if err := minLen("data", in.Data, 2); err != nil {
			return StatsRequest{}, err
		}
		return StatsRequest{Operation: "descriptive", Data: joinSeries(in.Data)}, nil

	case OpNormal:
		if in.Std <= 0 {
			return StatsRequest{}, errors.New("normal: std must be positive")
		}
		params := map[string]any{"mean": in.Mean, "std": in.Std}
		if in.XValue != nil {
			params["x_value"] = *in.XValue
		}
		return StatsRequest{Operation: "normal_distribution", Params: params}, nil

	case OpBinomial:
		if in.N < 1 {
			return StatsRequest{}, errors.New("binomial: n must be at least 1")
		}
		if in.P < 0 || in.P > 1 {
			return StatsRequest{}, errors.New("binomial: p must be in [0, 1]")
		}
		return StatsRequest{Operation: "binomial_distribution",
			Params: map[string]any{"n": in.N, "p": in.P}}, nil

	case OpPoisson:
		if in.Lambda <= 0 {
			return StatsRequest{}, errors.New("poisson: lambda must be positive")
		}
		return StatsRequest{Operation: "poisson_distribution",
			Params: map[string]any{"lambda": in.Lambda}}, nil

	case OpOneSampleT, OpZTest:
		alpha, err := alphaOf(in.Alpha)
		if err != nil {
			return StatsRequest{}, err
		}
		if err := minLen("data", in.Data, 2); err != nil {
			return StatsRequest{}, err
		}
		params := map[string]any{
			"test_type": string(op),
			"alpha":     alpha,
			"data":      joinSeries(in.Data),
			"mu_0":      in.Mu0,
		}
		if op == OpZTest {
			if in.Sigma <= 0 {
				return StatsRequest{}, errors.New("z_test: sigma must be positive")
			}
			params["sigma"] = in.Sigma
		}
		return StatsRequest{Operation: "hypothesis_test", Params: params}, nil

	case OpTwoSampleT:
		alpha, err := alphaOf(in.Alpha)
		if err != nil {
			return StatsRequest{}, err
		}
		if err := minLen("data1", in.Data1, 2); err != nil {
			return StatsRequest{}, err
		}
		if err := minLen("data2", in.Data2, 2); err != nil {
			return StatsRequest{}, err
		}
		return StatsRequest{Operation: "hypothesis_test", Params: map[string]any{
			"test_type": string(op),
			"alpha":     alpha,
			"data1":     joinSeries(in.Data1),
			"data2":     joinSeries(in.Data2),
		}}, nil

	case OpLinear, OpPolynomial:
		if err := pairedSeries(in.X, in.Y); err != nil {
			return StatsRequest{}, err
		}
		params := map[string]any{
			"regression_type": string(op),
			"x_data":          joinSeries(in.X),
			"y_data":          joinSeries(in.Y),
		}
		if op == OpPolynomial {
			degree := in.Degree
			if degree == 0 {
				degree = defaultDegree
			}
			if degree < 1 || degree >= len(in.X) {
				return StatsRequest{}, fmt.Errorf("polynomial: degree %d needs more than %d points", degree, degree)
			}
			params["degree"] = degree
		}
		return StatsRequest{Operation: "regression", Params: params}, nil

	case OpCorrelation:
		if err := pairedSeries(in.X, in.Y); err != nil {
			return StatsRequest{}, err
		}
		return StatsRequest{Operation: "correlation", Params: map[string]any{
			"x_data": joinSeries(in.X),
			"y_data": joinSeries(in.Y),
		}}, nil
	}
	return StatsRequest{}, fmt.Errorf("unknown statistics operation %q", op)
}

func minLen(name string, s []float64, n int) error {
	if len(s) < n {
		return fmt.Errorf("%s: need at least %d values, got %d", name, n, len(s))
	}
	return nil
}

func pairedSeries(x, y []float64) error {
	if err := minLen("x", x, 2); err != nil {
		return err
	}
	if len(x) != len(y) {
		return fmt.Errorf("x and y differ in length (%d vs %d)", len(x), len(y))
	}
	return nil
}

func alphaOf(a float64) (float64, error) {
	if a == 0 {
		return defaultAlpha, nil
	}
	if a <= 0 || a >= 1 {
		return 0, fmt.Errorf("alpha must be in (0, 1), got %v", a)
	}
	return a, nil
}

// joinSeries renders values as "1, 2.5, 3".
func joinSeries(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
