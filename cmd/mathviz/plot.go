package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/mathviz/config"
	"github.com/spektr-org/mathviz/engine"
	"github.com/spektr-org/mathviz/expr"
	"github.com/spektr-org/mathviz/helpers"
)

// plotOutput is the JSON form of a quick plot.
type plotOutput struct {
	Expression string                   `json:"expression"`
	Rewritten  string                   `json:"rewritten"`
	Binding    engine.ParameterBinding  `json:"binding"`
	Resolution int                      `json:"resolution"`
	Valid      int                      `json:"validCount"`
	Evaluated  int                      `json:"evaluatedCount"`
	Gaps       int                      `json:"gapCount"`
	Chart      *engine.ChartDescription `json:"chart"`
	Points     []engine.SamplePoint     `json:"points,omitempty"`
}

type plotFlags struct {
	xMin, xMax float64
	amplitude  float64
	frequency  float64
	phase      float64
	shift      float64
	params     map[string]string
	paramsFile string
	resolution int
	pngPath    string
	withPoints bool
	watch      bool
}

func newPlotCmd(a *app) *cobra.Command {
	var pf plotFlags

	cmd := &cobra.Command{
		Use:   "plot <expression>",
		Short: "Sample a custom function and build its chart",
		Long: `Plot sweeps a single-variable expression across [x-min, x-max],
applying y = amplitude·f(frequency·(x − phase)) + shift, and breaks the
curve at discontinuities.

Binding values layer: the sampler range from config, then --params (a YAML
file with x_min, x_max, amplitude, frequency, phase, vertical_shift and
params), then flags given on the command line. With --watch the plot is
rebuilt every time the --params file is saved.`,
		Example: `  mathviz plot "sin(x)/x" --x-min -20 --x-max 20 -f text
  mathviz plot "a*x^2 + b" --param a=2 --param b=-1 --png parabola.png
  mathviz plot "tan(x)" --params sliders.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pf.watch && pf.paramsFile == "" {
				return fmt.Errorf("%w: --watch needs --params", errUsage)
			}
			plot := func() error {
				b, err := pf.binding(cmd, a.cfg)
				if err != nil {
					return err
				}
				return a.plot(cmd.Context(), args[0], b, pf)
			}
			if err := plot(); err != nil {
				return err
			}
			if !pf.watch {
				return nil
			}

			w, err := newParamsWatcher(pf.paramsFile, 0, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("Watching params file", "path", pf.paramsFile)
			return w.Run(cmd.Context(), plot)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&pf.xMin, "x-min", 0, "Range start (default from config)")
	f.Float64Var(&pf.xMax, "x-max", 0, "Range end (default from config)")
	f.Float64Var(&pf.amplitude, "amplitude", 1, "Vertical scale")
	f.Float64Var(&pf.frequency, "frequency", 1, "Horizontal scale applied to x")
	f.Float64Var(&pf.phase, "phase", 0, "Horizontal shift")
	f.Float64Var(&pf.shift, "shift", 0, "Vertical shift")
	f.StringToStringVar(&pf.params, "param", nil, "Named parameter, e.g. --param a=2 (repeatable)")
	f.StringVar(&pf.paramsFile, "params", "", "YAML file of binding values")
	f.IntVar(&pf.resolution, "resolution", 0, "Number of sample points (default from config)")
	f.StringVar(&pf.pngPath, "png", "", "Also write a PNG preview to this path")
	f.BoolVar(&pf.withPoints, "points", false, "Include sampled points in JSON output")
	f.BoolVarP(&pf.watch, "watch", "w", false, "Replot whenever the --params file changes")
	return cmd
}

// binding layers config, the params file and explicitly set flags.
func (pf *plotFlags) binding(cmd *cobra.Command, cfg *config.Config) (engine.ParameterBinding, error) {
	b := cfg.Binding()

	if pf.paramsFile != "" {
		data, err := os.ReadFile(pf.paramsFile)
		if err != nil {
			return b, fmt.Errorf("failed to read params file: %w", err)
		}
		if err := yaml.Unmarshal(data, &b); err != nil {
			return b, fmt.Errorf("failed to parse params file %s: %w", pf.paramsFile, err)
		}
	}

	set := cmd.Flags().Changed
	if set("x-min") {
		b.XMin = pf.xMin
	}
	if set("x-max") {
		b.XMax = pf.xMax
	}
	if set("amplitude") {
		b.Amplitude = pf.amplitude
	}
	if set("frequency") {
		b.Frequency = pf.frequency
	}
	if set("phase") {
		b.Phase = pf.phase
	}
	if set("shift") {
		b.VerticalShift = pf.shift
	}
	if len(pf.params) > 0 {
		if b.Params == nil {
			b.Params = make(map[string]float64, len(pf.params))
		}
		for name, raw := range pf.params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return b, fmt.Errorf("%w: --param %s=%q is not a number", errUsage, name, raw)
			}
			b.Params[name] = v
		}
	}
	return b, b.Validate()
}

func (a *app) plot(ctx context.Context, expression string, b engine.ParameterBinding, pf plotFlags) error {
	resolution := a.cfg.Sampler.Resolution
	if pf.resolution > 0 {
		resolution = pf.resolution
	}

	chart, res, err := engine.SampleChart(expression, b, resolution, a.engineOptions()...)
	if err != nil {
		return err
	}

	var body []byte
	switch a.cfg.Output.Format {
	case config.FormatCSV:
		body, err = helpers.SamplesToCSV(res.Points)
	case config.FormatText:
		body = plotSummary(expression, b, resolution, res)
	default:
		out := plotOutput{
			Expression: expression,
			Rewritten:  expr.Rewrite(expression).String(),
			Binding:    b,
			Resolution: resolution,
			Valid:      res.ValidCount,
			Evaluated:  res.EvaluatedCount,
			Gaps:       res.GapCount,
			Chart:      chart,
		}
		if pf.withPoints {
			out.Points = res.Points
		}
		body, err = a.encodeJSON(out)
	}
	if err != nil {
		return err
	}

	if err := a.emit(ctx, body); err != nil {
		return err
	}
	if pf.pngPath != "" {
		return a.writePreview(ctx, chart, pf.pngPath)
	}
	return nil
}

func plotSummary(expression string, b engine.ParameterBinding, resolution int, res *engine.SampleResult) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, engine.BuildFunctionLabel(expression, b))
	fmt.Fprintf(&buf, "Rewritten:  %s\n", expr.Rewrite(expression).String())
	fmt.Fprintf(&buf, "Range:      [%s, %s] at %d points\n",
		engine.FormatNumber(b.XMin), engine.FormatNumber(b.XMax), resolution)
	fmt.Fprintf(&buf, "Drawn:      %d\n", res.ValidCount)
	fmt.Fprintf(&buf, "Gaps:       %d\n", res.GapCount)
	return buf.Bytes()
}
