package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/mathviz/compute"
	"github.com/spektr-org/mathviz/config"
	"github.com/spektr-org/mathviz/dataset"
	"github.com/spektr-org/mathviz/schema"
)

type statsFlags struct {
	inputFile string

	// Series as number lists
	data, data1, data2 string
	x, y               string

	// Series from a CSV file
	csvPath  string
	column   string
	data1Col string
	data2Col string
	xCol     string
	yCol     string
	discover bool

	mean, std, xValue float64
	n                 int
	p, lambda         float64
	mu0, sigma, alpha float64
	degree            int

	pngPath string
}

func newStatsCmd(a *app) *cobra.Command {
	var sf statsFlags

	ops := make([]string, 0, len(compute.Operations()))
	for _, op := range compute.Operations() {
		ops = append(ops, string(op))
	}

	cmd := &cobra.Command{
		Use:   "stats <operation>",
		Short: "Run a statistics analysis with the compute service",
		Long: `Stats runs one statistics operation and renders the result.

Operations: ` + strings.Join(ops, ", ") + `

Series come from number lists (--data "1, 2, 3"), from columns of a CSV file
(--csv scores.csv --column score), or from a YAML --input file holding any
of data, data1, data2, x, y, mean, std, x_value, n, p, lambda, mu0, sigma,
alpha and degree. Flags override the input file.

--discover lists the CSV's columns and which of them hold numbers.`,
		Example: `  mathviz stats descriptive --data "4, 8, 15, 16, 23, 42" -f text
  mathviz stats normal --mean 100 --std 15 --x-value 130
  mathviz stats linear --csv study.csv --x-col hours --y-col score
  mathviz stats two_sample_t --csv trial.csv --data1-col control --data2-col treated
  mathviz stats descriptive --csv trial.csv --discover`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sf.discover {
				return a.discoverColumns(cmd, sf.csvPath)
			}

			op, err := compute.ParseOperation(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v (want one of %s)", errUsage, err, strings.Join(ops, ", "))
			}
			in, err := sf.input(cmd)
			if err != nil {
				return err
			}
			req, err := compute.BuildStatsRequest(op, in)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}

			resp, err := a.client().Statistics(cmd.Context(), req)
			if err != nil {
				return err
			}
			res, err := a.render(schema.Statistics, resp.Data)
			if err != nil {
				return fmt.Errorf("request %s: %w", resp.RequestID, err)
			}
			return a.emitResult(cmd.Context(), res, sf.pngPath)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sf.inputFile, "input", "", "YAML file of operation inputs")
	f.StringVar(&sf.data, "data", "", "Sample values, e.g. \"1, 2, 3\"")
	f.StringVar(&sf.data1, "data1", "", "First sample (two_sample_t)")
	f.StringVar(&sf.data2, "data2", "", "Second sample (two_sample_t)")
	f.StringVar(&sf.x, "x", "", "Independent values (linear, polynomial, correlation)")
	f.StringVar(&sf.y, "y", "", "Dependent values (linear, polynomial, correlation)")
	f.StringVar(&sf.csvPath, "csv", "", "CSV file to read series from")
	f.StringVar(&sf.column, "column", "", "CSV column for --data")
	f.StringVar(&sf.data1Col, "data1-col", "", "CSV column for --data1")
	f.StringVar(&sf.data2Col, "data2-col", "", "CSV column for --data2")
	f.StringVar(&sf.xCol, "x-col", "", "CSV column for --x")
	f.StringVar(&sf.yCol, "y-col", "", "CSV column for --y")
	f.BoolVar(&sf.discover, "discover", false, "List the columns of --csv and exit")
	f.Float64Var(&sf.mean, "mean", 0, "Distribution mean (normal)")
	f.Float64Var(&sf.std, "std", 0, "Standard deviation (normal)")
	f.Float64Var(&sf.xValue, "x-value", 0, "Point to evaluate (normal)")
	f.IntVar(&sf.n, "n", 0, "Number of trials (binomial)")
	f.Float64Var(&sf.p, "p", 0, "Success probability (binomial)")
	f.Float64Var(&sf.lambda, "lambda", 0, "Rate (poisson)")
	f.Float64Var(&sf.mu0, "mu0", 0, "Hypothesized mean (one_sample_t, z_test)")
	f.Float64Var(&sf.sigma, "sigma", 0, "Known population deviation (z_test)")
	f.Float64Var(&sf.alpha, "alpha", 0, "Significance level (default 0.05)")
	f.IntVar(&sf.degree, "degree", 0, "Polynomial degree (default 2)")
	f.StringVar(&sf.pngPath, "png", "", "Also write a PNG preview of the first 2-D chart")
	return cmd
}

// input layers the --input file, number lists, CSV columns and scalar flags.
func (sf *statsFlags) input(cmd *cobra.Command) (compute.StatsInput, error) {
	var in compute.StatsInput

	if sf.inputFile != "" {
		data, err := os.ReadFile(sf.inputFile)
		if err != nil {
			return in, fmt.Errorf("failed to read input file: %w", err)
		}
		if err := yaml.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("failed to parse input file %s: %w", sf.inputFile, err)
		}
	}

	lists := []struct {
		flag string
		raw  string
		dst  *[]float64
	}{
		{"data", sf.data, &in.Data},
		{"data1", sf.data1, &in.Data1},
		{"data2", sf.data2, &in.Data2},
		{"x", sf.x, &in.X},
		{"y", sf.y, &in.Y},
	}
	for _, l := range lists {
		if l.raw == "" {
			continue
		}
		vs, err := dataset.ParseNumberList(l.raw)
		if err != nil {
			return in, fmt.Errorf("%w: --%s: %v", errUsage, l.flag, err)
		}
		*l.dst = vs
	}

	if err := sf.csvSeries(&in); err != nil {
		return in, err
	}

	set := cmd.Flags().Changed
	if set("mean") {
		in.Mean = sf.mean
	}
	if set("std") {
		in.Std = sf.std
	}
	if set("x-value") {
		v := sf.xValue
		in.XValue = &v
	}
	if set("n") {
		in.N = sf.n
	}
	if set("p") {
		in.P = sf.p
	}
	if set("lambda") {
		in.Lambda = sf.lambda
	}
	if set("mu0") {
		in.Mu0 = sf.mu0
	}
	if set("sigma") {
		in.Sigma = sf.sigma
	}
	if set("alpha") {
		in.Alpha = sf.alpha
	}
	if set("degree") {
		in.Degree = sf.degree
	}
	return in, nil
}

// csvSeries fills series from the named CSV columns. x and y are read
// row-aligned so pairs stay together.
func (sf *statsFlags) csvSeries(in *compute.StatsInput) error {
	named := sf.column != "" || sf.data1Col != "" || sf.data2Col != "" || sf.xCol != "" || sf.yCol != ""
	if sf.csvPath == "" {
		if named {
			return fmt.Errorf("%w: column flags need --csv", errUsage)
		}
		return nil
	}
	if !named {
		return fmt.Errorf("%w: --csv needs --column, --data1-col/--data2-col or --x-col/--y-col", errUsage)
	}

	raw, err := os.ReadFile(sf.csvPath)
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}
	table, err := dataset.DiscoverColumns(raw)
	if err != nil {
		return err
	}

	singles := []struct {
		name string
		dst  *[]float64
	}{
		{sf.column, &in.Data},
		{sf.data1Col, &in.Data1},
		{sf.data2Col, &in.Data2},
	}
	for _, s := range singles {
		if s.name == "" {
			continue
		}
		vs, err := table.Series(s.name)
		if err != nil {
			return err
		}
		*s.dst = vs
	}

	if (sf.xCol == "") != (sf.yCol == "") {
		return fmt.Errorf("%w: --x-col and --y-col go together", errUsage)
	}
	if sf.xCol != "" {
		pair, err := table.Aligned(sf.xCol, sf.yCol)
		if err != nil {
			return err
		}
		in.X, in.Y = pair[0], pair[1]
	}
	return nil
}

// columnSummary is one row of --discover output.
type columnSummary struct {
	Header  string `json:"header"`
	Key     string `json:"key"`
	Values  int    `json:"values"`
	Nulls   int    `json:"nulls"`
	Integer bool   `json:"integer"`
	Usable  bool   `json:"usable"`
	Reason  string `json:"reason,omitempty"`
}

func (a *app) discoverColumns(cmd *cobra.Command, path string) error {
	if path == "" {
		return fmt.Errorf("%w: --discover needs --csv", errUsage)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}
	table, err := dataset.DiscoverColumns(raw)
	if err != nil {
		return err
	}

	rows := make([]columnSummary, len(table.Columns))
	for i, c := range table.Columns {
		rows[i] = columnSummary{
			Header:  c.Header,
			Key:     c.Key,
			Values:  len(c.Values),
			Nulls:   c.NullCount,
			Integer: c.Integer,
			Usable:  c.Usable,
			Reason:  c.SkipReason,
		}
	}
	a.logger.Debug("Discovered columns", "path", path, "rows", table.Rows, "columns", len(rows))

	var body []byte
	if a.cfg.Output.Format == config.FormatText {
		var buf bytes.Buffer
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COLUMN\tVALUES\tNULLS\tUSABLE\tNOTE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%t\t%s\n", r.Header, r.Values, r.Nulls, r.Usable, r.Reason)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		body = buf.Bytes()
	} else {
		body, err = a.encodeJSON(rows)
		if err != nil {
			return err
		}
	}
	return a.emit(cmd.Context(), body)
}
