package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/mathviz/classify"
	"github.com/spektr-org/mathviz/config"
)

// classification is one row of classify output.
type classification struct {
	Path        string `json:"path,omitempty"`
	Line        int    `json:"line,omitempty"`
	Expression  string `json:"expression"`
	Domain      string `json:"domain"`
	DisplayName string `json:"displayName"`
	Rule        string `json:"rule"`
	Hint        string `json:"hint,omitempty"`
}

func newClassifyCmd(a *app) *cobra.Command {
	var (
		glob string
		root string
	)

	cmd := &cobra.Command{
		Use:   "classify [expression...]",
		Short: "Route expressions to a domain",
		Long: `Classify decides which domain (algebra, calculus, geometry, vectors)
an expression belongs to and names the rule that decided it.

With --glob, every non-blank, non-comment line of the matching files is
classified; patterns support ** (e.g. "exprs/**/*.txt").`,
		Example: `  mathviz classify "x^2 - 4 = 0" "distance((0,0),(3,4))"
  mathviz classify --glob "exprs/**/*.txt" --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []classification
			for _, e := range args {
				rows = append(rows, classifyOne(e))
			}

			if glob != "" {
				matches, err := classify.ClassifyFiles(os.DirFS(root), glob)
				if err != nil {
					return err
				}
				for _, m := range matches {
					row := classifyOne(m.Expression)
					row.Path, row.Line = m.Path, m.Line
					rows = append(rows, row)
				}
				a.logger.Debug("Classified files", "pattern", glob, "expressions", len(matches))
			}

			if len(rows) == 0 {
				return fmt.Errorf("%w: give expressions or --glob", errUsage)
			}

			body, err := a.formatClassifications(rows)
			if err != nil {
				return err
			}
			return a.emit(cmd.Context(), body)
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", "Classify every line of files matching this pattern")
	cmd.Flags().StringVar(&root, "root", ".", "Directory the --glob pattern is relative to")
	return cmd
}

func classifyOne(e string) classification {
	m := classify.Explain(e)
	return classification{
		Expression:  e,
		Domain:      string(m.Domain),
		DisplayName: classify.DisplayName(m.Domain),
		Rule:        m.Rule,
		Hint:        classify.InputHint(e, m.Domain),
	}
}

func (a *app) formatClassifications(rows []classification) ([]byte, error) {
	var buf bytes.Buffer
	switch a.cfg.Output.Format {
	case config.FormatCSV:
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"path", "line", "expression", "domain", "rule"})
		for _, r := range rows {
			line := ""
			if r.Line > 0 {
				line = strconv.Itoa(r.Line)
			}
			_ = w.Write([]string{r.Path, line, r.Expression, r.Domain, r.Rule})
		}
		w.Flush()
		return buf.Bytes(), w.Error()

	case config.FormatText:
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		for _, r := range rows {
			where := ""
			if r.Path != "" {
				where = fmt.Sprintf("%s:%d  ", r.Path, r.Line)
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\n", where, r.Expression, r.DisplayName, r.Rule)
			if r.Hint != "" {
				fmt.Fprintf(tw, "  hint: %s\t\t\n", r.Hint)
			}
		}
		if err := tw.Flush(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return a.encodeJSON(rows)
	}
}
