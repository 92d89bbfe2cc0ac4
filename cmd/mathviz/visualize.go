package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/mathviz/classify"
	"github.com/spektr-org/mathviz/compute"
	"github.com/spektr-org/mathviz/schema"
)

func newVisualizeCmd(a *app) *cobra.Command {
	var (
		module  string
		useAI   bool
		raw     bool
		pngPath string
	)

	cmd := &cobra.Command{
		Use:   "visualize <expression>",
		Short: "Analyze an expression with the compute service",
		Long: `Visualize sends an expression to the compute service and renders
the returned analysis. The domain is detected from the expression unless
--module names one; geometry inputs print a hint about what will be
computed.

--raw writes the service's data object unrendered, ready for "mathviz render".`,
		Example: `  mathviz visualize "x^2 - 5x + 6 = 0" -f text
  mathviz visualize "circle((0,0), 5)" --png circle.png
  mathviz visualize "derivative of sin x" --module calculus --use-ai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expression := args[0]

			var domain schema.Domain
			if module != "" {
				d, err := schema.ParseDomain(module)
				if err != nil {
					return fmt.Errorf("%w: %v", errUsage, err)
				}
				domain = d
			} else {
				m := classify.Explain(expression)
				domain = m.Domain
				a.logger.Debug("Classified expression", "domain", domain, "rule", m.Rule)
			}
			if hint := classify.InputHint(expression, domain); hint != "" {
				fmt.Fprintf(a.stderr, "Hint: %s\n", hint)
			}

			req := compute.VisualizeRequest{LaTeX: expression, Module: domain, UseAI: a.cfg.Compute.UseAI}
			if cmd.Flags().Changed("use-ai") {
				req.UseAI = &useAI
			}

			resp, err := a.client().Visualize(cmd.Context(), req)
			if err != nil {
				return err
			}
			if pi := resp.ParsingInfo; pi != nil && pi.ParsedInput != "" && pi.ParsedInput != pi.OriginalInput {
				a.logger.Info("Service rewrote input",
					"original", pi.OriginalInput, "parsed", pi.ParsedInput, "method", pi.Method)
			}

			if raw {
				return a.emit(cmd.Context(), append([]byte(resp.Data), '\n'))
			}
			res, err := a.render(domain, resp.Data)
			if err != nil {
				return fmt.Errorf("request %s: %w", resp.RequestID, err)
			}
			return a.emitResult(cmd.Context(), res, pngPath)
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Domain to analyze in (default: detect from the expression)")
	cmd.Flags().BoolVar(&useAI, "use-ai", false, "Ask the service to use its natural-language parser")
	cmd.Flags().BoolVar(&raw, "raw", false, "Write the service payload without rendering")
	cmd.Flags().StringVar(&pngPath, "png", "", "Also write a PNG preview of the first 2-D chart")
	return cmd
}
