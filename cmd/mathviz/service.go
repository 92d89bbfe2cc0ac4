package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/mathviz/classify"
	"github.com/spektr-org/mathviz/config"
	"github.com/spektr-org/mathviz/schema"
)

// ============================================================================
// SERVICE COMMANDS — parse and health
// ============================================================================

func newParseCmd(a *app) *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "parse <input>",
		Short: "Show how the compute service would read an input",
		Long: `Parse asks the service to run both of its parsers on a
natural-language or LaTeX input without analyzing it, so the AI and
rule-based readings can be compared.`,
		Example: `  mathviz parse "the integral of x squared from 0 to 2" -m calculus`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := classify.Classify(args[0])
			if module != "" {
				d, err := schema.ParseDomain(module)
				if err != nil {
					return fmt.Errorf("%w: %v", errUsage, err)
				}
				domain = d
			}

			res, err := a.client().Parse(cmd.Context(), args[0], domain)
			if err != nil {
				return err
			}

			if a.cfg.Output.Format != config.FormatText {
				body, err := a.encodeJSON(res)
				if err != nil {
					return err
				}
				return a.emit(cmd.Context(), body)
			}

			var buf bytes.Buffer
			fmt.Fprintf(&buf, "Input:     %s\n", res.OriginalInput)
			fmt.Fprintf(&buf, "Module:    %s\n", classify.DisplayName(domain))
			if res.AIParsing.Success {
				fmt.Fprintf(&buf, "AI:        %s\n", res.AIParsing.Result)
			} else {
				fmt.Fprintln(&buf, "AI:        (unavailable)")
			}
			fmt.Fprintf(&buf, "Fallback:  %s\n", res.FallbackParsing.Result)
			return a.emit(cmd.Context(), buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Domain context for parsing (default: detect)")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the compute service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client().Health(cmd.Context())
			if err != nil {
				return err
			}

			if a.cfg.Output.Format == config.FormatText {
				var buf bytes.Buffer
				fmt.Fprintf(&buf, "Service:   %s\n", a.cfg.Compute.BaseURL)
				fmt.Fprintf(&buf, "Status:    %s\n", h.Status)
				if h.Message != "" {
					fmt.Fprintf(&buf, "Message:   %s\n", h.Message)
				}
				fmt.Fprintf(&buf, "AI parser: %t\n", h.AIParserAvailable)
				if len(h.Features.Modules) > 0 {
					fmt.Fprintf(&buf, "Modules:   %s\n", strings.Join(h.Features.Modules, ", "))
				}
				if err := a.emit(cmd.Context(), buf.Bytes()); err != nil {
					return err
				}
			} else {
				body, err := a.encodeJSON(h)
				if err != nil {
					return err
				}
				if err := a.emit(cmd.Context(), body); err != nil {
					return err
				}
			}

			if !h.Healthy() {
				return fmt.Errorf("compute service reports status %q", h.Status)
			}
			return nil
		},
	}
}
