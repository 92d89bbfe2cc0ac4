package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/mathviz/config"
	"github.com/spektr-org/mathviz/engine"
)

func newExamplesCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List built-in quick-plot expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []engine.Example
			for _, ex := range engine.Examples() {
				if category == "" || ex.Category == category {
					list = append(list, ex)
				}
			}
			if len(list) == 0 {
				return fmt.Errorf("no examples in category %q", category)
			}

			var buf bytes.Buffer
			switch a.cfg.Output.Format {
			case config.FormatText:
				tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
				for _, ex := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", ex.Label, ex.Expression, ex.Category)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			case config.FormatCSV:
				w := csv.NewWriter(&buf)
				_ = w.Write([]string{"label", "expression", "category"})
				for _, ex := range list {
					_ = w.Write([]string{ex.Label, ex.Expression, ex.Category})
				}
				w.Flush()
				if err := w.Error(); err != nil {
					return err
				}
			default:
				body, err := a.encodeJSON(list)
				if err != nil {
					return err
				}
				buf.Write(body)
			}
			return a.emit(cmd.Context(), buf.Bytes())
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list this category (e.g. trigonometric)")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = a.stdout.Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default user config if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.NewLoader(a.logger, a.loaderOpts...).EnsureUserConfig()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, path)
				return nil
			},
		},
	)
	return cmd
}
