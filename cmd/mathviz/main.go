// Package main provides the mathviz binary entry point.
//
// mathviz classifies math expressions by domain, samples custom functions
// for quick plots, and turns compute-service analyses into facts panels and
// chart descriptions.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/spektr-org/mathviz/compute"
	"github.com/spektr-org/mathviz/config"
	"github.com/spektr-org/mathviz/engine"
	"github.com/spektr-org/mathviz/publish"
)

const (
	Version   = "0.3.0"
	BuildTime = "dev"
	appName   = "mathviz"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if compute.IsTransient(err) {
			fmt.Fprintln(os.Stderr, "The compute service may be busy or unreachable; retrying may succeed.")
		}
		stop()
		os.Exit(1)
	}
}

// ============================================================================
// APP STATE
// ============================================================================

// app carries the flags and the services every command shares. It is
// populated by the root command's PersistentPreRunE.
type app struct {
	// Flags
	configPath  string
	logLevel    string
	verbose     bool
	format      string
	outPath     string
	computeURL  string
	publish     bool
	dumpMetrics bool

	// Built in setup
	cfg            *config.Config
	logger         *slog.Logger
	registry       *prometheus.Registry
	engineMetrics  *engine.Metrics
	computeMetrics *compute.Metrics
	stdout         io.Writer
	stderr         io.Writer

	// Test seams
	loaderOpts  []config.LoaderOption
	newUploader func(ctx context.Context, cfg config.PublishConfig, logger *slog.Logger) (*publish.Uploader, error)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Math expression classification, sampling and visualization",
		Long: `mathviz routes math expressions to a domain (algebra, calculus,
geometry, vectors), samples custom functions with discontinuity detection,
and renders compute-service analyses into facts panels and chart
descriptions.

Configuration is layered: defaults, ~/.config/mathviz/config.yaml,
mathviz.yaml in the working directory or a parent, then --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.dumpMetrics {
				return a.writeMetrics()
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	f.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	f.StringVarP(&a.format, "format", "f", "", "Output format: json, pretty, text, csv")
	f.StringVarP(&a.outPath, "out", "o", "", "Write output to file instead of stdout")
	f.StringVar(&a.computeURL, "compute-url", "", "Compute service base URL")
	f.BoolVar(&a.publish, "publish", false, "Upload the output to the configured S3 bucket")
	f.BoolVar(&a.dumpMetrics, "metrics", false, "Print Prometheus metrics to stderr on exit")

	cmd.AddCommand(
		newClassifyCmd(a),
		newPlotCmd(a),
		newRenderCmd(a),
		newVisualizeCmd(a),
		newStatsCmd(a),
		newParseCmd(a),
		newHealthCmd(a),
		newExamplesCmd(a),
		newConfigCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger
// and metrics registry.
func (a *app) setup(cmd *cobra.Command) error {
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()

	bootstrap := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(bootstrap, a.loaderOpts...).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.computeURL != "" {
		cfg.Compute.BaseURL = a.computeURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	a.registry = prometheus.NewRegistry()
	a.engineMetrics = engine.NewMetrics(a.registry)
	a.computeMetrics = compute.NewMetrics(a.registry)

	if a.newUploader == nil {
		a.newUploader = func(ctx context.Context, p config.PublishConfig, logger *slog.Logger) (*publish.Uploader, error) {
			return publish.New(ctx, p.Bucket, p.Region, publish.WithPrefix(p.Prefix), publish.WithLogger(logger))
		}
	}
	return nil
}

// engineOptions returns the options every engine call takes.
func (a *app) engineOptions() []engine.Option {
	opts := []engine.Option{engine.WithLogger(a.logger), engine.WithMetrics(a.engineMetrics)}
	return append(opts, a.cfg.SamplerOptions()...)
}

// client builds a compute client from configuration.
func (a *app) client() *compute.Client {
	opts := append(a.cfg.ClientOptions(),
		compute.WithLogger(a.logger),
		compute.WithMetrics(a.computeMetrics))
	return compute.NewClient(a.cfg.Compute.BaseURL, opts...)
}

// writeMetrics prints every gathered family in the text exposition format.
func (a *app) writeMetrics() error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.stderr, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// errUsage marks invalid flag combinations.
var errUsage = errors.New("invalid usage")
