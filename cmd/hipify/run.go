package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/hipifygo/hipify/internal/config"
	"github.com/hipifygo/hipify/internal/diagnose"
	"github.com/hipifygo/hipify/internal/driver"
	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/obslog"
	"github.com/hipifygo/hipify/internal/rename"
	"github.com/hipifygo/hipify/internal/stats"
)

func runCmd() *cobra.Command {
	var (
		output        string
		inplace       bool
		noBackup      bool
		noOutput      bool
		printStats    bool
		statsCSVPath  string
		examine       bool
		showDiff      bool
		noColor       bool
		metricsAddr   string
		extraMappings []string
		jobs          int
	)

	cmd := &cobra.Command{
		Use:   "run <file...>",
		Short: "Translate one or more CUDA source files into HIP source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := driver.Options{
				Output:       output,
				InPlace:      inplace,
				NoBackup:     noBackup,
				NoOutput:     noOutput,
				PrintStats:   printStats,
				StatsCSVPath: statsCSVPath,
				Examine:      examine,
				Diff:         showDiff,
				NoColor:      noColor,
				Jobs:         jobs,
			}

			return runTranslate(cmd.Context(), args, opts, metricsAddr, extraMappings)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (forbidden with multiple inputs or --inplace/--no-output)")
	cmd.Flags().BoolVar(&inplace, "inplace", false, "overwrite input; back up to <src>.prehip unless -no-backup")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the .prehip backup copy in -inplace mode")
	cmd.Flags().BoolVar(&noOutput, "no-output", false, "discard translated output (analysis only)")
	cmd.Flags().BoolVar(&printStats, "print-stats", false, "emit per-file and aggregate stats to stderr")
	cmd.Flags().StringVar(&statsCSVPath, "o-stats", "", "also emit stats as CSV to this file")
	cmd.Flags().BoolVar(&examine, "examine", false, "shorthand for -no-output -print-stats")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a preview diff of the translation to stderr")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable diagnostic colorization")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve OTel counters over /metrics at this address (e.g. :9090)")
	cmd.Flags().StringSliceVar(&extraMappings, "extra-mappings", nil, "YAML rename-table extension files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "number of files to translate concurrently (1: sequential)")

	return cmd
}

func runTranslate(ctx context.Context, files []string, opts driver.Options, metricsAddr string, extraMappings []string) error {
	if err := opts.Normalize(len(files)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.ListenAddr
	}

	logger := obslog.New(obslog.ParseLevel(cfg.Logging.Level), "cli")
	logger.Debug("starting translation", "files", len(files))

	tables := rename.Load()
	if cfg.Resources.RuntimeHeader != "" {
		tables.RuntimeHeader = cfg.Resources.RuntimeHeader
	}

	for _, path := range append(append([]string{}, cfg.Rename.ExtensionPaths...), extraMappings...) {
		if err := tables.LoadExtension(path); err != nil {
			return fmt.Errorf("load rename extension %s: %w", path, err)
		}
	}

	parser, err := frontend.NewParser()
	if err != nil {
		return fmt.Errorf("init front end: %w", err)
	}

	instruments, stopMetrics, err := setupMetrics(metricsAddr)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	if stopMetrics != nil {
		defer stopMetrics()
	}

	diag := diagnose.New(os.Stderr, opts.NoColor)

	drv := driver.New(tables, parser, diag, instruments, opts)

	result, err := drv.Run(ctx, files)
	if err != nil {
		return err
	}

	if opts.PrintStats {
		printStats(result.Counters)
	}

	if opts.StatsCSVPath != "" {
		if err := writeStatsCSV(opts.StatsCSVPath, result.Counters); err != nil {
			return fmt.Errorf("write stats csv: %w", err)
		}
	}

	if result.FailureCount > 0 {
		os.Exit(result.FailureCount)
	}

	return nil
}

func printStats(counters []*stats.Counters) {
	for _, c := range counters {
		stats.WriteTable(os.Stderr, c.SrcName, c.Rows(), c.BytesChanged())
	}

	if len(counters) > 1 {
		report := stats.Aggregate(counters)
		stats.WriteTable(os.Stderr, "(all files)", report.Total, sumBytes(counters))
	}
}

func sumBytes(counters []*stats.Counters) int {
	total := 0
	for _, c := range counters {
		total += c.BytesChanged()
	}

	return total
}

func writeStatsCSV(path string, counters []*stats.Counters) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report := stats.Aggregate(counters)

	return stats.WriteCSV(f, report.Files)
}

// setupMetrics wires the Statistics Collector's counters to real OTel
// instruments and, when addr is non-empty, serves them over /metrics for
// Prometheus to scrape during a batch run, grounded on
// pkg/observability/metrics.go's RED-metrics pattern scoped down to
// counters only (see DESIGN.md).
func setupMetrics(addr string) (*stats.Instruments, func(), error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("hipify")

	instruments, err := stats.NewInstruments(meter)
	if err != nil {
		return nil, nil, err
	}

	if addr == "" {
		return instruments, nil, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe()
	}()

	stop := func() {
		_ = srv.Close()
	}

	return instruments, stop, nil
}
