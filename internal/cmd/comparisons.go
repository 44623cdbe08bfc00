package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/fredbi/benchfig/internal/pkg/comparisons"
	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/spf13/cobra"
)

// ErrRegression is returned by the comparisons command when asked to fail on regressions.
var ErrRegression = errors.New("benchmarks regressed")

type comparisonsFlags struct {
	Baseline         string
	Metric           string
	Threshold        float64
	ReportJSON       bool
	FailOnRegression bool
	NoColor          bool
}

func (c *Command) comparisonsCommand() *cobra.Command {
	var flags comparisonsFlags

	cmd := &cobra.Command{
		Use:   "comparisons --baseline FILE [files...]",
		Short: "Compares benchmark results against a baseline",
		Long: `Compares the benchmark results from the input files against a baseline.

Benchmarks are matched by name, ignoring the GOMAXPROCS suffix. Repeated runs are averaged.
A change within the threshold is reported as unchanged.

The comparison table is written to standard output. When an output file is set,
a chart of the changes is rendered there as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return c.runComparisons(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Baseline, "baseline", "b", "", "baseline benchmark file (required)")
	f.StringVarP(&flags.Metric, "metric", "m", "", "compared metric (defaults to the config, then to nsPerOp)")
	f.Float64VarP(&flags.Threshold, "threshold", "t", 0, "noise band in percent (defaults to the config, then to 5)")
	f.BoolVar(&flags.ReportJSON, "report-json", false, "report as JSON instead of a table")
	f.BoolVar(&flags.FailOnRegression, "fail-on-regression", false, "exit with an error when any benchmark regressed")
	f.BoolVar(&flags.NoColor, "no-color", false, "disable colors in the table")

	return cmd
}

func (c *Command) runComparisons(cmd *cobra.Command, args []string, flags comparisonsFlags) error {
	if flags.Baseline == "" {
		return comparisons.ErrNoBaseline
	}

	if len(args) == 0 { // no file is provided: assume stdin
		args = append(args, stdio)
	}

	for _, arg := range args {
		if arg == stdio && flags.Baseline == stdio {
			return errors.New("baseline and candidates cannot both be read from standard input")
		}
	}

	// render a chart only when an output file is set: the table owns stdout
	noRender := c.OutputFile == "" || c.OutputFile == stdio

	cfg, cleanup, err := c.prepareConfig(noRender)
	if err != nil {
		return err
	}
	defer cleanup()

	metric, threshold, err := c.resolveComparison(cmd, cfg, flags)
	if err != nil {
		return err
	}

	// 1. parse baseline and candidates
	stdin := cmd.InOrStdin()
	baseParser := c.newParser(stdin)
	if err = baseParser.ParseFiles(flags.Baseline); err != nil {
		return fmt.Errorf("parsing baseline: %w", err)
	}

	candParser := c.newParser(stdin)
	if err = candParser.ParseFiles(args...); err != nil {
		return fmt.Errorf("parsing files: %w", err)
	}

	// 2. compare
	baseline := baseParser.Sets()[0]
	if cfg.Environment != "" {
		baseline.Environment = cfg.Environment
	}

	result, err := comparisons.New(
		comparisons.WithMetric(metric.ID),
		comparisons.WithThreshold(threshold),
	).Compare(&baseline, candParser.Sets()...)
	if err != nil {
		return err
	}
	c.dump("comparison result", result)

	// 3. report
	out := cmd.OutOrStdout()
	if flags.ReportJSON {
		err = result.WriteJSON(out)
	} else {
		err = result.WriteText(out, !flags.NoColor && !color.NoColor)
	}
	if err != nil {
		return err
	}

	if !noRender {
		params := c.applyStyle(cfg)
		page := result.Page(cfg.Name, metric)

		if err = c.render(cmd.Context(), out, cfg, page, params); err != nil {
			return err
		}
	}

	if flags.FailOnRegression && result.HasRegressions() {
		return fmt.Errorf("%w: %d benchmarks above the %v%% threshold", ErrRegression, result.Summary.Regressed, threshold)
	}

	return nil
}

// resolveComparison picks the metric and the threshold from the flags, then from the configuration.
func (c *Command) resolveComparison(cmd *cobra.Command, cfg *config.Config, flags comparisonsFlags) (config.Metric, float64, error) {
	metricID := config.MetricNsPerOp
	switch {
	case flags.Metric != "":
		metricID = config.MetricName(flags.Metric)
	case cfg.Comparisons.Metric != "":
		metricID = cfg.Comparisons.Metric
	}

	if !metricID.IsValid() {
		return config.Metric{}, 0, fmt.Errorf("%w: unknown metric %q, expected one of %v", config.ErrConfig, metricID, config.AllMetricNames())
	}

	metric, ok := cfg.GetMetric(metricID)
	if !ok {
		metric = config.Metric{ID: metricID, Title: metricID.String()}
	}

	threshold := cfg.Comparisons.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = flags.Threshold
	}
	if threshold < 0 {
		return config.Metric{}, 0, fmt.Errorf("%w: threshold must not be negative: %v", config.ErrConfig, threshold)
	}

	c.L.Debug("comparison settings", slog.String("metric", metricID.String()), slog.Float64("threshold", threshold))

	return metric, threshold, nil
}
