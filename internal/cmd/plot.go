package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fredbi/benchfig/internal/pkg/figures"
	"github.com/spf13/cobra"
)

type plotFlags struct {
	Report     bool
	Strict     bool
	DumpConfig bool
}

func (c *Command) plotCommand() *cobra.Command {
	var flags plotFlags

	cmd := &cobra.Command{
		Use:   "plot [files...]",
		Short: "Plots benchmark results as bar charts",
		Long: `Plots the benchmark results from the input files as bar charts.

Every input file is a data series. Every figure declared in the configuration
yields one chart per metric. Without any file, benchmarks are read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return c.runPlot(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Report, "report", "r", false, "report benchmark contents only, no rendering")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "fail when a figure has no data")
	cmd.Flags().BoolVar(&flags.DumpConfig, "dump-config", false, "print the effective configuration as YAML, then exit")

	return cmd
}

func (c *Command) runPlot(cmd *cobra.Command, args []string, flags plotFlags) error {
	if len(args) == 0 { // no file is provided: assume stdin
		args = append(args, stdio)
	}

	cfg, cleanup, err := c.prepareConfig(flags.Report || flags.DumpConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	if flags.DumpConfig {
		return cfg.EncodeYAML(cmd.OutOrStdout())
	}

	cfg.IsStrict = flags.Strict

	// 1. parse input benchmarks passed as CLI args
	p := c.newParser(cmd.InOrStdin())
	t0 := time.Now()
	if err := p.ParseFiles(args...); err != nil {
		return fmt.Errorf("parsing files: %w", err)
	}
	c.L.Info("parsed input benchmarks", slog.Duration("duration", time.Since(t0)))

	if flags.Report {
		// just want to report about the content of the benchmark files
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", " ")

		return enc.Encode(p.Report())
	}

	params := c.applyStyle(cfg)

	// 2. arrange the data series into the configured figures
	page, err := figures.New(cfg).Arrange(p.Sets())
	if err != nil {
		return err
	}
	c.dump("arranged figures", page)

	// 3. render the page
	return c.render(cmd.Context(), cmd.OutOrStdout(), cfg, page, params)
}
