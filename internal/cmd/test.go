package cmd

import (
	"github.com/fredbi/benchfig/internal/pkg/figures"
	"github.com/spf13/cobra"
)

func (c *Command) testCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Renders a style test page",
		Long: `Renders a page with synthetic data, as a vertical and a horizontal bar chart.

Use it to check the font settings before plotting real benchmarks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			cfg, cleanup, err := c.prepareConfig(false)
			if err != nil {
				return err
			}
			defer cleanup()

			params := c.applyStyle(cfg)
			page := figures.TestPattern(params)

			return c.render(cmd.Context(), cmd.OutOrStdout(), cfg, page, params)
		},
	}
}
