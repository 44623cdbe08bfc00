// Package cmd owns the implementation details of the CLI commands.
package cmd

import (
	"log/slog"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// Command holds the flags shared by all subcommands.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files.
//
// All other invoked functionalities deal with streams, except the benchmark parser which may collect several files
// directly.
type Command struct {
	Config      string
	OutputFile  string
	IsJSON      bool
	Environment string
	Png         bool
	FontSize    int
	Verbose     bool
	L           *slog.Logger

	configSet   bool // the config flag was set explicitly
	fontSizeSet bool // the font-size flag was set explicitly
}

// NewCommand builds the root CLI command, with its subcommands and flags.
func NewCommand() *cobra.Command {
	cli := &Command{
		L: slog.Default().With(slog.String("module", "main")),
	}

	root := &cobra.Command{
		Use:   "benchfig",
		Short: "Renders go benchmark results as charts",
		Long: `benchfig renders the output of "go test -bench" as bar charts.

Charts are rendered as an HTML page, optionally captured as a PNG image.
The same font settings apply to every chart: use the "test" command to check them.`,
		PersistentPreRun: cli.setup,
	}

	cli.registerFlags(root)

	commands := newRegistry()
	commands.register("plot", cli.plotCommand)
	commands.register("comparisons", cli.comparisonsCommand)
	commands.register("test", cli.testCommand)
	commands.attach(root)

	return root
}

func (c *Command) registerFlags(root *cobra.Command) {
	defaults := Command{
		Config:     "benchfig.yaml",
		OutputFile: "-",
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.Config, "config", "c", defaults.Config, "config file. The embedded defaults apply when the default file is missing")
	flags.StringVarP(&c.OutputFile, "output", "o", defaults.OutputFile, "file output or - for standard output. A .png file enables PNG output")
	flags.StringVarP(&c.Environment, "environment", "e", defaults.Environment, "environment string")
	flags.BoolVar(&c.IsJSON, "json", defaults.IsJSON, "read input from JSON")
	flags.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flags.IntVar(&c.FontSize, "font-size", defaults.FontSize, "font size in points (defaults to the config, then to 16)")
	flags.BoolVarP(&c.Verbose, "verbose", "v", defaults.Verbose, "debug logs")
}

// setup the structured logger and capture which flags were set by the user.
func (c *Command) setup(cmd *cobra.Command, _ []string) {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	c.L = slog.Default().With(slog.String("module", "main"))

	flags := cmd.Flags()
	c.configSet = flags.Changed("config")
	c.fontSizeSet = flags.Changed("font-size")

	c.L.Debug("starting command", slog.String("command", cmd.CommandPath()))
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dump a value in the debug log, only in verbose mode.
func (c *Command) dump(msg string, value any) {
	if !c.Verbose {
		return
	}

	c.L.Debug(msg, slog.String("dump", dumper.Sdump(value)))
}
