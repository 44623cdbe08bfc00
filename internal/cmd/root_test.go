package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fredbi/benchfig/internal/pkg/style"
	"github.com/spf13/cobra"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestNewCommand(t *testing.T) {
	root := NewCommand()
	require.NotNil(t, root)
	assert.Equal(t, "benchfig", root.Name())

	names := make([]string, 0, 3)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"plot", "comparisons", "test"}, names)

	// defaults of the persistent flags
	flags := root.PersistentFlags()
	for name, want := range map[string]string{
		"config":      "benchfig.yaml",
		"output":      "-",
		"environment": "",
		"json":        "false",
		"png":         "false",
		"font-size":   "0",
		"verbose":     "false",
	} {
		flag := flags.Lookup(name)
		require.NotNil(t, flag, "missing flag %q", name)
		assert.Equal(t, want, flag.DefValue, "default for %q", name)
	}

	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.Equal(t, "o", flags.Lookup("output").Shorthand)
	assert.Equal(t, "e", flags.Lookup("environment").Shorthand)
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
}

func TestDispatch(t *testing.T) {
	t.Run("each registered command runs", func(t *testing.T) {
		dir := t.TempDir()

		for _, args := range [][]string{
			{"plot", "-o", filepath.Join(dir, "plot.html"), parserTestdataPath("base.txt")},
			{"comparisons", "--baseline", parserTestdataPath("base.txt"), parserTestdataPath("head.txt")},
			{"test", "-o", filepath.Join(dir, "test.html")},
		} {
			_, _, err := execute(t, "", args...)
			require.NoError(t, err, "command %q", args[0])
		}
	})

	t.Run("unknown command fails with usage hint", func(t *testing.T) {
		_, stderr, err := execute(t, "", "figures")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown command "figures"`)
		assert.Contains(t, stderr, "unknown command")
		assert.Contains(t, stderr, "--help")
	})

	t.Run("no command prints help", func(t *testing.T) {
		stdout, _, err := execute(t, "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Available Commands:")
		assert.Contains(t, stdout, "comparisons")
	})
}

func TestRegistry(t *testing.T) {
	newCmd := func(name string) func() *cobra.Command {
		return func() *cobra.Command { return &cobra.Command{Use: name} }
	}

	t.Run("attaches in order", func(t *testing.T) {
		r := newRegistry()
		r.register("b", newCmd("b"))
		r.register("a", newCmd("a"))
		assert.Equal(t, []string{"b", "a"}, r.Names())

		root := &cobra.Command{Use: "root"}
		r.attach(root)
		require.Len(t, root.Commands(), 2)
	})

	t.Run("duplicate name panics", func(t *testing.T) {
		r := newRegistry()
		r.register("plot", newCmd("plot"))
		assert.Panics(t, func() {
			r.register("plot", newCmd("plot"))
		})
	})

	t.Run("mismatched name panics", func(t *testing.T) {
		r := newRegistry()
		r.register("plot", newCmd("figures"))
		assert.Panics(t, func() {
			r.attach(&cobra.Command{Use: "root"})
		})
	})
}

func TestStyleFromFlags(t *testing.T) {
	t.Cleanup(func() { style.SetFonts() })
	out := filepath.Join(t.TempDir(), "test.html")

	t.Run("default size", func(t *testing.T) {
		_, _, err := execute(t, "", "test", "-o", out)
		require.NoError(t, err)
		assert.Equal(t, style.DefaultFontSize, style.Current().FontSize)
	})

	t.Run("size from config", func(t *testing.T) {
		cfgFile := writeTestConfig(t, "style:\n  fontSize: 12\n")

		_, _, err := execute(t, "", "test", "-c", cfgFile, "-o", out)
		require.NoError(t, err)
		assert.Equal(t, 12, style.Current().FontSize)
	})

	t.Run("flag wins over config", func(t *testing.T) {
		cfgFile := writeTestConfig(t, "style:\n  fontSize: 12\n")

		_, _, err := execute(t, "", "--font-size", "24", "test", "-c", cfgFile, "-o", out)
		require.NoError(t, err)

		params := style.Current()
		assert.Equal(t, 24, params.FontSize)
		assert.Equal(t, 24, params.LegendFontSize)
		assert.Equal(t, 24, params.FigureTitleSize)

		html, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(html), "font size 24pt")
	})

	t.Run("last write wins", func(t *testing.T) {
		_, _, err := execute(t, "", "test", "--font-size", "30", "-o", out)
		require.NoError(t, err)
		_, _, err = execute(t, "", "test", "--font-size", "10", "-o", out)
		require.NoError(t, err)

		assert.Equal(t, 10, style.Current().FontSize)
	})
}

func TestVerboseLogs(t *testing.T) {
	_, stderr, err := execute(t, "", "-v", "test", "-o", filepath.Join(t.TempDir(), "test.html"))
	require.NoError(t, err)

	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "resolved configuration")
}

// helpers

// execute the root command with some input, capturing its outputs.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root := NewCommand()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err = root.ExecuteContext(t.Context())

	return out.String(), errOut.String(), err
}

func writeTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))
	return file
}

func parserTestdataPath(name string) string {
	return filepath.Join("..", "pkg", "parser", "testdata", name)
}
