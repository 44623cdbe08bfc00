package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)

	assert.Equal(t, "Benchmark figures", cfg.Name)
	assert.Equal(t, 16, cfg.Style.FontSize)
	assert.Equal(t, "roma", cfg.Render.Theme)
	assert.Equal(t, LegendPositionBottom, cfg.Render.Legend)
	assert.Equal(t, OrientationVertical, cfg.Render.Orientation)
	assert.Equal(t, time.Second, cfg.Render.Screenshot.Sleep)
	assert.Equal(t, int64(1920), cfg.Render.Screenshot.Width)
	assert.Equal(t, int64(1080), cfg.Render.Screenshot.Height)

	assert.Len(t, cfg.Metrics, 4)
	for _, name := range AllMetricNames() {
		_, ok := cfg.GetMetric(name)
		assert.True(t, ok, "expected metric %q in index", name)
	}

	require.Len(t, cfg.Figures, 1)
	assert.Equal(t, "all", cfg.Figures[0].ID)
	assert.True(t, cfg.Figures[0].Selects("BenchmarkAnything"))

	assert.Equal(t, MetricNsPerOp, cfg.Comparisons.Metric)
	assert.InDelta(t, 5.0, cfg.Comparisons.Threshold, 1e-9)
}

func TestLoadOverDefaults(t *testing.T) {
	cfg := mustLoad(t, `
name: My figures
style:
  fontSize: 24
render:
  orientation: horizontal
metrics:
  - id: nsPerOp
figures:
  - id: json
    match: 'JSON'
    notMatch: 'Stream'
    metrics: [nsPerOp]
`)

	assert.Equal(t, "My figures", cfg.Name)
	assert.Equal(t, 24, cfg.Style.FontSize)
	assert.Equal(t, OrientationHorizontal, cfg.Render.Orientation)
	assert.Equal(t, "roma", cfg.Render.Theme, "unset scalars keep their default")

	require.Len(t, cfg.Metrics, 1, "lists replace the defaults")
	metric, ok := cfg.GetMetric(MetricNsPerOp)
	require.True(t, ok)
	assert.Equal(t, "NsPerOp", metric.Title)

	_, ok = cfg.GetMetric(MetricAllocsPerOp)
	assert.False(t, ok)

	require.Len(t, cfg.Figures, 1)
	fig := cfg.Figures[0]
	assert.Equal(t, "Json", fig.Title)
	assert.True(t, fig.Selects("BenchmarkReadJSON"))
	assert.False(t, fig.Selects("BenchmarkReadJSONStream"))
	assert.False(t, fig.Selects("BenchmarkReadXML"))
}

func TestLoadOutputsAndScreenshot(t *testing.T) {
	cfg := mustLoad(t, `
outputs:
  png: figures.png
render:
  screenshot:
    sleep: 250ms
    noSandbox: true
`)

	assert.Equal(t, "figures.png", cfg.Outputs.PngFile)
	assert.Empty(t, cfg.Outputs.HTMLFile)
	assert.False(t, cfg.Outputs.IsTemp)
	assert.Equal(t, 250*time.Millisecond, cfg.Render.Screenshot.Sleep)
	assert.True(t, cfg.Render.Screenshot.NoSandbox)
	assert.Equal(t, int64(1920), cfg.Render.Screenshot.Width)
}

func TestEncodeYAML(t *testing.T) {
	cfg := mustLoad(t, `
name: Round trip
labels:
  - match: 'base'
    title: baseline
`)
	cfg.IsJSON = true

	var buf bytes.Buffer
	require.NoError(t, cfg.EncodeYAML(&buf))
	assert.NotContains(t, buf.String(), "IsJSON")

	reloaded, err := loadFromString(t, buf.String())
	require.NoError(t, err)

	assert.Equal(t, cfg.Name, reloaded.Name)
	assert.Equal(t, cfg.Render, reloaded.Render)
	assert.Equal(t, cfg.Comparisons, reloaded.Comparisons)
	assert.Len(t, reloaded.Metrics, len(cfg.Metrics))
	assert.Len(t, reloaded.Figures, len(cfg.Figures))
	assert.Equal(t, "baseline", reloaded.SeriesLabel("testdata/base.txt"))
	assert.False(t, reloaded.IsJSON)
}

func TestLoadOrDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadOrDefaults(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Benchmark figures", cfg.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadEmptyFile(t *testing.T) {
	cfg := mustLoad(t, "")
	assert.Len(t, cfg.Metrics, 4)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "invalid YAML",
			yaml: ":\n  :\n    - [invalid",
		},
		{
			name: "unknown metric",
			yaml: `
metrics:
  - id: nsperop
`,
		},
		{
			name: "metric with empty ID",
			yaml: `
metrics:
  - id: ""
`,
		},
		{
			name: "duplicate metric",
			yaml: `
metrics:
  - id: nsPerOp
  - id: nsPerOp
`,
		},
		{
			name: "figure with empty ID",
			yaml: `
figures:
  - id: ""
    metrics: [nsPerOp]
`,
		},
		{
			name: "duplicate figure",
			yaml: `
figures:
  - id: a
    metrics: [nsPerOp]
  - id: a
    metrics: [nsPerOp]
`,
		},
		{
			name: "figure without metric",
			yaml: `
figures:
  - id: a
`,
		},
		{
			name: "figure with undeclared metric",
			yaml: `
metrics:
  - id: nsPerOp
figures:
  - id: a
    metrics: [allocsPerOp]
`,
		},
		{
			name: "figure with invalid regexp",
			yaml: `
figures:
  - id: a
    match: '(['
    metrics: [nsPerOp]
`,
		},
		{
			name: "label without title",
			yaml: `
labels:
  - match: 'v1'
`,
		},
		{
			name: "label with invalid regexp",
			yaml: `
labels:
  - match: '(['
    title: broken
`,
		},
		{
			name: "undeclared comparison metric",
			yaml: `
metrics:
  - id: nsPerOp
figures:
  - id: a
    metrics: [nsPerOp]
comparisons:
  metric: MBytesPerS
`,
		},
		{
			name: "negative threshold",
			yaml: `
comparisons:
  threshold: -1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFromString(t, tt.yaml)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestSeriesLabel(t *testing.T) {
	cfg := mustLoad(t, `
labels:
  - match: 'main'
    title: baseline
  - match: 'feature/.*\.txt$'
    title: candidate
`)

	tests := []struct {
		file string
		want string
	}{
		{"results/main.txt", "baseline"},
		{"feature/new.txt", "candidate"},
		{"other/run-2.json", "run-2"},
		{"plain", "plain"},
		{"-", "stdin"},
		{"", "stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.SeriesLabel(tt.file))
		})
	}
}

func TestFigureTitleFor(t *testing.T) {
	fig := Figure{Title: "Codec ({metric})"}

	assert.Equal(t, "Codec (Timings)", fig.TitleFor(Metric{Title: "Timings"}))
	assert.Equal(t, "static", Figure{Title: "static"}.TitleFor(Metric{Title: "Timings"}))
}

func TestMetricAxisTitle(t *testing.T) {
	assert.Equal(t, "Timings (ns/op)", Metric{Title: "Timings", Axis: "ns/op"}.AxisTitle())
	assert.Equal(t, "Timings", Metric{Title: "Timings"}.AxisTitle())
}

func TestMetricName(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "nsPerOp", MetricNsPerOp.String())
	})

	t.Run("IsValid", func(t *testing.T) {
		for _, m := range AllMetricNames() {
			assert.True(t, m.IsValid(), "expected %q to be valid", m)
		}

		for _, m := range []MetricName{"unknown", "", "nsperop", "NS_PER_OP"} {
			assert.False(t, m.IsValid(), "expected %q to be invalid", m)
		}
	})

	t.Run("HigherIsBetter", func(t *testing.T) {
		assert.True(t, MetricMBPerS.HigherIsBetter())
		assert.False(t, MetricNsPerOp.HigherIsBetter())
	})

	t.Run("AllMetricNames returns a copy", func(t *testing.T) {
		names := AllMetricNames()
		names[0] = "tampered"

		assert.Equal(t, MetricNsPerOp, AllMetricNames()[0])
	})
}

func TestTitleize(t *testing.T) {
	assert.Equal(t, "Read Json", titleize("read_json"))
	assert.Equal(t, "Elements Match", titleize("elements-match"))
	assert.Equal(t, "AllocsPerOp", titleize(MetricAllocsPerOp))
}

// helpers

func loadFromString(t *testing.T, content string) (*Config, error) {
	t.Helper()

	file := filepath.Join(t.TempDir(), "benchfig.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	return Load(file)
}

func mustLoad(t *testing.T, content string) *Config {
	t.Helper()

	cfg, err := loadFromString(t, content)
	require.NoError(t, err)

	return cfg
}
