package config

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// ErrConfig is returned whenever a configuration fails validation.
var ErrConfig = errors.New("invalid configuration")

// Config holds the configuration for benchfig.
type Config struct {
	Name        string
	Environment string
	IsJSON      bool   `mapstructure:"-"`
	IsStrict    bool   `mapstructure:"-"`
	Outputs     Output
	Style       Style
	Render      Rendering
	Metrics     []Metric
	Labels      []Label // Labels rename series after the input file name
	Figures     []Figure
	Comparisons Comparisons

	metricIndex map[MetricName]Metric
}

// GetMetric retrieves a metric definition by its [MetricName].
func (c Config) GetMetric(id MetricName) (Metric, bool) {
	v, ok := c.metricIndex[id]

	return v, ok
}

// SeriesLabel returns the series title for an input file.
//
// The first matching [Label] rule wins. Otherwise the base name of the file, stripped from its extension, is used.
func (c Config) SeriesLabel(file string) string {
	for _, label := range c.Labels {
		if label.match != nil && label.match.MatchString(file) {
			return label.Title
		}
	}

	if file == "" || file == "-" {
		return "stdin"
	}

	base := filepath.Base(file)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (IsJSON, IsStrict) are excluded from the output.
// The output may be loaded back with [Load].
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return enc.Close()
}

// Style holds the font settings passed to the style initializer.
//
// A zero FontSize means "use the default".
type Style struct {
	FontSize int
}

// Rendering holds chart rendering settings.
type Rendering struct {
	Theme       string
	Legend      LegendPosition
	Orientation Orientation
	Screenshot  Screenshot
}

// Orientation controls the chart bar direction.
type Orientation string

// Supported chart orientations.
const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// LegendPosition controls where the chart legend is displayed.
type LegendPosition string

// Supported legend positions.
const (
	LegendPositionNone   LegendPosition = "none"
	LegendPositionBottom LegendPosition = "bottom"
	LegendPositionTop    LegendPosition = "top"
)

// Screenshot configures the headless browser used for PNG rendering.
type Screenshot struct {
	Height    int64
	Width     int64
	Sleep     time.Duration
	NoSandbox bool // required to run chrome as root, e.g. in containers
}

// Output holds the output file paths for HTML and PNG rendering.
//
// CLI flags take precedence. A PNG file set without any HTML file renders the HTML page to a temporary file.
type Output struct {
	HTMLFile string `mapstructure:"html"`
	PngFile  string `mapstructure:"png"`
	IsTemp   bool   `mapstructure:"-"`
}

// Metric defines a benchmark metric with its display title and axis label.
type Metric struct {
	ID    MetricName
	Title string
	Axis  string
}

// AxisTitle yields the title of the value axis for this metric.
func (m Metric) AxisTitle() string {
	if m.Axis == "" {
		return m.Title
	}

	return m.Title + " (" + m.Axis + ")"
}

// Label assigns a series title to input files matching a regexp.
type Label struct {
	Match string
	Title string

	match *regexp.Regexp
}

// Figure selects benchmarks by name and renders one chart per metric.
//
// The title may contain a "{metric}" placeholder. An empty Match selects all benchmarks.
type Figure struct {
	ID       string
	Title    string
	Match    string
	NotMatch string
	Metrics  []MetricName

	match    *regexp.Regexp
	notMatch *regexp.Regexp
}

// Selects reports whether a benchmark name belongs to this figure.
func (f Figure) Selects(name string) bool {
	if f.match != nil && !f.match.MatchString(name) {
		return false
	}

	return f.notMatch == nil || !f.notMatch.MatchString(name)
}

// TitleFor replaces the "{metric}" placeholder in the figure title.
func (f Figure) TitleFor(metric Metric) string {
	return strings.ReplaceAll(f.Title, "{metric}", metric.Title)
}

// Comparisons holds the settings of the comparisons command.
type Comparisons struct {
	Metric    MetricName
	Threshold float64 // noise band, in percent
}

// LoadOrDefaults loads a configuration file, falling back to the embedded defaults
// when the file does not exist.
func LoadOrDefaults(file string) (*Config, error) {
	cfg, err := Load(file)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadDefaults()
	}

	return cfg, err
}

// Load a configuration file from the local file system, over the embedded defaults.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Base(file)

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	if err = yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, file, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		ZeroFields: true, // lists from the file replace the defaults
		Result:     cfg,
	})
	if err != nil {
		return nil, err
	}

	if raw != nil {
		if err = dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, file, err)
		}
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.validateMetrics(); err != nil {
		return err
	}

	if err := c.validateFigures(); err != nil {
		return err
	}

	if err := c.validateLabels(); err != nil {
		return err
	}

	if c.Comparisons.Metric != "" {
		if _, ok := c.metricIndex[c.Comparisons.Metric]; !ok {
			return fmt.Errorf("%w: comparisons.metric=%s is not declared in metrics", ErrConfig, c.Comparisons.Metric)
		}
	}

	if c.Comparisons.Threshold < 0 {
		return fmt.Errorf("%w: comparisons.threshold must not be negative: %v", ErrConfig, c.Comparisons.Threshold)
	}

	return nil
}

func (c *Config) validateMetrics() error {
	c.metricIndex = make(map[MetricName]Metric, len(c.Metrics))

	for i, v := range c.Metrics {
		if v.ID == "" {
			return fmt.Errorf("%w: empty ID found: metrics[%d]", ErrConfig, i)
		}
		if !v.ID.IsValid() {
			return fmt.Errorf("%w: unknown metric ID: metrics[%d]=%v (should be one of %v)", ErrConfig, i, v.ID, AllMetricNames())
		}
		if _, ok := c.metricIndex[v.ID]; ok {
			return fmt.Errorf("%w: duplicate metric ID: %s", ErrConfig, v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}

		c.Metrics[i] = v
		c.metricIndex[v.ID] = v
	}

	return nil
}

func (c *Config) validateFigures() error {
	seen := make(map[string]struct{}, len(c.Figures))

	for i, v := range c.Figures {
		if v.ID == "" {
			return fmt.Errorf("%w: empty ID found: figures[%d]", ErrConfig, i)
		}
		if _, ok := seen[v.ID]; ok {
			return fmt.Errorf("%w: duplicate figure ID: %s", ErrConfig, v.ID)
		}
		seen[v.ID] = struct{}{}

		if v.Title == "" {
			v.Title = titleize(v.ID)
		}

		if len(v.Metrics) == 0 {
			return fmt.Errorf("%w: at least 1 metric must be included in figures.%s.metrics", ErrConfig, v.ID)
		}

		for j, ref := range v.Metrics {
			if _, ok := c.metricIndex[ref]; !ok {
				return fmt.Errorf("%w: metric ID not found figures.%s.metrics[%d]=%s", ErrConfig, v.ID, j, ref)
			}
		}

		var err error
		if v.match, err = compileRex(v.Match); err != nil {
			return fmt.Errorf("%w: figures.%s.match: %w", ErrConfig, v.ID, err)
		}
		if v.notMatch, err = compileRex(v.NotMatch); err != nil {
			return fmt.Errorf("%w: figures.%s.notMatch: %w", ErrConfig, v.ID, err)
		}

		c.Figures[i] = v
	}

	return nil
}

func (c *Config) validateLabels() error {
	for i, v := range c.Labels {
		if v.Match == "" {
			return fmt.Errorf("%w: empty match in labels[%d]", ErrConfig, i)
		}
		if v.Title == "" {
			return fmt.Errorf("%w: empty title in labels[%d]", ErrConfig, i)
		}

		rex, err := compileRex(v.Match)
		if err != nil {
			return fmt.Errorf("%w: labels[%d].match: %w", ErrConfig, i, err)
		}

		v.match = rex
		c.Labels[i] = v
	}

	return nil
}

func compileRex(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}

	return regexp.Compile(expr)
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the caser is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
