package chart

import (
	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/style"
)

// Theme constants from go-echarts.
const (
	ThemeRoma = "roma"
)

// Option configures a [Chart].
type Option func(*options)

type options struct {
	Title       string
	Subtitle    string
	XAxisLabels []string
	YAxisLabel  string
	Theme       string
	Legend      config.LegendPosition
	Horizontal  bool
	Style       style.Params
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithSubtitle sets the chart subtitle (typically environment info).
func WithSubtitle(subtitle string) Option {
	return func(c *options) {
		c.Subtitle = subtitle
	}
}

// WithTheme sets the color theme. An empty theme leaves the default.
func WithTheme(theme string) Option {
	return func(c *options) {
		if theme == "" {
			return
		}
		c.Theme = theme
	}
}

// WithLegend sets the position of the legend, or hides it with [config.LegendPositionNone].
func WithLegend(position config.LegendPosition) Option {
	return func(c *options) {
		if position == "" {
			return
		}
		c.Legend = position
	}
}

// WithYAxisLabel sets the value axis title.
func WithYAxisLabel(ylabel string) Option {
	return func(c *options) {
		c.YAxisLabel = ylabel
	}
}

// WithXAxisLabels sets the category axis labels.
func WithXAxisLabels(xlabels []string) Option {
	return func(c *options) {
		c.XAxisLabels = xlabels
	}
}

// WithHorizontal enables or disables horizontal bar orientation.
func WithHorizontal(enabled bool) Option {
	return func(c *options) {
		c.Horizontal = enabled
	}
}

// WithStyle sets the font settings of the chart.
//
// Defaults to [style.New].
func WithStyle(params style.Params) Option {
	return func(c *options) {
		c.Style = params.Clone()
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:  ThemeRoma,
		Legend: config.LegendPositionBottom,
		Style:  style.New(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
