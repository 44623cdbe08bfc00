// Package chart renders figures as echarts bar charts on an HTML page.
package chart

import (
	"log/slog"

	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/model"
	"github.com/fredbi/benchfig/internal/pkg/style"
)

// Builder constructs charts from figures.
type Builder struct {
	render config.Rendering
	style  style.Params
	l      *slog.Logger
}

// New creates a new chart [Builder], given the rendering settings and the font settings to apply.
//
// The font settings are copied: later changes to the process-wide style do not affect this builder.
func New(render config.Rendering, params style.Params) *Builder {
	return &Builder{
		render: render,
		style:  params.Clone(),
		l:      slog.Default().With(slog.String("module", "chart")),
	}
}

// BuildPage creates a page with one chart per figure.
func (b *Builder) BuildPage(in *model.Page) *Page {
	page := NewPage(in.Title)

	for _, figure := range in.Figures {
		page.AddChart(b.BuildChart(figure))
		b.l.Debug("added chart", slog.String("figure_id", figure.ID), slog.Int("series", len(figure.Series)))
	}

	b.l.Info("added charts", slog.Int("charts", len(page.Charts)))

	return page
}

// BuildChart creates a single chart for a figure.
func (b *Builder) BuildChart(figure model.Figure) *Chart {
	chart := NewChart(
		WithTitle(figure.Title),
		WithSubtitle(figure.Subtitle),
		WithXAxisLabels(figure.Labels),
		WithYAxisLabel(figure.YAxis),
		WithTheme(b.render.Theme),
		WithLegend(b.render.Legend),
		WithHorizontal(figure.Horizontal || b.render.Orientation == config.OrientationHorizontal),
		WithStyle(b.style),
	)

	for _, series := range figure.Series {
		chart.AddSeries(series)
	}

	return chart
}
