// Package figures arranges parsed benchmark sets into the figures declared by the configuration.
package figures

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/model"
	"github.com/fredbi/benchfig/internal/pkg/parser"
)

// Arranger builds a [model.Page] out of benchmark sets.
//
// Every input set becomes a series. Every configured figure yields one chart per metric.
type Arranger struct {
	cfg *config.Config
	l   *slog.Logger
}

// New builds an [Arranger] for a given configuration.
func New(cfg *config.Config) *Arranger {
	return &Arranger{
		cfg: cfg,
		l:   slog.Default().With(slog.String("module", "figures")),
	}
}

// Arrange the benchmark sets into a page of figures.
//
// Figures without any data are skipped, unless the configuration is strict.
func (a *Arranger) Arrange(sets []parser.Set) (*model.Page, error) {
	page := &model.Page{
		Title: a.cfg.Name,
	}

	names := seriesNames(a.cfg, sets)
	subtitle := a.environment(sets)

	for _, fig := range a.cfg.Figures {
		labels, index := selectBenchmarks(fig, sets)

		for _, metricID := range fig.Metrics {
			metric, _ := a.cfg.GetMetric(metricID)

			figure := model.Figure{
				ID:         fig.ID + "-" + metric.ID.String(),
				Title:      fig.TitleFor(metric),
				Subtitle:   subtitle,
				YAxis:      metric.AxisTitle(),
				Labels:     labels,
				Series:     make([]model.Series, 0, len(sets)),
				Horizontal: a.cfg.Render.Orientation == config.OrientationHorizontal,
			}

			for i, set := range sets {
				figure.Series = append(figure.Series, model.Series{
					Name:   names[i],
					Values: valuesFor(set, labels, index[i], metric.ID),
				})
			}

			if figure.IsEmpty() {
				a.l.Warn("no data for figure", slog.String("figure_id", figure.ID))
				if a.cfg.IsStrict {
					return nil, fmt.Errorf("strict requirement not met for figure %q: no data. Stopping here", figure.ID)
				}

				continue
			}

			page.Figures = append(page.Figures, figure)
			a.l.Debug("added figure", slog.String("figure_id", figure.ID), slog.Int("labels", len(labels)))
		}
	}

	a.l.Info("arranged figures", slog.Int("figures", len(page.Figures)))

	return page, nil
}

func (a *Arranger) environment(sets []parser.Set) string {
	if a.cfg.Environment != "" {
		return a.cfg.Environment
	}

	for _, set := range sets {
		if set.Environment != "" {
			return set.Environment
		}
	}

	return ""
}

// selectBenchmarks returns the short names selected by a figure, in order of first appearance,
// and for each set, the raw benchmark name behind each short name.
//
// When several raw names share the same short name within a set, the first one wins.
func selectBenchmarks(fig config.Figure, sets []parser.Set) ([]string, []map[string]string) {
	var labels []string
	seen := make(map[string]struct{})
	index := make([]map[string]string, len(sets))

	for i, set := range sets {
		index[i] = make(map[string]string)

		for _, name := range set.Names() {
			if !fig.Selects(name) {
				continue
			}

			short := parser.ShortName(name)
			if _, ok := index[i][short]; !ok {
				index[i][short] = name
			}

			if _, ok := seen[short]; ok {
				continue
			}
			seen[short] = struct{}{}
			labels = append(labels, short)
		}
	}

	return labels, index
}

func valuesFor(set parser.Set, labels []string, index map[string]string, metric config.MetricName) []float64 {
	values := make([]float64, 0, len(labels))

	for _, label := range labels {
		name, ok := index[label]
		if !ok {
			values = append(values, model.Missing())

			continue
		}

		v, ok := set.Mean(name, metric)
		if !ok {
			values = append(values, model.Missing())

			continue
		}

		values = append(values, v)
	}

	return values
}

// seriesNames resolves the series name of every set, disambiguating duplicates with a numeric suffix.
func seriesNames(cfg *config.Config, sets []parser.Set) []string {
	names := make([]string, 0, len(sets))
	counts := make(map[string]int, len(sets))

	for _, set := range sets {
		name := cfg.SeriesLabel(set.File)
		counts[name]++
		if n := counts[name]; n > 1 {
			name += " #" + strconv.Itoa(n)
		}

		names = append(names, name)
	}

	return names
}
