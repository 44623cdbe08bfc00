package comparisons

import (
	"fmt"

	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/model"
)

// Page builds a single-figure page charting the relative change of every compared benchmark.
//
// The metric gives the titles. Benchmarks missing on one side are left as gaps.
func (r Result) Page(title string, metric config.Metric) *model.Page {
	figure := model.Figure{
		ID:         "comparison-" + r.Metric.String(),
		Title:      fmt.Sprintf("%s: %s vs %s", metric.Title, displayFile(r.BaselineFile), displayFiles(r.CandidateFiles)),
		Subtitle:   r.Environment,
		YAxis:      fmt.Sprintf("Change of %s (%%)", metric.Title),
		Labels:     make([]string, 0, len(r.Deltas)),
		Horizontal: true,
	}

	values := make([]float64, 0, len(r.Deltas))
	for _, d := range r.Deltas {
		figure.Labels = append(figure.Labels, d.Name)
		if d.Verdict == VerdictMissing {
			values = append(values, model.Missing())

			continue
		}

		values = append(values, d.Percent)
	}

	figure.Series = []model.Series{
		{Name: "delta %", Values: values},
	}

	return &model.Page{
		Title:   title,
		Figures: []model.Figure{figure},
	}
}
