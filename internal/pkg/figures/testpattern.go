package figures

import (
	"fmt"

	"github.com/fredbi/benchfig/internal/pkg/model"
	"github.com/fredbi/benchfig/internal/pkg/style"
)

// TestPattern builds a page with deterministic data, to check the current style settings.
//
// The page holds the same figure twice: once with vertical bars, once with horizontal bars.
func TestPattern(params style.Params) *model.Page {
	labels := []string{"Small", "Medium", "Large", "Huge"}
	series := []model.Series{
		{Name: "baseline", Values: []float64{120, 480, 1920, 7680}},
		{Name: "candidate", Values: []float64{100, 450, 2100, 6900}},
		{Name: "gap", Values: []float64{90, model.Missing(), 1500, 6000}},
	}

	subtitle := fmt.Sprintf("font size %dpt, font family %v", params.FontSize, params.FontFamily)

	figure := model.Figure{
		ID:       "style-test-vertical",
		Title:    "Style test (vertical)",
		Subtitle: subtitle,
		YAxis:    "Value (unit)",
		Labels:   labels,
		Series:   series,
	}

	horizontal := figure
	horizontal.ID = "style-test-horizontal"
	horizontal.Title = "Style test (horizontal)"
	horizontal.Horizontal = true

	return &model.Page{
		Title:   "benchfig style test",
		Figures: []model.Figure{figure, horizontal},
	}
}
