// Package model exposes the figures to be rendered, independently of any charting library.
package model

import "math"

// Page is a set of figures rendered together.
type Page struct {
	Title   string
	Figures []Figure
}

// Figure is a single bar chart: one value per label for each series.
//
// Series are displayed side by side for each label of the category axis.
type Figure struct {
	ID       string
	Title    string
	Subtitle string
	YAxis    string
	Labels   []string
	Series   []Series

	// Horizontal forces bars to be drawn horizontally, regardless of the rendering settings.
	Horizontal bool
}

// IsEmpty reports whether the figure holds no value at all.
func (f Figure) IsEmpty() bool {
	for _, s := range f.Series {
		for _, v := range s.Values {
			if !math.IsNaN(v) {
				return false
			}
		}
	}

	return true
}

// Series is a named sequence of values, aligned with the labels of its [Figure].
//
// A missing value is represented by NaN.
type Series struct {
	Name   string
	Values []float64
}

// Missing is the value of a series point that has no measurement.
func Missing() float64 {
	return math.NaN()
}
