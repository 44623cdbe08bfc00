// Package style holds the font settings applied to rendered figures.
//
// A [Params] value is the rendering configuration consumed by chart builders.
// The package also keeps one process-wide instance, set with [SetFonts] and read
// with [Current], so that a CLI may configure fonts once before drawing anything.
package style

import (
	"slices"
	"sync"
)

// DefaultFontSize is the point size used when [SetFonts] is called without a size.
const DefaultFontSize = 16

// fontFamily is the font fallback list, in order of preference.
var fontFamily = []string{"Helvetica", "Arial", "DejaVu Sans"}

// FontFamily returns a copy of the font fallback list.
func FontFamily() []string {
	return slices.Clone(fontFamily)
}

// Params is a rendering configuration for fonts.
//
// All sizes are expressed in points.
type Params struct {
	FontFamily      []string
	FontSize        int
	AxesTitleSize   int
	XTickLabelSize  int
	YTickLabelSize  int
	LegendFontSize  int
	FigureTitleSize int
}

// New yields [Params] initialized with the default font size.
func New() Params {
	var p Params
	p.SetFonts()

	return p
}

// SetFonts sets the font family and every size field to the same value.
//
// The first size argument is used. Without any, the size is [DefaultFontSize].
// Sizes are not validated: zero or negative values are stored as-is.
func (p *Params) SetFonts(size ...int) {
	sz := DefaultFontSize
	if len(size) > 0 {
		sz = size[0]
	}

	p.FontFamily = FontFamily()
	p.FontSize = sz
	p.AxesTitleSize = sz
	p.XTickLabelSize = sz
	p.YTickLabelSize = sz
	p.LegendFontSize = sz
	p.FigureTitleSize = sz
}

// Clone returns a deep copy of the parameters.
func (p Params) Clone() Params {
	p.FontFamily = slices.Clone(p.FontFamily)

	return p
}

var (
	mx      sync.RWMutex
	current = New()
)

// SetFonts updates the process-wide rendering configuration.
//
// It affects every figure rendered afterwards from [Current], including figures
// unrelated to the caller.
func SetFonts(size ...int) {
	mx.Lock()
	defer mx.Unlock()

	current.SetFonts(size...)
}

// Current returns a snapshot of the process-wide rendering configuration.
func Current() Params {
	mx.RLock()
	defer mx.RUnlock()

	return current.Clone()
}
