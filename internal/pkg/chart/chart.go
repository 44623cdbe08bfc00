package chart

import (
	"math"

	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/model"
	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	xAxisLabelAngle = 30
	axisNameGap     = 32
	missingValue    = "-" // echarts draws no bar for this value
)

// Series represents a named data series in a chart.
type Series struct {
	Name string
	Data []echartsopts.BarData
}

// Chart represents a bar chart.
type Chart struct {
	options
	Series []Series
}

// NewChart creates a new chart with options.
func NewChart(opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
	}
}

// AddSeries adds a named data series to the chart.
//
// Values are aligned with the category axis labels. NaN values are rendered as gaps.
func (c *Chart) AddSeries(series model.Series) {
	data := make([]echartsopts.BarData, 0, len(series.Values))

	for i, value := range series.Values {
		point := echartsopts.BarData{Value: value}
		if i < len(c.XAxisLabels) {
			point.Name = c.XAxisLabels[i]
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			point.Value = missingValue
		}

		data = append(data, point)
	}

	c.Series = append(c.Series, Series{Name: series.Name, Data: data})
}

// Build creates the ECharts bar chart from the accumulated configuration.
func (c *Chart) Build() *charts.Bar {
	bar := charts.NewBar()

	titleOpts := echartsopts.Title{
		Title:      c.Title,
		TitleStyle: textStyle(c.Style, c.Style.FigureTitleSize),
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = textStyle(c.Style, c.Style.FontSize)
		titleOpts.SubtitleStyle.FontStyle = "italic"
	}

	xAxisOpts, yAxisOpts := c.setAxes()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(echartsopts.Initialization{Theme: c.Theme}),
		charts.WithToolboxOpts(echartsopts.Toolbox{
			Left: "right",
			Feature: &echartsopts.ToolBoxFeature{
				SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
					Title: "Save as image",
				},
			},
		}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(c.legend()),
		charts.WithGridOpts(echartsopts.Grid{
			Bottom: "100",
			Top:    "100",
		}),
		charts.WithXAxisOpts(xAxisOpts),
		charts.WithYAxisOpts(yAxisOpts),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
			AxisPointer: &echartsopts.AxisPointer{
				Type: "shadow",
			},
		}),
	)

	bar.AddJSFuncStrs(types.FuncStr(fontOverrides(c.Style)))
	bar.SetXAxis(c.XAxisLabels)

	for _, s := range c.Series {
		bar.AddSeries(s.Name, s.Data)
	}

	if c.Horizontal {
		return bar.XYReversal()
	}

	return bar
}

func (c *Chart) legend() echartsopts.Legend {
	show := c.Legend != config.LegendPositionNone
	legend := echartsopts.Legend{
		Show: echartsopts.Bool(show),
	}

	if !show {
		return legend
	}

	legend.TextStyle = textStyle(c.Style, c.Style.LegendFontSize)
	legend.X = "right"
	legend.Y = string(c.Legend)

	return legend
}

func (c *Chart) setAxes() (echartsopts.XAxis, echartsopts.YAxis) {
	const (
		category     = "category"
		value        = "value"
		axisPosition = "bottom"
	)

	valueFormatter := echartsopts.FuncOpts("function (value,index) { return value.toFixed(0).toString();}")
	family := fontFamilyCSS(c.Style.FontFamily)

	categoryLabel := &echartsopts.AxisLabel{
		Rotate:       xAxisLabelAngle,
		Interval:     "0",
		ShowMinLabel: echartsopts.Bool(true),
		ShowMaxLabel: echartsopts.Bool(true),
		HideOverlap:  echartsopts.Bool(false),
		FontFamily:   family,
		FontSize:     c.Style.XTickLabelSize,
	}

	valueLabel := &echartsopts.AxisLabel{
		Formatter:  valueFormatter,
		FontFamily: family,
		FontSize:   c.Style.YTickLabelSize,
	}

	if !c.Horizontal {
		return echartsopts.XAxis{
				Type:         category,
				Position:     axisPosition,
				NameLocation: "end",
				AxisTick: &echartsopts.AxisTick{
					AlignWithLabel: echartsopts.Bool(true),
				},
				AxisLabel: categoryLabel,
			}, echartsopts.YAxis{
				Name:      c.YAxisLabel,
				Type:      value,
				Scale:     echartsopts.Bool(true),
				AxisLabel: valueLabel,
			}
	}

	// horizontal bars: the category axis is vertical
	categoryLabel.Rotate = 0
	categoryLabel.FontSize = c.Style.YTickLabelSize
	valueLabel.FontSize = c.Style.XTickLabelSize

	return echartsopts.XAxis{
			Name:         c.YAxisLabel,
			NameLocation: "center",
			NameGap:      axisNameGap,
			Type:         value,
			Scale:        echartsopts.Bool(true),
			AxisLabel:    valueLabel,
		}, echartsopts.YAxis{
			Type:         category,
			Position:     "left",
			NameLocation: "end",
			AxisLabel:    categoryLabel,
		}
}
