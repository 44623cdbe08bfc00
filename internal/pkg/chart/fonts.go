package chart

import (
	"encoding/json"
	"strings"

	"github.com/fredbi/benchfig/internal/pkg/style"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
)

// fontFamilyCSS renders a font fallback list as a CSS font-family value.
func fontFamilyCSS(family []string) string {
	quoted := make([]string, 0, len(family))

	for _, name := range family {
		if strings.ContainsAny(name, " \t") {
			name = "'" + name + "'"
		}
		quoted = append(quoted, name)
	}

	return strings.Join(quoted, ", ")
}

func textStyle(params style.Params, size int) *echartsopts.TextStyle {
	return &echartsopts.TextStyle{
		FontFamily: fontFamilyCSS(params.FontFamily),
		FontSize:   size,
	}
}

// fontOverrides yields a javascript statement applying the font settings that
// go-echarts does not expose: the global font family and the size of axis titles.
//
// The "%MY_ECHARTS%" placeholder is replaced by the chart instance at rendering time.
func fontOverrides(params style.Params) string {
	nameStyle := map[string]any{
		"nameTextStyle": map[string]any{
			"fontSize":   params.AxesTitleSize,
			"fontFamily": fontFamilyCSS(params.FontFamily),
		},
	}

	option := map[string]any{
		"textStyle": map[string]any{
			"fontFamily": fontFamilyCSS(params.FontFamily),
			"fontSize":   params.FontSize,
		},
		"xAxis": nameStyle,
		"yAxis": nameStyle,
	}

	js, _ := json.Marshal(option) // maps of strings and ints always marshal

	return "%MY_ECHARTS%.setOption(" + string(js) + ");"
}
