package parser //nolint:revive // it's okay for an internal package to use this name

import (
	"slices"

	"github.com/fredbi/benchfig/internal/pkg/config"
)

// Report summarizes the content of parsed benchmark input.
type Report struct {
	Sets       int           `json:"sets"`
	Files      []string      `json:"analyzed_files"`
	Benchmarks []string      `json:"benchmarks"`
	Metrics    []MetricRange `json:"metrics"`
}

// MetricRange is the range of values measured for one metric across all inputs.
type MetricRange struct {
	Metric config.MetricName `json:"metric"`
	Count  int               `json:"measurements_count"`
	Min    float64           `json:"min_value"`
	Max    float64           `json:"max_value"`
	Files  []string          `json:"origin_files"`
}

// Report produces a [Report] on the sets parsed so far.
//
// Benchmark names are sorted. Metrics are listed in the order of [config.AllMetricNames].
func (p *BenchmarkParser) Report() Report {
	r := Report{
		Sets: len(p.sets),
	}

	ranges := make(map[config.MetricName]*MetricRange)

	for _, set := range p.sets {
		if !slices.Contains(r.Files, set.File) {
			r.Files = append(r.Files, set.File)
		}

		for name, runs := range set.Set {
			if !slices.Contains(r.Benchmarks, name) {
				r.Benchmarks = append(r.Benchmarks, name)
			}

			for _, run := range runs {
				for _, metric := range config.AllMetricNames() {
					v, ok := Value(run, metric)
					if !ok {
						continue
					}

					rng, seen := ranges[metric]
					if !seen {
						rng = &MetricRange{Metric: metric, Min: v, Max: v}
						ranges[metric] = rng
					}

					rng.Count++
					rng.Min = min(rng.Min, v)
					rng.Max = max(rng.Max, v)
					if !slices.Contains(rng.Files, set.File) {
						rng.Files = append(rng.Files, set.File)
					}
				}
			}
		}
	}

	slices.Sort(r.Benchmarks)

	for _, metric := range config.AllMetricNames() {
		if rng, ok := ranges[metric]; ok {
			r.Metrics = append(r.Metrics, *rng)
		}
	}

	return r
}
