// Package comparisons compares candidate benchmark results against a baseline.
package comparisons

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/parser"
)

var (
	// ErrNoBaseline is returned when no baseline input is provided.
	ErrNoBaseline = errors.New("a baseline is required")

	// ErrNoOverlap is returned when the baseline and the candidates have no benchmark in common.
	ErrNoOverlap = errors.New("no benchmark in common between baseline and candidates")
)

// Verdict qualifies the change of a benchmark.
type Verdict string

// Supported verdicts.
const (
	VerdictImproved  Verdict = "improved"
	VerdictRegressed Verdict = "regressed"
	VerdictUnchanged Verdict = "unchanged"
	VerdictMissing   Verdict = "missing"
)

// Delta is the comparison of a single benchmark.
//
// Baseline or Candidate is nil when the benchmark is missing on that side.
type Delta struct {
	Name      string   `json:"name"`
	Baseline  *float64 `json:"baseline,omitempty"`
	Candidate *float64 `json:"candidate,omitempty"`
	Percent   float64  `json:"deltaPercent"`
	Verdict   Verdict  `json:"verdict"`
}

// Summary counts verdicts and aggregates the ratios of all compared benchmarks.
type Summary struct {
	Improved  int `json:"improved"`
	Regressed int `json:"regressed"`
	Unchanged int `json:"unchanged"`
	Missing   int `json:"missing"`

	// Geomean is the geometric mean of candidate/baseline ratios, over positive values only.
	//
	// It is 0 when no ratio could be computed.
	Geomean float64 `json:"geomean"`
}

// Result is the outcome of a comparison.
type Result struct {
	Metric         config.MetricName `json:"metric"`
	Threshold      float64           `json:"thresholdPercent"`
	HigherIsBetter bool              `json:"higherIsBetter"`
	BaselineFile   string            `json:"baseline"`
	CandidateFiles []string          `json:"candidates"`
	Environment    string            `json:"environment,omitempty"`
	Deltas         []Delta           `json:"deltas"`
	Summary        Summary           `json:"summary"`
}

// HasRegressions reports whether any benchmark regressed.
func (r Result) HasRegressions() bool {
	return r.Summary.Regressed > 0
}

// Comparator compares benchmark sets on a single metric.
type Comparator struct {
	options
	l *slog.Logger
}

// New builds a [Comparator].
func New(opts ...Option) *Comparator {
	return &Comparator{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "comparisons")),
	}
}

// Compare a baseline against one or several candidate sets.
//
// Benchmarks are matched on their short name. Candidate sets are merged: the runs
// of a benchmark repeated within or across candidates are averaged, and so are repeated baseline runs.
//
// Deltas are listed in order of first appearance in the baseline, then in the candidates.
func (c *Comparator) Compare(baseline *parser.Set, candidates ...parser.Set) (*Result, error) {
	if baseline == nil {
		return nil, ErrNoBaseline
	}

	higherIsBetter := c.metric.HigherIsBetter()
	result := &Result{
		Metric:         c.metric,
		Threshold:      c.threshold,
		HigherIsBetter: higherIsBetter,
		BaselineFile:   baseline.File,
		CandidateFiles: make([]string, 0, len(candidates)),
		Environment:    baseline.Environment,
	}

	for _, candidate := range candidates {
		result.CandidateFiles = append(result.CandidateFiles, candidate.File)
	}

	base := newMeans(c.metric)
	base.add(*baseline)

	cand := newMeans(c.metric)
	for _, candidate := range candidates {
		cand.add(candidate)
	}

	var (
		logSum  float64
		nRatios int
		overlap int
	)

	for _, name := range mergeOrder(base.order, cand.order) {
		b, inBase := base.mean(name)
		k, inCand := cand.mean(name)

		delta := Delta{Name: name}
		if inBase {
			delta.Baseline = &b
		}
		if inCand {
			delta.Candidate = &k
		}

		if !inBase || !inCand {
			delta.Verdict = VerdictMissing
			result.Summary.Missing++
			result.Deltas = append(result.Deltas, delta)
			c.l.Debug("benchmark on one side only", slog.String("benchmark", name), slog.Bool("in_baseline", inBase))

			continue
		}

		overlap++
		delta.Percent = percent(b, k)
		delta.Verdict = verdict(delta.Percent, c.threshold, higherIsBetter)

		switch delta.Verdict {
		case VerdictImproved:
			result.Summary.Improved++
		case VerdictRegressed:
			result.Summary.Regressed++
		default:
			result.Summary.Unchanged++
		}

		if b > 0 && k > 0 {
			logSum += math.Log(k / b)
			nRatios++
		}

		result.Deltas = append(result.Deltas, delta)
	}

	if overlap == 0 {
		return nil, fmt.Errorf("%w: metric %s", ErrNoOverlap, c.metric)
	}

	if nRatios > 0 {
		result.Summary.Geomean = math.Exp(logSum / float64(nRatios))
	}

	c.l.Info("compared benchmarks",
		slog.String("metric", c.metric.String()),
		slog.Int("compared", overlap),
		slog.Int("regressed", result.Summary.Regressed),
		slog.Int("improved", result.Summary.Improved),
	)

	return result, nil
}

// percent yields the relative change from baseline to candidate. A zero baseline yields 0.
func percent(baseline, candidate float64) float64 {
	if baseline == 0 {
		return 0
	}

	return (candidate - baseline) / baseline * 100
}

func verdict(pct, threshold float64, higherIsBetter bool) Verdict {
	if higherIsBetter {
		pct = -pct
	}

	switch {
	case pct < -threshold:
		return VerdictImproved
	case pct > threshold:
		return VerdictRegressed
	default:
		return VerdictUnchanged
	}
}

// means accumulates the runs of benchmarks by short name.
type means struct {
	metric config.MetricName
	sums   map[string]float64
	counts map[string]int
	order  []string
}

func newMeans(metric config.MetricName) *means {
	return &means{
		metric: metric,
		sums:   make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (m *means) add(set parser.Set) {
	for _, name := range set.Names() {
		short := parser.ShortName(name)

		for _, run := range set.Set[name] {
			v, ok := parser.Value(run, m.metric)
			if !ok {
				continue
			}

			if m.counts[short] == 0 {
				m.order = append(m.order, short)
			}
			m.sums[short] += v
			m.counts[short]++
		}
	}
}

func (m *means) mean(short string) (float64, bool) {
	n := m.counts[short]
	if n == 0 {
		return 0, false
	}

	return m.sums[short] / float64(n), true
}

func mergeOrder(first, second []string) []string {
	seen := make(map[string]struct{}, len(first)+len(second))
	merged := make([]string, 0, len(first)+len(second))

	for _, list := range [][]string{first, second} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}

	return merged
}
