package comparisons

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// WriteJSON writes the result as indented JSON.
func (r Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding comparison report: %w", err)
	}

	return nil
}

// WriteText writes the result as a table, followed by a summary line.
//
// Verdicts are colored unless colored is false.
func (r Result) WriteText(w io.Writer, colored bool) error {
	paint := newPalette(colored)

	const (
		hdrName      = "benchmark"
		hdrBaseline  = "baseline"
		hdrCandidate = "candidate"
		hdrDelta     = "delta"
	)

	nameWidth := len(hdrName)
	for _, d := range r.Deltas {
		nameWidth = max(nameWidth, len(d.Name))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s vs %s (threshold %s%%)\n",
		r.Metric, displayFile(r.BaselineFile), displayFiles(r.CandidateFiles), formatFloat(r.Threshold))
	fmt.Fprintf(&b, "%-*s  %14s  %14s  %9s  %s\n", nameWidth, hdrName, hdrBaseline, hdrCandidate, hdrDelta, "verdict")

	for _, d := range r.Deltas {
		delta := ""
		if d.Verdict != VerdictMissing {
			delta = fmt.Sprintf("%+.2f%%", d.Percent)
		}

		fmt.Fprintf(&b, "%-*s  %14s  %14s  %9s  %s\n",
			nameWidth, d.Name, formatValue(d.Baseline), formatValue(d.Candidate), delta, paint(d.Verdict))
	}

	s := r.Summary
	fmt.Fprintf(&b, "\n%d %s, %d %s, %d %s, %d %s",
		s.Improved, paint(VerdictImproved),
		s.Regressed, paint(VerdictRegressed),
		s.Unchanged, paint(VerdictUnchanged),
		s.Missing, paint(VerdictMissing),
	)
	if s.Geomean > 0 {
		fmt.Fprintf(&b, ", geomean ratio %.4f", s.Geomean)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing comparison table: %w", err)
	}

	return nil
}

func newPalette(colored bool) func(Verdict) string {
	colors := map[Verdict]*color.Color{
		VerdictImproved:  color.New(color.FgGreen),
		VerdictRegressed: color.New(color.FgRed, color.Bold),
		VerdictUnchanged: color.New(color.Reset),
		VerdictMissing:   color.New(color.FgYellow),
	}

	for _, c := range colors {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return func(v Verdict) string {
		c, ok := colors[v]
		if !ok {
			return string(v)
		}

		return c.Sprint(string(v))
	}
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}

	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func displayFile(file string) string {
	if file == "" || file == "-" {
		return "stdin"
	}

	return filepath.Base(file)
}

func displayFiles(files []string) string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, displayFile(file))
	}

	return strings.Join(names, ", ")
}
