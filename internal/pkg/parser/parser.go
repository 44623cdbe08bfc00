// Package parser reads the output of go benchmarks, as plain text or as a go test -json stream.
package parser //nolint:revive // it's okay for an internal package to use this name

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/fredbi/benchfig/internal/pkg/config"
	"golang.org/x/tools/benchmark/parse"
)

const stdin = "-"

// Set wraps [parse.Set] with the input file and the environment it was measured on.
type Set struct {
	parse.Set

	File        string
	Environment string
}

// Names returns the benchmark names of the set, in order of first appearance in the input.
func (s Set) Names() []string {
	type ordered struct {
		name string
		ord  int
	}

	all := make([]ordered, 0, len(s.Set))
	for name, runs := range s.Set {
		if len(runs) == 0 {
			continue
		}
		all = append(all, ordered{name: name, ord: runs[0].Ord})
	}

	slices.SortFunc(all, func(a, b ordered) int { return a.ord - b.ord })

	names := make([]string, 0, len(all))
	for _, o := range all {
		names = append(names, o.name)
	}

	return names
}

// Mean returns the average of a metric over all the runs of a benchmark.
//
// It returns false when the benchmark is unknown or the metric was never measured.
func (s Set) Mean(name string, metric config.MetricName) (float64, bool) {
	var (
		sum   float64
		count int
	)

	for _, run := range s.Set[name] {
		v, ok := Value(run, metric)
		if !ok {
			continue
		}
		sum += v
		count++
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

// Value extracts a metric from a single benchmark run.
func Value(b *parse.Benchmark, metric config.MetricName) (float64, bool) {
	switch metric {
	case config.MetricNsPerOp:
		return b.NsPerOp, b.Measured&parse.NsPerOp != 0
	case config.MetricAllocsPerOp:
		return float64(b.AllocsPerOp), b.Measured&parse.AllocsPerOp != 0
	case config.MetricBytesPerOp:
		return float64(b.AllocedBytesPerOp), b.Measured&parse.AllocedBytesPerOp != 0
	case config.MetricMBPerS:
		return b.MBPerS, b.Measured&parse.MBPerS != 0
	default:
		return 0, false
	}
}

// BenchmarkParser collects benchmark sets from files or streams.
type BenchmarkParser struct {
	options

	sets []Set
	l    *slog.Logger
}

// New [BenchmarkParser] ready to parse benchmark files.
func New(opts ...Option) *BenchmarkParser {
	return &BenchmarkParser{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "parser")),
	}
}

// ParseFiles parses every file into a new [Set]. The file name "-" stands for standard input.
func (p *BenchmarkParser) ParseFiles(files ...string) error {
	for _, file := range files {
		if err := p.parseFile(file); err != nil {
			return err
		}
	}

	p.l.Info("benchmark input parsed", slog.Int("parsed_files", len(files)))

	return nil
}

func (p *BenchmarkParser) parseFile(file string) error {
	var reader io.Reader = p.stdin

	if file != stdin {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("input file %q: %w", file, err)
		}
		defer func() {
			_ = f.Close()
		}()

		reader = f
	}

	set, err := p.ParseInput(reader)
	if err != nil {
		return fmt.Errorf("input file %q: %w", file, err)
	}

	set.File = file
	p.sets = append(p.sets, set)

	return nil
}

// ParseInput parses a single benchmark stream. The returned [Set] is not retained by the parser.
func (p *BenchmarkParser) ParseInput(r io.Reader) (Set, error) {
	var (
		text string
		err  error
	)

	if p.isJSON {
		text, err = readJSONOutput(r)
	} else {
		var content []byte
		content, err = io.ReadAll(r)
		text = string(content)
	}
	if err != nil {
		return Set{}, fmt.Errorf("reading input: %w", err)
	}

	set, err := parse.ParseSet(strings.NewReader(text))
	if err != nil {
		return Set{}, fmt.Errorf("parsing benchmark output: %w", err)
	}

	return Set{
		Set:         set,
		Environment: extractEnvironment(text),
	}, nil
}

// Sets returns all the sets parsed so far.
func (p *BenchmarkParser) Sets() []Set {
	return p.sets
}

// readJSONOutput gathers the text output carried by the events of `go test -json -bench`.
//
// Lines that are not valid JSON events are skipped.
func readJSONOutput(r io.Reader) (string, error) {
	var text strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event testEvent
		if err := json.Unmarshal(line, &event); err != nil { //nolint:musttag // test2json uses titleized keys
			continue
		}

		if event.Action == "output" {
			text.WriteString(event.Output)
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scanning input: %w", err)
	}

	return text.String(), nil
}

const maxLineSize = 1 << 20

// extractEnvironment combines the goos, goarch and cpu lines of benchmark output.
func extractEnvironment(text string) string {
	var parts []string

	for line := range strings.SplitSeq(text, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ": ")
		if !ok {
			continue
		}

		value = strings.TrimSpace(value)
		switch key {
		case "goos", "goarch":
			parts = append(parts, value)
		case "cpu":
			parts = append(parts, "cpu: "+value)
		}
	}

	if len(parts) == 0 {
		return "unknown environment"
	}

	return strings.Join(parts, " ")
}

// testEvent is a single event of `go test -json` output.
//
// See: https://pkg.go.dev/cmd/test2json
type testEvent struct {
	Action  string
	Package string
	Test    string
	Output  string
}

// ShortName strips a benchmark name from its "Benchmark" prefix and its GOMAXPROCS suffix.
//
// Example: "BenchmarkReadJSON/small-8" yields "ReadJSON/small".
func ShortName(name string) string {
	short := strings.TrimPrefix(name, "Benchmark")
	short = strings.TrimPrefix(short, "_")

	if idx := strings.LastIndexByte(short, '-'); idx >= 0 && isDigits(short[idx+1:]) {
		short = short[:idx]
	}

	if short == "" {
		return name
	}

	return short
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
