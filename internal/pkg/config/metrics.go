package config

// MetricName identifies a benchmark metric (e.g. "nsPerOp", "allocsPerOp").
type MetricName string

// Standard benchmark metric names.
const (
	MetricNsPerOp     MetricName = "nsPerOp"
	MetricAllocsPerOp MetricName = "allocsPerOp"
	MetricBytesPerOp  MetricName = "bytesPerOp"
	MetricMBPerS      MetricName = "MBytesPerS"
)

var knownMetrics = [...]MetricName{
	MetricNsPerOp,
	MetricAllocsPerOp,
	MetricBytesPerOp,
	MetricMBPerS,
}

func (m MetricName) String() string {
	return string(m)
}

// IsValid reports whether the metric name is one of the known benchmark metrics.
func (m MetricName) IsValid() bool {
	for _, known := range knownMetrics {
		if m == known {
			return true
		}
	}

	return false
}

// HigherIsBetter tells if larger values of this metric mean better performance.
//
// Only throughput behaves this way.
func (m MetricName) HigherIsBetter() bool {
	return m == MetricMBPerS
}

// AllMetricNames returns all known benchmark metric names.
func AllMetricNames() []MetricName {
	return append([]MetricName(nil), knownMetrics[:]...)
}
