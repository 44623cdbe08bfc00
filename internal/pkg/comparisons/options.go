package comparisons

import "github.com/fredbi/benchfig/internal/pkg/config"

// Option tunes a [Comparator].
type Option func(*options)

type options struct {
	metric    config.MetricName
	threshold float64
}

const defaultThreshold = 5.0

func optionsWithDefaults(opts []Option) options {
	o := options{
		metric:    config.MetricNsPerOp,
		threshold: defaultThreshold,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithMetric selects the compared metric. An empty name keeps the default.
//
// Defaults to [config.MetricNsPerOp].
func WithMetric(metric config.MetricName) Option {
	return func(o *options) {
		if metric == "" {
			return
		}

		o.metric = metric
	}
}

// WithThreshold sets the noise band, in percent. Negative values keep the default.
//
// Defaults to 5%.
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		if threshold < 0 {
			return
		}

		o.threshold = threshold
	}
}
