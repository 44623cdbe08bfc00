package parser //nolint:revive // it's okay for an internal package to use this name

import (
	"io"
	"os"
)

// Option configures a [BenchmarkParser].
type Option func(*options)

type options struct {
	isJSON bool
	stdin  io.Reader
}

// WithParseJSON enables JSON input parsing instead of the default text format.
func WithParseJSON(enabled bool) Option {
	return func(o *options) {
		o.isJSON = enabled
	}
}

// WithStdin substitutes the reader used for the "-" input file.
//
// Defaults to [os.Stdin].
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		if r == nil {
			return
		}
		o.stdin = r
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		stdin: os.Stdin,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
