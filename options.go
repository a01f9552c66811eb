package kmergo

import (
	"log/slog"

	"github.com/hupe1980/kmergo/resource"
)

type options struct {
	controller       *resource.Controller
	resourceConfig   resource.Config
	metricsCollector MetricsCollector
	logger           *Logger
	cutoff           int
	verify           bool
}

// Option configures Workspace behavior.
type Option func(*options)

// WithController configures an externally managed resource controller,
// shared between several workspaces when they must respect one budget.
// Overrides WithMemoryLimit, WithLoadWorkers and WithIOLimit.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithMemoryLimit bounds the bytes of table data held in memory at
// once. Loads that would exceed the limit fail with ErrOutOfMemory.
// Zero (the default) only tracks usage.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.resourceConfig.MemoryLimitBytes = bytes
	}
}

// WithLoadWorkers sets how many table parts are read concurrently
// during a load. The default is 1.
func WithLoadWorkers(n int64) Option {
	return func(o *options) {
		o.resourceConfig.MaxLoadWorkers = n
	}
}

// WithIOLimit throttles shard reads to the given throughput. Zero (the
// default) is unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.resourceConfig.IOLimitBytesPerSec = bytesPerSec
	}
}

// WithCutoff drops records whose count is below the cutoff when a
// table is loaded. Values <= 1 keep everything.
func WithCutoff(cutoff int) Option {
	return func(o *options) {
		o.cutoff = cutoff
	}
}

// WithVerify audits the sort order of every loaded table before use.
// The scans trust the order invariant instead of re-validating it per
// comparison; enable this when the provenance of a table is in doubt.
func WithVerify(verify bool) Option {
	return func(o *options) {
		o.verify = verify
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.controller == nil {
		o.controller = resource.NewController(o.resourceConfig)
	}
	return o
}
