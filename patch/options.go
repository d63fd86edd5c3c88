package patch

import "log/slog"

// DefaultSuffix is appended to a file name to build its path.
const DefaultSuffix = ".dll"

type options struct {
	logger *slog.Logger
	suffix string
}

// Option configures Open and OpenTarget.
type Option func(*options)

// WithLogger sets the logger that records every write. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSuffix overrides the suffix appended to file names by Open.
func WithSuffix(s string) Option {
	return func(o *options) { o.suffix = s }
}

func buildOptions(opts []Option) options {
	o := options{suffix: DefaultSuffix}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
