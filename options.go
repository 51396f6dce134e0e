package fixedarray

import "log/slog"

type options struct {
	storage Storage
	logger  *slog.Logger
}

// Option configures array construction.
type Option func(*options)

// WithStorage selects the allocator for the array's backing buffer.
//
// If nil is passed, HeapStorage is used.
func WithStorage(s Storage) Option {
	return func(o *options) {
		if s == nil {
			s = HeapStorage{}
		}
		o.storage = s
	}
}

// WithLogger sets the logger used for lifecycle (debug) and violation
// (error) records. If nil is passed, records are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{
		storage: HeapStorage{},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
