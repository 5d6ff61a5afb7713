package settings

import (
	"go.uber.org/zap"
)

// Options holds the settings common to every backend constructor
type Options struct {
	// Logger is the diagnostic sink. If nil, nothing is logged.
	Logger *zap.SugaredLogger

	// LoggerName overrides the sink name derived by the backend.
	LoggerName string
}

// Option configures Options
type Option func(*Options)

// WithLogger sets the logger a store writes its trace messages to
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithLoggerName overrides the logger name a store derives from its backing resource
func WithLoggerName(name string) Option {
	return func(o *Options) {
		o.LoggerName = name
	}
}

// ApplyOptions resolves opts into Options
func ApplyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// NamedLogger returns the configured logger named after LoggerName, or
// defaultName when no override was given.
func (o Options) NamedLogger(defaultName string) *zap.SugaredLogger {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	name := o.LoggerName
	if name == "" {
		name = defaultName
	}
	if name == "" {
		return logger
	}
	return logger.Named(name)
}
