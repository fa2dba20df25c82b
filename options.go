package roadmapagent

import (
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/roadmapagent/generator"
)

type options struct {
	mode         generator.Mode
	fallback     generator.Generator
	timeout      time.Duration
	modelOptions []model.Option
}

type Option func(*options)

// WithMode selects plain-text or forced tool-call generation. Defaults to text.
func WithMode(mode generator.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithFallback replaces the built-in fallback roadmap.
func WithFallback(fallback generator.Generator) Option {
	return func(o *options) {
		o.fallback = fallback
	}
}

// WithTimeout bounds each model call. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithModelOptions(opts ...model.Option) Option {
	return func(o *options) {
		o.modelOptions = append(o.modelOptions, opts...)
	}
}
