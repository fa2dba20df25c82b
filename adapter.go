// Package roadmapagent turns a career, an experience level and goals into a
// learning roadmap produced by a chat model, falling back to a fixed roadmap
// whenever the model cannot deliver a valid one.
package roadmapagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/roadmapagent/generator"
	"github.com/tbxark/roadmapagent/structured"
	"github.com/tbxark/roadmapagent/types"
)

type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result 是一次生成的诊断结果，Err 只用于日志
type Result struct {
	Roadmap *types.Roadmap
	Source  Source
	Err     error
}

// Adapter is immutable after construction and safe for concurrent use.
type Adapter struct {
	mode     generator.Mode
	primary  generator.Generator
	fallback generator.Generator
	timeout  time.Duration
}

// NewAdapter 创建一个新的 Adapter 实例
func NewAdapter(chatModel model.ToolCallingChatModel, opts ...Option) (*Adapter, error) {
	if chatModel == nil {
		return nil, ErrNotConfigured
	}
	o := &options{
		mode:     generator.ModeText,
		fallback: generator.NewLocalGenerator(),
	}
	for _, opt := range opts {
		opt(o)
	}

	var primary generator.Generator
	switch o.mode {
	case generator.ModeText:
		primary = generator.NewTextGenerator(chatModel, o.modelOptions...)
	case generator.ModeTool:
		gen, err := generator.NewToolBasedGenerator(chatModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create tool-based generator: %w", err)
		}
		primary = gen
	default:
		return nil, fmt.Errorf("unknown generation mode: %q", o.mode)
	}

	return &Adapter{
		mode:     o.mode,
		primary:  primary,
		fallback: o.fallback,
		timeout:  o.timeout,
	}, nil
}

func (a *Adapter) Mode() generator.Mode {
	return a.mode
}

// Generate always returns a roadmap. Failures resolve to the fallback built from the same inputs.
func (a *Adapter) Generate(ctx context.Context, career, experienceLevel, goals string) *types.Roadmap {
	return a.Invoke(ctx, &types.Request{
		Career:          career,
		ExperienceLevel: experienceLevel,
		Goals:           goals,
	}).Roadmap
}

func (a *Adapter) Invoke(ctx context.Context, req *types.Request) *Result {
	if req == nil {
		req = &types.Request{}
	}
	ctx = callbacks.EnsureRunInfo(ctx, "RoadmapAdapter", "Adapter")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"career":           req.Career,
		"experience_level": req.ExperienceLevel,
		"mode":             string(a.mode),
	})

	result := a.invoke(ctx, req)
	if result.Err != nil {
		callbacks.OnError(ctx, result.Err)
	}
	callbacks.OnEnd(ctx, map[string]any{
		"source": string(result.Source),
		"paths":  len(result.Roadmap.Paths),
	})
	return result
}

func (a *Adapter) invoke(ctx context.Context, req *types.Request) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = a.fallbackResult(ctx, req, fmt.Errorf("panic in roadmap generation: %v", r))
		}
	}()

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	roadmap, err := a.primary.GenerateRoadmap(callCtx, req)
	if err == nil && roadmap == nil {
		err = errEmptyRoadmap
	}
	if err != nil {
		return a.fallbackResult(ctx, req, err)
	}
	return &Result{Roadmap: roadmap, Source: SourceModel}
}

func (a *Adapter) fallbackResult(ctx context.Context, req *types.Request, cause error) *Result {
	slog.Warn("Roadmap generation failed, using fallback",
		"stage", failureStage(cause),
		"career", req.Career,
		"error", cause,
	)
	roadmap, err := a.safeFallback(ctx, req)
	if err != nil || roadmap == nil {
		slog.Error("Fallback generator failed", "career", req.Career, "error", err)
		roadmap = generator.FallbackRoadmap(req.Career)
	}
	return &Result{Roadmap: roadmap, Source: SourceFallback, Err: cause}
}

func (a *Adapter) safeFallback(ctx context.Context, req *types.Request) (roadmap *types.Roadmap, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in fallback generator: %v", r)
		}
	}()
	return a.fallback.GenerateRoadmap(ctx, req)
}

func failureStage(err error) string {
	var decodeErr *structured.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return string(decodeErr.Stage)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "transport"
	default:
		return "model"
	}
}
