package generator

import (
	"context"

	"github.com/tbxark/roadmapagent/types"
)

type Mode string

const (
	ModeText Mode = "text"
	ModeTool Mode = "tool"
)

func (m Mode) Valid() bool {
	return m == ModeText || m == ModeTool
}

type Generator interface {
	GenerateRoadmap(ctx context.Context, req *types.Request) (*types.Roadmap, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, req *types.Request) (*types.Roadmap, error)

func (f Func) GenerateRoadmap(ctx context.Context, req *types.Request) (*types.Roadmap, error) {
	return f(ctx, req)
}
