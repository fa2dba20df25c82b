package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbxark/roadmapagent/types"
)

// FailbackGenerator tries each generator in order and returns the first success.
type FailbackGenerator struct {
	generators []Generator
}

func NewFailbackGenerator(generators ...Generator) *FailbackGenerator {
	return &FailbackGenerator{generators: generators}
}

func (g *FailbackGenerator) GenerateRoadmap(ctx context.Context, req *types.Request) (*types.Roadmap, error) {
	var lastErr error
	for i, generator := range g.generators {
		roadmap, err := generator.GenerateRoadmap(ctx, req)
		if err == nil {
			return roadmap, nil
		}
		slog.Warn("Roadmap generator failed", "index", i, "error", err)
		lastErr = err
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no roadmap generators configured")
	}
	return nil, fmt.Errorf("all roadmap generators failed: %w", lastErr)
}
