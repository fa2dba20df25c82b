package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/roadmapagent/structured"
	"github.com/tbxark/roadmapagent/types"
)

const (
	SubmitRoadmapToolName = "submit_roadmap"
	submitRoadmapToolDesc = "Submit the complete career roadmap. Every field of the roadmap must be filled."
)

// ToolBasedGenerator forces the model to answer through the submit_roadmap tool.
type ToolBasedGenerator struct {
	chain *structured.Chain[*types.Request, types.Roadmap]
}

// NewToolBasedGenerator 创建基于工具调用的生成器
func NewToolBasedGenerator(chatModel model.ToolCallingChatModel) (*ToolBasedGenerator, error) {
	chain, err := structured.NewChain[*types.Request, types.Roadmap](
		chatModel,
		buildMessages,
		SubmitRoadmapToolName,
		submitRoadmapToolDesc,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create roadmap chain: %w", err)
	}
	chain.WithDecoder(structured.DecodeRoadmapText)
	return &ToolBasedGenerator{chain: chain}, nil
}

func (g *ToolBasedGenerator) GenerateRoadmap(ctx context.Context, req *types.Request) (*types.Roadmap, error) {
	roadmap, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Debug("Roadmap decoded from tool call", "career", roadmap.Career, "paths", len(roadmap.Paths))
	return roadmap, nil
}

func (g *ToolBasedGenerator) ToolInfo() *schema.ToolInfo {
	return g.chain.GetToolInfo()
}
