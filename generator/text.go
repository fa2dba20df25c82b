package generator

import (
	"context"
	"log/slog"

	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/roadmapagent/structured"
	"github.com/tbxark/roadmapagent/types"
)

// TextGenerator sends the prompt as a plain message and decodes the reply text.
type TextGenerator struct {
	chain *structured.TextChain[*types.Request, types.Roadmap]
}

// NewTextGenerator 创建基于纯文本回复的生成器
func NewTextGenerator(chatModel model.BaseChatModel, opts ...model.Option) *TextGenerator {
	return &TextGenerator{
		chain: structured.NewTextChain[*types.Request, types.Roadmap](
			chatModel,
			buildMessages,
			structured.DecodeRoadmapText,
			opts...,
		),
	}
}

func (g *TextGenerator) GenerateRoadmap(ctx context.Context, req *types.Request) (*types.Roadmap, error) {
	roadmap, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Debug("Roadmap decoded from text", "career", roadmap.Career, "paths", len(roadmap.Paths))
	return roadmap, nil
}
