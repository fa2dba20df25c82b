package structured

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
)

// TextChain asks for a JSON answer in plain message content, without tools.
type TextChain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.BaseChatModel
	Decode        Decoder[TOutput]
	Options       []model.Option
}

func NewTextChain[TInput, TOutput any](
	chatModel model.BaseChatModel,
	promptBuilder PromptBuilder[TInput],
	decode Decoder[TOutput],
	opts ...model.Option,
) *TextChain[TInput, TOutput] {
	if decode == nil {
		decode = SonicDecoder[TOutput]
	}
	return &TextChain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		Decode:        decode,
		Options:       opts,
	}
}

func (s *TextChain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := s.ChatModel.Generate(ctx, messages, s.Options...)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("empty model response")
	}

	result, err := s.Decode(response.Content)
	if err != nil {
		return nil, fmt.Errorf("parse model response failed: %w", err)
	}
	return result, nil
}
