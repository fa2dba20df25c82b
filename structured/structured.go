package structured

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Decoder turns raw model output into the target type.
type Decoder[TOutput any] func(raw string) (*TOutput, error)

func SonicDecoder[TOutput any](raw string) (*TOutput, error) {
	var result TOutput
	if err := sonic.UnmarshalString(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Chain forces the model to answer through a single tool whose parameters mirror TOutput.
type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
	Decode        Decoder[TOutput]
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {

	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
		Decode:        SonicDecoder[TOutput],
	}, nil
}

func (s *Chain[TInput, TOutput]) WithDecoder(decode Decoder[TOutput]) *Chain[TInput, TOutput] {
	s.Decode = decode
	return s
}

func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := s.ChatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}

	arguments, err := s.toolArguments(response)
	if err != nil {
		return nil, err
	}
	result, err := s.Decode(arguments)
	if err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}
	return result, nil
}

func (s *Chain[TInput, TOutput]) toolArguments(response *schema.Message) (string, error) {
	for _, call := range response.ToolCalls {
		if call.Function.Name == s.ToolInfo.Name {
			return call.Function.Arguments, nil
		}
	}
	return "", fmt.Errorf("no %s ToolCall found in model response: %s", s.ToolInfo.Name, response.Content)
}

func (s *Chain[TInput, TOutput]) GetToolInfo() *schema.ToolInfo {
	return s.ToolInfo
}
