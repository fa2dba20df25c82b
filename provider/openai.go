package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float32
	Timeout     time.Duration
}

// NewOpenAIChatModel 创建 OpenAI 兼容接口的聊天模型
func NewOpenAIChatModel(ctx context.Context, conf *OpenAIConfig) (model.ToolCallingChatModel, error) {
	if conf == nil || conf.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	name := conf.Model
	if name == "" {
		name = DefaultOpenAIModel
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      conf.APIKey,
		BaseURL:     conf.BaseURL,
		Model:       name,
		Temperature: conf.Temperature,
		Timeout:     conf.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	return cm, nil
}
