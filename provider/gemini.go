package provider

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-1.5-flash"

var errNoCandidates = errors.New("gemini returned no candidates")

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     *float32
	MaxOutputTokens int32
	// JSONResponse asks for application/json output when no tools are bound.
	JSONResponse bool
}

// GeminiChatModel implements model.ToolCallingChatModel on top of the Google GenAI SDK.
type GeminiChatModel struct {
	models contentGenerator
	conf   GeminiConfig
	tools  []*schema.ToolInfo
}

// NewGeminiChatModel 创建 Gemini 聊天模型
func NewGeminiChatModel(ctx context.Context, conf *GeminiConfig) (*GeminiChatModel, error) {
	if conf == nil || conf.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiChatModel(client.Models, *conf), nil
}

func newGeminiChatModel(models contentGenerator, conf GeminiConfig) *GeminiChatModel {
	if conf.Model == "" {
		conf.Model = DefaultGeminiModel
	}
	return &GeminiChatModel{models: models, conf: conf}
}

func (m *GeminiChatModel) GetType() string {
	return "Gemini"
}

func (m *GeminiChatModel) IsCallbacksEnabled() bool {
	return true
}

func (m *GeminiChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if len(tools) == 0 {
		return nil, errors.New("no tools to bind")
	}
	bound := *m
	bound.tools = tools
	return &bound, nil
}

func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	options := m.options(opts...)
	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, m.callbackInput(input, options))
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	contents, config, err := m.request(input, options)
	if err != nil {
		return nil, err
	}
	resp, err := m.models.GenerateContent(ctx, *options.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}
	outMsg, err = fromGenaiResponse(resp)
	if err != nil {
		return nil, err
	}

	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message:    outMsg,
		TokenUsage: tokenUsage(outMsg),
	})
	return outMsg, nil
}

func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	options := m.options(opts...)
	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, m.callbackInput(input, options))

	contents, config, err := m.request(input, options)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](1)
	go func() {
		defer sw.Close()
		for resp, rErr := range m.models.GenerateContentStream(ctx, *options.Model, contents, config) {
			if rErr != nil {
				callbacks.OnError(ctx, rErr)
				sw.Send(nil, fmt.Errorf("gemini stream failed: %w", rErr))
				return
			}
			msg, cErr := fromGenaiResponse(resp)
			if cErr != nil {
				if errors.Is(cErr, errNoCandidates) {
					continue
				}
				sw.Send(nil, cErr)
				return
			}
			if closed := sw.Send(msg, nil); closed {
				return
			}
		}
	}()
	return sr, nil
}

func (m *GeminiChatModel) options(opts ...model.Option) *model.Options {
	return model.GetCommonOptions(&model.Options{
		Model:       &m.conf.Model,
		Temperature: m.conf.Temperature,
		Tools:       m.tools,
	}, opts...)
}

func (m *GeminiChatModel) callbackInput(input []*schema.Message, options *model.Options) *model.CallbackInput {
	conf := &model.Config{Model: *options.Model, Stop: options.Stop}
	if options.Temperature != nil {
		conf.Temperature = *options.Temperature
	}
	return &model.CallbackInput{
		Messages:   input,
		Tools:      options.Tools,
		ToolChoice: options.ToolChoice,
		Config:     conf,
	}
}

func (m *GeminiChatModel) request(input []*schema.Message, options *model.Options) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	system, contents, err := toGenaiContents(input)
	if err != nil {
		return nil, nil, err
	}
	tools, err := toGenaiTools(options.Tools)
	if err != nil {
		return nil, nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       options.Temperature,
		TopP:              options.TopP,
		StopSequences:     options.Stop,
		MaxOutputTokens:   m.conf.MaxOutputTokens,
		Tools:             tools,
		ToolConfig:        toGenaiToolConfig(options),
	}
	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}
	if m.conf.JSONResponse && len(tools) == 0 {
		config.ResponseMIMEType = "application/json"
	}
	return contents, config, nil
}

func toGenaiContents(input []*schema.Message) (*genai.Content, []*genai.Content, error) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(input))
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.NewPartFromText(msg.Content))
		case schema.User:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case schema.Assistant:
			content := &genai.Content{Role: genai.RoleModel}
			if msg.Content != "" {
				content.Parts = append(content.Parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				args := map[string]any{}
				if call.Function.Arguments != "" {
					if err := sonic.UnmarshalString(call.Function.Arguments, &args); err != nil {
						return nil, nil, fmt.Errorf("invalid arguments for tool call %s: %w", call.Function.Name, err)
					}
				}
				content.Parts = append(content.Parts, genai.NewPartFromFunctionCall(call.Function.Name, args))
			}
			contents = append(contents, content)
		case schema.Tool:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{genai.NewPartFromFunctionResponse(msg.ToolName, map[string]any{"output": msg.Content})},
			})
		default:
			return nil, nil, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}
	return system, contents, nil
}

func toGenaiTools(tools []*schema.ToolInfo) ([]*genai.Tool, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, info := range tools {
		declaration := &genai.FunctionDeclaration{
			Name:        info.Name,
			Description: info.Desc,
		}
		if info.ParamsOneOf != nil {
			params, err := info.ParamsOneOf.ToJSONSchema()
			if err != nil {
				return nil, fmt.Errorf("failed to convert parameters of tool %s: %w", info.Name, err)
			}
			declaration.ParametersJsonSchema = params
		}
		declarations = append(declarations, declaration)
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}, nil
}

func toGenaiToolConfig(options *model.Options) *genai.ToolConfig {
	if len(options.Tools) == 0 || options.ToolChoice == nil {
		return nil
	}
	config := &genai.FunctionCallingConfig{}
	switch *options.ToolChoice {
	case schema.ToolChoiceForced:
		config.Mode = genai.FunctionCallingConfigModeAny
		config.AllowedFunctionNames = options.AllowedToolNames
	case schema.ToolChoiceForbidden:
		config.Mode = genai.FunctionCallingConfigModeNone
	default:
		config.Mode = genai.FunctionCallingConfigModeAuto
	}
	return &genai.ToolConfig{FunctionCallingConfig: config}
}

func fromGenaiResponse(resp *genai.GenerateContentResponse) (*schema.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errNoCandidates
	}
	candidate := resp.Candidates[0]
	msg := &schema.Message{Role: schema.Assistant}
	if candidate.Content != nil {
		for i, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.Text != "" {
				msg.Content += part.Text
			}
			if part.FunctionCall != nil {
				args, err := sonic.MarshalString(part.FunctionCall.Args)
				if err != nil {
					return nil, fmt.Errorf("failed to encode function call arguments: %w", err)
				}
				id := part.FunctionCall.ID
				if id == "" {
					id = fmt.Sprintf("call_%d", i)
				}
				msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
					ID:   id,
					Type: "function",
					Function: schema.FunctionCall{
						Name:      part.FunctionCall.Name,
						Arguments: args,
					},
				})
			}
		}
	}

	msg.ResponseMeta = &schema.ResponseMeta{FinishReason: string(candidate.FinishReason)}
	if usage := resp.UsageMetadata; usage != nil {
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return msg, nil
}

func tokenUsage(msg *schema.Message) *model.TokenUsage {
	if msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return nil
	}
	return &model.TokenUsage{
		PromptTokens:     msg.ResponseMeta.Usage.PromptTokens,
		CompletionTokens: msg.ResponseMeta.Usage.CompletionTokens,
		TotalTokens:      msg.ResponseMeta.Usage.TotalTokens,
	}
}
