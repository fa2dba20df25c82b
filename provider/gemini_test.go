package provider

import (
	"context"
	"errors"
	"io"
	"iter"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     []*genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return f.resp[0], nil
}

func (f *fakeModels) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.model, f.contents, f.config = model, contents, config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, resp := range f.resp {
			if !yield(resp, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, genai.NewPartFromText(text))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: genai.RoleModel, Parts: parts},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 5,
			TotalTokenCount:      15,
		},
	}
}

type submitArgs struct {
	Career string `json:"career" jsonschema:"required"`
}

func TestGemini_GenerateText(t *testing.T) {
	fake := &fakeModels{resp: []*genai.GenerateContentResponse{textResponse(`{"career":`, `"X"}`)}}
	cm := newGeminiChatModel(fake, GeminiConfig{JSONResponse: true})

	msg, err := cm.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("be brief"),
		schema.UserMessage("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"career":"X"}`, msg.Content)
	assert.Equal(t, schema.Assistant, msg.Role)
	require.NotNil(t, msg.ResponseMeta.Usage)
	assert.Equal(t, 15, msg.ResponseMeta.Usage.TotalTokens)

	assert.Equal(t, DefaultGeminiModel, fake.model)
	require.Len(t, fake.contents, 1)
	assert.Equal(t, genai.RoleUser, fake.contents[0].Role)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "be brief", fake.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	assert.Nil(t, fake.config.ToolConfig)
}

func TestGemini_ForcedToolCall(t *testing.T) {
	info, err := utils.GoStruct2ToolInfo[submitArgs]("submit_roadmap", "submit")
	require.NoError(t, err)

	fake := &fakeModels{resp: []*genai.GenerateContentResponse{{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{
				genai.NewPartFromFunctionCall("submit_roadmap", map[string]any{"career": "Nurse"}),
			}},
		}},
	}}}
	cm := newGeminiChatModel(fake, GeminiConfig{Model: "gemini-2.0-flash", JSONResponse: true})

	msg, err := cm.Generate(context.Background(), []*schema.Message{schema.UserMessage("go")},
		model.WithTools([]*schema.ToolInfo{info}),
		model.WithToolChoice(schema.ToolChoiceForced, "submit_roadmap"),
	)
	require.NoError(t, err)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "submit_roadmap", msg.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"career":"Nurse"}`, msg.ToolCalls[0].Function.Arguments)

	assert.Equal(t, "gemini-2.0-flash", fake.model)
	assert.Empty(t, fake.config.ResponseMIMEType)
	require.Len(t, fake.config.Tools, 1)
	assert.Equal(t, "submit_roadmap", fake.config.Tools[0].FunctionDeclarations[0].Name)
	assert.NotNil(t, fake.config.Tools[0].FunctionDeclarations[0].ParametersJsonSchema)
	require.NotNil(t, fake.config.ToolConfig)
	assert.Equal(t, genai.FunctionCallingConfigModeAny, fake.config.ToolConfig.FunctionCallingConfig.Mode)
	assert.Equal(t, []string{"submit_roadmap"}, fake.config.ToolConfig.FunctionCallingConfig.AllowedFunctionNames)
}

func TestGemini_WithTools(t *testing.T) {
	info, err := utils.GoStruct2ToolInfo[submitArgs]("submit_roadmap", "submit")
	require.NoError(t, err)
	fake := &fakeModels{resp: []*genai.GenerateContentResponse{textResponse("ok")}}
	base := newGeminiChatModel(fake, GeminiConfig{})

	bound, err := base.WithTools([]*schema.ToolInfo{info})
	require.NoError(t, err)
	_, err = bound.Generate(context.Background(), []*schema.Message{schema.UserMessage("go")})
	require.NoError(t, err)
	assert.Len(t, fake.config.Tools, 1)

	_, err = base.Generate(context.Background(), []*schema.Message{schema.UserMessage("go")})
	require.NoError(t, err)
	assert.Empty(t, fake.config.Tools)

	_, err = base.WithTools(nil)
	assert.Error(t, err)
}

func TestGemini_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	cm := newGeminiChatModel(&fakeModels{err: boom}, GeminiConfig{})
	_, err := cm.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	assert.ErrorIs(t, err, boom)

	cm = newGeminiChatModel(&fakeModels{resp: []*genai.GenerateContentResponse{{}}}, GeminiConfig{})
	_, err = cm.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	assert.ErrorIs(t, err, errNoCandidates)

	_, err = NewGeminiChatModel(context.Background(), &GeminiConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGemini_Stream(t *testing.T) {
	fake := &fakeModels{resp: []*genai.GenerateContentResponse{textResponse("{\"a\":"), {}, textResponse("1}")}}
	cm := newGeminiChatModel(fake, GeminiConfig{})

	sr, err := cm.Stream(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.NoError(t, err)
	defer sr.Close()

	var content string
	for {
		msg, rErr := sr.Recv()
		if errors.Is(rErr, io.EOF) {
			break
		}
		require.NoError(t, rErr)
		content += msg.Content
	}
	assert.Equal(t, `{"a":1}`, content)
}

func TestToGenaiContents_History(t *testing.T) {
	_, contents, err := toGenaiContents([]*schema.Message{
		schema.UserMessage("q"),
		schema.AssistantMessage("", []schema.ToolCall{{ID: "1", Function: schema.FunctionCall{Name: "f", Arguments: `{"k":1}`}}}),
		schema.ToolMessage("done", "1", schema.WithToolName("f")),
	})
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, "f", contents[1].Parts[0].FunctionCall.Name)
	assert.Equal(t, "f", contents[2].Parts[0].FunctionResponse.Name)

	_, _, err = toGenaiContents([]*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{Function: schema.FunctionCall{Name: "f", Arguments: "{"}}}),
	})
	assert.Error(t, err)
}
