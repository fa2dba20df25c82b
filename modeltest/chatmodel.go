// Package modeltest provides a scripted chat model for tests.
package modeltest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var ErrNoResponse = errors.New("modeltest: no scripted response")

// Handler computes a reply from the request.
type Handler func(ctx context.Context, input []*schema.Message, opts *model.Options) (*schema.Message, error)

// ChatModel replays scripted responses in order; the last one repeats.
type ChatModel struct {
	mu        sync.Mutex
	responses []*schema.Message
	err       error
	handler   Handler
	tools     []*schema.ToolInfo
	calls     []Call
}

// Call records one Generate or Stream invocation.
type Call struct {
	Messages []*schema.Message
	Options  *model.Options
}

func New(responses ...*schema.Message) *ChatModel {
	return &ChatModel{responses: responses}
}

// Reply 返回固定文本内容的模型
func Reply(content string) *ChatModel {
	return New(schema.AssistantMessage(content, nil))
}

// ToolReply 返回单个工具调用的模型
func ToolReply(name, arguments string) *ChatModel {
	return New(schema.AssistantMessage("", []schema.ToolCall{{
		ID:   "call_1",
		Type: "function",
		Function: schema.FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}}))
}

// Failing 每次调用都返回 err
func Failing(err error) *ChatModel {
	return &ChatModel{err: err}
}

func WithHandler(h Handler) *ChatModel {
	return &ChatModel{handler: h}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{Tools: m.tools}, opts...)

	m.mu.Lock()
	m.calls = append(m.calls, Call{Messages: input, Options: options})
	index := len(m.calls) - 1
	handler, err := m.handler, m.err
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if handler != nil {
		return handler(ctx, input, options)
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return nil, ErrNoResponse
	}
	if index >= len(m.responses) {
		index = len(m.responses) - 1
	}
	return m.responses[index], nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &ChatModel{
		responses: m.responses,
		err:       m.err,
		handler:   m.handler,
		tools:     tools,
	}, nil
}

func (m *ChatModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *ChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
