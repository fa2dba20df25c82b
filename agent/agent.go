package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/roadmapagent/types"
)

var _ adk.Agent = (*Agent)(nil)

// Agent exposes RoadmapFlow to an adk.Runner. The last input message carries a
// JSON encoded types.Request; the output message carries the JSON encoded State.
type Agent struct {
	name        string
	description string
	flow        *RoadmapFlow
}

func NewAgent(name, description string, flow *RoadmapFlow) *Agent {
	return &Agent{
		name:        name,
		description: description,
		flow:        flow,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if input == nil || len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		req, err := DecodeRequest(input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{Err: err})
			return
		}
		resp, err := a.flow.Invoke(ctx, req)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow invoke failed: %w", err),
			})
			return
		}
		payload, err := sonic.MarshalString(resp.State)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("failed to encode state: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			AgentName: a.name,
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: payload,
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}

func EncodeRequest(req *types.Request) (*schema.Message, error) {
	payload, err := sonic.MarshalString(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return schema.UserMessage(payload), nil
}

func DecodeRequest(content string) (*types.Request, error) {
	var req types.Request
	if err := sonic.UnmarshalString(strings.TrimSpace(content), &req); err != nil {
		return nil, fmt.Errorf("invalid roadmap request: %w", err)
	}
	return &req, nil
}

func DecodeState(content string) (*State, error) {
	var state State
	if err := sonic.UnmarshalString(content, &state); err != nil {
		return nil, fmt.Errorf("invalid roadmap state: %w", err)
	}
	return &state, nil
}
