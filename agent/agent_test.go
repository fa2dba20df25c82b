package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/roadmapagent/modeltest"
	"github.com/tbxark/roadmapagent/types"
)

func collect(t *testing.T, iter *adk.AsyncIterator[*adk.AgentEvent]) []*adk.AgentEvent {
	t.Helper()
	var events []*adk.AgentEvent
	for {
		event, ok := iter.Next()
		if !ok {
			return events
		}
		events = append(events, event)
	}
}

func TestAgent_Run(t *testing.T) {
	flow, ctx := configuredFlow(t, modeltest.Reply("not json at all"))
	roadmapAgent := NewAgent("RoadmapGenerator", "generates career roadmaps", flow)
	assert.Equal(t, "RoadmapGenerator", roadmapAgent.Name(ctx))

	msg, err := EncodeRequest(validRequest)
	require.NoError(t, err)
	events := collect(t, roadmapAgent.Run(ctx, &adk.AgentInput{Messages: []adk.Message{msg}}))
	require.Len(t, events, 1)
	require.NoError(t, events[0].Err)

	state, err := DecodeState(events[0].Output.MessageOutput.Message.Content)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseRendered, state.Phase)
	assert.Equal(t, "Data Scientist", state.Roadmap.Career)
	assert.Len(t, state.Roadmap.Paths, 2)
}

func TestAgent_RunErrors(t *testing.T) {
	flow, ctx := configuredFlow(t, modeltest.Reply("{}"))
	roadmapAgent := NewAgent("RoadmapGenerator", "", flow)

	events := collect(t, roadmapAgent.Run(ctx, &adk.AgentInput{}))
	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)

	events = collect(t, roadmapAgent.Run(ctx, &adk.AgentInput{Messages: []adk.Message{schema.UserMessage("{bad")}}))
	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)

	blank, err := EncodeRequest(&types.Request{Career: "x"})
	require.NoError(t, err)
	events = collect(t, roadmapAgent.Run(ctx, &adk.AgentInput{Messages: []adk.Message{blank}}))
	require.Len(t, events, 1)
	var validationErr *ValidationError
	assert.ErrorAs(t, events[0].Err, &validationErr)

	unconfigured := NewAgent("x", "", NewRoadmapFlow(factoryFor(modeltest.Reply("{}"))))
	msg, err := EncodeRequest(validRequest)
	require.NoError(t, err)
	events = collect(t, unconfigured.Run(context.Background(), &adk.AgentInput{Messages: []adk.Message{msg}}))
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, ErrNotConfigured)
}
