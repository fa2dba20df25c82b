package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/roadmapagent"
	"github.com/tbxark/roadmapagent/agent"
	"github.com/tbxark/roadmapagent/generator"
	"github.com/tbxark/roadmapagent/modeltest"
)

func testFlow(chatModel model.ToolCallingChatModel, keys *[]string) *agent.RoadmapFlow {
	return agent.NewRoadmapFlow(func(ctx context.Context, apiKey string) (*roadmapagent.Adapter, error) {
		*keys = append(*keys, apiKey)
		return roadmapagent.NewAdapter(chatModel)
	})
}

func runScript(t *testing.T, flow *agent.RoadmapFlow, lines ...string) string {
	t.Helper()
	return runScriptWith(t, flow, false, lines...)
}

func runScriptWith(t *testing.T, flow *agent.RoadmapFlow, showAll bool, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	session := newInteractiveSession(flow, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, nil, showAll)
	require.NoError(t, session.Run(context.Background()))
	return out.String()
}

func TestInteractive_GenerateRoadmap(t *testing.T) {
	reply, err := sonic.MarshalString(generator.DemoRoadmap("Data Scientist"))
	require.NoError(t, err)
	chatModel := modeltest.Reply(reply)
	var keys []string
	flow := testFlow(chatModel, &keys)

	out := runScript(t, flow, "sk-test", "Data Scientist", "beginner", "machine learning", "quit")

	assert.Equal(t, []string{"sk-test"}, keys)
	assert.Equal(t, 1, chatModel.CallCount())
	assert.Contains(t, out, "Career Field")
	assert.Contains(t, out, "Current Experience Level")
	assert.Contains(t, out, "# Data Scientist Roadmap")
	assert.Contains(t, out, "Career: Data Scientist\nExperience: beginner\nGoals: machine learning")
	assert.NotContains(t, out, "sk-test")

	state, err := flow.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, roadmapagent.SourceModel, state.Source)
}

func TestInteractive_BlankAnswerIsRejected(t *testing.T) {
	reply, err := sonic.MarshalString(generator.DemoRoadmap("Nurse"))
	require.NoError(t, err)
	chatModel := modeltest.Reply(reply)
	var keys []string
	flow := testFlow(chatModel, &keys)

	out := runScript(t, flow, "sk-test", "", "Nurse", "none", "care", "quit")

	assert.Contains(t, out, "Career Field is required")
	assert.Equal(t, 1, chatModel.CallCount())
}

func TestInteractive_DemoWithoutKey(t *testing.T) {
	chatModel := modeltest.Reply("{}")
	var keys []string
	flow := testFlow(chatModel, &keys)

	out := runScript(t, flow, "demo", "quit")

	assert.Empty(t, keys)
	assert.Equal(t, 0, chatModel.CallCount())
	assert.Contains(t, out, "# Software Developer Roadmap")
}

func TestInteractive_FallbackOnBadReply(t *testing.T) {
	chatModel := modeltest.Reply("I cannot help with that.")
	var keys []string
	flow := testFlow(chatModel, &keys)

	out := runScript(t, flow, "sk-test", "Chef", "beginner", "open a restaurant", "quit")

	assert.Contains(t, out, "# Chef Roadmap")
	state, err := flow.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, roadmapagent.SourceFallback, state.Source)
}

func TestInteractive_ResetKeepsKey(t *testing.T) {
	reply, err := sonic.MarshalString(generator.DemoRoadmap("Pilot"))
	require.NoError(t, err)
	chatModel := modeltest.Reply(reply)
	var keys []string
	flow := testFlow(chatModel, &keys)

	runScript(t, flow, "sk-test", "Pilot", "none", "fly", "reset", "Pilot", "some", "fly far", "quit")

	assert.Len(t, keys, 1)
	assert.Equal(t, 2, chatModel.CallCount())
}

func TestInteractive_EOFEndsSession(t *testing.T) {
	var keys []string
	flow := testFlow(modeltest.Reply("{}"), &keys)
	var out bytes.Buffer
	session := newInteractiveSession(flow, strings.NewReader(""), &out, nil, false)
	assert.NoError(t, session.Run(context.Background()))
}

func TestInteractive_CommandWordsAreFormAnswers(t *testing.T) {
	reply, err := sonic.MarshalString(generator.DemoRoadmap("q"))
	require.NoError(t, err)
	chatModel := modeltest.Reply(reply)
	var keys []string
	flow := testFlow(chatModel, &keys)

	runScript(t, flow, "sk-test", "q", "new", "?", "quit")

	assert.Equal(t, 1, chatModel.CallCount())
	state, err := flow.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "q", state.Form.Career)
	assert.Equal(t, "new", state.Form.ExperienceLevel)
	assert.Equal(t, "?", state.Form.Goals)
}

func TestInteractive_SlashCommandsWhileCollecting(t *testing.T) {
	chatModel := modeltest.Reply("{}")
	var keys []string
	flow := testFlow(chatModel, &keys)

	out := runScript(t, flow, "sk-test", "Nurse", "/help", "/quit", "never read")

	assert.Contains(t, out, "prefix commands with '/'")
	assert.Equal(t, 0, chatModel.CallCount())
}

func TestInteractive_ShowAllFields(t *testing.T) {
	var keys []string
	flow := testFlow(modeltest.Reply("{}"), &keys)

	out := runScriptWith(t, flow, true, "sk-test", "/quit")

	prompt := out[strings.Index(out, "Career Field"):]
	assert.Contains(t, prompt, "Current Experience Level")
	assert.Contains(t, prompt, "Career Goals & Interests")
}
