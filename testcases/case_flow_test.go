package testcases

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/adk"

	"github.com/tbxark/roadmapagent/agent"
	"github.com/tbxark/roadmapagent/provider"
	"github.com/tbxark/roadmapagent/types"
)

// TestFlow_RunnerEndToEnd 经由 adk.Runner 提交表单并取回渲染后的状态
func TestFlow_RunnerEndToEnd(t *testing.T) {
	conf, apiKey := LiveConfig(t)
	factory, err := provider.NewFactory(conf)
	if err != nil {
		t.Fatalf("failed to create factory: %v", err)
	}
	flow := agent.NewRoadmapFlow(agent.ProviderAdapterFactory(factory))
	ctx := agent.WithStateKey(context.Background(), "live")

	if _, err := flow.Invoke(ctx, &types.Request{Career: "UX Designer"}); !errors.Is(err, agent.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured before the key is set, got %v", err)
	}
	if err := flow.Configure(ctx, apiKey); err != nil {
		t.Fatalf("configure failed: %v", err)
	}

	msg, err := agent.EncodeRequest(&types.Request{
		Career:          "UX Designer",
		ExperienceLevel: "2 years as a graphic designer",
		Goals:           "Move into product design at a startup",
	})
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: agent.NewAgent("RoadmapGenerator", "Generates career roadmaps", flow),
	})
	iter := runner.Run(ctx, []adk.Message{msg})
	var state *agent.State
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		if event.Err != nil {
			t.Fatalf("agent failed: %v", event.Err)
		}
		out, err := event.Output.MessageOutput.GetMessage()
		if err != nil {
			t.Fatalf("get message: %v", err)
		}
		state, err = agent.DecodeState(out.Content)
		if err != nil {
			t.Fatalf("decode state: %v", err)
		}
	}
	if state == nil || state.Roadmap == nil {
		t.Fatal("no roadmap rendered")
	}
	if state.Phase != types.PhaseRendered {
		t.Errorf("expected phase %q, got %q", types.PhaseRendered, state.Phase)
	}
	t.Logf("source=%s career=%s paths=%d", state.Source, state.Roadmap.Career, len(state.Roadmap.Paths))
}
