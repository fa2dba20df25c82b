package testcases

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/roadmapagent/provider"
)

// Live tests talk to a real provider. They only run when explicitly enabled.
const (
	envRunLive  = "ROADMAPAGENT_RUN_LIVE_TESTS"
	envAPIKey   = "ROADMAPAGENT_TEST_API_KEY"
	envProvider = "ROADMAPAGENT_TEST_PROVIDER"
	envModel    = "ROADMAPAGENT_TEST_MODEL"
	envBaseURL  = "ROADMAPAGENT_TEST_BASE_URL"
)

func LiveConfig(t *testing.T) (provider.Config, string) {
	t.Helper()
	if os.Getenv(envRunLive) != "1" {
		t.Skipf("set %s=1 to run live model tests", envRunLive)
	}
	apiKey := os.Getenv(envAPIKey)
	if apiKey == "" {
		t.Skipf("%s is empty", envAPIKey)
	}
	kind, err := provider.ParseKind(os.Getenv(envProvider))
	if err != nil {
		t.Fatalf("invalid %s: %v", envProvider, err)
	}
	return provider.Config{
		Kind:    kind,
		Model:   os.Getenv(envModel),
		BaseURL: os.Getenv(envBaseURL),
		Timeout: 90 * time.Second,
	}, apiKey
}

func InitChatModel(t *testing.T) model.ToolCallingChatModel {
	t.Helper()
	conf, apiKey := LiveConfig(t)
	factory, err := provider.NewFactory(conf)
	if err != nil {
		t.Fatalf("failed to create provider factory: %v", err)
	}
	chatModel, err := factory(context.Background(), apiKey)
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
	}
	return chatModel
}
