package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tbxark/roadmapagent"
	"github.com/tbxark/roadmapagent/generator"
	"github.com/tbxark/roadmapagent/provider"
	"github.com/tbxark/roadmapagent/types"
)

// AdapterFactory builds an adapter once the session supplies its credential.
type AdapterFactory func(ctx context.Context, apiKey string) (*roadmapagent.Adapter, error)

// ProviderAdapterFactory wires a provider factory into an AdapterFactory.
func ProviderAdapterFactory(factory provider.Factory, opts ...roadmapagent.Option) AdapterFactory {
	return func(ctx context.Context, apiKey string) (*roadmapagent.Adapter, error) {
		chatModel, err := factory(ctx, apiKey)
		if err != nil {
			if errors.Is(err, provider.ErrMissingAPIKey) {
				return nil, ErrNotConfigured
			}
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return roadmapagent.NewAdapter(chatModel, opts...)
	}
}

type Response struct {
	Message string `json:"message,omitempty"`
	State   *State `json:"state"`
}

// RoadmapFlow is the session controller behind every front end.
type RoadmapFlow struct {
	spec       FormSpec[*types.Request]
	states     StateReadWriter
	adapters   Store[*roadmapagent.Adapter]
	inflight   *InFlight
	newAdapter AdapterFactory
}

type FlowOption func(*RoadmapFlow)

func WithStateReadWriter(states StateReadWriter) FlowOption {
	return func(f *RoadmapFlow) {
		f.states = states
	}
}

func WithAdapterCache(core Cache[*roadmapagent.Adapter]) FlowOption {
	return func(f *RoadmapFlow) {
		f.adapters = NewStore(core, "adapter", sessionKey)
	}
}

// NewRoadmapFlow 创建路线图会话流程
func NewRoadmapFlow(newAdapter AdapterFactory, opts ...FlowOption) *RoadmapFlow {
	flow := &RoadmapFlow{
		spec:       RoadmapFormSpec{},
		states:     NewMemoryStateReadWriter(),
		adapters:   NewStore[*roadmapagent.Adapter](NewMemoryCache[*roadmapagent.Adapter](), "adapter", sessionKey),
		inflight:   NewInFlight(),
		newAdapter: newAdapter,
	}
	for _, opt := range opts {
		opt(flow)
	}
	return flow
}

func (f *RoadmapFlow) Spec() FormSpec[*types.Request] {
	return f.spec
}

// Configure stores the credential for the session. The key itself is never kept, only the adapter built from it.
func (f *RoadmapFlow) Configure(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrNotConfigured
	}
	adapter, err := f.newAdapter(ctx, apiKey)
	if err != nil {
		return err
	}
	if err := f.adapters.Set(ctx, adapter); err != nil {
		return fmt.Errorf("failed to store adapter: %w", err)
	}
	slog.Info("Model credential configured", "session", stateKeyOrDefault(ctx), "mode", adapter.Mode())
	return nil
}

func (f *RoadmapFlow) Configured(ctx context.Context) bool {
	ok, err := f.adapters.Exists(ctx)
	return err == nil && ok
}

// Invoke checks the credential, then blank fields, then the in-flight slot, and only then calls the adapter.
func (f *RoadmapFlow) Invoke(ctx context.Context, req *types.Request) (*Response, error) {
	if req == nil {
		req = &types.Request{}
	}
	adapter, ok, err := f.adapters.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load adapter: %w", err)
	}
	if !ok || adapter == nil {
		return nil, ErrNotConfigured
	}
	if missing := f.spec.MissingFacts(req); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	release, err := f.inflight.TryAcquire(stateKeyOrDefault(ctx))
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := f.states.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	state.Phase = types.PhaseGenerating
	state.Form = *req
	if err := f.states.Write(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to write state: %w", err)
	}

	slog.Debug("Generating roadmap", "career", req.Career)
	result := adapter.Invoke(ctx, req)
	if result.Err != nil {
		slog.Debug("Roadmap served from fallback", "career", req.Career, "error", result.Err)
	}

	state.Phase = types.PhaseRendered
	state.Roadmap = result.Roadmap
	state.Source = result.Source
	if err := f.states.Write(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to write state: %w", err)
	}
	return &Response{
		Message: fmt.Sprintf("Your %s roadmap is ready.", result.Roadmap.Career),
		State:   state,
	}, nil
}

// Demo renders the sample roadmap. It needs no credential and never calls a model.
func (f *RoadmapFlow) Demo(ctx context.Context, career string) (*Response, error) {
	if f.inflight.Busy(stateKeyOrDefault(ctx)) {
		return nil, ErrInFlight
	}
	state, err := f.states.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	roadmap := generator.DemoRoadmap(career)
	state.Phase = types.PhaseRendered
	state.Form.Career = career
	state.Roadmap = roadmap
	state.Source = ""
	if err := f.states.Write(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to write state: %w", err)
	}
	return &Response{
		Message: fmt.Sprintf("Here is a demo roadmap for %s.", roadmap.Career),
		State:   state,
	}, nil
}

// Reset discards the rendered roadmap and the form. The credential stays configured.
func (f *RoadmapFlow) Reset(ctx context.Context) (*Response, error) {
	if f.inflight.Busy(stateKeyOrDefault(ctx)) {
		return nil, ErrInFlight
	}
	if err := f.states.Remove(ctx); err != nil {
		return nil, fmt.Errorf("failed to remove state: %w", err)
	}
	return &Response{
		Message: "Ready for a new roadmap.",
		State:   f.states.InitState(ctx),
	}, nil
}

func (f *RoadmapFlow) Current(ctx context.Context) (*State, error) {
	return f.states.Read(ctx)
}

// Forget drops everything held for the session, credential included.
func (f *RoadmapFlow) Forget(ctx context.Context) error {
	if err := f.adapters.Del(ctx); err != nil {
		return err
	}
	return f.states.Remove(ctx)
}
