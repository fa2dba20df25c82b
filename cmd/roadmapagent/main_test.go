package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/roadmapagent/agent"
)

func TestNewFlow_SweepsIdleSessions(t *testing.T) {
	conf := defaultConfig()
	conf.SessionTTL = "1ms"
	flow, stores, err := newFlow(conf)
	require.NoError(t, err)
	require.Len(t, stores, 2)

	for i := 0; i < 20; i++ {
		ctx := agent.WithStateKey(context.Background(), fmt.Sprintf("s%d", i))
		_, err := flow.Demo(ctx, "")
		require.NoError(t, err)
	}
	time.Sleep(10 * time.Millisecond)

	removed := 0
	for _, store := range stores {
		removed += store.Sweep()
	}
	assert.Equal(t, 20, removed)
}

func TestSweepSessions_StopsWithContext(t *testing.T) {
	conf := defaultConfig()
	conf.SessionTTL = "1ms"
	flow, stores, err := newFlow(conf)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, time.Millisecond, stores...)
		close(done)
	}()

	_, err = flow.Demo(agent.WithStateKey(context.Background(), "s"), "")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return stores[1].(*agent.MemoryStateReadWriter).Len() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
