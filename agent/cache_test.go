package agent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/roadmapagent"
	"github.com/tbxark/roadmapagent/modeltest"
	"github.com/tbxark/roadmapagent/types"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryCache_NoTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(0, 0)}
	cache := NewMemoryCache[string](withClock(clock.Now))

	require.NoError(t, cache.Set(ctx, "a", "1"))
	clock.Advance(1000 * time.Hour)

	val, ok, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", val)
	assert.Equal(t, 0, cache.Sweep())
}

func TestMemoryCache_IdleTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(0, 0)}
	cache := NewMemoryCache[string](WithIdleTTL(time.Hour), withClock(clock.Now))

	require.NoError(t, cache.Set(ctx, "a", "1"))
	require.NoError(t, cache.Set(ctx, "b", "2"))

	clock.Advance(50 * time.Minute)
	ok, err := cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok, "reads refresh the idle timer")

	clock.Advance(50 * time.Minute)
	_, ok, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cache.Sweep(), "b idled for 100 minutes")

	clock.Advance(2 * time.Hour)
	_, ok, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryStateReadWriter_IdleTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	states := NewMemoryStateReadWriter(WithIdleTTL(time.Hour), withClock(clock.Now))
	a := WithStateKey(context.Background(), "a")
	b := WithStateKey(context.Background(), "b")

	require.NoError(t, states.Write(a, &State{Phase: types.PhaseRendered}))
	require.NoError(t, states.Write(b, &State{Phase: types.PhaseRendered}))

	clock.Advance(50 * time.Minute)
	state, err := states.Read(a)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseRendered, state.Phase)

	clock.Advance(50 * time.Minute)
	assert.Equal(t, 1, states.Sweep())
	assert.Equal(t, 1, states.Len())

	clock.Advance(2 * time.Hour)
	state, err = states.Read(a)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCollecting, state.Phase, "expired sessions start over")
	assert.Equal(t, 0, states.Len())
}

func TestRoadmapFlow_AbandonedSessionsAreFreed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	states := NewMemoryStateReadWriter(WithIdleTTL(time.Minute), withClock(clock.Now))
	adapters := NewMemoryCache[*roadmapagent.Adapter](WithIdleTTL(time.Minute), withClock(clock.Now))
	flow := NewRoadmapFlow(factoryFor(modeltest.Reply("{}")), WithStateReadWriter(states), WithAdapterCache(adapters))

	for i := 0; i < 1000; i++ {
		ctx := WithStateKey(context.Background(), fmt.Sprintf("session-%d", i))
		_, err := flow.Demo(ctx, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 1000, states.Len())
	assert.Equal(t, 0, flow.inflight.Len())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1000, states.Sweep())
	assert.Equal(t, 0, states.Len())
}

func TestStore_Namespaced(t *testing.T) {
	core := NewMemoryCache[int]()
	adapters := NewStore[int](core, "adapter", sessionKey)
	other := NewStore[int](core, "other", sessionKey)

	ctx := WithStateKey(context.Background(), "s1")
	require.NoError(t, adapters.Set(ctx, 7))

	ok, err := other.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	val, ok, err := adapters.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, val)

	_, ok, err = adapters.Get(WithStateKey(context.Background(), "s2"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, adapters.Del(ctx))
	assert.Equal(t, 0, core.Len())
}
