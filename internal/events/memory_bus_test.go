package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryBusDeliversToStreamSubscribers(t *testing.T) {
	bus := NewMemoryBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	campaign := make(chan Event, 1)
	ai := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, StreamCampaign, func(e Event) { campaign <- e }))
	require.NoError(t, bus.Subscribe(ctx, StreamAI, func(e Event) { ai <- e }))

	require.NoError(t, bus.Publish(ctx, StreamCampaign, Event{Type: EventCampaignUpdated, Payload: map[string]any{"id": "1"}}))

	select {
	case e := <-campaign:
		assert.Equal(t, EventCampaignUpdated, e.Type)
		assert.Equal(t, "1", e.Payload["id"])
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case e := <-ai:
		t.Fatalf("unexpected event on ai stream: %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBusUnsubscribesOnCancel(t *testing.T) {
	bus := NewMemoryBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, bus.Subscribe(ctx, StreamCampaign, func(Event) {}))
	cancel()

	assert.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subs) == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), StreamCampaign, Event{Type: EventCampaignUpdated}))
}

func TestMemoryBusDropsWhenFull(t *testing.T) {
	bus := NewMemoryBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	require.NoError(t, bus.Subscribe(ctx, StreamAI, func(Event) { <-release }))

	for i := 0; i < memoryBufferSize*2; i++ {
		require.NoError(t, bus.Publish(ctx, StreamAI, Event{Type: EventAIGenerationCompleted}))
	}
	close(release)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), StreamCampaign, Event{}))
}

func TestMemoryBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewMemoryBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 1)
	require.NoError(t, bus.Subscribe(ctx, StreamCampaign, func(e Event) {
		if e.Type == EventCampaignDeleted {
			panic("boom")
		}
		got <- e.Type
	}))

	require.NoError(t, bus.Publish(ctx, StreamCampaign, Event{Type: EventCampaignDeleted}))
	require.NoError(t, bus.Publish(ctx, StreamCampaign, Event{Type: EventCampaignUpdated}))

	select {
	case typ := <-got:
		assert.Equal(t, EventCampaignUpdated, typ)
	case <-time.After(time.Second):
		t.Fatal("subscription stopped after handler panic")
	}
}
