package handlers

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/adstronaut/backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseStreams(t *testing.T) {
	tests := []struct {
		query string
		want  map[string]bool
	}{
		{"", nil},
		{"campaign", map[string]bool{events.StreamCampaign: true}},
		{"events:ai, campaign", map[string]bool{events.StreamAI: true, events.StreamCampaign: true}},
		{"billing", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseStreams(tt.query), "query %q", tt.query)
	}
}

func TestWSHubSlowClientDoesNotStallOthers(t *testing.T) {
	h := NewWSHub(nil, nil, zap.NewNop())

	release := make(chan struct{})
	slow := h.register(nil)
	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		h.writeLoop(slow, func([]byte) error { <-release; return nil }, func() {})
	}()

	received := make(chan []byte, 256)
	fast := h.register(map[string]bool{events.StreamCampaign: true})
	fastDone := make(chan struct{})
	go func() {
		defer close(fastDone)
		h.writeLoop(fast, func(b []byte) error { received <- b; return nil }, func() {})
	}()

	aiOnly := h.register(map[string]bool{events.StreamAI: true})
	require.Equal(t, 3, h.Clients())

	for i := 0; i < 5; i++ {
		h.broadcast(events.StreamCampaign, events.Event{Type: events.EventCampaignUpdated, Payload: map[string]any{"n": i}})
	}
	for i := 0; i < 5; i++ {
		select {
		case b := <-received:
			var msg wsMessage
			require.NoError(t, json.Unmarshal(b, &msg))
			assert.Equal(t, events.StreamCampaign, msg.Stream)
			assert.Equal(t, events.EventCampaignUpdated, msg.Type)
		case <-time.After(time.Second):
			t.Fatal("fast client starved by slow client")
		}
	}
	assert.Empty(t, aiOnly.send)

	flooded := make(chan struct{})
	go func() {
		defer close(flooded)
		for i := 0; i < wsSendBuffer*3; i++ {
			h.broadcast(events.StreamCampaign, events.Event{Type: events.EventCampaignUpdated})
		}
	}()
	select {
	case <-flooded:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client queue")
	}

	close(release)
	h.unregister(slow)
	h.unregister(fast)
	h.unregister(aiOnly)
	h.unregister(aiOnly)
	<-slowDone
	<-fastDone
	assert.Zero(t, h.Clients())
}

func TestWSHubWriteErrorClosesOnce(t *testing.T) {
	h := NewWSHub(nil, nil, zap.NewNop())
	cl := h.register(nil)

	closed := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(cl, func([]byte) error { return errors.New("broken pipe") }, func() { closed++ })
	}()

	h.broadcast(events.StreamAI, events.Event{Type: events.EventAIGenerationFailed})
	h.broadcast(events.StreamAI, events.Event{Type: events.EventAIGenerationFailed})
	h.unregister(cl)
	<-done
	assert.Equal(t, 1, closed)
}
