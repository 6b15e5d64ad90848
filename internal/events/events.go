package events

import (
	"context"

	"go.uber.org/zap"
)

// Streams
const (
	StreamCampaign = "events:campaign"
	StreamAI       = "events:ai"
)

// Event types
const (
	EventCampaignUpdated       = "campaign_updated"
	EventCampaignDeleted       = "campaign_deleted"
	EventCampaignHealthChanged = "campaign_health_changed"
	EventAIGenerationCompleted = "ai_generation_completed"
	EventAIGenerationFailed    = "ai_generation_failed"
)

var Streams = []string{StreamCampaign, StreamAI}

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

// Subscriber delivers events on stream to handler until ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }

// dispatch runs handler and logs a panic instead of propagating it.
func dispatch(log *zap.Logger, stream string, event Event, handler func(Event)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked",
				zap.String("stream", stream),
				zap.String("type", event.Type),
				zap.Any("panic", r),
			)
		}
	}()
	handler(event)
}
