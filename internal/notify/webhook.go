package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/events"
	"github.com/adstronaut/backend/internal/models"
	"go.uber.org/zap"
)

// Notification is the JSON body posted to the webhook. Text is ready for
// chat integrations that only read a "text" field.
type Notification struct {
	Text    string         `json:"text"`
	Stream  string         `json:"stream"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Webhook forwards noteworthy events to an HTTP endpoint.
type Webhook struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewWebhook(url string, timeout time.Duration, log *zap.Logger) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: timeout}, log: log}
}

// Message renders event as a one-line alert. ok is false for events that
// should not be forwarded.
func Message(event events.Event) (text string, ok bool) {
	str := func(k string) string {
		s, _ := event.Payload[k].(string)
		return s
	}

	switch event.Type {
	case events.EventCampaignHealthChanged:
		health := str("health")
		if health != models.HealthWarning && health != models.HealthCritical {
			return "", false
		}
		prev := str("previous_health")
		if prev == "" {
			prev = "unrated"
		}
		return fmt.Sprintf("Campaign %q on %s is now %s (was %s)", str("name"), str("platform"), health, prev), true
	case events.EventCampaignDeleted:
		return fmt.Sprintf("Campaign %q on %s was deleted", str("name"), str("platform")), true
	case events.EventAIGenerationFailed:
		// Validation failures are not alerted.
		if str("kind") == string(ai.KindInvalidInput) {
			return "", false
		}
		return fmt.Sprintf("AI %s generation failed (%s): %s", str("feature"), str("kind"), str("error")), true
	}
	return "", false
}

// Forward posts event if Message accepts it.
func (w *Webhook) Forward(ctx context.Context, stream string, event events.Event) error {
	text, ok := Message(event)
	if !ok {
		return nil
	}

	body, err := json.Marshal(Notification{Text: text, Stream: stream, Type: event.Type, Payload: event.Payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %d", resp.StatusCode)
	}
	w.log.Debug("notification forwarded", zap.String("type", event.Type))
	return nil
}

// Run subscribes to every event stream and forwards until ctx is cancelled.
func (w *Webhook) Run(ctx context.Context, subscriber events.Subscriber) error {
	for _, stream := range events.Streams {
		err := subscriber.Subscribe(ctx, stream, func(event events.Event) {
			if err := w.Forward(ctx, stream, event); err != nil {
				w.log.Warn("failed to forward notification", zap.String("type", event.Type), zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
	}
	<-ctx.Done()
	return nil
}
