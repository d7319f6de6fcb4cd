package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/pubsub"
)

// WireEvent is the msgpack envelope written to the events topic. The
// payload stays JSON so consumers decode it with the same field names as
// the websocket stream.
type WireEvent struct {
	ID         string    `msgpack:"id"`
	Type       string    `msgpack:"type"`
	MatchID    uint      `msgpack:"match_id"`
	InningsID  uint      `msgpack:"innings_id"`
	OccurredAt time.Time `msgpack:"occurred_at"`
	Payload    []byte    `msgpack:"payload"`
}

// PubSubPublisher forwards every event to one Pub/Sub topic.
type PubSubPublisher struct {
	client pubsub.Client
	topic  string
}

var _ match.Broadcaster = (*PubSubPublisher)(nil)

func NewPubSubPublisher(client pubsub.Client, topic string) *PubSubPublisher {
	if topic == "" {
		topic = pubsub.TopicScoringEvents
	}
	return &PubSubPublisher{client: client, topic: topic}
}

func (p *PubSubPublisher) Publish(ctx context.Context, event match.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event.Type, err)
	}
	return p.client.SendMessage(ctx, p.topic, WireEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		MatchID:    event.MatchID,
		InningsID:  event.InningsID,
		OccurredAt: event.OccurredAt,
		Payload:    payload,
	})
}
