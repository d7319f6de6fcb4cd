package match

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventMatchStarted          EventType = "match-started"
	EventBallRecorded          EventType = "ball-recorded"
	EventWinProbabilityUpdated EventType = "win-probability-updated"
	EventInningsStarted        EventType = "innings-started"
	EventInningsCompleted      EventType = "innings-completed"
	EventMatchCompleted        EventType = "match-completed"
	EventMatchAbandoned        EventType = "match-abandoned"
)

// Event is a domain event emitted after a committed mutation.
type Event struct {
	ID         string    `json:"id" msgpack:"id"`
	Type       EventType `json:"type" msgpack:"type"`
	MatchID    uint      `json:"match_id" msgpack:"match_id"`
	InningsID  uint      `json:"innings_id,omitempty" msgpack:"innings_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at" msgpack:"occurred_at"`
	Payload    any       `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

func NewEvent(eventType EventType, matchID, inningsID uint, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		MatchID:    matchID,
		InningsID:  inningsID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Broadcaster fans domain events out to subscribers.
type Broadcaster interface {
	Publish(ctx context.Context, event Event) error
}

// BroadcasterFunc adapts a function to Broadcaster.
type BroadcasterFunc func(ctx context.Context, event Event) error

func (f BroadcasterFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// BallRecordedPayload is the snapshot carried by ball-recorded.
type BallRecordedPayload struct {
	Ball    *Ball    `json:"ball"`
	Innings *Innings `json:"innings"`
	Crease  Crease   `json:"crease"`
}

// InningsPayload is carried by innings-started and innings-completed.
type InningsPayload struct {
	Innings *Innings `json:"innings"`
}

// MatchPayload is carried by match-started, match-completed and match-abandoned.
type MatchPayload struct {
	Match  *Match       `json:"match"`
	Result *MatchResult `json:"result,omitempty"`
}
