package match

import (
	"context"

	"github.com/DhavalSuthar-24/crickscore/internal/standings"
)

// NotificationPort tells people outside the scoring room about a match.
type NotificationPort interface {
	NotifyMatchStart(ctx context.Context, match *Match) error
	NotifyMatchEnd(ctx context.Context, match *Match) error
}

// CompletionHook is a downstream consumer of completed matches
// (achievements, challenge progress, fantasy points).
type CompletionHook interface {
	Name() string
	OnMatchCompleted(ctx context.Context, match *Match, innings []Innings) error
}

// StandingsPort persists points-table changes for tournament matches.
type StandingsPort interface {
	RecordResult(ctx context.Context, outcome standings.Outcome) error
}

// SquadCounter counts the players a team has under active contract.
type SquadCounter interface {
	CountActiveMembers(ctx context.Context, teamID uint) (int64, error)
}

// TeamDirectory resolves display names for result text.
type TeamDirectory interface {
	TeamName(ctx context.Context, teamID uint) (string, error)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish(context.Context, Event) error { return nil }

type nopNotifier struct{}

func (nopNotifier) NotifyMatchStart(context.Context, *Match) error { return nil }
func (nopNotifier) NotifyMatchEnd(context.Context, *Match) error   { return nil }
