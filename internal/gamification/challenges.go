package gamification

import (
	"context"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/pubsub"
)

// ChallengeProgress carries every player's figures so the challenge service
// can advance running targets (season runs, sixes, wickets).
type ChallengeProgress struct {
	MatchID  uint         `msgpack:"match_id"`
	WinnerID uint         `msgpack:"winner_id"`
	Players  []PlayerLine `msgpack:"players"`
}

type Challenges struct {
	reader PerformanceReader
	client pubsub.Client
}

func NewChallenges(reader PerformanceReader, client pubsub.Client) *Challenges {
	return &Challenges{reader: reader, client: client}
}

func (c *Challenges) Name() string { return "challenges" }

func (c *Challenges) OnMatchCompleted(ctx context.Context, m *match.Match, innings []match.Innings) error {
	perfs, err := load(ctx, c.reader, innings)
	if err != nil {
		return err
	}
	progress := ChallengeProgress{MatchID: m.ID}
	if m.WinnerID != nil {
		progress.WinnerID = *m.WinnerID
	}
	for _, l := range perfs.lines() {
		progress.Players = append(progress.Players, *l)
	}
	return c.client.SendMessage(ctx, pubsub.TopicChallenges, progress)
}
