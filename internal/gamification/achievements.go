package gamification

import (
	"context"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/pubsub"
)

const (
	AchievementHalfCentury   = "half-century"
	AchievementCentury       = "century"
	AchievementThreeWickets  = "three-wicket-haul"
	AchievementFiveWickets   = "five-wicket-haul"
	AchievementMaidenOver    = "maiden-over"
	AchievementPlayerOfMatch = "player-of-the-match"
)

// AchievementAwarded is published once per player milestone.
type AchievementAwarded struct {
	MatchID     uint   `msgpack:"match_id"`
	PlayerID    uint   `msgpack:"player_id"`
	Achievement string `msgpack:"achievement"`
	Value       int    `msgpack:"value"`
}

type Achievements struct {
	reader PerformanceReader
	client pubsub.Client
}

func NewAchievements(reader PerformanceReader, client pubsub.Client) *Achievements {
	return &Achievements{reader: reader, client: client}
}

func (a *Achievements) Name() string { return "achievements" }

func (a *Achievements) OnMatchCompleted(ctx context.Context, m *match.Match, innings []match.Innings) error {
	perfs, err := load(ctx, a.reader, innings)
	if err != nil {
		return err
	}
	for _, award := range Awards(m, perfs.lines()) {
		if err := a.client.SendMessage(ctx, pubsub.TopicAchievements, award); err != nil {
			return err
		}
	}
	return nil
}

// Awards lists the milestones reached in one match. A century does not also
// earn a half-century, nor five wickets a three-wicket haul.
func Awards(m *match.Match, lines []*PlayerLine) []AchievementAwarded {
	var out []AchievementAwarded
	award := func(playerID uint, name string, value int) {
		out = append(out, AchievementAwarded{MatchID: m.ID, PlayerID: playerID, Achievement: name, Value: value})
	}
	for _, l := range lines {
		switch {
		case l.Runs >= 100:
			award(l.PlayerID, AchievementCentury, l.Runs)
		case l.Runs >= 50:
			award(l.PlayerID, AchievementHalfCentury, l.Runs)
		}
		switch {
		case l.Wickets >= 5:
			award(l.PlayerID, AchievementFiveWickets, l.Wickets)
		case l.Wickets >= 3:
			award(l.PlayerID, AchievementThreeWickets, l.Wickets)
		}
		if l.Maidens > 0 {
			award(l.PlayerID, AchievementMaidenOver, l.Maidens)
		}
	}
	if m.ManOfMatchID != nil {
		award(*m.ManOfMatchID, AchievementPlayerOfMatch, 1)
	}
	return out
}
