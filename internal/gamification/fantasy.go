package gamification

import (
	"context"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/pubsub"
)

// FantasyRules is the points table.
type FantasyRules struct {
	Run           int
	FourBonus     int
	SixBonus      int
	FiftyBonus    int
	HundredBonus  int
	Duck          int
	Wicket        int
	ThreeWktBonus int
	FiveWktBonus  int
	Maiden        int
	Catch         int
	Stumping      int
	RunOut        int
}

func DefaultFantasyRules() FantasyRules {
	return FantasyRules{
		Run:           1,
		FourBonus:     1,
		SixBonus:      2,
		FiftyBonus:    8,
		HundredBonus:  16,
		Duck:          -2,
		Wicket:        25,
		ThreeWktBonus: 4,
		FiveWktBonus:  16,
		Maiden:        12,
		Catch:         8,
		Stumping:      12,
		RunOut:        6,
	}
}

// Points scores one player line.
func (r FantasyRules) Points(l PlayerLine) int {
	p := l.Runs*r.Run + l.Fours*r.FourBonus + l.Sixes*r.SixBonus
	switch {
	case l.Runs >= 100:
		p += r.HundredBonus
	case l.Runs >= 50:
		p += r.FiftyBonus
	}
	if l.Out && l.Runs == 0 && l.BallsFaced > 0 {
		p += r.Duck
	}

	p += l.Wickets*r.Wicket + l.Maidens*r.Maiden
	switch {
	case l.Wickets >= 5:
		p += r.FiveWktBonus
	case l.Wickets >= 3:
		p += r.ThreeWktBonus
	}

	p += l.Catches*r.Catch + l.Stumpings*r.Stumping + l.RunOuts*r.RunOut
	return p
}

// FantasyScore is published once per match.
type FantasyScore struct {
	MatchID uint                `msgpack:"match_id"`
	Points  []FantasyPlayerLine `msgpack:"points"`
}

type FantasyPlayerLine struct {
	PlayerID uint `msgpack:"player_id"`
	TeamID   uint `msgpack:"team_id"`
	Points   int  `msgpack:"points"`
}

type Fantasy struct {
	reader PerformanceReader
	client pubsub.Client
	rules  FantasyRules
}

func NewFantasy(reader PerformanceReader, client pubsub.Client, rules FantasyRules) *Fantasy {
	return &Fantasy{reader: reader, client: client, rules: rules}
}

func (f *Fantasy) Name() string { return "fantasy" }

func (f *Fantasy) OnMatchCompleted(ctx context.Context, m *match.Match, innings []match.Innings) error {
	perfs, err := load(ctx, f.reader, innings)
	if err != nil {
		return err
	}
	score := FantasyScore{MatchID: m.ID}
	for _, l := range perfs.lines() {
		score.Points = append(score.Points, FantasyPlayerLine{
			PlayerID: l.PlayerID,
			TeamID:   l.TeamID,
			Points:   f.rules.Points(*l),
		})
	}
	return f.client.SendMessage(ctx, pubsub.TopicFantasyScoring, score)
}
