package gamification

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/pubsub"
)

// PerformanceReader loads the per-player rows of finished innings.
type PerformanceReader interface {
	ListBattingPerformances(ctx context.Context, inningsIDs ...uint) ([]match.BattingPerformance, error)
	ListBowlingPerformances(ctx context.Context, inningsIDs ...uint) ([]match.BowlingPerformance, error)
}

// Hooks builds the three completion hooks sharing one reader and client.
func Hooks(reader PerformanceReader, client pubsub.Client) []match.CompletionHook {
	return []match.CompletionHook{
		NewAchievements(reader, client),
		NewChallenges(reader, client),
		NewFantasy(reader, client, DefaultFantasyRules()),
	}
}

type performances struct {
	batting []match.BattingPerformance
	bowling []match.BowlingPerformance
}

func load(ctx context.Context, reader PerformanceReader, innings []match.Innings) (*performances, error) {
	ids := make([]uint, 0, len(innings))
	for _, in := range innings {
		ids = append(ids, in.ID)
	}
	batting, err := reader.ListBattingPerformances(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load batting rows: %w", err)
	}
	bowling, err := reader.ListBowlingPerformances(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load bowling rows: %w", err)
	}
	return &performances{batting: batting, bowling: bowling}, nil
}

// PlayerLine is one player's combined match figures.
type PlayerLine struct {
	PlayerID     uint `msgpack:"player_id"`
	TeamID       uint `msgpack:"team_id"`
	Runs         int  `msgpack:"runs"`
	BallsFaced   int  `msgpack:"balls_faced"`
	Fours        int  `msgpack:"fours"`
	Sixes        int  `msgpack:"sixes"`
	Out          bool `msgpack:"out"`
	Wickets      int  `msgpack:"wickets"`
	Maidens      int  `msgpack:"maidens"`
	BallsBowled  int  `msgpack:"balls_bowled"`
	RunsConceded int  `msgpack:"runs_conceded"`
	Catches      int  `msgpack:"catches"`
	Stumpings    int  `msgpack:"stumpings"`
	RunOuts      int  `msgpack:"run_outs"`
}

// lines merges batting, bowling and fielding into one line per player, in
// first-appearance order.
func (p *performances) lines() []*PlayerLine {
	byID := make(map[uint]*PlayerLine)
	var order []*PlayerLine
	get := func(playerID, teamID uint) *PlayerLine {
		l, ok := byID[playerID]
		if !ok {
			l = &PlayerLine{PlayerID: playerID, TeamID: teamID}
			byID[playerID] = l
			order = append(order, l)
		}
		if l.TeamID == 0 {
			l.TeamID = teamID
		}
		return l
	}

	for _, b := range p.batting {
		l := get(b.PlayerID, b.TeamID)
		l.Runs += b.Runs
		l.BallsFaced += b.BallsFaced
		l.Fours += b.Fours
		l.Sixes += b.Sixes
		if b.IsOut {
			l.Out = true
		}
	}
	for _, b := range p.bowling {
		l := get(b.PlayerID, b.TeamID)
		l.Wickets += b.Wickets
		l.Maidens += b.Maidens
		l.BallsBowled += b.BallsBowled
		l.RunsConceded += b.RunsConceded
	}
	for _, b := range p.batting {
		if !b.IsOut || b.Dismissal == nil || b.FielderID == nil {
			continue
		}
		l := get(*b.FielderID, 0)
		switch *b.Dismissal {
		case match.WicketCaught:
			l.Catches++
		case match.WicketStumped:
			l.Stumpings++
		case match.WicketRunOut:
			l.RunOuts++
		}
	}
	return order
}
