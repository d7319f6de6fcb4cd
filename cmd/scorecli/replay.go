package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/standings"
	"github.com/DhavalSuthar-24/crickscore/internal/team"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Fixture is a recorded match: two squads, the toss and every delivery.
type Fixture struct {
	Format      match.MatchFormat `json:"format"`
	CustomOvers *int              `json:"custom_overs,omitempty"`
	Venue       string            `json:"venue,omitempty"`
	Teams       [2]FixtureTeam    `json:"teams"`
	Toss        FixtureToss       `json:"toss"`
	Innings     []FixtureInnings  `json:"innings"`
}

type FixtureTeam struct {
	Name    string `json:"name"`
	Players []uint `json:"players"`
}

type FixtureToss struct {
	// Winner is the index of the winning side in Teams.
	Winner   int                `json:"winner"`
	Decision match.TossDecision `json:"decision"`
}

type FixtureInnings struct {
	Deliveries []FixtureDelivery `json:"deliveries"`
}

type FixtureDelivery struct {
	Bowler  uint            `json:"bowler"`
	Striker uint            `json:"striker"`
	Event   match.BallEvent `json:"event"`
}

// Replay drives the engine through the fixture on db and writes the result
// and scorecard to out.
func Replay(ctx context.Context, db *gorm.DB, f Fixture, log *logrus.Logger, out io.Writer) error {
	if f.Toss.Winner < 0 || f.Toss.Winner > 1 {
		return fmt.Errorf("toss winner must be 0 or 1, got %d", f.Toss.Winner)
	}
	if len(f.Innings) > 2 {
		return fmt.Errorf("a match has at most two innings, fixture has %d", len(f.Innings))
	}

	teams := team.NewTeamRepository(db)
	svc := match.NewService(match.NewGormMatchRepository(db), match.Dependencies{
		Squads:    teams,
		Teams:     teams,
		Standings: standings.NewService(standings.NewGormStandingsRepository(db), log),
		Logger:    log,
	}, match.Config{MinSquadSize: 1})
	defer svc.Wait()

	var teamIDs [2]uint
	for i, ft := range f.Teams {
		t := &team.Team{Name: ft.Name}
		if err := teams.CreateTeam(ctx, t); err != nil {
			return fmt.Errorf("create team %q: %w", ft.Name, err)
		}
		teamIDs[i] = t.ID
	}

	m, err := svc.CreateMatch(ctx, match.CreateMatchInput{
		Team1ID:     teamIDs[0],
		Team2ID:     teamIDs[1],
		Venue:       f.Venue,
		ScheduledAt: time.Now().UTC(),
		Format:      f.Format,
		CustomOvers: f.CustomOvers,
		IsAdHoc:     true,
	})
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	for i, ft := range f.Teams {
		for _, p := range ft.Players {
			if _, err := svc.AddSquadPlayer(ctx, m.ID, teamIDs[i], p); err != nil {
				return fmt.Errorf("add player %d to %s: %w", p, ft.Name, err)
			}
		}
	}

	toss, err := svc.RecordToss(ctx, m.ID, teamIDs[f.Toss.Winner], f.Toss.Decision)
	if err != nil {
		return fmt.Errorf("toss: %w", err)
	}

	innings := toss.Innings
	for n, fi := range f.Innings {
		if n > 0 {
			if innings, err = svc.StartInnings(ctx, m.ID, n+1); err != nil {
				return fmt.Errorf("start innings %d: %w", n+1, err)
			}
		}
		for i, d := range fi.Deliveries {
			if _, err := svc.RecordBall(ctx, innings.ID, d.Bowler, d.Striker, d.Event); err != nil {
				return fmt.Errorf("innings %d delivery %d: %w", n+1, i+1, err)
			}
		}
		if _, err := svc.CompleteInnings(ctx, innings.ID); err != nil {
			return fmt.Errorf("complete innings %d: %w", n+1, err)
		}
	}

	if len(f.Innings) == 2 {
		result, err := svc.CompleteMatch(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("complete match: %w", err)
		}
		fmt.Fprintln(out, result.ResultText)
		if result.ManOfMatchID != nil {
			fmt.Fprintf(out, "Player of the match: #%d (%.1f)\n", *result.ManOfMatchID, result.ManOfMatchScore)
		}
	}

	card, err := svc.GetScorecard(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("scorecard: %w", err)
	}
	names := map[uint]string{teamIDs[0]: f.Teams[0].Name, teamIDs[1]: f.Teams[1].Name}
	return printScorecard(out, card, names)
}

func printScorecard(out io.Writer, card *match.Scorecard, names map[uint]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, in := range card.Innings {
		fmt.Fprintf(w, "\n%s %d/%d (%s ov, RR %.2f, extras %d)\n",
			names[in.Innings.BattingTeamID], in.Innings.TotalRuns, in.Innings.TotalWickets,
			in.Innings.TotalOvers.String(), in.RunRate, in.Innings.Extras)

		fmt.Fprintln(w, "Batter\tR\tB\t4s\t6s\tSR\tDismissal")
		for _, b := range in.Batting {
			dismissal := "not out"
			if b.IsOut && b.Dismissal != nil {
				dismissal = string(*b.Dismissal)
			}
			fmt.Fprintf(w, "#%d\t%d\t%d\t%d\t%d\t%.2f\t%s\n", b.PlayerID, b.Runs, b.BallsFaced, b.Fours, b.Sixes, b.StrikeRate, dismissal)
		}

		fmt.Fprintln(w, "Bowler\tO\tM\tR\tW\tEcon")
		for _, b := range in.Bowling {
			fmt.Fprintf(w, "#%d\t%s\t%d\t%d\t%d\t%.2f\n", b.PlayerID, b.OversBowled.String(), b.Maidens, b.RunsConceded, b.Wickets, b.EconomyRate)
		}
	}
	return w.Flush()
}
