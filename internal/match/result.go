package match

import (
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/internal/standings"
	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
)

// MatchResult is the outcome of a completed match.
type MatchResult struct {
	MatchID         uint       `json:"match_id"`
	WinnerID        uint       `json:"winner_id"`
	LoserID         uint       `json:"loser_id"`
	Margin          int        `json:"margin"`
	MarginType      MarginType `json:"margin_type"`
	ResultText      string     `json:"result_text"`
	ManOfMatchID    *uint      `json:"man_of_match_id,omitempty"`
	ManOfMatchScore float64    `json:"man_of_match_score,omitempty"`
}

// DecideResult compares the two innings. The chasing side wins only by
// passing the first-innings total; otherwise the side batting first wins by
// the run difference, which is 0 for equal totals.
func DecideResult(first, second *Innings) MatchResult {
	if second.TotalRuns > first.TotalRuns {
		return MatchResult{
			MatchID:    first.MatchID,
			WinnerID:   second.BattingTeamID,
			LoserID:    second.BowlingTeamID,
			Margin:     MaxWickets - second.TotalWickets,
			MarginType: MarginWickets,
		}
	}
	return MatchResult{
		MatchID:    first.MatchID,
		WinnerID:   first.BattingTeamID,
		LoserID:    first.BowlingTeamID,
		Margin:     first.TotalRuns - second.TotalRuns,
		MarginType: MarginRuns,
	}
}

// FormatResult renders "<team> won by <margin> <runs|wickets>".
func FormatResult(winnerName string, margin int, marginType MarginType) string {
	unit := string(marginType)
	if margin == 1 {
		unit = unit[:len(unit)-1]
	}
	return fmt.Sprintf("%s won by %d %s", winnerName, margin, unit)
}

func fallbackTeamName(teamID uint) string {
	return fmt.Sprintf("Team %d", teamID)
}

// PlayerImpact is a player's man-of-the-match score across both innings.
type PlayerImpact struct {
	PlayerID     uint    `json:"player_id"`
	Runs         int     `json:"runs"`
	BallsFaced   int     `json:"balls_faced"`
	Wickets      int     `json:"wickets"`
	RunsConceded int     `json:"runs_conceded"`
	BallsBowled  int     `json:"balls_bowled"`
	Score        float64 `json:"score"`
}

const (
	strikeRateBonusThreshold = 150
	strikeRateBonus          = 20
	economyBonusThreshold    = 6
	economyBonus             = 15
)

func (p *PlayerImpact) score() float64 {
	score := float64(p.Runs)*1.5 + float64(p.Wickets)*25
	if p.BallsFaced > 0 && cricmath.StrikeRate(p.Runs, p.BallsFaced) > strikeRateBonusThreshold {
		score += strikeRateBonus
	}
	if p.BallsBowled > 0 && cricmath.EconomyRate(p.RunsConceded, p.BallsBowled) < economyBonusThreshold {
		score += economyBonus
	}
	return score
}

// RankImpact scores every player with a batting or bowling row, in order of
// first appearance (batting rows, then bowling rows).
func RankImpact(batting []BattingPerformance, bowling []BowlingPerformance) []PlayerImpact {
	index := make(map[uint]int)
	var players []PlayerImpact
	get := func(id uint) *PlayerImpact {
		i, ok := index[id]
		if !ok {
			i = len(players)
			index[id] = i
			players = append(players, PlayerImpact{PlayerID: id})
		}
		return &players[i]
	}

	for _, b := range batting {
		p := get(b.PlayerID)
		p.Runs += b.Runs
		p.BallsFaced += b.BallsFaced
	}
	for _, b := range bowling {
		p := get(b.PlayerID)
		p.Wickets += b.Wickets
		p.RunsConceded += b.RunsConceded
		p.BallsBowled += b.BallsBowled
	}
	for i := range players {
		players[i].Score = players[i].score()
	}
	return players
}

// SelectManOfMatch returns the highest-scoring player; the earliest wins ties.
func SelectManOfMatch(batting []BattingPerformance, bowling []BowlingPerformance) (PlayerImpact, bool) {
	players := RankImpact(batting, bowling)
	if len(players) == 0 {
		return PlayerImpact{}, false
	}
	best := players[0]
	for _, p := range players[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, true
}

// standingsOutcome is what the points table needs from a completed match.
func standingsOutcome(match *Match, result MatchResult, innings []Innings) standings.Outcome {
	outcome := standings.Outcome{
		MatchID:  match.ID,
		WinnerID: result.WinnerID,
		LoserID:  result.LoserID,
	}
	if match.TournamentID != nil {
		outcome.TournamentID = *match.TournamentID
	}
	for _, in := range innings {
		outcome.Innings = append(outcome.Innings, standings.InningsLine{
			BattingTeamID: in.BattingTeamID,
			BowlingTeamID: in.BowlingTeamID,
			Runs:          in.TotalRuns,
			LegalBalls:    in.LegalBalls,
		})
	}
	return outcome
}
