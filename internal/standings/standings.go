package standings

import "github.com/DhavalSuthar-24/crickscore/pkg/cricmath"

const PointsForWin = 2

// InningsLine is the part of an innings the table needs.
type InningsLine struct {
	BattingTeamID uint `json:"batting_team_id"`
	BowlingTeamID uint `json:"bowling_team_id"`
	Runs          int  `json:"runs"`
	LegalBalls    int  `json:"legal_balls"`
}

// Outcome is a completed tournament match as seen by the points table.
type Outcome struct {
	MatchID      uint          `json:"match_id"`
	TournamentID uint          `json:"tournament_id"`
	WinnerID     uint          `json:"winner_id"`
	LoserID      uint          `json:"loser_id"`
	Innings      []InningsLine `json:"innings"`
}

// Apply returns entry after outcome. entry must belong to the winner or the loser.
func Apply(entry PointsTableEntry, outcome Outcome) PointsTableEntry {
	entry.Played++
	switch entry.TeamID {
	case outcome.WinnerID:
		entry.Won++
		entry.Points += PointsForWin
	case outcome.LoserID:
		entry.Lost++
	}

	for _, in := range outcome.Innings {
		switch entry.TeamID {
		case in.BattingTeamID:
			entry.RunsFor += in.Runs
			entry.BallsFor += in.LegalBalls
		case in.BowlingTeamID:
			entry.RunsAgainst += in.Runs
			entry.BallsAgainst += in.LegalBalls
		}
	}

	entry.OversFor = cricmath.BallsToOvers(entry.BallsFor)
	entry.OversAgainst = cricmath.BallsToOvers(entry.BallsAgainst)
	entry.NetRunRate = cricmath.NetRunRate(entry.RunsFor, entry.BallsFor, entry.RunsAgainst, entry.BallsAgainst)
	return entry
}
