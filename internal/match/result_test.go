package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideResult(t *testing.T) {
	first := &Innings{MatchID: 1, BattingTeamID: 10, BowlingTeamID: 20, TotalRuns: 160, TotalWickets: 7}

	t.Run("chase succeeds", func(t *testing.T) {
		second := &Innings{MatchID: 1, BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 161, TotalWickets: 2}
		got := DecideResult(first, second)
		assert.Equal(t, uint(20), got.WinnerID)
		assert.Equal(t, uint(10), got.LoserID)
		assert.Equal(t, 8, got.Margin)
		assert.Equal(t, MarginWickets, got.MarginType)
	})

	t.Run("defence succeeds", func(t *testing.T) {
		second := &Innings{MatchID: 1, BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 140, TotalWickets: 10}
		got := DecideResult(first, second)
		assert.Equal(t, uint(10), got.WinnerID)
		assert.Equal(t, uint(20), got.LoserID)
		assert.Equal(t, 20, got.Margin)
		assert.Equal(t, MarginRuns, got.MarginType)
	})

	t.Run("equal totals go to the side batting first", func(t *testing.T) {
		second := &Innings{MatchID: 1, BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 160, TotalWickets: 4}
		got := DecideResult(first, second)
		assert.Equal(t, uint(10), got.WinnerID)
		assert.Equal(t, 0, got.Margin)
		assert.Equal(t, "Falcons won by 0 runs", FormatResult("Falcons", got.Margin, got.MarginType))
	})
}

func TestDecideResultScenarios(t *testing.T) {
	tests := []struct {
		name       string
		first      Innings
		second     Innings
		winner     uint
		margin     int
		marginType MarginType
		text       string
	}{
		{
			name:       "180/4 chased down at 181/3",
			first:      Innings{BattingTeamID: 10, BowlingTeamID: 20, TotalRuns: 180, TotalWickets: 4, LegalBalls: 120},
			second:     Innings{BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 181, TotalWickets: 3, LegalBalls: 112},
			winner:     20,
			margin:     7,
			marginType: MarginWickets,
			text:       "Hawks won by 7 wickets",
		},
		{
			name:       "150 all out defended against 140/8",
			first:      Innings{BattingTeamID: 10, BowlingTeamID: 20, TotalRuns: 150, TotalWickets: 10, LegalBalls: 116},
			second:     Innings{BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 140, TotalWickets: 8, LegalBalls: 120},
			winner:     10,
			margin:     10,
			marginType: MarginRuns,
			text:       "Falcons won by 10 runs",
		},
	}
	names := map[uint]string{10: "Falcons", 20: "Hawks"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideResult(&tt.first, &tt.second)
			assert.Equal(t, tt.winner, got.WinnerID)
			assert.Equal(t, tt.margin, got.Margin)
			assert.Equal(t, tt.marginType, got.MarginType)
			assert.Equal(t, tt.text, FormatResult(names[got.WinnerID], got.Margin, got.MarginType))
		})
	}
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "Hawks won by 8 wickets", FormatResult("Hawks", 8, MarginWickets))
	assert.Equal(t, "Hawks won by 1 wicket", FormatResult("Hawks", 1, MarginWickets))
	assert.Equal(t, "Falcons won by 23 runs", FormatResult("Falcons", 23, MarginRuns))
	assert.Equal(t, "Falcons won by 1 run", FormatResult("Falcons", 1, MarginRuns))
	assert.Equal(t, "Team 7 won by 2 runs", FormatResult(fallbackTeamName(7), 2, MarginRuns))
}

func TestRankImpact(t *testing.T) {
	batting := []BattingPerformance{
		{PlayerID: 1, Runs: 40, BallsFaced: 20}, // 60 + 20
		{PlayerID: 2, Runs: 30, BallsFaced: 30}, // 45
		{PlayerID: 3, Runs: 2, BallsFaced: 1},   // 3 + 20, bowls below
	}
	bowling := []BowlingPerformance{
		{PlayerID: 3, Wickets: 2, RunsConceded: 20, BallsBowled: 24}, // +50 +15
		{PlayerID: 4, Wickets: 1, RunsConceded: 40, BallsBowled: 24}, // 25
	}

	players := RankImpact(batting, bowling)
	require.Len(t, players, 4)
	assert.Equal(t, []uint{1, 2, 3, 4}, []uint{players[0].PlayerID, players[1].PlayerID, players[2].PlayerID, players[3].PlayerID})
	assert.Equal(t, 80.0, players[0].Score)
	assert.Equal(t, 45.0, players[1].Score)
	assert.Equal(t, 88.0, players[2].Score)
	assert.Equal(t, 25.0, players[3].Score)
	assert.Equal(t, 2, players[2].Wickets)
	assert.Equal(t, 2, players[2].Runs)

	mom, ok := SelectManOfMatch(batting, bowling)
	require.True(t, ok)
	assert.Equal(t, uint(3), mom.PlayerID)
}

func TestSelectManOfMatch(t *testing.T) {
	_, ok := SelectManOfMatch(nil, nil)
	assert.False(t, ok)

	tied := []BattingPerformance{
		{PlayerID: 5, Runs: 10, BallsFaced: 10},
		{PlayerID: 6, Runs: 10, BallsFaced: 10},
	}
	mom, ok := SelectManOfMatch(tied, nil)
	require.True(t, ok)
	assert.Equal(t, uint(5), mom.PlayerID)
	assert.Equal(t, 15.0, mom.Score)
}

func TestStandingsOutcome(t *testing.T) {
	tournament := uint(9)
	m := &Match{TournamentID: &tournament}
	m.ID = 4
	innings := []Innings{
		{BattingTeamID: 10, BowlingTeamID: 20, TotalRuns: 150, LegalBalls: 120},
		{BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 151, LegalBalls: 100},
	}

	got := standingsOutcome(m, MatchResult{WinnerID: 20, LoserID: 10}, innings)
	assert.Equal(t, uint(4), got.MatchID)
	assert.Equal(t, uint(9), got.TournamentID)
	assert.Equal(t, uint(20), got.WinnerID)
	require.Len(t, got.Innings, 2)
	assert.Equal(t, 151, got.Innings[1].Runs)
	assert.Equal(t, 100, got.Innings[1].LegalBalls)
}
