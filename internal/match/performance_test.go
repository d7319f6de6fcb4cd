package match

import (
	"testing"

	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delivery(runs int) *Ball {
	return &Ball{InningsID: 1, StrikerID: 11, NonStrikerID: 12, BowlerID: 21, Runs: runs, IsLegal: true}
}

func extra(kind ExtraType, runs, extraRuns int) *Ball {
	b := delivery(runs)
	b.IsExtra = true
	b.ExtraType = &kind
	b.ExtraRuns = extraRuns
	b.IsLegal = kind != ExtraWide && kind != ExtraNoBall
	return b
}

func wicket(kind WicketType, dismissed uint) *Ball {
	b := delivery(0)
	b.IsWicket = true
	b.WicketType = &kind
	b.DismissedPlayerID = &dismissed
	return b
}

func TestApplyToBatting(t *testing.T) {
	var row *BattingPerformance
	for _, b := range []*Ball{delivery(4), delivery(6), delivery(0), delivery(1)} {
		next := ApplyToBatting(row, b)
		row = &next
	}
	assert.Equal(t, uint(11), row.PlayerID)
	assert.Equal(t, uint(1), row.InningsID)
	assert.Equal(t, 11, row.Runs)
	assert.Equal(t, 4, row.BallsFaced)
	assert.Equal(t, 1, row.Fours)
	assert.Equal(t, 1, row.Sixes)
	assert.Equal(t, 275.0, row.StrikeRate)
	assert.False(t, row.IsOut)

	t.Run("wides are not faced", func(t *testing.T) {
		got := ApplyToBatting(row, extra(ExtraWide, 0, 1))
		assert.Equal(t, 4, got.BallsFaced)
		assert.Equal(t, 11, got.Runs)
	})

	t.Run("no ball credits bat runs but not the ball", func(t *testing.T) {
		got := ApplyToBatting(row, extra(ExtraNoBall, 4, 1))
		assert.Equal(t, 4, got.BallsFaced)
		assert.Equal(t, 15, got.Runs)
		assert.Equal(t, 1, got.Fours)
	})

	t.Run("byes are faced without runs", func(t *testing.T) {
		got := ApplyToBatting(row, extra(ExtraBye, 0, 4))
		assert.Equal(t, 5, got.BallsFaced)
		assert.Equal(t, 11, got.Runs)
	})

	t.Run("caught striker", func(t *testing.T) {
		b := wicket(WicketCaught, 11)
		fielder := uint(25)
		b.WicketTakerID = &fielder
		got := ApplyToBatting(row, b)
		assert.True(t, got.IsOut)
		require.NotNil(t, got.Dismissal)
		assert.Equal(t, WicketCaught, *got.Dismissal)
		require.NotNil(t, got.DismissedByID)
		assert.Equal(t, uint(21), *got.DismissedByID)
		require.NotNil(t, got.FielderID)
		assert.Equal(t, uint(25), *got.FielderID)
	})

	t.Run("non-striker run out leaves the striker in", func(t *testing.T) {
		b := wicket(WicketRunOut, 12)
		got := ApplyToBatting(row, b)
		assert.False(t, got.IsOut)

		ns := ApplyDismissal(nil, b, 12)
		assert.True(t, ns.IsOut)
		assert.Zero(t, ns.BallsFaced)
		assert.Nil(t, ns.DismissedByID)
	})
}

func TestApplyToBowling(t *testing.T) {
	var row *BowlingPerformance
	balls := []*Ball{
		delivery(0),
		delivery(4),
		extra(ExtraWide, 0, 1),
		extra(ExtraNoBall, 2, 1),
		extra(ExtraLegBye, 0, 1),
		wicket(WicketBowled, 11),
		wicket(WicketRunOut, 12),
	}
	for _, b := range balls {
		next := ApplyToBowling(row, b)
		row = &next
	}
	assert.Equal(t, uint(21), row.PlayerID)
	assert.Equal(t, 9, row.RunsConceded)
	assert.Equal(t, 5, row.BallsBowled)
	assert.Equal(t, 1, row.Wides)
	assert.Equal(t, 1, row.NoBalls)
	assert.Equal(t, 1, row.Wickets)
	assert.Equal(t, 3, row.DotBalls)
	assert.Equal(t, cricmath.Overs{Balls: 5}, row.OversBowled)
	assert.InDelta(t, 10.8, row.EconomyRate, 0.001)
}

func TestApplyMaiden(t *testing.T) {
	row := BowlingPerformance{PlayerID: 21}

	tests := []struct {
		name string
		over Over
		want int
	}{
		{"complete and runless", Over{BowlerID: 21, LegalBalls: 6}, 1},
		{"runs conceded", Over{BowlerID: 21, LegalBalls: 6, Runs: 1}, 0},
		{"incomplete", Over{BowlerID: 21, LegalBalls: 5}, 0},
		{"another bowler's over", Over{BowlerID: 22, LegalBalls: 6}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyMaiden(row, &tt.over).Maidens)
		})
	}
}
