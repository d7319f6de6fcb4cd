package match

import (
	"context"
	"testing"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateWinProbabilityFirstInnings(t *testing.T) {
	tests := []struct {
		name  string
		input ProbabilityInput
		want  float64
	}{
		{"baseline total, no wickets", ProbabilityInput{Score: 160, LegalBalls: 120, QuotaBalls: 120}, 50},
		{"on pace for the baseline", ProbabilityInput{Score: 80, LegalBalls: 60, QuotaBalls: 120}, 50},
		{"wickets discount the projection", ProbabilityInput{Score: 80, Wickets: 5, LegalBalls: 60, QuotaBalls: 120}, 26},
		{"big total clamps high", ProbabilityInput{Score: 300, LegalBalls: 120, QuotaBalls: 120}, 100},
		{"nothing scored clamps low", ProbabilityInput{Score: 0, LegalBalls: 0, QuotaBalls: 120}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateWinProbability(tt.input), 0.001)
		})
	}
}

func TestEstimateWinProbabilityChase(t *testing.T) {
	target := func(n int) *int { return &n }

	tests := []struct {
		name  string
		input ProbabilityInput
		want  float64
	}{
		{"target reached", ProbabilityInput{Score: 150, Target: target(150), LegalBalls: 100, QuotaBalls: 120}, 100},
		{"all out", ProbabilityInput{Score: 100, Wickets: 10, Target: target(150), LegalBalls: 100, QuotaBalls: 120}, 0},
		{"balls exhausted", ProbabilityInput{Score: 140, Target: target(150), LegalBalls: 120, QuotaBalls: 120}, 0},
		{"easy rate", ProbabilityInput{Score: 90, Target: target(150), LegalBalls: 60, QuotaBalls: 120}, 90},
		{"rate of 6.1", ProbabilityInput{Score: 60, Target: target(121), LegalBalls: 60, QuotaBalls: 120}, 69.5},
		{"wickets and few balls hurt", ProbabilityInput{Score: 120, Wickets: 6, Target: target(150), LegalBalls: 90, QuotaBalls: 120}, 90 * 0.7 * 0.85},
		{"impossible rate", ProbabilityInput{Score: 0, Target: target(200), LegalBalls: 60, QuotaBalls: 120}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateWinProbability(tt.input), 0.001)
		})
	}
}

func TestRequiredRateBase(t *testing.T) {
	tests := map[float64]float64{
		4:    90,
		6:    90,
		8:    60,
		10:   50,
		11:   40,
		12:   30,
		13.5: 20,
		15:   10,
		18:   5,
	}
	for rrr, want := range tests {
		assert.InDelta(t, want, requiredRateBase(rrr), 0.001, "rrr %.1f", rrr)
	}
}

func TestSplitProbability(t *testing.T) {
	m := &Match{Team1ID: 10, Team2ID: 20}

	team1, team2 := SplitProbability(m, 10, 62.5)
	assert.Equal(t, 62.5, team1)
	assert.Equal(t, 37.5, team2)

	team1, team2 = SplitProbability(m, 20, 30)
	assert.Equal(t, 70.0, team1)
	assert.Equal(t, 30.0, team2)

	team1, team2 = SplitProbability(m, 10, 133.333)
	assert.Equal(t, 100.0, team1)
	assert.Equal(t, 0.0, team2)

	for _, p := range []float64{0, 12.345, 33.333, 66.666, 99.999} {
		team1, team2 = SplitProbability(m, 20, p)
		assert.InDelta(t, 100, team1+team2, 1e-9)
	}
}

func TestBuildSample(t *testing.T) {
	m := &Match{Team1ID: 10, Team2ID: 20, Format: FormatT20}
	m.ID = 3
	target := 150
	in := &Innings{MatchID: 3, InningsNumber: 2, BattingTeamID: 20, BowlingTeamID: 10, TotalRuns: 90, LegalBalls: 60, Target: &target}
	in.ID = 5

	sample := buildSample(m, in, &Ball{DeliverySeq: 64, OverNumber: 9, BallNumber: 6})
	assert.Equal(t, uint(3), sample.MatchID)
	assert.Equal(t, uint(5), sample.InningsID)
	assert.Equal(t, 64, sample.DeliverySeq)
	assert.Equal(t, 60, sample.BallsRemaining)
	assert.Equal(t, 90.0, sample.Team2Probability)
	assert.Equal(t, 10.0, sample.Team1Probability)
	require.NotNil(t, sample.Target)
	assert.Equal(t, 150, *sample.Target)
	require.NotNil(t, sample.RequiredRunRate)
	assert.Equal(t, 6.0, *sample.RequiredRunRate)
}

func TestWinProbabilityQueries(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	ctx := context.Background()
	m, innings := h.start(20)

	h.ball(innings.ID, 201, 101, opening(102, 4))
	h.ball(innings.ID, 201, 101, BallEvent{IsExtra: true, ExtraType: ExtraWide, ExtraRuns: 1})
	h.ball(innings.ID, 201, 101, BallEvent{Runs: 1})

	history, err := h.svc.GetWinProbabilityHistory(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, s := range history {
		assert.Equal(t, i+1, s.DeliverySeq)
		assert.InDelta(t, 100, s.Team1Probability+s.Team2Probability, 1e-9)
	}

	t.Run("stored sample", func(t *testing.T) {
		sample, err := h.svc.CalculateWinProbability(ctx, m.ID, innings.ID, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, sample.DeliverySeq, "a wide shares the number of the next legal ball")
		assert.Equal(t, 6, sample.Score)
	})

	t.Run("rebuilt from the ball log", func(t *testing.T) {
		require.NoError(t, h.db.Unscoped().Where("innings_id = ? AND delivery_seq = ?", innings.ID, 1).
			Delete(&WinProbabilitySample{}).Error)

		sample, err := h.svc.CalculateWinProbability(ctx, m.ID, innings.ID, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, sample.DeliverySeq)
		assert.Equal(t, 4, sample.Score)
		assert.Equal(t, 119, sample.BallsRemaining)
		assert.Equal(t, history[0].Team1Probability, sample.Team1Probability)
	})

	t.Run("unknown delivery", func(t *testing.T) {
		_, err := h.svc.CalculateWinProbability(ctx, m.ID, innings.ID, 3, 1)
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("innings of another match", func(t *testing.T) {
		_, err := h.svc.CalculateWinProbability(ctx, m.ID+100, innings.ID, 0, 1)
		assertKind(t, err, apperror.KindNotFound)

		other := h.schedule(20)
		_, err = h.svc.CalculateWinProbability(ctx, other.ID, innings.ID, 0, 1)
		assertKind(t, err, apperror.KindValidation)
	})
}
