package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playOver(h *harness, inningsID uint) {
	h.ball(inningsID, 201, 101, opening(102, 4))
	h.ball(inningsID, 201, 101, BallEvent{Runs: 1})
	h.ball(inningsID, 201, 102, BallEvent{IsExtra: true, ExtraType: ExtraWide, ExtraRuns: 1})
	h.ball(inningsID, 201, 102, BallEvent{IsWicket: true, WicketType: WicketCaught, WicketTakerID: ptr(uint(203))})
	h.ball(inningsID, 201, 103, BallEvent{IsExtra: true, ExtraType: ExtraLegBye, ExtraRuns: 1})
	h.ball(inningsID, 201, 103, BallEvent{})
	h.ball(inningsID, 201, 103, BallEvent{Runs: 2})
}

func TestReconcileCleanInnings(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	ctx := context.Background()
	_, innings := h.start(20)
	playOver(h, innings.ID)
	h.ball(innings.ID, 202, 101, BallEvent{Runs: 6})

	report, err := h.svc.Reconcile(ctx, innings.ID)
	require.NoError(t, err)
	assert.False(t, report.Drift, report.Issues)
	assert.Empty(t, report.Issues)
	assert.Equal(t, report.Stored, report.Derived)
	assert.Equal(t, Totals{Runs: 15, Wickets: 1, LegalBalls: 7, Extras: 2, Deliveries: 8}, report.Derived)
	assert.Zero(t, h.metrics.ReconcileDrift())
}

func TestReconcileReportsDrift(t *testing.T) {
	ctx := context.Background()

	t.Run("innings totals", func(t *testing.T) {
		h := newHarness(t, DefaultConfig())
		_, innings := h.start(20)
		playOver(h, innings.ID)

		require.NoError(t, h.db.Model(&Innings{}).Where("id = ?", innings.ID).Update("total_runs", 99).Error)

		report, err := h.svc.Reconcile(ctx, innings.ID)
		require.NoError(t, err)
		assert.True(t, report.Drift)
		assert.Equal(t, 99, report.Stored.Runs)
		assert.Equal(t, 9, report.Derived.Runs)
		assert.Equal(t, 1, h.metrics.ReconcileDrift())

		stored, err := h.svc.GetInnings(ctx, innings.ID)
		require.NoError(t, err)
		assert.Equal(t, 99, stored.TotalRuns, "reconcile never writes")
	})

	t.Run("over aggregates", func(t *testing.T) {
		h := newHarness(t, DefaultConfig())
		_, innings := h.start(20)
		playOver(h, innings.ID)

		require.NoError(t, h.db.Model(&Over{}).Where("innings_id = ?", innings.ID).Update("runs", 0).Error)

		report, err := h.svc.Reconcile(ctx, innings.ID)
		require.NoError(t, err)
		assert.True(t, report.Drift)
		assert.Contains(t, report.Issues, "over 0 aggregates differ from its balls")
	})

	t.Run("performance rows", func(t *testing.T) {
		h := newHarness(t, DefaultConfig())
		_, innings := h.start(20)
		playOver(h, innings.ID)

		require.NoError(t, h.db.Model(&BattingPerformance{}).
			Where("innings_id = ? AND player_id = ?", innings.ID, 101).Update("runs", 50).Error)
		require.NoError(t, h.db.Model(&BowlingPerformance{}).
			Where("innings_id = ? AND player_id = ?", innings.ID, 201).Update("maidens", 1).Error)

		report, err := h.svc.Reconcile(ctx, innings.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"batting row for player 101 differs from ball log",
			"bowling row for player 201 differs from ball log",
		}, report.Issues)
	})
}

func TestReconcileLive(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	ctx := context.Background()

	_, live := h.start(20)
	playOver(h, live.ID)

	_, done := h.start(20)
	h.ball(done.ID, 201, 101, opening(102, 1))
	_, err := h.svc.CompleteInnings(ctx, done.ID)
	require.NoError(t, err)

	reports, err := h.svc.ReconcileLive(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, live.ID, reports[0].InningsID)
	assert.False(t, reports[0].Drift)
}

func TestCheckOvers(t *testing.T) {
	overs := []Over{
		{OverNumber: 0, LegalBalls: 7, Runs: 0, Deliveries: 7},
		{OverNumber: 2},
	}
	overs[0].ID = 1
	overs[1].ID = 2
	balls := make([]Ball, 7)
	for i := range balls {
		balls[i] = Ball{OverID: 1, IsLegal: true}
	}

	issues := checkOvers(overs, balls)
	assert.ElementsMatch(t, []string{
		"over 0 has 7 legal deliveries",
		"over 2 found where over 1 was expected",
	}, issues)
}
