package match

import "github.com/DhavalSuthar-24/crickscore/pkg/cricmath"

// PerformanceKey identifies a performance row.
type PerformanceKey struct {
	InningsID uint
	PlayerID  uint
}

// ApplyToBatting returns the striker's batting row after ball. A nil row
// is treated as the zero row for the striker in the ball's innings.
func ApplyToBatting(existing *BattingPerformance, ball *Ball) BattingPerformance {
	perf := battingOrNew(existing, ball.InningsID, ball.StrikerID)

	perf.Runs += ball.Runs
	switch ball.extraType() {
	case ExtraWide, ExtraNoBall:
	default:
		perf.BallsFaced++
	}
	if !ball.IsExtra {
		switch ball.Runs {
		case 4:
			perf.Fours++
		case 6:
			perf.Sixes++
		}
	}
	perf.StrikeRate = cricmath.StrikeRate(perf.Runs, perf.BallsFaced)

	if dismissed(ball) == perf.PlayerID {
		markOut(&perf, ball)
	}
	return perf
}

// ApplyDismissal records ball's wicket on a batsman who did not face it,
// such as a non-striker run out.
func ApplyDismissal(existing *BattingPerformance, ball *Ball, playerID uint) BattingPerformance {
	perf := battingOrNew(existing, ball.InningsID, playerID)
	if dismissed(ball) == playerID {
		markOut(&perf, ball)
	}
	return perf
}

// ApplyToBowling returns the bowler's row after ball.
func ApplyToBowling(existing *BowlingPerformance, ball *Ball) BowlingPerformance {
	var perf BowlingPerformance
	if existing != nil {
		perf = *existing
	} else {
		perf = BowlingPerformance{InningsID: ball.InningsID, PlayerID: ball.BowlerID}
	}

	perf.RunsConceded += ball.TotalRuns()
	if ball.IsWicket && ball.wicketType().CreditedToBowler() {
		perf.Wickets++
	}
	switch ball.extraType() {
	case ExtraWide:
		perf.Wides++
	case ExtraNoBall:
		perf.NoBalls++
	default:
		perf.BallsBowled++
		if ball.TotalRuns() == 0 {
			perf.DotBalls++
		}
	}
	perf.OversBowled = cricmath.BallsToOvers(perf.BallsBowled)
	perf.EconomyRate = cricmath.EconomyRate(perf.RunsConceded, perf.BallsBowled)
	return perf
}

// ApplyMaiden credits a maiden when over was completed without conceding a run.
func ApplyMaiden(perf BowlingPerformance, over *Over) BowlingPerformance {
	if over.IsComplete() && over.Runs == 0 && over.BowlerID == perf.PlayerID {
		perf.Maidens++
	}
	return perf
}

// battingOrNew returns the row of a batsman at the crease. A retired-hurt
// batsman who is back at the crease is not out any more.
func battingOrNew(existing *BattingPerformance, inningsID, playerID uint) BattingPerformance {
	if existing == nil {
		return BattingPerformance{InningsID: inningsID, PlayerID: playerID}
	}
	perf := *existing
	if perf.resuming() {
		perf.IsOut = false
		perf.Dismissal = nil
		perf.DismissedByID = nil
		perf.FielderID = nil
	}
	return perf
}

func (p *BattingPerformance) resuming() bool {
	return p.IsOut && p.Dismissal != nil && *p.Dismissal == WicketRetiredHurt
}

func markOut(perf *BattingPerformance, ball *Ball) {
	wt := ball.wicketType()
	perf.IsOut = true
	perf.Dismissal = &wt
	if wt.CreditedToBowler() {
		bowler := ball.BowlerID
		perf.DismissedByID = &bowler
	}
	if ball.WicketTakerID != nil && *ball.WicketTakerID != ball.BowlerID {
		fielder := *ball.WicketTakerID
		perf.FielderID = &fielder
	}
}

// dismissed returns the player out on ball, 0 when there was no wicket.
func dismissed(ball *Ball) uint {
	if !ball.IsWicket {
		return 0
	}
	if ball.DismissedPlayerID != nil {
		return *ball.DismissedPlayerID
	}
	return ball.StrikerID
}
