package cricmath

import "math"

// StrikeRate is runs per hundred balls faced; 0 when no ball has been faced.
func StrikeRate(runs, ballsFaced int) float64 {
	if ballsFaced <= 0 {
		return 0
	}
	return float64(runs) * 100 / float64(ballsFaced)
}

// EconomyRate is runs conceded per (true) over bowled; 0 before the first legal ball.
func EconomyRate(runsConceded, ballsBowled int) float64 {
	if ballsBowled <= 0 {
		return 0
	}
	return float64(runsConceded) / BallsToOvers(ballsBowled).Decimal()
}

// RunRate is runs per over for a legal ball count.
func RunRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(runs) * BallsPerOver / float64(balls)
}

// RequiredRunRate is runs needed per over over the remaining balls.
func RequiredRunRate(runsNeeded, ballsRemaining int) float64 {
	if ballsRemaining <= 0 || runsNeeded <= 0 {
		return 0
	}
	return float64(runsNeeded) * BallsPerOver / float64(ballsRemaining)
}

// BattingAverage is runs per dismissal. A batsman never dismissed averages his runs.
func BattingAverage(runs, dismissals int) float64 {
	if dismissals <= 0 {
		return float64(runs)
	}
	return float64(runs) / float64(dismissals)
}

// BowlingAverage is runs conceded per wicket; 0 without wickets.
func BowlingAverage(runsConceded, wickets int) float64 {
	if wickets <= 0 {
		return 0
	}
	return float64(runsConceded) / float64(wickets)
}

// BowlingStrikeRate is legal balls per wicket; 0 without wickets.
func BowlingStrikeRate(ballsBowled, wickets int) float64 {
	if wickets <= 0 {
		return 0
	}
	return float64(ballsBowled) / float64(wickets)
}

// NetRunRate is (runs scored per over) - (runs conceded per over), rounded to
// three decimals. Over counts are legal balls, converted with BallsToOvers.
func NetRunRate(runsScored, ballsFaced, runsConceded, ballsBowled int) float64 {
	return Round(RunRate(runsScored, ballsFaced)-RunRate(runsConceded, ballsBowled), 3)
}

// Round rounds half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
