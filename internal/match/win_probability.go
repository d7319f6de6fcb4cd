package match

import (
	"math"

	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
)

const (
	MaxWickets = 10

	// BaselineTotal is the first-innings score treated as an even contest.
	BaselineTotal = 160.0
	// chaseReferenceBalls is the point below which fewer balls left hurts a chase.
	chaseReferenceBalls = 60.0
)

// ProbabilityInput is the state of an innings after a delivery.
type ProbabilityInput struct {
	Score      int
	Wickets    int
	LegalBalls int
	QuotaBalls int
	// Target is set for the chasing innings only.
	Target *int
}

func (in ProbabilityInput) ballsRemaining() int {
	return max(0, in.QuotaBalls-in.LegalBalls)
}

func (in ProbabilityInput) wicketFactor() float64 {
	return float64(max(0, MaxWickets-in.Wickets)) / MaxWickets
}

// EstimateWinProbability returns the batting side's chance of winning in
// percent, clamped to [0, 100].
func EstimateWinProbability(in ProbabilityInput) float64 {
	if in.Target == nil {
		return firstInningsProbability(in)
	}
	return chaseProbability(in)
}

// firstInningsProbability projects the total at the current rate, discounts it
// for wickets lost and moves one point per run away from the baseline.
func firstInningsProbability(in ProbabilityInput) float64 {
	crr := cricmath.RunRate(in.Score, in.LegalBalls)
	projected := float64(in.Score) + crr*float64(in.ballsRemaining())/cricmath.BallsPerOver
	adjusted := projected * (0.7 + 0.3*in.wicketFactor())
	return cricmath.Clamp(50+(adjusted-BaselineTotal), 0, 100)
}

func chaseProbability(in ProbabilityInput) float64 {
	target := *in.Target
	if in.Score >= target {
		return 100
	}
	balls := in.ballsRemaining()
	if in.Wickets >= MaxWickets || balls == 0 {
		return 0
	}

	rrr := cricmath.RequiredRunRate(target-in.Score, balls)
	p := requiredRateBase(rrr)
	p *= 0.5 + 0.5*in.wicketFactor()
	p *= 0.7 + 0.3*math.Min(1, float64(balls)/chaseReferenceBalls)
	return cricmath.Clamp(p, 0, 100)
}

// requiredRateBase maps a required run rate to a base chance of success.
func requiredRateBase(rrr float64) float64 {
	switch {
	case rrr <= 6:
		return 90
	case rrr <= 10:
		return 70 - (rrr-6)/4*20
	case rrr <= 12:
		return 50 - (rrr-10)/2*20
	case rrr <= 15:
		return 30 - (rrr-12)/3*20
	default:
		return 5
	}
}

// SplitProbability turns the batting side's chance into the team1/team2 pair,
// rounded to two decimals and summing to 100.
func SplitProbability(match *Match, battingTeamID uint, battingChance float64) (team1, team2 float64) {
	p := cricmath.Round(cricmath.Clamp(battingChance, 0, 100), 2)
	if battingTeamID == match.Team1ID {
		team1 = p
	} else {
		team1 = cricmath.Round(100-p, 2)
	}
	team2 = cricmath.Round(100-team1, 2)
	return team1, team2
}

// buildSample estimates the match after ball and returns the row to persist.
func buildSample(match *Match, innings *Innings, ball *Ball) *WinProbabilitySample {
	in := ProbabilityInput{
		Score:      innings.TotalRuns,
		Wickets:    innings.TotalWickets,
		LegalBalls: innings.LegalBalls,
		QuotaBalls: match.OversPerInnings() * cricmath.BallsPerOver,
		Target:     innings.Target,
	}
	team1, team2 := SplitProbability(match, innings.BattingTeamID, EstimateWinProbability(in))

	sample := &WinProbabilitySample{
		MatchID:          match.ID,
		InningsID:        innings.ID,
		InningsNumber:    innings.InningsNumber,
		DeliverySeq:      ball.DeliverySeq,
		OverNumber:       ball.OverNumber,
		BallNumber:       ball.BallNumber,
		Team1Probability: team1,
		Team2Probability: team2,
		Score:            in.Score,
		Wickets:          in.Wickets,
		BallsRemaining:   in.ballsRemaining(),
	}
	if in.Target != nil {
		target := *in.Target
		sample.Target = &target
		rrr := cricmath.Round(cricmath.RequiredRunRate(target-in.Score, in.ballsRemaining()), 2)
		sample.RequiredRunRate = &rrr
	}
	return sample
}
