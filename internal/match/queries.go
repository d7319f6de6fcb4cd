package match

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
	"github.com/sirupsen/logrus"
)

// LastBallsShown is how many recent deliveries the live view carries.
const LastBallsShown = 6

// LiveScore is the scoreboard of a match.
type LiveScore struct {
	Match          *Match                `json:"match"`
	CurrentInnings *Innings              `json:"current_innings,omitempty"`
	Striker        *BattingPerformance   `json:"striker,omitempty"`
	NonStriker     *BattingPerformance   `json:"non_striker,omitempty"`
	Bowler         *BowlingPerformance   `json:"bowler,omitempty"`
	LastBalls      []Ball                `json:"last_balls"`
	CurrentRunRate float64               `json:"current_run_rate"`
	RequiredRate   *float64              `json:"required_run_rate,omitempty"`
	RunsNeeded     *int                  `json:"runs_needed,omitempty"`
	BallsRemaining int                   `json:"balls_remaining"`
	WinProbability *WinProbabilitySample `json:"win_probability,omitempty"`
}

// InningsCard is one innings of a scorecard.
type InningsCard struct {
	Innings Innings              `json:"innings"`
	Batting []BattingPerformance `json:"batting"`
	Bowling []BowlingPerformance `json:"bowling"`
	Overs   []Over               `json:"overs"`
	RunRate float64              `json:"run_rate"`
}

// Scorecard is the full record of a match.
type Scorecard struct {
	Match   *Match        `json:"match"`
	Innings []InningsCard `json:"innings"`
}

func (s *Service) GetMatch(ctx context.Context, matchID uint) (*Match, error) {
	return s.repo.GetMatchByID(ctx, matchID)
}

func (s *Service) ListMatches(ctx context.Context, filter MatchFilter, page, pageSize int) ([]Match, int64, error) {
	if filter.Status != "" {
		switch filter.Status {
		case StatusScheduled, StatusLive, StatusCompleted, StatusAbandoned:
		default:
			return nil, 0, apperror.Validation("status", fmt.Sprintf("unknown match status %q", filter.Status))
		}
	}
	return s.repo.ListMatches(ctx, filter, page, pageSize)
}

func (s *Service) GetInnings(ctx context.Context, inningsID uint) (*Innings, error) {
	return s.repo.GetInningsByID(ctx, inningsID)
}

// GetBalls returns the ball log of an innings in delivery order.
func (s *Service) GetBalls(ctx context.Context, inningsID uint) ([]Ball, error) {
	if _, err := s.repo.GetInningsByID(ctx, inningsID); err != nil {
		return nil, err
	}
	return s.repo.ListBalls(ctx, inningsID)
}

// GetLiveScore assembles the scoreboard of the current innings. It reads
// without taking locks.
func (s *Service) GetLiveScore(ctx context.Context, matchID uint) (*LiveScore, error) {
	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	live := &LiveScore{Match: match, LastBalls: []Ball{}}

	innings, err := s.currentInnings(ctx, match)
	if err != nil || innings == nil {
		return live, err
	}
	live.CurrentInnings = innings
	live.CurrentRunRate = cricmath.Round(cricmath.RunRate(innings.TotalRuns, innings.LegalBalls), 2)
	live.BallsRemaining = max(0, match.OversPerInnings()*cricmath.BallsPerOver-innings.LegalBalls)

	if innings.Target != nil {
		needed := max(0, *innings.Target-innings.TotalRuns)
		rrr := cricmath.Round(cricmath.RequiredRunRate(needed, live.BallsRemaining), 2)
		live.RunsNeeded = &needed
		live.RequiredRate = &rrr
	}

	if innings.CurrentStrikerID != nil {
		if live.Striker, err = s.repo.GetBattingPerformance(ctx, innings.ID, *innings.CurrentStrikerID); err != nil {
			return nil, err
		}
	}
	if innings.CurrentNonStrikerID != nil {
		if live.NonStriker, err = s.repo.GetBattingPerformance(ctx, innings.ID, *innings.CurrentNonStrikerID); err != nil {
			return nil, err
		}
	}

	balls, err := s.repo.LastBalls(ctx, innings.ID, LastBallsShown)
	if err != nil {
		return nil, err
	}
	live.LastBalls = balls
	if n := len(balls); n > 0 {
		if live.Bowler, err = s.repo.GetBowlingPerformance(ctx, innings.ID, balls[n-1].BowlerID); err != nil {
			return nil, err
		}
	}

	if live.WinProbability, err = s.repo.LatestWinProbabilitySample(ctx, match.ID); err != nil {
		return nil, err
	}
	return live, nil
}

// currentInnings follows the match pointer, falling back to the latest innings.
func (s *Service) currentInnings(ctx context.Context, match *Match) (*Innings, error) {
	if match.CurrentInningsID != nil {
		return s.repo.GetInningsByID(ctx, *match.CurrentInningsID)
	}
	innings, err := s.repo.ListInningsByMatch(ctx, match.ID)
	if err != nil || len(innings) == 0 {
		return nil, err
	}
	return &innings[len(innings)-1], nil
}

// GetScorecard returns every innings with its batting, bowling and overs.
func (s *Service) GetScorecard(ctx context.Context, matchID uint) (*Scorecard, error) {
	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	innings, err := s.repo.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	card := &Scorecard{Match: match, Innings: make([]InningsCard, 0, len(innings))}
	for _, in := range innings {
		batting, err := s.repo.ListBattingPerformances(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		bowling, err := s.repo.ListBowlingPerformances(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		overs, err := s.repo.ListOvers(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		card.Innings = append(card.Innings, InningsCard{
			Innings: in,
			Batting: batting,
			Bowling: bowling,
			Overs:   overs,
			RunRate: cricmath.Round(cricmath.RunRate(in.TotalRuns, in.LegalBalls), 2),
		})
	}
	return card, nil
}

// GetWinProbabilityHistory returns every sample of a match in delivery order.
func (s *Service) GetWinProbabilityHistory(ctx context.Context, matchID uint) ([]WinProbabilitySample, error) {
	if _, err := s.repo.GetMatchByID(ctx, matchID); err != nil {
		return nil, err
	}
	return s.repo.ListWinProbabilitySamples(ctx, matchID)
}

// CalculateWinProbability returns the sample taken after the delivery at
// (overNumber, ballNumber). When the delivery has no stored sample the state
// is rebuilt from the ball log up to it and the sample is persisted.
func (s *Service) CalculateWinProbability(ctx context.Context, matchID, inningsID uint, overNumber, ballNumber int) (*WinProbabilitySample, error) {
	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	innings, err := s.repo.GetInningsByID(ctx, inningsID)
	if err != nil {
		return nil, err
	}
	if innings.MatchID != match.ID {
		return nil, apperror.Validation("innings_id", fmt.Sprintf("innings %d does not belong to match %d", inningsID, matchID))
	}
	ball, err := s.repo.FindBall(ctx, inningsID, overNumber, ballNumber)
	if err != nil {
		return nil, err
	}
	if sample, err := s.repo.GetWinProbabilitySample(ctx, inningsID, ball.DeliverySeq); err != nil || sample != nil {
		return sample, err
	}

	unlock := s.inningsLocks.Lock(inningsID)
	defer unlock()

	var sample *WinProbabilitySample
	err = s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		existing, err := tx.GetWinProbabilitySample(ctx, inningsID, ball.DeliverySeq)
		if err != nil || existing != nil {
			sample = existing
			return err
		}
		balls, err := tx.ListBalls(ctx, inningsID)
		if err != nil {
			return err
		}
		totals := TotalsFromBalls(prefixThrough(balls, ball.DeliverySeq))
		snapshot := *innings
		snapshot.TotalRuns = totals.Runs
		snapshot.TotalWickets = totals.Wickets
		snapshot.LegalBalls = totals.LegalBalls
		sample = buildSample(match, &snapshot, ball)
		return tx.CreateWinProbabilitySample(ctx, sample)
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"match_id":     matchID,
		"innings_id":   inningsID,
		"delivery_seq": ball.DeliverySeq,
	}).Info("Win probability rebuilt from ball log")
	return sample, nil
}

// prefixThrough returns the deliveries up to and including seq.
func prefixThrough(balls []Ball, seq int) []Ball {
	for i, b := range balls {
		if b.DeliverySeq > seq {
			return balls[:i]
		}
	}
	return balls
}
