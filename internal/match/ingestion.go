package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// BallEvent is one delivery as reported by the scorer.
type BallEvent struct {
	Runs              int        `json:"runs" validate:"min=0,max=7"`
	IsWicket          bool       `json:"is_wicket"`
	WicketType        WicketType `json:"wicket_type,omitempty" validate:"required_if=IsWicket true"`
	DismissedPlayerID *uint      `json:"dismissed_player_id,omitempty"`
	WicketTakerID     *uint      `json:"wicket_taker_id,omitempty"`
	IsExtra           bool       `json:"is_extra"`
	ExtraType         ExtraType  `json:"extra_type,omitempty" validate:"required_if=IsExtra true"`
	ExtraRuns         int        `json:"extra_runs" validate:"min=0,max=7"`
	Commentary        string     `json:"commentary,omitempty" validate:"max=2000"`

	// StrikerID and NonStrikerID are the caller's view of the crease after
	// this delivery.
	StrikerID    *uint `json:"striker_id,omitempty"`
	NonStrikerID *uint `json:"non_striker_id,omitempty"`
	// IncomingBatsmanID fills a vacant non-striker's end before the delivery.
	IncomingBatsmanID *uint          `json:"incoming_batsman_id,omitempty"`
	Telemetry         *ShotTelemetry `json:"telemetry,omitempty"`
}

var eventValidator = newEventValidator()

func newEventValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalize validates the event and clears fields that do not apply to it.
func (e *BallEvent) normalize() error {
	if err := eventValidator.Struct(e); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			msg := fmt.Sprintf("%s failed the '%s' rule", fe.Field(), fe.Tag())
			if fe.Param() != "" && fe.Tag() != "required_if" {
				msg = fmt.Sprintf("%s failed the '%s=%s' rule", fe.Field(), fe.Tag(), fe.Param())
			}
			return apperror.Validation(fe.Field(), msg)
		}
		return apperror.Validation("ball", err.Error())
	}

	if e.WicketType != "" && !e.WicketType.Valid() {
		return apperror.Validation("wicket_type", fmt.Sprintf("unknown wicket type %q", e.WicketType))
	}
	if e.ExtraType != "" && !e.ExtraType.Valid() {
		return apperror.Validation("extra_type", fmt.Sprintf("unknown extra type %q", e.ExtraType))
	}
	if !e.IsWicket {
		e.WicketType = ""
		e.DismissedPlayerID = nil
		e.WicketTakerID = nil
	}
	if !e.IsExtra {
		e.ExtraType = ""
		e.ExtraRuns = 0
	}
	return nil
}

func (e *BallEvent) isLegal() bool {
	return !e.IsExtra || (e.ExtraType != ExtraWide && e.ExtraType != ExtraNoBall)
}

// BallRecorded is the state after a delivery has been applied.
type BallRecorded struct {
	Ball          *Ball    `json:"ball"`
	Innings       *Innings `json:"innings"`
	Over          *Over    `json:"over"`
	Crease        Crease   `json:"crease"`
	OverCompleted bool     `json:"over_completed"`
	// InningsDone is set once no further ball can be bowled: all out, overs
	// used up or target reached. The innings still needs completing.
	InningsDone    bool                  `json:"innings_done"`
	WinProbability *WinProbabilitySample `json:"win_probability"`
}

// RecordBall applies one delivery to an IN_PROGRESS innings. The ball, over,
// performance rows, innings totals and win-probability sample are written in
// a single transaction under the innings lock.
func (s *Service) RecordBall(ctx context.Context, inningsID, bowlerID, strikerID uint, event BallEvent) (*BallRecorded, error) {
	start := s.now()

	if bowlerID == 0 {
		return nil, apperror.Validation("bowler_id", "bowler is required")
	}
	if strikerID == 0 {
		return nil, apperror.Validation("striker_id", "striker is required")
	}
	if bowlerID == strikerID {
		return nil, apperror.Validation("bowler_id", "the bowler cannot also be the striker")
	}
	if err := event.normalize(); err != nil {
		return nil, err
	}

	unlock := s.inningsLocks.Lock(inningsID)
	defer unlock()

	var (
		rec   *BallRecorded
		match *Match
	)
	err := s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		var err error
		rec, match, err = s.applyBall(ctx, tx, inningsID, bowlerID, strikerID, &event)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBallsRecorded()
	s.metrics.ObserveBallDuration(s.now().Sub(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"match_id":   match.ID,
		"innings_id": inningsID,
		"over":       rec.Ball.OverNumber,
		"ball":       rec.Ball.BallNumber,
		"score":      fmt.Sprintf("%d/%d", rec.Innings.TotalRuns, rec.Innings.TotalWickets),
	}).Info("Ball recorded")

	s.publish(
		NewEvent(EventBallRecorded, match.ID, inningsID, BallRecordedPayload{
			Ball:    rec.Ball,
			Innings: rec.Innings,
			Crease:  rec.Crease,
		}),
		NewEvent(EventWinProbabilityUpdated, match.ID, inningsID, rec.WinProbability),
	)
	return rec, nil
}

func (s *Service) applyBall(ctx context.Context, tx MatchRepository, inningsID, bowlerID, strikerID uint, event *BallEvent) (*BallRecorded, *Match, error) {
	innings, err := tx.GetInningsByID(ctx, inningsID)
	if err != nil {
		return nil, nil, err
	}
	if innings.Status != InningsInProgress {
		return nil, nil, apperror.InvalidState("innings", innings.ID, string(InningsInProgress), string(innings.Status))
	}
	match, err := tx.GetMatchByID(ctx, innings.MatchID)
	if err != nil {
		return nil, nil, err
	}
	if match.Status != StatusLive {
		return nil, nil, apperror.InvalidState("match", match.ID, string(StatusLive), string(match.Status))
	}
	if err := checkInningsOpen(match, innings); err != nil {
		return nil, nil, err
	}

	log := s.logger.WithFields(logrus.Fields{"match_id": match.ID, "innings_id": innings.ID})

	out, err := dismissedPlayers(ctx, tx, innings.ID)
	if err != nil {
		return nil, nil, err
	}
	crease, overridden, err := seatBatsmen(creaseOf(innings), strikerID, event.IncomingBatsmanID, s.cfg.TrustCallerRotation, out)
	if err != nil {
		return nil, nil, err
	}
	if overridden {
		log.WithField("striker_id", strikerID).Warn("Striker override accepted")
	}
	if bowlerID == crease.NonStriker {
		return nil, nil, apperror.Validation("bowler_id", fmt.Sprintf("player %d is batting", bowlerID))
	}
	if event.DismissedPlayerID != nil && *event.DismissedPlayerID != crease.Striker && *event.DismissedPlayerID != crease.NonStriker {
		return nil, nil, apperror.Validation("dismissed_player_id",
			fmt.Sprintf("player %d is not at the crease", *event.DismissedPlayerID))
	}

	over, err := s.currentOver(ctx, tx, innings, bowlerID, log)
	if err != nil {
		return nil, nil, err
	}

	ball := newBall(match, innings, over, crease, bowlerID, event)
	if event.Telemetry != nil {
		raw, err := json.Marshal(event.Telemetry)
		if err != nil {
			return nil, nil, apperror.Validation("telemetry", err.Error())
		}
		ball.Telemetry = datatypes.JSON(raw)
	}

	// Aggregate before persisting the delivery.
	over.Deliveries++
	over.Runs += ball.TotalRuns()
	if ball.IsWicket {
		over.Wickets++
	}
	overCompleted := false
	if ball.IsLegal {
		over.LegalBalls++
		overCompleted = over.IsComplete()
	}

	batting, err := s.battingRows(ctx, tx, innings, crease, ball)
	if err != nil {
		return nil, nil, err
	}
	existingBowling, err := tx.GetBowlingPerformance(ctx, innings.ID, bowlerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load bowling row: %w", err)
	}
	bowling := ApplyToBowling(existingBowling, ball)
	if overCompleted {
		bowling = ApplyMaiden(bowling, over)
	}
	bowling.TeamID = innings.BowlingTeamID

	innings.TotalRuns += ball.TotalRuns()
	if ball.IsWicket {
		innings.TotalWickets++
	}
	if ball.IsLegal {
		innings.LegalBalls++
	}
	innings.TotalOvers = cricmath.BallsToOvers(innings.LegalBalls)
	if ball.IsExtra {
		innings.Extras += ball.ExtraRuns
	}
	innings.DeliveryCount = ball.DeliverySeq

	next, swapped := AdvanceCrease(crease, ball, overCompleted)
	ball.StrikeChanged = swapped
	next, disagreed := applyHint(next, event.StrikerID, event.NonStrikerID, s.cfg.TrustCallerRotation)
	if disagreed {
		log.WithFields(logrus.Fields{
			"delivery_seq":     ball.DeliverySeq,
			"striker":          next.Striker,
			"non_striker":      next.NonStriker,
			"hint_striker":     idOrZero(event.StrikerID),
			"hint_non_striker": idOrZero(event.NonStrikerID),
			"trust_caller":     s.cfg.TrustCallerRotation,
		}).Warn("Caller crease disagrees with derived rotation")
	}
	next.store(innings)

	if err := tx.CreateBall(ctx, ball); err != nil {
		return nil, nil, fmt.Errorf("create ball: %w", err)
	}
	if err := tx.UpdateOver(ctx, over); err != nil {
		return nil, nil, fmt.Errorf("update over: %w", err)
	}
	for _, row := range batting {
		if err := tx.SaveBattingPerformance(ctx, row); err != nil {
			return nil, nil, fmt.Errorf("save batting row: %w", err)
		}
	}
	if err := tx.SaveBowlingPerformance(ctx, &bowling); err != nil {
		return nil, nil, fmt.Errorf("save bowling row: %w", err)
	}
	if err := tx.UpdateInnings(ctx, innings); err != nil {
		return nil, nil, fmt.Errorf("update innings: %w", err)
	}

	sample := buildSample(match, innings, ball)
	if err := tx.CreateWinProbabilitySample(ctx, sample); err != nil {
		return nil, nil, fmt.Errorf("create win probability sample: %w", err)
	}

	return &BallRecorded{
		Ball:           ball,
		Innings:        innings,
		Over:           over,
		Crease:         next,
		OverCompleted:  overCompleted,
		InningsDone:    checkInningsOpen(match, innings) != nil,
		WinProbability: sample,
	}, match, nil
}

// checkInningsOpen rejects deliveries once the innings has nothing left to play.
func checkInningsOpen(match *Match, innings *Innings) error {
	overs := match.OversPerInnings()
	switch {
	case innings.TotalWickets >= MaxWickets:
		return apperror.InvalidStatef("innings", innings.ID, "innings is all out")
	case innings.LegalBalls >= overs*cricmath.BallsPerOver:
		return apperror.InvalidStatef("innings", innings.ID, "all %d overs have been bowled", overs)
	case innings.TargetReached():
		return apperror.InvalidStatef("innings", innings.ID, "target of %d has been reached", *innings.Target)
	}
	return nil
}

// dismissedPlayers returns the batsmen who cannot return to the crease.
// A retired-hurt batsman may resume.
func dismissedPlayers(ctx context.Context, tx MatchRepository, inningsID uint) (map[uint]bool, error) {
	rows, err := tx.ListBattingPerformances(ctx, inningsID)
	if err != nil {
		return nil, fmt.Errorf("list batting rows: %w", err)
	}
	out := make(map[uint]bool)
	for _, r := range rows {
		if r.IsOut && !r.resuming() {
			out[r.PlayerID] = true
		}
	}
	return out, nil
}

// currentOver returns the over the next delivery belongs to, opening a new
// one when the current over is complete.
func (s *Service) currentOver(ctx context.Context, tx MatchRepository, innings *Innings, bowlerID uint, log *logrus.Entry) (*Over, error) {
	var prev *Over
	if innings.CurrentOverID != nil {
		over, err := tx.GetOverByID(ctx, *innings.CurrentOverID)
		if err != nil {
			return nil, err
		}
		if !over.IsComplete() {
			if over.BowlerID != bowlerID {
				log.WithFields(logrus.Fields{
					"over":        over.OverNumber,
					"bowler_id":   over.BowlerID,
					"replacement": bowlerID,
				}).Warn("Bowler changed mid-over")
			}
			return over, nil
		}
		prev = over
	}

	next := &Over{InningsID: innings.ID, BowlerID: bowlerID}
	if prev != nil {
		if prev.BowlerID == bowlerID {
			return nil, apperror.BusinessRule("bowler %d bowled over %d and cannot bowl the next one", bowlerID, prev.OverNumber)
		}
		next.OverNumber = prev.OverNumber + 1
	}
	if err := tx.CreateOver(ctx, next); err != nil {
		return nil, fmt.Errorf("create over: %w", err)
	}
	innings.CurrentOverID = &next.ID
	return next, nil
}

func newBall(match *Match, innings *Innings, over *Over, crease Crease, bowlerID uint, event *BallEvent) *Ball {
	ball := &Ball{
		InningsID:     innings.ID,
		OverID:        over.ID,
		DeliverySeq:   innings.DeliveryCount + 1,
		OverNumber:    over.OverNumber,
		BallNumber:    over.LegalBalls + 1,
		IsLegal:       event.isLegal(),
		Phase:         cricmath.PhaseOf(over.OverNumber, match.OversPerInnings()),
		StrikerID:     crease.Striker,
		NonStrikerID:  crease.NonStriker,
		BowlerID:      bowlerID,
		Runs:          event.Runs,
		IsWicket:      event.IsWicket,
		WicketTakerID: event.WicketTakerID,
		IsExtra:       event.IsExtra,
		ExtraRuns:     event.ExtraRuns,
		Commentary:    strings.TrimSpace(event.Commentary),
	}
	if event.IsWicket {
		wt := event.WicketType
		ball.WicketType = &wt
		out := crease.Striker
		if event.DismissedPlayerID != nil {
			out = *event.DismissedPlayerID
		}
		ball.DismissedPlayerID = &out
	}
	if event.IsExtra {
		et := event.ExtraType
		ball.ExtraType = &et
	}
	return ball
}

// battingRows returns the batting rows touched by ball: always the striker's,
// and the non-striker's on first appearance or when run out.
func (s *Service) battingRows(ctx context.Context, tx MatchRepository, innings *Innings, crease Crease, ball *Ball) ([]*BattingPerformance, error) {
	existing, err := tx.GetBattingPerformance(ctx, innings.ID, crease.Striker)
	if err != nil {
		return nil, fmt.Errorf("load batting row: %w", err)
	}
	striker := ApplyToBatting(existing, ball)
	striker.TeamID = innings.BattingTeamID
	rows := []*BattingPerformance{&striker}

	existing, err = tx.GetBattingPerformance(ctx, innings.ID, crease.NonStriker)
	if err != nil {
		return nil, fmt.Errorf("load batting row: %w", err)
	}
	if existing == nil || existing.resuming() || dismissed(ball) == crease.NonStriker {
		nonStriker := ApplyDismissal(existing, ball, crease.NonStriker)
		nonStriker.TeamID = innings.BattingTeamID
		rows = append(rows, &nonStriker)
	}
	return rows, nil
}

func idOrZero(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
