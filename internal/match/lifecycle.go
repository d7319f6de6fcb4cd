package match

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// CreateMatchInput is the metadata of a new fixture.
type CreateMatchInput struct {
	Team1ID      uint        `json:"team1_id" binding:"required"`
	Team2ID      uint        `json:"team2_id" binding:"required"`
	TournamentID *uint       `json:"tournament_id,omitempty"`
	Venue        string      `json:"venue,omitempty" binding:"max=200"`
	ScheduledAt  time.Time   `json:"scheduled_at" binding:"required"`
	Description  string      `json:"description,omitempty"`
	Format       MatchFormat `json:"format,omitempty"`
	CustomOvers  *int        `json:"custom_overs,omitempty" binding:"omitempty,min=1,max=50"`
	IsAdHoc      bool        `json:"is_ad_hoc"`
}

// UpdateMatchInput carries the metadata fields to change. Nil fields are kept.
type UpdateMatchInput struct {
	Venue       *string      `json:"venue,omitempty" binding:"omitempty,max=200"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	Description *string      `json:"description,omitempty"`
	Format      *MatchFormat `json:"format,omitempty"`
	CustomOvers *int         `json:"custom_overs,omitempty" binding:"omitempty,min=1,max=50"`
	IsAdHoc     *bool        `json:"is_ad_hoc,omitempty"`
}

func validateFormat(format MatchFormat, customOvers *int) error {
	if !format.Valid() {
		return apperror.Validation("format", fmt.Sprintf("unknown match format %q", format))
	}
	if customOvers != nil && *customOvers <= 0 {
		return apperror.Validation("custom_overs", "custom overs must be positive")
	}
	if format == FormatCustom && customOvers == nil {
		return apperror.Validation("custom_overs", "a CUSTOM match needs custom_overs")
	}
	return nil
}

// CreateMatch schedules a fixture.
func (s *Service) CreateMatch(ctx context.Context, in CreateMatchInput) (*Match, error) {
	if in.Team1ID == 0 || in.Team2ID == 0 {
		return nil, apperror.Validation("team1_id", "both teams are required")
	}
	if in.Team1ID == in.Team2ID {
		return nil, apperror.Validation("team2_id", "a team cannot play itself")
	}
	if in.Format == "" {
		in.Format = FormatT20
	}
	if err := validateFormat(in.Format, in.CustomOvers); err != nil {
		return nil, err
	}

	match := &Match{
		Team1ID:      in.Team1ID,
		Team2ID:      in.Team2ID,
		TournamentID: in.TournamentID,
		Venue:        strings.TrimSpace(in.Venue),
		ScheduledAt:  in.ScheduledAt,
		Description:  in.Description,
		Format:       in.Format,
		CustomOvers:  in.CustomOvers,
		IsAdHoc:      in.IsAdHoc,
		Status:       StatusScheduled,
	}
	if err := s.repo.CreateMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	s.logger.WithField("match_id", match.ID).Info("Match scheduled")
	return match, nil
}

// UpdateMatch edits the metadata of a SCHEDULED match.
func (s *Service) UpdateMatch(ctx context.Context, matchID uint, in UpdateMatchInput) (*Match, error) {
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	match, err := s.scheduledMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if in.Venue != nil {
		match.Venue = strings.TrimSpace(*in.Venue)
	}
	if in.ScheduledAt != nil {
		match.ScheduledAt = *in.ScheduledAt
	}
	if in.Description != nil {
		match.Description = *in.Description
	}
	if in.Format != nil {
		match.Format = *in.Format
	}
	if in.CustomOvers != nil {
		match.CustomOvers = in.CustomOvers
	}
	if in.IsAdHoc != nil {
		match.IsAdHoc = *in.IsAdHoc
	}
	if err := validateFormat(match.Format, match.CustomOvers); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	return match, nil
}

// DeleteMatch removes a SCHEDULED match and its squad list.
func (s *Service) DeleteMatch(ctx context.Context, matchID uint) error {
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	if _, err := s.scheduledMatch(ctx, matchID); err != nil {
		return err
	}
	if err := s.repo.DeleteMatch(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	s.logger.WithField("match_id", matchID).Info("Match deleted")
	return nil
}

func (s *Service) scheduledMatch(ctx context.Context, matchID uint) (*Match, error) {
	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != StatusScheduled {
		return nil, apperror.InvalidState("match", match.ID, string(StatusScheduled), string(match.Status))
	}
	return match, nil
}

// AddSquadPlayer puts a player on the explicit squad list of a SCHEDULED match.
func (s *Service) AddSquadPlayer(ctx context.Context, matchID, teamID, playerID uint) (*SquadPlayer, error) {
	if playerID == 0 {
		return nil, apperror.Validation("player_id", "player is required")
	}
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	match, err := s.scheduledMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasTeam(teamID) {
		return nil, apperror.Validation("team_id", fmt.Sprintf("team %d is not playing match %d", teamID, matchID))
	}
	squad, err := s.repo.ListSquad(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list squad: %w", err)
	}
	for _, p := range squad {
		if p.PlayerID == playerID {
			return nil, apperror.BusinessRule("player %d is already in the squad of team %d", playerID, p.TeamID)
		}
	}

	player := &SquadPlayer{MatchID: matchID, TeamID: teamID, PlayerID: playerID}
	if err := s.repo.AddSquadPlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("add squad player: %w", err)
	}
	return player, nil
}

// ListSquad returns the explicit squad list of a match.
func (s *Service) ListSquad(ctx context.Context, matchID uint) ([]SquadPlayer, error) {
	if _, err := s.repo.GetMatchByID(ctx, matchID); err != nil {
		return nil, err
	}
	return s.repo.ListSquad(ctx, matchID)
}

// squadSize counts the players available to a team: the squad list for an
// ad-hoc match, active contracts otherwise.
func (s *Service) squadSize(ctx context.Context, match *Match, teamID uint) (int64, error) {
	if match.IsAdHoc || s.squads == nil {
		return s.repo.CountSquadPlayers(ctx, match.ID, teamID)
	}
	return s.squads.CountActiveMembers(ctx, teamID)
}

// TossResult is the state after the toss.
type TossResult struct {
	Match   *Match   `json:"match"`
	Innings *Innings `json:"innings"`
}

// RecordToss starts a SCHEDULED match: it checks both squads, opens innings 1
// with the side chosen by the toss winner and moves the match to LIVE.
func (s *Service) RecordToss(ctx context.Context, matchID, tossWinnerID uint, decision TossDecision) (*TossResult, error) {
	if !decision.Valid() {
		return nil, apperror.Validation("decision", fmt.Sprintf("decision must be %q or %q", TossBat, TossBowl))
	}
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	match, err := s.scheduledMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasTeam(tossWinnerID) {
		return nil, apperror.Validation("toss_winner_id", fmt.Sprintf("team %d is not playing match %d", tossWinnerID, matchID))
	}
	for _, teamID := range []uint{match.Team1ID, match.Team2ID} {
		n, err := s.squadSize(ctx, match, teamID)
		if err != nil {
			return nil, fmt.Errorf("count squad of team %d: %w", teamID, err)
		}
		if n < int64(s.cfg.MinSquadSize) {
			return nil, apperror.BusinessRule("team %d has %d players available; at least %d are required",
				teamID, n, s.cfg.MinSquadSize)
		}
	}

	batting := tossWinnerID
	if decision == TossBowl {
		batting = match.Opponent(tossWinnerID)
	}
	innings := &Innings{
		MatchID:       match.ID,
		InningsNumber: 1,
		BattingTeamID: batting,
		BowlingTeamID: match.Opponent(batting),
		Status:        InningsInProgress,
	}
	now := s.now()

	err = s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		if err := tx.CreateInnings(ctx, innings); err != nil {
			return fmt.Errorf("create innings: %w", err)
		}
		match.Status = StatusLive
		match.TossWinnerID = &tossWinnerID
		match.TossDecision = decision
		match.StartedAt = &now
		match.CurrentInningsID = &innings.ID
		if err := tx.UpdateMatch(ctx, match); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":       match.ID,
		"toss_winner_id": tossWinnerID,
		"decision":       decision,
		"batting_team":   batting,
	}).Info("Toss recorded, match is live")

	s.publish(
		NewEvent(EventMatchStarted, match.ID, innings.ID, MatchPayload{Match: match}),
		NewEvent(EventInningsStarted, match.ID, innings.ID, InningsPayload{Innings: innings}),
	)
	started := *match
	s.dispatch.Go("notifier", logrus.Fields{"match_id": match.ID}, func(ctx context.Context) error {
		return s.notifier.NotifyMatchStart(ctx, &started)
	})
	return &TossResult{Match: match, Innings: innings}, nil
}

// StartInnings opens the second innings once the first is complete. The
// sides swap and the target is one more than the first-innings total.
func (s *Service) StartInnings(ctx context.Context, matchID uint, inningsNumber int) (*Innings, error) {
	if inningsNumber < 2 {
		return nil, apperror.Validation("innings_number", "the first innings starts with the toss")
	}
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != StatusLive {
		return nil, apperror.InvalidState("match", match.ID, string(StatusLive), string(match.Status))
	}
	if inningsNumber > 2 {
		return nil, apperror.InvalidStatef("match", match.ID, "a limited-overs match has two innings")
	}
	existing, err := s.repo.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list innings: %w", err)
	}
	if len(existing) != inningsNumber-1 {
		return nil, apperror.InvalidStatef("match", match.ID,
			"innings %d cannot start with %d innings played", inningsNumber, len(existing))
	}
	prev := existing[len(existing)-1]
	if prev.Status != InningsCompleted {
		return nil, apperror.InvalidState("innings", prev.ID, string(InningsCompleted), string(prev.Status))
	}

	target := prev.TotalRuns + 1
	innings := &Innings{
		MatchID:       match.ID,
		InningsNumber: inningsNumber,
		BattingTeamID: prev.BowlingTeamID,
		BowlingTeamID: prev.BattingTeamID,
		Status:        InningsInProgress,
		Target:        &target,
	}
	err = s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		if err := tx.CreateInnings(ctx, innings); err != nil {
			return fmt.Errorf("create innings: %w", err)
		}
		match.CurrentInningsID = &innings.ID
		return tx.UpdateMatch(ctx, match)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":   match.ID,
		"innings_id": innings.ID,
		"target":     target,
	}).Info("Innings started")
	s.publish(NewEvent(EventInningsStarted, match.ID, innings.ID, InningsPayload{Innings: innings}))
	return innings, nil
}

// CompleteInnings closes an IN_PROGRESS innings. No further balls are accepted.
func (s *Service) CompleteInnings(ctx context.Context, inningsID uint) (*Innings, error) {
	unlock := s.inningsLocks.Lock(inningsID)
	defer unlock()

	var innings *Innings
	err := s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		var err error
		innings, err = s.closeInnings(ctx, tx, inningsID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":   innings.MatchID,
		"innings_id": innings.ID,
		"score":      fmt.Sprintf("%d/%d", innings.TotalRuns, innings.TotalWickets),
		"overs":      innings.TotalOvers.String(),
	}).Info("Innings completed")
	s.publish(NewEvent(EventInningsCompleted, innings.MatchID, innings.ID, InningsPayload{Innings: innings}))
	return innings, nil
}

// closeInnings marks the innings COMPLETED. The caller holds its lock.
func (s *Service) closeInnings(ctx context.Context, tx MatchRepository, inningsID uint) (*Innings, error) {
	innings, err := tx.GetInningsByID(ctx, inningsID)
	if err != nil {
		return nil, err
	}
	if innings.Status != InningsInProgress {
		return nil, apperror.InvalidState("innings", innings.ID, string(InningsInProgress), string(innings.Status))
	}
	now := s.now()
	innings.Status = InningsCompleted
	innings.CompletedAt = &now
	if err := tx.UpdateInnings(ctx, innings); err != nil {
		return nil, fmt.Errorf("update innings: %w", err)
	}
	return innings, nil
}

// CompleteMatch decides the result of a LIVE match with two innings, closing
// the second innings if it is still open. Notifications, standings and
// completion hooks run after the commit and cannot fail the transition.
func (s *Service) CompleteMatch(ctx context.Context, matchID uint) (*MatchResult, error) {
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != StatusLive {
		return nil, apperror.InvalidState("match", match.ID, string(StatusLive), string(match.Status))
	}
	listed, err := s.repo.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list innings: %w", err)
	}
	if len(listed) != 2 {
		return nil, apperror.InvalidStatef("match", match.ID, "a result needs exactly 2 innings, found %d", len(listed))
	}

	for _, id := range sortedInningsIDs(listed) {
		defer s.inningsLocks.Lock(id)()
	}

	// Re-read under the innings locks so the totals are final.
	innings, err := s.repo.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list innings: %w", err)
	}
	first, second := &innings[0], &innings[1]
	if first.Status != InningsCompleted {
		return nil, apperror.InvalidState("innings", first.ID, string(InningsCompleted), string(first.Status))
	}

	batting, err := s.repo.ListBattingPerformances(ctx, first.ID, second.ID)
	if err != nil {
		return nil, fmt.Errorf("list batting rows: %w", err)
	}
	bowling, err := s.repo.ListBowlingPerformances(ctx, first.ID, second.ID)
	if err != nil {
		return nil, fmt.Errorf("list bowling rows: %w", err)
	}

	result := DecideResult(first, second)
	result.ResultText = FormatResult(s.teamName(ctx, result.WinnerID), result.Margin, result.MarginType)
	if mom, ok := SelectManOfMatch(batting, bowling); ok {
		id := mom.PlayerID
		result.ManOfMatchID = &id
		result.ManOfMatchScore = mom.Score
	}

	closedSecond := second.Status == InningsInProgress
	now := s.now()
	err = s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		if closedSecond {
			closed, err := s.closeInnings(ctx, tx, second.ID)
			if err != nil {
				return err
			}
			*second = *closed
		}
		margin := result.Margin
		winner := result.WinnerID
		match.Status = StatusCompleted
		match.CompletedAt = &now
		match.WinnerID = &winner
		match.WinMargin = &margin
		match.WinMarginType = result.MarginType
		match.ResultText = result.ResultText
		match.ManOfMatchID = result.ManOfMatchID
		if err := tx.UpdateMatch(ctx, match); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMatchesCompleted()
	s.logger.WithFields(logrus.Fields{
		"match_id":      match.ID,
		"winner_id":     result.WinnerID,
		"result":        result.ResultText,
		"man_of_match":  idOrZero(result.ManOfMatchID),
		"closed_second": closedSecond,
	}).Info("Match completed")

	var events []Event
	if closedSecond {
		events = append(events, NewEvent(EventInningsCompleted, match.ID, second.ID, InningsPayload{Innings: second}))
	}
	events = append(events, NewEvent(EventMatchCompleted, match.ID, 0, MatchPayload{Match: match, Result: &result}))
	s.publish(events...)
	s.fanOutCompletion(*match, result, innings)
	return &result, nil
}

// fanOutCompletion runs each downstream collaborator as its own background task.
func (s *Service) fanOutCompletion(match Match, result MatchResult, innings []Innings) {
	fields := logrus.Fields{"match_id": match.ID}

	s.dispatch.Go("notifier", fields, func(ctx context.Context) error {
		return s.notifier.NotifyMatchEnd(ctx, &match)
	})
	if s.standings != nil && match.TournamentID != nil {
		outcome := standingsOutcome(&match, result, innings)
		s.dispatch.Go("standings", fields, func(ctx context.Context) error {
			return s.standings.RecordResult(ctx, outcome)
		})
	}
	for _, hook := range s.hooks {
		snapshot := append([]Innings(nil), innings...)
		s.dispatch.Go(hook.Name(), fields, func(ctx context.Context) error {
			m := match
			return hook.OnMatchCompleted(ctx, &m, snapshot)
		})
	}
}

// CancelMatch abandons a SCHEDULED or LIVE match and closes any open innings.
func (s *Service) CancelMatch(ctx context.Context, matchID uint) (*Match, error) {
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	match, err := s.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != StatusScheduled && match.Status != StatusLive {
		return nil, apperror.InvalidState("match", match.ID, "SCHEDULED or LIVE", string(match.Status))
	}
	innings, err := s.repo.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list innings: %w", err)
	}
	var open []uint
	for _, in := range innings {
		if in.Status == InningsInProgress {
			open = append(open, in.ID)
		}
	}
	for _, id := range open {
		defer s.inningsLocks.Lock(id)()
	}

	wasLive := match.Status == StatusLive
	now := s.now()
	err = s.repo.WithTransaction(ctx, func(tx MatchRepository) error {
		for _, id := range open {
			if _, err := s.closeInnings(ctx, tx, id); err != nil {
				return err
			}
		}
		match.Status = StatusAbandoned
		match.CompletedAt = &now
		return tx.UpdateMatch(ctx, match)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"match_id": match.ID, "was_live": wasLive}).Info("Match abandoned")
	s.publish(NewEvent(EventMatchAbandoned, match.ID, 0, MatchPayload{Match: match}))
	if wasLive {
		abandoned := *match
		s.dispatch.Go("notifier", logrus.Fields{"match_id": match.ID}, func(ctx context.Context) error {
			return s.notifier.NotifyMatchEnd(ctx, &abandoned)
		})
	}
	return match, nil
}

func sortedInningsIDs(innings []Innings) []uint {
	ids := make([]uint, 0, len(innings))
	for _, in := range innings {
		ids = append(ids, in.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
