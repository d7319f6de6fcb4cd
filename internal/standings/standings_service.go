package standings

import (
	"context"
	"fmt"
	"sync"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// Service keeps tournament points tables. RecordResult is idempotent per match.
type Service struct {
	repo   StandingsRepository
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewService(repo StandingsRepository, logger *logrus.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RecordResult folds a completed match into both teams' entries.
func (s *Service) RecordResult(ctx context.Context, outcome Outcome) error {
	if outcome.TournamentID == 0 {
		return apperror.Validation("tournament_id", "match does not belong to a tournament")
	}
	if outcome.WinnerID == 0 || outcome.LoserID == 0 || outcome.WinnerID == outcome.LoserID {
		return apperror.Validation("winner_id", "a result needs distinct winner and loser")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"match_id":      outcome.MatchID,
		"tournament_id": outcome.TournamentID,
	})

	return s.repo.WithTransaction(ctx, func(tx StandingsRepository) error {
		applied, err := tx.IsApplied(ctx, outcome.MatchID)
		if err != nil {
			return fmt.Errorf("check applied result: %w", err)
		}
		if applied {
			log.Info("Standings already include this match, skipping")
			return nil
		}

		for _, teamID := range []uint{outcome.WinnerID, outcome.LoserID} {
			entry, err := tx.GetEntry(ctx, outcome.TournamentID, teamID)
			if err != nil {
				return fmt.Errorf("get points entry for team %d: %w", teamID, err)
			}
			if entry == nil {
				entry = &PointsTableEntry{TournamentID: outcome.TournamentID, TeamID: teamID}
			}
			updated := Apply(*entry, outcome)
			if err := tx.SaveEntry(ctx, &updated); err != nil {
				return fmt.Errorf("save points entry for team %d: %w", teamID, err)
			}
		}

		if err := tx.MarkApplied(ctx, outcome.MatchID, outcome.TournamentID); err != nil {
			return fmt.Errorf("mark result applied: %w", err)
		}
		log.Info("Standings updated")
		return nil
	})
}

// GetPointsTable returns a tournament table ordered by points, then net run rate.
func (s *Service) GetPointsTable(ctx context.Context, tournamentID uint) ([]PointsTableEntry, error) {
	entries, err := s.repo.ListEntries(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list points table: %w", err)
	}
	return entries, nil
}
