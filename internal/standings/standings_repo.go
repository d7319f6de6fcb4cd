package standings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// StandingsRepository defines methods to interact with points tables
type StandingsRepository interface {
	GetEntry(ctx context.Context, tournamentID, teamID uint) (*PointsTableEntry, error)
	SaveEntry(ctx context.Context, entry *PointsTableEntry) error
	ListEntries(ctx context.Context, tournamentID uint) ([]PointsTableEntry, error)
	IsApplied(ctx context.Context, matchID uint) (bool, error)
	MarkApplied(ctx context.Context, matchID, tournamentID uint) error

	WithTransaction(ctx context.Context, txFunc func(StandingsRepository) error) error
}

// GormStandingsRepository implements StandingsRepository using GORM
type GormStandingsRepository struct {
	db *gorm.DB
}

func NewGormStandingsRepository(db *gorm.DB) *GormStandingsRepository {
	return &GormStandingsRepository{db: db}
}

func (r *GormStandingsRepository) WithTransaction(ctx context.Context, txFunc func(StandingsRepository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	if err := txFunc(&GormStandingsRepository{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// GetEntry returns nil, nil when the team has no row yet
func (r *GormStandingsRepository) GetEntry(ctx context.Context, tournamentID, teamID uint) (*PointsTableEntry, error) {
	var entry PointsTableEntry
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND team_id = ?", tournamentID, teamID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *GormStandingsRepository) SaveEntry(ctx context.Context, entry *PointsTableEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *GormStandingsRepository) ListEntries(ctx context.Context, tournamentID uint) ([]PointsTableEntry, error) {
	var entries []PointsTableEntry
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("points DESC, net_run_rate DESC, team_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *GormStandingsRepository) IsApplied(ctx context.Context, matchID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AppliedResult{}).
		Where("match_id = ?", matchID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormStandingsRepository) MarkApplied(ctx context.Context, matchID, tournamentID uint) error {
	return r.db.WithContext(ctx).Create(&AppliedResult{MatchID: matchID, TournamentID: tournamentID}).Error
}
