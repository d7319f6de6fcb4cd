package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"gorm.io/gorm"
)

// MatchFilter narrows ListMatches. Zero values are ignored.
type MatchFilter struct {
	Status       MatchStatus
	TournamentID uint
	TeamID       uint
}

// MatchRepository defines methods to interact with scoring data
type MatchRepository interface {
	// Match methods
	CreateMatch(ctx context.Context, match *Match) error
	GetMatchByID(ctx context.Context, id uint) (*Match, error)
	UpdateMatch(ctx context.Context, match *Match) error
	DeleteMatch(ctx context.Context, id uint) error
	ListMatches(ctx context.Context, filter MatchFilter, page, pageSize int) ([]Match, int64, error)

	// Squad methods
	AddSquadPlayer(ctx context.Context, player *SquadPlayer) error
	CountSquadPlayers(ctx context.Context, matchID, teamID uint) (int64, error)
	ListSquad(ctx context.Context, matchID uint) ([]SquadPlayer, error)

	// Innings methods
	CreateInnings(ctx context.Context, innings *Innings) error
	GetInningsByID(ctx context.Context, id uint) (*Innings, error)
	UpdateInnings(ctx context.Context, innings *Innings) error
	ListInningsByMatch(ctx context.Context, matchID uint) ([]Innings, error)
	ListInningsByStatus(ctx context.Context, status InningsStatus) ([]Innings, error)

	// Over and ball methods
	CreateOver(ctx context.Context, over *Over) error
	GetOverByID(ctx context.Context, id uint) (*Over, error)
	UpdateOver(ctx context.Context, over *Over) error
	ListOvers(ctx context.Context, inningsID uint) ([]Over, error)
	CreateBall(ctx context.Context, ball *Ball) error
	ListBalls(ctx context.Context, inningsID uint) ([]Ball, error)
	LastBalls(ctx context.Context, inningsID uint, limit int) ([]Ball, error)
	FindBall(ctx context.Context, inningsID uint, overNumber, ballNumber int) (*Ball, error)

	// Performance methods. Getters return nil, nil when the player has no row yet.
	GetBattingPerformance(ctx context.Context, inningsID, playerID uint) (*BattingPerformance, error)
	SaveBattingPerformance(ctx context.Context, perf *BattingPerformance) error
	ListBattingPerformances(ctx context.Context, inningsIDs ...uint) ([]BattingPerformance, error)
	GetBowlingPerformance(ctx context.Context, inningsID, playerID uint) (*BowlingPerformance, error)
	SaveBowlingPerformance(ctx context.Context, perf *BowlingPerformance) error
	ListBowlingPerformances(ctx context.Context, inningsIDs ...uint) ([]BowlingPerformance, error)

	// Win probability methods
	CreateWinProbabilitySample(ctx context.Context, sample *WinProbabilitySample) error
	GetWinProbabilitySample(ctx context.Context, inningsID uint, deliverySeq int) (*WinProbabilitySample, error)
	ListWinProbabilitySamples(ctx context.Context, matchID uint) ([]WinProbabilitySample, error)
	LatestWinProbabilitySample(ctx context.Context, matchID uint) (*WinProbabilitySample, error)

	// Transaction support
	WithTransaction(ctx context.Context, txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(ctx context.Context, txFunc func(MatchRepository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	txRepo := &GormMatchRepository{db: tx}
	if err := txFunc(txRepo); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// first loads one row, translating a missing row into a NOT_FOUND error.
func first[T any](db *gorm.DB, entity string, id uint, dest *T) (*T, error) {
	if err := db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(entity, id)
		}
		return nil, fmt.Errorf("get %s %d: %w", entity, id, err)
	}
	return dest, nil
}

// optional loads one row matching the query, nil when there is none.
func optional[T any](query *gorm.DB, dest *T) (*T, error) {
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dest, nil
}

// Match Repository Methods

func (r *GormMatchRepository) CreateMatch(ctx context.Context, match *Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

func (r *GormMatchRepository) GetMatchByID(ctx context.Context, id uint) (*Match, error) {
	return first(r.db.WithContext(ctx), "match", id, &Match{})
}

func (r *GormMatchRepository) UpdateMatch(ctx context.Context, match *Match) error {
	return r.db.WithContext(ctx).Save(match).Error
}

// DeleteMatch soft-deletes a match and its squad list
func (r *GormMatchRepository) DeleteMatch(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("match_id = ?", id).Delete(&SquadPlayer{}).Error; err != nil {
		return err
	}
	return db.Delete(&Match{}, id).Error
}

// ListMatches retrieves matches based on filters with pagination
func (r *GormMatchRepository) ListMatches(ctx context.Context, filter MatchFilter, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.WithContext(ctx).Model(&Match{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TournamentID != 0 {
		query = query.Where("tournament_id = ?", filter.TournamentID)
	}
	if filter.TeamID != 0 {
		query = query.Where("team1_id = ? OR team2_id = ?", filter.TeamID, filter.TeamID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("scheduled_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&matches).Error
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// Squad Repository Methods

func (r *GormMatchRepository) AddSquadPlayer(ctx context.Context, player *SquadPlayer) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *GormMatchRepository) CountSquadPlayers(ctx context.Context, matchID, teamID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SquadPlayer{}).
		Where("match_id = ? AND team_id = ?", matchID, teamID).
		Count(&count).Error
	return count, err
}

func (r *GormMatchRepository) ListSquad(ctx context.Context, matchID uint) ([]SquadPlayer, error) {
	var players []SquadPlayer
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("team_id ASC, id ASC").
		Find(&players).Error
	return players, err
}

// Innings Repository Methods

func (r *GormMatchRepository) CreateInnings(ctx context.Context, innings *Innings) error {
	return r.db.WithContext(ctx).Create(innings).Error
}

func (r *GormMatchRepository) GetInningsByID(ctx context.Context, id uint) (*Innings, error) {
	return first(r.db.WithContext(ctx), "innings", id, &Innings{})
}

func (r *GormMatchRepository) UpdateInnings(ctx context.Context, innings *Innings) error {
	return r.db.WithContext(ctx).Save(innings).Error
}

// ListInningsByMatch returns a match's innings in batting order
func (r *GormMatchRepository) ListInningsByMatch(ctx context.Context, matchID uint) ([]Innings, error) {
	var innings []Innings
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("innings_number ASC").
		Find(&innings).Error
	return innings, err
}

func (r *GormMatchRepository) ListInningsByStatus(ctx context.Context, status InningsStatus) ([]Innings, error) {
	var innings []Innings
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id ASC").
		Find(&innings).Error
	return innings, err
}

// Over and Ball Repository Methods

func (r *GormMatchRepository) CreateOver(ctx context.Context, over *Over) error {
	return r.db.WithContext(ctx).Create(over).Error
}

func (r *GormMatchRepository) GetOverByID(ctx context.Context, id uint) (*Over, error) {
	return first(r.db.WithContext(ctx), "over", id, &Over{})
}

func (r *GormMatchRepository) UpdateOver(ctx context.Context, over *Over) error {
	return r.db.WithContext(ctx).Save(over).Error
}

func (r *GormMatchRepository) ListOvers(ctx context.Context, inningsID uint) ([]Over, error) {
	var overs []Over
	err := r.db.WithContext(ctx).
		Where("innings_id = ?", inningsID).
		Order("over_number ASC").
		Find(&overs).Error
	return overs, err
}

func (r *GormMatchRepository) CreateBall(ctx context.Context, ball *Ball) error {
	return r.db.WithContext(ctx).Create(ball).Error
}

// ListBalls returns the full delivery log of an innings in bowling order
func (r *GormMatchRepository) ListBalls(ctx context.Context, inningsID uint) ([]Ball, error) {
	var balls []Ball
	err := r.db.WithContext(ctx).
		Where("innings_id = ?", inningsID).
		Order("delivery_seq ASC").
		Find(&balls).Error
	return balls, err
}

// LastBalls returns the most recent deliveries, oldest first
func (r *GormMatchRepository) LastBalls(ctx context.Context, inningsID uint, limit int) ([]Ball, error) {
	var balls []Ball
	err := r.db.WithContext(ctx).
		Where("innings_id = ?", inningsID).
		Order("delivery_seq DESC").
		Limit(limit).
		Find(&balls).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(balls)-1; i < j; i, j = i+1, j-1 {
		balls[i], balls[j] = balls[j], balls[i]
	}
	return balls, nil
}

// FindBall returns the last delivery recorded under an (over, ball) pair
func (r *GormMatchRepository) FindBall(ctx context.Context, inningsID uint, overNumber, ballNumber int) (*Ball, error) {
	ball, err := optional(r.db.WithContext(ctx).
		Where("innings_id = ? AND over_number = ? AND ball_number = ?", inningsID, overNumber, ballNumber).
		Order("delivery_seq DESC"), &Ball{})
	if err != nil {
		return nil, err
	}
	if ball == nil {
		return nil, &apperror.Error{
			Kind:    apperror.KindNotFound,
			Entity:  "innings",
			ID:      inningsID,
			Message: fmt.Sprintf("ball %d.%d not found", overNumber, ballNumber),
		}
	}
	return ball, nil
}

// Performance Repository Methods

func (r *GormMatchRepository) GetBattingPerformance(ctx context.Context, inningsID, playerID uint) (*BattingPerformance, error) {
	return optional(r.db.WithContext(ctx).
		Where("innings_id = ? AND player_id = ?", inningsID, playerID), &BattingPerformance{})
}

func (r *GormMatchRepository) SaveBattingPerformance(ctx context.Context, perf *BattingPerformance) error {
	return r.db.WithContext(ctx).Save(perf).Error
}

func (r *GormMatchRepository) ListBattingPerformances(ctx context.Context, inningsIDs ...uint) ([]BattingPerformance, error) {
	var perfs []BattingPerformance
	if len(inningsIDs) == 0 {
		return perfs, nil
	}
	err := r.db.WithContext(ctx).
		Where("innings_id IN ?", inningsIDs).
		Order("innings_id ASC, id ASC").
		Find(&perfs).Error
	return perfs, err
}

func (r *GormMatchRepository) GetBowlingPerformance(ctx context.Context, inningsID, playerID uint) (*BowlingPerformance, error) {
	return optional(r.db.WithContext(ctx).
		Where("innings_id = ? AND player_id = ?", inningsID, playerID), &BowlingPerformance{})
}

func (r *GormMatchRepository) SaveBowlingPerformance(ctx context.Context, perf *BowlingPerformance) error {
	return r.db.WithContext(ctx).Save(perf).Error
}

func (r *GormMatchRepository) ListBowlingPerformances(ctx context.Context, inningsIDs ...uint) ([]BowlingPerformance, error) {
	var perfs []BowlingPerformance
	if len(inningsIDs) == 0 {
		return perfs, nil
	}
	err := r.db.WithContext(ctx).
		Where("innings_id IN ?", inningsIDs).
		Order("innings_id ASC, id ASC").
		Find(&perfs).Error
	return perfs, err
}

// Win Probability Repository Methods

func (r *GormMatchRepository) CreateWinProbabilitySample(ctx context.Context, sample *WinProbabilitySample) error {
	return r.db.WithContext(ctx).Create(sample).Error
}

func (r *GormMatchRepository) GetWinProbabilitySample(ctx context.Context, inningsID uint, deliverySeq int) (*WinProbabilitySample, error) {
	return optional(r.db.WithContext(ctx).
		Where("innings_id = ? AND delivery_seq = ?", inningsID, deliverySeq), &WinProbabilitySample{})
}

// ListWinProbabilitySamples returns the match history in delivery order
func (r *GormMatchRepository) ListWinProbabilitySamples(ctx context.Context, matchID uint) ([]WinProbabilitySample, error) {
	var samples []WinProbabilitySample
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("innings_number ASC, delivery_seq ASC").
		Find(&samples).Error
	return samples, err
}

func (r *GormMatchRepository) LatestWinProbabilitySample(ctx context.Context, matchID uint) (*WinProbabilitySample, error) {
	return optional(r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("innings_number DESC, delivery_seq DESC"), &WinProbabilitySample{})
}
