package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *Team) error
	GetTeamByID(ctx context.Context, id uint) (*Team, error)
	GetAllTeams(ctx context.Context, page, limit int) ([]Team, int64, error)

	AddTeamMember(ctx context.Context, member *TeamMember) error
	GetTeamMembers(ctx context.Context, teamID uint) ([]TeamMember, error)
	RemoveTeamMember(ctx context.Context, teamID, userID uint) error
	CountActiveMembers(ctx context.Context, teamID uint) (int64, error)
	TeamName(ctx context.Context, teamID uint) (string, error)
	ClearCaptain(ctx context.Context, teamID uint) error

	WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// --- Team Operations ---

func (r *teamRepository) CreateTeam(ctx context.Context, team *Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetTeamByID(ctx context.Context, id uint) (*Team, error) {
	var team Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("team", id)
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetAllTeams(ctx context.Context, page, limit int) ([]Team, int64, error) {
	var teams []Team
	var total int64
	query := r.db.WithContext(ctx).Model(&Team{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// --- TeamMember Operations ---

// AddTeamMember creates a contract or reactivates an existing one
func (r *teamRepository) AddTeamMember(ctx context.Context, member *TeamMember) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "is_active", "is_captain", "jersey_number", "updated_at"}),
	}).Create(member).Error
}

func (r *teamRepository) GetTeamMembers(ctx context.Context, teamID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Order("created_at asc").
		Find(&members).Error
	return members, err
}

// RemoveTeamMember ends a contract without deleting its history
func (r *teamRepository) RemoveTeamMember(ctx context.Context, teamID, userID uint) error {
	return r.db.WithContext(ctx).Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("is_active", false).Error
}

// ClearCaptain demotes whoever currently captains the team.
func (r *teamRepository) ClearCaptain(ctx context.Context, teamID uint) error {
	return r.db.WithContext(ctx).Model(&TeamMember{}).
		Where("team_id = ? AND is_captain = ?", teamID, true).
		Updates(map[string]interface{}{"is_captain": false, "role": RolePlayer}).Error
}

func (r *teamRepository) CountActiveMembers(ctx context.Context, teamID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TeamMember{}).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count members of team %d: %w", teamID, err)
	}
	return count, nil
}

// TeamName returns the display name, falling back to "Team <id>" for unknown teams
func (r *teamRepository) TeamName(ctx context.Context, teamID uint) (string, error) {
	var team Team
	err := r.db.WithContext(ctx).Select("id", "name").First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Sprintf("Team %d", teamID), nil
		}
		return "", err
	}
	return team.Name, nil
}

func (r *teamRepository) WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := txFunc(&teamRepository{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// SignMember adds or reactivates a contract on an existing team. A new
// captain replaces the previous one; nothing is written if any step fails.
func SignMember(ctx context.Context, repo TeamRepository, member *TeamMember) error {
	return repo.WithTransaction(ctx, func(tx TeamRepository) error {
		if _, err := tx.GetTeamByID(ctx, member.TeamID); err != nil {
			return err
		}
		if member.IsCaptain {
			if err := tx.ClearCaptain(ctx, member.TeamID); err != nil {
				return fmt.Errorf("clear captain of team %d: %w", member.TeamID, err)
			}
		}
		if err := tx.AddTeamMember(ctx, member); err != nil {
			return fmt.Errorf("add member %d to team %d: %w", member.UserID, member.TeamID, err)
		}
		return nil
	})
}
