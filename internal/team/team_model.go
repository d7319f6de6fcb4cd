package team

import (
	"time"

	"gorm.io/gorm"
)

const (
	RolePlayer  = "player"
	RoleCaptain = "captain"
)

// Team represents a cricket side
type Team struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	ShortName   string `json:"short_name,omitempty" gorm:"size:8"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	CreatedByID uint   `json:"created_by_id" gorm:"index"`
}

// TeamMember is a player's contract with a team. Only active contracts
// count towards a match squad.
type TeamMember struct {
	gorm.Model
	TeamID       uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_team_member"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_team_member"`
	Role         string    `json:"role" gorm:"default:'player'"`
	JoinedAt     time.Time `json:"joined_at"`
	IsActive     bool      `json:"is_active"`
	IsCaptain    bool      `json:"is_captain"`
	JerseyNumber int       `json:"jersey_number,omitempty"`
}

// Models lists every table owned by this package, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&Team{}, &TeamMember{}}
}
