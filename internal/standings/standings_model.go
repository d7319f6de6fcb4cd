package standings

import (
	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
	"gorm.io/gorm"
)

// PointsTableEntry is one team's line in a tournament table.
type PointsTableEntry struct {
	gorm.Model
	TournamentID uint `json:"tournament_id" gorm:"not null;uniqueIndex:idx_points_tournament_team"`
	TeamID       uint `json:"team_id" gorm:"not null;uniqueIndex:idx_points_tournament_team"`
	Played       int  `json:"played" gorm:"default:0"`
	Won          int  `json:"won" gorm:"default:0"`
	Lost         int  `json:"lost" gorm:"default:0"`
	Points       int  `json:"points" gorm:"default:0"`

	// Runs and legal balls while batting (for) and bowling (against).
	RunsFor      int            `json:"runs_for" gorm:"default:0"`
	BallsFor     int            `json:"balls_for" gorm:"default:0"`
	OversFor     cricmath.Overs `json:"overs_for" gorm:"type:varchar(16);default:'0.0'"`
	RunsAgainst  int            `json:"runs_against" gorm:"default:0"`
	BallsAgainst int            `json:"balls_against" gorm:"default:0"`
	OversAgainst cricmath.Overs `json:"overs_against" gorm:"type:varchar(16);default:'0.0'"`
	NetRunRate   float64        `json:"net_run_rate" gorm:"default:0"`
}

// AppliedResult marks a match whose result is already in the table.
type AppliedResult struct {
	gorm.Model
	MatchID      uint `json:"match_id" gorm:"not null;uniqueIndex"`
	TournamentID uint `json:"tournament_id" gorm:"index;not null"`
}

// Models lists every table owned by this package, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&PointsTableEntry{}, &AppliedResult{}}
}
