package match

import (
	"time"

	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusLive      MatchStatus = "LIVE"
	StatusCompleted MatchStatus = "COMPLETED"
	StatusAbandoned MatchStatus = "ABANDONED"
)

type InningsStatus string

const (
	InningsInProgress InningsStatus = "IN_PROGRESS"
	InningsCompleted  InningsStatus = "COMPLETED"
)

type TossDecision string

const (
	TossBat  TossDecision = "bat"
	TossBowl TossDecision = "bowl"
)

func (d TossDecision) Valid() bool {
	return d == TossBat || d == TossBowl
}

// MatchFormat decides the default over quota of each innings.
type MatchFormat string

const (
	FormatT10    MatchFormat = "T10"
	FormatT20    MatchFormat = "T20"
	FormatODI    MatchFormat = "ODI"
	FormatCustom MatchFormat = "CUSTOM"
)

// DefaultOvers returns the over quota for the format, 0 for CUSTOM.
func (f MatchFormat) DefaultOvers() int {
	switch f {
	case FormatT10:
		return 10
	case FormatT20:
		return 20
	case FormatODI:
		return 50
	}
	return 0
}

func (f MatchFormat) Valid() bool {
	switch f {
	case FormatT10, FormatT20, FormatODI, FormatCustom:
		return true
	}
	return false
}

// WicketType for cricket dismissals
type WicketType string

const (
	WicketBowled      WicketType = "BOWLED"
	WicketCaught      WicketType = "CAUGHT"
	WicketLBW         WicketType = "LBW"
	WicketRunOut      WicketType = "RUN_OUT"
	WicketStumped     WicketType = "STUMPED"
	WicketHitWicket   WicketType = "HIT_WICKET"
	WicketHandledBall WicketType = "HANDLED_BALL"
	WicketObstructing WicketType = "OBSTRUCTING_FIELD"
	WicketTimedOut    WicketType = "TIMED_OUT"
	WicketRetiredHurt WicketType = "RETIRED_HURT"
	WicketRetiredOut  WicketType = "RETIRED_OUT"
)

func (w WicketType) Valid() bool {
	switch w {
	case WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped, WicketHitWicket,
		WicketHandledBall, WicketObstructing, WicketTimedOut, WicketRetiredHurt, WicketRetiredOut:
		return true
	}
	return false
}

// CreditedToBowler reports whether the bowler's wicket tally counts this dismissal.
func (w WicketType) CreditedToBowler() bool {
	switch w {
	case WicketBowled, WicketCaught, WicketLBW, WicketStumped, WicketHitWicket:
		return true
	}
	return false
}

// ExtraType for runs not scored off the bat
type ExtraType string

const (
	ExtraWide    ExtraType = "WIDE"
	ExtraNoBall  ExtraType = "NO_BALL"
	ExtraBye     ExtraType = "BYE"
	ExtraLegBye  ExtraType = "LEG_BYE"
	ExtraPenalty ExtraType = "PENALTY"
)

func (e ExtraType) Valid() bool {
	switch e {
	case ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye, ExtraPenalty:
		return true
	}
	return false
}

type MarginType string

const (
	MarginRuns    MarginType = "runs"
	MarginWickets MarginType = "wickets"
)

// Match is one scheduled fixture between two teams.
type Match struct {
	gorm.Model
	Team1ID      uint        `json:"team1_id" gorm:"index;not null"`
	Team2ID      uint        `json:"team2_id" gorm:"index;not null"`
	TournamentID *uint       `json:"tournament_id,omitempty" gorm:"index"`
	Venue        string      `json:"venue,omitempty"`
	ScheduledAt  time.Time   `json:"scheduled_at" gorm:"index"`
	Description  string      `json:"description,omitempty" gorm:"type:text"`
	Format       MatchFormat `json:"format" gorm:"not null;default:'T20'"`
	CustomOvers  *int        `json:"custom_overs,omitempty"` // overrides the format default
	IsAdHoc      bool        `json:"is_ad_hoc" gorm:"default:false"`
	Status       MatchStatus `json:"status" gorm:"index;not null;default:'SCHEDULED'"`

	// Toss
	TossWinnerID *uint        `json:"toss_winner_id,omitempty"`
	TossDecision TossDecision `json:"toss_decision,omitempty"`

	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CurrentInningsID *uint      `json:"current_innings_id,omitempty"`

	// Result, set only once COMPLETED
	WinnerID      *uint      `json:"winner_id,omitempty" gorm:"index"`
	WinMargin     *int       `json:"win_margin,omitempty"`
	WinMarginType MarginType `json:"win_margin_type,omitempty"`
	ResultText    string     `json:"result_text,omitempty"`
	ManOfMatchID  *uint      `json:"man_of_match_id,omitempty"`
}

// OversPerInnings is the over quota of each innings.
func (m *Match) OversPerInnings() int {
	if m.CustomOvers != nil && *m.CustomOvers > 0 {
		return *m.CustomOvers
	}
	if o := m.Format.DefaultOvers(); o > 0 {
		return o
	}
	return FormatT20.DefaultOvers()
}

func (m *Match) HasTeam(teamID uint) bool {
	return teamID != 0 && (teamID == m.Team1ID || teamID == m.Team2ID)
}

// Opponent returns the other side of the fixture.
func (m *Match) Opponent(teamID uint) uint {
	if teamID == m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

// SquadPlayer is an explicit squad entry, used by ad-hoc matches instead of team contracts.
type SquadPlayer struct {
	gorm.Model
	MatchID  uint `json:"match_id" gorm:"not null;uniqueIndex:idx_match_squad_player"`
	TeamID   uint `json:"team_id" gorm:"index;not null"`
	PlayerID uint `json:"player_id" gorm:"not null;uniqueIndex:idx_match_squad_player"`
}

// Innings is one team's batting session in a match.
type Innings struct {
	gorm.Model
	MatchID       uint          `json:"match_id" gorm:"index;not null;uniqueIndex:idx_match_innings_number"`
	InningsNumber int           `json:"innings_number" gorm:"not null;uniqueIndex:idx_match_innings_number"`
	BattingTeamID uint          `json:"batting_team_id" gorm:"not null"`
	BowlingTeamID uint          `json:"bowling_team_id" gorm:"not null"`
	Status        InningsStatus `json:"status" gorm:"index;not null;default:'IN_PROGRESS'"`

	TotalRuns    int            `json:"total_runs" gorm:"default:0"`
	TotalWickets int            `json:"total_wickets" gorm:"default:0"`
	LegalBalls   int            `json:"legal_balls" gorm:"default:0"`
	TotalOvers   cricmath.Overs `json:"total_overs" gorm:"type:varchar(16);default:'0.0'"`
	Extras       int            `json:"extras" gorm:"default:0"`
	Target       *int           `json:"target,omitempty"` // chase only

	// Scoring pointers, persisted so a scorer can resume after a disconnect.
	CurrentOverID       *uint `json:"current_over_id,omitempty"`
	CurrentStrikerID    *uint `json:"current_striker_id,omitempty"`
	CurrentNonStrikerID *uint `json:"current_non_striker_id,omitempty"`
	DeliveryCount       int   `json:"delivery_count" gorm:"default:0"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (Innings) TableName() string {
	return "innings"
}

// TargetReached reports whether a chase is over.
func (i *Innings) TargetReached() bool {
	return i.Target != nil && i.TotalRuns >= *i.Target
}

// Over is up to six legal deliveries from one bowler.
type Over struct {
	gorm.Model
	InningsID  uint `json:"innings_id" gorm:"not null;uniqueIndex:idx_innings_over_number"`
	OverNumber int  `json:"over_number" gorm:"not null;uniqueIndex:idx_innings_over_number"` // 0-based
	BowlerID   uint `json:"bowler_id" gorm:"index;not null"`
	Runs       int  `json:"runs" gorm:"default:0"`
	Wickets    int  `json:"wickets" gorm:"default:0"`
	LegalBalls int  `json:"legal_balls" gorm:"default:0"`
	Deliveries int  `json:"deliveries" gorm:"default:0"`
}

func (o *Over) IsComplete() bool {
	return o.LegalBalls >= cricmath.BallsPerOver
}

// ShotTelemetry is optional tracking data kept for visualisation only.
type ShotTelemetry struct {
	Angle      *float64    `json:"angle,omitempty"`
	Distance   *float64    `json:"distance,omitempty"`
	Zone       string      `json:"zone,omitempty"`
	Line       string      `json:"line,omitempty"`
	Length     string      `json:"length,omitempty"`
	Speed      *float64    `json:"speed,omitempty"`
	Trajectory [][]float64 `json:"trajectory,omitempty"`
}

// Ball is one immutable delivery.
type Ball struct {
	gorm.Model
	InningsID   uint           `json:"innings_id" gorm:"not null;uniqueIndex:idx_innings_delivery_seq"`
	OverID      uint           `json:"over_id" gorm:"index;not null"`
	DeliverySeq int            `json:"delivery_seq" gorm:"not null;uniqueIndex:idx_innings_delivery_seq"`
	OverNumber  int            `json:"over_number" gorm:"not null"`
	BallNumber  int            `json:"ball_number" gorm:"not null"` // 1-based, illegal deliveries repeat the next legal number
	IsLegal     bool           `json:"is_legal"`
	Phase       cricmath.Phase `json:"phase"`

	StrikerID    uint `json:"striker_id" gorm:"index;not null"`
	NonStrikerID uint `json:"non_striker_id" gorm:"not null"`
	BowlerID     uint `json:"bowler_id" gorm:"index;not null"`

	Runs int `json:"runs" gorm:"default:0"` // off the bat

	IsWicket          bool        `json:"is_wicket" gorm:"default:false"`
	WicketType        *WicketType `json:"wicket_type,omitempty"`
	DismissedPlayerID *uint       `json:"dismissed_player_id,omitempty"`
	WicketTakerID     *uint       `json:"wicket_taker_id,omitempty"`

	IsExtra   bool       `json:"is_extra" gorm:"default:false"`
	ExtraType *ExtraType `json:"extra_type,omitempty"`
	ExtraRuns int        `json:"extra_runs" gorm:"default:0"`

	Commentary    string         `json:"commentary,omitempty" gorm:"type:text"`
	StrikeChanged bool           `json:"strike_changed" gorm:"default:false"`
	Telemetry     datatypes.JSON `json:"telemetry,omitempty"`
}

// TotalRuns is what the delivery adds to the innings.
func (b *Ball) TotalRuns() int {
	if b.IsExtra {
		return b.Runs + b.ExtraRuns
	}
	return b.Runs
}

func (b *Ball) extraType() ExtraType {
	if !b.IsExtra || b.ExtraType == nil {
		return ""
	}
	return *b.ExtraType
}

func (b *Ball) wicketType() WicketType {
	if !b.IsWicket || b.WicketType == nil {
		return ""
	}
	return *b.WicketType
}

// BattingPerformance is one batsman's line in one innings.
type BattingPerformance struct {
	gorm.Model
	InningsID     uint        `json:"innings_id" gorm:"not null;uniqueIndex:idx_batting_innings_player"`
	PlayerID      uint        `json:"player_id" gorm:"not null;uniqueIndex:idx_batting_innings_player"`
	TeamID        uint        `json:"team_id" gorm:"index"`
	Runs          int         `json:"runs" gorm:"default:0"`
	BallsFaced    int         `json:"balls_faced" gorm:"default:0"`
	Fours         int         `json:"fours" gorm:"default:0"`
	Sixes         int         `json:"sixes" gorm:"default:0"`
	StrikeRate    float64     `json:"strike_rate" gorm:"default:0"`
	IsOut         bool        `json:"is_out" gorm:"default:false"`
	Dismissal     *WicketType `json:"dismissal,omitempty"`
	DismissedByID *uint       `json:"dismissed_by_id,omitempty"` // bowler, when credited
	FielderID     *uint       `json:"fielder_id,omitempty"`
}

// BowlingPerformance is one bowler's analysis in one innings.
type BowlingPerformance struct {
	gorm.Model
	InningsID    uint           `json:"innings_id" gorm:"not null;uniqueIndex:idx_bowling_innings_player"`
	PlayerID     uint           `json:"player_id" gorm:"not null;uniqueIndex:idx_bowling_innings_player"`
	TeamID       uint           `json:"team_id" gorm:"index"`
	BallsBowled  int            `json:"balls_bowled" gorm:"default:0"`
	OversBowled  cricmath.Overs `json:"overs_bowled" gorm:"type:varchar(16);default:'0.0'"`
	RunsConceded int            `json:"runs_conceded" gorm:"default:0"`
	Wickets      int            `json:"wickets" gorm:"default:0"`
	Maidens      int            `json:"maidens" gorm:"default:0"`
	Wides        int            `json:"wides" gorm:"default:0"`
	NoBalls      int            `json:"no_balls" gorm:"default:0"`
	DotBalls     int            `json:"dot_balls" gorm:"default:0"`
	EconomyRate  float64        `json:"economy_rate" gorm:"default:0"`
}

// WinProbabilitySample is the estimate taken after one delivery.
type WinProbabilitySample struct {
	gorm.Model
	MatchID          uint     `json:"match_id" gorm:"index;not null"`
	InningsID        uint     `json:"innings_id" gorm:"not null;uniqueIndex:idx_win_prob_delivery"`
	DeliverySeq      int      `json:"delivery_seq" gorm:"not null;uniqueIndex:idx_win_prob_delivery"`
	InningsNumber    int      `json:"innings_number"`
	OverNumber       int      `json:"over_number"`
	BallNumber       int      `json:"ball_number"`
	Team1Probability float64  `json:"team1_probability"`
	Team2Probability float64  `json:"team2_probability"`
	DrawProbability  float64  `json:"draw_probability"`
	Score            int      `json:"score"`
	Wickets          int      `json:"wickets"`
	Target           *int     `json:"target,omitempty"`
	BallsRemaining   int      `json:"balls_remaining"`
	RequiredRunRate  *float64 `json:"required_run_rate,omitempty"`
}

// Models lists every table owned by this package, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&Match{},
		&SquadPlayer{},
		&Innings{},
		&Over{},
		&Ball{},
		&BattingPerformance{},
		&BowlingPerformance{},
		&WinProbabilitySample{},
	}
}
