package match

import (
	"net/http"
	"strconv"

	responses "github.com/DhavalSuthar-24/crickscore/pkg/matchresponse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MatchController handles match and scoring HTTP requests
type MatchController struct {
	service *Service
	logger  *logrus.Logger
}

// NewMatchController creates a new match controller
func NewMatchController(service *Service, logger *logrus.Logger) *MatchController {
	return &MatchController{service: service, logger: logger}
}

// --- DTOs for requests ---

// AddSquadPlayerRequest defines the request payload for adding a player to a match squad
type AddSquadPlayerRequest struct {
	TeamID   uint `json:"team_id" binding:"required"`
	PlayerID uint `json:"player_id" binding:"required"`
}

// TossRequest defines the request payload for recording the toss
type TossRequest struct {
	TossWinnerID uint         `json:"toss_winner_id" binding:"required"`
	Decision     TossDecision `json:"decision" binding:"required,oneof=bat bowl"`
}

// StartInningsRequest defines the request payload for opening an innings
type StartInningsRequest struct {
	InningsNumber int `json:"innings_number" binding:"required,min=2"`
}

// RecordBallRequest defines the request payload for one delivery
type RecordBallRequest struct {
	BowlerID  uint      `json:"bowler_id" binding:"required"`
	StrikerID uint      `json:"striker_id" binding:"required"`
	Event     BallEvent `json:"event"`
}

// --- Helpers ---

func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// --- Match metadata ---

// CreateMatch godoc
// @Summary      Schedule a match
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        match  body      CreateMatchInput  true  "Match details"
// @Success      201    {object}  Match
// @Failure      400    {object}  map[string]string "Validation error"
// @Security     BearerAuth
// @Router       /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	var req CreateMatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.service.CreateMatch(c.Request.Context(), req)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Match created successfully",
		"match":   match,
	})
}

// GetMatches godoc
// @Summary      List matches
// @Tags         Matches
// @Produce      json
// @Param        status         query  string  false  "SCHEDULED, LIVE, COMPLETED or ABANDONED"
// @Param        tournament_id  query  int     false  "Tournament ID"
// @Param        team_id        query  int     false  "Team ID"
// @Param        page           query  int     false  "Page"
// @Param        page_size      query  int     false  "Page size"
// @Success      200  {array}   Match
// @Router       /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := MatchFilter{Status: MatchStatus(c.Query("status"))}
	if v, err := strconv.ParseUint(c.Query("tournament_id"), 10, 32); err == nil {
		filter.TournamentID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("team_id"), 10, 32); err == nil {
		filter.TeamID = uint(v)
	}

	matches, total, err := mc.service.ListMatches(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, matches, page, pageSize, total)
}

// GetMatchByID godoc
// @Summary      Get a match
// @Tags         Matches
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  Match
// @Failure      404  {object}  map[string]string "Match not found"
// @Router       /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	match, err := mc.service.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match retrieved successfully",
		"match":   match,
	})
}

// UpdateMatch godoc
// @Summary      Edit a scheduled match
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        id     path      int               true  "Match ID"
// @Param        match  body      UpdateMatchInput  true  "Fields to change"
// @Success      200    {object}  Match
// @Failure      409    {object}  map[string]string "Match is no longer scheduled"
// @Security     BearerAuth
// @Router       /matches/{id} [put]
func (mc *MatchController) UpdateMatch(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	var req UpdateMatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.service.UpdateMatch(c.Request.Context(), matchID, req)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match updated successfully",
		"match":   match,
	})
}

// DeleteMatch godoc
// @Summary      Delete a scheduled match
// @Tags         Matches
// @Param        id   path  int  true  "Match ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string "Match is no longer scheduled"
// @Security     BearerAuth
// @Router       /matches/{id} [delete]
func (mc *MatchController) DeleteMatch(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	if err := mc.service.DeleteMatch(c.Request.Context(), matchID); err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Match deleted successfully"})
}

// --- Squads ---

// AddSquadPlayer godoc
// @Summary      Add a player to a match squad
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        id      path      int                    true  "Match ID"
// @Param        player  body      AddSquadPlayerRequest  true  "Squad entry"
// @Success      201     {object}  SquadPlayer
// @Failure      422     {object}  map[string]string "Player already in a squad"
// @Security     BearerAuth
// @Router       /matches/{id}/squad [post]
func (mc *MatchController) AddSquadPlayer(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	var req AddSquadPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	player, err := mc.service.AddSquadPlayer(c.Request.Context(), matchID, req.TeamID, req.PlayerID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Player added to squad",
		"player":  player,
	})
}

// GetSquad godoc
// @Summary      Match squad list
// @Tags         Matches
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {array}   SquadPlayer
// @Router       /matches/{id}/squad [get]
func (mc *MatchController) GetSquad(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	squad, err := mc.service.ListSquad(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Squad retrieved successfully",
		"squad":   squad,
	})
}

// --- Lifecycle ---

// RecordToss godoc
// @Summary      Record the toss and start the match
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Match ID"
// @Param        toss  body      TossRequest  true  "Toss result"
// @Success      200   {object}  TossResult
// @Failure      409   {object}  map[string]string "Match is not scheduled"
// @Failure      422   {object}  map[string]string "Squad too small"
// @Security     BearerAuth
// @Router       /matches/{id}/toss [post]
func (mc *MatchController) RecordToss(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	var req TossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	result, err := mc.service.RecordToss(c.Request.Context(), matchID, req.TossWinnerID, req.Decision)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Toss recorded, match is live",
		"match":   result.Match,
		"innings": result.Innings,
	})
}

// StartInnings godoc
// @Summary      Start the next innings
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Match ID"
// @Param        innings  body      StartInningsRequest  true  "Innings number"
// @Success      201      {object}  Innings
// @Failure      409      {object}  map[string]string "Previous innings still open"
// @Security     BearerAuth
// @Router       /matches/{id}/innings [post]
func (mc *MatchController) StartInnings(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	var req StartInningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	innings, err := mc.service.StartInnings(c.Request.Context(), matchID, req.InningsNumber)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Innings started",
		"innings": innings,
	})
}

// RecordBall godoc
// @Summary      Record one delivery
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Innings ID"
// @Param        ball  body      RecordBallRequest  true  "Delivery"
// @Success      201   {object}  BallRecorded
// @Failure      400   {object}  map[string]string "Validation error"
// @Failure      404   {object}  map[string]string "Innings not found"
// @Failure      409   {object}  map[string]string "Innings is not in progress"
// @Security     BearerAuth
// @Router       /innings/{id}/balls [post]
func (mc *MatchController) RecordBall(c *gin.Context) {
	inningsID, ok := parseID(c, "id", "innings")
	if !ok {
		return
	}

	var req RecordBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	rec, err := mc.service.RecordBall(c.Request.Context(), inningsID, req.BowlerID, req.StrikerID, req.Event)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message":         "Ball recorded",
		"ball":            rec.Ball,
		"innings":         rec.Innings,
		"over":            rec.Over,
		"crease":          rec.Crease,
		"over_completed":  rec.OverCompleted,
		"innings_done":    rec.InningsDone,
		"win_probability": rec.WinProbability,
	})
}

// CompleteInnings godoc
// @Summary      Close an innings
// @Tags         Scoring
// @Produce      json
// @Param        id   path      int  true  "Innings ID"
// @Success      200  {object}  Innings
// @Failure      409  {object}  map[string]string "Innings already completed"
// @Security     BearerAuth
// @Router       /innings/{id}/complete [post]
func (mc *MatchController) CompleteInnings(c *gin.Context) {
	inningsID, ok := parseID(c, "id", "innings")
	if !ok {
		return
	}

	innings, err := mc.service.CompleteInnings(c.Request.Context(), inningsID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Innings completed",
		"innings": innings,
	})
}

// CompleteMatch godoc
// @Summary      Decide the result of a match
// @Tags         Scoring
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  MatchResult
// @Failure      409  {object}  map[string]string "Match is not ready for a result"
// @Security     BearerAuth
// @Router       /matches/{id}/complete [post]
func (mc *MatchController) CompleteMatch(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	result, err := mc.service.CompleteMatch(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match completed",
		"result":  result,
	})
}

// CancelMatch godoc
// @Summary      Abandon a match
// @Tags         Scoring
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  Match
// @Failure      409  {object}  map[string]string "Match already finished"
// @Security     BearerAuth
// @Router       /matches/{id}/cancel [post]
func (mc *MatchController) CancelMatch(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	match, err := mc.service.CancelMatch(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match abandoned",
		"match":   match,
	})
}

// --- Reads ---

// GetLiveScore godoc
// @Summary      Live scoreboard
// @Tags         Scores
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  LiveScore
// @Failure      404  {object}  map[string]string "Match not found"
// @Router       /matches/{id}/live [get]
func (mc *MatchController) GetLiveScore(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	live, err := mc.service.GetLiveScore(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, live)
}

// GetScorecard godoc
// @Summary      Full scorecard
// @Tags         Scores
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  Scorecard
// @Router       /matches/{id}/scorecard [get]
func (mc *MatchController) GetScorecard(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	card, err := mc.service.GetScorecard(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, card)
}

// GetWinProbabilityHistory godoc
// @Summary      Win probability after every delivery
// @Tags         Scores
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {array}   WinProbabilitySample
// @Router       /matches/{id}/win-probability [get]
func (mc *MatchController) GetWinProbabilityHistory(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	samples, err := mc.service.GetWinProbabilityHistory(c.Request.Context(), matchID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Win probability history retrieved successfully",
		"samples": samples,
	})
}

// CalculateWinProbability godoc
// @Summary      Win probability at a delivery
// @Tags         Scores
// @Produce      json
// @Param        id          path   int  true  "Match ID"
// @Param        innings_id  path   int  true  "Innings ID"
// @Param        over        query  int  true  "Over number (0-based)"
// @Param        ball        query  int  true  "Ball number (1-based)"
// @Success      200  {object}  WinProbabilitySample
// @Failure      404  {object}  map[string]string "Delivery not found"
// @Router       /matches/{id}/innings/{innings_id}/win-probability [get]
func (mc *MatchController) CalculateWinProbability(c *gin.Context) {
	matchID, ok := parseID(c, "id", "match")
	if !ok {
		return
	}
	inningsID, ok := parseID(c, "innings_id", "innings")
	if !ok {
		return
	}
	over, err := strconv.Atoi(c.Query("over"))
	if err != nil || over < 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid over number")
		return
	}
	ball, err := strconv.Atoi(c.Query("ball"))
	if err != nil || ball < 1 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid ball number")
		return
	}

	sample, err := mc.service.CalculateWinProbability(c.Request.Context(), matchID, inningsID, over, ball)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, sample)
}

// GetInnings godoc
// @Summary      Get an innings
// @Tags         Scores
// @Produce      json
// @Param        id   path      int  true  "Innings ID"
// @Success      200  {object}  Innings
// @Router       /innings/{id} [get]
func (mc *MatchController) GetInnings(c *gin.Context) {
	inningsID, ok := parseID(c, "id", "innings")
	if !ok {
		return
	}

	innings, err := mc.service.GetInnings(c.Request.Context(), inningsID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Innings retrieved successfully",
		"innings": innings,
	})
}

// GetBalls godoc
// @Summary      Ball-by-ball log of an innings
// @Tags         Scores
// @Produce      json
// @Param        id   path      int  true  "Innings ID"
// @Success      200  {array}   Ball
// @Router       /innings/{id}/balls [get]
func (mc *MatchController) GetBalls(c *gin.Context) {
	inningsID, ok := parseID(c, "id", "innings")
	if !ok {
		return
	}

	balls, err := mc.service.GetBalls(c.Request.Context(), inningsID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Balls retrieved successfully",
		"balls":   balls,
	})
}

// ReconcileInnings godoc
// @Summary      Audit an innings against its ball log
// @Tags         Admin
// @Produce      json
// @Param        id   path      int  true  "Innings ID"
// @Success      200  {object}  ReconcileReport
// @Security     BearerAuth
// @Router       /admin/innings/{id}/reconcile [get]
func (mc *MatchController) ReconcileInnings(c *gin.Context) {
	inningsID, ok := parseID(c, "id", "innings")
	if !ok {
		return
	}

	report, err := mc.service.Reconcile(c.Request.Context(), inningsID)
	if err != nil {
		responses.DomainErrorResponse(c, mc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, report)
}
