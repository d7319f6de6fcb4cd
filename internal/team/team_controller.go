package team

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/middleware"
	responses "github.com/DhavalSuthar-24/crickscore/pkg/matchresponse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TeamController handles team and contract HTTP requests
type TeamController struct {
	repo   TeamRepository
	logger *logrus.Logger
}

func NewTeamController(repo TeamRepository, logger *logrus.Logger) *TeamController {
	return &TeamController{repo: repo, logger: logger}
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	ShortName   string `json:"short_name" binding:"max=8"`
	Description string `json:"description" binding:"max=1000"`
	Logo        string `json:"logo"`
}

type AddMemberRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	Role         string `json:"role" binding:"omitempty,oneof=player captain"`
	JerseyNumber int    `json:"jersey_number" binding:"min=0,max=999"`
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// CreateTeam godoc
// @Summary      Create a team
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        team  body      CreateTeamRequest  true  "Team details"
// @Success      201   {object}  Team
// @Failure      400   {object}  map[string]string "Validation error"
// @Security     BearerAuth
// @Router       /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	team := Team{
		Name:        req.Name,
		ShortName:   req.ShortName,
		Description: req.Description,
		Logo:        req.Logo,
		CreatedByID: userID,
	}
	if err := tc.repo.CreateTeam(c.Request.Context(), &team); err != nil {
		responses.DomainErrorResponse(c, tc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeamByID godoc
// @Summary      Get a team
// @Tags         Teams
// @Produce      json
// @Param        team_id  path      int  true  "Team ID"
// @Success      200      {object}  Team
// @Failure      404      {object}  map[string]string "Team not found"
// @Router       /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := parseID(c, "team_id")
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(c.Request.Context(), teamID)
	if err != nil {
		responses.DomainErrorResponse(c, tc.logger, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, team)
}

// GetAllTeams godoc
// @Summary      List teams
// @Tags         Teams
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200    {array}  Team
// @Router       /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	teams, total, err := tc.repo.GetAllTeams(c.Request.Context(), page, limit)
	if err != nil {
		responses.DomainErrorResponse(c, tc.logger, err)
		return
	}
	responses.PaginatedResponse(c, http.StatusOK, teams, page, limit, total)
}

// AddTeamMember godoc
// @Summary      Sign a player to a team
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        team_id  path      int               true  "Team ID"
// @Param        member   body      AddMemberRequest  true  "Contract details"
// @Success      201      {object}  TeamMember
// @Failure      404      {object}  map[string]string "Team not found"
// @Security     BearerAuth
// @Router       /teams/{team_id}/members [post]
func (tc *TeamController) AddTeamMember(c *gin.Context) {
	teamID, ok := parseID(c, "team_id")
	if !ok {
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}
	role := req.Role
	if role == "" {
		role = RolePlayer
	}
	member := TeamMember{
		TeamID:       teamID,
		UserID:       req.UserID,
		Role:         role,
		IsCaptain:    role == RoleCaptain,
		IsActive:     true,
		JoinedAt:     time.Now(),
		JerseyNumber: req.JerseyNumber,
	}
	if err := SignMember(c.Request.Context(), tc.repo, &member); err != nil {
		responses.DomainErrorResponse(c, tc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Player added to team",
		"member":  member,
	})
}

// GetTeamMembers godoc
// @Summary      Active contracts of a team
// @Tags         Teams
// @Produce      json
// @Param        team_id  path  int  true  "Team ID"
// @Success      200      {array}  TeamMember
// @Router       /teams/{team_id}/members [get]
func (tc *TeamController) GetTeamMembers(c *gin.Context) {
	teamID, ok := parseID(c, "team_id")
	if !ok {
		return
	}
	members, err := tc.repo.GetTeamMembers(c.Request.Context(), teamID)
	if err != nil {
		responses.DomainErrorResponse(c, tc.logger, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, members)
}

// RemoveTeamMember godoc
// @Summary      End a player's contract
// @Tags         Teams
// @Param        team_id  path  int  true  "Team ID"
// @Param        user_id  path  int  true  "Player ID"
// @Success      200
// @Security     BearerAuth
// @Router       /teams/{team_id}/members/{user_id} [delete]
func (tc *TeamController) RemoveTeamMember(c *gin.Context) {
	teamID, ok := parseID(c, "team_id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	if err := tc.repo.RemoveTeamMember(c.Request.Context(), teamID, userID); err != nil {
		responses.DomainErrorResponse(c, tc.logger, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Player removed from team"})
}
