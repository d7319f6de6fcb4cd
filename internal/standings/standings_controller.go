package standings

import (
	"net/http"
	"strconv"

	responses "github.com/DhavalSuthar-24/crickscore/pkg/matchresponse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StandingsController handles points-table HTTP requests
type StandingsController struct {
	service *Service
	logger  *logrus.Logger
}

func NewStandingsController(service *Service, logger *logrus.Logger) *StandingsController {
	return &StandingsController{service: service, logger: logger}
}

// GetPointsTable godoc
// @Summary      Tournament points table
// @Description  Entries ordered by points, then net run rate.
// @Tags         Standings
// @Produce      json
// @Param        id   path      int  true  "Tournament ID"
// @Success      200  {array}   PointsTableEntry
// @Failure      400  {object}  map[string]string "Invalid tournament ID"
// @Failure      500  {object}  map[string]string "Internal server error"
// @Router       /tournaments/{id}/points-table [get]
func (sc *StandingsController) GetPointsTable(c *gin.Context) {
	tournamentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || tournamentID == 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid tournament ID")
		return
	}

	entries, err := sc.service.GetPointsTable(c.Request.Context(), uint(tournamentID))
	if err != nil {
		responses.DomainErrorResponse(c, sc.logger, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message":       "Points table retrieved successfully",
		"tournament_id": tournamentID,
		"entries":       entries,
	})
}
