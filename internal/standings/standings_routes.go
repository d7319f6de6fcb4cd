package standings

import "github.com/gin-gonic/gin"

// StandingsRoutes sets up the public points-table routes.
func StandingsRoutes(router *gin.RouterGroup, controller *StandingsController) {
	tournamentRoutes := router.Group("/tournaments")
	{
		tournamentRoutes.GET("/:id/points-table", controller.GetPointsTable)
	}
}
