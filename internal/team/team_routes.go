package team

import "github.com/gin-gonic/gin"

// TeamRoutes sets up team routes. Reads are public; writes run behind guards.
func TeamRoutes(router *gin.RouterGroup, controller *TeamController, guards ...gin.HandlerFunc) {
	router.GET("/teams", controller.GetAllTeams)
	router.GET("/teams/:team_id", controller.GetTeamByID)
	router.GET("/teams/:team_id/members", controller.GetTeamMembers)

	authRoutes := router.Group("/teams")
	authRoutes.Use(guards...)
	{
		authRoutes.POST("", controller.CreateTeam)
		authRoutes.POST("/:team_id/members", controller.AddTeamMember)
		authRoutes.DELETE("/:team_id/members/:user_id", controller.RemoveTeamMember)
	}
}
