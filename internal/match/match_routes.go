package match

import "github.com/gin-gonic/gin"

// MatchRoutes sets up all match and scoring routes. Reads are public; the
// scorer group carries auth, role and rate-limit guards, the admin group
// its own.
func MatchRoutes(router *gin.RouterGroup, controller *MatchController, scorerGuards, adminGuards []gin.HandlerFunc) {
	router.GET("/matches", controller.GetMatches)
	router.GET("/matches/:id", controller.GetMatchByID)
	router.GET("/matches/:id/squad", controller.GetSquad)
	router.GET("/matches/:id/live", controller.GetLiveScore)
	router.GET("/matches/:id/scorecard", controller.GetScorecard)
	router.GET("/matches/:id/win-probability", controller.GetWinProbabilityHistory)
	router.GET("/matches/:id/innings/:innings_id/win-probability", controller.CalculateWinProbability)
	router.GET("/innings/:id", controller.GetInnings)
	router.GET("/innings/:id/balls", controller.GetBalls)

	scoring := router.Group("")
	scoring.Use(scorerGuards...)
	{
		scoring.POST("/matches", controller.CreateMatch)
		scoring.PUT("/matches/:id", controller.UpdateMatch)
		scoring.DELETE("/matches/:id", controller.DeleteMatch)
		scoring.POST("/matches/:id/squad", controller.AddSquadPlayer)
		scoring.POST("/matches/:id/toss", controller.RecordToss)
		scoring.POST("/matches/:id/innings", controller.StartInnings)
		scoring.POST("/matches/:id/complete", controller.CompleteMatch)
		scoring.POST("/matches/:id/cancel", controller.CancelMatch)
		scoring.POST("/innings/:id/balls", controller.RecordBall)
		scoring.POST("/innings/:id/complete", controller.CompleteInnings)
	}

	admin := router.Group("/admin")
	admin.Use(adminGuards...)
	{
		admin.GET("/innings/:id/reconcile", controller.ReconcileInnings)
	}
}
