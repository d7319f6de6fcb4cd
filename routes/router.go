package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/DhavalSuthar-24/crickscore/internal/broadcast"
	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/middleware"
	"github.com/DhavalSuthar-24/crickscore/internal/standings"
	"github.com/DhavalSuthar-24/crickscore/internal/team"
	"github.com/DhavalSuthar-24/crickscore/pkg/rmiddleware"
)

// Dependencies are the handlers and settings the HTTP surface is built from.
type Dependencies struct {
	FrontendURL string
	JWTSecret   string

	Matches   *match.MatchController
	Standings *standings.StandingsController
	Teams     *team.TeamController
	Hub       *broadcast.Hub
	Metrics   http.Handler
	Limiter   *middleware.RateLimiter
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{deps.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`
			<html>
				<head><title>CrickScore</title></head>
				<body style="text-align:center; margin-top: 40px;">
				<h1>CrickScore live scoring 🏏</h1>
				<div><a href="/swagger/index.html">API documentation</a></div>
				</body>
			</html>
		`))
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}
	if deps.Hub != nil {
		r.GET("/ws/matches/:id", deps.Hub.HandleWebSocket)
	}

	auth := middleware.AuthMiddleware(deps.JWTSecret)
	scorerGuards := []gin.HandlerFunc{auth, rmiddleware.ScorerMiddleware()}
	if deps.Limiter != nil {
		scorerGuards = append(scorerGuards, deps.Limiter.Middleware())
	}
	adminGuards := []gin.HandlerFunc{auth, rmiddleware.AdminMiddleware()}

	// API routes
	api := r.Group("/api/v1")
	match.MatchRoutes(api, deps.Matches, scorerGuards, adminGuards)
	if deps.Standings != nil {
		standings.StandingsRoutes(api, deps.Standings)
	}
	if deps.Teams != nil {
		team.TeamRoutes(api, deps.Teams, adminGuards...)
	}

	return r
}
