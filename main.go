package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/DhavalSuthar-24/crickscore/config"
	_ "github.com/DhavalSuthar-24/crickscore/docs"
	"github.com/DhavalSuthar-24/crickscore/internal/broadcast"
	"github.com/DhavalSuthar-24/crickscore/internal/gamification"
	"github.com/DhavalSuthar-24/crickscore/internal/jobs"
	"github.com/DhavalSuthar-24/crickscore/internal/logger"
	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/metrics"
	"github.com/DhavalSuthar-24/crickscore/internal/middleware"
	"github.com/DhavalSuthar-24/crickscore/internal/notifier"
	"github.com/DhavalSuthar-24/crickscore/internal/pubsub"
	"github.com/DhavalSuthar-24/crickscore/internal/standings"
	"github.com/DhavalSuthar-24/crickscore/internal/team"
	"github.com/DhavalSuthar-24/crickscore/routes"
)

// @title CrickScore live scoring API
// @version 1.0
// @description Ball-by-ball cricket scoring, live scorecards, win probability and points tables.
// @host localhost:8088
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	start := time.Now()

	if err := config.Initialize(); err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	cfg := config.GetConfig()
	log := logger.InitLogger(cfg.Log.Level, cfg.Log.Format, cfg.IsDevelopment())

	models := append(match.Models(), standings.Models()...)
	models = append(models, team.Models()...)
	if err := config.DB.AutoMigrate(models...); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Info("AutoMigrate successful")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := metrics.NewService()
	hub := broadcast.NewHub(log)
	go hub.Run(ctx)

	matchRepo := match.NewGormMatchRepository(config.DB)
	teamRepo := team.NewTeamRepository(config.DB)
	standingsSvc := standings.NewService(standings.NewGormStandingsRepository(config.DB), log)

	var broadcasters broadcast.Fanout
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		breaker := broadcast.NewBreaker("redis-events", broadcast.DefaultBreakerConfig(), log)
		broadcasters = append(broadcasters, broadcast.NewRedisPublisher(rdb, cfg.Redis.ChannelPrefix, breaker))
		relay := broadcast.NewRedisRelay(rdb, cfg.Redis.ChannelPrefix, hub, log)
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.WithError(err).Error("Redis relay stopped")
			}
		}()
	} else {
		broadcasters = append(broadcasters, hub)
	}

	var hooks []match.CompletionHook
	if cfg.PubSub.ProjectID != "" {
		psClient, err := pubsub.New(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			log.Fatalf("Failed to connect to Pub/Sub: %v", err)
		}
		defer psClient.Close()
		broadcasters = append(broadcasters, broadcast.NewPubSubPublisher(psClient, cfg.PubSub.EventsTopic))
		hooks = gamification.Hooks(matchRepo, psClient)
	} else {
		log.Info("GCP_PROJECT not set, Pub/Sub events and completion hooks disabled")
	}

	channels := []notifier.Channel{notifier.NewLog(log)}
	if cfg.Slack.BotToken != "" && cfg.Slack.ChannelID != "" {
		channels = append(channels, notifier.NewSlack(cfg.Slack.BotToken, cfg.Slack.ChannelID, metricsSvc, log))
	}
	if cfg.Twilio.AccountSID != "" && len(cfg.Twilio.NotifyNumbers) > 0 {
		sms, err := notifier.NewSMS(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.NotifyNumbers, metricsSvc, log)
		if err != nil {
			log.Fatalf("Invalid Twilio configuration: %v", err)
		}
		channels = append(channels, sms)
	}

	scoring := match.NewService(matchRepo, match.Dependencies{
		Squads:      teamRepo,
		Teams:       teamRepo,
		Broadcaster: broadcasters,
		Notifier:    notifier.New(teamRepo, log, channels...),
		Standings:   standingsSvc,
		Hooks:       hooks,
		Metrics:     metricsSvc,
		Logger:      log,
	}, match.Config{
		MinSquadSize:        cfg.Scoring.MinSquadSize,
		TrustCallerRotation: cfg.Scoring.TrustCallerRotation,
		CollaboratorTimeout: 30 * time.Second,
	})

	reconcileJob := jobs.NewReconcileJob(scoring, cfg.Scoring.ReconcileSchedule, log)
	if err := reconcileJob.Start(); err != nil {
		log.Fatalf("Failed to start reconcile job: %v", err)
	}

	r := routes.SetupRoutes(routes.Dependencies{
		FrontendURL: cfg.App.FrontendURL,
		JWTSecret:   cfg.JWT.AccessTokenSecret,
		Matches:     match.NewMatchController(scoring, log),
		Standings:   standings.NewStandingsController(standingsSvc, log),
		Teams:       team.NewTeamController(teamRepo, log),
		Hub:         hub,
		Metrics:     metrics.NewMetricsHandler(),
		Limiter:     middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
	})

	srv := &http.Server{Addr: ":" + cfg.App.Port, Handler: r}
	go func() {
		log.Infof("Starting server on port %s in %s mode", cfg.App.Port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()
	metricsSvc.SetStartupTime(time.Since(start).Seconds())

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	reconcileJob.Stop()
	scoring.Wait()
}
