package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultJWTSecret = "your-very-strong-access-secret"

type Config struct {
	App struct {
		Env         string
		Port        string
		FrontendURL string
	}
	DB struct {
		Driver     string // postgres or sqlite
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SSLMode    string
		SQLitePath string
	}
	JWT struct {
		AccessTokenSecret string
	}
	Log struct {
		Level  string
		Format string
	}
	Redis struct {
		URL           string
		ChannelPrefix string
	}
	PubSub struct {
		ProjectID   string
		EventsTopic string
	}
	Slack struct {
		BotToken  string
		ChannelID string
	}
	Twilio struct {
		AccountSID    string
		AuthToken     string
		FromNumber    string
		NotifyNumbers []string
	}
	Scoring struct {
		MinSquadSize        int
		TrustCallerRotation bool
		ReconcileSchedule   string
	}
	RateLimit struct {
		PerSecond float64
		Burst     int
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8088")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "crickscore_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "crickscore.db")

	v.SetDefault("JWT_ACCESS_TOKEN_SECRET", defaultJWTSecret)
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_CHANNEL_PREFIX", "crickscore:")
	v.SetDefault("GCP_PROJECT", "")
	v.SetDefault("PUBSUB_EVENTS_TOPIC", "scoring-events")
	v.SetDefault("SLACK_BOT_TOKEN", "")
	v.SetDefault("SLACK_CHANNEL_ID", "")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_FROM_NUMBER", "")
	v.SetDefault("TWILIO_NOTIFY_NUMBERS", "")

	v.SetDefault("SCORING_MIN_SQUAD_SIZE", 4)
	v.SetDefault("SCORING_TRUST_CALLER_ROTATION", false)
	v.SetDefault("RECONCILE_SCHEDULE", "@every 5m")
	v.SetDefault("RATE_LIMIT_PER_SECOND", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// LoadConfig reads a .env file when present, then the environment.
// Environment variables always win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.App.Env = v.GetString("APP_ENV")
	cfg.App.Port = v.GetString("PORT")
	cfg.App.FrontendURL = v.GetString("FRONTEND_URL")

	cfg.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.SSLMode = v.GetString("DB_SSLMODE")
	cfg.DB.SQLitePath = v.GetString("SQLITE_PATH")

	cfg.JWT.AccessTokenSecret = v.GetString("JWT_ACCESS_TOKEN_SECRET")
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Format = v.GetString("LOG_FORMAT")

	cfg.Redis.URL = v.GetString("REDIS_URL")
	cfg.Redis.ChannelPrefix = v.GetString("REDIS_CHANNEL_PREFIX")
	cfg.PubSub.ProjectID = v.GetString("GCP_PROJECT")
	cfg.PubSub.EventsTopic = v.GetString("PUBSUB_EVENTS_TOPIC")
	cfg.Slack.BotToken = v.GetString("SLACK_BOT_TOKEN")
	cfg.Slack.ChannelID = v.GetString("SLACK_CHANNEL_ID")
	cfg.Twilio.AccountSID = v.GetString("TWILIO_ACCOUNT_SID")
	cfg.Twilio.AuthToken = v.GetString("TWILIO_AUTH_TOKEN")
	cfg.Twilio.FromNumber = v.GetString("TWILIO_FROM_NUMBER")
	cfg.Twilio.NotifyNumbers = splitTrimmed(v.GetString("TWILIO_NOTIFY_NUMBERS"))

	cfg.Scoring.MinSquadSize = v.GetInt("SCORING_MIN_SQUAD_SIZE")
	cfg.Scoring.TrustCallerRotation = v.GetBool("SCORING_TRUST_CALLER_ROTATION")
	cfg.Scoring.ReconcileSchedule = v.GetString("RECONCILE_SCHEDULE")
	cfg.RateLimit.PerSecond = v.GetFloat64("RATE_LIMIT_PER_SECOND")
	cfg.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DB.Driver)
	}
	if c.Scoring.MinSquadSize < 1 {
		return fmt.Errorf("SCORING_MIN_SQUAD_SIZE must be at least 1, got %d", c.Scoring.MinSquadSize)
	}
	if c.RateLimit.PerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}
	if c.JWT.AccessTokenSecret == defaultJWTSecret {
		if c.App.Env == "production" {
			return fmt.Errorf("JWT_ACCESS_TOKEN_SECRET must be set in production")
		}
		logrus.Warn("Using the default JWT secret. Set JWT_ACCESS_TOKEN_SECRET outside development.")
	}
	return nil
}

// PostgresDSN builds the postgres connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DB.Host,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.Port,
		c.DB.SSLMode,
	)
}

// ConnectDB opens the configured database and sets the global DB variable.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.Driver == "sqlite" {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = gormDB
	logrus.WithField("driver", cfg.DB.Driver).Info("Successfully connected to database")
	return gormDB, nil
}

// Initialize loads all configurations and connects to the database.
// This should be called once at the start of the application.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}

		if _, err = ConnectDB(*loadedCfg); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration. It panics if
// Initialize has not run.
func GetConfig() *Config {
	if appConfig == nil {
		panic("configuration not loaded: call config.Initialize() first")
	}
	return appConfig
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
