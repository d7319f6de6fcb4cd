package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(env map[string]string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range env {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.App.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 4, cfg.Scoring.MinSquadSize)
	assert.False(t, cfg.Scoring.TrustCallerRotation)
	assert.Equal(t, "@every 5m", cfg.Scoring.ReconcileSchedule)
	assert.Equal(t, "crickscore:", cfg.Redis.ChannelPrefix)
	assert.Equal(t, "scoring-events", cfg.PubSub.EventsTopic)
	assert.Empty(t, cfg.Twilio.NotifyNumbers)
	assert.Same(t, cfg, GetConfig())
}

func TestOverrides(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]string{
		"DB_DRIVER":                     "SQLite",
		"SQLITE_PATH":                   ":memory:",
		"SCORING_MIN_SQUAD_SIZE":        "11",
		"SCORING_TRUST_CALLER_ROTATION": "true",
		"TWILIO_NOTIFY_NUMBERS":         " +447700900001, ,+447700900002",
		"RATE_LIMIT_PER_SECOND":         "2.5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 11, cfg.Scoring.MinSquadSize)
	assert.True(t, cfg.Scoring.TrustCallerRotation)
	assert.Equal(t, []string{"+447700900001", "+447700900002"}, cfg.Twilio.NotifyNumbers)
	assert.Equal(t, 2.5, cfg.RateLimit.PerSecond)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"empty squad", map[string]string{"SCORING_MIN_SQUAD_SIZE": "0"}},
		{"no rate", map[string]string{"RATE_LIMIT_PER_SECOND": "0"}},
		{"default secret in production", map[string]string{"APP_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newTestViper(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestConnectSQLite(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]string{
		"APP_ENV":     "test",
		"DB_DRIVER":   "sqlite",
		"SQLITE_PATH": "file::memory:",
	}))
	require.NoError(t, err)

	db, err := ConnectDB(*cfg)
	require.NoError(t, err)
	assert.Same(t, db, DB)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestPostgresDSN(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]string{"DB_NAME": "scores", "DB_PASSWORD": "s3cret"}))
	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=postgres password=s3cret dbname=scores port=5432 sslmode=disable TimeZone=UTC", cfg.PostgresDSN())
}
