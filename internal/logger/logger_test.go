package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	t.Run("explicit level and json", func(t *testing.T) {
		log := InitLogger("warn", "json", true)
		assert.Equal(t, logrus.WarnLevel, log.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
		assert.Same(t, log, GetLogger())
	})

	t.Run("development defaults to debug text", func(t *testing.T) {
		log := InitLogger("", "", true)
		assert.Equal(t, logrus.DebugLevel, log.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		log := InitLogger("loud", "", false)
		assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	})
}

func TestWithMatch(t *testing.T) {
	entry := WithMatch(Discard(), 42)
	assert.Equal(t, uint(42), entry.Data["match_id"])
}
