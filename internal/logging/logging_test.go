package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/eddiefleurent/tradelog/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.EnvironmentConfig
		level     logrus.Level
		formatter logrus.Formatter
	}{
		{"defaults", config.EnvironmentConfig{}, logrus.InfoLevel, &logrus.TextFormatter{}},
		{"debug text", config.EnvironmentConfig{LogLevel: "debug", LogFormat: "text"}, logrus.DebugLevel, &logrus.TextFormatter{}},
		{"warn json", config.EnvironmentConfig{LogLevel: "warn", LogFormat: "json"}, logrus.WarnLevel, &logrus.JSONFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.level, logger.GetLevel())
			assert.IsType(t, tt.formatter, logger.Formatter)
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(config.EnvironmentConfig{LogLevel: "loud"})
	assert.Error(t, err)

	_, err = New(config.EnvironmentConfig{LogLevel: "info", LogFormat: "xml"})
	assert.Error(t, err)
}

func TestNew_JSONFields(t *testing.T) {
	logger, err := New(config.EnvironmentConfig{LogLevel: "info", LogFormat: "json"})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.WithFields(logrus.Fields{"reason": "no_price", "input": "BUY +1 SPY"}).Warn("trade rejected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "no_price", entry["reason"])
	assert.Equal(t, "BUY +1 SPY", entry["input"])
	assert.Equal(t, "trade rejected", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
}
