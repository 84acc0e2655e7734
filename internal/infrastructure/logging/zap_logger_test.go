package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrescamacho/tradeups-go/internal/application/common"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/config"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/logging"
)

func TestZapLogger_MapsLevelsAndFields(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core))

	// Act
	logger.Log(common.LevelDebug, "skipped", map[string]interface{}{"reason": "no_filler"})
	logger.Log(common.LevelWarn, "fallback price", nil)
	logger.Log(common.LevelError, "worker failed", map[string]interface{}{"worker_id": "w1"})
	logger.Log("whatever", "defaults to info", nil)

	// Assert
	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "no_filler", entries[0].ContextMap()["reason"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[3].Level)
}

func TestZapLogger_WithFieldsThroughContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := logging.NewZapLoggerFrom(zap.New(core))

	common.WithFields(base, map[string]interface{}{"run_id": "generate-r3-abc"}).
		Log(common.LevelInfo, "pass finished", map[string]interface{}{"results": 3})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "generate-r3-abc", fields["run_id"])
	assert.EqualValues(t, 3, fields["results"])
}

func TestNewZapLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradeups.log")
	logger, err := logging.NewZapLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Log(common.LevelInfo, "hello", nil)
	logger.Log(common.LevelDebug, "filtered", nil)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.NotContains(t, string(data), "filtered")
}

func TestNewZapLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.NewZapLogger(config.LoggingConfig{Level: "loud", Format: "json", Output: "stderr"})
	assert.Error(t, err)
}
