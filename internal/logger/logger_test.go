package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"gamemaster-server/internal/logger"
)

func TestNewDefaultsToInfoJSON(t *testing.T) {
	log, err := logger.New(logger.Config{})
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel), "debug must be disabled by default")
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel), "info must be enabled by default")
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "shout"})
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNewWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	log, err := logger.New(logger.Config{Level: "info", Encoding: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("started")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"started"`)
	assert.Contains(t, string(data), `"INFO"`)
}
