package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mrlokans/bookshelf/internal/config"
)

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.log")

	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Info("import finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"import finished"`)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Level(t *testing.T) {
	logger, err := New(Options{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	logger, err := NewFromConfig(nil)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = NewFromConfig(&config.Config{Log: config.Log{Level: "error", Format: "console"}})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
}
