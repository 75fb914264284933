package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ErikLambrechts/fishpond/internal/config"
)

// setup initializes a fresh global logger writing to a buffer.
func setup(t *testing.T, cfg config.LoggerConfig) *bytes.Buffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)
	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

func TestJSONLogger(t *testing.T) {
	buf := setup(t, config.LoggerConfig{Level: "info", Format: "json", ServiceName: "fishpond"})

	GetLogger().Info("step done", zap.Int("step", 3))
	GetLogger().Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "fishpond", entry["logger"])
	assert.Equal(t, "step done", entry["msg"])
	assert.Equal(t, 3.0, entry["step"])
}

func TestConsoleLogger(t *testing.T) {
	buf := setup(t, config.LoggerConfig{
		Level:       "warn",
		Format:      "console",
		ServiceName: "fishpond",
		Colors:      config.ColorConfig{Warn: "yellow"},
	})

	GetLogger().Info("hidden")
	GetLogger().Warn("slow frame", zap.Float64("dt", 0.5))
	GetLogger().Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, colorYellow+"WARN"+colorReset)
	assert.Contains(t, out, "fishpond.")
	assert.Contains(t, out, "slow frame")
	assert.Contains(t, out, `"dt": 0.5`)
	// no color configured for errors
	assert.Contains(t, out, "\tERROR\t")
}

func TestBadLevelDefaultsToInfo(t *testing.T) {
	buf := setup(t, config.LoggerConfig{Level: "loud", Format: "json"})
	GetLogger().Debug("hidden")
	GetLogger().Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitializeOnce(t *testing.T) {
	buf := setup(t, config.LoggerConfig{Level: "info", Format: "json"})
	var other bytes.Buffer
	Initialize(config.LoggerConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&other))

	GetLogger().Info("first")
	assert.Contains(t, buf.String(), "first")
	assert.Empty(t, other.String())
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fishpond.log")
	setup(t, config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1})

	GetLogger().Info("to file", zap.String("k", "v"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "to file", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestFallbackLogger(t *testing.T) {
	ResetForTest()
	l := GetLogger()
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("fallback works") })
	assert.NotPanics(t, Sync)
}
