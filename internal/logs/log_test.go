package logs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"hansa-teutonica/internal/config"
)

func TestSetRoutesHelpers(t *testing.T) {
	core, logged := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Info("route claimed", zap.Int("route", 3))
	Warn("pool empty")

	entries := logged.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "route claimed", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["route"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hansa.log")
	require.NoError(t, Init("test", config.LogConfig{Level: "debug", FileDir: path}))
	t.Cleanup(func() { Set(nil) })

	Info("hello")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
