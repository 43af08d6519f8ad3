package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "k=v")
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var last string
	for i := 0; i < 8; i++ {
		f, err := SetupLogFile(dir, 3, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		last = f.Name()
		require.NoError(t, f.Close())
	}
	files, err := filepath.Glob(filepath.Join(dir, "nag-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, files, last)

	_, err = os.Stat(filepath.Join(dir, "nag-2024-01-01T12-00-00.000.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFile_WritesSource(t *testing.T) {
	var buf bytes.Buffer
	NewFile(&buf, slog.LevelDebug).Debug("hello")
	assert.Contains(t, buf.String(), "logging_test.go:")
	assert.Contains(t, buf.String(), "msg=hello")
}
