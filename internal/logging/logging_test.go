package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath_FollowsXDGState(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	assert.Equal(t, filepath.Join(state, "appcli", "logs"), DefaultLogDir())
	assert.Equal(t, filepath.Join(state, "appcli", "logs", "appcli.log"), DefaultLogPath())
}

func TestResolvePath(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	tests := []struct {
		setting string
		want    string
	}{
		{"", ""},
		{AutoPath, filepath.Join(state, "appcli", "logs", "appcli.log")},
		{"/var/log/appcli.log", "/var/log/appcli.log"},
		{"var/log/appcli.log", filepath.Join("/srv/app", "var", "log", "appcli.log")},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.setting, "/srv/app"))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Level)
	assert.Empty(t, cfg.FilePath)
	assert.Equal(t, 10, cfg.MaxSizeMB)
	assert.Equal(t, 5, cfg.MaxFiles)
}

func TestSetup_StderrOnly(t *testing.T) {
	// Given: no log file
	stderr := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Stderr = stderr

	// When: logging at several levels
	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	defer cleanup()
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	// Then: warn level text on stderr
	out := stderr.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=v")
}

func TestSetup_FileReceivesJSONAndStderrOnlyWarnings(t *testing.T) {
	// Given: a debug file logger
	stderr := &bytes.Buffer{}
	logPath := filepath.Join(t.TempDir(), "logs", "appcli.log")
	cfg := Config{Level: "debug", FilePath: logPath, MaxSizeMB: 1, MaxFiles: 2, Stderr: stderr}

	// When: logging
	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	logger.With(slog.String("run", "1")).Debug("probe started")
	logger.Error("init failed")
	cleanup()

	// Then: the file has both as JSON, stderr only the error
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"probe started"`)
	assert.Contains(t, lines[0], `"run":"1"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)

	assert.NotContains(t, stderr.String(), "probe started")
	assert.Contains(t, stderr.String(), "init failed")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelWarn,
		"":      slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestRotatingWriter_Rotation(t *testing.T) {
	// Given: a writer that rotates on every write past the first
	logPath := filepath.Join(t.TempDir(), "rotate.log")
	w, err := NewRotatingWriter(logPath, 0, 3)
	require.NoError(t, err)
	defer w.Close()

	// When: writing twice
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	// Then: the old content moved to .1
	current, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(current))
	rotated, err := os.ReadFile(logPath + ".1")
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(rotated))
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "maxfiles.log")
	w, err := NewRotatingWriter(logPath, 0, 2)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 6; i++ {
		_, err := fmt.Fprintf(w, "line %d\n", i)
		require.NoError(t, err)
	}

	assert.FileExists(t, logPath+".1")
	assert.FileExists(t, logPath+".2")
	assert.NoFileExists(t, logPath+".3")
}

func TestRotatingWriter_AppendsToExistingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "existing.log")
	require.NoError(t, os.WriteFile(logPath, []byte("old\n"), 0o644))

	w, err := NewRotatingWriter(logPath, 1, 3)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")
	w, err := NewRotatingWriter(logPath, 10, 3)
	require.NoError(t, err)
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = fmt.Fprintf(w, `{"id":%d,"iter":%d}`+"\n", id, j)
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Sync())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1000, strings.Count(string(data), "\n"))
}
